package gadgets

import (
	"fmt"

	"github.com/consensys/gnark/frontend"
)

// RabinSquareMod is the in-circuit counterpart of rabin.Param.Encrypt: it
// checks, purely in terms of base-2^BitSize limbs, that
//
//	Preimage^2 = Quotient*Modulus + Cypher
//
// as an exact integer equation — not merely modulo BN254's scalar field,
// which is far smaller than a 2048-bit Rabin modulus. Grounded on
// original_source/lib/src/vanilla/rabin.rs's limb layout; the constraint
// technique itself (schoolbook column convolution with witnessed,
// range-checked carries) is the standard way SNARK circuits verify
// multi-precision arithmetic without a native bigint type, since a
// column's raw product sum would otherwise silently wrap the field
// modulus and a naive single field multiplication can't represent a value
// wider than one field element at all.
//
// Carries is supplied by the prover (via rabin.Param.ComputeCarries) and
// checked, not trusted: each carry is range-checked to CarryBits+1 bits
// after adding CarryBias, and every column's algebraic identity is
// asserted. An honest witness satisfies every assertion; a dishonest one
// cannot, because the only freedom left to the prover after fixing
// Preimage/Quotient/Cypher is the carries, and the column equations pin
// those uniquely.
type RabinSquareMod struct {
	Preimage []frontend.Variable // n limbs, low to high
	Quotient []frontend.Variable // n limbs, low to high
	Cypher   []frontend.Variable // n limbs, low to high (zero above the remainder's true limb count)
	Modulus  []frontend.Variable // n limbs, low to high; circuit constants
	Carries  []frontend.Variable // 2n-2 entries, column 0..2n-3's carry-out
}

// Check enforces every column's convolution identity. Columns run
// 0..2n-2; the final column (2n-2) must carry out exactly zero, which is
// enforced directly rather than appearing in Carries.
//
// base is 2^BitSize; carryBiasValue and carryBitsPlusOne come from
// rabin.Param.CarryBias/CarryBits — both circuit constants derived from
// the same configuration the native half (rabin.Param.ComputeCarries)
// used to produce Carries, so an honest witness always satisfies this.
func (g *RabinSquareMod) Check(api frontend.API, base, carryBiasValue frontend.Variable, carryBitsPlusOne int) error {
	n := len(g.Modulus)
	if len(g.Preimage) != n || len(g.Quotient) != n || len(g.Cypher) != n {
		return fmt.Errorf("gadgets: rabin limb count mismatch: preimage=%d quotient=%d cypher=%d modulus=%d",
			len(g.Preimage), len(g.Quotient), len(g.Cypher), n)
	}
	if len(g.Carries) != 2*n-2 {
		return fmt.Errorf("gadgets: rabin expected %d carries, got %d", 2*n-2, len(g.Carries))
	}

	var carryIn frontend.Variable = 0
	for k := 0; k <= 2*n-2; k++ {
		lo, hi := columnRange(k, n)
		lhs := frontend.Variable(0)
		for i := lo; i <= hi; i++ {
			j := k - i
			lhs = api.Add(lhs, api.Mul(g.Preimage[i], g.Preimage[j]))
		}
		rhs := frontend.Variable(0)
		for i := lo; i <= hi; i++ {
			j := k - i
			rhs = api.Add(rhs, api.Mul(g.Quotient[i], g.Modulus[j]))
		}
		if k < n {
			rhs = api.Add(rhs, g.Cypher[k])
		}
		t := api.Add(api.Sub(lhs, rhs), carryIn)

		if k == 2*n-2 {
			api.AssertIsEqual(t, 0)
			break
		}

		carryOut := g.Carries[k]
		biased := api.Add(carryOut, carryBiasValue)
		api.ToBinary(biased, carryBitsPlusOne)
		api.AssertIsEqual(t, api.Mul(carryOut, base))
		carryIn = carryOut
	}
	return nil
}

// DecomposeToLimbs splits v into numLimbs base-2^bitSize limbs, least
// significant first, the in-circuit counterpart of rabin's decomposeLimbs.
// Used to bind a Rabin preimage's high limbs to a field element (e.g. a
// withdraw's nullifier) the prover doesn't get to choose freely.
func DecomposeToLimbs(api frontend.API, v frontend.Variable, numLimbs, bitSize int) []frontend.Variable {
	bitsTotal := api.ToBinary(v, numLimbs*bitSize)
	limbs := make([]frontend.Variable, numLimbs)
	for i := 0; i < numLimbs; i++ {
		limb := frontend.Variable(0)
		coeff := frontend.Variable(1)
		for j := 0; j < bitSize; j++ {
			bit := bitsTotal[i*bitSize+j]
			limb = api.Add(limb, api.Mul(bit, coeff))
			coeff = api.Mul(coeff, 2)
		}
		limbs[i] = limb
	}
	return limbs
}

// columnRange mirrors rabin.columnRange: the inclusive [lo,hi] range of i
// such that both i and k-i are valid limb indices in [0,n).
func columnRange(k, n int) (lo, hi int) {
	lo = 0
	if k-n+1 > lo {
		lo = k - n + 1
	}
	hi = k
	if n-1 < hi {
		hi = n - 1
	}
	return lo, hi
}
