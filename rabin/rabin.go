// Package rabin implements the optional Rabin-encryption side channel: a
// deposit's nullifier preimage is padded out to a fixed limb layout,
// squared modulo a large public modulus, and the quotient/remainder are
// re-expressed as small limbs so a circuit can check the squaring without
// ever doing big-integer modular reduction in-circuit.
//
// Used by the separately compiled withdraw.Full circuit; see
// gadgets.RabinSquareMod for the circuit-side half of this computation.
package rabin

import (
	"errors"
	"math/big"
	"math/bits"

	"github.com/holiman/uint256"
)

var (
	// ErrBatchMismatch is returned by NewParam when ModulusLen is not a
	// multiple of CypherBatch, so the ciphertext can't be re-batched into
	// whole field elements.
	ErrBatchMismatch = errors.New("rabin: modulus length is not a multiple of cypher batch")
	// ErrModulusTooLarge is returned when the modulus does not fit in
	// ModulusLen limbs of BitSize bits.
	ErrModulusTooLarge = errors.New("rabin: modulus does not fit the configured limb layout")
	// ErrLimbOverflow is returned when a decomposed limb would not fit in
	// a uint256 (i.e. BitSize > 256), which the gadget never expects.
	ErrLimbOverflow = errors.New("rabin: limb width exceeds 256 bits")
	// ErrPreimageTooLarge is returned by GenPreimageFromLeaf when the
	// padded preimage is not smaller than the modulus.
	ErrPreimageTooLarge = errors.New("rabin: padded preimage is not smaller than the modulus")
	// ErrPaddingLength is returned when the supplied padding plus the
	// leaf's own limbs don't add up to ModulusLen.
	ErrPaddingLength = errors.New("rabin: padding length inconsistent with modulus length")
	// ErrPaddingOverflow is returned when a padding limb does not fit in
	// BitSize bits.
	ErrPaddingOverflow = errors.New("rabin: padding limb exceeds bit size")
	// ErrLimbCountMismatch is returned by ComputeCarries when the supplied
	// limb slices don't all have ModulusLen entries.
	ErrLimbCountMismatch = errors.New("rabin: limb slice length does not match modulus length")
)

// Param fixes the base-2^BitSize limb layout shared by every Rabin
// encryption performed under one vault: the modulus, its limb
// decomposition (used directly by the circuit as constants), and the
// batching factor used to pack ciphertext limbs back into field elements.
type Param struct {
	Modulus     *big.Int
	ModulusArr  []*uint256.Int
	ModulusLen  int
	BitSize     int
	CypherBatch int
}

// NewParam decomposes modulus into ModulusLen limbs of BitSize bits each.
func NewParam(modulus *big.Int, modulusLen, bitSize, cypherBatch int) (*Param, error) {
	if modulusLen%cypherBatch != 0 {
		return nil, ErrBatchMismatch
	}
	arr, err := decomposeLimbs(modulus, modulusLen, bitSize)
	if err != nil {
		return nil, err
	}
	return &Param{
		Modulus:     new(big.Int).Set(modulus),
		ModulusArr:  arr,
		ModulusLen:  modulusLen,
		BitSize:     bitSize,
		CypherBatch: cypherBatch,
	}, nil
}

// decomposeLimbs splits v into length limbs of bitSize bits, least
// significant first, erroring if v does not fit or a limb overflows 256
// bits.
func decomposeLimbs(v *big.Int, length, bitSize int) ([]*uint256.Int, error) {
	if bitSize > 256 {
		return nil, ErrLimbOverflow
	}
	base := new(big.Int).Lsh(big.NewInt(1), uint(bitSize))
	rest := new(big.Int).Set(v)
	out := make([]*uint256.Int, length)
	lo := new(big.Int)
	for i := 0; i < length; i++ {
		hi := new(big.Int)
		hi.DivMod(rest, base, lo)
		limb, overflow := uint256.FromBig(lo)
		if overflow {
			return nil, ErrLimbOverflow
		}
		out[i] = limb
		rest = hi
		lo = new(big.Int)
	}
	if rest.Sign() != 0 {
		return nil, ErrModulusTooLarge
	}
	return out, nil
}

// recomposeLimbs is decomposeLimbs's inverse: sum(arr[i] * 2^(bitSize*i)).
func recomposeLimbs(arr []*uint256.Int, bitSize int) *big.Int {
	out := new(big.Int)
	for i := len(arr) - 1; i >= 0; i-- {
		out.Lsh(out, uint(bitSize))
		out.Add(out, arr[i].ToBig())
	}
	return out
}

// leafLimbCount is the number of BitSize-bit limbs needed to cover a field
// element of fieldBits bits.
func leafLimbCount(fieldBits, bitSize int) int {
	n := fieldBits / bitSize
	if fieldBits%bitSize != 0 {
		n++
	}
	return n
}

// GenPreimageFromLeaf lays out the Rabin preimage as padding (low limbs,
// typically randomness contributed by the depositor) followed by the
// leaf's own limb decomposition (high limbs), matching the reference
// layout "... | random | ... | leaf0 | leaf1 | leaf2" (low to high). Errors
// if the resulting preimage would not be strictly smaller than the
// modulus, since a preimage >= modulus can't be recovered unambiguously.
func (p *Param) GenPreimageFromLeaf(leaf *big.Int, fieldBits int, padding []*uint256.Int) (*big.Int, error) {
	leafLimbs := leafLimbCount(fieldBits, p.BitSize)
	if len(padding)+leafLimbs != p.ModulusLen {
		return nil, ErrPaddingLength
	}
	maxLimb := new(big.Int).Lsh(big.NewInt(1), uint(p.BitSize))
	for _, pad := range padding {
		if pad.ToBig().Cmp(maxLimb) >= 0 {
			return nil, ErrPaddingOverflow
		}
	}
	leafArr, err := decomposeLimbs(leaf, leafLimbs, p.BitSize)
	if err != nil {
		return nil, err
	}
	full := make([]*uint256.Int, 0, p.ModulusLen)
	full = append(full, padding...)
	full = append(full, leafArr...)
	preimage := recomposeLimbs(full, p.BitSize)
	if preimage.Cmp(p.Modulus) >= 0 {
		return nil, ErrPreimageTooLarge
	}
	return preimage, nil
}

// GenQuotientArray decomposes a squaring's quotient into the same limb
// layout as the modulus, for use as circuit witness limbs.
func (p *Param) GenQuotientArray(quotient *big.Int) ([]*uint256.Int, error) {
	return decomposeLimbs(quotient, p.ModulusLen, p.BitSize)
}

// GenCypherArray re-batches a ciphertext into ModulusLen/CypherBatch field
// elements, each packing CypherBatch limbs of BitSize bits. cypherFieldBits
// is the bit length of the field the result will live in (e.g. 254 for
// BN254's scalar field); CypherBatch*BitSize must be below it.
func (p *Param) GenCypherArray(cypher *big.Int, cypherFieldBits int) ([]*big.Int, error) {
	cypherBits := p.CypherBatch * p.BitSize
	if cypherBits >= cypherFieldBits {
		return nil, ErrLimbOverflow
	}
	base := new(big.Int).Lsh(big.NewInt(1), uint(cypherBits))
	rest := new(big.Int).Set(cypher)
	count := p.ModulusLen / p.CypherBatch
	out := make([]*big.Int, count)
	for i := 0; i < count; i++ {
		lo := new(big.Int)
		hi := new(big.Int)
		hi.DivMod(rest, base, lo)
		out[i] = lo
		rest = hi
	}
	if rest.Sign() != 0 {
		return nil, ErrModulusTooLarge
	}
	return out, nil
}

// Encrypt performs the Rabin squaring c = m^2 mod n, returning both the
// remainder (the ciphertext) and the quotient the circuit needs to verify
// the reduction without performing it itself.
func (p *Param) Encrypt(preimage *big.Int) (cypher, quotient *big.Int) {
	sq := new(big.Int).Mul(preimage, preimage)
	quotient = new(big.Int)
	cypher = new(big.Int)
	quotient.DivMod(sq, p.Modulus, cypher)
	return cypher, quotient
}

// DecomposeLimbs splits v into exactly ModulusLen limbs of BitSize bits,
// least significant first. v must be smaller than 2^(ModulusLen*BitSize).
func (p *Param) DecomposeLimbs(v *big.Int) ([]*uint256.Int, error) {
	return decomposeLimbs(v, p.ModulusLen, p.BitSize)
}

// CarryBits bounds the bit width of any carry ComputeCarries produces:
// each schoolbook column sums at most ModulusLen products of two
// BitSize-bit limbs (each product < 2^(2*BitSize)), which — after
// dividing out one BitSize-bit base — leaves a carry comfortably within
// BitSize + log2(ModulusLen) + a small safety margin, well under BN254's
// ~254-bit scalar field so no column ever wraps the field modulus.
func (p *Param) CarryBits() int {
	return p.BitSize + bits.Len(uint(p.ModulusLen)) + 8
}

// ComputeCarries derives the column-by-column carries a RabinSquareMod
// circuit gadget needs as witness input for the claimed relation
// preimage^2 = quotient*Modulus + cypher, each limb slice given least
// significant first. Column k's carry folds lhs_k - rhs_k (plus the
// previous column's carry) into the next column; the final column must
// carry out exactly zero, which is verified here rather than left for the
// circuit to discover as an unsatisfiable witness.
func (p *Param) ComputeCarries(preimageLimbs, quotientLimbs, cypherLimbs []*uint256.Int) ([]*big.Int, error) {
	n := p.ModulusLen
	if len(preimageLimbs) != n || len(quotientLimbs) != n || len(cypherLimbs) != n {
		return nil, ErrLimbCountMismatch
	}
	base := new(big.Int).Lsh(big.NewInt(1), uint(p.BitSize))
	carries := make([]*big.Int, 2*n-1)
	carry := big.NewInt(0)
	for k := 0; k <= 2*n-2; k++ {
		lo, hi := columnRange(k, n)
		lhs := new(big.Int)
		for i := lo; i <= hi; i++ {
			j := k - i
			term := new(big.Int).Mul(preimageLimbs[i].ToBig(), preimageLimbs[j].ToBig())
			lhs.Add(lhs, term)
		}
		rhs := new(big.Int)
		for i := lo; i <= hi; i++ {
			j := k - i
			term := new(big.Int).Mul(quotientLimbs[i].ToBig(), p.ModulusArr[j].ToBig())
			rhs.Add(rhs, term)
		}
		if k < n {
			rhs.Add(rhs, cypherLimbs[k].ToBig())
		}
		t := new(big.Int).Sub(lhs, rhs)
		t.Add(t, carry)

		next := new(big.Int)
		rem := new(big.Int)
		next.DivMod(t, base, rem)
		if rem.Sign() != 0 {
			return nil, ErrModulusTooLarge
		}
		carries[k] = next
		carry = next
	}
	if carry.Sign() != 0 {
		return nil, ErrModulusTooLarge
	}
	return carries[:2*n-2], nil
}

// CarryBias is the offset RabinSquareMod adds to a (possibly negative)
// carry before range-checking it, so the checked value is always
// non-negative: a carry is asserted to lie in [-CarryBias, CarryBias).
func (p *Param) CarryBias() *big.Int {
	return new(big.Int).Lsh(big.NewInt(1), uint(p.CarryBits()))
}

// columnRange returns the inclusive [lo,hi] range of i such that both i
// and k-i are valid limb indices in [0,n) for schoolbook column k.
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
