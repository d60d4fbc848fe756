// Package edwards implements the optional twisted-Edwards commitment side
// channel: an ElGamal-style commitment to a withdraw's nullifier, over the
// twisted Edwards curve embedded in BN254's scalar field (the same curve
// gnark's EdDSA gadget signs over).
//
// Grounded on original_source/lib/src/vanilla/{jubjub,commit}.rs's
// generate_vanilla_proof: given a per-withdraw nonce and the vault's
// public key, commitment = (nonce*G, nullifier*G + nonce*pubkey). A
// viewer holding the matching private key recovers nullifier*G by
// subtracting nonce*pubkey (computed from their key and the first half),
// linking withdraws to the same owner without revealing which note was
// spent — an auditability side-channel, not a requirement for deposit or
// withdraw itself (only the separately compiled withdraw.Full circuit
// includes it).
package edwards

import (
	"math/big"

	tedwards "github.com/consensys/gnark-crypto/ecc/twistededwards"
	twistededwards "github.com/consensys/gnark-crypto/ecc/bn254/twistededwards"
)

// Params wraps the BN254-embedded twisted Edwards curve's constants.
type Params struct {
	curve twistededwards.CurveParams
}

// NewParams fetches the standard curve parameters.
func NewParams() Params {
	return Params{curve: twistededwards.GetEdwardsCurve()}
}

// Point is an affine point on the curve.
type Point struct {
	X, Y *big.Int
}

func fromAffine(p *twistededwards.PointAffine) Point {
	var x, y big.Int
	p.X.BigInt(&x)
	p.Y.BigInt(&y)
	return Point{X: &x, Y: &y}
}

func (p Point) toAffine() twistededwards.PointAffine {
	var a twistededwards.PointAffine
	a.X.SetBigInt(p.X)
	a.Y.SetBigInt(p.Y)
	return a
}

// Base returns the curve's generator point.
func (prm Params) Base() Point {
	return fromAffine(&prm.curve.Base)
}

// ScalarMul computes scalar*p.
func (prm Params) ScalarMul(p Point, scalar *big.Int) Point {
	a := p.toAffine()
	var out twistededwards.PointAffine
	out.ScalarMultiplication(&a, scalar)
	return fromAffine(&out)
}

// Add computes p1+p2.
func (prm Params) Add(p1, p2 Point) Point {
	a1, a2 := p1.toAffine(), p2.toAffine()
	var out twistededwards.PointAffine
	out.Add(&a1, &a2)
	return fromAffine(&out)
}

// Commitment is the pair a withdraw's vanilla proof exposes as public
// input: (nonce*G, nullifier*G + nonce*pubkey).
type Commitment struct {
	C0, C1 Point
}

// GenerateCommitment computes the commitment for a given nullifier, nonce,
// and the vault's Edwards public key.
func (prm Params) GenerateCommitment(nullifier, nonce *big.Int, pubkey Point) Commitment {
	g := prm.Base()
	c0 := prm.ScalarMul(g, nonce)
	c1 := prm.Add(prm.ScalarMul(g, nullifier), prm.ScalarMul(pubkey, nonce))
	return Commitment{C0: c0, C1: c1}
}

// ID is the gnark-crypto curve identifier for the embedded curve, exposed
// for circuit-side construction (gnark/std/algebra/native/twistededwards.NewEdCurve).
const ID = tedwards.BN254
