package gadgets

import (
	"github.com/consensys/gnark/frontend"
	"github.com/consensys/gnark/std/algebra/native/twistededwards"
)

// EdwardsCommit is the in-circuit counterpart of edwards.GenerateCommitment:
// given a nullifier and a nonce already decomposed into bits (per
// original_source/lib/src/vanilla/jubjub.rs's scalar truncation to the
// curve's scalar field capacity), it recomputes (nonce*G, nullifier*G +
// nonce*pubkey) and asserts it matches the claimed public commitment.
type EdwardsCommit struct {
	Curve twistededwards.Curve

	NullifierBits []frontend.Variable
	NonceBits     []frontend.Variable
	Pubkey        twistededwards.Point

	CommitmentC0 twistededwards.Point
	CommitmentC1 twistededwards.Point
}

// bitsToScalar recombines a little-endian bit slice into a single
// variable, matching how the bits were produced from a field element.
func bitsToScalar(api frontend.API, bits []frontend.Variable) frontend.Variable {
	out := frontend.Variable(0)
	coeff := frontend.Variable(1)
	for _, b := range bits {
		api.AssertIsBoolean(b)
		out = api.Add(out, api.Mul(b, coeff))
		coeff = api.Mul(coeff, 2)
	}
	return out
}

// Check enforces the commitment equations.
func (g *EdwardsCommit) Check(api frontend.API) error {
	base := g.Curve.Params().Base
	nonce := bitsToScalar(api, g.NonceBits)
	nullifier := bitsToScalar(api, g.NullifierBits)

	c0 := g.Curve.ScalarMul(base, nonce)
	api.AssertIsEqual(c0.X, g.CommitmentC0.X)
	api.AssertIsEqual(c0.Y, g.CommitmentC0.Y)

	nullifierG := g.Curve.ScalarMul(base, nullifier)
	noncePubkey := g.Curve.ScalarMul(g.Pubkey, nonce)
	c1 := g.Curve.Add(nullifierG, noncePubkey)
	api.AssertIsEqual(c1.X, g.CommitmentC1.X)
	api.AssertIsEqual(c1.Y, g.CommitmentC1.Y)

	return nil
}
