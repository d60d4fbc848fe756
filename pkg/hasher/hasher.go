// Package hasher exposes the two hash functions the shielded pool's
// circuits can be built against — Poseidon2 and MiMC — behind a pair of
// capability interfaces so that every downstream gadget (leaf hashing,
// Merkle accumulation, nullifier/commitment derivation) is parametric over
// the hasher rather than hard-wired to one. No runtime dispatch is needed:
// a deployed circuit is specialized to one hasher at build time by
// instantiating it with the matching concrete type (see DESIGN.md).
package hasher

import (
	"math/big"

	"github.com/consensys/gnark/frontend"
)

// Native computes a hash over BN254 scalar-field elements outside a
// circuit. It mirrors Circuit constraint-for-constraint.
type Native interface {
	// Hash hashes an arbitrary number of inputs via serial sponge
	// absorption — callers are not bounded by Width().
	Hash(inputs []*big.Int) (*big.Int, error)
	// HashTwo is Hash([]*big.Int{a, b}).
	HashTwo(a, b *big.Int) (*big.Int, error)
	// EmptyHash returns the hash of zero real inputs (the zero field element).
	EmptyHash() *big.Int
	// Width is the underlying permutation's state size (rate + capacity),
	// not a cap on Hash's input count; 0 means the hasher has no fixed
	// permutation width to report (e.g. a Feistel construction).
	Width() int
}

// Circuit computes the same hash as Native, but over frontend.Variable
// allocations inside a gnark circuit.
type Circuit interface {
	// Hash hashes an arbitrary number of inputs via serial sponge
	// absorption — callers are not bounded by Width().
	Hash(api frontend.API, inputs ...frontend.Variable) (frontend.Variable, error)
	// HashTwo is Hash(api, a, b).
	HashTwo(api frontend.API, a, b frontend.Variable) (frontend.Variable, error)
	// Width is the underlying permutation's state size; see Native.Width.
	Width() int
}
