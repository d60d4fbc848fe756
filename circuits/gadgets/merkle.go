// Package gadgets collects the in-circuit building blocks shared by the
// deposit and withdraw statement circuits: Merkle path folding, the
// optional Rabin-encryption squaring check, and the optional
// twisted-Edwards commitment. Each gadget mirrors a native computation in
// pkg/merkle, rabin, or edwards exactly, so that a prover's witness
// (computed with the native half) always satisfies the circuit (the other
// half) when honestly constructed.
package gadgets

import (
	"fmt"

	"github.com/consensys/gnark/frontend"

	"github.com/soda-maze/shielded-pool/pkg/hasher"
)

// AddNewLeaf is the in-circuit counterpart of merkle.GeneratePath: it folds
// a leaf value up a neighbor-list Merkle path using the same left/right
// convention (IsLeft[i]==1 means the sibling at layer i sits on the left),
// returning the per-layer combined values — the last entry is the
// resulting root. Grounded on circuits/poi/merkle.go's MerkleProofCircuit,
// generalized from a fixed-depth inclusion check (with zero-sibling
// padding) to the pool's fixed-height insertion fold (every layer real,
// no padding).
type AddNewLeaf struct {
	Leaf     frontend.Variable
	Siblings []frontend.Variable
	IsLeft   []frontend.Variable // boolean 0/1, enforced by Fold
	Hasher   hasher.Circuit
}

// Fold enforces the path and returns the per-layer updated node values.
func (g *AddNewLeaf) Fold(api frontend.API) ([]frontend.Variable, error) {
	if len(g.Siblings) != len(g.IsLeft) {
		return nil, fmt.Errorf("gadgets: siblings/isLeft length mismatch: %d vs %d", len(g.Siblings), len(g.IsLeft))
	}
	updating := make([]frontend.Variable, len(g.Siblings))
	current := g.Leaf
	for i := range g.Siblings {
		api.AssertIsBoolean(g.IsLeft[i])
		left := api.Select(g.IsLeft[i], g.Siblings[i], current)
		right := api.Select(g.IsLeft[i], current, g.Siblings[i])
		next, err := g.Hasher.HashTwo(api, left, right)
		if err != nil {
			return nil, fmt.Errorf("gadgets: fold layer %d: %w", i, err)
		}
		updating[i] = next
		current = next
	}
	return updating, nil
}

// Root returns the last folded value; callers should only use it after a
// successful Fold.
func Root(updating []frontend.Variable) frontend.Variable {
	return updating[len(updating)-1]
}
