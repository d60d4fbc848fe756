package deposit

import (
	"fmt"

	"github.com/consensys/gnark/frontend"

	"github.com/soda-maze/shielded-pool/circuits/gadgets"
	"github.com/soda-maze/shielded-pool/pkg/hasher"
)

// Circuit is the deposit statement: see package doc.
type Circuit struct {
	// Public inputs, in vanilla.DepositPublicInputs.Flatten order.
	DepositAmount frontend.Variable         `gnark:"depositAmount,public"`
	LeafIndex     frontend.Variable         `gnark:"leafIndex,public"`
	Leaf          frontend.Variable         `gnark:"leaf,public"`
	PrevRoot      frontend.Variable         `gnark:"prevRoot,public"`
	UpdateNodes   [Height]frontend.Variable `gnark:"updateNodes,public"`

	// Private inputs.
	Secret   frontend.Variable         `gnark:"secret"`
	Siblings [Height]frontend.Variable `gnark:"siblings"`
	IsLeft   [Height]frontend.Variable `gnark:"isLeft"`

	leafHasher  hasher.Circuit
	innerHasher hasher.Circuit
}

// NewCircuit builds a template circuit (witness fields unset) for
// compilation or for PrepareWitness to clone into. Both hashers mirror the
// pair used by vanilla.DepositConstParams for the same vault.
func NewCircuit(leafHasher, innerHasher hasher.Circuit) *Circuit {
	return &Circuit{leafHasher: leafHasher, innerHasher: innerHasher}
}

// Define enforces:
//  1. Leaf == leafHasher(leafIndex, depositAmount, secret).
//  2. The path's direction bits (IsLeft) match leafIndex's own binary
//     expansion, so a prover can't fold the new leaf into an unrelated slot.
//  3. Folding the empty-leaf value up the path reaches PrevRoot.
//  4. Folding Leaf up the same path reaches UpdateNodes element-wise.
func (c *Circuit) Define(api frontend.API) error {
	leaf, err := c.leafHasher.Hash(api, c.LeafIndex, c.DepositAmount, c.Secret)
	if err != nil {
		return fmt.Errorf("deposit: hash leaf: %w", err)
	}
	api.AssertIsEqual(leaf, c.Leaf)

	indexBits := api.ToBinary(c.LeafIndex, Height)
	for i := 0; i < Height; i++ {
		api.AssertIsBoolean(c.IsLeft[i])
		api.AssertIsEqual(c.IsLeft[i], indexBits[i])
	}

	prevFold := &gadgets.AddNewLeaf{
		Leaf: frontend.Variable(0), Siblings: c.Siblings[:], IsLeft: c.IsLeft[:], Hasher: c.innerHasher,
	}
	prevNodes, err := prevFold.Fold(api)
	if err != nil {
		return fmt.Errorf("deposit: fold previous root: %w", err)
	}
	api.AssertIsEqual(gadgets.Root(prevNodes), c.PrevRoot)

	leafFold := &gadgets.AddNewLeaf{
		Leaf: c.Leaf, Siblings: c.Siblings[:], IsLeft: c.IsLeft[:], Hasher: c.innerHasher,
	}
	updateNodes, err := leafFold.Fold(api)
	if err != nil {
		return fmt.Errorf("deposit: fold updated nodes: %w", err)
	}
	for i := 0; i < Height; i++ {
		api.AssertIsEqual(updateNodes[i], c.UpdateNodes[i])
	}
	return nil
}
