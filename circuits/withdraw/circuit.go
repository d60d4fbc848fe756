package withdraw

import (
	"fmt"

	"github.com/consensys/gnark/frontend"

	"github.com/soda-maze/shielded-pool/circuits/gadgets"
	"github.com/soda-maze/shielded-pool/pkg/hasher"
)

// Circuit is the minimal withdraw statement: see package doc.
type Circuit struct {
	// Public inputs, in vanilla.WithdrawPublicInputs.Flatten order.
	WithdrawAmount frontend.Variable         `gnark:"withdrawAmount,public"`
	Nullifier      frontend.Variable         `gnark:"nullifier,public"`
	DstLeafIndex   frontend.Variable         `gnark:"dstLeafIndex,public"`
	DstLeaf        frontend.Variable         `gnark:"dstLeaf,public"`
	PrevRoot       frontend.Variable         `gnark:"prevRoot,public"`
	UpdatingNodes  [Height]frontend.Variable `gnark:"updatingNodes,public"`

	// Private inputs: the spent note and its membership proof.
	SrcLeafIndex frontend.Variable         `gnark:"srcLeafIndex"`
	SrcAmount    frontend.Variable         `gnark:"srcAmount"`
	Secret       frontend.Variable         `gnark:"secret"`
	SrcSiblings  [Height]frontend.Variable `gnark:"srcSiblings"`
	SrcIsLeft    [Height]frontend.Variable `gnark:"srcIsLeft"`

	// Private inputs: the change note and its insertion proof.
	DstAmount   frontend.Variable         `gnark:"dstAmount"`
	DstSecret   frontend.Variable         `gnark:"dstSecret"`
	DstSiblings [Height]frontend.Variable `gnark:"dstSiblings"`
	DstIsLeft   [Height]frontend.Variable `gnark:"dstIsLeft"`

	leafHasher      hasher.Circuit
	nullifierHasher hasher.Circuit
	innerHasher     hasher.Circuit
}

// NewCircuit builds a template circuit, mirroring vanilla.WithdrawConstParams'
// three (possibly distinct) hashers.
func NewCircuit(leafHasher, nullifierHasher, innerHasher hasher.Circuit) *Circuit {
	return &Circuit{leafHasher: leafHasher, nullifierHasher: nullifierHasher, innerHasher: innerHasher}
}

// checkCore enforces the withdraw statement shared by Circuit and Full,
// returning the recomputed nullifier so Full's Define can reuse it for the
// optional Rabin ciphertext check without rehashing.
func (c *Circuit) checkCore(api frontend.API) (frontend.Variable, error) {
	api.AssertIsEqual(api.Add(c.WithdrawAmount, c.DstAmount), c.SrcAmount)

	srcLeaf, err := c.leafHasher.Hash(api, c.SrcLeafIndex, c.SrcAmount, c.Secret)
	if err != nil {
		return nil, fmt.Errorf("withdraw: hash spent leaf: %w", err)
	}
	nullifier, err := c.nullifierHasher.Hash(api, c.SrcLeafIndex, c.Secret)
	if err != nil {
		return nil, fmt.Errorf("withdraw: hash nullifier: %w", err)
	}
	api.AssertIsEqual(nullifier, c.Nullifier)

	srcBits := api.ToBinary(c.SrcLeafIndex, Height)
	for i := 0; i < Height; i++ {
		api.AssertIsBoolean(c.SrcIsLeft[i])
		api.AssertIsEqual(c.SrcIsLeft[i], srcBits[i])
	}
	membershipFold := &gadgets.AddNewLeaf{
		Leaf: srcLeaf, Siblings: c.SrcSiblings[:], IsLeft: c.SrcIsLeft[:], Hasher: c.innerHasher,
	}
	membership, err := membershipFold.Fold(api)
	if err != nil {
		return nil, fmt.Errorf("withdraw: fold membership proof: %w", err)
	}
	api.AssertIsEqual(gadgets.Root(membership), c.PrevRoot)

	dstLeaf, err := c.leafHasher.Hash(api, c.DstLeafIndex, c.DstAmount, c.DstSecret)
	if err != nil {
		return nil, fmt.Errorf("withdraw: hash change leaf: %w", err)
	}
	api.AssertIsEqual(dstLeaf, c.DstLeaf)

	dstBits := api.ToBinary(c.DstLeafIndex, Height)
	for i := 0; i < Height; i++ {
		api.AssertIsBoolean(c.DstIsLeft[i])
		api.AssertIsEqual(c.DstIsLeft[i], dstBits[i])
	}

	emptyFold := &gadgets.AddNewLeaf{
		Leaf: frontend.Variable(0), Siblings: c.DstSiblings[:], IsLeft: c.DstIsLeft[:], Hasher: c.innerHasher,
	}
	insertionPrev, err := emptyFold.Fold(api)
	if err != nil {
		return nil, fmt.Errorf("withdraw: fold insertion previous root: %w", err)
	}
	// Both sub-proofs must agree on the same prior root.
	api.AssertIsEqual(gadgets.Root(insertionPrev), c.PrevRoot)

	realFold := &gadgets.AddNewLeaf{
		Leaf: dstLeaf, Siblings: c.DstSiblings[:], IsLeft: c.DstIsLeft[:], Hasher: c.innerHasher,
	}
	updating, err := realFold.Fold(api)
	if err != nil {
		return nil, fmt.Errorf("withdraw: fold updated nodes: %w", err)
	}
	for i := 0; i < Height; i++ {
		api.AssertIsEqual(updating[i], c.UpdatingNodes[i])
	}

	return nullifier, nil
}

func (c *Circuit) Define(api frontend.API) error {
	_, err := c.checkCore(api)
	return err
}
