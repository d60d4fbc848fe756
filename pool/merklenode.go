package pool

import "math/big"

// MerkleNodeAccount is the on-chain representation of a single Merkle tree
// node: a 32-byte field element, addressed by (vault, layer, index). If the
// account has never been created its implied value is the tree's
// default-hash chain at that layer (see pkg/merkle.Tree.DefaultNodes) —
// this type only exists for nodes a commit step has actually touched.
type MerkleNodeAccount struct {
	Value *big.Int
}

// NewMerkleNodeAccount wraps a computed node value for persistence.
func NewMerkleNodeAccount(value *big.Int) *MerkleNodeAccount {
	return &MerkleNodeAccount{Value: value}
}
