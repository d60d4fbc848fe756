package pool

import (
	"math/big"

	"github.com/soda-maze/shielded-pool/config"
	"github.com/soda-maze/shielded-pool/vanilla"
)

// fieldElementToLE encodes a field element as a 32-byte little-endian
// array, the byte order section 6's account layouts use throughout.
func fieldElementToLE(v *big.Int) [32]byte {
	var out [32]byte
	be := v.FillBytes(make([]byte, 32)) // big-endian, left-padded
	for i := 0; i < 32; i++ {
		out[i] = be[31-i]
	}
	return out
}

// CommitWithdraw applies a verified withdraw statement's public inputs to
// the vault and nullifier registry, mirroring section 4.4's withdraw
// commit step: check the nullifier hasn't been spent and create it,
// advance NextLeafIndex/root for the appended change leaf, and
// materialize the touched Merkle node accounts. Token transfer to the
// receiver is an external collaborator, not modeled here.
//
// The optional Rabin commitment account is populated here, not during
// deposit: section 4.5's ciphertext is of the nullifier
// (original_source/lib/src/vanilla/rabin.rs's GenPreimageFromLeaf takes
// the nullifier as its leaf argument), and the nullifier does not exist
// until a withdraw computes it — so despite the account table's
// deposit-time phrasing, the value it would hold is only available here.
// See DESIGN.md for the full resolution of this spec ambiguity.
// cipherLimbs may be nil, in which case no commitment account is created.
func CommitWithdraw(
	vault *Vault, registry *NullifierRegistry,
	pub *vanilla.WithdrawPublicInputs, height int, cipherLimbs []*big.Int,
) ([]*MerkleNodeAccount, *CommitmentAccount, error) {
	if err := vault.CheckValid(); err != nil {
		return nil, nil, err
	}
	if err := pub.CheckValid(config.TreeHeight(height)); err != nil {
		return nil, nil, err
	}
	nullifierKey := fieldElementToLE(pub.Nullifier)
	if registry.Exists(nullifierKey) {
		return nil, nil, ErrDoubleSpend
	}
	if err := vault.CheckConsistency(pub.DstLeafIndex, pub.PrevRoot); err != nil {
		return nil, nil, err
	}

	if err := registry.CreateIfAbsent(nullifierKey); err != nil {
		return nil, nil, err
	}

	nodes := make([]*MerkleNodeAccount, height)
	for i, v := range pub.UpdatingNodes {
		nodes[i] = NewMerkleNodeAccount(v)
	}

	newRoot := pub.UpdatingNodes[len(pub.UpdatingNodes)-1]
	vault.Update(newRoot, pub.DstLeafIndex+1)

	var commitment *CommitmentAccount
	if cipherLimbs != nil {
		commitment = NewCommitmentAccount(cipherLimbs)
	}
	return nodes, commitment, nil
}
