package pool

import (
	"github.com/soda-maze/shielded-pool/vanilla"
)

// CommitDeposit applies a verified deposit statement's public inputs to
// the vault's state, mirroring section 4.4's deposit commit step: advance
// NextLeafIndex, write the new root, materialize the touched Merkle node
// accounts, and record the depositor's UTXO. Token transfer into the
// vault's token account is an external collaborator (the host's SPL-
// token-style transfer) and is not modeled here; callers invoke it
// alongside this commit under their own transaction semantics.
//
// height must match the tree height the statement's UpdateNodes chain was
// computed against.
func CommitDeposit(vault *Vault, pub *vanilla.DepositPublicInputs, height int) ([]*MerkleNodeAccount, *UTXO, error) {
	if err := vault.CheckValid(); err != nil {
		return nil, nil, err
	}
	if err := vault.CheckConsistency(pub.LeafIndex, pub.PrevRoot); err != nil {
		return nil, nil, err
	}
	if len(pub.UpdateNodes) != height {
		return nil, nil, ErrInvalidVanillaData
	}

	nodes := make([]*MerkleNodeAccount, height)
	for i, v := range pub.UpdateNodes {
		nodes[i] = NewMerkleNodeAccount(v)
	}

	newRoot := pub.UpdateNodes[len(pub.UpdateNodes)-1]
	vault.Update(newRoot, pub.LeafIndex+1)

	utxo := NewUTXO(pub.LeafIndex, OriginAmount(pub.DepositAmount))
	return nodes, utxo, nil
}
