package pool

import "math/big"

// CommitmentAccount holds the optional Rabin ciphertext of a withdraw's
// nullifier, addressed by (vault, leaf) per section 6's account layout:
// "u32 length, Fr[RABIN_MODULUS_LEN]". CommitWithdraw creates it when it is
// given cipher limbs; CommitDeposit never creates one.
type CommitmentAccount struct {
	Initialized bool
	CipherLimbs []*big.Int
}

// NewCommitmentAccount wraps the cipher limbs produced by the Rabin
// encryption gadget/native computation into an account value.
func NewCommitmentAccount(cipherLimbs []*big.Int) *CommitmentAccount {
	return &CommitmentAccount{Initialized: true, CipherLimbs: cipherLimbs}
}
