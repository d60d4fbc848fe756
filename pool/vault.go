package pool

import (
	"math/big"
)

// Vault is the pool's single piece of globally shared mutable state: the
// current Merkle root and the next free leaf index, plus the
// administrative fields needed to authorize state-changing operations.
// Grounded on the reference implementation's core/vault.rs Vault struct.
type Vault struct {
	Initialized bool
	Enable      bool

	Admin        Address
	TokenAccount Address
	Authority    Address
	SeedBump     uint8

	Root          *big.Int
	NextLeafIndex uint64
}

// NewVault creates an enabled vault rooted at defaultRoot (the empty tree's
// root, i.e. DefaultNodes[height]) with NextLeafIndex zero.
func NewVault(admin, tokenAccount, authority Address, seedBump uint8, defaultRoot *big.Int) *Vault {
	return &Vault{
		Initialized:   true,
		Enable:        true,
		Admin:         admin,
		TokenAccount:  tokenAccount,
		Authority:     authority,
		SeedBump:      seedBump,
		Root:          new(big.Int).Set(defaultRoot),
		NextLeafIndex: 0,
	}
}

// CheckValid mirrors Vault::check_valid: an operation may proceed only
// while the vault is enabled.
func (v *Vault) CheckValid() error {
	if !v.Enable {
		return ErrVaultDisabled
	}
	return nil
}

// CheckConsistency mirrors Vault::check_consistency: a vanilla statement's
// claimed (prevIndex, prevRoot) must match the vault's current state
// before its updating nodes can be committed.
func (v *Vault) CheckConsistency(prevIndex uint64, prevRoot *big.Int) error {
	if v.NextLeafIndex != prevIndex {
		return ErrInvalidVanillaData
	}
	if v.Root.Cmp(prevRoot) != 0 {
		return ErrInvalidVanillaData
	}
	return nil
}

// Update advances the vault's root and leaf-index cursor after a
// successfully verified and committed deposit or withdraw.
func (v *Vault) Update(newRoot *big.Int, newNextLeafIndex uint64) {
	v.Root = newRoot
	v.NextLeafIndex = newNextLeafIndex
}

// Control toggles the vault's enable flag (an administrative operation;
// callers are responsible for authorizing it against Admin).
func (v *Vault) Control(enable bool) {
	v.Enable = enable
}

// SignerSeeds returns the seed tuple used to sign on the vault's behalf via
// its authority PDA, mirroring Vault::signer_seeds.
func (v *Vault) SignerSeeds(vaultAddr Address) [][]byte {
	return [][]byte{vaultAddr[:], {v.SeedBump}}
}
