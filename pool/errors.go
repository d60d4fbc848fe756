// Package pool implements the on-chain-style account model: the vault,
// Merkle node accounts, nullifier and commitment registries, UTXO and
// credential records, and the deterministic (PDA-style) addressing that
// binds them all to one vault's namespace.
package pool

import "errors"

// Sentinel errors, a strict superset of the original eight refusal kinds,
// reproduced from the reference implementation's MazeError enum
// (original_source/program/src/error.rs).
var (
	// ErrAlreadyInitialized: account state machine violation — the account
	// already exists / has already been initialized.
	ErrAlreadyInitialized = errors.New("pool: already initialized")
	// ErrVaultDisabled: the vault's enable flag is false; no state-changing
	// operation is accepted.
	ErrVaultDisabled = errors.New("pool: vault disabled")
	// ErrUnmatchedAccounts: an account passed to an operation does not match
	// what the operation's PDA derivation expects.
	ErrUnmatchedAccounts = errors.New("pool: unmatched accounts")
	// ErrInvalidVanillaData: a vanilla statement's public/private inputs
	// fail a validation rule (leaf index out of range, limb too large, a
	// length mismatch, etc).
	ErrInvalidVanillaData = errors.New("pool: invalid vanilla data")
	// ErrProofNotVerified: an operation that requires Finish(true) was
	// attempted against a credential whose FSM has not reached it.
	ErrProofNotVerified = errors.New("pool: proof not verified")
	// ErrInvalidPDAPubkey: a supplied address does not match its expected
	// PDA derivation.
	ErrInvalidPDAPubkey = errors.New("pool: invalid PDA pubkey")
	// ErrInvalidAccountOwner: an account is not owned by the expected party.
	ErrInvalidAccountOwner = errors.New("pool: invalid account owner")
	// ErrInvalidAuthority: the supplied authority does not match the
	// vault's derived authority.
	ErrInvalidAuthority = errors.New("pool: invalid authority")
	// ErrInvalidContextStatus: an operation was invoked against a
	// verification whose FSM is not in a state that accepts it.
	ErrInvalidContextStatus = errors.New("pool: invalid context status")
	// ErrInstructionUnpack: the instruction's encoded arguments failed to
	// parse.
	ErrInstructionUnpack = errors.New("pool: instruction unpack error")
	// ErrNotRentExempt: an account lacks the balance a host requires to
	// remain rent-exempt.
	ErrNotRentExempt = errors.New("pool: not rent exempt")
	// ErrNotInitialized: an operation addressed an account that has not
	// been created yet.
	ErrNotInitialized = errors.New("pool: not initialized")

	// ErrDoubleSpend: a nullifier account already exists for the spend
	// being attempted (section 4.4's at-most-once-spend invariant).
	ErrDoubleSpend = errors.New("pool: nullifier already spent")
	// ErrUnreachable signals FSM/account corruption — a state no valid
	// caller sequence should ever produce (section 7, class 8).
	ErrUnreachable = errors.New("pool: unreachable state")
)
