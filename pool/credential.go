package pool

import "math/big"

// VanillaData is the public record a credential binds a verification to:
// the statement's public inputs, persisted so the FSM's eventual
// Finish(true) can be checked against exactly the data the prover claimed
// to prove, per section 6's credential layout.
type VanillaData struct {
	Amount        uint64
	LeafIndex     uint64
	Leaf          *big.Int
	PrevRoot      *big.Int
	UpdatingNodes []*big.Int
	// CommitmentPoint is the optional twisted-Edwards commitment side
	// output (n*G, k*G + n*P), encoded as four field elements (x,y pairs).
	CommitmentPoint [4]*big.Int
}

// Credential cryptographically binds an in-flight verification to one
// vanilla statement. Created when a proof is submitted; closed when
// verification terminates (either Finish(true) is committed or
// Finish(false) ends the credential's lifecycle).
type Credential struct {
	Initialized bool
	Vault       Address
	Owner       Address
	Data        VanillaData
}

// NewCredential creates a credential for the given owner and vanilla data.
func NewCredential(vault, owner Address, data VanillaData) *Credential {
	return &Credential{Initialized: true, Vault: vault, Owner: owner, Data: data}
}
