// Package withdraw implements the pool's withdraw statement circuit:
// membership of a spent leaf against PrevRoot, the nullifier binding
// (leafIndex, secret) so it can't be reused, and insertion of a change
// leaf whose pre-insertion sub-proof must agree with the spent leaf's
// membership sub-proof on the same PrevRoot (see vanilla.WithdrawPublicInputs'
// two-Merkle-sub-proof shape).
//
// Circuit is the minimal statement (config.NoOptionalFeatures). Full adds
// the optional Rabin ciphertext and twisted-Edwards commitment side
// outputs (config.AllFeatures) as a second, separately compiled circuit —
// gnark fixes a circuit's field layout at compile time, so "optional"
// public inputs mean two circuits, not one with a runtime toggle.
package withdraw

import "github.com/soda-maze/shielded-pool/config"

// Height mirrors deposit.Height: the accumulator height this package is
// compiled for.
const Height = int(config.DefaultTreeHeight)
