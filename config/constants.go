// Package config holds the fixed parameters of the shielded pool: tree
// height, hashing field-element widths, and feature toggles. These are
// plain constants/defaults rather than a config-file layer — the CLI (see
// cmd/setup) is the only place any of this is externally supplied.
package config

// TreeHeight enumerates the two supported accumulator heights.
type TreeHeight int

const (
	// TreeHeight26 is the smaller of the two supported accumulator heights.
	TreeHeight26 TreeHeight = 26
	// TreeHeight27 is the larger of the two supported accumulator heights.
	TreeHeight27 TreeHeight = 27
)

// DefaultTreeHeight is used whenever a caller does not pick one explicitly.
const DefaultTreeHeight = TreeHeight27

// MaxLeafIndex returns the exclusive upper bound on leaf indices for a tree
// of the given height: indices must satisfy 0 <= index < 2^height.
func (h TreeHeight) MaxLeafIndex() uint64 {
	return uint64(1) << uint(h)
}

// Poseidon2 permutation parameters. hasher.DefaultPoseidon2Params holds the
// same three values as its own literals, and that is what the hashers use.
// Width 2 (rate 1, one element of output); full/partial round counts match
// gnark's reference parameter set for a 2-element Poseidon2 instance.
const (
	Poseidon2Width         = 2
	Poseidon2FullRounds    = 6
	Poseidon2PartialRounds = 50
)

// Rabin encryption parameters. LimbBits is the base-2^b limb width used to
// represent the ~2 Kbit preimage/modulus as a polynomial; NumLimbs is the
// number of limbs needed to cover the modulus bit-length.
const (
	RabinLimbBits    = 124
	RabinModulusBits = 2048
	RabinNumLimbs    = (RabinModulusBits + RabinLimbBits - 1) / RabinLimbBits
	// RabinCypherBatch packs this many limbs per re-batched ciphertext field
	// element (rabin.Param.GenCypherArray). rabin.NewParam requires
	// RabinNumLimbs (17, a prime) to be a multiple of it, leaving 1 or 17,
	// and at 17 a packed element is far wider than BN254's ~254-bit scalar
	// field, so GenCypherArray rejects it. The Full circuit's ciphertext
	// public inputs are one limb per element and do not use this packing.
	RabinCypherBatch = 1
)

// NullifierFieldBits bounds a nullifier's bit length for the Rabin
// preimage layout: BN254's scalar field modulus is just under 2^254, so
// every nullifier fits in this many bits with room to spare.
const NullifierFieldBits = 254

// EdwardsScalarBits is the number of low bits of a field element used as an
// Edwards scalar, matching original_source/lib/src/vanilla/jubjub.rs's
// truncation of nonce/nullifier to the embedded curve's scalar subgroup
// capacity (strictly below BN254's ~254-bit scalar field, so the truncated
// value is always a valid Edwards scalar with no modular wraparound).
const EdwardsScalarBits = 251

// FeatureSet names the two optional side-outputs described by the
// specification's section 4.5. No code reads it: which side outputs a proof
// carries is fixed by the circuit compiled, withdraw.Circuit (neither) or
// withdraw.Full (both).
type FeatureSet struct {
	// RabinEncryption enables the Rabin-style ciphering of the nullifier.
	RabinEncryption bool
	// EdwardsCommitment enables the twisted-Edwards commitment side output.
	EdwardsCommitment bool
}

// NoOptionalFeatures is the zero-value feature set, the one withdraw.Circuit
// corresponds to.
var NoOptionalFeatures = FeatureSet{}

// AllFeatures lists both optional sub-circuits, the set withdraw.Full
// corresponds to, matching the "newer,
// multi-asset" design variant this repository implements (see DESIGN.md).
var AllFeatures = FeatureSet{RabinEncryption: true, EdwardsCommitment: true}
