package pool

import (
	"crypto/sha256"
	"encoding/binary"
)

// Address is a 32-byte deterministically-derived on-chain address.
type Address [32]byte

// ProgramID identifies the deployed program whose namespace every PDA in
// this package is derived under.
type ProgramID [32]byte

// defaultBump is the nonce byte FindProgramAddress starts from, mirroring
// section 6's "address = HashToCurve of seed tuple + program id, with a
// nonce byte found by the host". A real host walks bump values down from
// 255 until the derived address falls off its curve (so it cannot collide
// with a signer-controlled key); this library has no live curve to check
// membership against, so it always succeeds at the first bump tried. The
// bump byte is kept in the derivation and the return value because it is
// part of the address contract embedding hosts persist and rely on.
const defaultBump uint8 = 255

// FindProgramAddress derives a PDA from seeds under program, returning the
// address and the bump byte used. This is a pure function: the same seeds
// under the same program always derive the same address, which is the
// property PDA derivation exists to provide (section 6).
func FindProgramAddress(program ProgramID, seeds ...[]byte) (Address, uint8) {
	return deriveAddress(program, defaultBump, seeds...), defaultBump
}

func deriveAddress(program ProgramID, bump uint8, seeds ...[]byte) Address {
	h := sha256.New()
	for _, s := range seeds {
		h.Write(s)
	}
	h.Write(program[:])
	h.Write([]byte{bump})
	var addr Address
	copy(addr[:], h.Sum(nil))
	return addr
}

// leLayerIndex encodes (layer, index) as the seed tuple used for Merkle
// node PDAs: "vault, layer(u8 little-endian as 8 bytes), index(u64
// little-endian)".
func leLayerIndex(layer uint8, index uint64) (layerBytes [8]byte, indexBytes [8]byte) {
	layerBytes[0] = layer
	binary.LittleEndian.PutUint64(indexBytes[:], index)
	return
}

// MerkleNodeAddress derives the PDA for the Merkle node at (layer, index)
// under vault.
func MerkleNodeAddress(program ProgramID, vault Address, layer uint8, index uint64) (Address, uint8) {
	layerBytes, indexBytes := leLayerIndex(layer, index)
	return FindProgramAddress(program, vault[:], layerBytes[:], indexBytes[:])
}

// NullifierAddress derives the PDA for a nullifier under vault.
func NullifierAddress(program ProgramID, vault Address, nullifierBytesLE [32]byte) (Address, uint8) {
	return FindProgramAddress(program, vault[:], nullifierBytesLE[:])
}

// CommitmentAddress derives the PDA for a commitment under vault.
func CommitmentAddress(program ProgramID, vault Address, leafBytesLE [32]byte) (Address, uint8) {
	return FindProgramAddress(program, vault[:], leafBytesLE[:])
}

// CredentialAddress derives the PDA for a credential under vault, keyed by
// the submitting signer.
func CredentialAddress(program ProgramID, vault, signer Address) (Address, uint8) {
	return FindProgramAddress(program, vault[:], signer[:])
}

// VaultAuthorityAddress derives the vault's own signing authority PDA.
func VaultAuthorityAddress(program ProgramID, vault Address) (Address, uint8) {
	return FindProgramAddress(program, vault[:])
}
