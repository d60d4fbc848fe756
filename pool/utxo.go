package pool

// Amount is the UTXO's value, either plaintext (Origin) or a Rabin-ciphered
// value (Cipher), mirroring the reference implementation's Amount enum
// (core/utxo.rs) used when the optional encryption feature is enabled.
type Amount struct {
	IsCipher bool
	Origin   uint64
	Cipher   [16]byte // u128, little-endian
}

// OriginAmount builds a plaintext Amount.
func OriginAmount(v uint64) Amount { return Amount{Origin: v} }

// CipherAmount builds a ciphered Amount.
func CipherAmount(v [16]byte) Amount { return Amount{IsCipher: true, Cipher: v} }

// UTXO records one deposit's leaf index and amount, addressed by a
// user-derived key (opaque to the chain, indexed only by the owner).
// Created by deposit, logically consumed by withdraw.
type UTXO struct {
	Initialized bool
	LeafIndex   uint64
	Amount      Amount
}

// NewUTXO constructs an initialized UTXO record.
func NewUTXO(leafIndex uint64, amount Amount) *UTXO {
	return &UTXO{Initialized: true, LeafIndex: leafIndex, Amount: amount}
}
