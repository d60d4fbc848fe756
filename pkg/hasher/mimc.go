package hasher

import (
	"math/big"

	bn254mimc "github.com/consensys/gnark-crypto/ecc/bn254/fr/mimc"
	"github.com/consensys/gnark/frontend"
	"github.com/consensys/gnark/std/hash/mimc"
)

// MiMCNative implements Native using gnark-crypto's MiMC Feistel hash,
// offered as the alternative to Poseidon2 per section 4.1: "provided as an
// alternative and must produce identical circuit output to the native
// implementation given matching parameters." Like Poseidon2Native, MiMC
// absorbs any number of elements one at a time; it has no permutation
// width to report, so Width returns 0.
type MiMCNative struct{}

// NewMiMCNative constructs a Native MiMC hasher.
func NewMiMCNative() *MiMCNative { return &MiMCNative{} }

func (m *MiMCNative) Width() int { return 0 }

func (m *MiMCNative) Hash(inputs []*big.Int) (*big.Int, error) {
	h := bn254mimc.NewMiMC()
	for _, in := range inputs {
		b := make([]byte, 32)
		in.FillBytes(b)
		h.Write(b)
	}
	return new(big.Int).SetBytes(h.Sum(nil)), nil
}

func (m *MiMCNative) HashTwo(a, b *big.Int) (*big.Int, error) {
	return m.Hash([]*big.Int{a, b})
}

func (m *MiMCNative) EmptyHash() *big.Int {
	return big.NewInt(0)
}

// MiMCCircuit implements Circuit using gnark's in-circuit MiMC gadget.
type MiMCCircuit struct{}

// NewMiMCCircuit constructs a Circuit MiMC hasher.
func NewMiMCCircuit() *MiMCCircuit { return &MiMCCircuit{} }

func (m *MiMCCircuit) Width() int { return 0 }

func (m *MiMCCircuit) Hash(api frontend.API, inputs ...frontend.Variable) (frontend.Variable, error) {
	h, err := mimc.NewMiMC(api)
	if err != nil {
		return nil, err
	}
	h.Write(inputs...)
	return h.Sum(), nil
}

func (m *MiMCCircuit) HashTwo(api frontend.API, a, b frontend.Variable) (frontend.Variable, error) {
	return m.Hash(api, a, b)
}
