package deposit

import (
	"fmt"
	"math/big"

	"github.com/soda-maze/shielded-pool/pkg/hasher"
	"github.com/soda-maze/shielded-pool/vanilla"
)

// PrepareWitness runs the native deposit statement and packs its result
// into a fully populated Circuit assignment, ready for frontend.NewWitness.
func PrepareWitness(
	params *vanilla.DepositConstParams,
	leafHasher, innerHasher hasher.Circuit,
	originIn *vanilla.DepositOriginInputs,
) (*Circuit, *vanilla.DepositPublicInputs, error) {
	pubIn, privIn, err := vanilla.GenerateDepositVanillaProof(params, originIn)
	if err != nil {
		return nil, nil, err
	}
	if len(pubIn.UpdateNodes) != Height {
		return nil, nil, fmt.Errorf("deposit: tree height %d does not match circuit height %d", len(pubIn.UpdateNodes), Height)
	}

	c := NewCircuit(leafHasher, innerHasher)
	c.DepositAmount = new(big.Int).SetUint64(pubIn.DepositAmount)
	c.LeafIndex = new(big.Int).SetUint64(pubIn.LeafIndex)
	c.Leaf = pubIn.Leaf
	c.PrevRoot = pubIn.PrevRoot
	for i := 0; i < Height; i++ {
		c.UpdateNodes[i] = pubIn.UpdateNodes[i]
	}

	c.Secret = privIn.Secret
	for i, pe := range privIn.NeighborNodes {
		c.Siblings[i] = pe.Node
		if pe.IsLeft {
			c.IsLeft[i] = big.NewInt(1)
		} else {
			c.IsLeft[i] = big.NewInt(0)
		}
	}
	return c, pubIn, nil
}
