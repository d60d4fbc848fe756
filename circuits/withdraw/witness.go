package withdraw

import (
	"fmt"
	"math/big"

	"github.com/soda-maze/shielded-pool/pkg/hasher"
	"github.com/soda-maze/shielded-pool/vanilla"
)

// PrepareWitness runs the native withdraw statement and packs its result
// into a fully populated Circuit assignment.
func PrepareWitness(
	params *vanilla.WithdrawConstParams,
	leafHasher, nullifierHasher, innerHasher hasher.Circuit,
	originIn *vanilla.WithdrawOriginInputs,
) (*Circuit, *vanilla.WithdrawPublicInputs, error) {
	pubIn, privIn, err := vanilla.GenerateWithdrawVanillaProof(params, originIn)
	if err != nil {
		return nil, nil, err
	}
	if len(pubIn.UpdatingNodes) != Height {
		return nil, nil, fmt.Errorf("withdraw: tree height %d does not match circuit height %d", len(pubIn.UpdatingNodes), Height)
	}

	c := NewCircuit(leafHasher, nullifierHasher, innerHasher)
	assignCore(c, pubIn, privIn)
	return c, pubIn, nil
}

// assignCore copies a vanilla withdraw statement's public/private halves
// into the circuit's core fields; shared by Circuit and Full's witness
// preparation.
func assignCore(c *Circuit, pubIn *vanilla.WithdrawPublicInputs, privIn *vanilla.WithdrawPrivateInputs) {
	c.WithdrawAmount = new(big.Int).SetUint64(pubIn.WithdrawAmount)
	c.Nullifier = pubIn.Nullifier
	c.DstLeafIndex = new(big.Int).SetUint64(pubIn.DstLeafIndex)
	c.DstLeaf = pubIn.DstLeaf
	c.PrevRoot = pubIn.PrevRoot
	for i := 0; i < Height; i++ {
		c.UpdatingNodes[i] = pubIn.UpdatingNodes[i]
	}

	c.SrcLeafIndex = new(big.Int).SetUint64(privIn.SrcLeafIndex)
	c.SrcAmount = new(big.Int).SetUint64(privIn.SrcAmount)
	c.Secret = privIn.Secret
	for i, pe := range privIn.SrcNeighborNodes {
		c.SrcSiblings[i] = pe.Node
		c.SrcIsLeft[i] = boolVar(pe.IsLeft)
	}

	c.DstAmount = new(big.Int).SetUint64(privIn.DstAmount)
	c.DstSecret = privIn.DstSecret
	for i, pe := range privIn.DstNeighborNodes {
		c.DstSiblings[i] = pe.Node
		c.DstIsLeft[i] = boolVar(pe.IsLeft)
	}
}

func boolVar(b bool) *big.Int {
	if b {
		return big.NewInt(1)
	}
	return big.NewInt(0)
}
