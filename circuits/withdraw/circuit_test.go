package withdraw_test

import (
	"math/big"
	"testing"

	"github.com/consensys/gnark-crypto/ecc"
	"github.com/consensys/gnark/backend/groth16"
	"github.com/consensys/gnark/frontend"
	"github.com/stretchr/testify/require"

	"github.com/soda-maze/shielded-pool/circuits/withdraw"
	"github.com/soda-maze/shielded-pool/config"
	"github.com/soda-maze/shielded-pool/pkg/hasher"
	"github.com/soda-maze/shielded-pool/pkg/merkle"
	"github.com/soda-maze/shielded-pool/pkg/setup"
	"github.com/soda-maze/shielded-pool/vanilla"
)

func proveAndVerify(t *testing.T, assignment *withdraw.Circuit) {
	t.Helper()

	circuitHasher := hasher.NewPoseidon2Circuit(hasher.DefaultPoseidon2Params)
	template := withdraw.NewCircuit(circuitHasher, circuitHasher, circuitHasher)
	ccs, err := setup.CompileCircuit(template)
	require.NoError(t, err)

	pk, vk, err := groth16.Setup(ccs)
	require.NoError(t, err)

	witness, err := frontend.NewWitness(assignment, ecc.BN254.ScalarField())
	require.NoError(t, err)
	publicWitness, err := witness.Public()
	require.NoError(t, err)

	proof, err := groth16.Prove(ccs, pk, witness)
	require.NoError(t, err)
	require.NoError(t, groth16.Verify(proof, vk, publicWitness))
}

func TestWithdrawCircuitEndToEnd(t *testing.T) {
	nativeHasher := hasher.NewPoseidon2Native(hasher.DefaultPoseidon2Params)
	circuitHasher := hasher.NewPoseidon2Circuit(hasher.DefaultPoseidon2Params)

	height := config.TreeHeight(withdraw.Height)
	tree, err := merkle.NewTree(height, nativeHasher, nativeHasher.EmptyHash())
	require.NoError(t, err)

	depositParams := &vanilla.DepositConstParams{LeafHasher: nativeHasher, InnerHasher: nativeHasher, Height: height}
	depositOrigin := &vanilla.DepositOriginInputs{
		LeafIndex:     0,
		DepositAmount: 1000,
		Secret:        big.NewInt(42),
		NeighborNodes: tree.GetProof(0),
	}
	depositPub, _, err := vanilla.GenerateDepositVanillaProof(depositParams, depositOrigin)
	require.NoError(t, err)
	_, _, _, err = tree.Insert(depositPub.Leaf)
	require.NoError(t, err)

	withdrawParams := &vanilla.WithdrawConstParams{
		LeafHasher: nativeHasher, NullifierHasher: nativeHasher, InnerHasher: nativeHasher, Height: height,
	}
	withdrawOrigin := &vanilla.WithdrawOriginInputs{
		SrcLeafIndex:     0,
		SrcAmount:        1000,
		Secret:           big.NewInt(42),
		SrcNeighborNodes: tree.GetProof(0),
		WithdrawAmount:   600,
		DstLeafIndex:     tree.NextLeafIndex,
		DstAmount:        400,
		DstSecret:        big.NewInt(43),
		DstNeighborNodes: tree.GetProof(tree.NextLeafIndex),
	}

	assignment, pubIn, err := withdraw.PrepareWitness(withdrawParams, circuitHasher, circuitHasher, circuitHasher, withdrawOrigin)
	require.NoError(t, err)
	require.Len(t, pubIn.UpdatingNodes, withdraw.Height)

	proveAndVerify(t, assignment)
}
