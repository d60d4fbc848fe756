package withdraw_test

import (
	"math/big"
	"testing"

	"github.com/consensys/gnark-crypto/ecc"
	"github.com/consensys/gnark/backend/groth16"
	"github.com/consensys/gnark/frontend"
	"github.com/consensys/gnark/frontend/cs/r1cs"
	"github.com/stretchr/testify/require"

	"github.com/soda-maze/shielded-pool/circuits/withdraw"
	"github.com/soda-maze/shielded-pool/config"
	"github.com/soda-maze/shielded-pool/edwards"
	"github.com/soda-maze/shielded-pool/pkg/hasher"
	"github.com/soda-maze/shielded-pool/pkg/merkle"
	"github.com/soda-maze/shielded-pool/vanilla"
)

func TestPrepareFullWitnessProducesConsistentAssignment(t *testing.T) {
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

	padding := make([]*big.Int, 14)
	for i := range padding {
		padding[i] = big.NewInt(int64(i + 1))
	}
	nonce := big.NewInt(7)

	edwardsParams := edwards.NewParams()
	pubkey := edwardsParams.ScalarMul(edwardsParams.Base(), big.NewInt(123))

	origin := &withdraw.FullOriginInputs{
		WithdrawOriginInputs: vanilla.WithdrawOriginInputs{
			SrcLeafIndex:     0,
			SrcAmount:        1000,
			Secret:           big.NewInt(42),
			SrcNeighborNodes: tree.GetProof(0),
			WithdrawAmount:   600,
			DstLeafIndex:     tree.NextLeafIndex,
			DstAmount:        400,
			DstSecret:        big.NewInt(43),
			DstNeighborNodes: tree.GetProof(tree.NextLeafIndex),
		},
		RabinPadding: padding,
		EdwardsNonce: nonce,
	}

	assignment, pubIn, err := withdraw.PrepareFullWitness(
		withdrawParams, circuitHasher, circuitHasher, circuitHasher, edwardsParams, pubkey, origin,
	)
	require.NoError(t, err)
	require.Len(t, pubIn.UpdatingNodes, withdraw.Height)
	require.NotNil(t, assignment.CommitmentC0X)
	require.NotNil(t, assignment.RabinCypher[0])
}

func TestFullCircuitEndToEnd(t *testing.T) {
	if testing.Short() {
		t.Skip("full withdraw circuit (Rabin + Edwards) is expensive; skip under -short")
	}

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

	padding := make([]*big.Int, 14)
	for i := range padding {
		padding[i] = big.NewInt(int64(i + 1))
	}
	nonce := big.NewInt(7)

	edwardsParams := edwards.NewParams()
	pubkey := edwardsParams.ScalarMul(edwardsParams.Base(), big.NewInt(123))

	origin := &withdraw.FullOriginInputs{
		WithdrawOriginInputs: vanilla.WithdrawOriginInputs{
			SrcLeafIndex:     0,
			SrcAmount:        1000,
			Secret:           big.NewInt(42),
			SrcNeighborNodes: tree.GetProof(0),
			WithdrawAmount:   600,
			DstLeafIndex:     tree.NextLeafIndex,
			DstAmount:        400,
			DstSecret:        big.NewInt(43),
			DstNeighborNodes: tree.GetProof(tree.NextLeafIndex),
		},
		RabinPadding: padding,
		EdwardsNonce: nonce,
	}

	assignment, _, err := withdraw.PrepareFullWitness(
		withdrawParams, circuitHasher, circuitHasher, circuitHasher, edwardsParams, pubkey, origin,
	)
	require.NoError(t, err)

	template := withdraw.NewFull(circuitHasher, circuitHasher, circuitHasher, pubkey)
	ccs, err := frontend.Compile(ecc.BN254.ScalarField(), r1cs.NewBuilder, template)
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
