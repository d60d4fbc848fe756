package deposit_test

import (
	"math/big"
	"testing"

	"github.com/consensys/gnark-crypto/ecc"
	"github.com/consensys/gnark/backend/groth16"
	"github.com/consensys/gnark/frontend"
	"github.com/stretchr/testify/require"

	"github.com/soda-maze/shielded-pool/circuits/deposit"
	"github.com/soda-maze/shielded-pool/config"
	"github.com/soda-maze/shielded-pool/pkg/hasher"
	"github.com/soda-maze/shielded-pool/pkg/merkle"
	"github.com/soda-maze/shielded-pool/pkg/setup"
	"github.com/soda-maze/shielded-pool/vanilla"
)

func proveAndVerify(t *testing.T, assignment *deposit.Circuit) {
	t.Helper()

	circuitHasher := hasher.NewPoseidon2Circuit(hasher.DefaultPoseidon2Params)
	template := deposit.NewCircuit(circuitHasher, circuitHasher)
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

func TestDepositCircuitEndToEnd(t *testing.T) {
	nativeHasher := hasher.NewPoseidon2Native(hasher.DefaultPoseidon2Params)
	circuitHasher := hasher.NewPoseidon2Circuit(hasher.DefaultPoseidon2Params)

	height := config.TreeHeight(deposit.Height)
	params := &vanilla.DepositConstParams{LeafHasher: nativeHasher, InnerHasher: nativeHasher, Height: height}
	origin := &vanilla.DepositOriginInputs{
		LeafIndex:     0,
		DepositAmount: 1000,
		Secret:        big.NewInt(42),
		NeighborNodes: emptyPath(deposit.Height, nativeHasher),
	}

	assignment, pubIn, err := deposit.PrepareWitness(params, circuitHasher, circuitHasher, origin)
	require.NoError(t, err)
	require.Len(t, pubIn.UpdateNodes, deposit.Height)

	proveAndVerify(t, assignment)
}

func emptyPath(height int, h hasher.Native) []merkle.PathElement {
	path := make([]merkle.PathElement, height)
	node := h.EmptyHash()
	for i := range path {
		path[i] = merkle.PathElement{IsLeft: false, Node: node}
		node, _ = h.HashTwo(node, node)
	}
	return path
}
