package vanilla_test

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/soda-maze/shielded-pool/config"
	"github.com/soda-maze/shielded-pool/pkg/hasher"
	"github.com/soda-maze/shielded-pool/pkg/merkle"
	"github.com/soda-maze/shielded-pool/vanilla"
)

func testHasher(t *testing.T) hasher.Native {
	t.Helper()
	return hasher.NewPoseidon2Native(hasher.DefaultPoseidon2Params)
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

func TestGenerateDepositVanillaProofOnEmptyTree(t *testing.T) {
	h := testHasher(t)
	params := &vanilla.DepositConstParams{
		LeafHasher:  h,
		InnerHasher: h,
		Height:      config.TreeHeight26,
	}
	origin := &vanilla.DepositOriginInputs{
		LeafIndex:     0,
		DepositAmount: 1000,
		Secret:        big.NewInt(42),
		NeighborNodes: emptyPath(26, h),
	}

	pubIn, privIn, err := vanilla.GenerateDepositVanillaProof(params, origin)
	require.NoError(t, err)
	require.NotNil(t, privIn)
	require.Len(t, pubIn.UpdateNodes, 26)

	tree, err := merkle.NewTree(config.TreeHeight26, h, h.EmptyHash())
	require.NoError(t, err)
	require.Equal(t, 0, pubIn.PrevRoot.Cmp(tree.Root))

	_, _, updatingNodes, err := tree.Insert(pubIn.Leaf)
	require.NoError(t, err)
	require.Equal(t, 0, updatingNodes[len(updatingNodes)-1].Cmp(pubIn.UpdateNodes[len(pubIn.UpdateNodes)-1]))
}

func TestGenerateDepositVanillaProofRejectsOutOfRangeIndex(t *testing.T) {
	h := testHasher(t)
	params := &vanilla.DepositConstParams{LeafHasher: h, InnerHasher: h, Height: config.TreeHeight26}
	origin := &vanilla.DepositOriginInputs{
		LeafIndex:     config.TreeHeight26.MaxLeafIndex(),
		DepositAmount: 1,
		Secret:        big.NewInt(1),
		NeighborNodes: emptyPath(26, h),
	}
	_, _, err := vanilla.GenerateDepositVanillaProof(params, origin)
	require.ErrorIs(t, err, vanilla.ErrLeafIndexOutOfRange)
}

func TestDepositPublicInputsFlattenLength(t *testing.T) {
	h := testHasher(t)
	params := &vanilla.DepositConstParams{LeafHasher: h, InnerHasher: h, Height: config.TreeHeight26}
	origin := &vanilla.DepositOriginInputs{
		LeafIndex:     3,
		DepositAmount: 7,
		Secret:        big.NewInt(9),
		NeighborNodes: emptyPath(26, h),
	}
	pubIn, _, err := vanilla.GenerateDepositVanillaProof(params, origin)
	require.NoError(t, err)
	require.Len(t, pubIn.Flatten(), 4+26)
}

func TestGenerateWithdrawVanillaProofSpendsDepositedLeaf(t *testing.T) {
	h := testHasher(t)
	height := config.TreeHeight26
	tree, err := merkle.NewTree(height, h, h.EmptyHash())
	require.NoError(t, err)

	depositParams := &vanilla.DepositConstParams{LeafHasher: h, InnerHasher: h, Height: height}
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
		LeafHasher:      h,
		NullifierHasher: h,
		InnerHasher:     h,
		Height:          height,
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

	withdrawPub, withdrawPriv, err := vanilla.GenerateWithdrawVanillaProof(withdrawParams, withdrawOrigin)
	require.NoError(t, err)
	require.NotNil(t, withdrawPriv)
	require.NoError(t, withdrawPub.CheckValid(height))
	require.Equal(t, 0, withdrawPub.PrevRoot.Cmp(tree.Root))

	_, _, _, err = tree.Insert(withdrawPub.DstLeaf)
	require.NoError(t, err)
	require.Equal(t, 0, withdrawPub.UpdatingNodes[len(withdrawPub.UpdatingNodes)-1].Cmp(tree.Root))
}

func TestGenerateWithdrawVanillaProofRejectsAmountMismatch(t *testing.T) {
	h := testHasher(t)
	height := config.TreeHeight26
	params := &vanilla.WithdrawConstParams{LeafHasher: h, NullifierHasher: h, InnerHasher: h, Height: height}
	origin := &vanilla.WithdrawOriginInputs{
		SrcLeafIndex:     0,
		SrcAmount:        1000,
		Secret:           big.NewInt(1),
		SrcNeighborNodes: emptyPath(26, h),
		WithdrawAmount:   600,
		DstLeafIndex:     0,
		DstAmount:        500, // should be 400
		DstSecret:        big.NewInt(2),
		DstNeighborNodes: emptyPath(26, h),
	}
	_, _, err := vanilla.GenerateWithdrawVanillaProof(params, origin)
	require.Error(t, err)
}

func TestWithdrawPublicInputsFlattenLength(t *testing.T) {
	w := &vanilla.WithdrawPublicInputs{
		WithdrawAmount: 1,
		Nullifier:      big.NewInt(2),
		DstLeafIndex:   3,
		DstLeaf:        big.NewInt(4),
		PrevRoot:       big.NewInt(5),
		UpdatingNodes:  make([]*big.Int, 26),
	}
	for i := range w.UpdatingNodes {
		w.UpdatingNodes[i] = big.NewInt(int64(i))
	}
	require.Len(t, w.Flatten(), 5+26)
}
