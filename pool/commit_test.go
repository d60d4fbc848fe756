package pool_test

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/soda-maze/shielded-pool/config"
	"github.com/soda-maze/shielded-pool/pkg/hasher"
	"github.com/soda-maze/shielded-pool/pkg/merkle"
	"github.com/soda-maze/shielded-pool/pool"
	"github.com/soda-maze/shielded-pool/vanilla"
)

func testTree(t *testing.T, height config.TreeHeight) (*merkle.Tree, hasher.Native) {
	t.Helper()
	h := hasher.NewPoseidon2Native(hasher.DefaultPoseidon2Params)
	tree, err := merkle.NewTree(height, h, h.EmptyHash())
	require.NoError(t, err)
	return tree, h
}

func TestCommitDepositAdvancesVaultAndMaterializesNodes(t *testing.T) {
	const height = config.TreeHeight(4)
	tree, h := testTree(t, height)

	vault := pool.NewVault(pool.Address{1}, pool.Address{2}, pool.Address{3}, 255, tree.Root)

	params := &vanilla.DepositConstParams{LeafHasher: h, InnerHasher: h, Height: height}
	origin := &vanilla.DepositOriginInputs{
		LeafIndex:     0,
		DepositAmount: 1000,
		Secret:        big.NewInt(7),
		NeighborNodes: tree.GetProof(0),
	}
	pub, _, err := vanilla.GenerateDepositVanillaProof(params, origin)
	require.NoError(t, err)

	nodes, utxo, err := pool.CommitDeposit(vault, pub, int(height))
	require.NoError(t, err)
	require.Len(t, nodes, int(height))
	require.Equal(t, uint64(0), utxo.LeafIndex)
	require.Equal(t, uint64(1000), utxo.Amount.Origin)
	require.Equal(t, uint64(1), vault.NextLeafIndex)
	require.Equal(t, 0, vault.Root.Cmp(pub.UpdateNodes[len(pub.UpdateNodes)-1]))
}

func TestCommitDepositRejectsStaleConsistency(t *testing.T) {
	const height = config.TreeHeight(4)
	tree, h := testTree(t, height)
	vault := pool.NewVault(pool.Address{1}, pool.Address{2}, pool.Address{3}, 255, tree.Root)

	params := &vanilla.DepositConstParams{LeafHasher: h, InnerHasher: h, Height: height}
	origin := &vanilla.DepositOriginInputs{
		LeafIndex:     1, // vault expects leaf index 0 next
		DepositAmount: 500,
		Secret:        big.NewInt(9),
		NeighborNodes: tree.GetProof(1),
	}
	pub, _, err := vanilla.GenerateDepositVanillaProof(params, origin)
	require.NoError(t, err)

	_, _, err = pool.CommitDeposit(vault, pub, int(height))
	require.ErrorIs(t, err, pool.ErrInvalidVanillaData)
}

func TestCommitWithdrawSpendsNullifierOnce(t *testing.T) {
	const height = config.TreeHeight(4)
	tree, h := testTree(t, height)
	vault := pool.NewVault(pool.Address{1}, pool.Address{2}, pool.Address{3}, 255, tree.Root)
	registry := pool.NewNullifierRegistry()

	depositParams := &vanilla.DepositConstParams{LeafHasher: h, InnerHasher: h, Height: height}
	depositOrigin := &vanilla.DepositOriginInputs{
		LeafIndex:     0,
		DepositAmount: 1000,
		Secret:        big.NewInt(42),
		NeighborNodes: tree.GetProof(0),
	}
	depositPub, _, err := vanilla.GenerateDepositVanillaProof(depositParams, depositOrigin)
	require.NoError(t, err)
	_, _, err = pool.CommitDeposit(vault, depositPub, int(height))
	require.NoError(t, err)
	_, _, _, err = tree.Insert(depositPub.Leaf)
	require.NoError(t, err)

	withdrawParams := &vanilla.WithdrawConstParams{LeafHasher: h, NullifierHasher: h, InnerHasher: h, Height: height}
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
	withdrawPub, _, err := vanilla.GenerateWithdrawVanillaProof(withdrawParams, withdrawOrigin)
	require.NoError(t, err)

	nodes, commitment, err := pool.CommitWithdraw(vault, registry, withdrawPub, int(height), nil)
	require.NoError(t, err)
	require.Len(t, nodes, int(height))
	require.Nil(t, commitment)
	require.Equal(t, withdrawOrigin.DstLeafIndex+1, vault.NextLeafIndex)

	// Replaying the identical withdraw must fail at the nullifier step,
	// leaving the vault untouched.
	priorRoot := new(big.Int).Set(vault.Root)
	priorIndex := vault.NextLeafIndex
	_, _, err = pool.CommitWithdraw(vault, registry, withdrawPub, int(height), nil)
	require.ErrorIs(t, err, pool.ErrDoubleSpend)
	require.Equal(t, 0, priorRoot.Cmp(vault.Root))
	require.Equal(t, priorIndex, vault.NextLeafIndex)
}

func TestCommitWithdrawPopulatesOptionalCommitmentAccount(t *testing.T) {
	const height = config.TreeHeight(4)
	tree, h := testTree(t, height)
	vault := pool.NewVault(pool.Address{1}, pool.Address{2}, pool.Address{3}, 255, tree.Root)
	registry := pool.NewNullifierRegistry()

	depositParams := &vanilla.DepositConstParams{LeafHasher: h, InnerHasher: h, Height: height}
	depositOrigin := &vanilla.DepositOriginInputs{
		LeafIndex:     0,
		DepositAmount: 1000,
		Secret:        big.NewInt(42),
		NeighborNodes: tree.GetProof(0),
	}
	depositPub, _, err := vanilla.GenerateDepositVanillaProof(depositParams, depositOrigin)
	require.NoError(t, err)
	_, _, err = pool.CommitDeposit(vault, depositPub, int(height))
	require.NoError(t, err)
	_, _, _, err = tree.Insert(depositPub.Leaf)
	require.NoError(t, err)

	withdrawParams := &vanilla.WithdrawConstParams{LeafHasher: h, NullifierHasher: h, InnerHasher: h, Height: height}
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
	withdrawPub, _, err := vanilla.GenerateWithdrawVanillaProof(withdrawParams, withdrawOrigin)
	require.NoError(t, err)

	limbs := []*big.Int{big.NewInt(11), big.NewInt(22)}
	_, commitment, err := pool.CommitWithdraw(vault, registry, withdrawPub, int(height), limbs)
	require.NoError(t, err)
	require.NotNil(t, commitment)
	require.True(t, commitment.Initialized)
	require.Equal(t, limbs, commitment.CipherLimbs)
}
