package merkle_test

import (
	"bytes"
	"math/big"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/soda-maze/shielded-pool/config"
	"github.com/soda-maze/shielded-pool/pkg/hasher"
	"github.com/soda-maze/shielded-pool/pkg/merkle"
)

func testHasher(t *testing.T) (hasher.Native, *big.Int) {
	t.Helper()
	h := hasher.NewPoseidon2Native(hasher.DefaultPoseidon2Params)
	emptyLeaf, err := h.HashWithDomainTag(hasher.DomainTagPadding, nil)
	require.NoError(t, err)
	return h, emptyLeaf
}

func TestTreeEmptyRootMatchesDefaultChain(t *testing.T) {
	h, emptyLeaf := testHasher(t)
	tree, err := merkle.NewTree(config.TreeHeight26, h, emptyLeaf)
	require.NoError(t, err)
	require.Equal(t, tree.DefaultNodes[int(tree.Height())], tree.Root)
}

func TestInsertThenVerifyProof(t *testing.T) {
	h, emptyLeaf := testHasher(t)
	tree, err := merkle.NewTree(config.TreeHeight26, h, emptyLeaf)
	require.NoError(t, err)

	leaf, err := h.HashWithDomainTag(hasher.DomainTagReal, []*big.Int{big.NewInt(1000), big.NewInt(5)})
	require.NoError(t, err)

	index, proof, updating, err := tree.Insert(leaf)
	require.NoError(t, err)
	require.Equal(t, uint64(0), index)
	require.Equal(t, tree.Root, updating[len(updating)-1])

	// The pre-insertion proof must consist entirely of default nodes.
	for i, pe := range proof {
		require.Equal(t, tree.DefaultNodes[i], pe.Node)
	}

	ok, err := merkle.VerifyProof(h, leaf, proof, tree.Root)
	require.NoError(t, err)
	require.True(t, ok)
}

func TestInsertAdvancesNextLeafIndex(t *testing.T) {
	h, emptyLeaf := testHasher(t)
	tree, err := merkle.NewTree(config.TreeHeight26, h, emptyLeaf)
	require.NoError(t, err)

	for i := uint64(0); i < 4; i++ {
		leaf, err := h.HashWithDomainTag(hasher.DomainTagReal, []*big.Int{big.NewInt(int64(i))})
		require.NoError(t, err)
		idx, _, _, err := tree.Insert(leaf)
		require.NoError(t, err)
		require.Equal(t, i, idx)
	}
	require.Equal(t, uint64(4), tree.NextLeafIndex)
}

func TestGetProofReflectsInsertedSibling(t *testing.T) {
	h, emptyLeaf := testHasher(t)
	tree, err := merkle.NewTree(config.TreeHeight26, h, emptyLeaf)
	require.NoError(t, err)

	leaf0, err := h.HashWithDomainTag(hasher.DomainTagReal, []*big.Int{big.NewInt(1)})
	require.NoError(t, err)
	_, _, _, err = tree.Insert(leaf0)
	require.NoError(t, err)

	// Leaf 1's proof at layer 0 must now show leaf0 as its sibling.
	proof := tree.GetProof(1)
	require.Equal(t, leaf0, proof[0].Node)
	require.True(t, proof[0].IsLeft, "leaf 1 is the right child; its sibling (leaf 0) is on the left")
}

func TestTamperedProofFailsVerification(t *testing.T) {
	h, emptyLeaf := testHasher(t)
	tree, err := merkle.NewTree(config.TreeHeight26, h, emptyLeaf)
	require.NoError(t, err)

	leaf, err := h.HashWithDomainTag(hasher.DomainTagReal, []*big.Int{big.NewInt(42)})
	require.NoError(t, err)
	_, proof, _, err := tree.Insert(leaf)
	require.NoError(t, err)

	tampered := new(big.Int).Add(leaf, big.NewInt(1))
	ok, err := merkle.VerifyProof(h, tampered, proof, tree.Root)
	require.NoError(t, err)
	require.False(t, ok)
}

func TestSaveLoadRoundTrip(t *testing.T) {
	h, emptyLeaf := testHasher(t)
	tree, err := merkle.NewTree(config.TreeHeight26, h, emptyLeaf)
	require.NoError(t, err)

	for i := int64(0); i < 3; i++ {
		leaf, err := h.HashWithDomainTag(hasher.DomainTagReal, []*big.Int{big.NewInt(i)})
		require.NoError(t, err)
		_, _, _, err = tree.Insert(leaf)
		require.NoError(t, err)
	}

	var buf bytes.Buffer
	require.NoError(t, tree.Save(&buf))

	loaded, err := merkle.Load(&buf, h, emptyLeaf)
	require.NoError(t, err)
	require.Equal(t, tree.Root, loaded.Root)
	require.Equal(t, tree.NextLeafIndex, loaded.NextLeafIndex)
	require.Equal(t, tree.GetLeaf(1), loaded.GetLeaf(1))
}
