package rabin_test

import (
	"math/big"
	"testing"

	"github.com/holiman/uint256"
	"github.com/stretchr/testify/require"

	"github.com/soda-maze/shielded-pool/rabin"
)

func testParam(t *testing.T) *rabin.Param {
	t.Helper()
	modulus := new(big.Int).Lsh(big.NewInt(1), 2048)
	modulus.Sub(modulus, big.NewInt(159)) // an arbitrary odd value below 2^2048
	p, err := rabin.NewParam(modulus, 17, 124, 1)
	require.NoError(t, err)
	return p
}

func TestNewParamDecomposesModulusExactly(t *testing.T) {
	p := testParam(t)
	require.Len(t, p.ModulusArr, 17)
}

func TestGenPreimageFromLeafRejectsWrongPaddingLength(t *testing.T) {
	p := testParam(t)
	_, err := p.GenPreimageFromLeaf(big.NewInt(42), 254, nil)
	require.ErrorIs(t, err, rabin.ErrPaddingLength)
}

func TestGenPreimageFromLeafRoundTripsThroughEncrypt(t *testing.T) {
	p := testParam(t)
	leafLimbs := 3 // ceil(254/124)
	padding := make([]*uint256.Int, 17-leafLimbs)
	for i := range padding {
		padding[i] = uint256.NewInt(uint64(i + 1))
	}
	leaf := big.NewInt(123456789)
	preimage, err := p.GenPreimageFromLeaf(leaf, 254, padding)
	require.NoError(t, err)
	require.True(t, preimage.Cmp(p.Modulus) < 0)

	cypher, quotient := p.Encrypt(preimage)
	reconstructed := new(big.Int).Mul(quotient, p.Modulus)
	reconstructed.Add(reconstructed, cypher)
	squared := new(big.Int).Mul(preimage, preimage)
	require.Equal(t, 0, squared.Cmp(reconstructed))

	quotientArr, err := p.GenQuotientArray(quotient)
	require.NoError(t, err)
	require.Len(t, quotientArr, 17)
}

func TestGenCypherArrayRejectsBatchTooWide(t *testing.T) {
	p := testParam(t)
	_, err := p.GenCypherArray(big.NewInt(1), 100) // cypherBits=124 >= 100
	require.ErrorIs(t, err, rabin.ErrLimbOverflow)
}

func TestGenCypherArrayPacksLimbsBack(t *testing.T) {
	p := testParam(t)
	cypher := new(big.Int).Lsh(big.NewInt(1), 2000)
	arr, err := p.GenCypherArray(cypher, 254)
	require.NoError(t, err)
	require.Len(t, arr, 17)
}

func TestNewParamRejectsBadBatchDivisor(t *testing.T) {
	modulus := big.NewInt(1000)
	_, err := rabin.NewParam(modulus, 17, 124, 5)
	require.ErrorIs(t, err, rabin.ErrBatchMismatch)
}
