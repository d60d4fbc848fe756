package verifier

import (
	"math/big"
	"testing"

	"github.com/consensys/gnark-crypto/ecc/bn254"
	"github.com/stretchr/testify/require"
)

func TestComputeNAFReconstructsTheSeed(t *testing.T) {
	got := big.NewInt(0)
	pow := big.NewInt(1)
	for i := len(negXNAF) - 1; i >= 0; i-- {
		if negXNAF[i] != 0 {
			term := new(big.Int).Mul(pow, big.NewInt(int64(negXNAF[i])))
			got.Add(got, term)
		}
		pow.Lsh(pow, 1)
	}
	require.Equal(t, 0, got.Cmp(bn254X), "NAF digits must reconstruct the curve seed exactly")

	for i := 0; i < len(negXNAF)-1; i++ {
		require.Zero(t, negXNAF[i]*negXNAF[i+1], "non-adjacent form must not have two consecutive nonzero digits")
	}
}

// TestExpByNegXLadderIsResumable checks that two independently driven
// ladders starting from the same base converge to the same terminal
// accumulator after the same number of ticks, and that reaching that
// terminal state takes more than one Process-sized tick — the same
// property TestPrepareInputsTicksAcrossMultipleCalls checks for the
// public-input accumulator.
func TestExpByNegXLadderIsResumable(t *testing.T) {
	var base bn254.GT
	base.SetOne()

	a := newExpByNegXLadder(&base)
	b := newExpByNegXLadder(&base)

	ticks := 0
	for !a.done() {
		a.tick()
		b.tick()
		require.Equal(t, a.pos, b.pos)
		require.True(t, a.acc.Equal(&b.acc))
		ticks++
		require.Less(t, ticks, 10_000, "ladder did not converge")
	}
	require.True(t, b.done())
	require.Greater(t, ticks, 1, "expected the ladder to take more than one tick across the full NAF")
}
