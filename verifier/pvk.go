package verifier

import (
	"errors"

	"github.com/consensys/gnark-crypto/ecc/bn254"
	"github.com/consensys/gnark/backend/groth16"
	groth16bn254 "github.com/consensys/gnark/backend/groth16/bn254"
)

// ErrUnsupportedCurve is returned when a caller hands Prepare a verifying
// key from a curve other than BN254 — the only curve this module wires
// any circuit against.
var ErrUnsupportedCurve = errors.New("verifier: verifying key is not a BN254 groth16.VerifyingKey")

// PreparedVerifyingKey holds the parts of a BN254 Groth16 verifying key
// the FSM needs, pulled out of the library's opaque groth16.VerifyingKey
// interface once so every tick of PrepareInputs avoids the type
// assertion. Grounded on original_source/program/src/params/proof.rs's
// PreparedVerifyingKey (gamma_abc_g1, alpha*beta precomputed as a single
// GT element, the two negated generator points folded in ahead of time).
type PreparedVerifyingKey struct {
	GammaABC []bn254.G1Affine // vk.G1.K: gamma_abc_g1[0] is the constant term
	AlphaBeta bn254.GT        // vk.E, precomputed e(alpha, beta)
	Gamma     bn254.G2Affine
	Delta     bn254.G2Affine
}

// Prepare extracts a PreparedVerifyingKey from a gnark groth16.VerifyingKey
// produced for a BN254 circuit (i.e. anything built via pkg/setup against
// this module's circuits).
func Prepare(vk groth16.VerifyingKey) (*PreparedVerifyingKey, error) {
	bn, ok := vk.(*groth16bn254.VerifyingKey)
	if !ok {
		return nil, ErrUnsupportedCurve
	}
	return &PreparedVerifyingKey{
		GammaABC:  bn.G1.K,
		AlphaBeta: bn.E,
		Gamma:     bn.G2.Gamma,
		Delta:     bn.G2.Delta,
	}, nil
}
