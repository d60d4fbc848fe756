package verifier

import (
	"errors"
	"math/big"

	"github.com/consensys/gnark-crypto/ecc/bn254"
)

// FrBits is BN254's scalar field bit length (the modulus is just under
// 2^254), the number of bits PrepareInputs must fold per public input.
const FrBits = 254

// Proof is the three Groth16 proof elements gnark-crypto's BN254 backend
// produces, named the way groth16/bn254.Proof names them: Ar and Krs in
// G1, Bs in G2.
type Proof struct {
	Ar  bn254.G1Affine
	Bs  bn254.G2Affine
	Krs bn254.G1Affine
}

// ErrVerificationFailed names a failed pairing check for callers that want
// an error value; the FSM itself reports that outcome as Finished{OK: false}
// and never returns this error.
var ErrVerificationFailed = errors.New("verifier: pairing check failed")

// ErrTerminalState is returned when Process is called on a Finished state.
var ErrTerminalState = errors.New("verifier: FSM invoked in a terminal state")

// State is one step of the verification FSM. Process performs a bounded
// amount of work and returns the next state; calling Process on a Finished
// state is an error (ErrTerminalState).
type State interface {
	// Process advances the FSM by at most one tick's worth of work.
	Process(pvk *PreparedVerifyingKey) (State, error)
	// Done reports whether this is a terminal state.
	Done() bool
}

// PrepareInputs accumulates the public input commitment
// vk_x = gamma_abc[0] + sum_i public_input[i] * gamma_abc[i+1]
// via repeated double-and-add, TicksPerTurn bits at a time, matching
// original_source/program/src/verifier/mock/prepare_inputs.rs's
// PrepareInputs::process.
type PrepareInputs struct {
	PublicInputs []*big.Int
	Proof        Proof

	inputIndex int
	bitIndex   int
	gIC        bn254.G1Jac // accumulated sum so far
	tmp        bn254.G1Jac // in-progress double-and-add for the current input
}

// NewPrepareInputs starts a fresh FSM run for the given public inputs and
// proof. gamma_abc[0] (the constant term) is folded in immediately since
// it carries no bits to iterate.
func NewPrepareInputs(pvk *PreparedVerifyingKey, publicInputs []*big.Int, proof Proof) (*PrepareInputs, error) {
	if len(publicInputs)+1 != len(pvk.GammaABC) {
		return nil, errors.New("verifier: public input count does not match verifying key")
	}
	var gIC bn254.G1Jac
	gIC.FromAffine(&pvk.GammaABC[0])
	return &PrepareInputs{
		PublicInputs: publicInputs,
		Proof:        proof,
		gIC:          gIC,
	}, nil
}

func (s *PrepareInputs) Done() bool { return false }

func (s *PrepareInputs) Process(pvk *PreparedVerifyingKey) (State, error) {
	input := s.PublicInputs[s.inputIndex]
	base := pvk.GammaABC[s.inputIndex+1]

	ticks := TicksPerTurn
	for ticks > 0 && s.bitIndex < FrBits {
		bitPos := FrBits - 1 - s.bitIndex
		s.tmp.Double(&s.tmp)
		if input.Bit(bitPos) == 1 {
			s.tmp.AddMixed(&base)
		}
		s.bitIndex++
		ticks--
	}

	if s.bitIndex < FrBits {
		return s, nil
	}

	s.gIC.AddAssign(&s.tmp)
	s.inputIndex++
	s.bitIndex = 0
	s.tmp = bn254.G1Jac{}

	if s.inputIndex < len(s.PublicInputs) {
		return s, nil
	}

	var vkx bn254.G1Affine
	vkx.FromJacobian(&s.gIC)

	// Section 4.3's tie-break: if every public input bit accumulated to
	// nothing, gIC stays at gamma_abc[0]'s own unreduced case only when
	// that itself was the point at infinity (gamma_abc[0] is a genuine
	// verifying-key constant and is never infinity in a real key, but a
	// degenerate all-zero verifying key must still be rejected here rather
	// than flowing into a pairing call with an infinity input).
	if vkx.IsInfinity() {
		return &Finished{OK: false}, nil
	}

	return &MillerLoop{Proof: s.Proof, VKX: vkx}, nil
}

// MillerLoop runs the pairing's Miller loop in one tick: gnark-crypto's
// BN254 package does not expose the per-bit line-evaluation state the
// original hand-rolled pairing implementation chunked across
// MillerLoop/MillerLoopFinalize, so this stage runs to completion
// atomically via the library's batched MillerLoop. See budget.go's
// package doc for the reasoning; this limitation is scoped to the Miller
// loop only — the final exponentiation that follows is chunked in full
// across FinalExponentEasyPart/FinalExponentHardPart1-4 below, since
// gnark-crypto's GT type does expose the primitives that stage needs.
type MillerLoop struct {
	Proof Proof
	VKX   bn254.G1Affine
}

func (s *MillerLoop) Done() bool { return false }

func (s *MillerLoop) Process(pvk *PreparedVerifyingKey) (State, error) {
	var negVKX, negC bn254.G1Affine
	negVKX.Neg(&s.VKX)
	negC.Neg(&s.Proof.Krs)

	f, err := bn254.MillerLoop(
		[]bn254.G1Affine{s.Proof.Ar, negVKX, negC},
		[]bn254.G2Affine{s.Proof.Bs, pvk.Gamma, pvk.Delta},
	)
	if err != nil {
		return nil, err
	}
	return &FinalExponentEasyPart{F: f}, nil
}

// Finished is the FSM's terminal state: OK reports whether the proof
// verified.
type Finished struct {
	OK bool
}

func (s *Finished) Done() bool { return true }

func (s *Finished) Process(_ *PreparedVerifyingKey) (State, error) {
	return s, ErrTerminalState
}
