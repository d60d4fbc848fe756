// Package verifier implements Groth16 proof verification as a resumable
// finite-state machine: each Process call advances through a bounded
// amount of work and returns the next state, rather than verifying a
// proof in one call. This mirrors a deployment model where verification
// must fit inside a per-transaction compute budget and is carried out
// across several transactions, one state transition at a time.
//
// Grounded on original_source/program/src/verifier/{state.rs,mock/*.rs}'s
// VerifyStage/FSM: PrepareInputs accumulates the public input commitment
// a bounded number of bits per call; MillerLoop runs the pairing's main
// loop; FinalExponentEasyPart and FinalExponentHardPart1-4 then chunk the
// final exponentiation exactly as the original does, down to the
// expByNegX ladder's ~8-NAF-digit-per-tick budget. The one stage this
// module cannot chunk further is the Miller loop itself: gnark-crypto's
// bn254 package does not export the per-bit line-evaluation state the
// original's MillerLoop/MillerLoopFinalize split relies on, so that one
// stage runs atomically via the library's batched MillerLoop. Every other
// stage, including the final exponentiation, uses gnark-crypto's exported
// GT primitives (Conjugate/Inverse/Frobenius/FrobeniusSquare/
// CyclotomicSquare/Mul) and is chunked in full. See DESIGN.md.
package verifier

// TicksPerTurn bounds how many bits of a single public input's
// double-and-add accumulation a single Process call performs, matching
// the original's MAX_LOOP=40 per-instruction budget.
const TicksPerTurn = 40
