package verifier

import "math/big"

// Run drives a State to completion, calling Process until a terminal
// state is reached. A real deployment instead persists the intermediate
// State between calls and invokes Process once per tick (see package
// doc); Run is the in-process convenience for tests and for callers that
// don't need the resumable behavior.
func Run(pvk *PreparedVerifyingKey, start State) (*Finished, error) {
	state := start
	for !state.Done() {
		next, err := state.Process(pvk)
		if err != nil {
			return nil, err
		}
		state = next
	}
	return state.(*Finished), nil
}

// Verify is the non-resumable convenience entry point: prepare the
// public-input accumulation state and run the FSM to completion in one
// call.
func Verify(pvk *PreparedVerifyingKey, publicInputs []*big.Int, proof Proof) (bool, error) {
	start, err := NewPrepareInputs(pvk, publicInputs, proof)
	if err != nil {
		return false, err
	}
	finished, err := Run(pvk, start)
	if err != nil {
		return false, err
	}
	return finished.OK, nil
}
