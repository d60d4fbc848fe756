// Package deposit implements the pool's deposit statement circuit: proof
// that a new leaf, hashed from (leafIndex, depositAmount, secret), folds a
// given sibling path from the empty-leaf value up to PrevRoot and from the
// real leaf value up to UpdateNodes' last entry (the new root).
//
// Grounded on circuits/poi's PoICircuit/MerkleProofCircuit shape (public/
// private gnark struct tags, per-path direction-bit enforcement) and
// circuits/fsp's const-configured circuit package layout, generalized from
// a fixed-depth inclusion/boundary proof to the accumulator's append fold
// (circuits/gadgets.AddNewLeaf).
package deposit

import "github.com/soda-maze/shielded-pool/config"

// Height is the accumulator height this circuit package is compiled for.
// A deployment choosing config.TreeHeight26 instead compiles a second,
// structurally identical instance of this package with Height redefined —
// gnark circuits fix array lengths at compile time, so the two supported
// heights are two separate circuits, not one runtime-parameterized
// circuit.
const Height = int(config.DefaultTreeHeight)
