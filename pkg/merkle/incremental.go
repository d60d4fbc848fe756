package merkle

import (
	"fmt"
	"math/big"

	"github.com/soda-maze/shielded-pool/pkg/hasher"
)

// IncrementalPathHasher drives a single leaf's Merkle-path update across
// several calls instead of one, so that a host with a per-transaction
// compute budget can finish a tree update over multiple transactions. This
// mirrors the "PoseidonMerkleHasher" round-by-round persisted state in the
// reference implementation's vanilla/merkle.rs: there, each tick advances
// the Poseidon permutation by a bounded number of internal rounds; here the
// bounded unit is one full layer combination (one HashTwo call), since the
// hasher.Native capability only exposes whole-hash calls rather than
// exposing individual permutation rounds (the scheduling, not the
// permutation arithmetic, is this repository's concern; the arithmetic
// itself is an explicit non-goal). A host wanting finer-grained,
// sub-permutation ticking would implement hasher.Native itself to expose
// that.
//
// Like the Groth16 verifier FSM (verifier package), the value here is meant
// to be serialized between ticks: it carries no live object graph, only
// plain data.
type IncrementalPathHasher struct {
	h hasher.Native

	Path     []PathElement
	LeafHash *big.Int

	// Layer is the next path index to process; Layer == len(Path) means done.
	Layer int
	// Current is the running hash: LeafHash before any tick, and the
	// layer-(Layer-1) updating node after Layer ticks have run.
	Current *big.Int

	// Updating accumulates the per-layer updating-node chain as it is
	// produced, exactly as GeneratePath would return in one shot.
	Updating []*big.Int
}

// NewIncrementalPathHasher begins a fresh incremental update for leafHash
// against path.
func NewIncrementalPathHasher(h hasher.Native, path []PathElement, leafHash *big.Int) *IncrementalPathHasher {
	return &IncrementalPathHasher{
		h:        h,
		Path:     path,
		LeafHash: leafHash,
		Layer:    0,
		Current:  new(big.Int).Set(leafHash),
		Updating: make([]*big.Int, 0, len(path)),
	}
}

// Done reports whether every layer has been processed.
func (ip *IncrementalPathHasher) Done() bool {
	return ip.Layer >= len(ip.Path)
}

// Tick processes up to budget layers of the path, advancing Layer and
// Current, and returns the number of layers actually processed (less than
// budget only when the path finishes first). Calling Tick on an already-Done
// hasher is a no-op returning 0.
func (ip *IncrementalPathHasher) Tick(budget int) (int, error) {
	processed := 0
	for processed < budget && !ip.Done() {
		pe := ip.Path[ip.Layer]
		var left, right *big.Int
		if pe.IsLeft {
			left, right = pe.Node, ip.Current
		} else {
			left, right = ip.Current, pe.Node
		}
		next, err := ip.h.HashTwo(left, right)
		if err != nil {
			return processed, fmt.Errorf("merkle: incremental tick at layer %d: %w", ip.Layer, err)
		}
		ip.Current = next
		ip.Updating = append(ip.Updating, next)
		ip.Layer++
		processed++
	}
	return processed, nil
}

// Root returns the resulting root once Done reports true; it panics
// otherwise since reading an incomplete accumulator is a caller bug, not a
// refusable runtime condition (section 7's "unreachable" class).
func (ip *IncrementalPathHasher) Root() *big.Int {
	if !ip.Done() {
		panic("merkle: IncrementalPathHasher.Root called before completion")
	}
	return ip.Current
}
