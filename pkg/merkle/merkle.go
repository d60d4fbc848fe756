// Package merkle implements the shielded pool's append-only sparse Merkle
// accumulator: a binary tree of fixed height H in {26,27} over the BN254
// scalar field, addressed by (layer, index), whose never-touched subtrees
// are represented implicitly by a precomputed chain of default hashes.
//
// This generalizes a fixed depth-20 file-chunk tree, built once from a
// full leaf set, into a configurable-height, append-only accumulator whose
// leaves arrive one deposit/withdraw at a time (see DESIGN.md).
package merkle

import (
	"encoding/binary"
	"fmt"
	"io"
	"math/big"
	"sort"

	"github.com/consensys/gnark-crypto/ecc/bn254/fr"

	"github.com/soda-maze/shielded-pool/config"
	"github.com/soda-maze/shielded-pool/pkg/hasher"
)

// PathElement is one entry of a neighbor-list Merkle path: the sibling node
// at a given layer and whether that sibling is the left child.
type PathElement struct {
	IsLeft bool
	Node   *big.Int
}

// Tree is the sparse Merkle accumulator. Only real (inserted) nodes are
// stored; every other position's value is implied by DefaultNodes.
type Tree struct {
	height config.TreeHeight
	h      hasher.Native

	// layers[0] holds real leaves, layers[height] holds the root (if any
	// leaf has been inserted yet; otherwise the root is DefaultNodes[height]).
	layers []map[uint64]*big.Int

	// DefaultNodes[i] is the hash of an all-empty subtree of height i.
	// DefaultNodes[0] is the empty-leaf hash.
	DefaultNodes []*big.Int

	Root          *big.Int
	NextLeafIndex uint64
}

// NewTree builds an empty tree of the given height using h as the inner
// (and leaf) hash function, and emptyLeafHash as the hash of an unoccupied
// leaf slot (typically a domain-tagged hash of an all-zero leaf).
func NewTree(height config.TreeHeight, h hasher.Native, emptyLeafHash *big.Int) (*Tree, error) {
	defaults, err := precomputeDefaultNodes(h, int(height), emptyLeafHash)
	if err != nil {
		return nil, err
	}
	layers := make([]map[uint64]*big.Int, int(height)+1)
	for i := range layers {
		layers[i] = make(map[uint64]*big.Int)
	}
	return &Tree{
		height:        height,
		h:             h,
		layers:        layers,
		DefaultNodes:  defaults,
		Root:          defaults[height],
		NextLeafIndex: 0,
	}, nil
}

// precomputeDefaultNodes builds the zero-subtree hash chain:
//
//	default[0] = emptyLeafHash
//	default[i+1] = H_inner(default[i], default[i])
func precomputeDefaultNodes(h hasher.Native, height int, emptyLeafHash *big.Int) ([]*big.Int, error) {
	chain := make([]*big.Int, height+1)
	chain[0] = new(big.Int).Set(emptyLeafHash)
	for i := 1; i <= height; i++ {
		next, err := h.HashTwo(chain[i-1], chain[i-1])
		if err != nil {
			return nil, fmt.Errorf("merkle: precompute default node %d: %w", i, err)
		}
		chain[i] = next
	}
	return chain, nil
}

// Height returns the tree's fixed height.
func (t *Tree) Height() config.TreeHeight { return t.height }

// nodeAt returns the value at (layer, index), falling back to the default
// hash for that layer when the position has never been written.
func (t *Tree) nodeAt(layer int, index uint64) *big.Int {
	if v, ok := t.layers[layer][index]; ok {
		return v
	}
	return t.DefaultNodes[layer]
}

// GetProof returns the length-H neighbor list from the leaf at leafIndex up
// to (but not including) the root, reflecting the tree's current state.
// The leaf itself need not have been inserted — an empty leaf's proof is
// well-defined and consists entirely of default nodes.
func (t *Tree) GetProof(leafIndex uint64) []PathElement {
	path := make([]PathElement, int(t.height))
	idx := leafIndex
	for layer := 0; layer < int(t.height); layer++ {
		isLeft := idx&1 == 1 // current node is the right child => neighbor is left
		var siblingIdx uint64
		if idx&1 == 0 {
			siblingIdx = idx + 1
		} else {
			siblingIdx = idx - 1
		}
		path[layer] = PathElement{IsLeft: isLeft, Node: t.nodeAt(layer, siblingIdx)}
		idx /= 2
	}
	return path
}

// GetLeaf returns the value stored at the given leaf index, or the empty
// leaf hash (DefaultNodes[0]) if nothing has been inserted there.
func (t *Tree) GetLeaf(leafIndex uint64) *big.Int {
	return t.nodeAt(0, leafIndex)
}

// GeneratePath runs a neighbor list against leafHash, exactly mirroring the
// in-circuit AddNewLeaf gadget: returns the length-H sequence whose i-th
// entry is the hash at layer i+1, the last entry being the resulting root.
func GeneratePath(h hasher.Native, path []PathElement, leafHash *big.Int) ([]*big.Int, error) {
	updating := make([]*big.Int, len(path))
	current := leafHash
	for i, pe := range path {
		var left, right *big.Int
		if pe.IsLeft {
			left, right = pe.Node, current
		} else {
			left, right = current, pe.Node
		}
		next, err := h.HashTwo(left, right)
		if err != nil {
			return nil, fmt.Errorf("merkle: combine layer %d: %w", i, err)
		}
		updating[i] = next
		current = next
	}
	return updating, nil
}

// Insert writes leafHash at t.NextLeafIndex, updates every ancestor node and
// the root, and advances NextLeafIndex by one. It returns the pre-insertion
// proof (against the empty slot) and the resulting chain of updated node
// values, the last of which is the new root — exactly the "updating_nodes"
// the vanilla statements bind into their public inputs.
func (t *Tree) Insert(leafHash *big.Int) (index uint64, proof []PathElement, updatingNodes []*big.Int, err error) {
	if t.NextLeafIndex >= t.height.MaxLeafIndex() {
		return 0, nil, nil, fmt.Errorf("merkle: tree full at height %d", t.height)
	}
	index = t.NextLeafIndex
	proof = t.GetProof(index)
	updatingNodes, err = GeneratePath(t.h, proof, leafHash)
	if err != nil {
		return 0, nil, nil, err
	}

	t.layers[0][index] = leafHash
	idx := index
	for layer := 0; layer < int(t.height); layer++ {
		parent := idx / 2
		t.layers[layer+1][parent] = updatingNodes[layer]
		idx = parent
	}
	t.Root = updatingNodes[len(updatingNodes)-1]
	t.NextLeafIndex++
	return index, proof, updatingNodes, nil
}

// VerifyProof checks that running path against leafHash reproduces root —
// the native counterpart of the in-circuit AddNewLeaf root check.
func VerifyProof(h hasher.Native, leafHash *big.Int, path []PathElement, root *big.Int) (bool, error) {
	updating, err := GeneratePath(h, path, leafHash)
	if err != nil {
		return false, err
	}
	return updating[len(updating)-1].Cmp(root) == 0, nil
}

// ---------------------------------------------------------------------
// Serialization: deterministic binary format, the same shape as a
// Save/Load pair for a sparse Merkle tree over default-hash chains.
// ---------------------------------------------------------------------

// Save writes the tree to w. Default (never-touched) nodes are not stored;
// they are recomputed from emptyLeafHash on Load.
func (t *Tree) Save(w io.Writer) error {
	if err := binary.Write(w, binary.BigEndian, uint32(t.height)); err != nil {
		return fmt.Errorf("merkle: write height: %w", err)
	}
	if err := binary.Write(w, binary.BigEndian, t.NextLeafIndex); err != nil {
		return fmt.Errorf("merkle: write next leaf index: %w", err)
	}
	for layer := 0; layer <= int(t.height); layer++ {
		m := t.layers[layer]
		if err := binary.Write(w, binary.BigEndian, uint32(len(m))); err != nil {
			return fmt.Errorf("merkle: write layer %d count: %w", layer, err)
		}
		indices := make([]uint64, 0, len(m))
		for idx := range m {
			indices = append(indices, idx)
		}
		sort.Slice(indices, func(i, j int) bool { return indices[i] < indices[j] })
		for _, idx := range indices {
			if err := binary.Write(w, binary.BigEndian, idx); err != nil {
				return fmt.Errorf("merkle: write layer %d index: %w", layer, err)
			}
			var elem fr.Element
			elem.SetBigInt(m[idx])
			b := elem.Bytes()
			if _, err := w.Write(b[:]); err != nil {
				return fmt.Errorf("merkle: write layer %d hash: %w", layer, err)
			}
		}
	}
	return nil
}

// Load reads a tree previously written by Save. h and emptyLeafHash must
// match what the tree was built with.
func Load(r io.Reader, h hasher.Native, emptyLeafHash *big.Int) (*Tree, error) {
	var height uint32
	if err := binary.Read(r, binary.BigEndian, &height); err != nil {
		return nil, fmt.Errorf("merkle: read height: %w", err)
	}
	var next uint64
	if err := binary.Read(r, binary.BigEndian, &next); err != nil {
		return nil, fmt.Errorf("merkle: read next leaf index: %w", err)
	}

	defaults, err := precomputeDefaultNodes(h, int(height), emptyLeafHash)
	if err != nil {
		return nil, err
	}

	layers := make([]map[uint64]*big.Int, height+1)
	for layer := 0; layer <= int(height); layer++ {
		var count uint32
		if err := binary.Read(r, binary.BigEndian, &count); err != nil {
			return nil, fmt.Errorf("merkle: read layer %d count: %w", layer, err)
		}
		m := make(map[uint64]*big.Int, count)
		var hashBuf [32]byte
		for j := uint32(0); j < count; j++ {
			var idx uint64
			if err := binary.Read(r, binary.BigEndian, &idx); err != nil {
				return nil, fmt.Errorf("merkle: read layer %d index: %w", layer, err)
			}
			if _, err := io.ReadFull(r, hashBuf[:]); err != nil {
				return nil, fmt.Errorf("merkle: read layer %d hash: %w", layer, err)
			}
			var elem fr.Element
			elem.SetBytes(hashBuf[:])
			v := new(big.Int)
			elem.BigInt(v)
			m[idx] = v
		}
		layers[layer] = m
	}

	root, ok := layers[height][0]
	if !ok {
		root = defaults[height]
	}

	return &Tree{
		height:        config.TreeHeight(height),
		h:             h,
		layers:        layers,
		DefaultNodes:  defaults,
		Root:          root,
		NextLeafIndex: next,
	}, nil
}
