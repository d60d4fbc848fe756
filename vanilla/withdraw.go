package vanilla

import (
	"errors"
	"fmt"
	"math/big"

	"github.com/soda-maze/shielded-pool/config"
	"github.com/soda-maze/shielded-pool/pkg/hasher"
	"github.com/soda-maze/shielded-pool/pkg/merkle"
)

// ErrRootMismatch is returned when a withdraw's two Merkle sub-proofs (the
// spent leaf's membership proof and the change leaf's insertion proof)
// don't agree on the tree's root before this operation.
var ErrRootMismatch = errors.New("vanilla: membership and insertion sub-proofs disagree on prev root")

// ErrInvalidWithdrawData is returned by WithdrawPublicInputs.CheckValid.
var ErrInvalidWithdrawData = errors.New("vanilla: invalid withdraw public inputs")

// WithdrawConstParams fixes the hashers and tree height shared by every
// withdraw statement computed against one vault. NullifierHasher is kept
// distinct from LeafHasher because the nullifier only ever binds
// (leafIndex, secret) — never the amount — so a leaf can't be
// double-spent by reusing its secret at a different amount.
type WithdrawConstParams struct {
	LeafHasher      hasher.Native
	NullifierHasher hasher.Native
	InnerHasher     hasher.Native
	Height          config.TreeHeight
}

// WithdrawOriginInputs is the spender-supplied data: the note being spent
// (its slot, amount, and secret, with a membership proof against the
// current tree), the amount being withdrawn, and the change note the
// remainder is re-deposited as (a fresh secret at the next free slot).
//
// This is the "two Merkle sub-proofs" shape: SrcNeighborNodes proves the
// spent leaf is already in the tree, DstNeighborNodes is the pre-insertion
// path the change leaf will be folded into.
type WithdrawOriginInputs struct {
	SrcLeafIndex     uint64
	SrcAmount        uint64
	Secret           *big.Int
	SrcNeighborNodes []merkle.PathElement

	WithdrawAmount   uint64
	DstLeafIndex     uint64
	DstAmount        uint64
	DstSecret        *big.Int
	DstNeighborNodes []merkle.PathElement
}

// WithdrawPublicInputs mirrors the reference WithdrawVanillaData: the
// amount leaving the pool, the nullifier proving the spent note hasn't
// been spent before, where the change note lands, its value, the root the
// proof was computed against, and the node values the commit step writes.
type WithdrawPublicInputs struct {
	WithdrawAmount uint64
	Nullifier      *big.Int
	DstLeafIndex   uint64
	DstLeaf        *big.Int
	PrevRoot       *big.Int
	UpdatingNodes  []*big.Int
}

// WithdrawPrivateInputs is the witness kept from the verifier.
type WithdrawPrivateInputs struct {
	SrcLeafIndex     uint64
	SrcAmount        uint64
	Secret           *big.Int
	SrcNeighborNodes []merkle.PathElement
	DstAmount        uint64
	DstSecret        *big.Int
	DstNeighborNodes []merkle.PathElement
}

// GenerateWithdrawVanillaProof computes a withdraw statement: derive the
// nullifier and the spent leaf's membership root, derive the change leaf
// and its insertion-updated node chain, and check both sub-proofs agree on
// the tree's root before this operation.
func GenerateWithdrawVanillaProof(
	params *WithdrawConstParams,
	originIn *WithdrawOriginInputs,
) (*WithdrawPublicInputs, *WithdrawPrivateInputs, error) {
	if originIn.DstLeafIndex >= params.Height.MaxLeafIndex() {
		return nil, nil, ErrLeafIndexOutOfRange
	}
	if originIn.WithdrawAmount+originIn.DstAmount != originIn.SrcAmount {
		return nil, nil, fmt.Errorf("vanilla: withdraw amount + change amount must equal spent amount")
	}

	srcLeaf, err := params.LeafHasher.Hash([]*big.Int{
		new(big.Int).SetUint64(originIn.SrcLeafIndex),
		new(big.Int).SetUint64(originIn.SrcAmount),
		originIn.Secret,
	})
	if err != nil {
		return nil, nil, fmt.Errorf("vanilla: hash spent leaf: %w", err)
	}
	nullifier, err := params.NullifierHasher.Hash([]*big.Int{
		new(big.Int).SetUint64(originIn.SrcLeafIndex),
		originIn.Secret,
	})
	if err != nil {
		return nil, nil, fmt.Errorf("vanilla: hash nullifier: %w", err)
	}

	membershipPath, err := merkle.GeneratePath(params.InnerHasher, originIn.SrcNeighborNodes, srcLeaf)
	if err != nil {
		return nil, nil, fmt.Errorf("vanilla: fold membership proof: %w", err)
	}
	membershipRoot := membershipPath[len(membershipPath)-1]

	dstLeaf, err := params.LeafHasher.Hash([]*big.Int{
		new(big.Int).SetUint64(originIn.DstLeafIndex),
		new(big.Int).SetUint64(originIn.DstAmount),
		originIn.DstSecret,
	})
	if err != nil {
		return nil, nil, fmt.Errorf("vanilla: hash change leaf: %w", err)
	}

	emptyLeaf := params.InnerHasher.EmptyHash()
	insertionPrevPath, err := merkle.GeneratePath(params.InnerHasher, originIn.DstNeighborNodes, emptyLeaf)
	if err != nil {
		return nil, nil, fmt.Errorf("vanilla: fold insertion previous root: %w", err)
	}
	insertionPrevRoot := insertionPrevPath[len(insertionPrevPath)-1]

	if membershipRoot.Cmp(insertionPrevRoot) != 0 {
		return nil, nil, ErrRootMismatch
	}

	updatingNodes, err := merkle.GeneratePath(params.InnerHasher, originIn.DstNeighborNodes, dstLeaf)
	if err != nil {
		return nil, nil, fmt.Errorf("vanilla: fold updated nodes: %w", err)
	}

	pubIn := &WithdrawPublicInputs{
		WithdrawAmount: originIn.WithdrawAmount,
		Nullifier:      nullifier,
		DstLeafIndex:   originIn.DstLeafIndex,
		DstLeaf:        dstLeaf,
		PrevRoot:       membershipRoot,
		UpdatingNodes:  updatingNodes,
	}
	privIn := &WithdrawPrivateInputs{
		SrcLeafIndex:     originIn.SrcLeafIndex,
		SrcAmount:        originIn.SrcAmount,
		Secret:           originIn.Secret,
		SrcNeighborNodes: originIn.SrcNeighborNodes,
		DstAmount:        originIn.DstAmount,
		DstSecret:        originIn.DstSecret,
		DstNeighborNodes: originIn.DstNeighborNodes,
	}
	return pubIn, privIn, nil
}

// CheckValid re-derives consistency checks a verifying host must run
// against a submitted withdraw's claimed public inputs before accepting
// them: the destination slot fits the tree, and the updating node chain
// has exactly one entry per layer.
func (w *WithdrawPublicInputs) CheckValid(height config.TreeHeight) error {
	if w.DstLeafIndex >= height.MaxLeafIndex() {
		return fmt.Errorf("%w: dst leaf index %d exceeds height %d", ErrInvalidWithdrawData, w.DstLeafIndex, height)
	}
	if len(w.UpdatingNodes) != int(height) {
		return fmt.Errorf("%w: got %d updating nodes, want %d", ErrInvalidWithdrawData, len(w.UpdatingNodes), height)
	}
	if w.Nullifier == nil || w.DstLeaf == nil || w.PrevRoot == nil {
		return fmt.Errorf("%w: missing required field", ErrInvalidWithdrawData)
	}
	return nil
}

// Flatten lays out the withdraw statement's public inputs the way a
// circuit exposes them:
// [withdrawAmount, nullifier, dstLeafIndex, dstLeaf, prevRoot, updatingNodes...].
func (w *WithdrawPublicInputs) Flatten() []*big.Int {
	out := make([]*big.Int, 0, 4+len(w.UpdatingNodes))
	out = append(out,
		new(big.Int).SetUint64(w.WithdrawAmount),
		w.Nullifier,
		new(big.Int).SetUint64(w.DstLeafIndex),
		w.DstLeaf,
		w.PrevRoot,
	)
	out = append(out, w.UpdatingNodes...)
	return out
}
