// Package vanilla computes the native (out-of-circuit) statement data for
// the pool's two operations: the public/private input pairs a prover
// assembles before compiling a circuit witness, and the validation a
// verifying host runs against a submitted proof's claimed public inputs.
//
// Naming mirrors the reference implementation's vanilla/{deposit,withdraw}
// modules: a "vanilla proof" is the plain-data statement a zero-knowledge
// circuit then proves knowledge of, before any curve-specific encoding.
package vanilla

import (
	"errors"
	"fmt"
	"math/big"

	"github.com/soda-maze/shielded-pool/config"
	"github.com/soda-maze/shielded-pool/pkg/hasher"
	"github.com/soda-maze/shielded-pool/pkg/merkle"
)

// ErrLeafIndexOutOfRange is returned when a requested leaf index does not
// fit under the configured tree height.
var ErrLeafIndexOutOfRange = errors.New("vanilla: leaf index exceeds tree height")

// DepositConstParams fixes the hashers and tree height shared by every
// deposit statement computed against one vault.
type DepositConstParams struct {
	LeafHasher  hasher.Native // leaf = LeafHasher.Hash(leafIndex, amount, secret)
	InnerHasher hasher.Native // Merkle inner-node hasher
	Height      config.TreeHeight
}

// DepositOriginInputs is the depositor-supplied data a deposit statement is
// computed from: the slot the new leaf will occupy, the amount being
// deposited, the depositor's secret, and the sibling path at that slot as
// it stood before this deposit.
type DepositOriginInputs struct {
	LeafIndex     uint64
	DepositAmount uint64
	Secret        *big.Int
	NeighborNodes []merkle.PathElement
}

// DepositPublicInputs is the statement's public half: what a verifier (and
// eventually the on-chain commit step) gets to see and act on.
type DepositPublicInputs struct {
	DepositAmount uint64
	LeafIndex     uint64
	Leaf          *big.Int
	PrevRoot      *big.Int
	UpdateNodes   []*big.Int
}

// DepositPrivateInputs is the witness kept from the verifier: the
// depositor's secret and the sibling path used to fold the new leaf up to
// PrevRoot/UpdateNodes.
type DepositPrivateInputs struct {
	Secret        *big.Int
	NeighborNodes []merkle.PathElement
}

// GenerateDepositVanillaProof computes a deposit statement: hash the new
// leaf, fold the empty-leaf value up the given sibling path to recover the
// root the proof is computed against (PrevRoot), then fold the real leaf
// up the same path to get the node values the commit step will write
// (UpdateNodes, whose last entry is the new root).
func GenerateDepositVanillaProof(
	params *DepositConstParams,
	originIn *DepositOriginInputs,
) (*DepositPublicInputs, *DepositPrivateInputs, error) {
	if originIn.LeafIndex >= params.Height.MaxLeafIndex() {
		return nil, nil, ErrLeafIndexOutOfRange
	}
	leaf, err := params.LeafHasher.Hash([]*big.Int{
		new(big.Int).SetUint64(originIn.LeafIndex),
		new(big.Int).SetUint64(originIn.DepositAmount),
		originIn.Secret,
	})
	if err != nil {
		return nil, nil, fmt.Errorf("vanilla: hash deposit leaf: %w", err)
	}

	emptyLeaf := params.InnerHasher.EmptyHash()
	prevPath, err := merkle.GeneratePath(params.InnerHasher, originIn.NeighborNodes, emptyLeaf)
	if err != nil {
		return nil, nil, fmt.Errorf("vanilla: fold previous root: %w", err)
	}
	prevRoot := prevPath[len(prevPath)-1]

	updateNodes, err := merkle.GeneratePath(params.InnerHasher, originIn.NeighborNodes, leaf)
	if err != nil {
		return nil, nil, fmt.Errorf("vanilla: fold updated nodes: %w", err)
	}

	pubIn := &DepositPublicInputs{
		DepositAmount: originIn.DepositAmount,
		LeafIndex:     originIn.LeafIndex,
		Leaf:          leaf,
		PrevRoot:      prevRoot,
		UpdateNodes:   updateNodes,
	}
	privIn := &DepositPrivateInputs{
		Secret:        originIn.Secret,
		NeighborNodes: originIn.NeighborNodes,
	}
	return pubIn, privIn, nil
}

// Flatten lays out the deposit statement's public inputs the way a circuit
// exposes them: [depositAmount, leafIndex, leaf, prevRoot, updateNodes...].
func (p *DepositPublicInputs) Flatten() []*big.Int {
	out := make([]*big.Int, 0, 4+len(p.UpdateNodes))
	out = append(out,
		new(big.Int).SetUint64(p.DepositAmount),
		new(big.Int).SetUint64(p.LeafIndex),
		p.Leaf,
		p.PrevRoot,
	)
	out = append(out, p.UpdateNodes...)
	return out
}
