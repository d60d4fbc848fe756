package withdraw

import (
	"fmt"
	"math/big"

	"github.com/consensys/gnark/frontend"
	"github.com/consensys/gnark/std/algebra/native/twistededwards"

	"github.com/soda-maze/shielded-pool/circuits/gadgets"
	"github.com/soda-maze/shielded-pool/config"
	"github.com/soda-maze/shielded-pool/edwards"
	"github.com/soda-maze/shielded-pool/pkg/hasher"
	"github.com/soda-maze/shielded-pool/rabin"
	"github.com/soda-maze/shielded-pool/vanilla"
)

// leafLimbs is how many RabinLimbBits-wide limbs a nullifier's own value
// occupies; the remaining config.RabinNumLimbs-leafLimbs limbs are
// prover-supplied padding (see rabin.Param.GenPreimageFromLeaf).
const leafLimbs = (config.NullifierFieldBits + config.RabinLimbBits - 1) / config.RabinLimbBits

// padLimbs is the padding portion of the preimage's limb layout.
const padLimbs = config.RabinNumLimbs - leafLimbs

// rabinParam holds the vault's Rabin modulus, decomposed into
// circuit constants at package init — one compiled Full circuit serves one
// fixed modulus, the same way config.DefaultTreeHeight fixes one height.
// This is a placeholder modulus (2^2048 - 159); a real deployment would
// substitute its own and recompile.
var rabinParam *rabin.Param

func init() {
	modulus := new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), config.RabinModulusBits), big.NewInt(159))
	p, err := rabin.NewParam(modulus, config.RabinNumLimbs, config.RabinLimbBits, config.RabinCypherBatch)
	if err != nil {
		panic(fmt.Sprintf("withdraw: invalid default rabin param: %v", err))
	}
	rabinParam = p
}

// Full is the withdraw statement with both optional side outputs compiled
// in: the Rabin ciphertext of the nullifier (config.FeatureSet.RabinEncryption)
// and the twisted-Edwards commitment (config.FeatureSet.EdwardsCommitment).
// See package doc for why these aren't a single runtime-toggled circuit.
type Full struct {
	Core Circuit `gnark:"core"`

	// Rabin side output (public ciphertext, private preimage padding/
	// quotient/carries).
	RabinCypher   [config.RabinNumLimbs]frontend.Variable        `gnark:"rabinCypher,public"`
	RabinPadding  [padLimbs]frontend.Variable                    `gnark:"rabinPadding"`
	RabinQuotient [config.RabinNumLimbs]frontend.Variable        `gnark:"rabinQuotient"`
	RabinCarries  [2*config.RabinNumLimbs - 2]frontend.Variable  `gnark:"rabinCarries"`

	// Twisted-Edwards commitment side output.
	CommitmentC0X frontend.Variable `gnark:"commitmentC0X,public"`
	CommitmentC0Y frontend.Variable `gnark:"commitmentC0Y,public"`
	CommitmentC1X frontend.Variable `gnark:"commitmentC1X,public"`
	CommitmentC1Y frontend.Variable `gnark:"commitmentC1Y,public"`
	Nonce         frontend.Variable `gnark:"nonce"`

	curve  twistededwards.Curve
	pubkey twistededwards.Point
}

// NewFull builds a template Full circuit. pubkey is the vault's Edwards
// viewing public key, baked in as a circuit constant (one vault, one
// compiled circuit).
func NewFull(leafHasher, nullifierHasher, innerHasher hasher.Circuit, pubkey edwards.Point) *Full {
	return &Full{
		Core:   Circuit{leafHasher: leafHasher, nullifierHasher: nullifierHasher, innerHasher: innerHasher},
		pubkey: twistededwards.Point{X: frontend.Variable(pubkey.X), Y: frontend.Variable(pubkey.Y)},
	}
}

func (c *Full) Define(api frontend.API) error {
	nullifier, err := c.Core.checkCore(api)
	if err != nil {
		return err
	}

	if err := c.defineRabin(api, nullifier); err != nil {
		return err
	}
	return c.defineEdwards(api, nullifier)
}

func (c *Full) defineRabin(api frontend.API, nullifier frontend.Variable) error {
	nullifierLimbs := gadgets.DecomposeToLimbs(api, nullifier, leafLimbs, config.RabinLimbBits)

	// Every prover-supplied limb must fit in BitSize bits; the nullifier's
	// limbs are already bounded by DecomposeToLimbs.
	for _, limbs := range [][]frontend.Variable{c.RabinPadding[:], c.RabinQuotient[:], c.RabinCypher[:]} {
		for _, limb := range limbs {
			api.ToBinary(limb, rabinParam.BitSize)
		}
	}

	preimage := make([]frontend.Variable, rabinParam.ModulusLen)
	copy(preimage, c.RabinPadding[:])
	copy(preimage[padLimbs:], nullifierLimbs)

	modulusConst := make([]frontend.Variable, rabinParam.ModulusLen)
	for i, limb := range rabinParam.ModulusArr {
		modulusConst[i] = frontend.Variable(limb.ToBig())
	}

	rsm := &gadgets.RabinSquareMod{
		Preimage: preimage,
		Quotient: c.RabinQuotient[:],
		Cypher:   c.RabinCypher[:],
		Modulus:  modulusConst,
		Carries:  c.RabinCarries[:],
	}
	base := frontend.Variable(new(big.Int).Lsh(big.NewInt(1), uint(rabinParam.BitSize)))
	carryBias := frontend.Variable(rabinParam.CarryBias())
	return rsm.Check(api, base, carryBias, rabinParam.CarryBits()+1)
}

func (c *Full) defineEdwards(api frontend.API, nullifier frontend.Variable) error {
	curve, err := twistededwards.NewEdCurve(api, edwards.ID)
	if err != nil {
		return fmt.Errorf("withdraw: init edwards curve: %w", err)
	}
	c.curve = curve

	nullifierBits := api.ToBinary(nullifier, config.EdwardsScalarBits)
	nonceBits := api.ToBinary(c.Nonce, config.EdwardsScalarBits)

	gadget := &gadgets.EdwardsCommit{
		Curve:         curve,
		NullifierBits: nullifierBits,
		NonceBits:     nonceBits,
		Pubkey:        c.pubkey,
		CommitmentC0:  twistededwards.Point{X: c.CommitmentC0X, Y: c.CommitmentC0Y},
		CommitmentC1:  twistededwards.Point{X: c.CommitmentC1X, Y: c.CommitmentC1Y},
	}
	return gadget.Check(api)
}
