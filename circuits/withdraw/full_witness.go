package withdraw

import (
	"fmt"
	"math/big"

	"github.com/holiman/uint256"

	"github.com/soda-maze/shielded-pool/config"
	"github.com/soda-maze/shielded-pool/edwards"
	"github.com/soda-maze/shielded-pool/pkg/hasher"
	"github.com/soda-maze/shielded-pool/vanilla"
)

// FullOriginInputs extends vanilla.WithdrawOriginInputs with the data the
// optional side outputs need: randomness for the Rabin preimage's padding
// limbs and a fresh nonce for the Edwards commitment.
type FullOriginInputs struct {
	vanilla.WithdrawOriginInputs
	RabinPadding []*big.Int // padLimbs entries, each < 2^RabinLimbBits
	EdwardsNonce *big.Int   // truncated to config.EdwardsScalarBits bits
}

// PrepareFullWitness runs the native withdraw statement plus the optional
// Rabin ciphertext and Edwards commitment computations, and packs the
// result into a Full circuit assignment.
func PrepareFullWitness(
	params *vanilla.WithdrawConstParams,
	leafHasher, nullifierHasher, innerHasher hasher.Circuit,
	edwardsParams edwards.Params, pubkey edwards.Point,
	originIn *FullOriginInputs,
) (*Full, *vanilla.WithdrawPublicInputs, error) {
	pubIn, privIn, err := vanilla.GenerateWithdrawVanillaProof(params, &originIn.WithdrawOriginInputs)
	if err != nil {
		return nil, nil, err
	}
	if len(pubIn.UpdatingNodes) != Height {
		return nil, nil, fmt.Errorf("withdraw: tree height %d does not match circuit height %d", len(pubIn.UpdatingNodes), Height)
	}
	if len(originIn.RabinPadding) != padLimbs {
		return nil, nil, fmt.Errorf("withdraw: expected %d rabin padding limbs, got %d", padLimbs, len(originIn.RabinPadding))
	}

	c := NewFull(leafHasher, nullifierHasher, innerHasher, pubkey)
	assignCore(&c.Core, pubIn, privIn)

	paddingLimbs := make([]*uint256.Int, padLimbs)
	for i, p := range originIn.RabinPadding {
		limb, overflow := uint256.FromBig(p)
		if overflow {
			return nil, nil, fmt.Errorf("withdraw: rabin padding limb %d overflows", i)
		}
		paddingLimbs[i] = limb
	}

	preimage, err := rabinParam.GenPreimageFromLeaf(pubIn.Nullifier, config.NullifierFieldBits, paddingLimbs)
	if err != nil {
		return nil, nil, fmt.Errorf("withdraw: build rabin preimage: %w", err)
	}
	cypher, quotient := rabinParam.Encrypt(preimage)

	preimageLimbs, err := rabinParam.DecomposeLimbs(preimage)
	if err != nil {
		return nil, nil, fmt.Errorf("withdraw: decompose preimage: %w", err)
	}
	quotientLimbs, err := rabinParam.DecomposeLimbs(quotient)
	if err != nil {
		return nil, nil, fmt.Errorf("withdraw: decompose quotient: %w", err)
	}
	cypherLimbs, err := rabinParam.DecomposeLimbs(cypher)
	if err != nil {
		return nil, nil, fmt.Errorf("withdraw: decompose cypher: %w", err)
	}
	carries, err := rabinParam.ComputeCarries(preimageLimbs, quotientLimbs, cypherLimbs)
	if err != nil {
		return nil, nil, fmt.Errorf("withdraw: compute rabin carries: %w", err)
	}

	for i := 0; i < padLimbs; i++ {
		c.RabinPadding[i] = originIn.RabinPadding[i]
	}
	for i := 0; i < rabinParam.ModulusLen; i++ {
		c.RabinQuotient[i] = quotientLimbs[i].ToBig()
		c.RabinCypher[i] = cypherLimbs[i].ToBig()
	}
	for i, carry := range carries {
		c.RabinCarries[i] = carry
	}

	commitment := edwardsParams.GenerateCommitment(pubIn.Nullifier, originIn.EdwardsNonce, pubkey)
	c.CommitmentC0X, c.CommitmentC0Y = commitment.C0.X, commitment.C0.Y
	c.CommitmentC1X, c.CommitmentC1Y = commitment.C1.X, commitment.C1.Y
	c.Nonce = originIn.EdwardsNonce

	return c, pubIn, nil
}
