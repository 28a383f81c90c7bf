package replay

import (
	"math/big"

	"gifIndexer/internal/gif"
	"gifIndexer/internal/model"
)

func claimKey(policyNftID *big.Int, claimID uint16) (model.ClaimKey, error) {
	policyID, err := id(policyNftID, "policyNftId")
	if err != nil {
		return model.ClaimKey{}, err
	}
	return model.ClaimKey{PolicyNftID: policyID, ClaimID: claimID}, nil
}

func onClaimSubmitted(tr *transition, ev *gif.ClaimSubmitted) error {
	key, err := claimKey(ev.PolicyNftId, ev.ClaimId)
	if err != nil {
		return err
	}
	if _, ok := tr.state.Policies.Get(key.PolicyNftID); !ok {
		return missing(model.KindPolicy, key.PolicyNftID)
	}
	create(tr, tr.state.Claims, model.KindClaim, key, &model.Claim{
		PolicyNftID: key.PolicyNftID,
		ClaimID:     key.ClaimID,
		ClaimAmount: amount(ev.ClaimAmount),
		State:       model.ClaimStateCreated,
		Audit:       model.NewAudit(tr.stamp),
	})
	return nil
}

func onClaimConfirmed(tr *transition, ev *gif.ClaimConfirmed) error {
	key, err := claimKey(ev.PolicyNftId, ev.ClaimId)
	if err != nil {
		return err
	}
	return update(tr, tr.state.Claims, model.KindClaim, key, func(c *model.Claim) {
		c.ConfirmedAmount = amount(ev.ConfirmedAmount)
		c.State = model.ClaimStateConfirmed
	})
}

func setClaimState(tr *transition, ev gif.ClaimEvent, state model.ClaimState) error {
	key, err := claimKey(ev.PolicyNftId, ev.ClaimId)
	if err != nil {
		return err
	}
	return update(tr, tr.state.Claims, model.KindClaim, key, func(c *model.Claim) {
		c.State = state
	})
}

func onClaimDeclined(tr *transition, ev *gif.ClaimDeclined) error {
	return setClaimState(tr, ev.ClaimEvent, model.ClaimStateDeclined)
}

func onClaimRevoked(tr *transition, ev *gif.ClaimRevoked) error {
	return setClaimState(tr, ev.ClaimEvent, model.ClaimStateRevoked)
}

func onClaimCanceled(tr *transition, ev *gif.ClaimCanceled) error {
	return setClaimState(tr, ev.ClaimEvent, model.ClaimStateCancelled)
}

func payoutKey(policyNftID, payoutID *big.Int) (model.PayoutKey, error) {
	policyID, err := id(policyNftID, "policyNftId")
	if err != nil {
		return model.PayoutKey{}, err
	}
	pid, err := id(payoutID, "payoutId")
	if err != nil {
		return model.PayoutKey{}, err
	}
	return model.PayoutKey{PolicyNftID: policyID, PayoutID: pid}, nil
}

func onPayoutCreated(tr *transition, ev *gif.PayoutCreated) error {
	key, err := payoutKey(ev.PolicyNftId, ev.PayoutId)
	if err != nil {
		return err
	}
	if _, ok := tr.state.Policies.Get(key.PolicyNftID); !ok {
		return missing(model.KindPolicy, key.PolicyNftID)
	}
	// payout ids are uint40, so the claim id always fits 16 bits
	claim := model.ClaimKey{
		PolicyNftID: key.PolicyNftID,
		ClaimID:     uint16(model.ClaimIDFromPayoutID(key.PayoutID)),
	}
	if _, ok := tr.state.Claims.Get(claim); !ok {
		return missing(model.KindClaim, claim)
	}
	create(tr, tr.state.Payouts, model.KindPayout, key, &model.Payout{
		PolicyNftID:  key.PolicyNftID,
		PayoutID:     key.PayoutID,
		ClaimID:      claim.ClaimID,
		Beneficiary:  address(ev.Beneficiary),
		PayoutAmount: amount(ev.Amount),
		Audit:        model.NewAudit(tr.stamp),
	})
	return nil
}

func onPayoutProcessed(tr *transition, ev *gif.PayoutProcessed) error {
	key, err := payoutKey(ev.PolicyNftId, ev.PayoutId)
	if err != nil {
		return err
	}
	return update(tr, tr.state.Payouts, model.KindPayout, key, func(p *model.Payout) {
		p.PaidAmount = amount(ev.Amount)
	})
}

func onPayoutCancelled(tr *transition, ev *gif.PayoutCancelled) error {
	key, err := payoutKey(ev.PolicyNftId, ev.PayoutId)
	if err != nil {
		return err
	}
	return update(tr, tr.state.Payouts, model.KindPayout, key, func(p *model.Payout) {
		p.Cancelled = true
	})
}
