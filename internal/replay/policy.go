package replay

import (
	"math/big"

	"gifIndexer/internal/gif"
	"gifIndexer/internal/model"
)

func onApplicationCreated(tr *transition, ev *gif.ApplicationCreated) error {
	nftID, err := id(ev.ApplicationNftId, "applicationNftId")
	if err != nil {
		return err
	}
	productID, err := id(ev.ProductNftId, "productNftId")
	if err != nil {
		return err
	}
	bundleID, err := id(ev.BundleNftId, "bundleNftId")
	if err != nil {
		return err
	}
	create(tr, tr.state.Policies, model.KindPolicy, nftID, &model.Policy{
		NftID:            nftID,
		ProductNftID:     productID,
		BundleNftID:      bundleID,
		RiskID:           bytes8(ev.RiskId),
		ReferralID:       bytes8(ev.ReferralId),
		SumInsuredAmount: amount(ev.SumInsuredAmount),
		PremiumAmount:    amount(ev.PremiumAmount),
		PremiumPaid:      new(big.Int),
		Lifetime:         amount(ev.Lifetime),
		Audit:            model.NewAudit(tr.stamp),
	})
	return nil
}

func onPolicyCreated(tr *transition, ev *gif.PolicyCreated) error {
	nftID, err := id(ev.PolicyNftId, "policyNftId")
	if err != nil {
		return err
	}
	activateAt, err := id(ev.ActivatedAt, "activatedAt")
	if err != nil {
		return err
	}
	return update(tr, tr.state.Policies, model.KindPolicy, nftID, func(p *model.Policy) {
		p.PremiumAmount = amount(ev.PremiumAmount)
		p.ActivateAt = &activateAt
	})
}

func onPremiumCollected(tr *transition, ev *gif.PolicyPremiumCollected) error {
	nftID, err := id(ev.PolicyNftId, "policyNftId")
	if err != nil {
		return err
	}
	return update(tr, tr.state.Policies, model.KindPolicy, nftID, func(p *model.Policy) {
		p.PremiumPaid = amount(ev.PremiumAmount)
	})
}

func onExpirationUpdated(tr *transition, ev *gif.PolicyExpirationUpdated) error {
	nftID, err := id(ev.PolicyNftId, "policyNftId")
	if err != nil {
		return err
	}
	expiredAt, err := id(ev.ExpiredAt, "expiredAt")
	if err != nil {
		return err
	}
	return update(tr, tr.state.Policies, model.KindPolicy, nftID, func(p *model.Policy) {
		p.ExpirationAt = &expiredAt
	})
}

func onPolicyClosed(tr *transition, ev *gif.PolicyClosed) error {
	nftID, err := id(ev.PolicyNftId, "policyNftId")
	if err != nil {
		return err
	}
	return update(tr, tr.state.Policies, model.KindPolicy, nftID, func(p *model.Policy) {
		p.Closed = true
	})
}
