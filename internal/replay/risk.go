package replay

import (
	"gifIndexer/internal/gif"
	"gifIndexer/internal/model"
)

func riskKey(ev gif.RiskEvent) (model.RiskKey, error) {
	productID, err := id(ev.ProductNftId, "productNftId")
	if err != nil {
		return model.RiskKey{}, err
	}
	return model.RiskKey{ProductNftID: productID, RiskID: bytes8(ev.RiskId)}, nil
}

func onRiskCreated(tr *transition, ev *gif.RiskCreated) error {
	key, err := riskKey(ev.RiskEvent)
	if err != nil {
		return err
	}
	create(tr, tr.state.Risks, model.KindRisk, key, &model.Risk{
		ProductNftID: key.ProductNftID,
		RiskID:       key.RiskID,
		Audit:        model.NewAudit(tr.stamp),
	})
	return nil
}

func setRisk(tr *transition, ev gif.RiskEvent, fn func(*model.Risk)) error {
	key, err := riskKey(ev)
	if err != nil {
		return err
	}
	return update(tr, tr.state.Risks, model.KindRisk, key, fn)
}

func onRiskLocked(tr *transition, ev *gif.RiskLocked) error {
	return setRisk(tr, ev.RiskEvent, func(r *model.Risk) { r.Locked = true })
}

func onRiskUnlocked(tr *transition, ev *gif.RiskUnlocked) error {
	return setRisk(tr, ev.RiskEvent, func(r *model.Risk) { r.Locked = false })
}

func onRiskClosed(tr *transition, ev *gif.RiskClosed) error {
	return setRisk(tr, ev.RiskEvent, func(r *model.Risk) { r.Closed = true })
}
