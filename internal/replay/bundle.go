package replay

import (
	"math/big"

	"gifIndexer/internal/gif"
	"gifIndexer/internal/model"
)

func onBundleCreated(tr *transition, ev *gif.BundleCreated) error {
	bundleID, err := id(ev.BundleNftId, "bundleNftId")
	if err != nil {
		return err
	}
	poolID, err := id(ev.PoolNftId, "poolNftId")
	if err != nil {
		return err
	}
	create(tr, tr.state.Bundles, model.KindBundle, bundleID, &model.Bundle{
		BundleNftID:  bundleID,
		PoolNftID:    poolID,
		Lifetime:     amount(ev.Lifetime),
		Balance:      new(big.Int),
		LockedAmount: new(big.Int),
		Audit:        model.NewAudit(tr.stamp),
	})
	return nil
}

func setBundle(tr *transition, bundleNftID *big.Int, fn func(*model.Bundle)) error {
	bundleID, err := id(bundleNftID, "bundleNftId")
	if err != nil {
		return err
	}
	return update(tr, tr.state.Bundles, model.KindBundle, bundleID, fn)
}

func onBundleClosed(tr *transition, ev *gif.BundleClosed) error {
	return setBundle(tr, ev.BundleNftId, func(b *model.Bundle) { b.Closed = true })
}

func onBundleLocked(tr *transition, ev *gif.BundleLocked) error {
	return setBundle(tr, ev.BundleNftId, func(b *model.Bundle) { b.Locked = true })
}

func onBundleUnlocked(tr *transition, ev *gif.BundleUnlocked) error {
	return setBundle(tr, ev.BundleNftId, func(b *model.Bundle) { b.Locked = false })
}

func onBundleExtended(tr *transition, ev *gif.BundleExtended) error {
	return setBundle(tr, ev.BundleNftId, func(b *model.Bundle) {
		b.Lifetime = new(big.Int).Add(amount(b.Lifetime), amount(ev.LifetimeExtension))
	})
}

func onCollateralLocked(tr *transition, ev *gif.CollateralLocked) error {
	return setBundle(tr, ev.BundleNftId, func(b *model.Bundle) {
		b.LockedAmount = new(big.Int).Add(amount(b.LockedAmount), amount(ev.CollateralAmount))
	})
}

func onCollateralReleased(tr *transition, ev *gif.CollateralReleased) error {
	return setBundle(tr, ev.BundleNftId, func(b *model.Bundle) {
		b.LockedAmount = new(big.Int).Sub(amount(b.LockedAmount), amount(ev.CollateralAmount))
	})
}

func onBundleStaked(tr *transition, ev *gif.BundleStaked) error {
	return setBundle(tr, ev.BundleNftId, func(b *model.Bundle) {
		b.Balance = new(big.Int).Add(amount(b.Balance), amount(ev.Amount))
	})
}

func onBundleUnstaked(tr *transition, ev *gif.BundleUnstaked) error {
	return setBundle(tr, ev.BundleNftId, func(b *model.Bundle) {
		b.Balance = new(big.Int).Sub(amount(b.Balance), amount(ev.Amount))
	})
}
