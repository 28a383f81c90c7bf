package replay

import (
	"go.uber.org/zap"

	"gifIndexer/internal/gif"
	"gifIndexer/internal/model"
)

func onNftRegistered(tr *transition, ev *gif.RegistryObjectRegistered) error {
	nftID, err := id(ev.NftId, "nftId")
	if err != nil {
		return err
	}
	parentID, err := id(ev.ParentNftId, "parentNftId")
	if err != nil {
		return err
	}
	objectType, err := tr.objectType(ev.ObjectType)
	if err != nil {
		return err
	}

	nft := &model.Nft{
		NftID:         nftID,
		ParentNftID:   parentID,
		ObjectType:    objectType,
		ObjectAddress: address(ev.ObjectAddress),
		Owner:         address(ev.InitialOwner),
		Audit:         model.NewAudit(tr.stamp),
	}

	// A transfer seen first left a placeholder; fill it in and keep the owner
	// the transfer assigned.
	if existing, ok := tr.state.Nfts.Get(nftID); ok && existing.IsPlaceholder() {
		nft.Owner = existing.Owner
		nft.Created = existing.Created
		tr.state.Nfts.Put(nftID, nft)
		tr.logger.Debug("nft placeholder registered", zap.Uint64("nft_id", nftID))
		return nil
	}
	create(tr, tr.state.Nfts, model.KindNft, nftID, nft)
	return nil
}

func onNftTransferred(tr *transition, ev *gif.Transfer) error {
	nftID, err := id(ev.TokenId, "tokenId")
	if err != nil {
		return err
	}
	from, to := address(ev.From), address(ev.To)

	nft, ok := tr.state.Nfts.Get(nftID)
	if !ok {
		tr.anomaly("nft transferred before registration, creating placeholder",
			zap.Uint64("nft_id", nftID), zap.String("to", to))
		tr.state.Nfts.Put(nftID, &model.Nft{
			NftID:      nftID,
			ObjectType: model.ObjectTypeUnknown,
			Owner:      to,
			Audit:      model.NewAudit(tr.stamp),
		})
		return nil
	}
	if from == model.ZeroAddress {
		// mint echo of the registration
		return nil
	}
	nft.Owner = to
	nft.Touch(tr.stamp)
	return nil
}

func onInstanceCreated(tr *transition, ev *gif.InstanceCreated) error {
	nftID, err := id(ev.InstanceNftId, "instanceNftId")
	if err != nil {
		return err
	}
	create(tr, tr.state.Instances, model.KindInstance, nftID, &model.Instance{
		NftID:           nftID,
		InstanceAddress: address(ev.Instance),
		Audit:           model.NewAudit(tr.stamp),
	})
	return nil
}

func onComponentRegistered(tr *transition, ev *gif.ComponentRegistered) error {
	nftID, err := id(ev.ComponentNftId, "componentNftId")
	if err != nil {
		return err
	}
	instanceID, err := id(ev.InstanceNftId, "instanceNftId")
	if err != nil {
		return err
	}
	componentType, err := tr.objectType(ev.ComponentType)
	if err != nil {
		return err
	}
	create(tr, tr.state.Components, model.KindComponent, nftID, &model.Component{
		NftID:         nftID,
		InstanceNftID: instanceID,
		ComponentType: componentType,
		Token:         address(ev.Token),
		Audit:         model.NewAudit(tr.stamp),
	})
	return nil
}
