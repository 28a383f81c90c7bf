package replay

import (
	"gifIndexer/internal/gif"
	"gifIndexer/internal/model"
)

func onOracleRequestCreated(tr *transition, ev *gif.OracleRequestCreated) error {
	requesterID, err := id(ev.RequesterNftId, "requesterNftId")
	if err != nil {
		return err
	}
	oracleID, err := id(ev.OracleNftId, "oracleNftId")
	if err != nil {
		return err
	}
	expiry, err := id(ev.ExpiryAt, "expiryAt")
	if err != nil {
		return err
	}
	create(tr, tr.state.OracleRequests, model.KindOracleRequest, ev.RequestId, &model.OracleRequest{
		RequestID:      ev.RequestId,
		OracleNftID:    oracleID,
		RequesterNftID: requesterID,
		ExpirationAt:   expiry,
		State:          model.OracleRequestPending,
		Audit:          model.NewAudit(tr.stamp),
	})
	return nil
}

func setRequestState(tr *transition, requestID uint64, state model.OracleRequestState) error {
	return update(tr, tr.state.OracleRequests, model.KindOracleRequest, requestID, func(r *model.OracleRequest) {
		r.State = state
	})
}

func onOracleResponseProcessed(tr *transition, ev *gif.OracleResponseProcessed) error {
	return setRequestState(tr, ev.RequestId, model.OracleRequestFulfilled)
}

func onOracleDeliveryFailed(tr *transition, ev *gif.OracleDeliveryFailed) error {
	target := address(ev.RequesterAddress)
	signature := ev.FunctionSignature
	return update(tr, tr.state.OracleRequests, model.KindOracleRequest, ev.RequestId, func(r *model.OracleRequest) {
		r.State = model.OracleRequestDeliveryFailed
		r.ObjectAddress = &target
		r.FunctionSignature = &signature
	})
}

func onOracleResponseResent(tr *transition, ev *gif.OracleResponseResent) error {
	return setRequestState(tr, ev.RequestId, model.OracleRequestResent)
}

func onOracleRequestCancelled(tr *transition, ev *gif.OracleRequestCancelled) error {
	return setRequestState(tr, ev.RequestId, model.OracleRequestCancelled)
}
