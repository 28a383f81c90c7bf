package model

import "fmt"

// ClaimState is the lifecycle state of a claim.
type ClaimState uint8

const (
	ClaimStateCreated ClaimState = iota
	ClaimStateConfirmed
	ClaimStateDeclined
	ClaimStateRevoked
	ClaimStateCancelled
)

func (s ClaimState) String() string {
	switch s {
	case ClaimStateCreated:
		return "CREATED"
	case ClaimStateConfirmed:
		return "CONFIRMED"
	case ClaimStateDeclined:
		return "DECLINED"
	case ClaimStateRevoked:
		return "REVOKED"
	case ClaimStateCancelled:
		return "CANCELLED"
	default:
		return fmt.Sprintf("ClaimState(%d)", uint8(s))
	}
}

// MarshalText encodes the claim state by name.
func (s ClaimState) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// OracleRequestState is the lifecycle state of an oracle request.
type OracleRequestState uint8

const (
	OracleRequestPending OracleRequestState = iota
	OracleRequestFulfilled
	OracleRequestDeliveryFailed
	OracleRequestResent
	OracleRequestCancelled
)

func (s OracleRequestState) String() string {
	switch s {
	case OracleRequestPending:
		return "PENDING"
	case OracleRequestFulfilled:
		return "FULFILLED"
	case OracleRequestDeliveryFailed:
		return "DELIVERY_FAILED"
	case OracleRequestResent:
		return "RESENT"
	case OracleRequestCancelled:
		return "CANCELLED"
	default:
		return fmt.Sprintf("OracleRequestState(%d)", uint8(s))
	}
}

// MarshalText encodes the request state by name.
func (s OracleRequestState) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}
