package model

import (
	"cmp"
	"math/big"
)

// Entity kind names, used as table names and snapshot record kinds.
const (
	KindNft           = "nft"
	KindInstance      = "instance"
	KindComponent     = "component"
	KindRisk          = "risk"
	KindPolicy        = "policy"
	KindClaim         = "claim"
	KindPayout        = "payout"
	KindOracleRequest = "oracle_request"
	KindBundle        = "bundle"
)

// Kinds lists every entity kind in export order.
var Kinds = []string{
	KindNft, KindInstance, KindComponent, KindRisk, KindPolicy,
	KindClaim, KindPayout, KindOracleRequest, KindBundle,
}

// Nft is a registry-tracked ownership token.
type Nft struct {
	NftID         uint64     `json:"nft_id"`
	ParentNftID   uint64     `json:"parent_nft_id"`
	ObjectType    ObjectType `json:"object_type"`
	ObjectAddress string     `json:"object_address"`
	Owner         string     `json:"owner"`
	Audit
}

// IsPlaceholder reports whether the nft was synthesized from a transfer seen before its registration.
func (n *Nft) IsPlaceholder() bool {
	return n.ObjectType == ObjectTypeUnknown && n.ObjectAddress == ""
}

// Instance is a deployed GIF instance.
type Instance struct {
	NftID           uint64 `json:"nft_id"`
	InstanceAddress string `json:"instance_address"`
	Audit
}

// Component is a product, pool, oracle or distribution registered with an instance.
type Component struct {
	NftID         uint64     `json:"nft_id"`
	InstanceNftID uint64     `json:"instance_nft_id"`
	ComponentType ObjectType `json:"component_type"`
	Token         string     `json:"token"`
	Audit
}

// RiskKey identifies a risk within its product.
type RiskKey struct {
	ProductNftID uint64
	RiskID       string
}

func (k RiskKey) Compare(o RiskKey) int {
	if c := cmp.Compare(k.ProductNftID, o.ProductNftID); c != 0 {
		return c
	}
	return cmp.Compare(k.RiskID, o.RiskID)
}

// Risk is a product-defined insurable risk.
type Risk struct {
	ProductNftID uint64 `json:"product_nft_id"`
	RiskID       string `json:"risk_id"`
	Locked       bool   `json:"locked"`
	Closed       bool   `json:"closed"`
	Audit
}

func (r *Risk) Key() RiskKey {
	return RiskKey{ProductNftID: r.ProductNftID, RiskID: r.RiskID}
}

// Policy is an application that may have been turned into an active policy.
type Policy struct {
	NftID            uint64   `json:"nft_id"`
	ProductNftID     uint64   `json:"product_nft_id"`
	BundleNftID      uint64   `json:"bundle_nft_id"`
	RiskID           string   `json:"risk_id"`
	ReferralID       string   `json:"referral_id"`
	SumInsuredAmount *big.Int `json:"sum_insured_amount"`
	PremiumAmount    *big.Int `json:"premium_amount"`
	PremiumPaid      *big.Int `json:"premium_paid"`
	Lifetime         *big.Int `json:"lifetime"`
	ActivateAt       *uint64  `json:"activate_at"`
	ExpirationAt     *uint64  `json:"expiration_at"`
	Closed           bool     `json:"closed"`
	Audit
}

// ClaimKey identifies a claim within its policy.
type ClaimKey struct {
	PolicyNftID uint64
	ClaimID     uint16
}

func (k ClaimKey) Compare(o ClaimKey) int {
	if c := cmp.Compare(k.PolicyNftID, o.PolicyNftID); c != 0 {
		return c
	}
	return cmp.Compare(k.ClaimID, o.ClaimID)
}

// Claim is a claim submitted against a policy.
type Claim struct {
	PolicyNftID     uint64     `json:"policy_nft_id"`
	ClaimID         uint16     `json:"claim_id"`
	ClaimAmount     *big.Int   `json:"claim_amount"`
	ConfirmedAmount *big.Int   `json:"confirmed_amount"`
	State           ClaimState `json:"state"`
	Audit
}

func (c *Claim) Key() ClaimKey {
	return ClaimKey{PolicyNftID: c.PolicyNftID, ClaimID: c.ClaimID}
}

// PayoutKey identifies a payout within its policy.
type PayoutKey struct {
	PolicyNftID uint64
	PayoutID    uint64
}

func (k PayoutKey) Compare(o PayoutKey) int {
	if c := cmp.Compare(k.PolicyNftID, o.PolicyNftID); c != 0 {
		return c
	}
	return cmp.Compare(k.PayoutID, o.PayoutID)
}

// PayoutClaimShift is the bit offset of the claim id packed into a payout id.
const PayoutClaimShift = 24

// ClaimIDFromPayoutID extracts the owning claim id from a packed payout id.
func ClaimIDFromPayoutID(payoutID uint64) uint64 {
	return payoutID >> PayoutClaimShift
}

// Payout is a payout created for a claim.
type Payout struct {
	PolicyNftID  uint64   `json:"policy_nft_id"`
	PayoutID     uint64   `json:"payout_id"`
	ClaimID      uint16   `json:"claim_id"`
	Beneficiary  string   `json:"beneficiary"`
	PayoutAmount *big.Int `json:"payout_amount"`
	PaidAmount   *big.Int `json:"paid_amount"`
	Cancelled    bool     `json:"cancelled"`
	Audit
}

func (p *Payout) Key() PayoutKey {
	return PayoutKey{PolicyNftID: p.PolicyNftID, PayoutID: p.PayoutID}
}

// OracleRequest is a request from a component to an oracle.
type OracleRequest struct {
	RequestID         uint64             `json:"request_id"`
	OracleNftID       uint64             `json:"oracle_nft_id"`
	RequesterNftID    uint64             `json:"requester_nft_id"`
	ExpirationAt      uint64             `json:"expiration_at"`
	State             OracleRequestState `json:"state"`
	ObjectAddress     *string            `json:"object_address,omitempty"`
	FunctionSignature *string            `json:"function_signature,omitempty"`
	Audit
}

// Bundle is a risk-capital bundle of a pool.
type Bundle struct {
	BundleNftID  uint64   `json:"bundle_nft_id"`
	PoolNftID    uint64   `json:"pool_nft_id"`
	Lifetime     *big.Int `json:"lifetime"`
	Locked       bool     `json:"locked"`
	Closed       bool     `json:"closed"`
	Balance      *big.Int `json:"balance"`
	LockedAmount *big.Int `json:"locked_amount"`
	Audit
}
