package gif

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"
)

// Interface names a contract interface whose events can be decoded.
type Interface string

const (
	IRegistry           Interface = "IRegistry"
	IInstanceService    Interface = "IInstanceService"
	IComponentService   Interface = "IComponentService"
	IRiskService        Interface = "IRiskService"
	IApplicationService Interface = "IApplicationService"
	IPolicyService      Interface = "IPolicyService"
	IClaimService       Interface = "IClaimService"
	IOracleService      Interface = "IOracleService"
	IBundleService      Interface = "IBundleService"
	IChainNft           Interface = "IChainNft"
)

// Event names as emitted on chain.
const (
	EventRegistryObjectRegistered = "LogRegistryObjectRegistered"
	EventTransfer                 = "Transfer"

	EventInstanceCreated     = "LogInstanceServiceInstanceCreated"
	EventComponentRegistered = "LogComponentServiceRegistered"

	EventRiskCreated  = "LogRiskServiceRiskCreated"
	EventRiskUpdated  = "LogRiskServiceRiskUpdated"
	EventRiskLocked   = "LogRiskServiceRiskLocked"
	EventRiskUnlocked = "LogRiskServiceRiskUnlocked"
	EventRiskClosed   = "LogRiskServiceRiskClosed"

	EventApplicationCreated      = "LogApplicationServiceApplicationCreated"
	EventPolicyCreated           = "LogPolicyServicePolicyCreated"
	EventPolicyPremiumCollected  = "LogPolicyServicePolicyPremiumCollected"
	EventPolicyExpirationUpdated = "LogPolicyServicePolicyExpirationUpdated"
	EventPolicyClosed            = "LogPolicyServicePolicyClosed"

	EventClaimSubmitted  = "LogClaimServiceClaimSubmitted"
	EventClaimConfirmed  = "LogClaimServiceClaimConfirmed"
	EventClaimDeclined   = "LogClaimServiceClaimDeclined"
	EventClaimRevoked    = "LogClaimServiceClaimRevoked"
	EventClaimCanceled   = "LogClaimServiceClaimCanceled"
	EventPayoutCreated   = "LogClaimServicePayoutCreated"
	EventPayoutProcessed = "LogClaimServicePayoutProcessed"
	EventPayoutCancelled = "LogClaimServicePayoutCancelled"

	EventOracleRequestCreated    = "LogOracleServiceRequestCreated"
	EventOracleResponseProcessed = "LogOracleServiceResponseProcessed"
	EventOracleDeliveryFailed    = "LogOracleServiceDeliveryFailed"
	EventOracleResponseResent    = "LogOracleServiceResponseResent"
	EventOracleRequestCancelled  = "LogOracleServiceRequestCancelled"

	EventBundleCreated            = "LogBundleServiceBundleCreated"
	EventBundleClosed             = "LogBundleServiceBundleClosed"
	EventBundleLocked             = "LogBundleServiceBundleLocked"
	EventBundleUnlocked           = "LogBundleServiceBundleUnlocked"
	EventBundleExtended           = "LogBundleServiceBundleExtended"
	EventBundleCollateralLocked   = "LogBundleServiceCollateralLocked"
	EventBundleCollateralReleased = "LogBundleServiceCollateralReleased"
	EventBundleStaked             = "LogBundleServiceBundleStaked"
	EventBundleUnstaked           = "LogBundleServiceBundleUnstaked"
)

// Event is a decoded, strongly typed event payload.
type Event interface {
	EventName() string
}

// Transfer is the ERC-721 transfer of a registry nft.
type Transfer struct {
	From    common.Address
	To      common.Address
	TokenId *big.Int
}

func (Transfer) EventName() string { return EventTransfer }

type RegistryObjectRegistered struct {
	NftId         *big.Int
	ParentNftId   *big.Int
	ObjectType    uint8
	IsInterceptor bool
	ObjectAddress common.Address
	InitialOwner  common.Address
}

func (RegistryObjectRegistered) EventName() string { return EventRegistryObjectRegistered }

type InstanceCreated struct {
	InstanceNftId *big.Int
	Instance      common.Address
}

func (InstanceCreated) EventName() string { return EventInstanceCreated }

type ComponentRegistered struct {
	InstanceNftId  *big.Int
	ComponentNftId *big.Int
	ComponentType  uint8
	Component      common.Address
	Token          common.Address
	InitialOwner   common.Address
}

func (ComponentRegistered) EventName() string { return EventComponentRegistered }

// RiskEvent is the shared payload of all risk service events.
type RiskEvent struct {
	ProductNftId *big.Int
	RiskId       [8]byte
}

type RiskCreated struct{ RiskEvent }
type RiskUpdated struct{ RiskEvent }
type RiskLocked struct{ RiskEvent }
type RiskUnlocked struct{ RiskEvent }
type RiskClosed struct{ RiskEvent }

func (RiskCreated) EventName() string  { return EventRiskCreated }
func (RiskUpdated) EventName() string  { return EventRiskUpdated }
func (RiskLocked) EventName() string   { return EventRiskLocked }
func (RiskUnlocked) EventName() string { return EventRiskUnlocked }
func (RiskClosed) EventName() string   { return EventRiskClosed }

type ApplicationCreated struct {
	ApplicationNftId *big.Int
	ProductNftId     *big.Int
	BundleNftId      *big.Int
	RiskId           [8]byte
	ReferralId       [8]byte
	ApplicationOwner common.Address
	SumInsuredAmount *big.Int
	PremiumAmount    *big.Int
	Lifetime         *big.Int
}

func (ApplicationCreated) EventName() string { return EventApplicationCreated }

type PolicyCreated struct {
	PolicyNftId   *big.Int
	PremiumAmount *big.Int
	ActivatedAt   *big.Int
}

func (PolicyCreated) EventName() string { return EventPolicyCreated }

type PolicyPremiumCollected struct {
	PolicyNftId   *big.Int
	PremiumAmount *big.Int
}

func (PolicyPremiumCollected) EventName() string { return EventPolicyPremiumCollected }

type PolicyExpirationUpdated struct {
	PolicyNftId *big.Int
	ExpiredAt   *big.Int
}

func (PolicyExpirationUpdated) EventName() string { return EventPolicyExpirationUpdated }

type PolicyClosed struct {
	PolicyNftId *big.Int
}

func (PolicyClosed) EventName() string { return EventPolicyClosed }

type ClaimSubmitted struct {
	PolicyNftId *big.Int
	ClaimId     uint16
	ClaimAmount *big.Int
}

func (ClaimSubmitted) EventName() string { return EventClaimSubmitted }

type ClaimConfirmed struct {
	PolicyNftId     *big.Int
	ClaimId         uint16
	ConfirmedAmount *big.Int
}

func (ClaimConfirmed) EventName() string { return EventClaimConfirmed }

// ClaimEvent is the payload of claim events that carry only the claim key.
type ClaimEvent struct {
	PolicyNftId *big.Int
	ClaimId     uint16
}

type ClaimDeclined struct{ ClaimEvent }
type ClaimRevoked struct{ ClaimEvent }
type ClaimCanceled struct{ ClaimEvent }

func (ClaimDeclined) EventName() string { return EventClaimDeclined }
func (ClaimRevoked) EventName() string  { return EventClaimRevoked }
func (ClaimCanceled) EventName() string { return EventClaimCanceled }

type PayoutCreated struct {
	PolicyNftId *big.Int
	PayoutId    *big.Int
	Amount      *big.Int
	Beneficiary common.Address
}

func (PayoutCreated) EventName() string { return EventPayoutCreated }

type PayoutProcessed struct {
	PolicyNftId *big.Int
	PayoutId    *big.Int
	Amount      *big.Int
}

func (PayoutProcessed) EventName() string { return EventPayoutProcessed }

type PayoutCancelled struct {
	PolicyNftId *big.Int
	PayoutId    *big.Int
}

func (PayoutCancelled) EventName() string { return EventPayoutCancelled }

type OracleRequestCreated struct {
	RequestId      uint64
	RequesterNftId *big.Int
	OracleNftId    *big.Int
	ExpiryAt       *big.Int
}

func (OracleRequestCreated) EventName() string { return EventOracleRequestCreated }

type OracleResponseProcessed struct {
	RequestId   uint64
	OracleNftId *big.Int
}

func (OracleResponseProcessed) EventName() string { return EventOracleResponseProcessed }

type OracleDeliveryFailed struct {
	RequestId         uint64
	RequesterAddress  common.Address
	FunctionSignature string
}

func (OracleDeliveryFailed) EventName() string { return EventOracleDeliveryFailed }

type OracleResponseResent struct {
	RequestId      uint64
	RequesterNftId *big.Int
}

func (OracleResponseResent) EventName() string { return EventOracleResponseResent }

type OracleRequestCancelled struct {
	RequestId      uint64
	RequesterNftId *big.Int
}

func (OracleRequestCancelled) EventName() string { return EventOracleRequestCancelled }

type BundleCreated struct {
	BundleNftId *big.Int
	PoolNftId   *big.Int
	Lifetime    *big.Int
}

func (BundleCreated) EventName() string { return EventBundleCreated }

// BundleEvent is the payload of bundle events that carry only the bundle id.
type BundleEvent struct {
	BundleNftId *big.Int
}

type BundleClosed struct{ BundleEvent }
type BundleLocked struct{ BundleEvent }
type BundleUnlocked struct{ BundleEvent }

func (BundleClosed) EventName() string   { return EventBundleClosed }
func (BundleLocked) EventName() string   { return EventBundleLocked }
func (BundleUnlocked) EventName() string { return EventBundleUnlocked }

type BundleExtended struct {
	BundleNftId       *big.Int
	LifetimeExtension *big.Int
	ExtendedExpiredAt *big.Int
}

func (BundleExtended) EventName() string { return EventBundleExtended }

// CollateralEvent is the payload of collateral lock and release events.
type CollateralEvent struct {
	BundleNftId      *big.Int
	PolicyNftId      *big.Int
	CollateralAmount *big.Int
}

type CollateralLocked struct{ CollateralEvent }
type CollateralReleased struct{ CollateralEvent }

func (CollateralLocked) EventName() string   { return EventBundleCollateralLocked }
func (CollateralReleased) EventName() string { return EventBundleCollateralReleased }

// StakeEvent is the payload of stake and unstake events.
type StakeEvent struct {
	BundleNftId *big.Int
	Amount      *big.Int
}

type BundleStaked struct{ StakeEvent }
type BundleUnstaked struct{ StakeEvent }

func (BundleStaked) EventName() string   { return EventBundleStaked }
func (BundleUnstaked) EventName() string { return EventBundleUnstaked }
