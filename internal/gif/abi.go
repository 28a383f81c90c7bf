package gif

import (
	"fmt"
	"strings"
	"sync"

	"github.com/ethereum/go-ethereum/accounts/abi"
)

const registryABIJSON = `[
  {
    "anonymous": false,
    "inputs": [
      {"indexed": false, "internalType": "NftId", "name": "nftId", "type": "uint96"},
      {"indexed": false, "internalType": "NftId", "name": "parentNftId", "type": "uint96"},
      {"indexed": false, "internalType": "ObjectType", "name": "objectType", "type": "uint8"},
      {"indexed": false, "internalType": "bool", "name": "isInterceptor", "type": "bool"},
      {"indexed": false, "internalType": "address", "name": "objectAddress", "type": "address"},
      {"indexed": false, "internalType": "address", "name": "initialOwner", "type": "address"}
    ],
    "name": "LogRegistryObjectRegistered",
    "type": "event"
  }
]`

const instanceServiceABIJSON = `[
  {
    "anonymous": false,
    "inputs": [
      {"indexed": false, "internalType": "NftId", "name": "instanceNftId", "type": "uint96"},
      {"indexed": false, "internalType": "contract IInstance", "name": "instance", "type": "address"}
    ],
    "name": "LogInstanceServiceInstanceCreated",
    "type": "event"
  }
]`

const componentServiceABIJSON = `[
  {
    "anonymous": false,
    "inputs": [
      {"indexed": false, "internalType": "NftId", "name": "instanceNftId", "type": "uint96"},
      {"indexed": false, "internalType": "NftId", "name": "componentNftId", "type": "uint96"},
      {"indexed": false, "internalType": "ObjectType", "name": "componentType", "type": "uint8"},
      {"indexed": false, "internalType": "address", "name": "component", "type": "address"},
      {"indexed": false, "internalType": "address", "name": "token", "type": "address"},
      {"indexed": false, "internalType": "address", "name": "initialOwner", "type": "address"}
    ],
    "name": "LogComponentServiceRegistered",
    "type": "event"
  }
]`

const riskServiceABIJSON = `[
  {
    "anonymous": false,
    "inputs": [
      {"indexed": false, "internalType": "NftId", "name": "productNftId", "type": "uint96"},
      {"indexed": false, "internalType": "RiskId", "name": "riskId", "type": "bytes8"}
    ],
    "name": "LogRiskServiceRiskCreated",
    "type": "event"
  },
  {
    "anonymous": false,
    "inputs": [
      {"indexed": false, "internalType": "NftId", "name": "productNftId", "type": "uint96"},
      {"indexed": false, "internalType": "RiskId", "name": "riskId", "type": "bytes8"}
    ],
    "name": "LogRiskServiceRiskUpdated",
    "type": "event"
  },
  {
    "anonymous": false,
    "inputs": [
      {"indexed": false, "internalType": "NftId", "name": "productNftId", "type": "uint96"},
      {"indexed": false, "internalType": "RiskId", "name": "riskId", "type": "bytes8"}
    ],
    "name": "LogRiskServiceRiskLocked",
    "type": "event"
  },
  {
    "anonymous": false,
    "inputs": [
      {"indexed": false, "internalType": "NftId", "name": "productNftId", "type": "uint96"},
      {"indexed": false, "internalType": "RiskId", "name": "riskId", "type": "bytes8"}
    ],
    "name": "LogRiskServiceRiskUnlocked",
    "type": "event"
  },
  {
    "anonymous": false,
    "inputs": [
      {"indexed": false, "internalType": "NftId", "name": "productNftId", "type": "uint96"},
      {"indexed": false, "internalType": "RiskId", "name": "riskId", "type": "bytes8"}
    ],
    "name": "LogRiskServiceRiskClosed",
    "type": "event"
  }
]`

const applicationServiceABIJSON = `[
  {
    "anonymous": false,
    "inputs": [
      {"indexed": false, "internalType": "NftId", "name": "applicationNftId", "type": "uint96"},
      {"indexed": false, "internalType": "NftId", "name": "productNftId", "type": "uint96"},
      {"indexed": false, "internalType": "NftId", "name": "bundleNftId", "type": "uint96"},
      {"indexed": false, "internalType": "RiskId", "name": "riskId", "type": "bytes8"},
      {"indexed": false, "internalType": "ReferralId", "name": "referralId", "type": "bytes8"},
      {"indexed": false, "internalType": "address", "name": "applicationOwner", "type": "address"},
      {"indexed": false, "internalType": "Amount", "name": "sumInsuredAmount", "type": "uint96"},
      {"indexed": false, "internalType": "Amount", "name": "premiumAmount", "type": "uint96"},
      {"indexed": false, "internalType": "Seconds", "name": "lifetime", "type": "uint40"}
    ],
    "name": "LogApplicationServiceApplicationCreated",
    "type": "event"
  }
]`

const policyServiceABIJSON = `[
  {
    "anonymous": false,
    "inputs": [
      {"indexed": false, "internalType": "NftId", "name": "policyNftId", "type": "uint96"},
      {"indexed": false, "internalType": "Amount", "name": "premiumAmount", "type": "uint96"},
      {"indexed": false, "internalType": "Timestamp", "name": "activatedAt", "type": "uint40"}
    ],
    "name": "LogPolicyServicePolicyCreated",
    "type": "event"
  },
  {
    "anonymous": false,
    "inputs": [
      {"indexed": false, "internalType": "NftId", "name": "policyNftId", "type": "uint96"},
      {"indexed": false, "internalType": "Amount", "name": "premiumAmount", "type": "uint96"}
    ],
    "name": "LogPolicyServicePolicyPremiumCollected",
    "type": "event"
  },
  {
    "anonymous": false,
    "inputs": [
      {"indexed": false, "internalType": "NftId", "name": "policyNftId", "type": "uint96"},
      {"indexed": false, "internalType": "Timestamp", "name": "expiredAt", "type": "uint40"}
    ],
    "name": "LogPolicyServicePolicyExpirationUpdated",
    "type": "event"
  },
  {
    "anonymous": false,
    "inputs": [
      {"indexed": false, "internalType": "NftId", "name": "policyNftId", "type": "uint96"}
    ],
    "name": "LogPolicyServicePolicyClosed",
    "type": "event"
  }
]`

const claimServiceABIJSON = `[
  {
    "anonymous": false,
    "inputs": [
      {"indexed": false, "internalType": "NftId", "name": "policyNftId", "type": "uint96"},
      {"indexed": false, "internalType": "ClaimId", "name": "claimId", "type": "uint16"},
      {"indexed": false, "internalType": "Amount", "name": "claimAmount", "type": "uint96"}
    ],
    "name": "LogClaimServiceClaimSubmitted",
    "type": "event"
  },
  {
    "anonymous": false,
    "inputs": [
      {"indexed": false, "internalType": "NftId", "name": "policyNftId", "type": "uint96"},
      {"indexed": false, "internalType": "ClaimId", "name": "claimId", "type": "uint16"},
      {"indexed": false, "internalType": "Amount", "name": "confirmedAmount", "type": "uint96"}
    ],
    "name": "LogClaimServiceClaimConfirmed",
    "type": "event"
  },
  {
    "anonymous": false,
    "inputs": [
      {"indexed": false, "internalType": "NftId", "name": "policyNftId", "type": "uint96"},
      {"indexed": false, "internalType": "ClaimId", "name": "claimId", "type": "uint16"}
    ],
    "name": "LogClaimServiceClaimDeclined",
    "type": "event"
  },
  {
    "anonymous": false,
    "inputs": [
      {"indexed": false, "internalType": "NftId", "name": "policyNftId", "type": "uint96"},
      {"indexed": false, "internalType": "ClaimId", "name": "claimId", "type": "uint16"}
    ],
    "name": "LogClaimServiceClaimRevoked",
    "type": "event"
  },
  {
    "anonymous": false,
    "inputs": [
      {"indexed": false, "internalType": "NftId", "name": "policyNftId", "type": "uint96"},
      {"indexed": false, "internalType": "ClaimId", "name": "claimId", "type": "uint16"}
    ],
    "name": "LogClaimServiceClaimCanceled",
    "type": "event"
  },
  {
    "anonymous": false,
    "inputs": [
      {"indexed": false, "internalType": "NftId", "name": "policyNftId", "type": "uint96"},
      {"indexed": false, "internalType": "PayoutId", "name": "payoutId", "type": "uint40"},
      {"indexed": false, "internalType": "Amount", "name": "amount", "type": "uint96"},
      {"indexed": false, "internalType": "address", "name": "beneficiary", "type": "address"}
    ],
    "name": "LogClaimServicePayoutCreated",
    "type": "event"
  },
  {
    "anonymous": false,
    "inputs": [
      {"indexed": false, "internalType": "NftId", "name": "policyNftId", "type": "uint96"},
      {"indexed": false, "internalType": "PayoutId", "name": "payoutId", "type": "uint40"},
      {"indexed": false, "internalType": "Amount", "name": "amount", "type": "uint96"}
    ],
    "name": "LogClaimServicePayoutProcessed",
    "type": "event"
  },
  {
    "anonymous": false,
    "inputs": [
      {"indexed": false, "internalType": "NftId", "name": "policyNftId", "type": "uint96"},
      {"indexed": false, "internalType": "PayoutId", "name": "payoutId", "type": "uint40"}
    ],
    "name": "LogClaimServicePayoutCancelled",
    "type": "event"
  }
]`

const oracleServiceABIJSON = `[
  {
    "anonymous": false,
    "inputs": [
      {"indexed": false, "internalType": "RequestId", "name": "requestId", "type": "uint64"},
      {"indexed": false, "internalType": "NftId", "name": "requesterNftId", "type": "uint96"},
      {"indexed": false, "internalType": "NftId", "name": "oracleNftId", "type": "uint96"},
      {"indexed": false, "internalType": "Timestamp", "name": "expiryAt", "type": "uint40"}
    ],
    "name": "LogOracleServiceRequestCreated",
    "type": "event"
  },
  {
    "anonymous": false,
    "inputs": [
      {"indexed": false, "internalType": "RequestId", "name": "requestId", "type": "uint64"},
      {"indexed": false, "internalType": "NftId", "name": "oracleNftId", "type": "uint96"}
    ],
    "name": "LogOracleServiceResponseProcessed",
    "type": "event"
  },
  {
    "anonymous": false,
    "inputs": [
      {"indexed": false, "internalType": "RequestId", "name": "requestId", "type": "uint64"},
      {"indexed": false, "internalType": "address", "name": "requesterAddress", "type": "address"},
      {"indexed": false, "internalType": "string", "name": "functionSignature", "type": "string"}
    ],
    "name": "LogOracleServiceDeliveryFailed",
    "type": "event"
  },
  {
    "anonymous": false,
    "inputs": [
      {"indexed": false, "internalType": "RequestId", "name": "requestId", "type": "uint64"},
      {"indexed": false, "internalType": "NftId", "name": "requesterNftId", "type": "uint96"}
    ],
    "name": "LogOracleServiceResponseResent",
    "type": "event"
  },
  {
    "anonymous": false,
    "inputs": [
      {"indexed": false, "internalType": "RequestId", "name": "requestId", "type": "uint64"},
      {"indexed": false, "internalType": "NftId", "name": "requesterNftId", "type": "uint96"}
    ],
    "name": "LogOracleServiceRequestCancelled",
    "type": "event"
  }
]`

const bundleServiceABIJSON = `[
  {
    "anonymous": false,
    "inputs": [
      {"indexed": false, "internalType": "NftId", "name": "bundleNftId", "type": "uint96"},
      {"indexed": false, "internalType": "NftId", "name": "poolNftId", "type": "uint96"},
      {"indexed": false, "internalType": "Seconds", "name": "lifetime", "type": "uint40"}
    ],
    "name": "LogBundleServiceBundleCreated",
    "type": "event"
  },
  {
    "anonymous": false,
    "inputs": [
      {"indexed": false, "internalType": "NftId", "name": "bundleNftId", "type": "uint96"}
    ],
    "name": "LogBundleServiceBundleClosed",
    "type": "event"
  },
  {
    "anonymous": false,
    "inputs": [
      {"indexed": false, "internalType": "NftId", "name": "bundleNftId", "type": "uint96"}
    ],
    "name": "LogBundleServiceBundleLocked",
    "type": "event"
  },
  {
    "anonymous": false,
    "inputs": [
      {"indexed": false, "internalType": "NftId", "name": "bundleNftId", "type": "uint96"}
    ],
    "name": "LogBundleServiceBundleUnlocked",
    "type": "event"
  },
  {
    "anonymous": false,
    "inputs": [
      {"indexed": false, "internalType": "NftId", "name": "bundleNftId", "type": "uint96"},
      {"indexed": false, "internalType": "Seconds", "name": "lifetimeExtension", "type": "uint40"},
      {"indexed": false, "internalType": "Timestamp", "name": "extendedExpiredAt", "type": "uint40"}
    ],
    "name": "LogBundleServiceBundleExtended",
    "type": "event"
  },
  {
    "anonymous": false,
    "inputs": [
      {"indexed": false, "internalType": "NftId", "name": "bundleNftId", "type": "uint96"},
      {"indexed": false, "internalType": "NftId", "name": "policyNftId", "type": "uint96"},
      {"indexed": false, "internalType": "Amount", "name": "collateralAmount", "type": "uint96"}
    ],
    "name": "LogBundleServiceCollateralLocked",
    "type": "event"
  },
  {
    "anonymous": false,
    "inputs": [
      {"indexed": false, "internalType": "NftId", "name": "bundleNftId", "type": "uint96"},
      {"indexed": false, "internalType": "NftId", "name": "policyNftId", "type": "uint96"},
      {"indexed": false, "internalType": "Amount", "name": "collateralAmount", "type": "uint96"}
    ],
    "name": "LogBundleServiceCollateralReleased",
    "type": "event"
  },
  {
    "anonymous": false,
    "inputs": [
      {"indexed": false, "internalType": "NftId", "name": "bundleNftId", "type": "uint96"},
      {"indexed": false, "internalType": "Amount", "name": "amount", "type": "uint96"}
    ],
    "name": "LogBundleServiceBundleStaked",
    "type": "event"
  },
  {
    "anonymous": false,
    "inputs": [
      {"indexed": false, "internalType": "NftId", "name": "bundleNftId", "type": "uint96"},
      {"indexed": false, "internalType": "Amount", "name": "amount", "type": "uint96"}
    ],
    "name": "LogBundleServiceBundleUnstaked",
    "type": "event"
  }
]`

const chainNftABIJSON = `[
  {
    "anonymous": false,
    "inputs": [
      {"indexed": true, "internalType": "address", "name": "from", "type": "address"},
      {"indexed": true, "internalType": "address", "name": "to", "type": "address"},
      {"indexed": true, "internalType": "uint256", "name": "tokenId", "type": "uint256"}
    ],
    "name": "Transfer",
    "type": "event"
  }
]`

var interfaceABIJSON = map[Interface]string{
	IRegistry:           registryABIJSON,
	IInstanceService:    instanceServiceABIJSON,
	IComponentService:   componentServiceABIJSON,
	IRiskService:        riskServiceABIJSON,
	IApplicationService: applicationServiceABIJSON,
	IPolicyService:      policyServiceABIJSON,
	IClaimService:       claimServiceABIJSON,
	IOracleService:      oracleServiceABIJSON,
	IBundleService:      bundleServiceABIJSON,
	IChainNft:           chainNftABIJSON,
}

var (
	contractABIs     map[Interface]abi.ABI
	contractABIsOnce sync.Once
	contractABIsErr  error
)

// ContractABIs returns the parsed event ABIs of every supported contract interface.
func ContractABIs() (map[Interface]abi.ABI, error) {
	contractABIsOnce.Do(func() {
		parsed := make(map[Interface]abi.ABI, len(interfaceABIJSON))
		for iface, raw := range interfaceABIJSON {
			contractABI, err := abi.JSON(strings.NewReader(raw))
			if err != nil {
				contractABIsErr = fmt.Errorf("parse %s abi: %w", iface, err)
				return
			}
			parsed[iface] = contractABI
		}
		contractABIs = parsed
	})
	return contractABIs, contractABIsErr
}
