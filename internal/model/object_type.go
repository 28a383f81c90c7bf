package model

import "fmt"

// ObjectType is the registry object type code.
type ObjectType uint8

const (
	ObjectTypeUnknown         ObjectType = 0
	ObjectTypeProtocol        ObjectType = 1
	ObjectTypeRegistry        ObjectType = 2
	ObjectTypeStaking         ObjectType = 3
	ObjectTypeRelease         ObjectType = 6
	ObjectTypeRole            ObjectType = 7
	ObjectTypeService         ObjectType = 8
	ObjectTypeInstance        ObjectType = 10
	ObjectTypeComponent       ObjectType = 11
	ObjectTypeProduct         ObjectType = 12
	ObjectTypeOracle          ObjectType = 13
	ObjectTypeDistribution    ObjectType = 14
	ObjectTypePool            ObjectType = 15
	ObjectTypeApplication     ObjectType = 20
	ObjectTypePolicy          ObjectType = 21
	ObjectTypeBundle          ObjectType = 22
	ObjectTypeDistributor     ObjectType = 23
	ObjectTypeStake           ObjectType = 30
	ObjectTypeTarget          ObjectType = 31
	ObjectTypeAccounting      ObjectType = 40
	ObjectTypeFee             ObjectType = 41
	ObjectTypePrice           ObjectType = 42
	ObjectTypePremium         ObjectType = 43
	ObjectTypeRisk            ObjectType = 44
	ObjectTypeClaim           ObjectType = 45
	ObjectTypePayout          ObjectType = 46
	ObjectTypeRequest         ObjectType = 47
	ObjectTypeDistributorType ObjectType = 48
	ObjectTypeReferral        ObjectType = 49
	ObjectTypeCore            ObjectType = 97
	ObjectTypeCustom          ObjectType = 98
	ObjectTypeAll             ObjectType = 99
)

var objectTypeNames = map[ObjectType]string{
	ObjectTypeUnknown:         "UNKNOWN",
	ObjectTypeProtocol:        "PROTOCOL",
	ObjectTypeRegistry:        "REGISTRY",
	ObjectTypeStaking:         "STAKING",
	ObjectTypeRelease:         "RELEASE",
	ObjectTypeRole:            "ROLE",
	ObjectTypeService:         "SERVICE",
	ObjectTypeInstance:        "INSTANCE",
	ObjectTypeComponent:       "COMPONENT",
	ObjectTypeProduct:         "PRODUCT",
	ObjectTypeOracle:          "ORACLE",
	ObjectTypeDistribution:    "DISTRIBUTION",
	ObjectTypePool:            "POOL",
	ObjectTypeApplication:     "APPLICATION",
	ObjectTypePolicy:          "POLICY",
	ObjectTypeBundle:          "BUNDLE",
	ObjectTypeDistributor:     "DISTRIBUTOR",
	ObjectTypeStake:           "STAKE",
	ObjectTypeTarget:          "TARGET",
	ObjectTypeAccounting:      "ACCOUNTING",
	ObjectTypeFee:             "FEE",
	ObjectTypePrice:           "PRICE",
	ObjectTypePremium:         "PREMIUM",
	ObjectTypeRisk:            "RISK",
	ObjectTypeClaim:           "CLAIM",
	ObjectTypePayout:          "PAYOUT",
	ObjectTypeRequest:         "REQUEST",
	ObjectTypeDistributorType: "DISTRIBUTOR_TYPE",
	ObjectTypeReferral:        "REFERRAL",
	ObjectTypeCore:            "CORE",
	ObjectTypeCustom:          "CUSTOM",
	ObjectTypeAll:             "ALL",
}

// ParseObjectType maps a decoded code onto the closed set of known object types.
// Code 0 is UNKNOWN; any other unrecognized code reports ok=false.
func ParseObjectType(code uint64) (ObjectType, bool) {
	if code > 0xff {
		return ObjectTypeUnknown, false
	}
	t := ObjectType(code)
	if _, ok := objectTypeNames[t]; !ok {
		return ObjectTypeUnknown, false
	}
	return t, true
}

func (t ObjectType) String() string {
	if name, ok := objectTypeNames[t]; ok {
		return name
	}
	return fmt.Sprintf("ObjectType(%d)", uint8(t))
}

// MarshalText encodes the object type by name.
func (t ObjectType) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}
