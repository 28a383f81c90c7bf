package gif

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"

	"gifIndexer/internal/model"
)

// ErrUnknownEvent is returned when a topic0 is not an event of the requested interface.
var ErrUnknownEvent = errors.New("unknown event")

// eventFactory returns a fresh event and the struct the abi values are copied into.
type eventFactory func() (Event, any)

func plain[E any, P interface {
	*E
	Event
}]() eventFactory {
	return func() (Event, any) {
		e := P(new(E))
		return e, e
	}
}

var eventFactories = map[string]eventFactory{
	EventTransfer:                 plain[Transfer](),
	EventRegistryObjectRegistered: plain[RegistryObjectRegistered](),
	EventInstanceCreated:          plain[InstanceCreated](),
	EventComponentRegistered:      plain[ComponentRegistered](),

	EventRiskCreated:  func() (Event, any) { e := &RiskCreated{}; return e, &e.RiskEvent },
	EventRiskUpdated:  func() (Event, any) { e := &RiskUpdated{}; return e, &e.RiskEvent },
	EventRiskLocked:   func() (Event, any) { e := &RiskLocked{}; return e, &e.RiskEvent },
	EventRiskUnlocked: func() (Event, any) { e := &RiskUnlocked{}; return e, &e.RiskEvent },
	EventRiskClosed:   func() (Event, any) { e := &RiskClosed{}; return e, &e.RiskEvent },

	EventApplicationCreated:      plain[ApplicationCreated](),
	EventPolicyCreated:           plain[PolicyCreated](),
	EventPolicyPremiumCollected:  plain[PolicyPremiumCollected](),
	EventPolicyExpirationUpdated: plain[PolicyExpirationUpdated](),
	EventPolicyClosed:            plain[PolicyClosed](),

	EventClaimSubmitted:  plain[ClaimSubmitted](),
	EventClaimConfirmed:  plain[ClaimConfirmed](),
	EventClaimDeclined:   func() (Event, any) { e := &ClaimDeclined{}; return e, &e.ClaimEvent },
	EventClaimRevoked:    func() (Event, any) { e := &ClaimRevoked{}; return e, &e.ClaimEvent },
	EventClaimCanceled:   func() (Event, any) { e := &ClaimCanceled{}; return e, &e.ClaimEvent },
	EventPayoutCreated:   plain[PayoutCreated](),
	EventPayoutProcessed: plain[PayoutProcessed](),
	EventPayoutCancelled: plain[PayoutCancelled](),

	EventOracleRequestCreated:    plain[OracleRequestCreated](),
	EventOracleResponseProcessed: plain[OracleResponseProcessed](),
	EventOracleDeliveryFailed:    plain[OracleDeliveryFailed](),
	EventOracleResponseResent:    plain[OracleResponseResent](),
	EventOracleRequestCancelled:  plain[OracleRequestCancelled](),

	EventBundleCreated:            plain[BundleCreated](),
	EventBundleClosed:             func() (Event, any) { e := &BundleClosed{}; return e, &e.BundleEvent },
	EventBundleLocked:             func() (Event, any) { e := &BundleLocked{}; return e, &e.BundleEvent },
	EventBundleUnlocked:           func() (Event, any) { e := &BundleUnlocked{}; return e, &e.BundleEvent },
	EventBundleExtended:           plain[BundleExtended](),
	EventBundleCollateralLocked:   func() (Event, any) { e := &CollateralLocked{}; return e, &e.CollateralEvent },
	EventBundleCollateralReleased: func() (Event, any) { e := &CollateralReleased{}; return e, &e.CollateralEvent },
	EventBundleStaked:             func() (Event, any) { e := &BundleStaked{}; return e, &e.StakeEvent },
	EventBundleUnstaked:           func() (Event, any) { e := &BundleUnstaked{}; return e, &e.StakeEvent },
}

// Binding names the interface and event a topic0 belongs to.
type Binding struct {
	Interface Interface
	EventName string
	Topic0    common.Hash
}

// Decoder decodes raw GIF event logs into typed events.
type Decoder struct {
	abis    map[Interface]abi.ABI
	byTopic map[common.Hash]Binding
}

// NewDecoder builds a decoder over every supported contract interface.
func NewDecoder() (*Decoder, error) {
	abis, err := ContractABIs()
	if err != nil {
		return nil, err
	}
	byTopic := make(map[common.Hash]Binding)
	for iface, contractABI := range abis {
		for name, event := range contractABI.Events {
			if _, ok := eventFactories[name]; !ok {
				return nil, fmt.Errorf("no event type for %s.%s", iface, name)
			}
			byTopic[event.ID] = Binding{Interface: iface, EventName: name, Topic0: event.ID}
		}
	}
	return &Decoder{abis: abis, byTopic: byTopic}, nil
}

// Lookup resolves a topic0 hash to the interface and event name that emit it.
func (d *Decoder) Lookup(topic0 string) (Binding, bool) {
	data, err := hexutil.Decode(strings.TrimSpace(topic0))
	if err != nil || len(data) != common.HashLength {
		return Binding{}, false
	}
	b, ok := d.byTopic[common.BytesToHash(data)]
	return b, ok
}

// Bindings returns every known event binding ordered by interface and event name.
func (d *Decoder) Bindings() []Binding {
	out := make([]Binding, 0, len(d.byTopic))
	for _, b := range d.byTopic {
		out = append(out, b)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Interface != out[j].Interface {
			return out[i].Interface < out[j].Interface
		}
		return out[i].EventName < out[j].EventName
	})
	return out
}

// Topic0 returns the topic0 hash of the named event.
func (d *Decoder) Topic0(name string) (common.Hash, bool) {
	for _, b := range d.byTopic {
		if b.EventName == name {
			return b.Topic0, true
		}
	}
	return common.Hash{}, false
}

// Decode decodes log against the events of iface. The returned event is
// selected by topic0, so its name may differ from log.EventName.
func (d *Decoder) Decode(iface Interface, log model.EventLog) (Event, error) {
	contractABI, ok := d.abis[iface]
	if !ok {
		return nil, fmt.Errorf("unsupported interface: %s", iface)
	}
	topics := log.Topics()
	if len(topics) == 0 {
		return nil, fmt.Errorf("missing topics")
	}
	hashes, err := parseTopicHashes(topics)
	if err != nil {
		return nil, err
	}
	event, err := contractABI.EventByID(hashes[0])
	if err != nil {
		return nil, fmt.Errorf("%w: %s on %s", ErrUnknownEvent, topics[0], iface)
	}
	newEvent, ok := eventFactories[event.Name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownEvent, event.Name)
	}
	out, target := newEvent()

	indexed := indexedArguments(event.Inputs)
	if len(hashes) != len(indexed)+1 {
		return nil, fmt.Errorf("%s: expected %d topics, got %d", event.Name, len(indexed)+1, len(hashes))
	}
	if len(indexed) > 0 {
		if err := abi.ParseTopics(target, indexed, hashes[1:]); err != nil {
			return nil, fmt.Errorf("parse topics: %w", err)
		}
	}

	nonIndexed := event.Inputs.NonIndexed()
	if len(nonIndexed) > 0 {
		values, err := unpackNonIndexed(event, log.Data)
		if err != nil {
			return nil, err
		}
		if err := nonIndexed.Copy(target, values); err != nil {
			return nil, fmt.Errorf("copy %s: %w", event.Name, err)
		}
	}
	return out, nil
}

func parseTopicHashes(topics []string) ([]common.Hash, error) {
	out := make([]common.Hash, 0, len(topics))
	for _, topic := range topics {
		data, err := hexutil.Decode(topic)
		if err != nil {
			return nil, fmt.Errorf("invalid topic: %w", err)
		}
		if len(data) != common.HashLength {
			return nil, fmt.Errorf("topic length %d", len(data))
		}
		out = append(out, common.BytesToHash(data))
	}
	return out, nil
}

func indexedArguments(args abi.Arguments) abi.Arguments {
	indexed := make(abi.Arguments, 0, len(args))
	for _, arg := range args {
		if arg.Indexed {
			indexed = append(indexed, arg)
		}
	}
	return indexed
}

func unpackNonIndexed(event *abi.Event, dataHex string) ([]interface{}, error) {
	data, err := hexutil.Decode(dataHex)
	if err != nil {
		return nil, fmt.Errorf("invalid data: %w", err)
	}
	values, err := event.Inputs.NonIndexed().Unpack(data)
	if err != nil {
		return nil, fmt.Errorf("unpack %s: %w", event.Name, err)
	}
	return values, nil
}
