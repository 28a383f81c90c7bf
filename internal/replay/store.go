package replay

import (
	"cmp"
	"slices"

	"gifIndexer/internal/model"
)

// Store is an in-memory keyed collection holding the latest state of one entity kind.
type Store[K comparable, V any] struct {
	items   map[K]*V
	compare func(a, b K) int
}

// NewStore returns an empty store whose exported values are ordered by compare.
func NewStore[K comparable, V any](compare func(a, b K) int) *Store[K, V] {
	return &Store[K, V]{items: make(map[K]*V), compare: compare}
}

func (s *Store[K, V]) Get(key K) (*V, bool) {
	v, ok := s.items[key]
	return v, ok
}

// Put stores v under key and reports whether an entry was replaced.
func (s *Store[K, V]) Put(key K, v *V) bool {
	_, replaced := s.items[key]
	s.items[key] = v
	return replaced
}

func (s *Store[K, V]) Len() int {
	return len(s.items)
}

// Values returns copies of all entries ordered by key.
func (s *Store[K, V]) Values() []V {
	keys := make([]K, 0, len(s.items))
	for k := range s.items {
		keys = append(keys, k)
	}
	slices.SortFunc(keys, s.compare)
	out := make([]V, 0, len(keys))
	for _, k := range keys {
		out = append(out, *s.items[k])
	}
	return out
}

// State owns the entity stores of one replay pass.
type State struct {
	Nfts           *Store[uint64, model.Nft]
	Instances      *Store[uint64, model.Instance]
	Components     *Store[uint64, model.Component]
	Risks          *Store[model.RiskKey, model.Risk]
	Policies       *Store[uint64, model.Policy]
	Claims         *Store[model.ClaimKey, model.Claim]
	Payouts        *Store[model.PayoutKey, model.Payout]
	OracleRequests *Store[uint64, model.OracleRequest]
	Bundles        *Store[uint64, model.Bundle]
}

func NewState() *State {
	return &State{
		Nfts:           NewStore[uint64, model.Nft](cmp.Compare[uint64]),
		Instances:      NewStore[uint64, model.Instance](cmp.Compare[uint64]),
		Components:     NewStore[uint64, model.Component](cmp.Compare[uint64]),
		Risks:          NewStore[model.RiskKey, model.Risk](model.RiskKey.Compare),
		Policies:       NewStore[uint64, model.Policy](cmp.Compare[uint64]),
		Claims:         NewStore[model.ClaimKey, model.Claim](model.ClaimKey.Compare),
		Payouts:        NewStore[model.PayoutKey, model.Payout](model.PayoutKey.Compare),
		OracleRequests: NewStore[uint64, model.OracleRequest](cmp.Compare[uint64]),
		Bundles:        NewStore[uint64, model.Bundle](cmp.Compare[uint64]),
	}
}
