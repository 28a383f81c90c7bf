package replay

import "gifIndexer/internal/model"

// Stats counts what happened to each event of a pass.
type Stats struct {
	Processed         int `json:"processed"`
	Applied           int `json:"applied"`
	DecodeFailures    int `json:"decode_failures"`
	MissingReferences int `json:"missing_references"`
	Unhandled         int `json:"unhandled"`
	Unknown           int `json:"unknown"`
	Anomalies         int `json:"anomalies"`
}

// Skipped returns the number of events that changed no entity.
func (s Stats) Skipped() int {
	return s.DecodeFailures + s.MissingReferences + s.Unhandled + s.Unknown
}

// Snapshot is the final entity state of one pass, each kind ordered by key.
type Snapshot struct {
	RunID          string                `json:"run_id"`
	Stats          Stats                 `json:"stats"`
	Nfts           []model.Nft           `json:"nfts"`
	Instances      []model.Instance      `json:"instances"`
	Components     []model.Component     `json:"components"`
	Risks          []model.Risk          `json:"risks"`
	Policies       []model.Policy        `json:"policies"`
	Claims         []model.Claim         `json:"claims"`
	Payouts        []model.Payout        `json:"payouts"`
	OracleRequests []model.OracleRequest `json:"oracle_requests"`
	Bundles        []model.Bundle        `json:"bundles"`
}

func (s *State) Snapshot() *Snapshot {
	return &Snapshot{
		Nfts:           s.Nfts.Values(),
		Instances:      s.Instances.Values(),
		Components:     s.Components.Values(),
		Risks:          s.Risks.Values(),
		Policies:       s.Policies.Values(),
		Claims:         s.Claims.Values(),
		Payouts:        s.Payouts.Values(),
		OracleRequests: s.OracleRequests.Values(),
		Bundles:        s.Bundles.Values(),
	}
}

// Counts returns the number of entities per kind.
func (s *Snapshot) Counts() map[string]int {
	return map[string]int{
		model.KindNft:           len(s.Nfts),
		model.KindInstance:      len(s.Instances),
		model.KindComponent:     len(s.Components),
		model.KindRisk:          len(s.Risks),
		model.KindPolicy:        len(s.Policies),
		model.KindClaim:         len(s.Claims),
		model.KindPayout:        len(s.Payouts),
		model.KindOracleRequest: len(s.OracleRequests),
		model.KindBundle:        len(s.Bundles),
	}
}
