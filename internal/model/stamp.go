package model

import (
	"encoding/json"
	"time"
)

// ZeroAddress is the canonical lowercase form of the 20-byte zero address.
const ZeroAddress = "0x0000000000000000000000000000000000000000"

// Stamp records where and by whom an entity transition happened.
type Stamp struct {
	BlockNumber uint64    `json:"block_number"`
	Timestamp   time.Time `json:"timestamp"`
	TxHash      string    `json:"tx_hash"`
	From        string    `json:"from"`
}

// UnixMilli returns the block time in milliseconds since epoch.
func (s Stamp) UnixMilli() int64 {
	if s.Timestamp.IsZero() {
		return 0
	}
	return s.Timestamp.UnixMilli()
}

// MarshalJSON encodes the timestamp as unix milliseconds.
func (s Stamp) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		BlockNumber uint64 `json:"block_number"`
		Timestamp   int64  `json:"timestamp"`
		TxHash      string `json:"tx_hash"`
		From        string `json:"from"`
	}{s.BlockNumber, s.UnixMilli(), s.TxHash, s.From})
}

// Audit carries the creation and last-modification stamps of an entity.
type Audit struct {
	Created  Stamp `json:"created"`
	Modified Stamp `json:"modified"`
}

// NewAudit returns an Audit whose created and modified stamps are both s.
func NewAudit(s Stamp) Audit {
	return Audit{Created: s, Modified: s}
}

// Touch refreshes the modified stamp.
func (a *Audit) Touch(s Stamp) {
	a.Modified = s
}
