package model

import (
	"fmt"
	"strings"
	"time"
)

// EventLog is one event row as delivered by the analytics query or the RPC collector.
type EventLog struct {
	BlockDate       string `json:"block_date,omitempty"`
	BlockTime       string `json:"block_time"`
	BlockNumber     uint64 `json:"block_number"`
	Namespace       string `json:"namespace,omitempty"`
	ContractName    string `json:"contract_name,omitempty"`
	ContractAddress string `json:"contract_address,omitempty"`
	TxHash          string `json:"tx_hash"`
	TxFrom          string `json:"tx_from"`
	TxTo            string `json:"tx_to,omitempty"`
	Index           uint64 `json:"index"`
	Signature       string `json:"signature,omitempty"`
	EventName       string `json:"event_name"`
	BlockHash       string `json:"block_hash,omitempty"`
	Topic0          string `json:"topic0"`
	Topic1          string `json:"topic1"`
	Topic2          string `json:"topic2"`
	Topic3          string `json:"topic3"`
	Data            string `json:"data"`
	TxIndex         uint64 `json:"tx_index"`
}

// Topics returns the populated topics in order. Collection stops at the first empty slot.
func (e EventLog) Topics() []string {
	all := [4]string{e.Topic0, e.Topic1, e.Topic2, e.Topic3}
	out := make([]string, 0, len(all))
	for _, topic := range all {
		topic = strings.TrimSpace(topic)
		if topic == "" || topic == "0x" {
			break
		}
		out = append(out, topic)
	}
	return out
}

// Stamp builds the audit stamp for the event.
func (e EventLog) Stamp() (Stamp, error) {
	ts, err := ParseBlockTime(e.BlockTime)
	if err != nil {
		return Stamp{}, err
	}
	return Stamp{
		BlockNumber: e.BlockNumber,
		Timestamp:   ts,
		TxHash:      e.TxHash,
		From:        strings.ToLower(e.TxFrom),
	}, nil
}

var blockTimeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02 15:04:05.000 UTC",
	"2006-01-02 15:04:05 UTC",
	"2006-01-02 15:04:05.000",
	"2006-01-02T15:04:05",
}

// ParseBlockTime accepts RFC 3339 and the analytics engine's "YYYY-MM-DD hh:mm:ss.fff UTC" form.
func ParseBlockTime(value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}, fmt.Errorf("block time is empty")
	}
	for _, layout := range blockTimeLayouts {
		if ts, err := time.Parse(layout, value); err == nil {
			return ts.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid block time: %q", value)
}
