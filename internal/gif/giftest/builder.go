// Package giftest builds ABI-encoded GIF event rows for tests.
package giftest

import (
	"fmt"
	"math/big"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"

	"gifIndexer/internal/gif"
	"gifIndexer/internal/model"
)

// BaseTime is the block time of block 1.
var BaseTime = time.Date(2024, 8, 1, 10, 0, 0, 0, time.UTC)

// DefaultSender is the tx_from of rows built without an explicit sender.
const DefaultSender = "0xa11ce00000000000000000000000000000000001"

// Builder produces event rows on consecutive blocks.
type Builder struct {
	t      testing.TB
	abis   map[gif.Interface]abi.ABI
	block  uint64
	sender string
}

func NewBuilder(t testing.TB) *Builder {
	t.Helper()
	abis, err := gif.ContractABIs()
	if err != nil {
		t.Fatalf("abi parse: %v", err)
	}
	return &Builder{t: t, abis: abis, sender: DefaultSender}
}

// From sets the tx_from of subsequent rows.
func (b *Builder) From(sender string) *Builder {
	b.sender = sender
	return b
}

// Block returns the block number of the last built row.
func (b *Builder) Block() uint64 {
	return b.block
}

// Log encodes one event of iface. Args are given in abi order; indexed
// arguments go to topics and the rest are packed into data.
func (b *Builder) Log(iface gif.Interface, name string, args ...any) model.EventLog {
	b.t.Helper()
	contractABI, ok := b.abis[iface]
	if !ok {
		b.t.Fatalf("unknown interface %s", iface)
	}
	event, ok := contractABI.Events[name]
	if !ok {
		b.t.Fatalf("unknown event %s on %s", name, iface)
	}
	if len(args) != len(event.Inputs) {
		b.t.Fatalf("%s: expected %d args, got %d", name, len(event.Inputs), len(args))
	}

	var indexed [][]any
	var plain []any
	for i, input := range event.Inputs {
		if input.Indexed {
			indexed = append(indexed, []any{args[i]})
			continue
		}
		plain = append(plain, args[i])
	}

	data, err := event.Inputs.NonIndexed().Pack(plain...)
	if err != nil {
		b.t.Fatalf("pack %s: %v", name, err)
	}

	topics := []common.Hash{event.ID}
	if len(indexed) > 0 {
		rules, err := abi.MakeTopics(indexed...)
		if err != nil {
			b.t.Fatalf("topics %s: %v", name, err)
		}
		for _, rule := range rules {
			topics = append(topics, rule[0])
		}
	}

	b.block++
	log := model.EventLog{
		BlockTime:   BaseTime.Add(time.Duration(b.block-1) * time.Second).Format("2006-01-02 15:04:05.000 UTC"),
		BlockNumber: b.block,
		TxHash:      fmt.Sprintf("0x%064x", b.block),
		TxFrom:      b.sender,
		Index:       0,
		EventName:   name,
		Data:        hexutil.Encode(data),
	}
	slots := []*string{&log.Topic0, &log.Topic1, &log.Topic2, &log.Topic3}
	for i, topic := range topics {
		*slots[i] = topic.Hex()
	}
	return log
}

// ID converts an nft id to its abi value.
func ID(id uint64) *big.Int {
	return new(big.Int).SetUint64(id)
}

// Amount converts an amount to its abi value.
func Amount(v int64) *big.Int {
	return big.NewInt(v)
}

// Addr parses a hex address.
func Addr(hex string) common.Address {
	return common.HexToAddress(hex)
}

// Bytes8 left-aligns s into a bytes8 value.
func Bytes8(s string) [8]byte {
	var out [8]byte
	copy(out[:], s)
	return out
}
