package indexer

import (
	"strings"
	"time"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/core/types"

	"gifIndexer/internal/chain"
	"gifIndexer/internal/gif"
	"gifIndexer/internal/model"
)

// Namespace tags rows produced by the collector.
const Namespace = "gif"

const blockTimeLayout = "2006-01-02 15:04:05.000 UTC"

func buildEventLog(log types.Log, binding gif.Binding, timestamp uint64, tx chain.TxMeta) model.EventLog {
	blockTime := time.Unix(int64(timestamp), 0).UTC()
	topics := [4]string{}
	for i, topic := range log.Topics {
		if i >= len(topics) {
			break
		}
		topics[i] = topic.Hex()
	}

	return model.EventLog{
		BlockDate:       blockTime.Format(time.DateOnly),
		BlockTime:       blockTime.Format(blockTimeLayout),
		BlockNumber:     log.BlockNumber,
		Namespace:       Namespace,
		ContractName:    strings.TrimPrefix(string(binding.Interface), "I"),
		ContractAddress: strings.ToLower(log.Address.Hex()),
		TxHash:          log.TxHash.Hex(),
		TxFrom:          tx.From,
		TxTo:            tx.To,
		Index:           uint64(log.Index),
		EventName:       binding.EventName,
		BlockHash:       log.BlockHash.Hex(),
		Topic0:          topics[0],
		Topic1:          topics[1],
		Topic2:          topics[2],
		Topic3:          topics[3],
		Data:            hexutil.Encode(log.Data),
		TxIndex:         uint64(log.TxIndex),
	}
}
