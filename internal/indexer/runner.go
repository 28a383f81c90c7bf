package indexer

import (
	"context"
	"fmt"
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"go.uber.org/zap"

	"gifIndexer/internal/chain"
	"gifIndexer/internal/gif"
	"gifIndexer/internal/model"
	"gifIndexer/internal/retry"
	"gifIndexer/internal/storage"
)

// ChainReader is the subset of the RPC client the runner needs.
type ChainReader interface {
	GetChainID(ctx context.Context) (*big.Int, error)
	LatestBlockNumber(ctx context.Context) (uint64, error)
	BlockTimestamp(ctx context.Context, number uint64) (uint64, error)
	Transaction(ctx context.Context, log types.Log) (chain.TxMeta, error)
	FilterLogs(ctx context.Context, fromBlock, toBlock uint64, addresses []common.Address, topic0 []common.Hash) ([]types.Log, error)
}

// Resolver maps a topic0 to the GIF event that emits it.
type Resolver interface {
	Lookup(topic0 string) (gif.Binding, bool)
}

// RunConfig holds runtime settings for the collector.
type RunConfig struct {
	FromBlock         uint64
	ToBlock           uint64
	Addresses         []common.Address
	Topic0            []common.Hash
	BatchSize         uint64
	CheckpointPath    string
	CheckpointEnabled bool
	MaxRetries        int
	RetryBackoff      time.Duration
}

// Runner streams GIF logs from the chain and writes them to storage as event rows.
type Runner struct {
	cfg        RunConfig
	chain      ChainReader
	resolver   Resolver
	storage    storage.EventSink
	logger     *zap.Logger
	seen       map[string]struct{}
	checkpoint *CheckpointStore
	chainID    uint64
}

// NewRunner builds a Runner with its dependencies.
func NewRunner(cfg RunConfig, chainClient ChainReader, resolver Resolver, sink storage.EventSink, logger *zap.Logger) *Runner {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Runner{
		cfg:        cfg,
		chain:      chainClient,
		resolver:   resolver,
		storage:    sink,
		logger:     logger,
		seen:       make(map[string]struct{}),
		checkpoint: NewCheckpointStore(cfg.CheckpointPath, cfg.CheckpointEnabled),
	}
}

// Run executes the collection loop.
func (r *Runner) Run(ctx context.Context) error {
	if r.chain == nil {
		return fmt.Errorf("chain client is nil")
	}
	if r.resolver == nil {
		return fmt.Errorf("event resolver is nil")
	}
	if r.storage == nil {
		return fmt.Errorf("storage is nil")
	}
	if r.cfg.BatchSize == 0 {
		return fmt.Errorf("batch size must be greater than zero")
	}
	if len(r.cfg.Addresses) == 0 {
		return fmt.Errorf("at least one address is required")
	}

	chainID, err := r.chain.GetChainID(ctx)
	if err != nil {
		return fmt.Errorf("get chain id: %w", err)
	}
	if !chainID.IsUint64() {
		return fmt.Errorf("chain id does not fit in uint64: %s", chainID)
	}
	r.chainID = chainID.Uint64()
	r.logger.Info("connected", zap.Uint64("chain_id", r.chainID))

	from := r.cfg.FromBlock
	to := r.cfg.ToBlock
	if to == 0 {
		latest, err := r.chain.LatestBlockNumber(ctx)
		if err != nil {
			return fmt.Errorf("get latest block: %w", err)
		}
		to = latest
	}

	cp, ok, err := r.checkpoint.Load()
	if err != nil {
		return err
	}
	if ok && cp.LastProcessedBlock >= from {
		from = cp.LastProcessedBlock + 1
		r.logger.Info("resume from checkpoint", zap.Uint64("last_processed", cp.LastProcessedBlock), zap.Uint64("from", from))
	}

	if from > to {
		r.logger.Info("nothing to sync", zap.Uint64("from", from), zap.Uint64("to", to))
		return nil
	}

	ranges, err := SplitRange(from, to, r.cfg.BatchSize)
	if err != nil {
		return err
	}

	for _, blockRange := range ranges {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		r.logger.Info("fetch logs", zap.Stringer("range", blockRange), zap.Uint64("blocks", blockRange.Len()))

		logs, err := r.filterLogsWithRetry(ctx, blockRange.From, blockRange.To)
		if err != nil {
			return fmt.Errorf("filter logs: %w", err)
		}

		records := make([]model.EventLog, 0, len(logs))
		var unresolved int
		for _, log := range logs {
			if log.Removed || r.isDuplicate(log) {
				continue
			}
			if len(log.Topics) == 0 {
				unresolved++
				continue
			}
			binding, ok := r.resolver.Lookup(log.Topics[0].Hex())
			if !ok {
				unresolved++
				r.logger.Debug("unknown topic0", zap.String("topic0", log.Topics[0].Hex()), zap.String("tx_hash", log.TxHash.Hex()))
				continue
			}

			ts, err := r.blockTimestampWithRetry(ctx, log.BlockNumber)
			if err != nil {
				return fmt.Errorf("block timestamp %d: %w", log.BlockNumber, err)
			}
			tx, err := r.transactionWithRetry(ctx, log)
			if err != nil {
				return fmt.Errorf("transaction %s: %w", log.TxHash.Hex(), err)
			}
			records = append(records, buildEventLog(log, binding, ts, tx))
		}

		if err := r.storage.PutEventBatch(records); err != nil {
			return fmt.Errorf("store events: %w", err)
		}

		if err := r.checkpoint.Save(blockRange.To, len(records)); err != nil {
			return err
		}

		r.logger.Info("batch complete",
			zap.Int("events", len(records)),
			zap.Int("unresolved", unresolved),
			zap.Uint64("from", blockRange.From),
			zap.Uint64("to", blockRange.To),
		)
	}

	return nil
}

// ChainID returns the chain id seen by the last Run.
func (r *Runner) ChainID() uint64 {
	return r.chainID
}

func (r *Runner) filterLogsWithRetry(ctx context.Context, fromBlock, toBlock uint64) ([]types.Log, error) {
	var logs []types.Log
	err := retry.Do(ctx, r.cfg.MaxRetries, r.cfg.RetryBackoff, func(ctx context.Context) error {
		var err error
		logs, err = r.chain.FilterLogs(ctx, fromBlock, toBlock, r.cfg.Addresses, r.cfg.Topic0)
		if err != nil {
			r.logger.Warn("filter logs failed", zap.Error(err), zap.Uint64("from", fromBlock), zap.Uint64("to", toBlock))
		}
		return err
	})
	return logs, err
}

func (r *Runner) blockTimestampWithRetry(ctx context.Context, blockNumber uint64) (uint64, error) {
	var ts uint64
	err := retry.Do(ctx, r.cfg.MaxRetries, r.cfg.RetryBackoff, func(ctx context.Context) error {
		var err error
		ts, err = r.chain.BlockTimestamp(ctx, blockNumber)
		if err != nil {
			r.logger.Warn("block timestamp fetch failed", zap.Error(err), zap.Uint64("block_number", blockNumber))
		}
		return err
	})
	return ts, err
}

func (r *Runner) transactionWithRetry(ctx context.Context, log types.Log) (chain.TxMeta, error) {
	var meta chain.TxMeta
	err := retry.Do(ctx, r.cfg.MaxRetries, r.cfg.RetryBackoff, func(ctx context.Context) error {
		var err error
		meta, err = r.chain.Transaction(ctx, log)
		if err != nil {
			r.logger.Warn("transaction fetch failed", zap.Error(err), zap.String("tx_hash", log.TxHash.Hex()))
		}
		return err
	})
	return meta, err
}

func (r *Runner) isDuplicate(log types.Log) bool {
	id := fmt.Sprintf("%d:%s:%d", log.BlockNumber, log.TxHash.Hex(), log.Index)
	if _, ok := r.seen[id]; ok {
		return true
	}
	r.seen[id] = struct{}{}
	return false
}
