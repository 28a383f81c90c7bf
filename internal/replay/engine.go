// Package replay rebuilds GIF entity state from an ordered sequence of event rows.
package replay

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"gifIndexer/internal/gif"
	"gifIndexer/internal/model"
)

// Decoder turns an event row into a typed event of the given interface.
type Decoder interface {
	Decode(iface gif.Interface, log model.EventLog) (gif.Event, error)
}

type route struct {
	iface  gif.Interface
	handle handler
}

// routes is the dispatch table keyed by declared event name.
var routes = map[string]route{
	gif.EventRegistryObjectRegistered: {gif.IRegistry, on(onNftRegistered)},
	gif.EventTransfer:                 {gif.IChainNft, on(onNftTransferred)},
	gif.EventInstanceCreated:          {gif.IInstanceService, on(onInstanceCreated)},
	gif.EventComponentRegistered:      {gif.IComponentService, on(onComponentRegistered)},

	gif.EventRiskCreated:  {gif.IRiskService, on(onRiskCreated)},
	gif.EventRiskLocked:   {gif.IRiskService, on(onRiskLocked)},
	gif.EventRiskUnlocked: {gif.IRiskService, on(onRiskUnlocked)},
	gif.EventRiskClosed:   {gif.IRiskService, on(onRiskClosed)},

	gif.EventApplicationCreated:      {gif.IApplicationService, on(onApplicationCreated)},
	gif.EventPolicyCreated:           {gif.IPolicyService, on(onPolicyCreated)},
	gif.EventPolicyPremiumCollected:  {gif.IPolicyService, on(onPremiumCollected)},
	gif.EventPolicyExpirationUpdated: {gif.IPolicyService, on(onExpirationUpdated)},
	gif.EventPolicyClosed:            {gif.IPolicyService, on(onPolicyClosed)},

	gif.EventClaimSubmitted:  {gif.IClaimService, on(onClaimSubmitted)},
	gif.EventClaimConfirmed:  {gif.IClaimService, on(onClaimConfirmed)},
	gif.EventClaimDeclined:   {gif.IClaimService, on(onClaimDeclined)},
	gif.EventClaimRevoked:    {gif.IClaimService, on(onClaimRevoked)},
	gif.EventClaimCanceled:   {gif.IClaimService, on(onClaimCanceled)},
	gif.EventPayoutCreated:   {gif.IClaimService, on(onPayoutCreated)},
	gif.EventPayoutProcessed: {gif.IClaimService, on(onPayoutProcessed)},
	gif.EventPayoutCancelled: {gif.IClaimService, on(onPayoutCancelled)},

	gif.EventOracleRequestCreated:    {gif.IOracleService, on(onOracleRequestCreated)},
	gif.EventOracleResponseProcessed: {gif.IOracleService, on(onOracleResponseProcessed)},
	gif.EventOracleDeliveryFailed:    {gif.IOracleService, on(onOracleDeliveryFailed)},
	gif.EventOracleResponseResent:    {gif.IOracleService, on(onOracleResponseResent)},
	gif.EventOracleRequestCancelled:  {gif.IOracleService, on(onOracleRequestCancelled)},

	gif.EventBundleCreated:            {gif.IBundleService, on(onBundleCreated)},
	gif.EventBundleClosed:             {gif.IBundleService, on(onBundleClosed)},
	gif.EventBundleLocked:             {gif.IBundleService, on(onBundleLocked)},
	gif.EventBundleUnlocked:           {gif.IBundleService, on(onBundleUnlocked)},
	gif.EventBundleExtended:           {gif.IBundleService, on(onBundleExtended)},
	gif.EventBundleCollateralLocked:   {gif.IBundleService, on(onCollateralLocked)},
	gif.EventBundleCollateralReleased: {gif.IBundleService, on(onCollateralReleased)},
	gif.EventBundleStaked:             {gif.IBundleService, on(onBundleStaked)},
	gif.EventBundleUnstaked:           {gif.IBundleService, on(onBundleUnstaked)},
}

// unhandledEvents are known events that intentionally change no entity.
var unhandledEvents = map[string]gif.Interface{
	gif.EventRiskUpdated: gif.IRiskService,
}

// HandledEvents returns the dispatch table as event name to contract interface.
func HandledEvents() map[string]gif.Interface {
	out := make(map[string]gif.Interface, len(routes))
	for name, r := range routes {
		out[name] = r.iface
	}
	return out
}

// Options tunes a replay pass.
type Options struct {
	// StrictObjectTypes aborts the pass on an unknown object type code
	// instead of mapping it to UNKNOWN.
	StrictObjectTypes bool
	// OnDecodeError receives every row skipped as undecodable.
	OnDecodeError func(log model.EventLog, err error)
}

// DefaultOptions returns strict options.
func DefaultOptions() Options {
	return Options{StrictObjectTypes: true}
}

// Engine replays event rows into entity snapshots. It holds no state between passes.
type Engine struct {
	decoder Decoder
	logger  *zap.Logger
	opts    Options
}

func NewEngine(decoder Decoder, logger *zap.Logger, opts Options) *Engine {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Engine{decoder: decoder, logger: logger, opts: opts}
}

// Replay applies events strictly in input order to fresh stores and returns
// the resulting snapshot. A fatal error discards all state and is returned
// as a *FatalError.
func (e *Engine) Replay(events []model.EventLog) (*Snapshot, error) {
	if e.decoder == nil {
		return nil, fmt.Errorf("decoder is nil")
	}
	runID := uuid.NewString()
	logger := e.logger.With(zap.String("run_id", runID))
	start := time.Now()

	state := NewState()
	stats := Stats{}
	logger.Info("replay started", zap.Int("events", len(events)), zap.Bool("strict_object_types", e.opts.StrictObjectTypes))

	for i, log := range events {
		stats.Processed++
		fields := []zap.Field{
			zap.Int("position", i),
			zap.String("event", log.EventName),
			zap.Uint64("block_number", log.BlockNumber),
			zap.String("tx_hash", log.TxHash),
		}

		r, ok := routes[log.EventName]
		if !ok {
			if _, known := unhandledEvents[log.EventName]; known {
				stats.Unhandled++
				logger.Debug("event not handled", fields...)
			} else {
				stats.Unknown++
				logger.Warn("unknown event name", fields...)
			}
			continue
		}

		stamp, err := log.Stamp()
		if err != nil {
			e.decodeFailure(logger, &stats, log, fmt.Errorf("%w: %v", ErrDecodeFailure, err), fields)
			continue
		}
		decoded, err := e.decoder.Decode(r.iface, log)
		if err != nil {
			e.decodeFailure(logger, &stats, log, fmt.Errorf("%w: %v", ErrDecodeFailure, err), fields)
			continue
		}
		if decoded.EventName() != log.EventName {
			err := fmt.Errorf("%w: dispatched %s, decoded %s", ErrEventNameMismatch, log.EventName, decoded.EventName())
			return nil, e.fatal(logger, i, log, err)
		}

		tr := &transition{
			state:  state,
			stamp:  stamp,
			logger: logger.With(fields...),
			stats:  &stats,
			strict: e.opts.StrictObjectTypes,
		}
		err = r.handle(tr, decoded)
		switch {
		case err == nil:
			stats.Applied++
			logger.Debug("event applied", fields...)
		case errors.Is(err, ErrMissingReference):
			stats.MissingReferences++
			logger.Error("event skipped", append(fields, zap.Error(err))...)
		case errors.Is(err, ErrDecodeFailure):
			e.decodeFailure(logger, &stats, log, err, fields)
		default:
			return nil, e.fatal(logger, i, log, err)
		}
	}

	snapshot := state.Snapshot()
	snapshot.RunID = runID
	snapshot.Stats = stats
	logger.Info("replay finished",
		zap.Int("processed", stats.Processed),
		zap.Int("applied", stats.Applied),
		zap.Int("decode_failures", stats.DecodeFailures),
		zap.Int("missing_references", stats.MissingReferences),
		zap.Int("unhandled", stats.Unhandled),
		zap.Int("unknown", stats.Unknown),
		zap.Int("anomalies", stats.Anomalies),
		zap.Duration("elapsed", time.Since(start)),
	)
	return snapshot, nil
}

func (e *Engine) decodeFailure(logger *zap.Logger, stats *Stats, log model.EventLog, err error, fields []zap.Field) {
	stats.DecodeFailures++
	logger.Error("failed to decode event", append(fields, zap.Error(err))...)
	if e.opts.OnDecodeError != nil {
		e.opts.OnDecodeError(log, err)
	}
}

func (e *Engine) fatal(logger *zap.Logger, position int, log model.EventLog, err error) error {
	logger.Error("replay aborted",
		zap.Int("position", position),
		zap.String("event", log.EventName),
		zap.String("tx_hash", log.TxHash),
		zap.Error(err),
	)
	return &FatalError{
		Position:    position,
		EventName:   log.EventName,
		BlockNumber: log.BlockNumber,
		TxHash:      log.TxHash,
		Err:         err,
	}
}
