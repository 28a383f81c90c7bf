package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"gifIndexer/internal/config"
	"gifIndexer/internal/gif"
	"gifIndexer/internal/metrics"
	"gifIndexer/internal/model"
	"gifIndexer/internal/replay"
	"gifIndexer/internal/storage"
	"gifIndexer/internal/storage/postgres"
)

func newReplayCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "replay",
		Short: "Replay GIF event rows into entity snapshots",
		RunE:  runReplay,
	}
	cmd.Flags().String("in", "", "input event rows JSONL, empty means fetch from Dune")
	cmd.Flags().String("pg-dsn", "", "Postgres DSN for the snapshot tables")
	cmd.Flags().Bool("migrate", false, "create the snapshot tables before writing")
	cmd.Flags().String("out", "", "snapshot JSONL path")
	cmd.Flags().String("errors", "./data/decode_errors.jsonl", "decode errors JSONL")
	cmd.Flags().String("metrics-out", "", "Prometheus textfile path")
	cmd.Flags().Bool("strict-object-types", true, "abort on unknown object type codes instead of recording UNKNOWN")
	addDuneFlags(cmd)
	addCommonFlags(cmd)
	return cmd
}

func runReplay(cmd *cobra.Command, _ []string) error {
	cfgFile, _ := cmd.Flags().GetString("config")
	cfg, err := config.LoadReplay(cfgFile, cmd.Flags())
	if err != nil {
		return err
	}

	logger, err := newLogger(cfg.Log)
	if err != nil {
		return err
	}
	defer logger.Sync()

	if cfg.PGDSN == "" && cfg.Out == "" {
		return fmt.Errorf("pg-dsn or out is required")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	events, err := loadEvents(ctx, cfg, logger)
	if err != nil {
		return err
	}

	decoder, err := gif.NewDecoder()
	if err != nil {
		return err
	}

	errWriter, err := storage.NewJsonlWriter(cfg.Errors, false)
	if err != nil {
		return err
	}

	engine := replay.NewEngine(decoder, logger, replay.Options{
		StrictObjectTypes: cfg.StrictObjectTypes,
		OnDecodeError: func(log model.EventLog, err error) {
			if werr := errWriter.Write(model.NewDecodeError(log, err)); werr != nil {
				logger.Warn("write decode error failed", zap.Error(werr))
			}
		},
	})

	start := time.Now()
	snapshot, err := engine.Replay(events)
	if err != nil {
		_ = errWriter.Close()
		return err
	}
	elapsed := time.Since(start)
	if err := errWriter.Close(); err != nil {
		return fmt.Errorf("close decode errors: %w", err)
	}

	sinks, closeSinks, err := openSnapshotSinks(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer closeSinks()

	for _, sink := range sinks {
		if err := sink.WriteSnapshot(ctx, snapshot); err != nil {
			return fmt.Errorf("write snapshot: %w", err)
		}
	}

	if cfg.MetricsOut != "" {
		recorder := metrics.NewRecorder()
		recorder.ObserveSnapshot(snapshot, elapsed)
		if err := recorder.WriteTextfile(cfg.MetricsOut); err != nil {
			return err
		}
	}

	fields := []zap.Field{zap.String("run_id", snapshot.RunID), zap.Int("skipped", snapshot.Stats.Skipped())}
	for kind, n := range snapshot.Counts() {
		fields = append(fields, zap.Int(kind, n))
	}
	logger.Info("snapshot exported", fields...)
	return nil
}

func loadEvents(ctx context.Context, cfg config.ReplayConfig, logger *zap.Logger) ([]model.EventLog, error) {
	if cfg.In != "" {
		events, err := storage.ReadEvents(cfg.In)
		if err != nil {
			return nil, err
		}
		logger.Info("events loaded", zap.String("in", cfg.In), zap.Int("events", len(events)))
		return events, nil
	}
	return fetchEvents(ctx, cfg.Dune, cfg.MaxRetries, cfg.RetryBackoff, logger)
}

func openSnapshotSinks(ctx context.Context, cfg config.ReplayConfig, logger *zap.Logger) ([]storage.SnapshotSink, func(), error) {
	var sinks []storage.SnapshotSink
	closeFn := func() {}

	if cfg.PGDSN != "" {
		store, err := postgres.NewStore(ctx, cfg.PGDSN)
		if err != nil {
			return nil, nil, fmt.Errorf("connect postgres: %w", err)
		}
		if cfg.Migrate {
			if err := store.Migrate(ctx); err != nil {
				store.Close()
				return nil, nil, err
			}
			logger.Info("schema applied")
		}
		sinks = append(sinks, store)
		closeFn = store.Close
	}
	if cfg.Out != "" {
		sinks = append(sinks, storage.NewJsonlSnapshotWriter(cfg.Out))
	}
	return sinks, closeFn, nil
}
