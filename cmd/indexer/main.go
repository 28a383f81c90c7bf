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
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"

	"gifIndexer/internal/chain"
	"gifIndexer/internal/config"
	"gifIndexer/internal/gif"
	"gifIndexer/internal/indexer"
	"gifIndexer/internal/storage"
)

func main() {
	root := &cobra.Command{
		Use:          "indexer",
		Short:        "GIF protocol event indexer",
		SilenceUsage: true,
	}

	root.PersistentFlags().String("config", "", "config file path")

	collectCmd := &cobra.Command{
		Use:   "collect",
		Short: "Collect GIF event rows from an RPC node",
		RunE:  runCollect,
	}

	collectCmd.Flags().String("rpc", "", "RPC URL")
	collectCmd.Flags().Uint64("from", 0, "start block (inclusive)")
	collectCmd.Flags().Uint64("to", 0, "end block (inclusive), 0 means latest")
	collectCmd.Flags().StringSlice("address", nil, "GIF contract addresses (comma-separated)")
	collectCmd.Flags().StringSlice("topic0", nil, "topic0 hashes or event names (comma-separated), empty means every GIF event")
	collectCmd.Flags().Uint64("batch-size", 2000, "blocks per batch")
	collectCmd.Flags().String("out", "./data/events.jsonl", "output event rows JSONL path")
	collectCmd.Flags().String("checkpoint", "./data/checkpoint.json", "checkpoint file path")
	collectCmd.Flags().Bool("checkpoint-enabled", true, "enable checkpointing")
	addCommonFlags(collectCmd)

	root.AddCommand(collectCmd)
	root.AddCommand(newFetchCommand())
	root.AddCommand(newReplayCommand())

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

func addCommonFlags(cmd *cobra.Command) {
	cmd.Flags().Int("max-retries", 5, "maximum retry attempts")
	cmd.Flags().Duration("retry-backoff", 500*time.Millisecond, "initial retry backoff")
	cmd.Flags().String("log-level", "info", "log level (debug, info, warn, error)")
	cmd.Flags().String("log-file", "", "also write JSON logs to this file, rotated")
}

func addDuneFlags(cmd *cobra.Command) {
	cmd.Flags().String("dune-url", "https://api.dune.com/api", "Dune API base URL")
	cmd.Flags().String("dune-api-key", "", "Dune API key")
	cmd.Flags().String("dune-query-id", "", "Dune query returning GIF event rows")
	cmd.Flags().String("dune-latest-block-query-id", "", "Dune query returning the latest indexed block, passed to the event query as blocknumber")
	cmd.Flags().StringSlice("dune-params", nil, "query parameters (comma-separated key=value)")
	cmd.Flags().Bool("dune-latest", false, "read the latest stored result instead of executing the query")
	cmd.Flags().Duration("dune-poll-interval", time.Second, "execution status poll interval")
}

func runCollect(cmd *cobra.Command, _ []string) error {
	cfgFile, _ := cmd.Flags().GetString("config")
	cfg, err := config.LoadCollect(cfgFile, cmd.Flags())
	if err != nil {
		return err
	}

	logger, err := newLogger(cfg.Log)
	if err != nil {
		return err
	}
	defer logger.Sync()

	if cfg.RPCURL == "" {
		return fmt.Errorf("rpc url is required")
	}

	addresses, err := indexer.ParseAddresses(cfg.Addresses)
	if err != nil {
		return err
	}
	if len(addresses) == 0 {
		return fmt.Errorf("address list is required")
	}

	decoder, err := gif.NewDecoder()
	if err != nil {
		return err
	}
	topic0, err := indexer.ParseTopic0(cfg.Topic0, decoder)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	chainClient, err := chain.NewClient(ctx, cfg.RPCURL)
	if err != nil {
		return fmt.Errorf("connect rpc: %w", err)
	}
	defer chainClient.Close()

	sink := storage.NewJsonlStorage(cfg.Out)

	runner := indexer.NewRunner(indexer.RunConfig{
		FromBlock:         cfg.FromBlock,
		ToBlock:           cfg.ToBlock,
		Addresses:         addresses,
		Topic0:            topic0,
		BatchSize:         cfg.BatchSize,
		CheckpointPath:    cfg.Checkpoint,
		CheckpointEnabled: cfg.CheckpointEnabled,
		MaxRetries:        cfg.MaxRetries,
		RetryBackoff:      cfg.RetryBackoff,
	}, chainClient, decoder, sink, logger)

	logger.Info("collector start",
		zap.String("rpc", cfg.RPCURL),
		zap.Uint64("from", cfg.FromBlock),
		zap.Uint64("to", cfg.ToBlock),
		zap.Int("addresses", len(addresses)),
		zap.Int("topic0", len(topic0)),
		zap.Uint64("batch_size", cfg.BatchSize),
		zap.String("out", cfg.Out),
		zap.Bool("checkpoint_enabled", cfg.CheckpointEnabled),
		zap.String("checkpoint", cfg.Checkpoint),
	)

	return runner.Run(ctx)
}

func newLogger(cfg config.LogConfig) (*zap.Logger, error) {
	zcfg := zap.NewProductionConfig()
	zcfg.Level = zap.NewAtomicLevel()
	if err := zcfg.Level.UnmarshalText([]byte(cfg.Level)); err != nil {
		return nil, err
	}

	zcfg.EncoderConfig.TimeKey = "ts"
	zcfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	logger, err := zcfg.Build()
	if err != nil {
		return nil, err
	}
	if cfg.File == "" {
		return logger, nil
	}

	rotating := zapcore.AddSync(&lumberjack.Logger{
		Filename:   cfg.File,
		MaxSize:    100,
		MaxBackups: 5,
		Compress:   true,
	})
	fileCore := zapcore.NewCore(zapcore.NewJSONEncoder(zcfg.EncoderConfig), rotating, zcfg.Level)
	return logger.WithOptions(zap.WrapCore(func(core zapcore.Core) zapcore.Core {
		return zapcore.NewTee(core, fileCore)
	})), nil
}
