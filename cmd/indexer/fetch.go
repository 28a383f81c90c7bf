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
	"gifIndexer/internal/dune"
	"gifIndexer/internal/model"
	"gifIndexer/internal/storage"
)

func newFetchCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "fetch",
		Short: "Fetch GIF event rows from a Dune query",
		RunE:  runFetch,
	}
	cmd.Flags().String("out", "./data/events.jsonl", "output event rows JSONL path")
	addDuneFlags(cmd)
	addCommonFlags(cmd)
	return cmd
}

func runFetch(cmd *cobra.Command, _ []string) error {
	cfgFile, _ := cmd.Flags().GetString("config")
	cfg, err := config.LoadFetch(cfgFile, cmd.Flags())
	if err != nil {
		return err
	}

	logger, err := newLogger(cfg.Log)
	if err != nil {
		return err
	}
	defer logger.Sync()

	if cfg.Out == "" {
		return fmt.Errorf("out path is required")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	events, err := fetchEvents(ctx, cfg.Dune, cfg.MaxRetries, cfg.RetryBackoff, logger)
	if err != nil {
		return err
	}

	if err := os.Remove(cfg.Out); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("reset output: %w", err)
	}
	if err := storage.NewJsonlStorage(cfg.Out).PutEventBatch(events); err != nil {
		return fmt.Errorf("write events: %w", err)
	}

	logger.Info("fetch complete", zap.Int("events", len(events)), zap.String("out", cfg.Out))
	return nil
}

func fetchEvents(ctx context.Context, cfg config.DuneConfig, maxRetries int, backoff time.Duration, logger *zap.Logger) ([]model.EventLog, error) {
	if cfg.QueryID == "" {
		return nil, fmt.Errorf("dune query id is required")
	}
	client, err := dune.NewClient(dune.Config{
		BaseURL:      cfg.BaseURL,
		APIKey:       cfg.APIKey,
		PollInterval: cfg.PollInterval,
		MaxRetries:   maxRetries,
		RetryBackoff: backoff,
	}, nil, logger)
	if err != nil {
		return nil, err
	}

	if cfg.Latest {
		return client.LatestResult(ctx, cfg.QueryID)
	}
	params := make(map[string]any, len(cfg.Params))
	for k, v := range cfg.Params {
		params[k] = v
	}
	if cfg.LatestBlockQueryID != "" {
		events, _, err := client.ExecuteAtLatestBlock(ctx, cfg.QueryID, cfg.LatestBlockQueryID, params)
		return events, err
	}
	return client.Execute(ctx, cfg.QueryID, params)
}
