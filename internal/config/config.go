package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// LogConfig controls the process logger.
type LogConfig struct {
	Level string
	File  string
}

// DuneConfig holds settings for the analytics query API.
type DuneConfig struct {
	BaseURL            string
	APIKey             string
	QueryID            string
	LatestBlockQueryID string
	Params             map[string]string
	Latest             bool
	PollInterval       time.Duration
}

// CollectConfig holds configuration for the collect command.
type CollectConfig struct {
	RPCURL            string
	FromBlock         uint64
	ToBlock           uint64
	Addresses         []string
	Topic0            []string
	BatchSize         uint64
	Out               string
	Checkpoint        string
	CheckpointEnabled bool
	MaxRetries        int
	RetryBackoff      time.Duration
	Log               LogConfig
}

// FetchConfig holds configuration for the fetch command.
type FetchConfig struct {
	Dune         DuneConfig
	Out          string
	MaxRetries   int
	RetryBackoff time.Duration
	Log          LogConfig
}

// ReplayConfig holds configuration for the replay command.
type ReplayConfig struct {
	In                string
	Dune              DuneConfig
	PGDSN             string
	Migrate           bool
	Out               string
	Errors            string
	MetricsOut        string
	StrictObjectTypes bool
	MaxRetries        int
	RetryBackoff      time.Duration
	Log               LogConfig
}

// LoadCollect merges config file, environment variables, and flags into CollectConfig.
func LoadCollect(cfgFile string, flags *pflag.FlagSet) (CollectConfig, error) {
	v, err := newViper(cfgFile, flags, map[string]any{
		"batch-size":         uint64(2000),
		"out":                "./data/events.jsonl",
		"checkpoint":         "./data/checkpoint.json",
		"checkpoint-enabled": true,
	})
	if err != nil {
		return CollectConfig{}, err
	}

	return CollectConfig{
		RPCURL:            v.GetString("rpc"),
		FromBlock:         v.GetUint64("from"),
		ToBlock:           v.GetUint64("to"),
		Addresses:         getStringSlice(v, "address"),
		Topic0:            getStringSlice(v, "topic0"),
		BatchSize:         v.GetUint64("batch-size"),
		Out:               v.GetString("out"),
		Checkpoint:        v.GetString("checkpoint"),
		CheckpointEnabled: v.GetBool("checkpoint-enabled"),
		MaxRetries:        v.GetInt("max-retries"),
		RetryBackoff:      v.GetDuration("retry-backoff"),
		Log:               logConfig(v),
	}, nil
}

// LoadFetch merges config file, environment variables, and flags into FetchConfig.
func LoadFetch(cfgFile string, flags *pflag.FlagSet) (FetchConfig, error) {
	v, err := newViper(cfgFile, flags, map[string]any{
		"out": "./data/events.jsonl",
	})
	if err != nil {
		return FetchConfig{}, err
	}

	return FetchConfig{
		Dune:         duneConfig(v),
		Out:          v.GetString("out"),
		MaxRetries:   v.GetInt("max-retries"),
		RetryBackoff: v.GetDuration("retry-backoff"),
		Log:          logConfig(v),
	}, nil
}

// LoadReplay merges config file, environment variables, and flags into ReplayConfig.
func LoadReplay(cfgFile string, flags *pflag.FlagSet) (ReplayConfig, error) {
	v, err := newViper(cfgFile, flags, map[string]any{
		"errors":              "./data/decode_errors.jsonl",
		"strict-object-types": true,
	})
	if err != nil {
		return ReplayConfig{}, err
	}

	return ReplayConfig{
		In:                v.GetString("in"),
		Dune:              duneConfig(v),
		PGDSN:             v.GetString("pg-dsn"),
		Migrate:           v.GetBool("migrate"),
		Out:               v.GetString("out"),
		Errors:            v.GetString("errors"),
		MetricsOut:        v.GetString("metrics-out"),
		StrictObjectTypes: v.GetBool("strict-object-types"),
		MaxRetries:        v.GetInt("max-retries"),
		RetryBackoff:      v.GetDuration("retry-backoff"),
		Log:               logConfig(v),
	}, nil
}

// newViper layers flags over env over the config file over defaults.
func newViper(cfgFile string, flags *pflag.FlagSet, defaults map[string]any) (*viper.Viper, error) {
	v := viper.New()
	v.SetEnvPrefix("INDEXER")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	v.SetDefault("max-retries", 5)
	v.SetDefault("retry-backoff", 500*time.Millisecond)
	v.SetDefault("log-level", "info")
	v.SetDefault("dune-url", "https://api.dune.com/api")
	v.SetDefault("dune-poll-interval", time.Second)
	for key, value := range defaults {
		v.SetDefault(key, value)
	}

	if flags != nil {
		if err := v.BindPFlags(flags); err != nil {
			return nil, fmt.Errorf("bind flags: %w", err)
		}
	}

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config: %w", err)
		}
	} else {
		v.SetConfigName("config")
		v.AddConfigPath(".")
		if err := v.ReadInConfig(); err != nil {
			if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
				return nil, fmt.Errorf("read config: %w", err)
			}
		}
	}

	return v, nil
}

func logConfig(v *viper.Viper) LogConfig {
	return LogConfig{
		Level: v.GetString("log-level"),
		File:  v.GetString("log-file"),
	}
}

func duneConfig(v *viper.Viper) DuneConfig {
	return DuneConfig{
		BaseURL:            v.GetString("dune-url"),
		APIKey:             v.GetString("dune-api-key"),
		QueryID:            v.GetString("dune-query-id"),
		LatestBlockQueryID: v.GetString("dune-latest-block-query-id"),
		Params:             getStringMap(v, "dune-params"),
		Latest:             v.GetBool("dune-latest"),
		PollInterval:       v.GetDuration("dune-poll-interval"),
	}
}

func getStringSlice(v *viper.Viper, key string) []string {
	if !v.IsSet(key) {
		return nil
	}

	val := v.Get(key)
	switch typed := val.(type) {
	case []string:
		return cleanStrings(typed)
	case string:
		return splitAndClean(typed)
	case []interface{}:
		items := make([]string, 0, len(typed))
		for _, item := range typed {
			items = append(items, fmt.Sprintf("%v", item))
		}
		return cleanStrings(items)
	default:
		return nil
	}
}

func getStringMap(v *viper.Viper, key string) map[string]string {
	if !v.IsSet(key) {
		return map[string]string{}
	}

	switch typed := v.Get(key).(type) {
	case map[string]string:
		return typed
	case map[string]interface{}:
		out := make(map[string]string, len(typed))
		for k, val := range typed {
			out[k] = fmt.Sprintf("%v", val)
		}
		return out
	case string:
		return parseStringMap(typed)
	case []string:
		return parseStringMap(strings.Join(typed, ","))
	default:
		return map[string]string{}
	}
}

func parseStringMap(input string) map[string]string {
	out := make(map[string]string)
	if strings.TrimSpace(input) == "" {
		return out
	}
	for _, pair := range strings.Split(input, ",") {
		key, value, ok := strings.Cut(pair, "=")
		if !ok {
			continue
		}
		key = strings.TrimSpace(key)
		value = strings.TrimSpace(value)
		if key == "" || value == "" {
			continue
		}
		out[key] = value
	}
	return out
}

func splitAndClean(input string) []string {
	if input == "" {
		return nil
	}
	parts := strings.Split(input, ",")
	return cleanStrings(parts)
}

func cleanStrings(items []string) []string {
	out := make([]string, 0, len(items))
	for _, item := range items {
		item = strings.TrimSpace(item)
		if item == "" {
			continue
		}
		out = append(out, item)
	}
	return out
}
