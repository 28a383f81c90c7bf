// Package dune runs saved analytics queries on the Dune API and returns their rows.
package dune

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"go.uber.org/zap"

	"gifIndexer/internal/model"
	"gifIndexer/internal/retry"
)

const (
	DefaultBaseURL      = "https://api.dune.com/api"
	DefaultPollInterval = time.Second
	PageSize            = 1000

	apiKeyHeader = "x-dune-api-key"

	StatePending   = "QUERY_STATE_PENDING"
	StateExecuting = "QUERY_STATE_EXECUTING"
	StateCompleted = "QUERY_STATE_COMPLETED"
)

// Config holds Dune client settings. Zero values fall back to defaults.
type Config struct {
	BaseURL      string
	APIKey       string
	PollInterval time.Duration
	MaxRetries   int
	RetryBackoff time.Duration
}

// Client talks to the Dune query API.
type Client struct {
	cfg    Config
	http   *http.Client
	logger *zap.Logger
}

func NewClient(cfg Config, httpClient *http.Client, logger *zap.Logger) (*Client, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("dune api key is required")
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.PollInterval <= 0 {
		cfg.PollInterval = DefaultPollInterval
	}
	if httpClient == nil {
		httpClient = &http.Client{Timeout: time.Minute}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{cfg: cfg, http: httpClient, logger: logger}, nil
}

type executeRequest struct {
	Performance     string         `json:"performance"`
	QueryParameters map[string]any `json:"query_parameters"`
}

type executeResponse struct {
	ExecutionID string `json:"execution_id"`
	State       string `json:"state"`
}

type resultMetadata struct {
	RowCount      int `json:"row_count"`
	TotalRowCount int `json:"total_row_count"`
}

type statusResponse struct {
	ExecutionID    string          `json:"execution_id"`
	State          string          `json:"state"`
	ResultMetadata *resultMetadata `json:"result_metadata"`
}

type resultsResponse struct {
	ExecutionID string `json:"execution_id"`
	State       string `json:"state"`
	Result      struct {
		Rows     []json.RawMessage `json:"rows"`
		Metadata resultMetadata    `json:"metadata"`
	} `json:"result"`
}

// Execute triggers a fresh execution of queryID, waits for it to finish and
// returns every row decoded as an event row.
func (c *Client) Execute(ctx context.Context, queryID string, params map[string]any) ([]model.EventLog, error) {
	rows, err := c.ExecuteRows(ctx, queryID, params)
	if err != nil {
		return nil, err
	}
	return decodeEvents(rows)
}

// ExecuteRows is Execute without row decoding.
func (c *Client) ExecuteRows(ctx context.Context, queryID string, params map[string]any) ([]json.RawMessage, error) {
	if params == nil {
		params = map[string]any{}
	}
	logger := c.logger.With(zap.String("query_id", queryID))
	logger.Info("execute query")

	var exec executeResponse
	body := executeRequest{Performance: "medium", QueryParameters: params}
	if err := c.call(ctx, http.MethodPost, "/v1/query/"+url.PathEscape(queryID)+"/execute", nil, body, &exec); err != nil {
		return nil, fmt.Errorf("execute query %s: %w", queryID, err)
	}
	if exec.ExecutionID == "" {
		return nil, fmt.Errorf("execute query %s: empty execution id", queryID)
	}
	logger = logger.With(zap.String("execution_id", exec.ExecutionID))

	total, err := c.wait(ctx, logger, exec.ExecutionID)
	if err != nil {
		return nil, err
	}
	logger.Info("execution finished", zap.Int("total_row_count", total))

	rows := make([]json.RawMessage, 0, total)
	for offset := 0; offset < total; offset += PageSize {
		var page resultsResponse
		path := "/v1/execution/" + url.PathEscape(exec.ExecutionID) + "/results"
		if err := c.call(ctx, http.MethodGet, path, pageQuery(offset), nil, &page); err != nil {
			return nil, fmt.Errorf("fetch results offset %d: %w", offset, err)
		}
		logger.Debug("fetched page", zap.Int("offset", offset), zap.Int("rows", len(page.Result.Rows)))
		rows = append(rows, page.Result.Rows...)
	}

	logger.Info("fetched rows", zap.Int("rows", len(rows)))
	return rows, nil
}

func (c *Client) wait(ctx context.Context, logger *zap.Logger, executionID string) (int, error) {
	path := "/v1/execution/" + url.PathEscape(executionID) + "/status"
	for {
		var status statusResponse
		if err := c.call(ctx, http.MethodGet, path, nil, nil, &status); err != nil {
			return 0, fmt.Errorf("execution status %s: %w", executionID, err)
		}
		total := 0
		if status.ResultMetadata != nil {
			total = status.ResultMetadata.TotalRowCount
		}
		logger.Debug("execution status", zap.String("state", status.State), zap.Int("total_row_count", total))

		switch status.State {
		case StatePending, StateExecuting:
		case StateCompleted:
			return total, nil
		default:
			return 0, fmt.Errorf("execution %s ended in state %s", executionID, status.State)
		}

		timer := time.NewTimer(c.cfg.PollInterval)
		select {
		case <-ctx.Done():
			timer.Stop()
			return 0, ctx.Err()
		case <-timer.C:
		}
	}
}

// LatestResult pages the most recent stored result of queryID without
// triggering a new execution.
func (c *Client) LatestResult(ctx context.Context, queryID string) ([]model.EventLog, error) {
	path := "/v1/query/" + url.PathEscape(queryID) + "/results"
	logger := c.logger.With(zap.String("query_id", queryID))

	var rows []json.RawMessage
	total := 0
	for offset := 0; ; offset += PageSize {
		var page resultsResponse
		if err := c.call(ctx, http.MethodGet, path, pageQuery(offset), nil, &page); err != nil {
			return nil, fmt.Errorf("latest result %s offset %d: %w", queryID, offset, err)
		}
		if total == 0 {
			total = page.Result.Metadata.TotalRowCount
		}
		count := page.Result.Metadata.RowCount
		if count == 0 {
			break
		}
		if count != len(page.Result.Rows) {
			return nil, fmt.Errorf("row count mismatch expected: %d effective: %d", count, len(page.Result.Rows))
		}
		rows = append(rows, page.Result.Rows...)
		logger.Debug("fetched page", zap.Int("offset", offset), zap.Int("rows", count))
		if total <= 0 || offset+PageSize >= total {
			break
		}
	}

	logger.Info("fetched rows", zap.Int("rows", len(rows)))
	return decodeEvents(rows)
}

// LatestBlock executes queryID and reads the block number from the first
// column of its first row.
func (c *Client) LatestBlock(ctx context.Context, queryID string) (uint64, error) {
	rows, err := c.ExecuteRows(ctx, queryID, nil)
	if err != nil {
		return 0, err
	}
	if len(rows) == 0 {
		return 0, fmt.Errorf("latest block query %s returned no rows", queryID)
	}
	var row map[string]json.Number
	dec := json.NewDecoder(bytes.NewReader(rows[0]))
	dec.UseNumber()
	if err := dec.Decode(&row); err != nil {
		return 0, fmt.Errorf("parse latest block row: %w", err)
	}
	value, ok := row["_col0"]
	if !ok {
		return 0, fmt.Errorf("latest block row has no _col0")
	}
	block, err := strconv.ParseUint(value.String(), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("parse latest block %q: %w", value, err)
	}
	return block, nil
}

// BlockNumberParam is the query parameter that bounds an event query to a block.
const BlockNumberParam = "blocknumber"

// ExecuteAtLatestBlock reads the latest indexed block from blockQueryID and
// executes queryID with it as the blocknumber parameter, unless params
// already carries one.
func (c *Client) ExecuteAtLatestBlock(ctx context.Context, queryID, blockQueryID string, params map[string]any) ([]model.EventLog, uint64, error) {
	block, err := c.LatestBlock(ctx, blockQueryID)
	if err != nil {
		return nil, 0, err
	}
	c.logger.Info("latest block", zap.String("query_id", blockQueryID), zap.Uint64("block_number", block))

	merged := make(map[string]any, len(params)+1)
	for k, v := range params {
		merged[k] = v
	}
	if _, ok := merged[BlockNumberParam]; !ok {
		merged[BlockNumberParam] = block
	}
	events, err := c.Execute(ctx, queryID, merged)
	if err != nil {
		return nil, 0, err
	}
	return events, block, nil
}

// call performs one API request with retry. Client errors other than 429 are not retried.
func (c *Client) call(ctx context.Context, method, path string, query url.Values, body any, out any) error {
	endpoint := c.cfg.BaseURL + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	var payload []byte
	if body != nil {
		var err error
		payload, err = json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
	}

	return retry.Do(ctx, c.cfg.MaxRetries, c.cfg.RetryBackoff, func(ctx context.Context) error {
		var reader io.Reader
		if payload != nil {
			reader = bytes.NewReader(payload)
		}
		req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
		if err != nil {
			return retry.Permanent(fmt.Errorf("build request: %w", err))
		}
		req.Header.Set(apiKeyHeader, c.cfg.APIKey)
		if payload != nil {
			req.Header.Set("Content-Type", "application/json")
		}

		resp, err := c.http.Do(req)
		if err != nil {
			c.logger.Warn("dune request failed", zap.String("path", path), zap.Error(err))
			return err
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			msg, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
			err := fmt.Errorf("%s %s returned %s: %s", method, path, resp.Status, bytes.TrimSpace(msg))
			c.logger.Warn("dune request failed", zap.String("path", path), zap.Int("status", resp.StatusCode))
			if resp.StatusCode < 500 && resp.StatusCode != http.StatusTooManyRequests {
				return retry.Permanent(err)
			}
			return err
		}

		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return retry.Permanent(fmt.Errorf("decode response: %w", err))
		}
		return nil
	})
}

func pageQuery(offset int) url.Values {
	return url.Values{
		"limit":  {strconv.Itoa(PageSize)},
		"offset": {strconv.Itoa(offset)},
	}
}

func decodeEvents(rows []json.RawMessage) ([]model.EventLog, error) {
	events := make([]model.EventLog, 0, len(rows))
	for i, row := range rows {
		var event model.EventLog
		if err := json.Unmarshal(row, &event); err != nil {
			return nil, fmt.Errorf("decode row %d: %w", i, err)
		}
		events = append(events, event)
	}
	return events, nil
}
