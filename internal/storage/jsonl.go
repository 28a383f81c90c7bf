package storage

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"gifIndexer/internal/model"
	"gifIndexer/internal/replay"
)

const maxLineSize = 10 * 1024 * 1024

// JsonlStorage appends event rows to a JSONL file.
type JsonlStorage struct {
	path string
	mu   sync.Mutex
}

func NewJsonlStorage(path string) *JsonlStorage {
	return &JsonlStorage{path: path}
}

// PutEventBatch appends a batch of event rows as JSON lines.
func (s *JsonlStorage) PutEventBatch(events []model.EventLog) error {
	if len(events) == 0 {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	file, err := openAppend(s.path)
	if err != nil {
		return err
	}
	defer file.Close()

	writer := bufio.NewWriter(file)
	for _, event := range events {
		if err := writeLine(writer, event); err != nil {
			return fmt.Errorf("write event row: %w", err)
		}
	}

	if err := writer.Flush(); err != nil {
		return fmt.Errorf("flush output: %w", err)
	}

	return nil
}

// ReadEvents loads every event row of a JSONL file in file order. Blank lines are skipped.
func ReadEvents(path string) ([]model.EventLog, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open input: %w", err)
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)

	var events []model.EventLog
	line := 0
	for scanner.Scan() {
		line++
		text := strings.TrimSpace(scanner.Text())
		if text == "" {
			continue
		}
		var event model.EventLog
		if err := json.Unmarshal([]byte(text), &event); err != nil {
			return nil, fmt.Errorf("parse line %d: %w", line, err)
		}
		events = append(events, event)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scan input: %w", err)
	}
	return events, nil
}

// SnapshotRecord is one line of a JSONL snapshot export.
type SnapshotRecord struct {
	Kind   string `json:"kind"`
	Entity any    `json:"entity"`
}

// JsonlSnapshotWriter writes a snapshot as one JSON line per entity, kinds in
// model.Kinds order. The file is replaced on every write.
type JsonlSnapshotWriter struct {
	path string
}

func NewJsonlSnapshotWriter(path string) *JsonlSnapshotWriter {
	return &JsonlSnapshotWriter{path: path}
}

func (w *JsonlSnapshotWriter) WriteSnapshot(ctx context.Context, snapshot *replay.Snapshot) error {
	if snapshot == nil {
		return fmt.Errorf("snapshot is nil")
	}
	if err := ensureDir(w.path); err != nil {
		return err
	}

	tmpPath := w.path + ".tmp"
	file, err := os.Create(tmpPath)
	if err != nil {
		return fmt.Errorf("create snapshot file: %w", err)
	}

	writer := bufio.NewWriter(file)
	for _, record := range SnapshotRecords(snapshot) {
		if err := ctx.Err(); err != nil {
			file.Close()
			return err
		}
		if err := writeLine(writer, record); err != nil {
			file.Close()
			return fmt.Errorf("write %s: %w", record.Kind, err)
		}
	}
	if err := writer.Flush(); err != nil {
		file.Close()
		return fmt.Errorf("flush snapshot: %w", err)
	}
	if err := file.Close(); err != nil {
		return fmt.Errorf("close snapshot: %w", err)
	}
	if err := os.Rename(tmpPath, w.path); err != nil {
		return fmt.Errorf("rename snapshot: %w", err)
	}
	return nil
}

// SnapshotRecords flattens a snapshot into kind-tagged records.
func SnapshotRecords(snapshot *replay.Snapshot) []SnapshotRecord {
	var out []SnapshotRecord
	out = appendRecords(out, model.KindNft, snapshot.Nfts)
	out = appendRecords(out, model.KindInstance, snapshot.Instances)
	out = appendRecords(out, model.KindComponent, snapshot.Components)
	out = appendRecords(out, model.KindRisk, snapshot.Risks)
	out = appendRecords(out, model.KindPolicy, snapshot.Policies)
	out = appendRecords(out, model.KindClaim, snapshot.Claims)
	out = appendRecords(out, model.KindPayout, snapshot.Payouts)
	out = appendRecords(out, model.KindOracleRequest, snapshot.OracleRequests)
	out = appendRecords(out, model.KindBundle, snapshot.Bundles)
	return out
}

func appendRecords[T any](out []SnapshotRecord, kind string, entities []T) []SnapshotRecord {
	for _, entity := range entities {
		out = append(out, SnapshotRecord{Kind: kind, Entity: entity})
	}
	return out
}

// JsonlWriter appends arbitrary values as JSON lines, used for decode error reports.
type JsonlWriter struct {
	mu     sync.Mutex
	file   *os.File
	writer *bufio.Writer
}

// NewJsonlWriter opens path for writing, truncating it unless appendMode is set.
func NewJsonlWriter(path string, appendMode bool) (*JsonlWriter, error) {
	if err := ensureDir(path); err != nil {
		return nil, err
	}
	flags := os.O_CREATE | os.O_WRONLY
	if appendMode {
		flags |= os.O_APPEND
	} else {
		flags |= os.O_TRUNC
	}
	file, err := os.OpenFile(path, flags, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open file: %w", err)
	}
	return &JsonlWriter{file: file, writer: bufio.NewWriter(file)}, nil
}

func (w *JsonlWriter) Write(value any) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	return writeLine(w.writer, value)
}

func (w *JsonlWriter) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if err := w.writer.Flush(); err != nil {
		w.file.Close()
		return err
	}
	return w.file.Close()
}

func writeLine(writer *bufio.Writer, value any) error {
	line, err := json.Marshal(value)
	if err != nil {
		return err
	}
	if _, err := writer.Write(line); err != nil {
		return err
	}
	return writer.WriteByte('\n')
}

func openAppend(path string) (*os.File, error) {
	if err := ensureDir(path); err != nil {
		return nil, err
	}
	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open output file: %w", err)
	}
	return file, nil
}

func ensureDir(path string) error {
	dir := filepath.Dir(path)
	if dir == "." {
		return nil
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}
	return nil
}
