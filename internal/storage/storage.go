package storage

import (
	"context"

	"gifIndexer/internal/model"
	"gifIndexer/internal/replay"
)

// EventSink receives event rows produced by the collector or the fetcher.
type EventSink interface {
	PutEventBatch(events []model.EventLog) error
}

// SnapshotSink persists the result of a replay pass.
type SnapshotSink interface {
	WriteSnapshot(ctx context.Context, snapshot *replay.Snapshot) error
}
