// Package metrics exposes replay outcomes as Prometheus metrics.
package metrics

import (
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"gifIndexer/internal/replay"
)

// Event outcome labels.
const (
	OutcomeApplied          = "applied"
	OutcomeDecodeFailure    = "decode_failure"
	OutcomeMissingReference = "missing_reference"
	OutcomeUnhandled        = "unhandled"
	OutcomeUnknown          = "unknown"
)

// Recorder holds the replay metrics on a private registry.
type Recorder struct {
	registry  *prometheus.Registry
	events    *prometheus.CounterVec
	anomalies prometheus.Counter
	entities  *prometheus.GaugeVec
	duration  prometheus.Gauge
	lastRun   prometheus.Gauge
}

func NewRecorder() *Recorder {
	r := &Recorder{
		registry: prometheus.NewRegistry(),
		events: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "gif_replay_events_total",
			Help: "Events processed by replay, by outcome.",
		}, []string{"outcome"}),
		anomalies: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "gif_replay_anomalies_total",
			Help: "Transitions applied over unexpected prior state.",
		}),
		entities: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "gif_replay_entities",
			Help: "Entities in the last snapshot, by kind.",
		}, []string{"kind"}),
		duration: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "gif_replay_duration_seconds",
			Help: "Wall time of the last replay pass.",
		}),
		lastRun: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "gif_replay_last_run_timestamp_seconds",
			Help: "Unix time the last replay pass finished.",
		}),
	}
	r.registry.MustRegister(r.events, r.anomalies, r.entities, r.duration, r.lastRun)
	return r
}

// Registry returns the registry holding the replay metrics.
func (r *Recorder) Registry() *prometheus.Registry {
	return r.registry
}

// ObserveSnapshot records the stats and entity counts of a finished pass.
func (r *Recorder) ObserveSnapshot(snapshot *replay.Snapshot, elapsed time.Duration) {
	if r == nil || snapshot == nil {
		return
	}
	st := snapshot.Stats
	r.events.WithLabelValues(OutcomeApplied).Add(float64(st.Applied))
	r.events.WithLabelValues(OutcomeDecodeFailure).Add(float64(st.DecodeFailures))
	r.events.WithLabelValues(OutcomeMissingReference).Add(float64(st.MissingReferences))
	r.events.WithLabelValues(OutcomeUnhandled).Add(float64(st.Unhandled))
	r.events.WithLabelValues(OutcomeUnknown).Add(float64(st.Unknown))
	r.anomalies.Add(float64(st.Anomalies))

	for kind, n := range snapshot.Counts() {
		r.entities.WithLabelValues(kind).Set(float64(n))
	}
	r.duration.Set(elapsed.Seconds())
	r.lastRun.SetToCurrentTime()
}

// WriteTextfile writes the registry in the node exporter textfile format.
func (r *Recorder) WriteTextfile(path string) error {
	if err := prometheus.WriteToTextfile(path, r.registry); err != nil {
		return fmt.Errorf("write metrics textfile: %w", err)
	}
	return nil
}
