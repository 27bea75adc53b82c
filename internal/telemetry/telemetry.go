// Package telemetry fans completed gate activity out to the journal,
// the MQTT bus, and the time-series store.
//
// The gate controller and environment monitor run on the real-time lane
// and must never wait on a database or a broker. Recorder therefore
// accepts activity through a bounded queue and performs all writes on a
// single background goroutine; a full queue drops the oldest concern of
// losing telemetry in favour of keeping the barrier responsive.
package telemetry

import (
	"context"
	"encoding/json"
	"time"

	"github.com/nerrad567/parklot-core/internal/infrastructure/mqtt"
	"github.com/nerrad567/parklot-core/internal/journal"
	"github.com/nerrad567/parklot-core/internal/parking"
	"github.com/nerrad567/parklot-core/internal/state"
)

// defaultQueueSize bounds the pending write queue.
const defaultQueueSize = 64

// writeTimeout bounds each journal write so one slow disk sync cannot
// stall the drain goroutine indefinitely.
const writeTimeout = 5 * time.Second

// Publisher is the MQTT surface the recorder needs.
// Satisfied by *mqtt.Client.
type Publisher interface {
	Publish(topic string, payload []byte, qos byte, retained bool) error
	PublishRetained(topic string, payload []byte) error
}

// MetricsWriter is the time-series surface the recorder needs.
// Satisfied by *influxdb.Client.
type MetricsWriter interface {
	WriteOccupancy(siteID string, available, occupied, total int)
	WriteGateEvent(siteID string, kind string)
	WriteEnvironment(siteID string, temperatureC, humidityPct float64)
}

// Logger defines the logging interface used by the recorder.
type Logger interface {
	Debug(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

// noopLogger is a logger that does nothing.
type noopLogger struct{}

func (noopLogger) Debug(string, ...any) {}
func (noopLogger) Warn(string, ...any)  {}
func (noopLogger) Error(string, ...any) {}

// Recorder queues gate activity and writes it out asynchronously.
//
// All sinks are optional; a nil sink is skipped. Create with New, start
// the drain loop with Run, and stop it by cancelling the context.
type Recorder struct {
	siteID  string
	store   *state.Store
	journal journal.Repository
	bus     Publisher
	metrics MetricsWriter
	logger  Logger

	queue chan func(ctx context.Context)
}

// Options holds the sinks and identity for a Recorder.
type Options struct {
	SiteID  string
	Store   *state.Store
	Journal journal.Repository // nil disables the journal sink
	Bus     Publisher          // nil disables the MQTT sink
	Metrics MetricsWriter      // nil disables the time-series sink
	Logger  Logger

	// QueueSize overrides the default pending-write queue bound.
	QueueSize int
}

// New creates a Recorder. Call Run to start draining the queue.
func New(opts Options) *Recorder {
	size := opts.QueueSize
	if size <= 0 {
		size = defaultQueueSize
	}
	logger := opts.Logger
	if logger == nil {
		logger = noopLogger{}
	}
	return &Recorder{
		siteID:  opts.SiteID,
		store:   opts.Store,
		journal: opts.Journal,
		bus:     opts.Bus,
		metrics: opts.Metrics,
		logger:  logger,
		queue:   make(chan func(ctx context.Context), size),
	}
}

// Run drains the write queue until the context is cancelled.
// Intended to be run as a goroutine from main.
func (r *Recorder) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case job := <-r.queue:
			job(ctx)
		}
	}
}

// enqueue hands a write job to the drain goroutine without blocking.
func (r *Recorder) enqueue(job func(ctx context.Context)) {
	select {
	case r.queue <- job:
	default:
		r.logger.Warn("telemetry queue full, activity dropped")
	}
}

// RecordGateCycle reports one completed open/hold/close actuation.
func (r *Recorder) RecordGateCycle(kind parking.EventKind, available, total int) {
	kindName := kind.String()
	r.enqueue(func(ctx context.Context) {
		r.writeJournal(ctx, kindName, available, total)
		r.publishCapacity(available, total)
		r.publishEvent(kindName)
		if r.metrics != nil {
			r.metrics.WriteOccupancy(r.siteID, available, total-available, total)
			r.metrics.WriteGateEvent(r.siteID, kindName)
		}
	})
}

// RecordEntryDenied reports an entry denied for lack of capacity.
func (r *Recorder) RecordEntryDenied(available, total int) {
	r.enqueue(func(ctx context.Context) {
		r.writeJournal(ctx, journal.KindEntryDenied, available, total)
		r.publishEvent(journal.KindEntryDenied)
		if r.metrics != nil {
			r.metrics.WriteGateEvent(r.siteID, journal.KindEntryDenied)
		}
	})
}

// RecordEnvironment reports a validated environment sample.
func (r *Recorder) RecordEnvironment(temperature, humidity float64) {
	r.enqueue(func(_ context.Context) {
		r.publishEnvironment(temperature, humidity)
		if r.metrics != nil {
			r.metrics.WriteEnvironment(r.siteID, temperature, humidity)
		}
	})
}

// writeJournal inserts one journal row with a bounded timeout.
func (r *Recorder) writeJournal(ctx context.Context, kind string, available, total int) {
	if r.journal == nil {
		return
	}

	writeCtx, cancel := context.WithTimeout(ctx, writeTimeout)
	defer cancel()

	entry := &journal.Entry{Kind: kind, Available: available, Total: total}
	if err := r.journal.Create(writeCtx, entry); err != nil {
		r.logger.Error("journal write failed", "kind", kind, "error", err)
	}
}

// publishCapacity publishes the retained capacity document.
func (r *Recorder) publishCapacity(available, total int) {
	if r.bus == nil {
		return
	}

	payload, err := json.Marshal(map[string]any{
		"site":      r.siteID,
		"available": available,
		"occupied":  total - available,
		"total":     total,
	})
	if err != nil {
		return
	}
	if err := r.bus.PublishRetained(mqtt.Topics{}.Capacity(), payload); err != nil {
		r.logger.Warn("capacity publish failed", "error", err)
	}
}

// publishEvent publishes one discrete gate event (not retained).
func (r *Recorder) publishEvent(kind string) {
	if r.bus == nil {
		return
	}

	payload, err := json.Marshal(map[string]any{
		"site": r.siteID,
		"kind": kind,
		"at":   time.Now().UTC().Format(time.RFC3339),
	})
	if err != nil {
		return
	}
	if err := r.bus.Publish(mqtt.Topics{}.Event(kind), payload, 0, false); err != nil {
		r.logger.Warn("event publish failed", "kind", kind, "error", err)
	}
}

// publishEnvironment publishes the retained environment document.
func (r *Recorder) publishEnvironment(temperature, humidity float64) {
	if r.bus == nil {
		return
	}

	payload, err := json.Marshal(map[string]any{
		"site":          r.siteID,
		"temperature_c": temperature,
		"humidity_pct":  humidity,
	})
	if err != nil {
		return
	}
	if err := r.bus.PublishRetained(mqtt.Topics{}.Environment(), payload); err != nil {
		r.logger.Warn("environment publish failed", "error", err)
	}
}

// PublishGate publishes the retained gate status document.
// Called by the display/presentation side when gate status changes.
func (r *Recorder) PublishGate(status state.GateStatus) {
	r.enqueue(func(_ context.Context) {
		if r.bus == nil {
			return
		}

		payload, err := json.Marshal(map[string]any{
			"site": r.siteID,
			"gate": status.String(),
		})
		if err != nil {
			return
		}
		if err := r.bus.PublishRetained(mqtt.Topics{}.Gate(), payload); err != nil {
			r.logger.Warn("gate publish failed", "error", err)
		}
	})
}

var _ parking.Recorder = (*Recorder)(nil)
