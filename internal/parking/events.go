package parking

// EventKind tags a debounced presence detection.
type EventKind int

const (
	EventEntry EventKind = iota
	EventExit
)

// String returns the journal/telemetry name for the event kind.
func (k EventKind) String() string {
	if k == EventExit {
		return "exit"
	}
	return "entry"
}

// Event is a single debounced sensor detection. It carries no payload
// beyond its tag; it exists only while in flight on a channel.
type Event struct {
	Kind EventKind
}

// Logger defines the logging interface used by the parking workers.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

// noopLogger is a logger that does nothing.
type noopLogger struct{}

func (noopLogger) Debug(string, ...any) {}
func (noopLogger) Info(string, ...any)  {}
func (noopLogger) Warn(string, ...any)  {}
func (noopLogger) Error(string, ...any) {}

// Recorder receives completed gate activity for off-path telemetry
// (journal, MQTT, time-series). Implementations must not block; the gate
// controller calls these on the real-time lane.
type Recorder interface {
	// RecordGateCycle reports one completed open/hold/close actuation.
	RecordGateCycle(kind EventKind, available, total int)

	// RecordEntryDenied reports an entry denied for lack of capacity.
	// No actuation happened and nothing was queued.
	RecordEntryDenied(available, total int)

	// RecordEnvironment reports a validated environment sample.
	RecordEnvironment(temperature, humidity float64)
}

// NopRecorder discards all activity. Used when telemetry is disabled.
type NopRecorder struct{}

func (NopRecorder) RecordGateCycle(EventKind, int, int)  {}
func (NopRecorder) RecordEntryDenied(int, int)           {}
func (NopRecorder) RecordEnvironment(float64, float64)   {}
