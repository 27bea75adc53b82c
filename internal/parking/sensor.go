package parking

import (
	"context"
	"time"

	"github.com/nerrad567/parklot-core/internal/hal"
)

// Monitor debounces the two presence lines into discrete entry/exit events.
//
// Per sensor, per pass: a low line level (active-low convention) with a
// clear latch emits exactly one event and sets the latch; a high level
// clears the latch. A car lingering over a sensor therefore produces one
// event per physical pass, never a flood.
//
// Sends are best-effort with a short timeout: a full channel drops the
// event. The sensor re-fires on the car's next pass, so nothing is retried
// or queued.
//
// Monitor runs at the highest priority in the real-time lane — a missed
// transition here is unrecoverable until the next physical pass, unlike
// delays elsewhere which only degrade responsiveness.
type Monitor struct {
	entryLine hal.DigitalInput
	exitLine  hal.DigitalInput

	entryCh chan<- Event
	exitCh  chan<- Event

	sendTimeout time.Duration

	// Latches are private to the monitor; they are read and written from
	// the single monitor goroutine only.
	entryLatched bool
	exitLatched  bool

	logger Logger
}

// NewMonitor creates a sensor monitor over the two presence lines.
//
// Parameters:
//   - entryLine, exitLine: Active-low presence inputs
//   - entryCh, exitCh: Bounded event channels toward the gate controller
//   - sendTimeout: Best-effort send window before an event is dropped
func NewMonitor(entryLine, exitLine hal.DigitalInput, entryCh, exitCh chan<- Event, sendTimeout time.Duration) *Monitor {
	return &Monitor{
		entryLine:   entryLine,
		exitLine:    exitLine,
		entryCh:     entryCh,
		exitCh:      exitCh,
		sendTimeout: sendTimeout,
		logger:      noopLogger{},
	}
}

// SetLogger sets the logger for the monitor.
func (m *Monitor) SetLogger(logger Logger) {
	m.logger = logger
}

// Pass samples both presence lines once.
func (m *Monitor) Pass(ctx context.Context) {
	m.pollLine(ctx, m.entryLine, &m.entryLatched, m.entryCh, EventEntry)
	m.pollLine(ctx, m.exitLine, &m.exitLatched, m.exitCh, EventExit)
}

// pollLine applies the latch protocol to one sensor.
func (m *Monitor) pollLine(ctx context.Context, line hal.DigitalInput, latched *bool, ch chan<- Event, kind EventKind) {
	level := line.Read()

	// Low level means presence (active-low).
	if !level && !*latched {
		*latched = true
		if m.trySend(ctx, ch, Event{Kind: kind}) {
			m.logger.Info("car detected", "sensor", kind.String())
		} else {
			m.logger.Warn("event dropped, channel full", "sensor", kind.String())
		}
	}
	if level {
		*latched = false
	}
}

// trySend performs the best-effort bounded send.
func (m *Monitor) trySend(ctx context.Context, ch chan<- Event, ev Event) bool {
	timer := time.NewTimer(m.sendTimeout)
	defer timer.Stop()

	select {
	case ch <- ev:
		return true
	case <-timer.C:
		return false
	case <-ctx.Done():
		return false
	}
}
