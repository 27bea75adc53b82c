package parking

import (
	"context"
	"time"

	"github.com/nerrad567/parklot-core/internal/hal"
	"github.com/nerrad567/parklot-core/internal/state"
)

// Controller runs the entry/exit protocol and owns the barrier.
//
// It is the single consumer of both event channels and the only writer to
// capacity and gate status, so at most one actuation sequence can be in
// flight at any time — mutual exclusion by construction, not by lock.
//
// Per pass, entry is polled before exit, giving entry implicit priority
// when both are pending in the same tick; the exit event is still drained
// in the same pass, bounding exit starvation to one actuation latency.
type Controller struct {
	store   *state.Store
	barrier hal.Barrier

	entryCh <-chan Event
	exitCh  <-chan Event

	dwell       time.Duration
	pollTimeout time.Duration
	openAngle   int
	closedAngle int

	recorder Recorder
	logger   Logger
}

// ControllerOptions holds the dependencies and tuning for a Controller.
type ControllerOptions struct {
	Store   *state.Store
	Barrier hal.Barrier
	EntryCh <-chan Event
	ExitCh  <-chan Event

	// Dwell is how long the barrier holds fully open for vehicle passage.
	// No lock is held during it.
	Dwell time.Duration

	// PollTimeout is the short per-channel receive window each pass.
	PollTimeout time.Duration

	// OpenAngle and ClosedAngle are the two fixed barrier positions.
	OpenAngle   int
	ClosedAngle int
}

// NewController creates a gate controller.
func NewController(opts ControllerOptions) *Controller {
	return &Controller{
		store:       opts.Store,
		barrier:     opts.Barrier,
		entryCh:     opts.EntryCh,
		exitCh:      opts.ExitCh,
		dwell:       opts.Dwell,
		pollTimeout: opts.PollTimeout,
		openAngle:   opts.OpenAngle,
		closedAngle: opts.ClosedAngle,
		recorder:    NopRecorder{},
		logger:      noopLogger{},
	}
}

// SetLogger sets the logger for the controller.
func (c *Controller) SetLogger(logger Logger) {
	c.logger = logger
}

// SetRecorder sets the telemetry recorder for completed cycles.
func (c *Controller) SetRecorder(recorder Recorder) {
	c.recorder = recorder
}

// Pass polls the entry channel, then the exit channel, handling at most one
// event from each.
func (c *Controller) Pass(ctx context.Context) {
	if _, ok := c.poll(ctx, c.entryCh); ok {
		c.handleEntry(ctx)
	}
	if _, ok := c.poll(ctx, c.exitCh); ok {
		c.handleExit(ctx)
	}
}

// poll receives one event with a short timeout.
func (c *Controller) poll(ctx context.Context, ch <-chan Event) (Event, bool) {
	timer := time.NewTimer(c.pollTimeout)
	defer timer.Stop()

	select {
	case ev := <-ch:
		return ev, true
	case <-timer.C:
		return Event{}, false
	case <-ctx.Done():
		return Event{}, false
	}
}

// handleEntry runs the entry protocol for one event.
//
// The capacity precondition is checked under the capacity lock, but the
// lock is released before the physical actuation; the check cannot go stale
// because this controller is the only capacity writer.
func (c *Controller) handleEntry(ctx context.Context) {
	available, total := c.store.Capacity()
	if available == 0 {
		// Denied: no actuation, no retry, nothing queued.
		c.logger.Info("entry denied, lot full", "available", available, "total", total)
		c.recorder.RecordEntryDenied(available, total)
		return
	}

	c.logger.Info("entry accepted", "available", available, "total", total)
	c.actuate(ctx, "Entering...")

	available = c.store.DecrementAvailable()
	c.logger.Info("entry complete", "available", available, "total", total)
	if available == 0 {
		c.logger.Info("lot now full")
	}
	c.recorder.RecordGateCycle(EventEntry, available, total)
}

// handleExit runs the exit protocol for one event. Exit is unconditional;
// the increment is suppressed beyond total to absorb spurious duplicate
// exit signals.
func (c *Controller) handleExit(ctx context.Context) {
	c.logger.Info("exit processing")
	c.actuate(ctx, "Exiting...")

	available, applied := c.store.IncrementAvailable()
	_, total := c.store.Capacity()
	if !applied {
		c.logger.Warn("spurious exit, capacity already at total", "total", total)
	}
	c.logger.Info("exit complete", "available", available, "total", total)
	c.recorder.RecordGateCycle(EventExit, available, total)
}

// actuate performs one full open/hold/close sequence.
// No lock is held across the dwell.
func (c *Controller) actuate(ctx context.Context, displayLine2 string) {
	c.store.SetGate(state.GateOpen)
	c.store.SetOverride(state.OverrideMessage{Line1: "Gate: OPEN", Line2: displayLine2})

	c.barrier.MoveTo(c.openAngle)
	c.waitDwell(ctx)
	c.barrier.MoveTo(c.closedAngle)

	c.store.SetGate(state.GateClosed)
}

// waitDwell holds the barrier open for the configured dwell, aborting early
// only on shutdown.
func (c *Controller) waitDwell(ctx context.Context) {
	timer := time.NewTimer(c.dwell)
	defer timer.Stop()

	select {
	case <-timer.C:
	case <-ctx.Done():
	}
}
