// Package display drives the lot's 2-line local display.
//
// The renderer alternates between two sources: override messages pushed
// by the gate controller (consume-once, most recent wins) and the default
// view built from the shared snapshot. An override stays on screen for a
// hold window after it is taken; when the window lapses the default view
// resumes on the next pass.
package display

import (
	"context"
	"fmt"
	"time"

	"github.com/nerrad567/parklot-core/internal/hal"
	"github.com/nerrad567/parklot-core/internal/state"
)

// Renderer owns the display device. Single-goroutine use only; it runs
// as one worker under the supervisor.
type Renderer struct {
	store   *state.Store
	device  hal.Display
	hold    time.Duration
	holdEnd time.Time

	// Last written lines, to skip redundant device writes.
	line1, line2 string
}

// NewRenderer creates a display renderer.
//
// Parameters:
//   - store: Shared state the default view is built from
//   - device: The physical (or simulated) display
//   - hold: How long an override message stays up before the default
//     view resumes
func NewRenderer(store *state.Store, device hal.Display, hold time.Duration) *Renderer {
	return &Renderer{store: store, device: device, hold: hold}
}

// Pass renders one frame.
func (r *Renderer) Pass(_ context.Context) {
	if msg, ok := r.store.TakeOverride(); ok {
		r.write(msg.Line1, msg.Line2)
		r.holdEnd = time.Now().Add(r.hold)
		return
	}

	// An override is still within its hold window; leave it up.
	if time.Now().Before(r.holdEnd) {
		return
	}

	snap := r.store.Snapshot()
	line1, line2 := DefaultLines(snap)
	r.write(line1, line2)
}

// write updates the device only when the content changed.
func (r *Renderer) write(line1, line2 string) {
	line1 = fit(line1)
	line2 = fit(line2)
	if line1 == r.line1 && line2 == r.line2 {
		return
	}
	r.device.Write(line1, line2)
	r.line1 = line1
	r.line2 = line2
}

// DefaultLines builds the idle view from a snapshot:
// time on the left, capacity on the right, gate status below.
func DefaultLines(snap state.Snapshot) (line1, line2 string) {
	capacity := fmt.Sprintf("%d/%d", snap.Available, snap.Total)
	gap := hal.DisplayWidth - len(snap.Time) - len(capacity)
	if gap < 1 {
		gap = 1
	}
	line1 = snap.Time + spaces(gap) + capacity
	line2 = "Gate:" + snap.Gate.String()
	return line1, line2
}

// fit clips a line to the display width.
func fit(line string) string {
	if len(line) > hal.DisplayWidth {
		return line[:hal.DisplayWidth]
	}
	return line
}

// spaces returns n spaces.
func spaces(n int) string {
	return fmt.Sprintf("%*s", n, "")
}
