package display

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/nerrad567/parklot-core/internal/hal"
	"github.com/nerrad567/parklot-core/internal/state"
)

func TestDefaultLines(t *testing.T) {
	snap := state.Snapshot{
		Available: 3,
		Total:     4,
		Gate:      state.GateClosed,
		Time:      "14:30:45",
	}

	line1, line2 := DefaultLines(snap)
	if line1 != "14:30:45     3/4" {
		t.Errorf("line1 = %q, want time left, capacity right", line1)
	}
	if len(line1) != hal.DisplayWidth {
		t.Errorf("line1 width = %d, want %d", len(line1), hal.DisplayWidth)
	}
	if line2 != "Gate:Closed" {
		t.Errorf("line2 = %q, want Gate:Closed", line2)
	}
}

func TestDefaultLinesGateOpen(t *testing.T) {
	snap := state.Snapshot{Available: 0, Total: 4, Gate: state.GateOpen, Time: "09:05:00"}
	_, line2 := DefaultLines(snap)
	if line2 != "Gate:Open" {
		t.Errorf("line2 = %q, want Gate:Open", line2)
	}
}

func TestPassRendersDefaultView(t *testing.T) {
	store := state.New(4, 50*time.Millisecond)
	device := hal.NewSimDisplay()
	r := NewRenderer(store, device, 10*time.Millisecond)

	r.Pass(context.Background())

	line1, line2 := device.Lines()
	if !strings.HasSuffix(line1, "4/4") {
		t.Errorf("line1 = %q, want capacity 4/4", line1)
	}
	if line2 != "Gate:Closed" {
		t.Errorf("line2 = %q, want Gate:Closed", line2)
	}
}

func TestPassOverrideThenRevert(t *testing.T) {
	store := state.New(4, 50*time.Millisecond)
	device := hal.NewSimDisplay()
	r := NewRenderer(store, device, 20*time.Millisecond)
	ctx := context.Background()

	store.SetOverride(state.OverrideMessage{Line1: "Gate: OPEN", Line2: "Entering..."})
	r.Pass(ctx)

	line1, line2 := device.Lines()
	if line1 != "Gate: OPEN" || line2 != "Entering..." {
		t.Fatalf("display = %q/%q, want override shown", line1, line2)
	}

	// Within the hold window the override stays up.
	r.Pass(ctx)
	line1, _ = device.Lines()
	if line1 != "Gate: OPEN" {
		t.Errorf("display = %q, override dropped during hold window", line1)
	}

	// After the window the default view resumes.
	time.Sleep(25 * time.Millisecond)
	r.Pass(ctx)
	line1, line2 = device.Lines()
	if line1 == "Gate: OPEN" {
		t.Errorf("display = %q/%q, want default view after hold", line1, line2)
	}
}

func TestPassMostRecentOverrideWins(t *testing.T) {
	store := state.New(4, 50*time.Millisecond)
	device := hal.NewSimDisplay()
	r := NewRenderer(store, device, 20*time.Millisecond)

	store.SetOverride(state.OverrideMessage{Line1: "Gate: OPEN", Line2: "Entering..."})
	store.SetOverride(state.OverrideMessage{Line1: "Gate: OPEN", Line2: "Exiting..."})
	r.Pass(context.Background())

	_, line2 := device.Lines()
	if line2 != "Exiting..." {
		t.Errorf("line2 = %q, want most recent override", line2)
	}
}

func TestLinesClippedToWidth(t *testing.T) {
	store := state.New(4, 50*time.Millisecond)
	device := hal.NewSimDisplay()
	r := NewRenderer(store, device, time.Millisecond)

	store.SetOverride(state.OverrideMessage{
		Line1: "This line is far too long for the display",
		Line2: "short",
	})
	r.Pass(context.Background())

	line1, _ := device.Lines()
	if len(line1) != hal.DisplayWidth {
		t.Errorf("line1 len = %d, want clipped to %d", len(line1), hal.DisplayWidth)
	}
}
