package parking

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/nerrad567/parklot-core/internal/hal"
	"github.com/nerrad567/parklot-core/internal/state"
)

// recordingRecorder captures recorder calls in order for assertions.
type recordingRecorder struct {
	mu    sync.Mutex
	calls []string
}

func (r *recordingRecorder) RecordGateCycle(kind EventKind, available, total int) {
	r.mu.Lock()
	r.calls = append(r.calls, fmt.Sprintf("cycle:%s:%d/%d", kind, available, total))
	r.mu.Unlock()
}

func (r *recordingRecorder) RecordEntryDenied(available, total int) {
	r.mu.Lock()
	r.calls = append(r.calls, fmt.Sprintf("denied:%d/%d", available, total))
	r.mu.Unlock()
}

func (r *recordingRecorder) RecordEnvironment(temperature, humidity float64) {
	r.mu.Lock()
	r.calls = append(r.calls, "environment")
	r.mu.Unlock()
}

func (r *recordingRecorder) snapshot() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, len(r.calls))
	copy(out, r.calls)
	return out
}

type gateFixture struct {
	store    *state.Store
	barrier  *hal.SimBarrier
	entryCh  chan Event
	exitCh   chan Event
	recorder *recordingRecorder
	ctrl     *Controller
}

func newGateFixture(t *testing.T, totalSlots int) *gateFixture {
	t.Helper()

	f := &gateFixture{
		store:    state.New(totalSlots, 50*time.Millisecond),
		barrier:  hal.NewSimBarrier(90),
		entryCh:  make(chan Event, 5),
		exitCh:   make(chan Event, 5),
		recorder: &recordingRecorder{},
	}
	f.ctrl = NewController(ControllerOptions{
		Store:       f.store,
		Barrier:     f.barrier,
		EntryCh:     f.entryCh,
		ExitCh:      f.exitCh,
		Dwell:       5 * time.Millisecond,
		PollTimeout: time.Millisecond,
		OpenAngle:   0,
		ClosedAngle: 90,
	})
	f.ctrl.SetRecorder(f.recorder)
	return f
}

func TestController_EntryCycle(t *testing.T) {
	f := newGateFixture(t, 4)
	ctx := context.Background()

	f.entryCh <- Event{Kind: EventEntry}
	f.ctrl.Pass(ctx)

	available, total := f.store.Capacity()
	if available != 3 || total != 4 {
		t.Errorf("capacity = %d/%d, want 3/4", available, total)
	}
	if f.store.Gate() != state.GateClosed {
		t.Error("gate should be closed after the cycle completes")
	}

	moves := f.barrier.Moves()
	if len(moves) != 2 {
		t.Fatalf("barrier moves = %d, want 2 (open, close)", len(moves))
	}
	if moves[0].Angle != 0 || moves[1].Angle != 90 {
		t.Errorf("move angles = %d,%d, want 0,90", moves[0].Angle, moves[1].Angle)
	}
	if hold := moves[1].At.Sub(moves[0].At); hold < 5*time.Millisecond {
		t.Errorf("barrier held open %v, want >= dwell 5ms", hold)
	}

	calls := f.recorder.snapshot()
	if len(calls) != 1 || calls[0] != "cycle:entry:3/4" {
		t.Errorf("recorder calls = %v, want [cycle:entry:3/4]", calls)
	}
}

func TestController_EntryDeniedWhenFull(t *testing.T) {
	f := newGateFixture(t, 2)
	ctx := context.Background()

	// Fill the lot.
	for i := 0; i < 2; i++ {
		f.entryCh <- Event{Kind: EventEntry}
		f.ctrl.Pass(ctx)
	}
	movesBefore := len(f.barrier.Moves())

	// Third car is denied: no actuation, count unchanged.
	f.entryCh <- Event{Kind: EventEntry}
	f.ctrl.Pass(ctx)

	available, _ := f.store.Capacity()
	if available != 0 {
		t.Errorf("available = %d, want 0", available)
	}
	if got := len(f.barrier.Moves()); got != movesBefore {
		t.Errorf("barrier moved on denied entry: %d moves, want %d", got, movesBefore)
	}
	calls := f.recorder.snapshot()
	if calls[len(calls)-1] != "denied:0/2" {
		t.Errorf("last recorder call = %q, want denied:0/2", calls[len(calls)-1])
	}
}

func TestController_ExitFreesSlot(t *testing.T) {
	f := newGateFixture(t, 2)
	ctx := context.Background()

	f.entryCh <- Event{Kind: EventEntry}
	f.ctrl.Pass(ctx)

	f.exitCh <- Event{Kind: EventExit}
	f.ctrl.Pass(ctx)

	available, total := f.store.Capacity()
	if available != 2 || total != 2 {
		t.Errorf("capacity = %d/%d, want 2/2", available, total)
	}

	// Exit opened the barrier even though nothing checked capacity first.
	moves := f.barrier.Moves()
	if len(moves) != 4 {
		t.Errorf("barrier moves = %d, want 4 (two full cycles)", len(moves))
	}
}

func TestController_SpuriousExitSuppressed(t *testing.T) {
	f := newGateFixture(t, 2)
	ctx := context.Background()

	// Exit with the lot already empty: barrier cycles, count stays at total.
	f.exitCh <- Event{Kind: EventExit}
	f.ctrl.Pass(ctx)

	available, _ := f.store.Capacity()
	if available != 2 {
		t.Errorf("available = %d, want clamped at total 2", available)
	}
	if got := len(f.barrier.Moves()); got != 2 {
		t.Errorf("barrier moves = %d, want 2 (exit still actuates)", got)
	}
}

func TestController_EntryHandledBeforeExit(t *testing.T) {
	f := newGateFixture(t, 4)
	ctx := context.Background()

	f.exitCh <- Event{Kind: EventExit}
	f.entryCh <- Event{Kind: EventEntry}
	f.ctrl.Pass(ctx)

	calls := f.recorder.snapshot()
	want := []string{"cycle:entry:3/4", "cycle:exit:4/4"}
	if len(calls) != 2 || calls[0] != want[0] || calls[1] != want[1] {
		t.Errorf("recorder calls = %v, want %v", calls, want)
	}
}

func TestController_NoOverlappingActuations(t *testing.T) {
	f := newGateFixture(t, 4)
	ctx := context.Background()

	// Several queued events; the controller drains them across passes.
	f.entryCh <- Event{Kind: EventEntry}
	f.exitCh <- Event{Kind: EventExit}
	f.entryCh <- Event{Kind: EventEntry}
	for i := 0; i < 3; i++ {
		f.ctrl.Pass(ctx)
	}

	// Every cycle is a strict open-then-close pair: angles alternate and
	// timestamps never interleave.
	moves := f.barrier.Moves()
	if len(moves)%2 != 0 {
		t.Fatalf("odd move count %d, a cycle did not close", len(moves))
	}
	for i, mv := range moves {
		wantAngle := 0
		if i%2 == 1 {
			wantAngle = 90
		}
		if mv.Angle != wantAngle {
			t.Fatalf("move %d angle = %d, want %d (overlapping cycles)", i, mv.Angle, wantAngle)
		}
		if i > 0 && mv.At.Before(moves[i-1].At) {
			t.Fatalf("move %d out of order", i)
		}
	}
	if f.store.Gate() != state.GateClosed {
		t.Error("gate should end closed")
	}
}

func TestController_ShutdownDuringDwell(t *testing.T) {
	f := newGateFixture(t, 4)
	f.ctrl.dwell = time.Hour // would hang without cancellation

	ctx, cancel := context.WithCancel(context.Background())
	f.entryCh <- Event{Kind: EventEntry}

	done := make(chan struct{})
	go func() {
		f.ctrl.Pass(ctx)
		close(done)
	}()

	time.Sleep(10 * time.Millisecond)
	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Pass did not return after cancellation")
	}

	// Even an aborted dwell closes the barrier on the way out.
	moves := f.barrier.Moves()
	if moves[len(moves)-1].Angle != 90 {
		t.Error("barrier left open after shutdown")
	}
}
