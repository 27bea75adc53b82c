package parking

import (
	"context"
	"testing"
	"time"

	"github.com/nerrad567/parklot-core/internal/hal"
	"github.com/nerrad567/parklot-core/internal/state"
)

func TestIndicator_GreenWhileFree(t *testing.T) {
	store := state.New(2, 50*time.Millisecond)
	green := hal.NewSimOutput()
	red := hal.NewSimOutput()
	ind := NewIndicator(store, green, red)

	ind.Pass(context.Background())

	if !green.On() || red.On() {
		t.Errorf("lamps = green:%v red:%v, want green only", green.On(), red.On())
	}
}

func TestIndicator_RedWhenFull(t *testing.T) {
	store := state.New(2, 50*time.Millisecond)
	store.DecrementAvailable()
	store.DecrementAvailable()

	green := hal.NewSimOutput()
	red := hal.NewSimOutput()
	ind := NewIndicator(store, green, red)

	ind.Pass(context.Background())

	if green.On() || !red.On() {
		t.Errorf("lamps = green:%v red:%v, want red only", green.On(), red.On())
	}
}

func TestIndicator_FollowsCapacityChanges(t *testing.T) {
	store := state.New(1, 50*time.Millisecond)
	green := hal.NewSimOutput()
	red := hal.NewSimOutput()
	ind := NewIndicator(store, green, red)
	ctx := context.Background()

	ind.Pass(ctx)
	if !green.On() {
		t.Fatal("expected green with one free slot")
	}

	store.DecrementAvailable()
	ind.Pass(ctx)
	if !red.On() || green.On() {
		t.Fatal("expected red after lot filled")
	}

	store.IncrementAvailable()
	ind.Pass(ctx)
	if !green.On() || red.On() {
		t.Fatal("expected green after slot freed")
	}
}
