package parking

import (
	"context"

	"github.com/nerrad567/parklot-core/internal/hal"
	"github.com/nerrad567/parklot-core/internal/state"
)

// Indicator mirrors lot fullness onto the two coloured lamps: green while
// any slot is free, red when the lot is full. Exactly one lamp is lit at
// any time.
//
// The indicator is stateless and idempotent; it re-asserts both outputs
// every pass from the capacity aggregate, so a glitched output self-heals
// within one tick.
type Indicator struct {
	store *state.Store
	green hal.DigitalOutput
	red   hal.DigitalOutput
}

// NewIndicator creates the fullness indicator over the two lamp outputs.
func NewIndicator(store *state.Store, green, red hal.DigitalOutput) *Indicator {
	return &Indicator{store: store, green: green, red: red}
}

// Pass reads capacity once and drives both lamps.
func (i *Indicator) Pass(_ context.Context) {
	available, _ := i.store.Capacity()

	free := available > 0
	i.green.Set(free)
	i.red.Set(!free)
}
