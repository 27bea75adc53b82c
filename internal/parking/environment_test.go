package parking

import (
	"context"
	"math"
	"testing"
	"time"

	"github.com/nerrad567/parklot-core/internal/hal"
	"github.com/nerrad567/parklot-core/internal/state"
)

func TestEnvMonitor_StoresValidSample(t *testing.T) {
	store := state.New(4, 50*time.Millisecond)
	sensor := hal.NewSimEnvironmentSensor(23.5, 48.0)
	mon := NewEnvMonitor(store, sensor)

	mon.Pass(context.Background())

	env := store.Environment()
	if env.Temperature != 23.5 || env.Humidity != 48.0 {
		t.Errorf("environment = %+v, want 23.5/48.0", env)
	}
}

func TestEnvMonitor_KeepsPreviousOnFailedRead(t *testing.T) {
	store := state.New(4, 50*time.Millisecond)
	sensor := hal.NewSimEnvironmentSensor(23.5, 48.0)
	mon := NewEnvMonitor(store, sensor)
	ctx := context.Background()

	tests := []struct {
		name        string
		temperature float64
		humidity    float64
	}{
		{"temperature NaN", math.NaN(), 50.0},
		{"humidity NaN", 25.0, math.NaN()},
		{"both NaN", math.NaN(), math.NaN()},
	}

	mon.Pass(ctx) // seed a good reading

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sensor.SetSample(tt.temperature, tt.humidity)
			mon.Pass(ctx)

			env := store.Environment()
			if env.Temperature != 23.5 || env.Humidity != 48.0 {
				t.Errorf("environment = %+v, want previous 23.5/48.0 retained", env)
			}
		})
	}

	// Sensor recovers; the new sample replaces the stale one.
	sensor.SetSample(24.5, 51.0)
	mon.Pass(ctx)
	env := store.Environment()
	if env.Temperature != 24.5 || env.Humidity != 51.0 {
		t.Errorf("environment = %+v, want recovered 24.5/51.0", env)
	}
}

func TestEnvMonitor_RecordsOnlySignificantChanges(t *testing.T) {
	store := state.New(4, 50*time.Millisecond)
	sensor := hal.NewSimEnvironmentSensor(20.0, 40.0)
	mon := NewEnvMonitor(store, sensor)
	rec := &recordingRecorder{}
	mon.SetRecorder(rec)
	ctx := context.Background()

	mon.Pass(ctx) // first sample always recorded

	sensor.SetSample(20.2, 40.5) // under both thresholds
	mon.Pass(ctx)

	sensor.SetSample(20.9, 40.5) // temperature moved >= 0.5
	mon.Pass(ctx)

	sensor.SetSample(20.9, 43.0) // humidity moved >= 2.0
	mon.Pass(ctx)

	if got := len(rec.snapshot()); got != 3 {
		t.Errorf("recorded samples = %d, want 3 (first + two significant)", got)
	}

	// The quiet sample still reached the store.
	env := store.Environment()
	if env.Humidity != 43.0 {
		t.Errorf("humidity = %v, want latest 43.0", env.Humidity)
	}
}
