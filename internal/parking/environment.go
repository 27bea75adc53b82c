package parking

import (
	"context"
	"errors"
	"math"

	"github.com/nerrad567/parklot-core/internal/hal"
	"github.com/nerrad567/parklot-core/internal/state"
)

// Change thresholds below which a fresh sample is not worth logging or
// forwarding to telemetry.
const (
	temperatureDelta = 0.5 // °C
	humidityDelta    = 2.0 // %RH
)

// EnvMonitor samples the temperature/humidity sensor and maintains the
// last-known-good environment aggregate.
//
// Failed reads (NaN in either component) are dropped before they reach the
// store, so presentation always renders the last valid sample rather than
// a blank. Samples are forwarded to the recorder only when they moved by
// more than the logging thresholds, keeping the telemetry stream quiet
// while conditions are stable.
type EnvMonitor struct {
	store  *state.Store
	sensor hal.EnvironmentSensor

	lastRecorded state.Environment
	haveRecorded bool

	recorder Recorder
	logger   Logger
}

// NewEnvMonitor creates an environment monitor over the given sensor.
func NewEnvMonitor(store *state.Store, sensor hal.EnvironmentSensor) *EnvMonitor {
	return &EnvMonitor{
		store:    store,
		sensor:   sensor,
		recorder: NopRecorder{},
		logger:   noopLogger{},
	}
}

// SetLogger sets the logger for the monitor.
func (e *EnvMonitor) SetLogger(logger Logger) {
	e.logger = logger
}

// SetRecorder sets the telemetry recorder for significant samples.
func (e *EnvMonitor) SetRecorder(recorder Recorder) {
	e.recorder = recorder
}

// Pass takes one sample, validates it, and stores it if valid.
func (e *EnvMonitor) Pass(_ context.Context) {
	temperature, humidity := e.sensor.Read()

	env := state.Environment{Temperature: temperature, Humidity: humidity}
	if err := e.store.SetEnvironment(env); err != nil {
		if errors.Is(err, state.ErrInvalidReading) {
			e.logger.Warn("environment sample invalid, keeping previous reading")
			return
		}
		e.logger.Error("environment store failed", "error", err)
		return
	}

	if !e.significant(env) {
		return
	}
	e.lastRecorded = env
	e.haveRecorded = true

	e.logger.Info("environment updated",
		"temperature_c", temperature, "humidity_pct", humidity)
	e.recorder.RecordEnvironment(temperature, humidity)
}

// significant reports whether the sample moved past either threshold since
// the last recorded one. The first valid sample is always significant.
func (e *EnvMonitor) significant(env state.Environment) bool {
	if !e.haveRecorded {
		return true
	}
	return math.Abs(env.Temperature-e.lastRecorded.Temperature) >= temperatureDelta ||
		math.Abs(env.Humidity-e.lastRecorded.Humidity) >= humidityDelta
}
