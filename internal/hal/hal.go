package hal

import (
	"fmt"

	"github.com/nerrad567/parklot-core/internal/infrastructure/config"
)

// DigitalInput is a one-bit presence line.
//
// Read returns the electrical line level: true for high, false for low.
// The lot's presence sensors follow the active-low convention, so a low
// level means an object is present; interpreting that is the caller's job.
type DigitalInput interface {
	Read() bool
}

// DigitalOutput is a one-bit indicator line.
type DigitalOutput interface {
	Set(on bool)
}

// Barrier is the entry/exit barrier actuator.
//
// MoveTo drives the servo to an absolute angle. The controller only ever
// uses the two configured positions (open, closed). The call returns when
// the drive command is issued; physical travel time is covered by the
// gate controller's dwell.
type Barrier interface {
	MoveTo(angle int)
}

// EnvironmentSensor is a combined temperature/humidity sensor.
//
// Read returns the latest sample. A failed sample is reported as NaN in
// either component, matching the sensor's native behaviour; callers must
// validate before storing.
type EnvironmentSensor interface {
	Read() (temperature, humidity float64)
}

// Display is a fixed-width 2-line text display.
type Display interface {
	Write(line1, line2 string)
}

// DisplayWidth is the column count of the lot's display.
const DisplayWidth = 16

// Lot groups the concrete devices of one parking lot installation.
type Lot struct {
	EntrySensor DigitalInput
	ExitSensor  DigitalInput
	Barrier     Barrier
	GreenLED    DigitalOutput
	RedLED      DigitalOutput
	EnvSensor   EnvironmentSensor
	Display     Display
}

// New creates the device set for the configured hardware driver.
//
// Parameters:
//   - cfg: Hardware configuration (driver selection, pins, servo geometry)
//
// Returns:
//   - *Lot: Connected device set
//   - error: If the driver is unknown
func New(cfg config.HardwareConfig) (*Lot, error) {
	switch cfg.Driver {
	case "", "sim":
		return NewSimLot(), nil
	default:
		return nil, fmt.Errorf("hal: unknown hardware driver %q", cfg.Driver)
	}
}
