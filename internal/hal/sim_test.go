package hal

import (
	"math"
	"testing"

	"github.com/nerrad567/parklot-core/internal/infrastructure/config"
)

func TestNew_SimDriver(t *testing.T) {
	lot, err := New(config.HardwareConfig{Driver: "sim"})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if lot.EntrySensor == nil || lot.Barrier == nil || lot.Display == nil {
		t.Error("New() returned incomplete device set")
	}

	// Presence lines idle high (inactive under active-low convention)
	if !lot.EntrySensor.Read() || !lot.ExitSensor.Read() {
		t.Error("sim presence lines should idle high")
	}
}

func TestNew_UnknownDriver(t *testing.T) {
	if _, err := New(config.HardwareConfig{Driver: "gpio-v99"}); err == nil {
		t.Error("New() expected error for unknown driver")
	}
}

func TestSimBarrier_RecordsMoves(t *testing.T) {
	b := NewSimBarrier(90)

	b.MoveTo(0)
	b.MoveTo(90)

	if b.Angle() != 90 {
		t.Errorf("Angle() = %d, want 90", b.Angle())
	}

	moves := b.Moves()
	if len(moves) != 2 {
		t.Fatalf("Moves() len = %d, want 2", len(moves))
	}
	if moves[0].Angle != 0 || moves[1].Angle != 90 {
		t.Errorf("Moves() = %v, want open then close", moves)
	}
	if moves[1].At.Before(moves[0].At) {
		t.Error("move timestamps out of order")
	}
}

func TestSimEnvironmentSensor_NaNSample(t *testing.T) {
	s := NewSimEnvironmentSensor(21, 45)
	s.SetSample(math.NaN(), math.NaN())

	temp, hum := s.Read()
	if !math.IsNaN(temp) || !math.IsNaN(hum) {
		t.Errorf("Read() = %v/%v, want NaN sample", temp, hum)
	}
}

func TestSimDisplay_LastWriteWins(t *testing.T) {
	d := NewSimDisplay()
	d.Write("first", "line")
	d.Write("Gate: OPEN", "Entering...")

	l1, l2 := d.Lines()
	if l1 != "Gate: OPEN" || l2 != "Entering..." {
		t.Errorf("Lines() = %q/%q, want last write", l1, l2)
	}
}
