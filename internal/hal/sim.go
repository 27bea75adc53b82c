package hal

import (
	"sync"
	"time"
)

// SimInput is a simulated presence line. Lines idle high; SetLevel(false)
// simulates an object over the sensor (active-low).
type SimInput struct {
	mu    sync.Mutex
	level bool
}

// NewSimInput creates a simulated input idling at the high (inactive) level.
func NewSimInput() *SimInput {
	return &SimInput{level: true}
}

// Read returns the current line level.
func (i *SimInput) Read() bool {
	i.mu.Lock()
	defer i.mu.Unlock()
	return i.level
}

// SetLevel drives the simulated line to the given level.
func (i *SimInput) SetLevel(high bool) {
	i.mu.Lock()
	i.level = high
	i.mu.Unlock()
}

// SimOutput is a simulated indicator line that remembers its state.
type SimOutput struct {
	mu sync.Mutex
	on bool
}

// NewSimOutput creates a simulated output, initially off.
func NewSimOutput() *SimOutput {
	return &SimOutput{}
}

// Set drives the simulated line.
func (o *SimOutput) Set(on bool) {
	o.mu.Lock()
	o.on = on
	o.mu.Unlock()
}

// On reports the current line state.
func (o *SimOutput) On() bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.on
}

// Move records one barrier drive command.
type Move struct {
	Angle int
	At    time.Time
}

// SimBarrier is a simulated barrier servo that records every drive command
// with a timestamp, so tests can assert actuation sequencing.
type SimBarrier struct {
	mu    sync.Mutex
	angle int
	moves []Move
}

// NewSimBarrier creates a simulated barrier at the given starting angle.
func NewSimBarrier(startAngle int) *SimBarrier {
	return &SimBarrier{angle: startAngle}
}

// MoveTo drives the simulated servo.
func (b *SimBarrier) MoveTo(angle int) {
	b.mu.Lock()
	b.angle = angle
	b.moves = append(b.moves, Move{Angle: angle, At: time.Now()})
	b.mu.Unlock()
}

// Angle returns the current servo angle.
func (b *SimBarrier) Angle() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.angle
}

// Moves returns a copy of the recorded drive commands.
func (b *SimBarrier) Moves() []Move {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]Move, len(b.moves))
	copy(out, b.moves)
	return out
}

// SimEnvironmentSensor is a simulated temperature/humidity sensor with a
// settable next sample. Use NaN components to simulate a failed read.
type SimEnvironmentSensor struct {
	mu          sync.Mutex
	temperature float64
	humidity    float64
}

// NewSimEnvironmentSensor creates a simulated sensor with an initial sample.
func NewSimEnvironmentSensor(temperature, humidity float64) *SimEnvironmentSensor {
	return &SimEnvironmentSensor{temperature: temperature, humidity: humidity}
}

// Read returns the current sample.
func (s *SimEnvironmentSensor) Read() (float64, float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.temperature, s.humidity
}

// SetSample sets the next sample returned by Read.
func (s *SimEnvironmentSensor) SetSample(temperature, humidity float64) {
	s.mu.Lock()
	s.temperature = temperature
	s.humidity = humidity
	s.mu.Unlock()
}

// SimDisplay is a simulated 2-line display that remembers the last write.
type SimDisplay struct {
	mu    sync.Mutex
	line1 string
	line2 string
}

// NewSimDisplay creates a simulated display.
func NewSimDisplay() *SimDisplay {
	return &SimDisplay{}
}

// Write replaces the display contents.
func (d *SimDisplay) Write(line1, line2 string) {
	d.mu.Lock()
	d.line1 = line1
	d.line2 = line2
	d.mu.Unlock()
}

// Lines returns the current display contents.
func (d *SimDisplay) Lines() (string, string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.line1, d.line2
}

// NewSimLot creates a fully simulated device set: presence lines idle high,
// barrier at the closed position, a room-temperature environment sample.
func NewSimLot() *Lot {
	return &Lot{
		EntrySensor: NewSimInput(),
		ExitSensor:  NewSimInput(),
		Barrier:     NewSimBarrier(90),
		GreenLED:    NewSimOutput(),
		RedLED:      NewSimOutput(),
		EnvSensor:   NewSimEnvironmentSensor(21.0, 45.0),
		Display:     NewSimDisplay(),
	}
}
