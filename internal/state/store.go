package state

import (
	"math"
	"sync/atomic"
	"time"
)

// Default clock values shown before the first successful time sync.
const (
	defaultTime = "00:00:00"
	defaultDate = "2024/01/01"
)

// Store holds the five shared aggregates behind their per-aggregate locks.
//
// Create with New(); zero value is not usable. All methods are safe for
// concurrent use. Methods on cosmetic aggregates (clock, override) report
// whether the bounded-timeout acquisition succeeded; callers skip the cycle
// on false rather than retrying.
type Store struct {
	capLock   *aggLock
	available int
	total     int

	gateLock *aggLock
	gate     GateStatus

	envLock *aggLock
	env     Environment

	ovrLock  *aggLock
	override *OverrideMessage

	clockLock *aggLock
	clock     ClockReading

	// clockCache holds the last value written or successfully read under
	// the clock lock, so a timed-out acquisition can still return it.
	clockCache atomic.Pointer[ClockReading]

	started time.Time
}

// New creates a Store for a lot with the given number of slots.
// All slots start available; the gate starts closed.
//
// Parameters:
//   - totalSlots: Capacity of the lot (must be >= 1, validated by config)
//   - cosmeticTimeout: Bounded acquisition window for clock/override locks
func New(totalSlots int, cosmeticTimeout time.Duration) *Store {
	s := &Store{
		capLock:   newAggLock(LockCapacity, PolicyBlocking, 0),
		available: totalSlots,
		total:     totalSlots,
		gateLock:  newAggLock(LockGate, PolicyBlocking, 0),
		gate:      GateClosed,
		envLock:   newAggLock(LockEnvironment, PolicyBlocking, 0),
		ovrLock:   newAggLock(LockOverride, PolicyTimeout, cosmeticTimeout),
		clockLock: newAggLock(LockClock, PolicyTimeout, cosmeticTimeout),
		clock:     ClockReading{Time: defaultTime, Date: defaultDate},
		started:   time.Now(),
	}
	s.clockCache.Store(&ClockReading{Time: defaultTime, Date: defaultDate})
	return s
}

// Capacity returns the current available and total slot counts.
func (s *Store) Capacity() (available, total int) {
	s.capLock.acquire()
	defer s.capLock.release()
	return s.available, s.total
}

// DecrementAvailable records a completed entry, reducing available by one.
// Clamped at zero so the capacity invariant holds even against a spurious
// call; returns the new available count.
func (s *Store) DecrementAvailable() int {
	s.capLock.acquire()
	defer s.capLock.release()
	if s.available > 0 {
		s.available--
	}
	return s.available
}

// IncrementAvailable records a completed exit, raising available by one
// unless the lot is already fully free. Duplicate exit signals beyond total
// are suppressed. Returns the new count and whether the increment applied.
func (s *Store) IncrementAvailable() (int, bool) {
	s.capLock.acquire()
	defer s.capLock.release()
	if s.available < s.total {
		s.available++
		return s.available, true
	}
	return s.available, false
}

// Gate returns the current barrier status.
func (s *Store) Gate() GateStatus {
	s.gateLock.acquire()
	defer s.gateLock.release()
	return s.gate
}

// SetGate updates the barrier status. Called only by the gate controller.
func (s *Store) SetGate(status GateStatus) {
	s.gateLock.acquire()
	s.gate = status
	s.gateLock.release()
}

// Environment returns the last-known-good temperature/humidity reading.
func (s *Store) Environment() Environment {
	s.envLock.acquire()
	defer s.envLock.release()
	return s.env
}

// SetEnvironment stores a validated reading. A sample containing NaN is
// rejected with ErrInvalidReading and the previous value is retained; the
// store never holds a blanked or partial reading.
func (s *Store) SetEnvironment(env Environment) error {
	if math.IsNaN(env.Temperature) || math.IsNaN(env.Humidity) {
		return ErrInvalidReading
	}

	s.envLock.acquire()
	s.env = env
	s.envLock.release()
	return nil
}

// SetOverride replaces any pending display override; most recent write wins.
// Returns false if the bounded lock acquisition timed out (message dropped).
func (s *Store) SetOverride(msg OverrideMessage) bool {
	if !s.ovrLock.acquire() {
		return false
	}
	s.override = &msg
	s.ovrLock.release()
	return true
}

// TakeOverride removes and returns the pending override message, if any.
// The second return is false when there is no pending message or the
// bounded lock acquisition timed out.
func (s *Store) TakeOverride() (OverrideMessage, bool) {
	if !s.ovrLock.acquire() {
		return OverrideMessage{}, false
	}
	defer s.ovrLock.release()

	if s.override == nil {
		return OverrideMessage{}, false
	}
	msg := *s.override
	s.override = nil
	return msg, true
}

// Clock returns the current time-of-day reading. Returns the last
// successfully read or written value and false when the bounded acquisition
// times out; callers render that previous value for one cycle.
func (s *Store) Clock() (ClockReading, bool) {
	if !s.clockLock.acquire() {
		return *s.clockCache.Load(), false
	}
	defer s.clockLock.release()
	reading := s.clock
	s.clockCache.Store(&reading)
	return reading, true
}

// SetClockTime updates the formatted time and date. Called only by the
// time-sync worker. Returns false if the acquisition window elapsed; the
// update is skipped for this cycle.
func (s *Store) SetClockTime(timeStr, dateStr string) bool {
	if !s.clockLock.acquire() {
		return false
	}
	s.clock.Time = timeStr
	s.clock.Date = dateStr
	reading := s.clock
	s.clockCache.Store(&reading)
	s.clockLock.release()
	return true
}

// SetConnectivity updates the network/internet reachability flags.
// Returns false if the acquisition window elapsed.
func (s *Store) SetConnectivity(network, internet bool) bool {
	if !s.clockLock.acquire() {
		return false
	}
	s.clock.Network = network
	s.clock.Internet = internet
	reading := s.clock
	s.clockCache.Store(&reading)
	s.clockLock.release()
	return true
}

// Uptime returns time elapsed since the store was created at startup.
func (s *Store) Uptime() time.Duration {
	return time.Since(s.started)
}

// Snapshot assembles a read-only copy of all aggregates for presentation.
//
// Aggregates are read one at a time; the snapshot is not a single atomic
// cut across locks, matching the per-aggregate consistency the presentation
// channels need. A missed clock acquisition falls back to the last
// successfully read value for one cycle.
func (s *Store) Snapshot() Snapshot {
	available, total := s.Capacity()
	env := s.Environment()
	clock, _ := s.Clock()

	return Snapshot{
		Available:   available,
		Total:       total,
		Occupied:    total - available,
		Gate:        s.Gate(),
		Temperature: env.Temperature,
		Humidity:    env.Humidity,
		Time:        clock.Time,
		Date:        clock.Date,
		Network:     clock.Network,
		Internet:    clock.Internet,
		Uptime:      s.Uptime(),
	}
}

// Locks reports the fixed lock registry: one lock per aggregate with its
// declared acquisition policy. Used by the health endpoint.
func (s *Store) Locks() []LockInfo {
	locks := []*aggLock{s.capLock, s.gateLock, s.envLock, s.ovrLock, s.clockLock}
	infos := make([]LockInfo, 0, len(locks))
	for _, l := range locks {
		info := LockInfo{Name: l.name, Policy: l.policy}
		if l.policy == PolicyTimeout {
			info.Timeout = l.timeout
		}
		infos = append(infos, info)
	}
	return infos
}
