package state

import "time"

// GateStatus is the barrier position as observed by presentation channels.
// Only the gate controller mutates it, and only through the
// Closed -> Open -> Closed actuation sequence.
type GateStatus int

const (
	GateClosed GateStatus = iota
	GateOpen
)

// String returns the wire representation used by the dashboard and display.
func (g GateStatus) String() string {
	if g == GateOpen {
		return "Open"
	}
	return "Closed"
}

// Environment is a last-known-good temperature/humidity reading.
type Environment struct {
	Temperature float64
	Humidity    float64
}

// OverrideMessage is a transient two-line display message. Most recent write
// wins; it is consumed exactly once by the display path.
type OverrideMessage struct {
	Line1 string
	Line2 string
}

// ClockReading is the formatted time-of-day aggregate, owned by the
// time-sync worker. Network and Internet report link/reachability status.
type ClockReading struct {
	Time     string
	Date     string
	Network  bool
	Internet bool
}

// Snapshot is a read-only copy of all aggregates, assembled for the
// presentation channels (dashboard /data, chat-bot replies, display).
type Snapshot struct {
	Available   int
	Total       int
	Occupied    int
	Gate        GateStatus
	Temperature float64
	Humidity    float64
	Time        string
	Date        string
	Network     bool
	Internet    bool
	Uptime      time.Duration
}
