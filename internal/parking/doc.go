// Package parking implements the real-time control core of Parklot Core:
// sensor debouncing, gate actuation, indicator outputs, and environment
// sampling.
//
// # Architecture
//
//	┌──────────────┐  entry/exit   ┌──────────────┐   mutates    ┌─────────────┐
//	│   Monitor    │──channels────▶│  Controller  │─────────────▶│ state.Store │
//	│ (sensor.go)  │               │  (gate.go)   │              │  capacity,  │
//	│              │               │              │              │  gate       │
//	│ • 50ms poll  │               │ • entry/exit │              └─────────────┘
//	│ • latch per  │               │   protocol   │                    ▲
//	│   sensor     │               │ • dwell      │       reads        │
//	└──────────────┘               └──────────────┘              ┌─────┴───────┐
//	                                                             │  Indicator  │
//	┌──────────────┐   validated writes                          │ EnvMonitor  │
//	│  EnvMonitor  │────────────────────────────────────────────▶└─────────────┘
//	└──────────────┘
//
// Each component runs one pass per scheduling tick under the worker
// supervisor. Mutual exclusion of barrier actuations is by construction:
// the Controller is the single consumer of both event channels and the only
// writer to the barrier.
//
// Event delivery is at-most-once and lossy on purpose: a full channel drops
// the newest event, and a car still present simply re-fires the sensor on
// its next pass.
package parking
