// Package state provides the shared state store for Parklot Core.
//
// The store holds five independently locked aggregates: capacity, gate
// status, environment reading, display override, and time-of-day. There is
// deliberately no global lock; the high-frequency sensor/gate path must
// never wait behind slow presentation reads.
//
// # Lock discipline
//
// Each aggregate has exactly one named lock with a declared acquisition
// policy:
//
//   - capacity, gate, environment: blocking acquisition (critical path,
//     short critical sections only)
//   - clock, override: bounded-timeout acquisition (cosmetic path; a missed
//     acquisition skips that update cycle)
//
// No lock is ever held across a sleep, a network call, or the barrier dwell.
// All getters return copies; no aggregate escapes as a shared reference.
//
// # Ownership
//
// Each aggregate is mutated by exactly one worker: capacity and gate status
// by the gate controller, environment by the environment monitor, clock by
// the time-sync worker, display override by the best-effort lane. All other
// access is read-only.
package state
