// Package worker provides the fixed worker set and lane scheduling for
// Parklot Core.
//
// Every concern in the controller runs as one long-lived worker: a named
// periodic task with a lane, a priority, and a pass interval. The whole set
// is declared once at startup and supervised for the life of the process;
// there is no dynamic spawning and no per-worker teardown — shutdown is the
// parent context being cancelled.
//
// # Lanes
//
// Workers are partitioned into two affinity lanes:
//
//   - real-time: sensor polling, gate actuation, indicators, environment
//     sampling. These goroutines are pinned to OS threads so unbounded I/O
//     elsewhere cannot delay a pass.
//   - best-effort: dashboard, chat-bot, local display, time sync. Free to
//     block on the network.
//
// Priority is scheduling metadata: it fixes start order within a lane and is
// reported by diagnostics. Go's runtime schedules goroutines cooperatively,
// so the hard guarantee comes from the lane split (thread pinning) and from
// the lock discipline in the state package, not from preemption levels.
package worker
