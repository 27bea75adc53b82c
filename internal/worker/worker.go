package worker

import (
	"context"
	"fmt"
	"runtime"
	"sort"
	"sync"
	"sync/atomic"
	"time"
)

// Lane is a scheduling affinity grouping workers by latency sensitivity.
type Lane string

const (
	// LaneRealTime holds latency-sensitive hardware workers. Goroutines in
	// this lane are pinned to OS threads.
	LaneRealTime Lane = "realtime"

	// LaneBestEffort holds presentation and network workers that may block
	// for multiple seconds.
	LaneBestEffort Lane = "besteffort"
)

// Worker describes one long-lived periodic task.
//
// Run executes a single pass and returns; the supervisor sleeps Interval
// between passes. A pass may itself contain a long unlocked wait (the gate
// controller's barrier dwell) — that is the worker's own business, as long
// as it holds no lock across it.
type Worker struct {
	// Name identifies the worker in logs and diagnostics.
	Name string

	// Lane selects the scheduling lane.
	Lane Lane

	// Priority orders workers within a lane; higher starts first and is
	// reported first in diagnostics.
	Priority int

	// Interval is the fixed end-of-pass sleep.
	Interval time.Duration

	// Run executes one pass. It must respect ctx for long waits.
	Run func(ctx context.Context)
}

// Logger defines the logging interface used by the Supervisor.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

// noopLogger is a logger that does nothing.
type noopLogger struct{}

func (noopLogger) Debug(string, ...any) {}
func (noopLogger) Info(string, ...any)  {}
func (noopLogger) Warn(string, ...any)  {}
func (noopLogger) Error(string, ...any) {}

// Supervisor owns the fixed worker set.
//
// Workers are registered with Add before Start; the set is immutable once
// started. All workers stop when the context passed to Start is cancelled;
// Wait blocks until the last pass has finished.
type Supervisor struct {
	logger Logger

	mu      sync.Mutex
	workers []*entry
	started bool

	wg sync.WaitGroup
}

type entry struct {
	Worker
	passes   atomic.Uint64
	lastPass atomic.Int64 // unix nanos of last completed pass
}

// NewSupervisor creates an empty supervisor.
func NewSupervisor() *Supervisor {
	return &Supervisor{logger: noopLogger{}}
}

// SetLogger sets the logger for the supervisor.
func (s *Supervisor) SetLogger(logger Logger) {
	s.logger = logger
}

// Add registers a worker. Must be called before Start.
//
// Returns:
//   - error: If the worker is malformed, duplicates a name, or the
//     supervisor has already started
func (s *Supervisor) Add(w Worker) error {
	if w.Name == "" {
		return fmt.Errorf("worker: name is required")
	}
	if w.Run == nil {
		return fmt.Errorf("worker %s: run function is required", w.Name)
	}
	if w.Interval <= 0 {
		return fmt.Errorf("worker %s: interval must be positive", w.Name)
	}
	if w.Lane != LaneRealTime && w.Lane != LaneBestEffort {
		return fmt.Errorf("worker %s: unknown lane %q", w.Name, w.Lane)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return fmt.Errorf("worker %s: supervisor already started", w.Name)
	}
	for _, existing := range s.workers {
		if existing.Name == w.Name {
			return fmt.Errorf("worker %s: duplicate name", w.Name)
		}
	}

	s.workers = append(s.workers, &entry{Worker: w})
	return nil
}

// Start launches every registered worker in its own goroutine.
//
// Workers start in lane order (real-time first), descending priority within
// a lane. Real-time workers pin their goroutine to an OS thread.
//
// Parameters:
//   - ctx: Cancellation stops all workers
//
// Returns:
//   - error: If the supervisor was already started or has no workers
func (s *Supervisor) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return fmt.Errorf("worker: supervisor already started")
	}
	if len(s.workers) == 0 {
		return fmt.Errorf("worker: no workers registered")
	}
	s.started = true

	// Real-time lane first, then descending priority within each lane.
	sort.SliceStable(s.workers, func(i, j int) bool {
		a, b := s.workers[i], s.workers[j]
		if a.Lane != b.Lane {
			return a.Lane == LaneRealTime
		}
		return a.Priority > b.Priority
	})

	for _, e := range s.workers {
		s.wg.Add(1)
		go s.runWorker(ctx, e)
		s.logger.Info("worker started",
			"name", e.Name,
			"lane", e.Lane,
			"priority", e.Priority,
			"interval", e.Interval,
		)
	}

	return nil
}

// runWorker is the pass loop for a single worker.
func (s *Supervisor) runWorker(ctx context.Context, e *entry) {
	defer s.wg.Done()

	if e.Lane == LaneRealTime {
		runtime.LockOSThread()
		defer runtime.UnlockOSThread()
	}

	for {
		select {
		case <-ctx.Done():
			s.logger.Debug("worker stopped", "name", e.Name)
			return
		default:
		}

		e.Run(ctx)
		e.passes.Add(1)
		e.lastPass.Store(time.Now().UnixNano())

		select {
		case <-ctx.Done():
			s.logger.Debug("worker stopped", "name", e.Name)
			return
		case <-time.After(e.Interval):
		}
	}
}

// Wait blocks until all workers have stopped. Call after cancelling the
// context passed to Start.
func (s *Supervisor) Wait() {
	s.wg.Wait()
}

// Stats describes one worker's scheduling declaration and progress.
type Stats struct {
	Name     string        `json:"name"`
	Lane     Lane          `json:"lane"`
	Priority int           `json:"priority"`
	Interval time.Duration `json:"interval"`
	Passes   uint64        `json:"passes"`
	LastPass time.Time     `json:"last_pass,omitzero"`
}

// Stats returns per-worker statistics in scheduling order.
func (s *Supervisor) Stats() []Stats {
	s.mu.Lock()
	defer s.mu.Unlock()

	stats := make([]Stats, 0, len(s.workers))
	for _, e := range s.workers {
		st := Stats{
			Name:     e.Name,
			Lane:     e.Lane,
			Priority: e.Priority,
			Interval: e.Interval,
			Passes:   e.passes.Load(),
		}
		if ns := e.lastPass.Load(); ns > 0 {
			st.LastPass = time.Unix(0, ns)
		}
		stats = append(stats, st)
	}
	return stats
}
