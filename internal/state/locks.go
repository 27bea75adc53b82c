package state

import "time"

// AcquirePolicy declares how an aggregate lock is acquired.
type AcquirePolicy string

const (
	// PolicyBlocking waits unconditionally. Used on the real-time path where
	// critical sections are short and bounded.
	PolicyBlocking AcquirePolicy = "blocking"

	// PolicyTimeout waits up to the lock's configured timeout and gives up.
	// Used on cosmetic paths where skipping one update cycle is acceptable.
	PolicyTimeout AcquirePolicy = "timeout"
)

// Aggregate lock names. One lock per aggregate, fixed at construction.
const (
	LockCapacity    = "capacity"
	LockGate        = "gate"
	LockEnvironment = "environment"
	LockOverride    = "override"
	LockClock       = "clock"
)

// aggLock is a mutex with a declared acquisition policy, built on a one-slot
// channel so that timeout acquisition composes with select.
type aggLock struct {
	name    string
	policy  AcquirePolicy
	timeout time.Duration
	sem     chan struct{}
}

func newAggLock(name string, policy AcquirePolicy, timeout time.Duration) *aggLock {
	return &aggLock{
		name:    name,
		policy:  policy,
		timeout: timeout,
		sem:     make(chan struct{}, 1),
	}
}

// acquire takes the lock according to its declared policy.
// Returns false only for PolicyTimeout locks when the window elapses.
func (l *aggLock) acquire() bool {
	if l.policy == PolicyBlocking {
		l.sem <- struct{}{}
		return true
	}

	timer := time.NewTimer(l.timeout)
	defer timer.Stop()

	select {
	case l.sem <- struct{}{}:
		return true
	case <-timer.C:
		return false
	}
}

func (l *aggLock) release() {
	<-l.sem
}

// LockInfo describes one aggregate lock and its acquisition policy.
// Exposed for health/diagnostic reporting.
type LockInfo struct {
	Name    string        `json:"name"`
	Policy  AcquirePolicy `json:"policy"`
	Timeout time.Duration `json:"timeout,omitempty"`
}
