// Package loadgen drives HTTP load against a single target and feeds
// per-request outcomes into the metrics aggregator. A pool of workers runs
// either a closed loop (think, request, repeat) or an open loop (requests
// scheduled on a virtual arrival clock, independent of response times), and
// the pool's parameters can be changed while the run is in flight.
package loadgen

import (
	"math"
	"sync/atomic"
)

// ControlConfig holds the initial values for a Control.
type ControlConfig struct {
	// ThinkTime is the mean think time between requests, in seconds.
	// Zero means workers issue requests back to back.
	ThinkTime float64

	// Concurrency is the initial number of workers.
	Concurrency int

	// OpenLoop selects open-loop scheduling, where request arrival times
	// follow a virtual clock rather than waiting for responses.
	OpenLoop bool

	// Budget is the total number of requests the run may issue.
	Budget int64
}

// Control is the shared, live-mutable state of a run. Workers read it on
// every pass and the reconfiguration reader writes it, so all fields are
// atomics and Control is safe for concurrent use without locks.
type Control struct {
	thinkTime   atomic.Uint64 // float64 bits
	concurrency atomic.Int32
	openLoop    atomic.Bool
	budget      atomic.Int64
}

// NewControl creates a Control with the given initial parameters.
func NewControl(cfg ControlConfig) *Control {
	c := &Control{}
	c.SetThinkTime(cfg.ThinkTime)
	c.SetConcurrency(cfg.Concurrency)
	c.SetOpenLoop(cfg.OpenLoop)
	c.budget.Store(cfg.Budget)
	return c
}

// ThinkTime returns the current mean think time in seconds.
func (c *Control) ThinkTime() float64 {
	return math.Float64frombits(c.thinkTime.Load())
}

// SetThinkTime updates the mean think time in seconds.
func (c *Control) SetThinkTime(v float64) {
	c.thinkTime.Store(math.Float64bits(v))
}

// Concurrency returns the target worker count.
func (c *Control) Concurrency() int {
	return int(c.concurrency.Load())
}

// SetConcurrency updates the target worker count. The pool converges on the
// new value at its next reconcile.
func (c *Control) SetConcurrency(n int) {
	c.concurrency.Store(int32(n))
}

// OpenLoop reports whether open-loop scheduling is active.
func (c *Control) OpenLoop() bool {
	return c.openLoop.Load()
}

// SetOpenLoop switches between open- and closed-loop scheduling.
func (c *Control) SetOpenLoop(v bool) {
	c.openLoop.Store(v)
}

// TakeBudget claims one request from the shared budget. It returns false once
// the budget is spent; a worker that gets false must exit without issuing a
// request. With an initial budget of n, exactly n calls return true across
// all workers.
func (c *Control) TakeBudget() bool {
	return c.budget.Add(-1) >= 0
}

// BudgetExhausted reports whether the budget has been fully claimed. It is a
// read-only check used by the pool to decide when to drain.
func (c *Control) BudgetExhausted() bool {
	return c.budget.Load() <= 0
}
