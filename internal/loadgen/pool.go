package loadgen

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/wesleyorama2/httpmon/internal/metrics"
)

// Reporter receives the drained interval statistics once per reporting tick.
// It is satisfied by *output.Reporter.
type Reporter interface {
	Report(iv metrics.Interval)
}

// PoolConfig wires up a Pool.
type PoolConfig struct {
	Control    *Control
	Aggregator *metrics.Aggregator
	Transport  Transport
	Reporter   Reporter

	// Reader applies runtime reconfiguration lines. Optional.
	Reader *Reader

	// Interval is the reporting period. Defaults to one second.
	Interval time.Duration
}

// Pool runs the worker set and the control loop. Once per interval it drains
// the aggregator into the reporter, applies any pending reconfiguration, and
// reconciles the number of live workers with the target concurrency.
type Pool struct {
	ctrl      *Control
	agg       *metrics.Aggregator
	transport Transport
	reporter  Reporter
	reader    *Reader
	interval  time.Duration

	workers []*Worker
	wg      sync.WaitGroup
	nextID  int
	active  atomic.Int32
}

// NewPool creates a Pool. No workers start until Run is called.
func NewPool(cfg PoolConfig) *Pool {
	interval := cfg.Interval
	if interval <= 0 {
		interval = time.Second
	}
	return &Pool{
		ctrl:      cfg.Control,
		agg:       cfg.Aggregator,
		transport: cfg.Transport,
		reporter:  cfg.Reporter,
		reader:    cfg.Reader,
		interval:  interval,
	}
}

// Run starts the workers and blocks in the control loop until the context is
// canceled or the request budget is exhausted. On the way out it stops all
// workers, waits for in-flight requests to finish, and emits one final report
// covering the remainder of the last interval.
func (p *Pool) Run(ctx context.Context) error {
	p.reconcile()

	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			p.drain()
			return nil
		case <-ticker.C:
			p.reporter.Report(p.agg.Drain())
			if p.reader != nil {
				p.reader.Apply()
			}
			if p.ctrl.BudgetExhausted() {
				p.drain()
				return nil
			}
			p.reconcile()
		}
	}
}

// Live returns the number of workers whose loops are currently running.
func (p *Pool) Live() int {
	return int(p.active.Load())
}

// reconcile grows or shrinks the worker set to match the target concurrency.
// Shrinking stops the newest workers first; their in-flight requests finish
// in the background and are still recorded.
func (p *Pool) reconcile() {
	target := p.ctrl.Concurrency()
	if target < 0 {
		target = 0
	}
	for len(p.workers) < target {
		p.spawn()
	}
	if len(p.workers) > target {
		for _, w := range p.workers[target:] {
			w.RequestStop()
		}
		p.workers = p.workers[:target]
	}
}

func (p *Pool) spawn() {
	w := NewWorker(p.nextID, p.ctrl, p.agg, p.transport)
	p.nextID++
	p.workers = append(p.workers, w)
	p.wg.Add(1)
	p.active.Add(1)
	go func() {
		defer p.wg.Done()
		defer p.active.Add(-1)
		w.Run()
	}()
}

func (p *Pool) drain() {
	for _, w := range p.workers {
		w.RequestStop()
	}
	p.wg.Wait()
	p.reporter.Report(p.agg.Drain())
}
