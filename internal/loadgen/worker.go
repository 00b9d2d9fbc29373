package loadgen

import (
	"context"
	"math/rand"
	"runtime"
	"sync/atomic"
	"time"

	"github.com/wesleyorama2/httpmon/internal/metrics"
	"github.com/wesleyorama2/httpmon/internal/transport"
)

// Transport issues a single request against the target and classifies the
// response. It is satisfied by *transport.Client.
type Transport interface {
	Do(ctx context.Context) (transport.Result, error)
}

// Worker issues requests in a loop until it is stopped or the shared budget
// runs out. Each worker owns its random source and, in open-loop mode, its
// own virtual arrival clock.
type Worker struct {
	ID int

	ctrl      *Control
	agg       *metrics.Aggregator
	transport Transport
	rng       *rand.Rand

	// lastArrival is the open-loop virtual clock. It is set once when the
	// worker starts and advances by one inter-arrival interval per pass,
	// regardless of how long requests actually take.
	lastArrival time.Time

	stopCh   chan struct{}
	done     chan struct{}
	stopping atomic.Bool
}

// NewWorker creates a worker. The id keeps random sources distinct across
// workers started in the same nanosecond.
func NewWorker(id int, ctrl *Control, agg *metrics.Aggregator, tr Transport) *Worker {
	return &Worker{
		ID:        id,
		ctrl:      ctrl,
		agg:       agg,
		transport: tr,
		rng:       rand.New(rand.NewSource(time.Now().UnixNano() + int64(id))),
		stopCh:    make(chan struct{}),
		done:      make(chan struct{}),
	}
}

// Run executes the request loop. It blocks until RequestStop is called or
// the budget is exhausted. Think times are drawn from an exponential
// distribution so that arrivals form a Poisson process.
func (w *Worker) Run() {
	defer close(w.done)
	w.lastArrival = time.Now()

	for {
		select {
		case <-w.stopCh:
			return
		default:
		}

		if think := w.ctrl.ThinkTime(); think > 0 {
			interval := secondsToDuration(w.rng.ExpFloat64() * think)
			if w.ctrl.OpenLoop() {
				// The virtual clock advances whether or not we
				// managed to keep up. Falling behind is a
				// queuing event, not a schedule reset.
				w.lastArrival = w.lastArrival.Add(interval)
				if wait := time.Until(w.lastArrival); wait <= 0 {
					w.agg.QueuingEvent()
				} else if !w.sleep(wait) {
					return
				}
			} else if !w.sleep(interval) {
				return
			}
		}

		if !w.ctrl.TakeBudget() {
			return
		}

		start := time.Now()
		res, err := w.transport.Do(context.Background())
		w.agg.Record(metrics.Outcome{
			Latency: time.Since(start).Seconds(),
			Err:     err != nil,
			MarkerA: res.MarkerA,
			MarkerB: res.MarkerB,
		})
		if err != nil {
			// A target that fails instantly (empty URL, refused
			// connection) turns this loop into a spin. Yield so the
			// control loop stays responsive.
			runtime.Gosched()
		}
	}
}

// RequestStop asks the worker to exit at its next scheduling point. An
// in-flight request is allowed to finish; the client timeout bounds how long
// that takes. RequestStop is idempotent and safe to call concurrently.
func (w *Worker) RequestStop() {
	if w.stopping.CompareAndSwap(false, true) {
		close(w.stopCh)
	}
}

// Done returns a channel closed when the worker's loop has exited.
func (w *Worker) Done() <-chan struct{} {
	return w.done
}

// sleep waits for d or until the worker is stopped. It reports whether the
// full duration elapsed.
func (w *Worker) sleep(d time.Duration) bool {
	select {
	case <-w.stopCh:
		return false
	case <-time.After(d):
		return true
	}
}

func secondsToDuration(s float64) time.Duration {
	return time.Duration(s * float64(time.Second))
}
