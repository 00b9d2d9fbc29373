package metrics

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/HdrHistogram/hdrhistogram-go"
)

// Cumulative histogram bounds: 1 microsecond to 1 hour, 3 significant
// figures, values in microseconds. Latencies outside the range are clamped.
const (
	histogramMin     = 1
	histogramMax     = 3600000000
	histogramSigFigs = 3
)

// Outcome is one request's measured result. Latency is wall-clock seconds
// around the transport call and is recorded whether or not the request
// succeeded.
type Outcome struct {
	Latency float64
	Err     bool
	MarkerA bool
	MarkerB bool
}

// Interval is the drained accumulator state for one reporting period.
// Latencies is owned by the receiver once returned; Queuing is the cumulative
// open-loop queuing event count at drain time, not an interval delta.
type Interval struct {
	Latencies []float64
	Errors    int
	MarkerA   int
	MarkerB   int
	Queuing   int64
}

// RunTotals is the whole-run view backing the end-of-run summary, taken from
// the cumulative histogram that is never reset.
type RunTotals struct {
	Requests int64         `json:"requests"`
	Errors   int64         `json:"errors"`
	Queuing  int64         `json:"openQueuing"`
	Min      time.Duration `json:"min"`
	Mean     time.Duration `json:"mean"`
	Max      time.Duration `json:"max"`
	P50      time.Duration `json:"p50"`
	P90      time.Duration `json:"p90"`
	P95      time.Duration `json:"p95"`
	P99      time.Duration `json:"p99"`
}

// Aggregator accumulates request outcomes. The interval state (sample list
// and counters) is drained and reset once per report; the run-wide state
// (histogram, error total, queuing counter) only ever grows.
//
// One mutex covers the whole record path. Workers contend on it, but a record
// is a few appends and increments, and the original kept the same discipline
// under hundreds of threads. The queuing counter is atomic so workers can
// bump it from the scheduling path without taking the lock.
type Aggregator struct {
	mu        sync.Mutex
	latencies []float64
	errors    int
	markerA   int
	markerB   int

	hist        *hdrhistogram.Histogram
	totalErrors int64

	queuing atomic.Int64
}

// NewAggregator returns an empty aggregator.
func NewAggregator() *Aggregator {
	return &Aggregator{
		hist: hdrhistogram.New(histogramMin, histogramMax, histogramSigFigs),
	}
}

// Record adds one request outcome to the current interval and to the
// cumulative histogram.
func (a *Aggregator) Record(o Outcome) {
	micros := int64(o.Latency * 1e6)
	if micros < histogramMin {
		micros = histogramMin
	} else if micros > histogramMax {
		micros = histogramMax
	}

	a.mu.Lock()
	a.latencies = append(a.latencies, o.Latency)
	if o.Err {
		a.errors++
		a.totalErrors++
	}
	if o.MarkerA {
		a.markerA++
	}
	if o.MarkerB {
		a.markerB++
	}
	a.hist.RecordValue(micros)
	a.mu.Unlock()
}

// QueuingEvent registers one open-loop queuing event (a worker fell behind
// its virtual arrival schedule).
func (a *Aggregator) QueuingEvent() {
	a.queuing.Add(1)
}

// Drain atomically returns the interval state accumulated since the last
// drain and resets it. Every outcome recorded before the drain begins lands
// in exactly one drained Interval; the cumulative queuing counter is read,
// not reset.
func (a *Aggregator) Drain() Interval {
	a.mu.Lock()
	iv := Interval{
		Latencies: a.latencies,
		Errors:    a.errors,
		MarkerA:   a.markerA,
		MarkerB:   a.markerB,
	}
	a.latencies = nil
	a.errors = 0
	a.markerA = 0
	a.markerB = 0
	a.mu.Unlock()

	iv.Queuing = a.queuing.Load()
	return iv
}

// Totals returns the run-wide totals recorded so far. Min and the quantiles
// are zero when nothing has been recorded.
func (a *Aggregator) Totals() RunTotals {
	a.mu.Lock()
	defer a.mu.Unlock()

	t := RunTotals{
		Requests: a.hist.TotalCount(),
		Errors:   a.totalErrors,
		Queuing:  a.queuing.Load(),
	}
	if t.Requests == 0 {
		return t
	}
	t.Min = time.Duration(a.hist.Min()) * time.Microsecond
	t.Mean = time.Duration(a.hist.Mean()) * time.Microsecond
	t.Max = time.Duration(a.hist.Max()) * time.Microsecond
	t.P50 = time.Duration(a.hist.ValueAtQuantile(50)) * time.Microsecond
	t.P90 = time.Duration(a.hist.ValueAtQuantile(90)) * time.Microsecond
	t.P95 = time.Duration(a.hist.ValueAtQuantile(95)) * time.Microsecond
	t.P99 = time.Duration(a.hist.ValueAtQuantile(99)) * time.Microsecond
	return t
}
