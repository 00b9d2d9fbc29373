// Package output writes the periodic interval reports, diagnostics, and the
// end-of-run summary.
package output

import (
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/wesleyorama2/httpmon/internal/metrics"
)

// Reporter writes one line per reporting interval to the diagnostic stream,
// plus timestamped diagnostics and plain warnings. The line format is stable
// and meant for machine consumption (awk, gnuplot, log scrapers):
//
//	[<unix time>] latency=<min>:<q1>:<median>:<q3>:<max>:(<mean>)ms
//	latency95=<p95>ms latency99=<p99>ms throughput=<rps>rps
//	rr=<pct>% cr=<pct>% errors=<n> total=<n> openqueuing=<n>
//
// all on a single line. Latencies are milliseconds; an interval with no
// completed requests reports NaN statistics and zero throughput.
type Reporter struct {
	mu    sync.Mutex
	w     io.Writer
	now   func() time.Time
	last  time.Time
	total int64
}

// NewReporter creates a Reporter writing to w. The first interval is measured
// from the time of creation.
func NewReporter(w io.Writer) *Reporter {
	r := &Reporter{w: w, now: time.Now}
	r.last = r.now()
	return r
}

// Report writes one interval line. Throughput is computed against the wall
// time elapsed since the previous report, and the running total counts every
// sample ever reported.
func (r *Reporter) Report(iv metrics.Interval) {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.now()
	elapsed := now.Sub(r.last).Seconds()
	r.last = now

	n := len(iv.Latencies)
	r.total += int64(n)

	d := metrics.Summarize(iv.Latencies)

	throughput := 0.0
	if n > 0 && elapsed > 0 {
		throughput = float64(n) / elapsed
	}
	// Division by a zero count leaves the rates NaN, matching the latency
	// fields for an idle interval.
	rr := 100 * float64(iv.MarkerA) / float64(n)
	cr := 100 * float64(iv.MarkerB) / float64(n)

	fmt.Fprintf(r.w,
		"[%f] latency=%.0f:%.0f:%.0f:%.0f:%.0f:(%.0f)ms latency95=%.0fms latency99=%.0fms throughput=%.0frps rr=%.2f%% cr=%.2f%% errors=%d total=%d openqueuing=%d\n",
		unixSeconds(now),
		d.Min*1000, d.Q1*1000, d.Median*1000, d.Q3*1000, d.Max*1000, d.Mean*1000,
		d.P95*1000, d.P99*1000,
		throughput, rr, cr,
		iv.Errors, r.total, iv.Queuing)
}

// Diagf writes a timestamped diagnostic line in the same [unix time] framing
// as the interval reports.
func (r *Reporter) Diagf(format string, args ...interface{}) {
	r.mu.Lock()
	defer r.mu.Unlock()

	all := append([]interface{}{unixSeconds(r.now())}, args...)
	fmt.Fprintf(r.w, "[%f] "+format+"\n", all...)
}

// Warnf writes a plain warning line without a timestamp.
func (r *Reporter) Warnf(format string, args ...interface{}) {
	r.mu.Lock()
	defer r.mu.Unlock()

	fmt.Fprintf(r.w, format+"\n", args...)
}

// Total returns the number of samples reported so far.
func (r *Reporter) Total() int64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.total
}

func unixSeconds(t time.Time) float64 {
	return float64(t.Unix()) + float64(t.Nanosecond())/1e9
}
