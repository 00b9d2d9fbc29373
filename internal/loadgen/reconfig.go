package loadgen

import (
	"bufio"
	"io"
	"strconv"
	"strings"
)

// Diagnostics receives timestamped protocol-level messages from the
// reconfiguration reader. It is satisfied by *output.Reporter.
type Diagnostics interface {
	Diagf(format string, args ...interface{})
}

// Reader parses a line-oriented key=value protocol from an input stream and
// applies updates to a Control. Each line holds whitespace-separated tokens;
// recognized keys are "thinktime" (float seconds), "concurrency"
// (non-negative integer) and "open" (0 or 1). Bad tokens and unknown keys
// are logged and skipped, never fatal.
//
// Input is consumed by a background goroutine as it arrives, but updates
// take effect only when the pool calls Apply on its next tick.
type Reader struct {
	lines chan string
	ctrl  *Control
	diag  Diagnostics
}

// NewReader starts reading lines from r. The returned Reader buffers pending
// lines until Apply drains them.
func NewReader(r io.Reader, ctrl *Control, diag Diagnostics) *Reader {
	rd := &Reader{
		lines: make(chan string, 64),
		ctrl:  ctrl,
		diag:  diag,
	}
	go rd.pump(r)
	return rd
}

func (rd *Reader) pump(r io.Reader) {
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		rd.lines <- sc.Text()
	}
}

// Apply processes all pending input lines without blocking. It is called from
// the pool's control loop once per reporting interval.
func (rd *Reader) Apply() {
	for {
		select {
		case line := <-rd.lines:
			rd.applyLine(line)
		default:
			return
		}
	}
}

func (rd *Reader) applyLine(line string) {
	for _, tok := range strings.Fields(line) {
		kv := strings.Split(tok, "=")
		if len(kv) != 2 {
			rd.diag.Diagf("cannot parse key-value '%s'", tok)
			continue
		}
		key, value := kv[0], kv[1]

		switch key {
		case "thinktime":
			v, err := strconv.ParseFloat(value, 64)
			if err != nil || v < 0 {
				rd.diag.Diagf("cannot parse key-value '%s'", tok)
				continue
			}
			rd.ctrl.SetThinkTime(v)
			rd.diag.Diagf("set thinktime=%f", v)
		case "concurrency":
			v, err := strconv.Atoi(value)
			if err != nil || v < 0 {
				rd.diag.Diagf("cannot parse key-value '%s'", tok)
				continue
			}
			rd.ctrl.SetConcurrency(v)
			rd.diag.Diagf("set concurrency=%d", v)
		case "open":
			v, err := strconv.Atoi(value)
			if err != nil {
				rd.diag.Diagf("cannot parse key-value '%s'", tok)
				continue
			}
			open := v != 0
			rd.ctrl.SetOpenLoop(open)
			n := 0
			if open {
				n = 1
			}
			rd.diag.Diagf("set open=%d", n)
		default:
			rd.diag.Diagf("unknown key '%s'", key)
		}
	}
}
