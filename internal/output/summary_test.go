package output

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/tidwall/gjson"
	"github.com/wesleyorama2/httpmon/internal/metrics"
)

func sampleTotals() metrics.RunTotals {
	return metrics.RunTotals{
		Requests: 1000,
		Errors:   20,
		Queuing:  15,
		Min:      2 * time.Millisecond,
		Mean:     8 * time.Millisecond,
		Max:      300 * time.Millisecond,
		P50:      6 * time.Millisecond,
		P90:      12 * time.Millisecond,
		P95:      20 * time.Millisecond,
		P99:      80 * time.Millisecond,
	}
}

func TestNewRunResult(t *testing.T) {
	start := time.Unix(1700000000, 0)
	end := start.Add(10 * time.Second)

	result := NewRunResult("http://localhost:8080/", true, start, end, sampleTotals())

	if result.Duration != 10*time.Second {
		t.Errorf("Duration = %v, want 10s", result.Duration)
	}
	if result.RPS != 100 {
		t.Errorf("RPS = %v, want 100", result.RPS)
	}
	if result.ErrorRate != 0.02 {
		t.Errorf("ErrorRate = %v, want 0.02", result.ErrorRate)
	}
}

func TestRunResultJSON(t *testing.T) {
	start := time.Unix(1700000000, 0)
	result := NewRunResult("http://localhost:8080/", true, start, start.Add(10*time.Second), sampleTotals())

	data, err := json.Marshal(result)
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}

	checks := []struct {
		path string
		want interface{}
	}{
		{"url", "http://localhost:8080/"},
		{"openLoop", true},
		{"rps", 100.0},
		{"errorRate", 0.02},
		{"totals.requests", int64(1000)},
		{"totals.errors", int64(20)},
		{"totals.openQueuing", int64(15)},
		{"totals.p99", int64(80 * time.Millisecond)},
	}
	for _, c := range checks {
		got := gjson.GetBytes(data, c.path)
		if !got.Exists() {
			t.Errorf("JSON missing %q", c.path)
			continue
		}
		switch want := c.want.(type) {
		case string:
			if got.String() != want {
				t.Errorf("%s = %q, want %q", c.path, got.String(), want)
			}
		case bool:
			if got.Bool() != want {
				t.Errorf("%s = %v, want %v", c.path, got.Bool(), want)
			}
		case float64:
			if got.Float() != want {
				t.Errorf("%s = %v, want %v", c.path, got.Float(), want)
			}
		case int64:
			if got.Int() != want {
				t.Errorf("%s = %v, want %v", c.path, got.Int(), want)
			}
		}
	}
}

func TestWriteResult(t *testing.T) {
	path := filepath.Join(t.TempDir(), "result.json")
	start := time.Unix(1700000000, 0)
	result := NewRunResult("http://localhost:8080/", false, start, start.Add(time.Second), sampleTotals())

	if err := WriteResult(result, path); err != nil {
		t.Fatalf("WriteResult() error = %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile() error = %v", err)
	}
	if !gjson.ValidBytes(data) {
		t.Fatal("result file is not valid JSON")
	}
	if got := gjson.GetBytes(data, "totals.errors").Int(); got != 20 {
		t.Errorf("totals.errors = %d, want 20", got)
	}
}

func TestSummary_Print(t *testing.T) {
	start := time.Unix(1700000000, 0)
	result := NewRunResult("http://localhost:8080/", true, start, start.Add(10*time.Second), sampleTotals())

	var buf bytes.Buffer
	NewSummary(&buf, NoColorScheme()).Print(result)

	out := buf.String()
	for _, want := range []string{
		"Run complete: http://localhost:8080/",
		"open-loop",
		"Total Reqs:   1,000",
		"100.0 req/s",
		"20 (2.00%)",
		"Open queuing:",
		"Latency Distribution:",
		"P99:",
		"80ms",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("summary missing %q:\n%s", want, out)
		}
	}
}

func TestSummary_PrintEmptyRun(t *testing.T) {
	start := time.Unix(1700000000, 0)
	result := NewRunResult("", false, start, start.Add(time.Second), metrics.RunTotals{})

	var buf bytes.Buffer
	NewSummary(&buf, nil).Print(result)

	out := buf.String()
	if strings.Contains(out, "Latency Distribution") {
		t.Errorf("summary for an empty run should skip the distribution:\n%s", out)
	}
	if !strings.Contains(out, "closed-loop") {
		t.Errorf("summary missing the loop model:\n%s", out)
	}
}
