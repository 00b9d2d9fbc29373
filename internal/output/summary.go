package output

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/wesleyorama2/httpmon/internal/metrics"
)

// RunResult is the machine-readable record of a completed run, built from
// the cumulative histogram rather than the per-interval sample lists.
type RunResult struct {
	URL       string        `json:"url"`
	OpenLoop  bool          `json:"openLoop"`
	StartTime time.Time     `json:"startTime"`
	EndTime   time.Time     `json:"endTime"`
	Duration  time.Duration `json:"duration"`
	RPS       float64       `json:"rps"`
	ErrorRate float64       `json:"errorRate"`

	Totals metrics.RunTotals `json:"totals"`
}

// NewRunResult assembles a RunResult from the run-wide totals.
func NewRunResult(url string, openLoop bool, start, end time.Time, totals metrics.RunTotals) RunResult {
	result := RunResult{
		URL:       url,
		OpenLoop:  openLoop,
		StartTime: start,
		EndTime:   end,
		Duration:  end.Sub(start),
		Totals:    totals,
	}
	if secs := result.Duration.Seconds(); secs > 0 {
		result.RPS = float64(totals.Requests) / secs
	}
	if totals.Requests > 0 {
		result.ErrorRate = float64(totals.Errors) / float64(totals.Requests)
	}
	return result
}

// WriteResult writes the result as indented JSON to the given path, or to
// stdout when the path is "-".
func WriteResult(result RunResult, path string) error {
	data, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling result: %w", err)
	}
	data = append(data, '\n')

	if path == "-" {
		_, err := os.Stdout.Write(data)
		return err
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing result: %w", err)
	}
	return nil
}

// Summary prints the human-readable end-of-run summary.
type Summary struct {
	w      io.Writer
	scheme *ColorScheme
}

// NewSummary creates a Summary writing to w. A nil scheme disables colors.
func NewSummary(w io.Writer, scheme *ColorScheme) *Summary {
	if scheme == nil {
		scheme = NoColorScheme()
	}
	return &Summary{w: w, scheme: scheme}
}

// Print writes the summary block for a finished run.
func (s *Summary) Print(result RunResult) {
	t := result.Totals

	model := "closed-loop"
	if result.OpenLoop {
		model = "open-loop"
	}

	fmt.Fprintln(s.w)
	fmt.Fprintf(s.w, "%s %s\n", s.scheme.Title.Sprint("Run complete:"), s.scheme.Value.Sprint(result.URL))
	s.row("Model", s.scheme.Value.Sprint(model))
	s.row("Duration", s.scheme.Value.Sprint(formatDuration(result.Duration)))
	s.row("Total Reqs", s.scheme.Value.Sprint(formatNumber(t.Requests)))
	s.row("Throughput", s.scheme.Value.Sprintf("%.1f req/s", result.RPS))

	errColor := s.scheme.Good
	if result.ErrorRate > 0.01 {
		errColor = s.scheme.Warn
	}
	if result.ErrorRate > 0.05 {
		errColor = s.scheme.Bad
	}
	s.row("Errors", errColor.Sprintf("%s (%.2f%%)", formatNumber(t.Errors), result.ErrorRate*100))

	if result.OpenLoop {
		s.row("Open queuing", s.scheme.Value.Sprint(formatNumber(t.Queuing)))
	}

	if t.Requests > 0 {
		fmt.Fprintln(s.w)
		fmt.Fprintln(s.w, s.scheme.Label.Sprint("Latency Distribution:"))
		s.dist("Min", t.Min)
		s.dist("Mean", t.Mean)
		s.dist("P50", t.P50)
		s.dist("P90", t.P90)
		s.dist("P95", t.P95)
		s.dist("P99", t.P99)
		s.dist("Max", t.Max)
	}
}

func (s *Summary) row(label, value string) {
	fmt.Fprintf(s.w, "%s %s\n", s.scheme.Label.Sprintf("%-13s", label+":"), value)
}

func (s *Summary) dist(label string, d time.Duration) {
	fmt.Fprintf(s.w, "  %-10s %s\n", label+":", s.scheme.Value.Sprint(formatDurationShort(d)))
}

// formatDuration formats a duration in a human-readable format.
func formatDuration(d time.Duration) string {
	if d < time.Second {
		return fmt.Sprintf("%dms", d.Milliseconds())
	}
	if d < time.Minute {
		return fmt.Sprintf("%.1fs", d.Seconds())
	}
	if d < time.Hour {
		m := int(d.Minutes())
		s := int(d.Seconds()) % 60
		return fmt.Sprintf("%dm %02ds", m, s)
	}
	h := int(d.Hours())
	m := int(d.Minutes()) % 60
	s := int(d.Seconds()) % 60
	return fmt.Sprintf("%dh %02dm %02ds", h, m, s)
}

// formatDurationShort formats a duration in a short format.
func formatDurationShort(d time.Duration) string {
	if d < time.Microsecond {
		return "0ms"
	}
	if d < time.Millisecond {
		return fmt.Sprintf("%dµs", d.Microseconds())
	}
	if d < time.Second {
		return fmt.Sprintf("%dms", d.Milliseconds())
	}
	if d < time.Minute {
		return fmt.Sprintf("%.2fs", d.Seconds())
	}
	return fmt.Sprintf("%.1fm", d.Minutes())
}

// formatNumber formats a number with thousands separators.
func formatNumber(n int64) string {
	str := fmt.Sprintf("%d", n)
	if len(str) <= 3 {
		return str
	}

	var result strings.Builder
	offset := len(str) % 3
	if offset > 0 {
		result.WriteString(str[:offset])
	}
	for i := offset; i < len(str); i += 3 {
		if result.Len() > 0 {
			result.WriteString(",")
		}
		result.WriteString(str[i : i+3])
	}
	return result.String()
}
