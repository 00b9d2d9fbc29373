package cli

import (
	"context"
	"fmt"
	"math"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/wesleyorama2/httpmon/internal/config"
	"github.com/wesleyorama2/httpmon/internal/loadgen"
	"github.com/wesleyorama2/httpmon/internal/metrics"
	"github.com/wesleyorama2/httpmon/internal/output"
	"github.com/wesleyorama2/httpmon/internal/transport"
)

var version = "0.1.0"

// RootCmd represents the base command when called without any subcommands
var RootCmd = &cobra.Command{
	Use:     "httpmon",
	Short:   "Generate HTTP load and monitor latency in real time",
	Version: version,
	Long: `Httpmon drives a stream of GET requests against a single URL and writes a
latency/throughput report to stderr once per interval. Think-time, target
concurrency and the loop model can be changed while it runs by writing
key=value lines to stdin.

Closed-loop with 50 workers:
  httpmon --url http://localhost:8080/ --concurrency 50 --thinktime 0.5

Open-loop with a fixed request budget:
  httpmon --url http://localhost:8080/ --open --thinktime 0.1 --count 100000

From a config file, reconfigured live through a pipe:
  httpmon --config run.yaml < control-pipe`,
	RunE:         runMonitor,
	Args:         cobra.NoArgs,
	SilenceUsage: true,
}

// Execute runs the root command. This is called by main.main() and only
// needs to happen once.
func Execute() error {
	return RootCmd.Execute()
}

func runMonitor(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}

	quiet, _ := cmd.Flags().GetBool("quiet")
	noColor, _ := cmd.Flags().GetBool("no-color")
	jsonPath, _ := cmd.Flags().GetString("json")

	reporter := output.NewReporter(os.Stderr)
	if cfg.URL == "" {
		reporter.Warnf("Warning, empty URL given. Expect high CPU usage and many errors.")
	}

	// count = 0 means unbounded: a budget no run will realistically drain.
	budget := cfg.Count
	if budget <= 0 {
		budget = math.MaxInt64
	}

	ctrl := loadgen.NewControl(loadgen.ControlConfig{
		ThinkTime:   cfg.ThinkTime,
		Concurrency: cfg.Concurrency,
		OpenLoop:    cfg.Open,
		Budget:      budget,
	})

	client := transport.NewClient(cfg.URL, transport.Config{
		Timeout:             time.Duration(cfg.Timeout),
		MaxIdleConnsPerHost: cfg.MaxIdleConnsPerHost,
		MaxConnsPerHost:     cfg.MaxConnsPerHost,
		InsecureSkipVerify:  cfg.InsecureSkipVerify,
		UserAgent:           cfg.UserAgent,
		Headers:             cfg.Headers,
	})

	agg := metrics.NewAggregator()
	reader := loadgen.NewReader(os.Stdin, ctrl, reporter)

	pool := loadgen.NewPool(loadgen.PoolConfig{
		Control:    ctrl,
		Aggregator: agg,
		Transport:  client,
		Reporter:   reporter,
		Reader:     reader,
		Interval:   cfg.Interval.GetDuration(time.Second),
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	start := time.Now()
	if err := pool.Run(ctx); err != nil {
		return err
	}
	end := time.Now()

	result := output.NewRunResult(cfg.URL, cfg.Open, start, end, agg.Totals())

	// The summary shares stderr with the report stream so that stdout stays
	// clean for the JSON result.
	if !quiet {
		scheme := output.NoColorScheme()
		if output.IsTerminal(os.Stderr) && !noColor {
			scheme = output.DefaultColorScheme()
		}
		output.NewSummary(os.Stderr, scheme).Print(result)
	}

	if jsonPath != "" {
		if err := output.WriteResult(result, jsonPath); err != nil {
			return fmt.Errorf("failed to write result: %w", err)
		}
	}

	return nil
}

// resolveConfig merges the configuration sources: defaults, then the config
// file if one was given, then any flag set explicitly on the command line.
func resolveConfig(cmd *cobra.Command) (config.Config, error) {
	flags := cmd.Flags()

	cfg := config.Default()
	if path, _ := flags.GetString("config"); path != "" {
		var err error
		cfg, err = config.Load(path)
		if err != nil {
			return config.Config{}, err
		}
	}

	if flags.Changed("url") {
		cfg.URL, _ = flags.GetString("url")
	}
	if flags.Changed("concurrency") {
		cfg.Concurrency, _ = flags.GetInt("concurrency")
	}
	if flags.Changed("timeout") {
		s, _ := flags.GetString("timeout")
		d, err := config.ParseDurationString(s)
		if err != nil {
			return config.Config{}, fmt.Errorf("invalid timeout %q: %w", s, err)
		}
		cfg.Timeout = config.Duration(d)
	}
	if flags.Changed("thinktime") {
		cfg.ThinkTime, _ = flags.GetFloat64("thinktime")
	}
	if flags.Changed("interval") {
		s, _ := flags.GetString("interval")
		d, err := config.ParseDurationString(s)
		if err != nil {
			return config.Config{}, fmt.Errorf("invalid interval %q: %w", s, err)
		}
		cfg.Interval = config.Duration(d)
	}
	if flags.Changed("open") {
		cfg.Open, _ = flags.GetBool("open")
	}
	if flags.Changed("count") {
		cfg.Count, _ = flags.GetInt64("count")
	}
	if flags.Changed("insecure") {
		cfg.InsecureSkipVerify, _ = flags.GetBool("insecure")
	}
	if flags.Changed("user-agent") {
		cfg.UserAgent, _ = flags.GetString("user-agent")
	}

	headers, _ := flags.GetStringArray("header")
	for _, header := range headers {
		parts := strings.SplitN(header, ":", 2)
		if len(parts) == 2 {
			if cfg.Headers == nil {
				cfg.Headers = make(map[string]string)
			}
			cfg.Headers[strings.TrimSpace(parts[0])] = strings.TrimSpace(parts[1])
		}
	}

	if err := cfg.Validate(); err != nil {
		return config.Config{}, err
	}
	return cfg, nil
}

func init() {
	registerFlags(RootCmd)
}

// registerFlags installs the run flags on cmd.
func registerFlags(cmd *cobra.Command) {
	cmd.Flags().StringP("url", "u", "", "Target URL to monitor")
	cmd.Flags().IntP("concurrency", "c", 100, "Number of concurrent workers")
	cmd.Flags().StringP("timeout", "t", "0", "Per-request timeout, a Go duration or bare seconds (0 = none)")
	cmd.Flags().Float64("thinktime", 0, "Mean think-time between requests in seconds (exponentially distributed)")
	cmd.Flags().StringP("interval", "i", "1s", "Reporting interval, a Go duration or bare seconds")
	cmd.Flags().Bool("open", false, "Open-loop arrivals: schedule requests on a fixed virtual timeline")
	cmd.Flags().Int64P("count", "n", 0, "Stop after this many requests (0 = unbounded)")
	cmd.Flags().String("config", "", "Configuration file (YAML or JSON)")
	cmd.Flags().StringArrayP("header", "H", []string{}, "HTTP headers to include (can be used multiple times)")
	cmd.Flags().String("user-agent", "", "Override the User-Agent header")
	cmd.Flags().Bool("insecure", false, "Skip TLS certificate verification")
	cmd.Flags().String("json", "", "Write the run result JSON to this file ('-' for stdout)")
	cmd.Flags().BoolP("quiet", "q", false, "Suppress the final summary")
	cmd.Flags().Bool("no-color", false, "Disable colored output")
}
