// Package config provides configuration parsing and validation for httpmon.
package config

import (
	"encoding/json"
	"fmt"
	"time"
)

// Config is the full run configuration.
//
// Example YAML:
//
//	url: "http://localhost:8080/"
//	concurrency: 50
//	timeout: 10s
//	thinktime: 0.5
//	interval: 1s
//	open: true
//	count: 100000
//	headers:
//	  Authorization: "Bearer token"
type Config struct {
	// URL is the target of every request. An empty URL is a warning, not
	// an error; the run proceeds and every request fails.
	URL string `json:"url,omitempty" yaml:"url,omitempty"`

	// Concurrency is the initial number of workers.
	Concurrency int `json:"concurrency,omitempty" yaml:"concurrency,omitempty"`

	// Timeout is the per-request timeout. Zero disables it.
	Timeout Duration `json:"timeout,omitempty" yaml:"timeout,omitempty"`

	// ThinkTime is the mean think time between requests, in seconds.
	ThinkTime float64 `json:"thinktime,omitempty" yaml:"thinktime,omitempty"`

	// Interval is the reporting period.
	Interval Duration `json:"interval,omitempty" yaml:"interval,omitempty"`

	// Open selects open-loop scheduling.
	Open bool `json:"open,omitempty" yaml:"open,omitempty"`

	// Count is the total request budget. Zero means unlimited.
	Count int64 `json:"count,omitempty" yaml:"count,omitempty"`

	// MaxIdleConnsPerHost limits idle connections kept per host.
	MaxIdleConnsPerHost int `json:"maxIdleConnsPerHost,omitempty" yaml:"maxIdleConnsPerHost,omitempty"`

	// MaxConnsPerHost limits total connections per host. Zero means no limit.
	MaxConnsPerHost int `json:"maxConnsPerHost,omitempty" yaml:"maxConnsPerHost,omitempty"`

	// InsecureSkipVerify skips TLS certificate verification.
	InsecureSkipVerify bool `json:"insecureSkipVerify,omitempty" yaml:"insecureSkipVerify,omitempty"`

	// UserAgent overrides the default User-Agent header.
	UserAgent string `json:"userAgent,omitempty" yaml:"userAgent,omitempty"`

	// Headers are extra headers applied to every request.
	Headers map[string]string `json:"headers,omitempty" yaml:"headers,omitempty"`
}

// Default returns the configuration used when nothing else is specified.
// Decoding a file on top of it keeps defaults for absent keys while letting
// an explicit zero override them.
func Default() Config {
	return Config{
		Concurrency: 100,
		Interval:    Duration(time.Second),
	}
}

// Duration wraps time.Duration with relaxed decoding: it accepts Go duration
// strings ("30s", "1m30s") and bare numbers, which are read as seconds, in
// both YAML and JSON.
type Duration time.Duration

// ParseDurationString parses a duration string with support for common
// formats: standard Go durations ("30s", "2m", "1h30m") and plain integers,
// which are read as seconds.
func ParseDurationString(s string) (time.Duration, error) {
	if s == "" {
		return 0, nil
	}

	// Try standard Go duration parsing first
	d, err := time.ParseDuration(s)
	if err == nil {
		return d, nil
	}

	// Try parsing as integer seconds
	var seconds int
	if _, err := fmt.Sscanf(s, "%d", &seconds); err == nil {
		return time.Duration(seconds) * time.Second, nil
	}

	return 0, fmt.Errorf("invalid duration format: %s", s)
}

// GetDuration returns the duration or a default if zero.
func (d Duration) GetDuration(defaultValue time.Duration) time.Duration {
	if d == 0 {
		return defaultValue
	}
	return time.Duration(d)
}

// MarshalJSON implements json.Marshaler.
func (d Duration) MarshalJSON() ([]byte, error) {
	return []byte(`"` + time.Duration(d).String() + `"`), nil
}

// UnmarshalJSON implements json.Unmarshaler.
func (d *Duration) UnmarshalJSON(b []byte) error {
	var raw interface{}
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}

	dur, err := durationFromValue(raw)
	if err != nil {
		return err
	}
	*d = Duration(dur)
	return nil
}

// MarshalYAML implements yaml.Marshaler.
func (d Duration) MarshalYAML() (interface{}, error) {
	return time.Duration(d).String(), nil
}

// UnmarshalYAML implements yaml.Unmarshaler.
func (d *Duration) UnmarshalYAML(unmarshal func(interface{}) error) error {
	var raw interface{}
	if err := unmarshal(&raw); err != nil {
		return err
	}

	dur, err := durationFromValue(raw)
	if err != nil {
		return err
	}
	*d = Duration(dur)
	return nil
}

// String returns the duration as a string.
func (d Duration) String() string {
	return time.Duration(d).String()
}

func durationFromValue(raw interface{}) (time.Duration, error) {
	switch v := raw.(type) {
	case nil:
		return 0, nil
	case string:
		return ParseDurationString(v)
	case int:
		return time.Duration(v) * time.Second, nil
	case int64:
		return time.Duration(v) * time.Second, nil
	case float64:
		return time.Duration(v * float64(time.Second)), nil
	default:
		return 0, fmt.Errorf("invalid duration value: %v", raw)
	}
}
