package config

import (
	"encoding/json"
	"testing"
	"time"

	"gopkg.in/yaml.v3"
)

func TestParseDurationString(t *testing.T) {
	tests := []struct {
		input   string
		want    time.Duration
		wantErr bool
	}{
		{"30s", 30 * time.Second, false},
		{"1m30s", 90 * time.Second, false},
		{"500ms", 500 * time.Millisecond, false},
		{"10", 10 * time.Second, false},
		{"0", 0, false},
		{"abc", 0, true},
		{"", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseDurationString(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseDurationString(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ParseDurationString(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestDuration_GetDuration(t *testing.T) {
	d := Duration(5 * time.Second)
	if got := d.GetDuration(time.Second); got != 5*time.Second {
		t.Errorf("GetDuration() = %v, want 5s", got)
	}

	var zero Duration
	if got := zero.GetDuration(2 * time.Second); got != 2*time.Second {
		t.Errorf("GetDuration() zero value = %v, want default 2s", got)
	}
}

func TestDuration_JSON(t *testing.T) {
	var s struct {
		Timeout Duration `json:"timeout"`
	}

	for _, raw := range []string{`{"timeout": "1m"}`, `{"timeout": 60}`, `{"timeout": 60.0}`} {
		if err := json.Unmarshal([]byte(raw), &s); err != nil {
			t.Fatalf("Unmarshal(%s) error = %v", raw, err)
		}
		if time.Duration(s.Timeout) != time.Minute {
			t.Errorf("Unmarshal(%s) = %v, want 1m", raw, s.Timeout)
		}
	}

	out, err := json.Marshal(s)
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}
	if string(out) != `{"timeout":"1m0s"}` {
		t.Errorf("Marshal() = %s, want {\"timeout\":\"1m0s\"}", out)
	}

	if err := json.Unmarshal([]byte(`{"timeout": true}`), &s); err == nil {
		t.Error("Unmarshal(bool) error = nil, want type error")
	}
}

func TestDuration_YAML(t *testing.T) {
	var s struct {
		Interval Duration `yaml:"interval"`
	}

	for _, raw := range []string{"interval: 250ms", "interval: 0.25"} {
		if err := yaml.Unmarshal([]byte(raw), &s); err != nil {
			t.Fatalf("Unmarshal(%q) error = %v", raw, err)
		}
		if time.Duration(s.Interval) != 250*time.Millisecond {
			t.Errorf("Unmarshal(%q) = %v, want 250ms", raw, s.Interval)
		}
	}

	out, err := yaml.Marshal(s)
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}
	if string(out) != "interval: 250ms\n" {
		t.Errorf("Marshal() = %q, want %q", out, "interval: 250ms\n")
	}
}
