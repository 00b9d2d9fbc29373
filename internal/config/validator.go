package config

import (
	"fmt"
	"net/url"
	"strings"
)

// ValidationError represents a configuration validation error.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("validation error on field '%s': %s", e.Field, e.Message)
	}
	return fmt.Sprintf("validation error: %s", e.Message)
}

// ValidationErrors is a collection of validation errors.
type ValidationErrors struct {
	Errors []*ValidationError
}

func (e *ValidationErrors) Error() string {
	if len(e.Errors) == 0 {
		return "no validation errors"
	}
	if len(e.Errors) == 1 {
		return e.Errors[0].Error()
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("%d validation errors:\n", len(e.Errors)))
	for i, err := range e.Errors {
		sb.WriteString(fmt.Sprintf("  %d. %s\n", i+1, err.Error()))
	}
	return sb.String()
}

// Add adds an error to the collection.
func (e *ValidationErrors) Add(field, message string) {
	e.Errors = append(e.Errors, &ValidationError{Field: field, Message: message})
}

// HasErrors returns true if there are any errors.
func (e *ValidationErrors) HasErrors() bool {
	return len(e.Errors) > 0
}

// Validate checks the configuration for semantically impossible values.
// An empty URL is deliberately not an error; the run proceeds with a warning
// and near-100% request failure.
//
// Returns nil if valid, or a ValidationErrors containing all validation
// errors.
func (c *Config) Validate() error {
	errs := &ValidationErrors{}

	if c.URL != "" {
		if _, err := url.Parse(c.URL); err != nil {
			errs.Add("url", fmt.Sprintf("invalid URL: %v", err))
		}
	}
	if c.Concurrency < 0 {
		errs.Add("concurrency", "cannot be negative")
	}
	if c.ThinkTime < 0 {
		errs.Add("thinktime", "cannot be negative")
	}
	if c.Timeout < 0 {
		errs.Add("timeout", "cannot be negative")
	}
	if c.Interval < 0 {
		errs.Add("interval", "cannot be negative")
	}
	if c.Count < 0 {
		errs.Add("count", "cannot be negative")
	}
	if c.MaxIdleConnsPerHost < 0 {
		errs.Add("maxIdleConnsPerHost", "cannot be negative")
	}
	if c.MaxConnsPerHost < 0 {
		errs.Add("maxConnsPerHost", "cannot be negative")
	}

	if errs.HasErrors() {
		return errs
	}
	return nil
}
