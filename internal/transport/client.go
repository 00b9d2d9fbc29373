// Package transport issues the monitor's HTTP requests and classifies their
// responses. It is deliberately thin: one fixed GET target, one shared
// connection pool, and every kind of failure collapsed into a single error.
package transport

import (
	"context"
	"crypto/tls"
	"fmt"
	"io"
	"net/http"
	"time"
)

// Config controls the shared HTTP client.
type Config struct {
	// Timeout bounds one request end to end. Zero means no timeout.
	Timeout time.Duration

	// MaxIdleConnsPerHost controls the idle connection pool per host.
	MaxIdleConnsPerHost int

	// MaxConnsPerHost limits total connections per host. Zero means
	// unlimited.
	MaxConnsPerHost int

	// InsecureSkipVerify skips TLS certificate verification.
	InsecureSkipVerify bool

	// UserAgent overrides the default User-Agent header when non-empty.
	UserAgent string

	// Headers are applied to every request.
	Headers map[string]string
}

// Result carries the classifier flags observed while a response body was
// streamed. The flags are meaningful even when the request returned an
// error: whatever was scanned before the failure still counts.
type Result struct {
	MarkerA bool
	MarkerB bool
}

// Client issues requests against one URL. A single instance is shared by all
// workers; the underlying http.Transport pools connections across them.
type Client struct {
	url     string
	hc      *http.Client
	agent   string
	headers map[string]string
}

// NewClient builds the shared client for url. Connection pool defaults match
// a load-generation workload: many concurrent requests against one host.
func NewClient(url string, cfg Config) *Client {
	if cfg.MaxIdleConnsPerHost == 0 {
		cfg.MaxIdleConnsPerHost = 100
	}

	transport := &http.Transport{
		Proxy:               http.ProxyFromEnvironment,
		MaxIdleConns:        1000,
		MaxIdleConnsPerHost: cfg.MaxIdleConnsPerHost,
		MaxConnsPerHost:     cfg.MaxConnsPerHost,
		IdleConnTimeout:     90 * time.Second,
		TLSClientConfig: &tls.Config{
			InsecureSkipVerify: cfg.InsecureSkipVerify,
		},
	}

	return &Client{
		url: url,
		hc: &http.Client{
			Transport: transport,
			Timeout:   cfg.Timeout,
		},
		agent:   cfg.UserAgent,
		headers: cfg.Headers,
	}
}

// Do issues one GET against the configured URL, streaming the body through
// the marker scan and discarding it. Transport failures and status codes of
// 400 and above both count as request failures; a failed status skips the
// body scan entirely, so its markers never count.
func (c *Client) Do(ctx context.Context) (Result, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url, nil)
	if err != nil {
		return Result{}, err
	}
	if c.agent != "" {
		req.Header.Set("User-Agent", c.agent)
	}
	for k, v := range c.headers {
		req.Header.Set(k, v)
	}

	resp, err := c.hc.Do(req)
	if err != nil {
		return Result{}, err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		// Drain so the connection can be reused, but do not classify.
		io.Copy(io.Discard, resp.Body)
		return Result{}, fmt.Errorf("server returned %s", resp.Status)
	}

	var scan Classifier
	if _, err := io.Copy(&scan, resp.Body); err != nil {
		return Result{MarkerA: scan.FoundA, MarkerB: scan.FoundB}, err
	}
	return Result{MarkerA: scan.FoundA, MarkerB: scan.FoundB}, nil
}

// URL returns the target this client was built for.
func (c *Client) URL() string {
	return c.url
}
