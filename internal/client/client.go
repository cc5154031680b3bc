package client

import (
	"bytes"
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

var (
	// ErrUnauthorized is returned when Elasticsearch answers 401.
	ErrUnauthorized = errors.New("unauthorized")
	// ErrUnreachable wraps transport-level failures: refused connections,
	// DNS errors, TLS handshake failures and timeouts.
	ErrUnreachable = errors.New("elasticsearch unreachable")
)

// StatusError is returned for non-2xx responses that carry no structured
// Elasticsearch error.
type StatusError struct {
	Code int
	Body string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("unexpected status %d: %s", e.Code, e.Body)
}

// ESClient defines the requests the checks issue against an Elasticsearch cluster.
type ESClient interface {
	GetClusterHealth(ctx context.Context) (*ClusterHealth, error)
	GetNodeStats(ctx context.Context) (*NodeStatsResponse, error)
	SearchLatest(ctx context.Context, index string, query []byte) (*SearchResponse, error)
	BaseURL() string
}

// ClientConfig holds configuration for DefaultClient.
type ClientConfig struct {
	BaseURL            string
	Username           string
	Password           string
	InsecureSkipVerify bool
	RequestTimeout     time.Duration
	// SendContentType adds "Content-Type: application/json" to requests
	// that carry a body.
	SendContentType bool
}

// DefaultClient implements ESClient using the standard net/http package.
type DefaultClient struct {
	http   *http.Client
	config ClientConfig
}

// NewDefaultClient constructs a DefaultClient from the given config.
// It configures TLS skip-verify and request timeout from the config.
// Returns an error if BaseURL is empty.
func NewDefaultClient(cfg ClientConfig) (*DefaultClient, error) {
	if cfg.BaseURL == "" {
		return nil, fmt.Errorf("BaseURL is required")
	}
	if cfg.RequestTimeout <= 0 {
		cfg.RequestTimeout = 10 * time.Second
	}

	transport := http.DefaultTransport.(*http.Transport).Clone()
	transport.TLSClientConfig = &tls.Config{
		InsecureSkipVerify: cfg.InsecureSkipVerify, //nolint:gosec
	}

	return &DefaultClient{
		http: &http.Client{
			Timeout:   cfg.RequestTimeout,
			Transport: transport,
		},
		config: cfg,
	}, nil
}

// BaseURL returns the configured base URL of the Elasticsearch cluster.
func (c *DefaultClient) BaseURL() string {
	return c.config.BaseURL
}

// URL returns the absolute URL for path.
func (c *DefaultClient) URL(path string) string {
	return strings.TrimRight(c.config.BaseURL, "/") + path
}

// response is a fully read HTTP response.
type response struct {
	status int
	body   []byte
}

// doGet performs a GET request to the given path (relative to BaseURL), with
// an optional body. It sets Accept: application/json and Basic Auth if a
// username is configured.
//
// A 401 yields ErrUnauthorized without reading the body; transport failures
// are wrapped with ErrUnreachable. Other statuses are returned to the caller
// untouched so search responses can surface their structured errors.
func (c *DefaultClient) doGet(ctx context.Context, path string, payload []byte) (*response, error) {
	var reqBody io.Reader
	if payload != nil {
		reqBody = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.URL(path), reqBody)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	req.Header.Set("Accept", "application/json")
	if payload != nil && c.config.SendContentType {
		req.Header.Set("Content-Type", "application/json")
	}

	if c.config.Username != "" {
		req.SetBasicAuth(c.config.Username, c.config.Password)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUnreachable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized {
		return nil, fmt.Errorf("GET %s: %w", path, ErrUnauthorized)
	}

	const maxResponseBytes = 32 * 1024 * 1024
	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, fmt.Errorf("%w: read body: %w", ErrUnreachable, err)
	}

	return &response{status: resp.StatusCode, body: body}, nil
}

// ok returns a StatusError unless the response status is 2xx.
func (r *response) ok() error {
	if r.status < 200 || r.status >= 300 {
		return &StatusError{Code: r.status, Body: truncate(r.body, 200)}
	}
	return nil
}

func truncate(b []byte, n int) string {
	if len(b) <= n {
		return string(b)
	}
	return string(b[:n]) + "..."
}
