package hava

import (
	"context"
	"log/slog"
	"net/http"
	"time"
)

// APIKeyFunc returns the Hava API key. It is called before every request.
type APIKeyFunc func(ctx context.Context) (string, error)

// StaticAPIKey returns an APIKeyFunc that always yields key.
func StaticAPIKey(key string) APIKeyFunc {
	return func(context.Context) (string, error) {
		return key, nil
	}
}

// defaultQuotaMarkers are matched, case-insensitively, against the status
// line and body of a 422 response to tell a quota or billing refusal apart
// from a duplicate source.
var defaultQuotaMarkers = []string{"quota", "billing"}

// clientOptions holds configuration options for the Hava client.
type clientOptions struct {
	logger       *slog.Logger
	httpClient   *http.Client
	timeout      time.Duration
	pageSize     int
	quotaMarkers []string
}

// Option is a functional option for configuring the Client.
type Option func(*clientOptions)

// WithLogger configures the client with a custom logger.
// If logger is nil, logging will be disabled.
func WithLogger(logger *slog.Logger) Option {
	return func(opts *clientOptions) {
		opts.logger = logger
	}
}

// WithHTTPClient replaces the HTTP client. Useful for tests and proxies.
func WithHTTPClient(client *http.Client) Option {
	return func(opts *clientOptions) {
		opts.httpClient = client
	}
}

// WithTimeout bounds each request. Ignored when WithHTTPClient is used.
func WithTimeout(timeout time.Duration) Option {
	return func(opts *clientOptions) {
		if timeout > 0 {
			opts.timeout = timeout
		}
	}
}

// WithPageSize sets the page_size used when listing sources.
func WithPageSize(size int) Option {
	return func(opts *clientOptions) {
		if size > 0 {
			opts.pageSize = size
		}
	}
}

// WithQuotaMarkers overrides the substrings identifying a quota refusal on 422.
func WithQuotaMarkers(markers ...string) Option {
	return func(opts *clientOptions) {
		if len(markers) > 0 {
			opts.quotaMarkers = markers
		}
	}
}

// defaultOptions returns the default configuration options.
func defaultOptions() *clientOptions {
	return &clientOptions{
		logger:       nil,
		httpClient:   nil,
		timeout:      30 * time.Second,
		pageSize:     DefaultPageSize,
		quotaMarkers: defaultQuotaMarkers,
	}
}

// applyOptions applies the given options to the client options.
func applyOptions(opts *clientOptions, options []Option) {
	for _, option := range options {
		option(opts)
	}
}
