package secrets

import (
	"log/slog"
	"time"
)

// Cache stores secret values by name.
// Implementations should be thread-safe for concurrent access.
type Cache interface {
	// Get returns the cached value and true, or "" and false.
	Get(key string) (string, bool)

	// Set stores a value. A ttl of 0 uses the cache default.
	Set(key string, value string, ttl time.Duration)
}

// clientOptions holds configuration options for the Secrets Manager client.
type clientOptions struct {
	logger *slog.Logger
	cache  Cache
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

// WithCache configures the client with a cache implementation.
// If cache is nil, caching will be disabled.
func WithCache(cache Cache) Option {
	return func(opts *clientOptions) {
		opts.cache = cache
	}
}

// defaultOptions returns the default configuration options.
func defaultOptions() *clientOptions {
	return &clientOptions{}
}

// applyOptions applies the given options to the client options.
func applyOptions(opts *clientOptions, options []Option) {
	for _, option := range options {
		option(opts)
	}
}
