package parameters

import (
	"log/slog"
	"time"
)

// Cache stores parameter values by name.
type Cache interface {
	Get(key string) (string, bool)
	Set(key string, value string, ttl time.Duration)
}

type clientOptions struct {
	logger  *slog.Logger
	cache   Cache
	decrypt bool
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

// WithDecryption controls WithDecryption on GetParameter. Enabled by default.
func WithDecryption(decrypt bool) Option {
	return func(opts *clientOptions) {
		opts.decrypt = decrypt
	}
}

func defaultOptions() *clientOptions {
	return &clientOptions{decrypt: true}
}

func applyOptions(opts *clientOptions, options []Option) {
	for _, option := range options {
		option(opts)
	}
}
