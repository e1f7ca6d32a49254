package report

import (
	"log/slog"
	"strings"
)

// DefaultPrefix is the key prefix used when none is configured.
const DefaultPrefix = "hava-sync"

type writerOptions struct {
	logger *slog.Logger
	prefix string
}

// Option is a functional option for configuring the Writer.
type Option func(*writerOptions)

// WithLogger configures the writer with a custom logger.
// If logger is nil, logging will be disabled.
func WithLogger(logger *slog.Logger) Option {
	return func(opts *writerOptions) {
		opts.logger = logger
	}
}

// WithPrefix sets the key prefix. Leading and trailing slashes are dropped.
func WithPrefix(prefix string) Option {
	return func(opts *writerOptions) {
		opts.prefix = strings.Trim(prefix, "/")
	}
}

func defaultOptions() *writerOptions {
	return &writerOptions{
		prefix: DefaultPrefix,
	}
}

func applyOptions(opts *writerOptions, options []Option) {
	for _, option := range options {
		option(opts)
	}
}
