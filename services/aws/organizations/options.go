package organizations

import (
	"log/slog"
	"strings"
)

// DefaultPageSize is the MaxResults used for every listing call.
const DefaultPageSize int32 = 20

// walkerOptions holds configuration options for the Walker.
type walkerOptions struct {
	logger           *slog.Logger
	accountBlocklist map[string]struct{}
	ouBlocklist      map[string]struct{}
	pageSize         int32
}

// Option is a functional option for configuring the Walker.
type Option func(*walkerOptions)

// WithLogger configures the walker with a custom logger.
// If logger is nil, logging will be disabled.
func WithLogger(logger *slog.Logger) Option {
	return func(opts *walkerOptions) {
		opts.logger = logger
	}
}

// WithAccountBlocklist excludes the given account ids. Matching is case-insensitive.
func WithAccountBlocklist(ids ...string) Option {
	return func(opts *walkerOptions) {
		addAll(opts.accountBlocklist, ids)
	}
}

// WithOUBlocklist excludes the given OU (or root) ids and everything beneath
// them. Matching is case-insensitive.
func WithOUBlocklist(ids ...string) Option {
	return func(opts *walkerOptions) {
		addAll(opts.ouBlocklist, ids)
	}
}

// WithPageSize overrides the MaxResults used for listing calls.
func WithPageSize(size int32) Option {
	return func(opts *walkerOptions) {
		if size > 0 {
			opts.pageSize = size
		}
	}
}

// defaultOptions returns the default configuration options.
func defaultOptions() *walkerOptions {
	return &walkerOptions{
		logger:           nil,
		accountBlocklist: make(map[string]struct{}),
		ouBlocklist:      make(map[string]struct{}),
		pageSize:         DefaultPageSize,
	}
}

// applyOptions applies the given options to the walker options.
func applyOptions(opts *walkerOptions, options []Option) {
	for _, option := range options {
		option(opts)
	}
}

func addAll(set map[string]struct{}, ids []string) {
	for _, id := range ids {
		id = strings.ToLower(strings.TrimSpace(id))
		if id != "" {
			set[id] = struct{}{}
		}
	}
}
