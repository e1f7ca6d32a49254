package orgsync

import (
	"log/slog"
	"time"

	"github.com/google/uuid"
)

type syncerOptions struct {
	logger   *slog.Logger
	reporter Reporter
	now      func() time.Time
	newRunID func() string
}

// Option is a functional option for configuring the Syncer.
type Option func(*syncerOptions)

// WithLogger configures the syncer with a custom logger.
// If logger is nil, logging will be disabled.
func WithLogger(logger *slog.Logger) Option {
	return func(opts *syncerOptions) {
		opts.logger = logger
	}
}

// WithReporter writes the Result of every run. Report failures are logged and
// do not fail the run.
func WithReporter(reporter Reporter) Option {
	return func(opts *syncerOptions) {
		opts.reporter = reporter
	}
}

// WithClock overrides the time source.
func WithClock(now func() time.Time) Option {
	return func(opts *syncerOptions) {
		if now != nil {
			opts.now = now
		}
	}
}

// WithRunIDGenerator overrides how run ids are minted.
func WithRunIDGenerator(gen func() string) Option {
	return func(opts *syncerOptions) {
		if gen != nil {
			opts.newRunID = gen
		}
	}
}

func defaultOptions() *syncerOptions {
	return &syncerOptions{
		now:      time.Now,
		newRunID: func() string { return uuid.NewString() },
	}
}

func applyOptions(opts *syncerOptions, options []Option) {
	for _, option := range options {
		option(opts)
	}
}
