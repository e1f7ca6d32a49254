package iamrole

import "log/slog"

// provisionerOptions holds configuration options for the Provisioner.
type provisionerOptions struct {
	logger            *slog.Logger
	dryRun            bool
	roleName          string
	executionRoleName string
	sessionName       string
	policyARN         string
}

// Option is a functional option for configuring the Provisioner.
type Option func(*provisionerOptions)

// WithLogger configures the provisioner with a custom logger.
// If logger is nil, logging will be disabled.
func WithLogger(logger *slog.Logger) Option {
	return func(opts *provisionerOptions) {
		opts.logger = logger
	}
}

// WithDryRun skips CreateRole and AttachRolePolicy. Role assumption and
// GetRole still run.
func WithDryRun(dryRun bool) Option {
	return func(opts *provisionerOptions) {
		opts.dryRun = dryRun
	}
}

// WithRoleName overrides the name of the read-only role.
func WithRoleName(name string) Option {
	return func(opts *provisionerOptions) {
		if name != "" {
			opts.roleName = name
		}
	}
}

// WithExecutionRoleName overrides the role assumed in member accounts.
func WithExecutionRoleName(name string) Option {
	return func(opts *provisionerOptions) {
		if name != "" {
			opts.executionRoleName = name
		}
	}
}

// defaultOptions returns the default configuration options.
func defaultOptions() *provisionerOptions {
	return &provisionerOptions{
		logger:            nil,
		dryRun:            false,
		roleName:          DefaultRoleName,
		executionRoleName: DefaultExecutionRoleName,
		sessionName:       DefaultSessionName,
		policyARN:         ReadOnlyAccessPolicyARN,
	}
}

// applyOptions applies the given options to the provisioner options.
func applyOptions(opts *provisionerOptions, options []Option) {
	for _, option := range options {
		option(opts)
	}
}
