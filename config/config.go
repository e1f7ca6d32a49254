// Package config provides loading, validation, and convenient access to the
// reconciler configuration supplied through environment variables.
//
// # Basic Usage
//
//	cfg, err := config.Load(config.WithLogger(logger))
//	if err != nil {
//	    // every violation has already been logged
//	    return err
//	}
//
//	if cfg.DryRun {
//	    logger.Info("dry run: no changes will be made")
//	}
//
// Configuration is read once at process start into an immutable *Config that
// is passed explicitly to the components needing it.
package config

import (
	"log/slog"
	"time"
)

// Environment variable names.
const (
	EnvAccountBlocklist      = "ACCOUNT_BLOCKLIST"
	EnvOUBlocklist           = "OU_BLOCKLIST"
	EnvAPIEndpoint           = "API_ENDPOINT"
	EnvCrossAccountRoleOwner = "CROSS_ACCOUNT_ROLE_OWNER"
	EnvExternalID            = "EXTERNAL_ID"
	EnvSecretParameterPath   = "SECRET_PARAMETER_PATH"
	EnvSecretStore           = "SECRET_STORE"
	EnvDryRun                = "DRY_RUN"
	EnvHTTPTimeout           = "HTTP_TIMEOUT"
	EnvRunTimeout            = "RUN_TIMEOUT"
	EnvLogLevel              = "LOG_LEVEL"
	EnvReportBucket          = "REPORT_BUCKET"
	EnvReportPrefix          = "REPORT_PREFIX"
)

// Defaults applied when a variable is unset or blank.
const (
	DefaultAPIEndpoint           = "https://api.hava.io"
	DefaultCrossAccountRoleOwner = "281013829959"
	DefaultSecretStore           = SecretStoreSSM
	DefaultHTTPTimeout           = 30 * time.Second
	DefaultRunTimeout            = 10 * time.Minute
	DefaultLogLevel              = "info"
	DefaultReportPrefix          = "hava-sync"
)

// Supported API key stores.
const (
	SecretStoreSSM            = "ssm"
	SecretStoreSecretsManager = "secretsmanager"
)

// Config is the validated, immutable configuration of one run.
type Config struct {
	// AccountBlocklist holds lowercased account ids never added to Hava.
	AccountBlocklist []string

	// OUBlocklist holds lowercased organizational unit ids whose subtree is skipped.
	OUBlocklist []string

	// APIEndpoint is the Hava API base URL without a trailing slash.
	APIEndpoint string

	// CrossAccountRoleOwner is the Hava-owned account allowed to assume HavaRO.
	CrossAccountRoleOwner string

	// ExternalID is the shared secret placed in the HavaRO trust policy.
	ExternalID string

	// SecretParameterPath locates the Hava API key in the secret store.
	SecretParameterPath string

	// SecretStore selects where SecretParameterPath lives (ssm or secretsmanager).
	SecretStore string

	// DryRun suppresses every mutating call.
	DryRun bool

	// HTTPTimeout bounds each Hava API call.
	HTTPTimeout time.Duration

	// RunTimeout bounds the whole run.
	RunTimeout time.Duration

	// LogLevel is the minimum level written to the log.
	LogLevel string

	// ReportBucket, when set, receives a YAML report of each run.
	ReportBucket string

	// ReportPrefix is the key prefix used inside ReportBucket.
	ReportPrefix string
}

// WithDryRun returns a copy of the configuration with DryRun set.
func (c *Config) WithDryRun(dryRun bool) *Config {
	cp := *c
	cp.DryRun = dryRun
	return &cp
}

// ReportEnabled reports whether run reports should be uploaded to S3.
func (c *Config) ReportEnabled() bool {
	return c.ReportBucket != ""
}

// LogValue implements slog.LogValuer. The external id is never logged.
func (c *Config) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Any("account_blocklist", c.AccountBlocklist),
		slog.Any("ou_blocklist", c.OUBlocklist),
		slog.String("api_endpoint", c.APIEndpoint),
		slog.String("cross_account_role_owner", c.CrossAccountRoleOwner),
		slog.String("secret_parameter_path", c.SecretParameterPath),
		slog.String("secret_store", c.SecretStore),
		slog.Bool("dry_run", c.DryRun),
		slog.Duration("http_timeout", c.HTTPTimeout),
		slog.Duration("run_timeout", c.RunTimeout),
		slog.String("report_bucket", c.ReportBucket),
	)
}
