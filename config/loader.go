package config

import (
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/v2"

	"github.com/teamhava/hava-integration-controltower/errors"
	"github.com/teamhava/hava-integration-controltower/logging"
)

// knownVariables is the set of environment variables read by Load.
// Anything else in the environment is ignored.
var knownVariables = map[string]struct{}{
	EnvAccountBlocklist:      {},
	EnvOUBlocklist:           {},
	EnvAPIEndpoint:           {},
	EnvCrossAccountRoleOwner: {},
	EnvExternalID:            {},
	EnvSecretParameterPath:   {},
	EnvSecretStore:           {},
	EnvDryRun:                {},
	EnvHTTPTimeout:           {},
	EnvRunTimeout:            {},
	EnvLogLevel:              {},
	EnvReportBucket:          {},
	EnvReportPrefix:          {},
}

// loadOptions holds the options for Load.
type loadOptions struct {
	logger *slog.Logger
}

// Option configures Load.
type Option func(*loadOptions)

// WithLogger logs each configuration violation at error level.
func WithLogger(logger *slog.Logger) Option {
	return func(o *loadOptions) {
		o.logger = logger
	}
}

// Load reads the configuration from the environment, applies defaults and
// validates it. On failure every violation is logged and a single
// CodeInvalidConfig error listing all of them is returned; use Violations to
// retrieve the list.
func Load(opts ...Option) (*Config, error) {
	o := &loadOptions{logger: logging.Discard()}
	for _, opt := range opts {
		opt(o)
	}
	if o.logger == nil {
		o.logger = logging.Discard()
	}

	k := koanf.New(".")
	if err := k.Load(env.Provider("", ".", func(key string) string {
		if _, ok := knownVariables[key]; !ok {
			return ""
		}
		return strings.ToLower(key)
	}), nil); err != nil {
		return nil, errors.Wrap(err, errors.CodeInvalidConfig, "failed to read environment")
	}

	cfg, violations := fromKoanf(k)
	violations = append(violations, cfg.validate()...)

	if len(violations) > 0 {
		for _, v := range violations {
			o.logger.Error("configuration error", "violation", v)
		}
		return nil, newConfigurationError(violations)
	}

	return cfg, nil
}

// fromKoanf builds a Config from loaded keys. Values that cannot be parsed
// are reported as violations and left at their defaults.
func fromKoanf(k *koanf.Koanf) (*Config, []string) {
	var violations []string

	get := func(name string) string {
		return k.String(strings.ToLower(name))
	}

	cfg := &Config{
		AccountBlocklist:      parseList(get(EnvAccountBlocklist)),
		OUBlocklist:           parseList(get(EnvOUBlocklist)),
		APIEndpoint:           strings.TrimRight(orDefault(get(EnvAPIEndpoint), DefaultAPIEndpoint), "/"),
		CrossAccountRoleOwner: orDefault(get(EnvCrossAccountRoleOwner), DefaultCrossAccountRoleOwner),
		ExternalID:            strings.TrimSpace(get(EnvExternalID)),
		SecretParameterPath:   strings.TrimSpace(get(EnvSecretParameterPath)),
		SecretStore:           strings.ToLower(orDefault(get(EnvSecretStore), DefaultSecretStore)),
		HTTPTimeout:           DefaultHTTPTimeout,
		RunTimeout:            DefaultRunTimeout,
		LogLevel:              strings.ToLower(orDefault(get(EnvLogLevel), DefaultLogLevel)),
		ReportBucket:          strings.TrimSpace(get(EnvReportBucket)),
		ReportPrefix:          strings.Trim(orDefault(get(EnvReportPrefix), DefaultReportPrefix), "/"),
	}

	if raw := strings.TrimSpace(get(EnvDryRun)); raw != "" {
		dryRun, err := strconv.ParseBool(raw)
		if err != nil {
			violations = append(violations, EnvDryRun+" must be a boolean, got "+strconv.Quote(raw))
		}
		cfg.DryRun = dryRun
	}

	parseDuration := func(name string, target *time.Duration) {
		raw := strings.TrimSpace(get(name))
		if raw == "" {
			return
		}
		d, err := time.ParseDuration(raw)
		if err != nil {
			violations = append(violations, name+" must be a duration such as 30s, got "+strconv.Quote(raw))
			return
		}
		*target = d
	}
	parseDuration(EnvHTTPTimeout, &cfg.HTTPTimeout)
	parseDuration(EnvRunTimeout, &cfg.RunTimeout)

	return cfg, violations
}
