package config

import (
	"fmt"
	"net/url"
	"regexp"
	"strings"

	"github.com/teamhava/hava-integration-controltower/errors"
)

// accountIDPattern matches a bare AWS account id.
var accountIDPattern = regexp.MustCompile(`^\d{12,}$`)

// violationsKey is the context key holding the violation list on configuration errors.
const violationsKey = "violations"

// Validate checks the configuration and returns a CodeInvalidConfig error
// listing every violation, or nil.
func (c *Config) Validate() error {
	if violations := c.validate(); len(violations) > 0 {
		return newConfigurationError(violations)
	}
	return nil
}

// validate collects all violations without stopping at the first one.
func (c *Config) validate() []string {
	var violations []string

	if !accountIDPattern.MatchString(c.CrossAccountRoleOwner) {
		violations = append(violations, fmt.Sprintf(
			"%s is not a valid account id, is it set properly? value: %q",
			EnvCrossAccountRoleOwner, c.CrossAccountRoleOwner))
	}

	if c.ExternalID == "" {
		violations = append(violations, EnvExternalID+" is missing")
	}

	if c.SecretParameterPath == "" {
		violations = append(violations, EnvSecretParameterPath+" is missing")
	}

	if u, err := url.Parse(c.APIEndpoint); err != nil || !u.IsAbs() || (u.Scheme != "http" && u.Scheme != "https") {
		violations = append(violations, fmt.Sprintf("%s must be an absolute http(s) URL, got %q", EnvAPIEndpoint, c.APIEndpoint))
	}

	switch c.SecretStore {
	case SecretStoreSSM, SecretStoreSecretsManager:
	default:
		violations = append(violations, fmt.Sprintf("%s must be %q or %q, got %q",
			EnvSecretStore, SecretStoreSSM, SecretStoreSecretsManager, c.SecretStore))
	}

	if c.HTTPTimeout <= 0 {
		violations = append(violations, EnvHTTPTimeout+" must be positive")
	}
	if c.RunTimeout <= 0 {
		violations = append(violations, EnvRunTimeout+" must be positive")
	}

	return violations
}

// newConfigurationError combines violations into one coded error.
func newConfigurationError(violations []string) error {
	return errors.New(
		errors.CodeInvalidConfig,
		"configuration validation failed: "+strings.Join(violations, "; "),
	).WithContext(violationsKey, violations)
}

// Violations returns the individual violations carried by a configuration
// error, or nil when err is not one.
func Violations(err error) []string {
	var coded *errors.Error
	if !errors.As(err, &coded) || coded.Code != errors.CodeInvalidConfig {
		return nil
	}
	v, _ := coded.Context[violationsKey].([]string)
	return v
}
