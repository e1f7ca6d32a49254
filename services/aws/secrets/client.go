package secrets

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/secretsmanager"
	"github.com/aws/smithy-go"

	"github.com/teamhava/hava-integration-controltower/services/aws/internal/cache"
)

// AWS error code constants
const (
	ResourceNotFoundException = "ResourceNotFoundException"
	AccessDeniedException     = "AccessDeniedException"
)

// Client reads secrets from AWS Secrets Manager.
//
// Thread Safety: all methods are safe for concurrent use provided the
// configured Cache is.
type Client struct {
	api    ManagerAPI
	logger *slog.Logger
	cache  Cache
}

// NewClient creates a client over an existing ManagerAPI.
func NewClient(api ManagerAPI, opts ...Option) (*Client, error) {
	if api == nil {
		return nil, fmt.Errorf("secrets manager api cannot be nil")
	}

	options := defaultOptions()
	applyOptions(options, opts)

	return &Client{
		api:    api,
		logger: options.logger,
		cache:  options.cache,
	}, nil
}

// NewClientWithConfig creates a client from an AWS configuration.
//
// Example usage:
//
//	cfg, _ := config.LoadDefaultConfig(ctx)
//	client, err := secrets.NewClientWithConfig(&cfg,
//	    secrets.WithLogger(logger),
//	    secrets.WithCache(secrets.NewCache(15*time.Minute)),
//	)
func NewClientWithConfig(cfg *aws.Config, opts ...Option) (*Client, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config cannot be nil")
	}
	if cfg.Region == "" {
		return nil, fmt.Errorf("config region cannot be empty")
	}
	return NewClient(secretsmanager.NewFromConfig(*cfg), opts...)
}

// NewClientWithLocalStack creates a client for a LocalStack endpoint.
// This is a convenience function for integration testing.
func NewClientWithLocalStack(ctx context.Context, endpointURL string, opts ...Option) (*Client, error) {
	if endpointURL == "" {
		return nil, fmt.Errorf("endpoint URL cannot be empty")
	}

	cfg, err := config.LoadDefaultConfig(ctx,
		config.WithRegion("us-east-1"),
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider("test", "test", "")),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	api := secretsmanager.NewFromConfig(cfg, func(o *secretsmanager.Options) {
		o.BaseEndpoint = aws.String(endpointURL)
	})
	return NewClient(api, opts...)
}

// NewCache returns an in-memory Cache whose entries live for ttl.
func NewCache(ttl time.Duration) Cache {
	return cache.New[string](ttl, 0)
}

// GetSecret retrieves the string value of a secret. Binary secrets are
// returned as their raw bytes.
func (c *Client) GetSecret(ctx context.Context, secretName string) (string, error) {
	if secretName == "" {
		return "", fmt.Errorf("secret name cannot be empty")
	}

	if c.logger != nil {
		c.logger.DebugContext(ctx, "retrieving secret", "secret_name", secretName)
	}

	output, err := c.api.GetSecretValue(ctx, &secretsmanager.GetSecretValueInput{
		SecretId: aws.String(secretName),
	})
	if err != nil {
		var apiErr smithy.APIError
		if errors.As(err, &apiErr) {
			switch apiErr.ErrorCode() {
			case ResourceNotFoundException:
				return "", fmt.Errorf("GetSecret %s: %w", secretName, ErrSecretNotFound)
			case AccessDeniedException:
				return "", fmt.Errorf("GetSecret %s: %w", secretName, ErrAccessDenied)
			}
		}

		if c.logger != nil {
			c.logger.ErrorContext(ctx, "failed to retrieve secret",
				"secret_name", secretName,
				"error", err)
		}
		return "", c.handleError(err, "GetSecret")
	}

	var value string
	switch {
	case output.SecretString != nil:
		value = *output.SecretString
	case output.SecretBinary != nil:
		value = string(output.SecretBinary)
	}
	if value == "" {
		return "", fmt.Errorf("GetSecret %s: %w", secretName, ErrSecretEmpty)
	}

	if c.logger != nil {
		c.logger.InfoContext(ctx, "secret retrieved", "secret_name", secretName)
	}
	return value, nil
}

// GetSecretCached returns the cached value when present, otherwise calls
// GetSecret and caches a successful result. Without a cache it is GetSecret.
func (c *Client) GetSecretCached(ctx context.Context, secretName string) (string, error) {
	if c.cache == nil {
		return c.GetSecret(ctx, secretName)
	}

	if value, found := c.cache.Get(secretName); found {
		if c.logger != nil {
			c.logger.DebugContext(ctx, "cache hit for secret", "secret_name", secretName)
		}
		return value, nil
	}

	value, err := c.GetSecret(ctx, secretName)
	if err != nil {
		return "", err
	}
	c.cache.Set(secretName, value, 0)
	return value, nil
}

// handleError wraps SDK errors with the operation name. API errors are
// flattened to their code and message.
func (c *Client) handleError(err error, operation string) error {
	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		return fmt.Errorf("%s operation failed: %s: %s",
			operation, apiErr.ErrorCode(), apiErr.ErrorMessage())
	}
	return fmt.Errorf("%s operation failed: %w", operation, err)
}
