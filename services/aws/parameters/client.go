package parameters

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/ssm"
	"github.com/aws/smithy-go"

	"github.com/teamhava/hava-integration-controltower/services/aws/internal/cache"
)

// AWS error code constants
const (
	ParameterNotFound     = "ParameterNotFound"
	AccessDeniedException = "AccessDeniedException"
)

// Client reads parameters from the SSM parameter store.
type Client struct {
	api     SSMAPI
	logger  *slog.Logger
	cache   Cache
	decrypt bool
}

// NewClient creates a client over an existing SSMAPI.
func NewClient(api SSMAPI, opts ...Option) (*Client, error) {
	if api == nil {
		return nil, fmt.Errorf("ssm api cannot be nil")
	}

	options := defaultOptions()
	applyOptions(options, opts)

	return &Client{
		api:     api,
		logger:  options.logger,
		cache:   options.cache,
		decrypt: options.decrypt,
	}, nil
}

// NewClientWithConfig creates a client from an AWS configuration.
func NewClientWithConfig(cfg *aws.Config, opts ...Option) (*Client, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config cannot be nil")
	}
	if cfg.Region == "" {
		return nil, fmt.Errorf("config region cannot be empty")
	}
	return NewClient(ssm.NewFromConfig(*cfg), opts...)
}

// NewClientWithLocalStack creates a client for a LocalStack endpoint.
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

	api := ssm.NewFromConfig(cfg, func(o *ssm.Options) {
		o.BaseEndpoint = aws.String(endpointURL)
	})
	return NewClient(api, opts...)
}

// NewCache returns an in-memory Cache whose entries live for ttl.
func NewCache(ttl time.Duration) Cache {
	return cache.New[string](ttl, 0)
}

// GetParameter returns the (decrypted) value of the named parameter.
func (c *Client) GetParameter(ctx context.Context, name string) (string, error) {
	if name == "" {
		return "", fmt.Errorf("parameter name cannot be empty")
	}

	if c.cache != nil {
		if value, found := c.cache.Get(name); found {
			return value, nil
		}
	}

	output, err := c.api.GetParameter(ctx, &ssm.GetParameterInput{
		Name:           aws.String(name),
		WithDecryption: aws.Bool(c.decrypt),
	})
	if err != nil {
		return "", c.handleError(ctx, err, name)
	}

	if output.Parameter == nil || aws.ToString(output.Parameter.Value) == "" {
		return "", fmt.Errorf("GetParameter %s: %w", name, ErrParameterEmpty)
	}
	value := aws.ToString(output.Parameter.Value)

	if c.cache != nil {
		c.cache.Set(name, value, 0)
	}
	if c.logger != nil {
		c.logger.InfoContext(ctx, "parameter retrieved", "parameter_name", name)
	}
	return value, nil
}

// handleError maps SSM errors to the package sentinels.
func (c *Client) handleError(ctx context.Context, err error, name string) error {
	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.ErrorCode() {
		case ParameterNotFound:
			return fmt.Errorf("GetParameter %s: %w", name, ErrParameterNotFound)
		case AccessDeniedException:
			return fmt.Errorf("GetParameter %s: %w", name, ErrAccessDenied)
		}
	}

	if c.logger != nil {
		c.logger.ErrorContext(ctx, "failed to retrieve parameter",
			"parameter_name", name,
			"error", err)
	}
	return fmt.Errorf("GetParameter %s: %w", name, err)
}
