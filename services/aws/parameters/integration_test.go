//go:build integration

// Integration tests for the SSM parameter client against LocalStack.
//
//	go test -tags=integration ./services/aws/...
//
// Docker must be running.
package parameters_test

import (
	"context"
	"fmt"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/ssm"
	ssmtypes "github.com/aws/aws-sdk-go-v2/service/ssm/types"
	"github.com/docker/go-connections/nat"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/localstack"

	"github.com/teamhava/hava-integration-controltower/services/aws/parameters"
)

var endpoint string

func TestMain(m *testing.M) {
	ctx := context.Background()

	container, err := localstack.Run(ctx, "localstack/localstack:latest",
		testcontainers.WithEnv(map[string]string{"SERVICES": "ssm"}),
	)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to start LocalStack: %v\n", err)
		os.Exit(1)
	}

	port, _ := nat.NewPort("tcp", "4566")
	uri, err := container.PortEndpoint(ctx, port, "")
	if err != nil {
		_ = testcontainers.TerminateContainer(container)
		fmt.Fprintf(os.Stderr, "Failed to get LocalStack endpoint: %v\n", err)
		os.Exit(1)
	}
	if !strings.HasPrefix(uri, "http://") && !strings.HasPrefix(uri, "https://") {
		uri = "http://" + uri
	}
	endpoint = uri

	code := m.Run()

	if err := testcontainers.TerminateContainer(container); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to terminate LocalStack: %v\n", err)
	}
	os.Exit(code)
}

// seed creates a SecureString parameter directly through the SDK.
func seed(ctx context.Context, t *testing.T, name, value string) {
	t.Helper()

	cfg, err := config.LoadDefaultConfig(ctx,
		config.WithRegion("us-east-1"),
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider("test", "test", "")),
	)
	require.NoError(t, err)

	api := ssm.NewFromConfig(cfg, func(o *ssm.Options) {
		o.BaseEndpoint = aws.String(endpoint)
	})
	_, err = api.PutParameter(ctx, &ssm.PutParameterInput{
		Name:  aws.String(name),
		Value: aws.String(value),
		Type:  ssmtypes.ParameterTypeSecureString,
	})
	require.NoError(t, err)
}

func TestGetParameter(t *testing.T) {
	ctx := context.Background()
	name := fmt.Sprintf("/hava/api-key-%d", time.Now().UnixNano())
	seed(ctx, t, name, "integration-key")

	client, err := parameters.NewClientWithLocalStack(ctx, endpoint, parameters.WithCache(parameters.NewCache(time.Minute)))
	require.NoError(t, err)

	value, err := client.GetParameter(ctx, name)
	require.NoError(t, err)
	assert.Equal(t, "integration-key", value)
}

func TestGetParameterNotFound(t *testing.T) {
	ctx := context.Background()

	client, err := parameters.NewClientWithLocalStack(ctx, endpoint)
	require.NoError(t, err)

	_, err = client.GetParameter(ctx, "/hava/does-not-exist")
	assert.ErrorIs(t, err, parameters.ErrParameterNotFound)
}
