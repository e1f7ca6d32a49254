//go:build integration

// Integration tests for the role provisioner against LocalStack's STS and IAM.
//
//	go test -tags=integration ./services/aws/iamrole/...
package iamrole_test

import (
	"context"
	"fmt"
	"net/url"
	"os"
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/iam"
	"github.com/docker/go-connections/nat"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/localstack"

	"github.com/teamhava/hava-integration-controltower/services/aws/iamrole"
)

// LocalStack's default account.
const accountID = "000000000000"

var awsCfg aws.Config

func TestMain(m *testing.M) {
	ctx := context.Background()

	container, err := localstack.Run(ctx, "localstack/localstack:latest",
		testcontainers.WithEnv(map[string]string{"SERVICES": "iam,sts"}),
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
	if _, err := url.Parse(uri); err != nil {
		_ = testcontainers.TerminateContainer(container)
		fmt.Fprintf(os.Stderr, "Invalid LocalStack endpoint %q: %v\n", uri, err)
		os.Exit(1)
	}

	awsCfg, err = config.LoadDefaultConfig(ctx,
		config.WithRegion("us-east-1"),
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider("test", "test", "")),
		config.WithBaseEndpoint(uri),
	)
	if err != nil {
		_ = testcontainers.TerminateContainer(container)
		fmt.Fprintf(os.Stderr, "Failed to load AWS config: %v\n", err)
		os.Exit(1)
	}

	code := m.Run()

	if err := testcontainers.TerminateContainer(container); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to terminate LocalStack: %v\n", err)
	}
	os.Exit(code)
}

func TestEnsure_CreatesThenFindsRole(t *testing.T) {
	ctx := context.Background()
	trust := iamrole.Trust{OwnerAccountID: "281013829959", ExternalID: "integration-ext"}

	p, err := iamrole.NewProvisionerFromConfig(awsCfg, trust, iamrole.WithRoleName("HavaROIntegration"))
	require.NoError(t, err)

	outcome, err := p.Ensure(ctx, accountID)
	require.NoError(t, err)
	assert.Equal(t, iamrole.OutcomeCreated, outcome)

	outcome, err = p.Ensure(ctx, accountID)
	require.NoError(t, err)
	assert.Equal(t, iamrole.OutcomeExists, outcome)

	role, err := iam.NewFromConfig(awsCfg).GetRole(ctx, &iam.GetRoleInput{RoleName: aws.String("HavaROIntegration")})
	require.NoError(t, err)
	doc, err := url.QueryUnescape(aws.ToString(role.Role.AssumeRolePolicyDocument))
	require.NoError(t, err)
	assert.Contains(t, doc, "integration-ext")

	policies, err := iam.NewFromConfig(awsCfg).ListAttachedRolePolicies(ctx, &iam.ListAttachedRolePoliciesInput{
		RoleName: aws.String("HavaROIntegration"),
	})
	require.NoError(t, err)
	require.Len(t, policies.AttachedPolicies, 1)
	assert.Equal(t, iamrole.ReadOnlyAccessPolicyARN, aws.ToString(policies.AttachedPolicies[0].PolicyArn))
}

func TestEnsure_DryRunDoesNotCreate(t *testing.T) {
	ctx := context.Background()
	trust := iamrole.Trust{OwnerAccountID: "281013829959", ExternalID: "integration-ext"}

	p, err := iamrole.NewProvisionerFromConfig(awsCfg, trust,
		iamrole.WithRoleName("HavaRODryRun"),
		iamrole.WithDryRun(true),
	)
	require.NoError(t, err)

	outcome, err := p.Ensure(ctx, accountID)
	require.NoError(t, err)
	assert.Equal(t, iamrole.OutcomeWouldCreate, outcome)

	_, err = iam.NewFromConfig(awsCfg).GetRole(ctx, &iam.GetRoleInput{RoleName: aws.String("HavaRODryRun")})
	assert.Error(t, err)
}
