package iamrole

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/service/iam"
	"github.com/aws/aws-sdk-go-v2/service/sts"
	ststypes "github.com/aws/aws-sdk-go-v2/service/sts/types"
)

// STSAPI defines the STS operations used to enter member accounts.
type STSAPI interface {
	// AssumeRole returns temporary credentials for a role in another account.
	AssumeRole(
		ctx context.Context,
		params *sts.AssumeRoleInput,
		optFns ...func(*sts.Options),
	) (*sts.AssumeRoleOutput, error)
}

// IAMAPI defines the IAM operations run inside a member account.
type IAMAPI interface {
	// GetRole retrieves a role by name.
	GetRole(
		ctx context.Context,
		params *iam.GetRoleInput,
		optFns ...func(*iam.Options),
	) (*iam.GetRoleOutput, error)

	// CreateRole creates a role with a trust policy.
	CreateRole(
		ctx context.Context,
		params *iam.CreateRoleInput,
		optFns ...func(*iam.Options),
	) (*iam.CreateRoleOutput, error)

	// AttachRolePolicy attaches a managed policy to a role.
	AttachRolePolicy(
		ctx context.Context,
		params *iam.AttachRolePolicyInput,
		optFns ...func(*iam.Options),
	) (*iam.AttachRolePolicyOutput, error)
}

// IAMClientFactory builds an IAM client that signs with the given temporary
// credentials.
type IAMClientFactory func(creds *ststypes.Credentials) IAMAPI
