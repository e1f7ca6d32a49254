package iamrole

import (
	"context"
	"log/slog"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/iam"
	"github.com/aws/aws-sdk-go-v2/service/sts"
	ststypes "github.com/aws/aws-sdk-go-v2/service/sts/types"
	"github.com/aws/smithy-go"

	"github.com/teamhava/hava-integration-controltower/errors"
)

const (
	// DefaultRoleName is the read-only role Hava assumes.
	DefaultRoleName = "HavaRO"

	// DefaultExecutionRoleName is the Control Tower role assumed in member accounts.
	DefaultExecutionRoleName = "AWSControlTowerExecution"

	// DefaultSessionName is the STS session name.
	DefaultSessionName = "hava-session"

	// ReadOnlyAccessPolicyARN is the managed policy attached to the role.
	ReadOnlyAccessPolicyARN = "arn:aws:iam::aws:policy/ReadOnlyAccess"

	// RoleDescription is set on created roles.
	RoleDescription = "Read only role for Hava.io"
)

// AWS error code constants
const (
	NoSuchEntity        = "NoSuchEntity"
	EntityAlreadyExists = "EntityAlreadyExists"
)

// Outcome is the result of a successful Ensure.
type Outcome int

const (
	// OutcomeExists means the role was already present.
	OutcomeExists Outcome = iota

	// OutcomeCreated means the role was created and the policy attached.
	OutcomeCreated

	// OutcomeWouldCreate means the role is missing and dry run skipped creating it.
	OutcomeWouldCreate
)

// String returns the outcome name used in logs and reports.
func (o Outcome) String() string {
	switch o {
	case OutcomeExists:
		return "exists"
	case OutcomeCreated:
		return "created"
	case OutcomeWouldCreate:
		return "would_create"
	default:
		return "unknown"
	}
}

// Trust identifies who may assume the read-only role.
type Trust struct {
	// OwnerAccountID is the Hava account allowed to assume the role.
	OwnerAccountID string

	// ExternalID must be presented by the owner when assuming the role.
	ExternalID string
}

// Provisioner ensures the read-only role exists in member accounts.
type Provisioner struct {
	sts    STSAPI
	newIAM IAMClientFactory
	trust  Trust
	logger *slog.Logger

	dryRun            bool
	roleName          string
	executionRoleName string
	sessionName       string
	policyARN         string
}

// NewProvisioner creates a Provisioner.
func NewProvisioner(stsAPI STSAPI, newIAM IAMClientFactory, trust Trust, opts ...Option) (*Provisioner, error) {
	if stsAPI == nil {
		return nil, errors.New(errors.CodeInvalidInput, "sts client cannot be nil")
	}
	if newIAM == nil {
		return nil, errors.New(errors.CodeInvalidInput, "iam client factory cannot be nil")
	}
	if trust.OwnerAccountID == "" || trust.ExternalID == "" {
		return nil, errors.New(errors.CodeInvalidInput, "trust owner and external id are required")
	}

	options := defaultOptions()
	applyOptions(options, opts)

	return &Provisioner{
		sts:               stsAPI,
		newIAM:            newIAM,
		trust:             trust,
		logger:            options.logger,
		dryRun:            options.dryRun,
		roleName:          options.roleName,
		executionRoleName: options.executionRoleName,
		sessionName:       options.sessionName,
		policyARN:         options.policyARN,
	}, nil
}

// NewProvisionerFromConfig creates a Provisioner whose STS client and per-account
// IAM clients are built from cfg.
func NewProvisionerFromConfig(cfg aws.Config, trust Trust, opts ...Option) (*Provisioner, error) {
	return NewProvisioner(sts.NewFromConfig(cfg), NewIAMClientFactory(cfg), trust, opts...)
}

// NewIAMClientFactory returns a factory building IAM clients from cfg with the
// credentials replaced by the assumed role's.
func NewIAMClientFactory(cfg aws.Config) IAMClientFactory {
	return func(creds *ststypes.Credentials) IAMAPI {
		return iam.NewFromConfig(cfg, func(o *iam.Options) {
			o.Credentials = credentials.NewStaticCredentialsProvider(
				aws.ToString(creds.AccessKeyId),
				aws.ToString(creds.SecretAccessKey),
				aws.ToString(creds.SessionToken),
			)
		})
	}
}

// RoleARN returns the ARN of the read-only role in accountID.
func (p *Provisioner) RoleARN(accountID string) string {
	return RoleARN(accountID, p.roleName)
}

// Ensure makes sure the read-only role exists in accountID with the
// ReadOnlyAccess policy attached.
//
// A failed role assumption returns CodeRoleAssumption, which callers treat as
// "skip this account". Any other failure returns CodeRoleProvisioning.
func (p *Provisioner) Ensure(ctx context.Context, accountID string) (Outcome, error) {
	creds, err := p.assume(ctx, accountID)
	if err != nil {
		return 0, err
	}

	client := p.newIAM(creds)

	_, err = client.GetRole(ctx, &iam.GetRoleInput{RoleName: aws.String(p.roleName)})
	if err == nil {
		if p.logger != nil {
			p.logger.InfoContext(ctx, "read-only role exists",
				"account_id", accountID,
				"role_name", p.roleName)
		}
		return p.repair(ctx, client, accountID)
	}
	if !hasAPICode(err, NoSuchEntity) {
		return 0, errors.WrapWithContext(err, errors.CodeRoleProvisioning, "failed to check read-only role",
			map[string]interface{}{"account_id": accountID, "role_name": p.roleName})
	}

	if p.dryRun {
		if p.logger != nil {
			p.logger.InfoContext(ctx, "dry run: would create read-only role",
				"account_id", accountID,
				"role_name", p.roleName)
		}
		return OutcomeWouldCreate, nil
	}

	return p.create(ctx, client, accountID)
}

// assume enters accountID through the execution role.
func (p *Provisioner) assume(ctx context.Context, accountID string) (*ststypes.Credentials, error) {
	roleARN := RoleARN(accountID, p.executionRoleName)

	out, err := p.sts.AssumeRole(ctx, &sts.AssumeRoleInput{
		RoleArn:         aws.String(roleARN),
		RoleSessionName: aws.String(p.sessionName),
	})
	if err == nil && (out == nil || out.Credentials == nil) {
		err = errors.New(errors.CodeInvalidResponse, "assume role returned no credentials")
	}
	if err != nil {
		return nil, errors.WrapWithContext(err, errors.CodeRoleAssumption, "failed to assume execution role",
			map[string]interface{}{"account_id": accountID, "role_arn": roleARN})
	}

	if p.logger != nil {
		p.logger.DebugContext(ctx, "assumed execution role", "account_id", accountID)
	}
	return out.Credentials, nil
}

// create creates the role and attaches the read-only policy.
func (p *Provisioner) create(ctx context.Context, client IAMAPI, accountID string) (Outcome, error) {
	policy, err := TrustPolicy(p.trust.OwnerAccountID, p.trust.ExternalID)
	if err != nil {
		return 0, errors.Wrap(err, errors.CodeInternal, "failed to build trust policy")
	}

	errCtx := map[string]interface{}{"account_id": accountID, "role_name": p.roleName}

	_, err = client.CreateRole(ctx, &iam.CreateRoleInput{
		RoleName:                 aws.String(p.roleName),
		AssumeRolePolicyDocument: aws.String(policy),
		Description:              aws.String(RoleDescription),
	})
	switch {
	case err == nil:
	case hasAPICode(err, EntityAlreadyExists):
		// Created between GetRole and CreateRole.
		return p.repair(ctx, client, accountID)
	default:
		return 0, errors.WrapWithContext(err, errors.CodeRoleProvisioning, "failed to create read-only role", errCtx)
	}

	if err := p.attachPolicy(ctx, client, accountID); err != nil {
		return 0, err
	}

	if p.logger != nil {
		p.logger.InfoContext(ctx, "created read-only role",
			"account_id", accountID,
			"role_name", p.roleName,
			"policy_arn", p.policyARN)
	}
	return OutcomeCreated, nil
}

// repair attaches the read-only policy to a role that already exists, so a
// role left without it by an interrupted run is completed. Attaching an
// attached policy is a no-op in IAM. Dry run leaves the role untouched.
func (p *Provisioner) repair(ctx context.Context, client IAMAPI, accountID string) (Outcome, error) {
	if p.dryRun {
		return OutcomeExists, nil
	}
	if err := p.attachPolicy(ctx, client, accountID); err != nil {
		return 0, err
	}
	return OutcomeExists, nil
}

func (p *Provisioner) attachPolicy(ctx context.Context, client IAMAPI, accountID string) error {
	_, err := client.AttachRolePolicy(ctx, &iam.AttachRolePolicyInput{
		RoleName:  aws.String(p.roleName),
		PolicyArn: aws.String(p.policyARN),
	})
	if err != nil {
		return errors.WrapWithContext(err, errors.CodeRoleProvisioning, "failed to attach read-only policy",
			map[string]interface{}{"account_id": accountID, "role_name": p.roleName})
	}
	return nil
}

func hasAPICode(err error, code string) bool {
	var apiErr smithy.APIError
	return errors.As(err, &apiErr) && apiErr.ErrorCode() == code
}
