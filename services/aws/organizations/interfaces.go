package organizations

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/service/organizations"
)

// OrganizationsAPI defines the subset of the AWS Organizations client used by
// the Walker. It is satisfied by *organizations.Client and by test mocks.
type OrganizationsAPI interface {
	// ListRoots lists the roots of the organization.
	ListRoots(
		ctx context.Context,
		params *organizations.ListRootsInput,
		optFns ...func(*organizations.Options),
	) (*organizations.ListRootsOutput, error)

	// ListAccountsForParent lists the accounts directly under a root or OU.
	ListAccountsForParent(
		ctx context.Context,
		params *organizations.ListAccountsForParentInput,
		optFns ...func(*organizations.Options),
	) (*organizations.ListAccountsForParentOutput, error)

	// ListOrganizationalUnitsForParent lists the OUs directly under a root or OU.
	ListOrganizationalUnitsForParent(
		ctx context.Context,
		params *organizations.ListOrganizationalUnitsForParentInput,
		optFns ...func(*organizations.Options),
	) (*organizations.ListOrganizationalUnitsForParentOutput, error)
}
