package orgsync

import (
	"context"

	"github.com/teamhava/hava-integration-controltower/hava"
	"github.com/teamhava/hava-integration-controltower/services/aws/iamrole"
	"github.com/teamhava/hava-integration-controltower/services/aws/organizations"
)

// Inventory is the Hava sources API. It is satisfied by *hava.Client.
type Inventory interface {
	ListSources(ctx context.Context) ([]hava.TrackedSource, error)
	DeleteSource(ctx context.Context, id string) (hava.Outcome, error)
	CreateSource(ctx context.Context, req hava.CreateSourceRequest) (hava.Outcome, error)
}

// AccountLister lists the organization's active accounts. It is satisfied by
// *organizations.Walker.
type AccountLister interface {
	Accounts(ctx context.Context) ([]organizations.Account, error)
}

// RoleProvisioner ensures the read-only role in a member account. It is
// satisfied by *iamrole.Provisioner.
type RoleProvisioner interface {
	Ensure(ctx context.Context, accountID string) (iamrole.Outcome, error)
	RoleARN(accountID string) string
}

// Reporter persists the result of a run.
type Reporter interface {
	Report(ctx context.Context, result *Result) error
}
