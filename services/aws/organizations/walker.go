package organizations

import (
	"context"
	"log/slog"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/organizations"
	"github.com/aws/aws-sdk-go-v2/service/organizations/types"

	"github.com/teamhava/hava-integration-controltower/errors"
)

// statusActive is the account status kept by the walk.
const statusActive = "ACTIVE"

// Account is an active, non-blocklisted member account.
type Account struct {
	ID   string `json:"id" yaml:"id"`
	Name string `json:"name" yaml:"name"`
}

// Walker traverses an organization tree.
type Walker struct {
	api              OrganizationsAPI
	logger           *slog.Logger
	accountBlocklist map[string]struct{}
	ouBlocklist      map[string]struct{}
	pageSize         int32
}

// NewWalker creates a Walker over the given API.
//
// Example usage:
//
//	w := organizations.NewWalkerFromConfig(cfg,
//	    organizations.WithOUBlocklist("ou-ab12-cd34efgh"),
//	    organizations.WithLogger(logger),
//	)
//	accounts, err := w.Accounts(ctx)
func NewWalker(api OrganizationsAPI, opts ...Option) *Walker {
	options := defaultOptions()
	applyOptions(options, opts)

	return &Walker{
		api:              api,
		logger:           options.logger,
		accountBlocklist: options.accountBlocklist,
		ouBlocklist:      options.ouBlocklist,
		pageSize:         options.pageSize,
	}
}

// NewWalkerFromConfig creates a Walker backed by an Organizations client built
// from cfg.
func NewWalkerFromConfig(cfg aws.Config, opts ...Option) *Walker {
	return NewWalker(organizations.NewFromConfig(cfg), opts...)
}

// Root returns the first root of the organization. It fails with CodeNoRoot
// when the organization reports none.
func (w *Walker) Root(ctx context.Context) (types.Root, error) {
	out, err := w.api.ListRoots(ctx, &organizations.ListRootsInput{})
	if err != nil {
		return types.Root{}, errors.Wrap(err, errors.CodeOrganizations, "failed to list organization roots")
	}
	if len(out.Roots) == 0 {
		return types.Root{}, errors.New(errors.CodeNoRoot, "organization has no root")
	}
	return out.Roots[0], nil
}

// Accounts discovers the root and walks the whole organization.
func (w *Walker) Accounts(ctx context.Context) ([]Account, error) {
	root, err := w.Root(ctx)
	if err != nil {
		return nil, err
	}

	rootID := aws.ToString(root.Id)
	if w.logger != nil {
		w.logger.InfoContext(ctx, "walking organization", "root_id", rootID)
	}

	accounts, err := w.Walk(ctx, rootID)
	if err != nil {
		return nil, err
	}

	if w.logger != nil {
		w.logger.InfoContext(ctx, "found organization accounts", "count", len(accounts))
	}
	return accounts, nil
}

// Walk returns the active, non-blocklisted accounts beneath parentID in
// pre-order. A blocklisted parent yields an empty result.
func (w *Walker) Walk(ctx context.Context, parentID string) ([]Account, error) {
	if w.ouBlocked(parentID) {
		if w.logger != nil {
			w.logger.InfoContext(ctx, "skipping blocklisted organizational unit", "ou_id", parentID)
		}
		return []Account{}, nil
	}

	accounts, err := w.childAccounts(ctx, parentID)
	if err != nil {
		return nil, err
	}

	children, err := w.childUnits(ctx, parentID)
	if err != nil {
		return nil, err
	}

	for _, ou := range children {
		sub, err := w.Walk(ctx, ou)
		if err != nil {
			return nil, err
		}
		accounts = append(accounts, sub...)
	}

	return accounts, nil
}

// childAccounts drains every page of direct child accounts and filters them.
func (w *Walker) childAccounts(ctx context.Context, parentID string) ([]Account, error) {
	p := organizations.NewListAccountsForParentPaginator(w.api, &organizations.ListAccountsForParentInput{
		ParentId:   aws.String(parentID),
		MaxResults: aws.Int32(w.pageSize),
	})

	accounts := make([]Account, 0)
	for p.HasMorePages() {
		page, err := p.NextPage(ctx)
		if err != nil {
			return nil, errors.WrapWithContext(err, errors.CodeOrganizations, "failed to list accounts",
				map[string]interface{}{"parent_id": parentID})
		}

		for _, a := range page.Accounts {
			id := aws.ToString(a.Id)
			if !w.keepAccount(ctx, a) {
				continue
			}
			accounts = append(accounts, Account{ID: id, Name: aws.ToString(a.Name)})
		}
	}

	return accounts, nil
}

// childUnits drains every page of direct child OU ids.
func (w *Walker) childUnits(ctx context.Context, parentID string) ([]string, error) {
	p := organizations.NewListOrganizationalUnitsForParentPaginator(w.api,
		&organizations.ListOrganizationalUnitsForParentInput{
			ParentId:   aws.String(parentID),
			MaxResults: aws.Int32(w.pageSize),
		})

	ids := make([]string, 0)
	for p.HasMorePages() {
		page, err := p.NextPage(ctx)
		if err != nil {
			return nil, errors.WrapWithContext(err, errors.CodeOrganizations, "failed to list organizational units",
				map[string]interface{}{"parent_id": parentID})
		}
		for _, ou := range page.OrganizationalUnits {
			ids = append(ids, aws.ToString(ou.Id))
		}
	}

	return ids, nil
}

// keepAccount applies the status and blocklist filters.
func (w *Walker) keepAccount(ctx context.Context, a types.Account) bool {
	id := aws.ToString(a.Id)

	if !strings.EqualFold(string(a.Status), statusActive) {
		if w.logger != nil {
			w.logger.DebugContext(ctx, "skipping inactive account", "account_id", id, "status", string(a.Status))
		}
		return false
	}

	if _, blocked := w.accountBlocklist[strings.ToLower(id)]; blocked {
		if w.logger != nil {
			w.logger.InfoContext(ctx, "skipping blocklisted account", "account_id", id)
		}
		return false
	}

	return true
}

func (w *Walker) ouBlocked(id string) bool {
	_, blocked := w.ouBlocklist[strings.ToLower(id)]
	return blocked
}
