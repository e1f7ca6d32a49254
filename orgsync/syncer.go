// Package orgsync runs one reconciliation between Hava and an AWS
// organization: fetch the tracked sources, walk the organization, plan the
// difference, delete stale sources, ensure the read-only role in new accounts
// and register them with Hava.
//
// Every stage runs in order on the calling goroutine. Per-account role
// assumption failures skip that account; any other error aborts the run.
package orgsync

import (
	"context"
	stderrors "errors"
	"log/slog"

	"github.com/teamhava/hava-integration-controltower/config"
	"github.com/teamhava/hava-integration-controltower/errors"
	"github.com/teamhava/hava-integration-controltower/hava"
	"github.com/teamhava/hava-integration-controltower/logging"
	"github.com/teamhava/hava-integration-controltower/reconcile"
	"github.com/teamhava/hava-integration-controltower/services/aws/iamrole"
	"github.com/teamhava/hava-integration-controltower/services/aws/organizations"
)

// Outcomes recorded for mutations skipped in dry run.
const (
	OutcomeWouldDelete = "would_delete"
	OutcomeWouldAdd    = "would_add"
	OutcomeSkipped     = "skipped"
)

// Syncer reconciles Hava sources with the organization.
type Syncer struct {
	cfg       *config.Config
	inventory Inventory
	accounts  AccountLister
	roles     RoleProvisioner
	opts      *syncerOptions
	logger    *slog.Logger
}

// NewSyncer creates a Syncer. cfg supplies the external id, dry-run flag and
// run deadline; it is not modified.
func NewSyncer(
	cfg *config.Config,
	inventory Inventory,
	accounts AccountLister,
	roles RoleProvisioner,
	opts ...Option,
) (*Syncer, error) {
	switch {
	case cfg == nil:
		return nil, errors.New(errors.CodeInvalidInput, "config cannot be nil")
	case inventory == nil:
		return nil, errors.New(errors.CodeInvalidInput, "inventory cannot be nil")
	case accounts == nil:
		return nil, errors.New(errors.CodeInvalidInput, "account lister cannot be nil")
	case roles == nil:
		return nil, errors.New(errors.CodeInvalidInput, "role provisioner cannot be nil")
	}

	options := defaultOptions()
	applyOptions(options, opts)

	logger := options.logger
	if logger == nil {
		logger = logging.Discard()
	}

	return &Syncer{
		cfg:       cfg,
		inventory: inventory,
		accounts:  accounts,
		roles:     roles,
		opts:      options,
		logger:    logger,
	}, nil
}

// Run performs one reconciliation under the configured run deadline.
// The returned Result is never nil; on failure it describes the work done
// before the error.
func (s *Syncer) Run(ctx context.Context) (*Result, error) {
	result := newResult(s.opts.newRunID(), s.cfg.DryRun, s.opts.now())
	logger := s.logger.With("run_id", result.RunID, "dry_run", result.DryRun)

	logger.InfoContext(ctx, "starting reconciliation")

	runCtx, cancel := context.WithTimeout(ctx, s.cfg.RunTimeout)
	defer cancel()

	err := s.run(runCtx, logger, result)
	if err != nil && stderrors.Is(runCtx.Err(), context.DeadlineExceeded) {
		err = errors.WrapWithContext(err, errors.CodeTimeout, "run deadline exceeded",
			map[string]interface{}{"timeout": s.cfg.RunTimeout.String()})
	}

	result.FinishedAt = s.opts.now()
	if err != nil {
		result.Error = err.Error()
		logger.ErrorContext(ctx, "reconciliation failed",
			"error", err,
			"code", string(errors.GetCode(err)))
	} else {
		logger.InfoContext(ctx, "reconciliation finished",
			"deleted", len(result.Deleted),
			"added", len(result.Added),
			"skipped", len(result.Skipped),
			"duration", result.Duration().String())
	}

	if s.opts.reporter != nil {
		if rerr := s.opts.reporter.Report(ctx, result); rerr != nil {
			logger.WarnContext(ctx, "failed to write run report", "error", rerr)
		}
	}

	return result, err
}

func (s *Syncer) run(ctx context.Context, logger *slog.Logger, result *Result) error {
	sources, err := s.inventory.ListSources(ctx)
	if err != nil {
		return err
	}
	tracked := hava.ParseTrackedSources(sources)
	result.TrackedSources = len(tracked)
	logger.InfoContext(ctx, "fetched tracked sources",
		"sources", len(sources),
		"tracked", len(tracked))

	accounts, err := s.accounts.Accounts(ctx)
	if err != nil {
		return err
	}
	result.OrgAccounts = len(accounts)

	plan := reconcile.Plan(tracked, accounts)
	result.Plan = plan
	logger.InfoContext(ctx, "computed reconciliation",
		"to_delete", len(plan.Delete),
		"to_add", len(plan.Add))

	if err := s.deleteSources(ctx, logger, plan.Delete, result); err != nil {
		return err
	}

	valid, err := s.ensureRoles(ctx, logger, plan.Add, result)
	if err != nil {
		return err
	}

	return s.addSources(ctx, logger, valid, result)
}

// deleteSources removes sources whose account left the organization.
func (s *Syncer) deleteSources(
	ctx context.Context,
	logger *slog.Logger,
	stale []hava.ReconciledAccount,
	result *Result,
) error {
	for _, src := range stale {
		action := Action{
			AccountID: src.AWSAccountID,
			Name:      src.Name,
			SourceID:  src.ID,
			RoleARN:   src.RoleARN,
		}

		if s.cfg.DryRun {
			logger.InfoContext(ctx, "dry run: would delete source",
				"source_id", src.ID,
				"account_id", src.AWSAccountID)
			action.Outcome = OutcomeWouldDelete
			result.Deleted = append(result.Deleted, action)
			continue
		}

		outcome, err := s.inventory.DeleteSource(ctx, src.ID)
		if err != nil {
			return err
		}

		if outcome == hava.OutcomeNotFound {
			logger.InfoContext(ctx, "source already deleted",
				"source_id", src.ID,
				"account_id", src.AWSAccountID)
		} else {
			logger.InfoContext(ctx, "deleted source",
				"source_id", src.ID,
				"account_id", src.AWSAccountID)
		}
		action.Outcome = outcome.String()
		result.Deleted = append(result.Deleted, action)
	}
	return nil
}

// ensureRoles provisions the read-only role and returns the accounts that can
// be registered. Accounts whose execution role cannot be assumed are skipped.
func (s *Syncer) ensureRoles(
	ctx context.Context,
	logger *slog.Logger,
	candidates []organizations.Account,
	result *Result,
) ([]organizations.Account, error) {
	valid := make([]organizations.Account, 0, len(candidates))

	for _, acct := range candidates {
		outcome, err := s.roles.Ensure(ctx, acct.ID)
		if err != nil {
			if errors.IsFatal(err) {
				return nil, err
			}
			logger.WarnContext(ctx, "skipping account",
				"account_id", acct.ID,
				"account_name", acct.Name,
				"error", err)
			result.Skipped = append(result.Skipped, Action{
				AccountID: acct.ID,
				Name:      acct.Name,
				Outcome:   OutcomeSkipped,
				Reason:    string(errors.GetCode(err)),
			})
			continue
		}

		result.Roles = append(result.Roles, Action{
			AccountID: acct.ID,
			Name:      acct.Name,
			RoleARN:   s.roles.RoleARN(acct.ID),
			Outcome:   outcome.String(),
		})
		if outcome == iamrole.OutcomeCreated {
			logger.InfoContext(ctx, "created read-only role", "account_id", acct.ID)
		}
		valid = append(valid, acct)
	}

	return valid, nil
}

// addSources registers accounts with Hava.
func (s *Syncer) addSources(
	ctx context.Context,
	logger *slog.Logger,
	accounts []organizations.Account,
	result *Result,
) error {
	if len(accounts) == 0 {
		logger.InfoContext(ctx, "no accounts to add")
		return nil
	}

	for _, acct := range accounts {
		req := hava.CreateSourceRequest{
			Name:       acct.Name,
			Type:       hava.CreateSourceTypeCrossAccountRole,
			ExternalID: s.cfg.ExternalID,
			RoleARN:    s.roles.RoleARN(acct.ID),
		}
		action := Action{AccountID: acct.ID, Name: acct.Name, RoleARN: req.RoleARN}

		if s.cfg.DryRun {
			logger.InfoContext(ctx, "dry run: would add source",
				"account_id", acct.ID,
				"role_arn", req.RoleARN)
			action.Outcome = OutcomeWouldAdd
			result.Added = append(result.Added, action)
			continue
		}

		outcome, err := s.inventory.CreateSource(ctx, req)
		if err != nil {
			return err
		}

		if outcome == hava.OutcomeAlreadyExists {
			logger.InfoContext(ctx, "source already exists", "account_id", acct.ID)
		} else {
			logger.InfoContext(ctx, "added source",
				"account_id", acct.ID,
				"role_arn", req.RoleARN)
		}
		action.Outcome = outcome.String()
		result.Added = append(result.Added, action)
	}
	return nil
}
