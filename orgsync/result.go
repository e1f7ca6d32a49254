package orgsync

import (
	"time"

	"github.com/teamhava/hava-integration-controltower/reconcile"
)

// Action records what happened to one account during a run.
type Action struct {
	AccountID string `json:"account_id" yaml:"account_id"`
	Name      string `json:"name,omitempty" yaml:"name,omitempty"`
	SourceID  string `json:"source_id,omitempty" yaml:"source_id,omitempty"`
	RoleARN   string `json:"role_arn,omitempty" yaml:"role_arn,omitempty"`
	Outcome   string `json:"outcome" yaml:"outcome"`
	Reason    string `json:"reason,omitempty" yaml:"reason,omitempty"`
}

// Result summarises a run. It is returned even when the run fails, holding
// whatever was done before the failure.
type Result struct {
	RunID      string    `json:"run_id" yaml:"run_id"`
	DryRun     bool      `json:"dry_run" yaml:"dry_run"`
	StartedAt  time.Time `json:"started_at" yaml:"started_at"`
	FinishedAt time.Time `json:"finished_at" yaml:"finished_at"`

	TrackedSources int `json:"tracked_sources" yaml:"tracked_sources"`
	OrgAccounts    int `json:"org_accounts" yaml:"org_accounts"`

	// Plan is the reconciliation computed from the fetched data.
	Plan *reconcile.Result `json:"plan,omitempty" yaml:"plan,omitempty"`

	Deleted []Action `json:"deleted" yaml:"deleted"`
	Roles   []Action `json:"roles" yaml:"roles"`
	Skipped []Action `json:"skipped" yaml:"skipped"`
	Added   []Action `json:"added" yaml:"added"`

	// Error is the fatal error that ended the run, if any.
	Error string `json:"error,omitempty" yaml:"error,omitempty"`
}

func newResult(runID string, dryRun bool, now time.Time) *Result {
	return &Result{
		RunID:     runID,
		DryRun:    dryRun,
		StartedAt: now,
		Deleted:   []Action{},
		Roles:     []Action{},
		Skipped:   []Action{},
		Added:     []Action{},
	}
}

// Duration is the wall time of the run.
func (r *Result) Duration() time.Duration {
	return r.FinishedAt.Sub(r.StartedAt)
}
