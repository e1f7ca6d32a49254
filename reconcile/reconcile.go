// Package reconcile diffs the accounts tracked by Hava against the accounts in
// the organization. It performs no I/O.
package reconcile

import (
	"github.com/samber/lo"

	"github.com/teamhava/hava-integration-controltower/hava"
	"github.com/teamhava/hava-integration-controltower/services/aws/organizations"
)

// Result is the action plan for one run.
type Result struct {
	// Delete holds tracked sources whose account left the organization,
	// in inventory order.
	Delete []hava.ReconciledAccount `json:"delete" yaml:"delete"`

	// Add holds organization accounts Hava does not track, in walk order.
	Add []organizations.Account `json:"add" yaml:"add"`
}

// Plan computes both halves of the reconciliation.
func Plan(inventory []hava.ReconciledAccount, org []organizations.Account) *Result {
	return &Result{
		Delete: AccountsToDelete(inventory, org),
		Add:    AccountsToAdd(inventory, org),
	}
}

// AccountsToDelete returns the inventory entries whose AWS account is not in org.
func AccountsToDelete(inventory []hava.ReconciledAccount, org []organizations.Account) []hava.ReconciledAccount {
	present := lo.SliceToMap(org, func(a organizations.Account) (string, struct{}) {
		return a.ID, struct{}{}
	})

	return lo.Filter(inventory, func(s hava.ReconciledAccount, _ int) bool {
		_, ok := present[s.AWSAccountID]
		return !ok
	})
}

// AccountsToAdd returns the org accounts no inventory entry refers to.
func AccountsToAdd(inventory []hava.ReconciledAccount, org []organizations.Account) []organizations.Account {
	tracked := lo.SliceToMap(inventory, func(s hava.ReconciledAccount) (string, struct{}) {
		return s.AWSAccountID, struct{}{}
	})

	return lo.Filter(org, func(a organizations.Account, _ int) bool {
		_, ok := tracked[a.ID]
		return !ok
	})
}
