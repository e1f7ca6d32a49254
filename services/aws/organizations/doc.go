// Package organizations walks an AWS Organizations tree and returns the active
// member accounts that are not excluded by the account or OU blocklists.
//
// The walk is a pre-order depth-first traversal starting at the organization
// root. For every organizational unit the direct child accounts are drained
// first, then the child OUs, and each child OU is visited in the order the
// service returns it. A blocklisted OU prunes its whole subtree.
//
// # IAM Permissions
//
//   - organizations:ListRoots
//   - organizations:ListAccountsForParent
//   - organizations:ListOrganizationalUnitsForParent
//
// The walk is sequential and performs no retries beyond the SDK defaults.
package organizations
