// Package errors provides the coded error system used across the reconciler.
// It extends Go's standard error handling with structured error codes, fatal
// versus recoverable classification, and context preservation for logging.
package errors

// ErrorCode represents a specific error condition in a reconciliation run.
// Error codes are string-based for debuggability and natural log serialization.
type ErrorCode string

const (
	// Permission errors.

	// CodeUnauthorized indicates the Hava API rejected the API key.
	CodeUnauthorized ErrorCode = "UNAUTHORIZED"

	// Validation errors.

	// CodeInvalidInput indicates the provided input is invalid or malformed.
	CodeInvalidInput ErrorCode = "INVALID_INPUT"

	// CodeInvalidConfig indicates a configuration error prevents the run.
	CodeInvalidConfig ErrorCode = "INVALID_CONFIGURATION"

	// Remote API errors.

	// CodeUnavailable indicates the Hava API returned a server error.
	CodeUnavailable ErrorCode = "SERVICE_UNAVAILABLE"

	// CodeUnexpectedStatus indicates the Hava API returned a status this client does not handle.
	CodeUnexpectedStatus ErrorCode = "UNEXPECTED_STATUS"

	// CodeInvalidResponse indicates a response body could not be decoded.
	CodeInvalidResponse ErrorCode = "INVALID_RESPONSE"

	// CodeQuotaExceeded indicates the Hava subscription cannot take more sources.
	CodeQuotaExceeded ErrorCode = "QUOTA_EXCEEDED"

	// CodeNetwork indicates a network operation failed.
	CodeNetwork ErrorCode = "NETWORK_ERROR"

	// AWS errors.

	// CodeNoRoot indicates the organization returned no root.
	CodeNoRoot ErrorCode = "NO_ROOT"

	// CodeOrganizations indicates an AWS Organizations call failed.
	CodeOrganizations ErrorCode = "ORGANIZATIONS_ERROR"

	// CodeRoleAssumption indicates the execution role could not be assumed in a member account.
	CodeRoleAssumption ErrorCode = "ROLE_ASSUMPTION_FAILED"

	// CodeRoleProvisioning indicates the read-only role could not be checked or created.
	CodeRoleProvisioning ErrorCode = "ROLE_PROVISIONING_FAILED"

	// CodeSecret indicates the API key could not be read from its store.
	CodeSecret ErrorCode = "SECRET_UNAVAILABLE"

	// System errors.

	// CodeTimeout indicates the run exceeded its deadline.
	CodeTimeout ErrorCode = "TIMEOUT"

	// CodeInternal indicates an internal error occurred.
	CodeInternal ErrorCode = "INTERNAL_ERROR"

	// Generic errors.

	// CodeUnknown indicates an unknown or unclassified error occurred.
	CodeUnknown ErrorCode = "UNKNOWN"
)

// recoverable lists the codes that affect a single account only.
// Every other code aborts the run.
var recoverable = map[ErrorCode]bool{
	CodeRoleAssumption: true,
}

// IsFatal reports whether errors carrying this code must abort the run.
func (c ErrorCode) IsFatal() bool {
	return !recoverable[c]
}
