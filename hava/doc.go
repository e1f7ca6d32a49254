// Package hava provides a client for the Hava REST API sources endpoints and
// the parsing of tracked cross-account-role sources into AWS account ids.
//
// The client wraps net/http to provide:
//   - Paginated listing of cross-account-role sources (ListSources)
//   - Source deletion with 404 treated as already deleted (DeleteSource)
//   - Source creation with 422 treated as already added, unless the API
//     reports an exhausted quota (CreateSource)
//
// Every failure is returned as a coded error from the errors package so
// callers can tell fatal conditions (CodeUnavailable, CodeUnauthorized,
// CodeQuotaExceeded, CodeUnexpectedStatus, CodeInvalidResponse) apart from
// per-source outcomes, which are reported through Outcome values instead.
//
// # Security considerations
//
// The API key is obtained through an APIKeyFunc on every request and is
// never logged. Callers fetch the key once per run and hand the client a
// function returning the cached value.
//
// # Thread safety
//
// Client methods are safe for concurrent use, although the reconciler calls
// them strictly sequentially.
package hava
