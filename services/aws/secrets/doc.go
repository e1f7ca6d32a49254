// Package secrets reads the Hava API key from AWS Secrets Manager.
//
// It is the alternative to the SSM parameter store, selected with
// SECRET_STORE=secretsmanager. Values are never logged; only secret names are.
// An optional TTL cache lets a run fetch the key once and reuse it for every
// Hava request.
//
// # IAM Permissions
//
//   - secretsmanager:GetSecretValue
//   - kms:Decrypt when the secret uses a customer-managed key
//
// Typed errors (ErrSecretNotFound, ErrSecretEmpty, ErrAccessDenied) can be
// checked with errors.Is.
package secrets
