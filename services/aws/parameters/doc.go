// Package parameters reads SecureString values from the AWS Systems Manager
// parameter store. It is the default store for the Hava API key
// (SECRET_PARAMETER_PATH).
//
// Values are decrypted on read and never logged. An optional cache keeps a
// value for the lifetime of a run so the key is fetched once.
//
// # IAM Permissions
//
//   - ssm:GetParameter
//   - kms:Decrypt for the key protecting the parameter
package parameters
