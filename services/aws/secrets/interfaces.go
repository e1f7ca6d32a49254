package secrets

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/service/secretsmanager"
)

// ManagerAPI defines the Secrets Manager operations used by the Client.
// It is satisfied by *secretsmanager.Client and by test mocks.
type ManagerAPI interface {
	// GetSecretValue retrieves the value of a secret.
	GetSecretValue(
		ctx context.Context,
		params *secretsmanager.GetSecretValueInput,
		optFns ...func(*secretsmanager.Options),
	) (*secretsmanager.GetSecretValueOutput, error)
}
