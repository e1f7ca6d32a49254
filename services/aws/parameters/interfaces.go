package parameters

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/service/ssm"
)

// SSMAPI defines the Systems Manager operations used by the Client.
// It is satisfied by *ssm.Client and by test mocks.
type SSMAPI interface {
	// GetParameter retrieves a single parameter.
	GetParameter(
		ctx context.Context,
		params *ssm.GetParameterInput,
		optFns ...func(*ssm.Options),
	) (*ssm.GetParameterOutput, error)
}
