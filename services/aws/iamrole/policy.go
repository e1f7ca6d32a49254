package iamrole

import (
	"encoding/json"
	"fmt"
)

// policyDocument is an IAM policy document.
type policyDocument struct {
	Version   string            `json:"Version"`
	Statement []policyStatement `json:"Statement"`
}

type policyStatement struct {
	Effect    string                       `json:"Effect"`
	Principal map[string]string            `json:"Principal"`
	Action    string                       `json:"Action"`
	Condition map[string]map[string]string `json:"Condition,omitempty"`
}

// TrustPolicy returns the assume-role policy letting ownerAccountID assume the
// role when it presents externalID.
func TrustPolicy(ownerAccountID, externalID string) (string, error) {
	doc := policyDocument{
		Version: "2012-10-17",
		Statement: []policyStatement{
			{
				Effect:    "Allow",
				Principal: map[string]string{"AWS": ownerAccountID},
				Action:    "sts:AssumeRole",
				Condition: map[string]map[string]string{
					"StringEquals": {"sts:ExternalId": externalID},
				},
			},
		},
	}

	data, err := json.Marshal(doc)
	if err != nil {
		return "", fmt.Errorf("failed to encode trust policy: %w", err)
	}
	return string(data), nil
}

// RoleARN returns the ARN of roleName in accountID.
func RoleARN(accountID, roleName string) string {
	return fmt.Sprintf("arn:aws:iam::%s:role/%s", accountID, roleName)
}
