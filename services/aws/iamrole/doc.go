// Package iamrole makes sure the Hava read-only role exists in a member
// account.
//
// For each account the Provisioner assumes the Control Tower execution role,
// builds an IAM client from the temporary credentials and checks for the
// HavaRO role. A missing role is created with a trust policy that lets the
// Hava owner account assume it when it presents the shared external id, and
// the AWS managed ReadOnlyAccess policy is attached.
//
// The IAM client is scoped to a single Ensure call and dropped afterwards.
//
// # IAM Permissions
//
// Caller: sts:AssumeRole on arn:aws:iam::*:role/AWSControlTowerExecution.
// Execution role: iam:GetRole, iam:CreateRole, iam:AttachRolePolicy.
package iamrole
