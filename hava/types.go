package hava

import "encoding/json"

// Source types used by the Hava API. Listing reports the fully qualified type
// while creation expects the short form.
const (
	SourceTypeCrossAccountRole       = "Sources::AWS::CrossAccountRole"
	CreateSourceTypeCrossAccountRole = "AWS::CrossAccountRole"
)

// DefaultPageSize is the page size requested when listing sources.
const DefaultPageSize = 50

// TrackedSource is a source as returned by GET /sources.
type TrackedSource struct {
	// ID is the opaque Hava identifier.
	ID string `json:"id"`

	// Type is the Hava source type, e.g. Sources::AWS::CrossAccountRole.
	Type string `json:"type"`

	// Info is a colon delimited resource locator; for cross account roles it
	// is the role ARN and field 4 holds the AWS account id.
	Info string `json:"info"`

	// Name is the display name of the source.
	Name string `json:"name"`
}

// ReconciledAccount is a tracked source resolved to the AWS account it covers.
type ReconciledAccount struct {
	ID           string `json:"id" yaml:"id"`
	AWSAccountID string `json:"aws_account_id" yaml:"aws_account_id"`
	Name         string `json:"name" yaml:"name"`
	RoleARN      string `json:"role_arn" yaml:"role_arn"`
}

// CreateSourceRequest is the body of POST /sources.
type CreateSourceRequest struct {
	Name       string `json:"name"`
	Type       string `json:"type"`
	ExternalID string `json:"external_id"`
	RoleARN    string `json:"role_arn"`
}

// listSourcesResponse is one page of GET /sources. Results is a pointer so a
// body without the field is rejected instead of read as an empty page.
type listSourcesResponse struct {
	Results       *[]TrackedSource `json:"results"`
	NextPageToken string           `json:"next_page_token,omitempty"`
}

// decodeListSources decodes a page and checks its required fields.
func decodeListSources(data []byte) (*listSourcesResponse, error) {
	var page listSourcesResponse
	if err := json.Unmarshal(data, &page); err != nil {
		return nil, err
	}
	if page.Results == nil {
		return nil, errMissingResults
	}
	return &page, nil
}

// Outcome is the per-source result of a mutating call that did not fail the run.
type Outcome int

const (
	// OutcomeDeleted means the source was deleted.
	OutcomeDeleted Outcome = iota

	// OutcomeNotFound means the source was already gone.
	OutcomeNotFound

	// OutcomeCreated means the source was added.
	OutcomeCreated

	// OutcomeAlreadyExists means Hava already tracks the source.
	OutcomeAlreadyExists
)

// String returns the outcome name used in logs and reports.
func (o Outcome) String() string {
	switch o {
	case OutcomeDeleted:
		return "deleted"
	case OutcomeNotFound:
		return "not_found"
	case OutcomeCreated:
		return "created"
	case OutcomeAlreadyExists:
		return "already_exists"
	default:
		return "unknown"
	}
}
