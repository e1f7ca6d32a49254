package hava

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teamhava/hava-integration-controltower/errors"
)

const testAPIKey = "test-api-key"

// newTestClient starts a server running handler and returns a client for it.
func newTestClient(t *testing.T, handler http.HandlerFunc, opts ...Option) *Client {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client, err := NewClient(server.URL, StaticAPIKey(testAPIKey), opts...)
	require.NoError(t, err)
	return client
}

func writeJSON(t *testing.T, w http.ResponseWriter, v any) {
	t.Helper()
	w.Header().Set("Content-Type", "application/json")
	require.NoError(t, json.NewEncoder(w).Encode(v))
}

func TestNewClient(t *testing.T) {
	tests := []struct {
		name    string
		baseURL string
		apiKey  APIKeyFunc
		wantErr bool
	}{
		{name: "valid", baseURL: "https://api.hava.io", apiKey: StaticAPIKey("k")},
		{name: "trailing slash", baseURL: "https://api.hava.io/", apiKey: StaticAPIKey("k")},
		{name: "relative url", baseURL: "api.hava.io", apiKey: StaticAPIKey("k"), wantErr: true},
		{name: "nil key func", baseURL: "https://api.hava.io", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client, err := NewClient(tt.baseURL, tt.apiKey)
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, errors.HasCode(err, errors.CodeInvalidInput))
				assert.Nil(t, client)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, "https://api.hava.io", client.baseURL.String())
			assert.Equal(t, DefaultPageSize, client.pageSize)
		})
	}
}

func TestListSources_Pagination(t *testing.T) {
	var calls atomic.Int32

	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/sources", r.URL.Path)
		assert.Equal(t, "Bearer "+testAPIKey, r.Header.Get("Authorization"))
		assert.Equal(t, "50", r.URL.Query().Get("page_size"))

		switch r.URL.Query().Get("token") {
		case "":
			writeJSON(t, w, map[string]any{
				"results": []TrackedSource{
					{ID: "s1", Type: SourceTypeCrossAccountRole, Info: "arn:aws:iam::111111111111:role/HavaRO", Name: "one"},
					{ID: "c1", Type: "Sources::AWS::Credentials", Info: "AKIA", Name: "creds"},
				},
				"next_page_token": "page-2",
			})
		case "page-2":
			writeJSON(t, w, map[string]any{
				"results": []TrackedSource{
					{ID: "s2", Type: SourceTypeCrossAccountRole, Info: "arn:aws:iam::222222222222:role/HavaRO", Name: "two"},
				},
			})
		default:
			t.Errorf("unexpected token %q", r.URL.Query().Get("token"))
			w.WriteHeader(http.StatusBadRequest)
		}
	})

	sources, err := client.ListSources(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int32(2), calls.Load())
	require.Len(t, sources, 2)
	assert.Equal(t, "s1", sources[0].ID)
	assert.Equal(t, "s2", sources[1].ID)
}

func TestListSources_PageSize(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "10", r.URL.Query().Get("page_size"))
		writeJSON(t, w, map[string]any{"results": []TrackedSource{}})
	}, WithPageSize(10))

	_, err := client.ListSources(context.Background())
	require.NoError(t, err)
}

func TestListSources_Empty(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(t, w, map[string]any{"results": []TrackedSource{}})
	})

	sources, err := client.ListSources(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, sources)
	assert.Empty(t, sources)
}

func TestListSources_Errors(t *testing.T) {
	tests := []struct {
		name     string
		status   int
		body     string
		wantCode errors.ErrorCode
	}{
		{name: "server error", status: http.StatusInternalServerError, body: "boom", wantCode: errors.CodeUnavailable},
		{name: "bad gateway", status: http.StatusBadGateway, wantCode: errors.CodeUnavailable},
		{name: "unauthorized", status: http.StatusUnauthorized, wantCode: errors.CodeUnauthorized},
		{name: "forbidden", status: http.StatusForbidden, wantCode: errors.CodeUnexpectedStatus},
		{name: "malformed body", status: http.StatusOK, body: "{not json", wantCode: errors.CodeInvalidResponse},
		{name: "missing results", status: http.StatusOK, body: `{"next_page_token":""}`, wantCode: errors.CodeInvalidResponse},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = io.WriteString(w, tt.body)
			})

			sources, err := client.ListSources(context.Background())
			require.Error(t, err)
			assert.Nil(t, sources)
			assert.Equal(t, tt.wantCode, errors.GetCode(err))
			assert.True(t, errors.IsFatal(err))
			assert.NotContains(t, err.Error(), testAPIKey)
		})
	}
}

func TestListSources_RepeatedToken(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(t, w, map[string]any{
			"results":         []TrackedSource{},
			"next_page_token": "same",
		})
	})

	_, err := client.ListSources(context.Background())
	require.Error(t, err)
	assert.True(t, errors.HasCode(err, errors.CodeInvalidResponse))
}

func TestListSources_APIKeyFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("no request expected")
	}))
	defer server.Close()

	client, err := NewClient(server.URL, func(context.Context) (string, error) {
		return "", fmt.Errorf("parameter not found")
	})
	require.NoError(t, err)

	_, err = client.ListSources(context.Background())
	require.Error(t, err)
	assert.True(t, errors.HasCode(err, errors.CodeSecret))
}

func TestDeleteSource(t *testing.T) {
	tests := []struct {
		name        string
		status      int
		wantOutcome Outcome
		wantCode    errors.ErrorCode
	}{
		{name: "deleted", status: http.StatusNoContent, wantOutcome: OutcomeDeleted},
		{name: "ok", status: http.StatusOK, wantOutcome: OutcomeDeleted},
		{name: "already gone", status: http.StatusNotFound, wantOutcome: OutcomeNotFound},
		{name: "server error", status: http.StatusServiceUnavailable, wantCode: errors.CodeUnavailable},
		{name: "unauthorized", status: http.StatusUnauthorized, wantCode: errors.CodeUnauthorized},
		{name: "conflict", status: http.StatusConflict, wantCode: errors.CodeUnexpectedStatus},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, http.MethodDelete, r.Method)
				assert.Equal(t, "/sources/s-1", r.URL.Path)
				assert.Equal(t, "Bearer "+testAPIKey, r.Header.Get("Authorization"))
				w.WriteHeader(tt.status)
			})

			outcome, err := client.DeleteSource(context.Background(), "s-1")
			if tt.wantCode != "" {
				require.Error(t, err)
				assert.Equal(t, tt.wantCode, errors.GetCode(err))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantOutcome, outcome)
		})
	}
}

func TestDeleteSource_EmptyID(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		t.Error("no request expected")
	})

	_, err := client.DeleteSource(context.Background(), "")
	require.Error(t, err)
	assert.True(t, errors.HasCode(err, errors.CodeInvalidInput))
}

func TestCreateSource(t *testing.T) {
	tests := []struct {
		name        string
		status      string
		code        int
		body        string
		opts        []Option
		wantOutcome Outcome
		wantCode    errors.ErrorCode
	}{
		{name: "created", code: http.StatusCreated, wantOutcome: OutcomeCreated},
		{name: "duplicate", code: http.StatusUnprocessableEntity, body: `{"errors":["role_arn has already been taken"]}`, wantOutcome: OutcomeAlreadyExists},
		{name: "quota in body", code: http.StatusUnprocessableEntity, body: `{"message":"Source quota exceeded for plan"}`, wantCode: errors.CodeQuotaExceeded},
		{name: "billing in body", code: http.StatusUnprocessableEntity, body: `{"message":"Billing required"}`, wantCode: errors.CodeQuotaExceeded},
		{
			name:        "validation message mentioning exceeded",
			code:        http.StatusUnprocessableEntity,
			body:        `{"errors":["name length exceeded","role_arn has already been taken"]}`,
			wantOutcome: OutcomeAlreadyExists,
		},
		{
			name:        "custom markers",
			code:        http.StatusUnprocessableEntity,
			body:        `{"message":"Source quota reached"}`,
			opts:        []Option{WithQuotaMarkers("limit")},
			wantOutcome: OutcomeAlreadyExists,
		},
		{name: "server error", code: http.StatusInternalServerError, wantCode: errors.CodeUnavailable},
		{name: "unauthorized", code: http.StatusUnauthorized, wantCode: errors.CodeUnauthorized},
		{name: "bad request", code: http.StatusBadRequest, wantCode: errors.CodeUnexpectedStatus},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got CreateSourceRequest
			client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, http.MethodPost, r.Method)
				assert.Equal(t, "/sources", r.URL.Path)
				assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
				assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))
				w.WriteHeader(tt.code)
				_, _ = io.WriteString(w, tt.body)
			}, tt.opts...)

			outcome, err := client.CreateSource(context.Background(), CreateSourceRequest{
				Name:       "New",
				ExternalID: "ext",
				RoleARN:    "arn:aws:iam::222222222222:role/HavaRO",
			})

			assert.Equal(t, CreateSourceRequest{
				Name:       "New",
				Type:       CreateSourceTypeCrossAccountRole,
				ExternalID: "ext",
				RoleARN:    "arn:aws:iam::222222222222:role/HavaRO",
			}, got)

			if tt.wantCode != "" {
				require.Error(t, err)
				assert.Equal(t, tt.wantCode, errors.GetCode(err))
				assert.True(t, errors.IsFatal(err))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantOutcome, outcome)
		})
	}
}

func TestCreateSource_MissingRoleARN(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		t.Error("no request expected")
	})

	_, err := client.CreateSource(context.Background(), CreateSourceRequest{Name: "x"})
	require.Error(t, err)
	assert.True(t, errors.HasCode(err, errors.CodeInvalidInput))
}

func TestOutcomeString(t *testing.T) {
	assert.Equal(t, "deleted", OutcomeDeleted.String())
	assert.Equal(t, "not_found", OutcomeNotFound.String())
	assert.Equal(t, "created", OutcomeCreated.String())
	assert.Equal(t, "already_exists", OutcomeAlreadyExists.String())
	assert.Equal(t, "unknown", Outcome(42).String())
}
