package hava

import (
	"bytes"
	"context"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/teamhava/hava-integration-controltower/errors"
)

// maxErrorBody bounds how much of an error response is kept for logs.
const maxErrorBody = 512

var errMissingResults = stderrors.New("response has no results field")

// Client talks to the Hava sources API.
type Client struct {
	baseURL      *url.URL
	http         *http.Client
	apiKey       APIKeyFunc
	logger       *slog.Logger
	pageSize     int
	quotaMarkers []string
}

// NewClient creates a client for the API at baseURL, authenticating with the
// key returned by apiKey.
//
// Example usage:
//
//	client, err := hava.NewClient("https://api.hava.io", hava.StaticAPIKey(key),
//	    hava.WithLogger(slog.Default()),
//	    hava.WithTimeout(30*time.Second),
//	)
func NewClient(baseURL string, apiKey APIKeyFunc, opts ...Option) (*Client, error) {
	if apiKey == nil {
		return nil, errors.New(errors.CodeInvalidInput, "api key function cannot be nil")
	}

	u, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil || !u.IsAbs() {
		return nil, errors.Newf(errors.CodeInvalidInput, "invalid API endpoint %q", baseURL)
	}

	options := defaultOptions()
	applyOptions(options, opts)

	httpClient := options.httpClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: options.timeout}
	}

	return &Client{
		baseURL:      u,
		http:         httpClient,
		apiKey:       apiKey,
		logger:       options.logger,
		pageSize:     options.pageSize,
		quotaMarkers: options.quotaMarkers,
	}, nil
}

// ListSources returns every cross account role source tracked by Hava,
// following next_page_token until the last page.
func (c *Client) ListSources(ctx context.Context) ([]TrackedSource, error) {
	sources := make([]TrackedSource, 0)
	seen := make(map[string]struct{})
	token := ""

	for page := 1; ; page++ {
		query := url.Values{}
		query.Set("page_size", strconv.Itoa(c.pageSize))
		if token != "" {
			query.Set("token", token)
		}

		resp, body, err := c.do(ctx, http.MethodGet, "sources", query, nil)
		if err != nil {
			return nil, err
		}

		if err := c.checkCommon(resp, body, "list sources"); err != nil {
			return nil, err
		}
		if !isSuccess(resp.StatusCode) {
			return nil, c.unexpectedStatus(resp, body, "list sources")
		}

		result, err := decodeListSources(body)
		if err != nil {
			return nil, errors.WrapWithContext(err, errors.CodeInvalidResponse,
				"failed to decode sources page", map[string]interface{}{"page": page})
		}

		for _, s := range *result.Results {
			if s.Type == SourceTypeCrossAccountRole {
				sources = append(sources, s)
			}
		}

		if c.logger != nil {
			c.logger.DebugContext(ctx, "fetched sources page",
				"page", page,
				"results", len(*result.Results))
		}

		if result.NextPageToken == "" {
			break
		}
		if _, dup := seen[result.NextPageToken]; dup {
			return nil, errors.New(errors.CodeInvalidResponse, "sources pagination token repeated").
				WithContext("page", page)
		}
		seen[result.NextPageToken] = struct{}{}
		token = result.NextPageToken
	}

	if c.logger != nil {
		c.logger.InfoContext(ctx, "fetched tracked sources", "count", len(sources))
	}

	return sources, nil
}

// DeleteSource removes a source. A 404 is reported as OutcomeNotFound.
func (c *Client) DeleteSource(ctx context.Context, id string) (Outcome, error) {
	if id == "" {
		return 0, errors.New(errors.CodeInvalidInput, "source id cannot be empty")
	}

	resp, body, err := c.do(ctx, http.MethodDelete, "sources/"+url.PathEscape(id), nil, nil)
	if err != nil {
		return 0, err
	}

	if err := c.checkCommon(resp, body, "delete source"); err != nil {
		return 0, errors.WrapWithContext(err, errors.GetCode(err), "delete failed",
			map[string]interface{}{"source_id": id})
	}

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return OutcomeNotFound, nil
	case isSuccess(resp.StatusCode):
		return OutcomeDeleted, nil
	default:
		return 0, c.unexpectedStatus(resp, body, "delete source").WithContext("source_id", id)
	}
}

// CreateSource adds a cross account role source. A 422 is reported as
// OutcomeAlreadyExists unless it signals an exhausted quota, which fails with
// CodeQuotaExceeded.
func (c *Client) CreateSource(ctx context.Context, req CreateSourceRequest) (Outcome, error) {
	if req.RoleARN == "" {
		return 0, errors.New(errors.CodeInvalidInput, "role ARN cannot be empty")
	}
	if req.Type == "" {
		req.Type = CreateSourceTypeCrossAccountRole
	}

	payload, err := json.Marshal(req)
	if err != nil {
		return 0, errors.Wrap(err, errors.CodeInternal, "failed to encode create source request")
	}

	resp, body, err := c.do(ctx, http.MethodPost, "sources", nil, payload)
	if err != nil {
		return 0, err
	}

	if err := c.checkCommon(resp, body, "create source"); err != nil {
		return 0, errors.WrapWithContext(err, errors.GetCode(err), "create failed",
			map[string]interface{}{"role_arn": req.RoleARN})
	}

	switch {
	case resp.StatusCode == http.StatusUnprocessableEntity:
		if c.isQuotaRefusal(resp, body) {
			return 0, errors.New(errors.CodeQuotaExceeded,
				"Hava refused the source: subscription quota or billing limit reached").
				WithContext("role_arn", req.RoleARN).
				WithContext("status", resp.Status)
		}
		return OutcomeAlreadyExists, nil
	case isSuccess(resp.StatusCode):
		return OutcomeCreated, nil
	default:
		return 0, c.unexpectedStatus(resp, body, "create source").WithContext("role_arn", req.RoleARN)
	}
}

// do sends one authenticated request and reads the whole response body.
func (c *Client) do(
	ctx context.Context,
	method, path string,
	query url.Values,
	payload []byte,
) (*http.Response, []byte, error) {
	key, err := c.apiKey(ctx)
	if err != nil {
		return nil, nil, errors.Wrap(err, errors.CodeSecret, "failed to obtain Hava API key")
	}

	u := c.baseURL.JoinPath(path)
	if query != nil {
		u.RawQuery = query.Encode()
	}

	var reader io.Reader
	if payload != nil {
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, u.String(), reader)
	if err != nil {
		return nil, nil, errors.Wrap(err, errors.CodeInternal, "failed to build request")
	}
	req.Header.Set("Authorization", "Bearer "+key)
	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		code := errors.CodeNetwork
		if ctx.Err() != nil {
			code = errors.CodeTimeout
		}
		return nil, nil, errors.WrapWithContext(err, code, "request to Hava failed",
			map[string]interface{}{"method": method, "path": u.Path})
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, nil, errors.WrapWithContext(err, errors.CodeNetwork, "failed to read Hava response",
			map[string]interface{}{"method": method, "path": u.Path, "status": resp.StatusCode})
	}

	return resp, body, nil
}

// checkCommon maps the statuses handled identically by every call:
// 5xx is a server error, 401 an authentication error.
func (c *Client) checkCommon(resp *http.Response, body []byte, op string) error {
	switch {
	case resp.StatusCode >= http.StatusInternalServerError:
		return errors.New(errors.CodeUnavailable, "Hava API server error, try again later").
			WithContext("operation", op).
			WithContext("status", resp.StatusCode).
			WithContext("body", truncate(body))
	case resp.StatusCode == http.StatusUnauthorized:
		return errors.New(errors.CodeUnauthorized, "authentication error, is the API key set correctly?").
			WithContext("operation", op)
	}
	return nil
}

// unexpectedStatus builds the error for statuses no caller handles.
func (c *Client) unexpectedStatus(resp *http.Response, body []byte, op string) *errors.Error {
	return errors.New(errors.CodeUnexpectedStatus, fmt.Sprintf("unexpected status from Hava: %s", resp.Status)).
		WithContext("operation", op).
		WithContext("status", resp.StatusCode).
		WithContext("body", truncate(body))
}

// isQuotaRefusal reports whether a 422 carries one of the quota markers.
func (c *Client) isQuotaRefusal(resp *http.Response, body []byte) bool {
	text := strings.ToLower(resp.Status + " " + string(body))
	for _, marker := range c.quotaMarkers {
		if marker != "" && strings.Contains(text, strings.ToLower(marker)) {
			return true
		}
	}
	return false
}

func isSuccess(status int) bool {
	return status >= 200 && status < 300
}

func truncate(body []byte) string {
	if len(body) > maxErrorBody {
		return string(body[:maxErrorBody]) + "..."
	}
	return string(body)
}
