package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/calderost/bridgewatch/internal/model"
	"github.com/calderost/bridgewatch/internal/sampler"
)

// HTTPClient implements MonitorClient using the bridgewatch HTTP/JSON REST API.
type HTTPClient struct {
	baseURL    string
	token      string
	httpClient *http.Client
}

// NewHTTPClient creates a new HTTP client targeting the given base URL
// (e.g. "http://localhost:8080"). When token is non-empty, an Authorization
// header is set on every request.
func NewHTTPClient(baseURL, token string) *HTTPClient {
	return &HTTPClient{
		baseURL:    strings.TrimRight(baseURL, "/"),
		token:      token,
		httpClient: &http.Client{},
	}
}

// Close is a no-op for the HTTP client.
func (c *HTTPClient) Close() error { return nil }

func (c *HTTPClient) IngestCalls(ctx context.Context, events []*model.RawEvent) (int, error) {
	var resp struct {
		Appended int `json:"appended"`
	}
	if err := c.doJSON(ctx, http.MethodPost, "/v1/calls", events, &resp); err != nil {
		return 0, err
	}
	return resp.Appended, nil
}

func (c *HTTPClient) ListCalls(ctx context.Context, req *ListCallsRequest) (*ListCallsResponse, error) {
	q := url.Values{}
	for _, f := range req.Filters {
		q.Add("filter", f.Key+":"+f.Value)
	}
	if req.Combine != "" {
		q.Set("combine", string(req.Combine))
	}
	if req.Limit > 0 {
		q.Set("limit", fmt.Sprintf("%d", req.Limit))
	}

	path := "/v1/calls"
	if len(q) > 0 {
		path += "?" + q.Encode()
	}

	var resp ListCallsResponse
	if err := c.doJSON(ctx, http.MethodGet, path, nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *HTTPClient) GetCall(ctx context.Context, id string) (*model.RawEvent, error) {
	var event model.RawEvent
	if err := c.doJSON(ctx, http.MethodGet, "/v1/calls/"+url.PathEscape(id), nil, &event); err != nil {
		return nil, err
	}
	return &event, nil
}

func (c *HTTPClient) SelectCall(ctx context.Context, id string) (*SelectCallResponse, error) {
	var resp SelectCallResponse
	path := "/v1/calls/" + url.PathEscape(id) + "/select"
	if err := c.doJSON(ctx, http.MethodPost, path, nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *HTTPClient) GetSession(ctx context.Context) (*SessionResponse, error) {
	var resp SessionResponse
	if err := c.doJSON(ctx, http.MethodGet, "/v1/session", nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *HTTPClient) GetFilters(ctx context.Context) (*FiltersResponse, error) {
	var resp FiltersResponse
	if err := c.doJSON(ctx, http.MethodGet, "/v1/filters", nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *HTTPClient) SetFilters(ctx context.Context, filters []model.Filter) error {
	if filters == nil {
		filters = []model.Filter{}
	}
	body := map[string]any{"filters": filters}
	return c.doJSON(ctx, http.MethodPut, "/v1/filters", body, nil)
}

func (c *HTTPClient) GetMetrics(ctx context.Context) (*sampler.Metrics, error) {
	var metrics sampler.Metrics
	if err := c.doJSON(ctx, http.MethodGet, "/v1/metrics", nil, &metrics); err != nil {
		return nil, err
	}
	return &metrics, nil
}

func (c *HTTPClient) GetColumns(ctx context.Context) ([]model.ColumnSpec, error) {
	var resp struct {
		Columns []model.ColumnSpec `json:"columns"`
	}
	if err := c.doJSON(ctx, http.MethodGet, "/v1/columns", nil, &resp); err != nil {
		return nil, err
	}
	return resp.Columns, nil
}

func (c *HTTPClient) Clear(ctx context.Context) error {
	return c.doJSON(ctx, http.MethodPost, "/v1/clear", nil, nil)
}

func (c *HTTPClient) Health(ctx context.Context) (string, error) {
	var resp struct {
		Status string `json:"status"`
	}
	if err := c.doJSON(ctx, http.MethodGet, "/v1/health", nil, &resp); err != nil {
		return "", err
	}
	return resp.Status, nil
}

// APIError is an error returned by the server with an HTTP status code.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("HTTP %d: %s", e.StatusCode, e.Message)
}

// doJSON performs an HTTP request with optional JSON body and decodes the JSON response.
// If result is nil, the response body is discarded (for 204 responses).
func (c *HTTPClient) doJSON(ctx context.Context, method, path string, body any, result any) error {
	var bodyReader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshaling request body: %w", err)
		}
		bodyReader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, bodyReader)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("performing request: %w", err)
	}
	defer resp.Body.Close()

	// 204 No Content — success with no body.
	if resp.StatusCode == http.StatusNoContent {
		return nil
	}

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("reading response: %w", err)
	}

	if resp.StatusCode >= 400 {
		var errResp struct {
			Error string `json:"error"`
		}
		if json.Unmarshal(respBody, &errResp) == nil && errResp.Error != "" {
			return &APIError{StatusCode: resp.StatusCode, Message: errResp.Error}
		}
		return &APIError{StatusCode: resp.StatusCode, Message: string(respBody)}
	}

	if result != nil {
		if err := json.Unmarshal(respBody, result); err != nil {
			return fmt.Errorf("decoding response: %w", err)
		}
	}

	return nil
}
