// Package api is the HTTP client for the CourtIQ analysis service.
//
// Every failure is classified into a model.ErrorInfo before it leaves this
// package: callers never see raw transport errors.
package api

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/rs/zerolog/log"

	"courtiq/internal/model"
)

// DefaultBaseURL matches the service's development default.
const DefaultBaseURL = "http://localhost:5001"

// Client talks to one analysis service instance.
type Client struct {
	baseURL string
	httpc   *http.Client
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient injects a custom http.Client (useful for testing).
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpc = hc
	}
}

// NewClient constructs a Client for the given base URL.
// An empty baseURL falls back to DefaultBaseURL.
func NewClient(baseURL string, opts ...Option) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpc:   &http.Client{},
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// BaseURL returns the configured service base URL.
func (c *Client) BaseURL() string {
	return c.baseURL
}

func (c *Client) endpoint(path string) string {
	return c.baseURL + path
}

// errorBody is the service's rejection payload shape.
type errorBody struct {
	Error string `json:"error"`
}

// rejectionReason extracts the structured reason from a non-2xx body,
// falling back to a generic message.
func rejectionReason(body io.Reader, fallback string) string {
	var eb errorBody
	if err := json.NewDecoder(body).Decode(&eb); err == nil && eb.Error != "" {
		return eb.Error
	}
	return fallback
}

// classifyResponse maps a non-2xx response to the error taxonomy:
// 4xx is a structured rejection, everything else a server failure.
func classifyResponse(resp *http.Response) *model.ErrorInfo {
	if resp.StatusCode >= 400 && resp.StatusCode < 500 {
		reason := rejectionReason(resp.Body, fmt.Sprintf("request rejected (HTTP %d)", resp.StatusCode))
		return model.NewError(model.ErrServerRejected, reason)
	}
	reason := rejectionReason(resp.Body, fmt.Sprintf("server error (HTTP %d)", resp.StatusCode))
	return model.NewError(model.ErrServerFailure, reason)
}

// getJSON issues a GET and decodes a 200 response into out.
func (c *Client) getJSON(ctx context.Context, path string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.endpoint(path), nil)
	if err != nil {
		return model.NewError(model.ErrClientSetup, fmt.Sprintf("building request: %v", err))
	}
	resp, err := c.httpc.Do(req)
	if err != nil {
		return model.NewError(model.ErrNetworkUnreachable, fmt.Sprintf("no response from server: %v", err))
	}
	defer resp.Body.Close()

	log.Debug().Str("path", path).Int("status", resp.StatusCode).Msg("service GET")

	if resp.StatusCode != http.StatusOK {
		return classifyResponse(resp)
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return model.NewError(model.ErrServerFailure, fmt.Sprintf("malformed response from server: %v", err))
	}
	return nil
}

// statusResponse mirrors GET /status/{task_id}.
type statusResponse struct {
	TaskID string           `json:"task_id"`
	Status model.JobStatus  `json:"status"`
	Result *model.RawResult `json:"result,omitempty"`
	Error  string           `json:"error,omitempty"`
}

// StatusReport is one answer to a status poll.
type StatusReport struct {
	Status model.JobStatus
	Result *model.RawResult
	Error  string
}

// Status queries the current state of a job.
func (c *Client) Status(ctx context.Context, handle model.JobHandle) (StatusReport, error) {
	var sr statusResponse
	if err := c.getJSON(ctx, "/status/"+url.PathEscape(handle.TaskID), &sr); err != nil {
		return StatusReport{}, err
	}
	return StatusReport{Status: sr.Status, Result: sr.Result, Error: sr.Error}, nil
}

// listResponse mirrors GET /results.
type listResponse struct {
	Status  string               `json:"status"`
	Count   int                  `json:"count"`
	Results []model.StoredResult `json:"results"`
}

// ListResults fetches stored results, newest first. limit <= 0 uses the
// server default; search filters by video name.
func (c *Client) ListResults(ctx context.Context, limit int, search string) ([]model.StoredResult, error) {
	q := url.Values{}
	if limit > 0 {
		q.Set("limit", strconv.Itoa(limit))
	}
	if search != "" {
		q.Set("search", search)
	}
	path := "/results"
	if len(q) > 0 {
		path += "?" + q.Encode()
	}
	var lr listResponse
	if err := c.getJSON(ctx, path, &lr); err != nil {
		return nil, err
	}
	return lr.Results, nil
}

// GetResult fetches one stored result by ID.
func (c *Client) GetResult(ctx context.Context, id string) (model.StoredResult, error) {
	var sr model.StoredResult
	if err := c.getJSON(ctx, "/results/"+url.PathEscape(id), &sr); err != nil {
		return model.StoredResult{}, err
	}
	return sr, nil
}

// statsResponse mirrors GET /api/stats.
type statsResponse struct {
	Status string             `json:"status"`
	Stats  model.StatsSummary `json:"stats"`
}

// Stats fetches the aggregate summary over all stored analyses.
func (c *Client) Stats(ctx context.Context) (model.StatsSummary, error) {
	var sr statsResponse
	if err := c.getJSON(ctx, "/api/stats", &sr); err != nil {
		return model.StatsSummary{}, err
	}
	return sr.Stats, nil
}

// DeleteResult removes a stored result.
func (c *Client) DeleteResult(ctx context.Context, id string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodDelete,
		c.endpoint("/api/results/"+url.PathEscape(id)+"/delete"), nil)
	if err != nil {
		return model.NewError(model.ErrClientSetup, fmt.Sprintf("building request: %v", err))
	}
	resp, err := c.httpc.Do(req)
	if err != nil {
		return model.NewError(model.ErrNetworkUnreachable, fmt.Sprintf("no response from server: %v", err))
	}
	defer resp.Body.Close()

	log.Debug().Str("id", id).Int("status", resp.StatusCode).Msg("delete result")

	if resp.StatusCode != http.StatusOK {
		return classifyResponse(resp)
	}
	return nil
}

// Health probes the service's health endpoint. Any 2xx counts as reachable;
// a 503 still proves the server answered, so it is reported as degraded.
func (c *Client) Health(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.endpoint("/health"), nil)
	if err != nil {
		return model.NewError(model.ErrClientSetup, fmt.Sprintf("building request: %v", err))
	}
	resp, err := c.httpc.Do(req)
	if err != nil {
		return model.NewError(model.ErrNetworkUnreachable, fmt.Sprintf("no response from server: %v", err))
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}
	return model.NewError(model.ErrServerFailure, fmt.Sprintf("service reported HTTP %d", resp.StatusCode))
}
