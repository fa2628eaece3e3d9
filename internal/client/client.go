// Package client is a small HTTP client for the goal tracker API, used by goalctl.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/benvon/goaltracker/internal/handlers"
)

const (
	// DefaultBaseURL is used when no server is configured
	DefaultBaseURL = "http://localhost:8080"

	apiPrefix       = "/api/v1"
	maxResponseSize = 4 << 20
)

// APIError is a non-2xx answer from the server
type APIError struct {
	StatusCode int
	Type       string
	Message    string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("%d %s", e.StatusCode, e.Type)
	}
	return fmt.Sprintf("%d %s: %s", e.StatusCode, e.Type, e.Message)
}

// IsNotFound reports whether err is a 404 from the server
func IsNotFound(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusNotFound
}

// Client talks to one goal tracker server
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// Option configures a Client
type Option func(*Client)

// WithHTTPClient replaces the default http.Client
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.httpClient = hc
		}
	}
}

// New creates a client for baseURL (scheme and host, e.g. http://localhost:8080)
func New(baseURL string, opts ...Option) (*Client, error) {
	if strings.TrimSpace(baseURL) == "" {
		baseURL = DefaultBaseURL
	}
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid server URL: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("invalid server URL %q: scheme must be http or https", baseURL)
	}
	if u.Host == "" {
		return nil, fmt.Errorf("invalid server URL %q: missing host", baseURL)
	}

	c := &Client{
		baseURL:    strings.TrimRight(u.String(), "/"),
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

type envelope[T any] struct {
	Success bool   `json:"success"`
	Data    T      `json:"data"`
	Error   string `json:"error"`
	Message string `json:"message"`
}

// CreateGoal creates a goal and returns it as stored
func (c *Client) CreateGoal(ctx context.Context, req handlers.CreateGoalRequest) (*handlers.GoalResponse, error) {
	var out handlers.GoalResponse
	if err := c.do(ctx, http.MethodPost, apiPrefix+"/goals", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ListGoals returns the goals in category; an empty category lists all of them
func (c *Client) ListGoals(ctx context.Context, category string) (*handlers.ListGoalsResponse, error) {
	path := apiPrefix + "/goals"
	if category != "" {
		path += "?" + url.Values{"category": {category}}.Encode()
	}
	var out handlers.ListGoalsResponse
	if err := c.do(ctx, http.MethodGet, path, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// GetGoal fetches one goal by id
func (c *Client) GetGoal(ctx context.Context, id string) (*handlers.GoalResponse, error) {
	var out handlers.GoalResponse
	if err := c.do(ctx, http.MethodGet, apiPrefix+"/goals/"+url.PathEscape(id), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ToggleTask sets the completion state of one task
func (c *Client) ToggleTask(ctx context.Context, id string, index int, completed bool) (*handlers.ToggleTaskResponse, error) {
	path := apiPrefix + "/goals/" + url.PathEscape(id) + "/tasks/" + strconv.Itoa(index)
	body := handlers.ToggleTaskRequest{Completed: &completed}
	var out handlers.ToggleTaskResponse
	if err := c.do(ctx, http.MethodPatch, path, body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Categories lists the goal categories the server accepts
func (c *Client) Categories(ctx context.Context) ([]handlers.CategoryInfo, error) {
	var out []handlers.CategoryInfo
	if err := c.do(ctx, http.MethodGet, apiPrefix+"/categories", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Timeframes lists the timeframes the server accepts
func (c *Client) Timeframes(ctx context.Context) ([]handlers.TimeframeInfo, error) {
	var out []handlers.TimeframeInfo
	if err := c.do(ctx, http.MethodGet, apiPrefix+"/timeframes", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer func() { _ = resp.Body.Close() }()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := &APIError{StatusCode: resp.StatusCode, Type: http.StatusText(resp.StatusCode)}
		var env envelope[json.RawMessage]
		if json.Unmarshal(raw, &env) == nil && env.Error != "" {
			apiErr.Type = env.Error
			apiErr.Message = env.Message
		}
		return apiErr
	}

	var env envelope[json.RawMessage]
	if err := json.Unmarshal(raw, &env); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	if err := json.Unmarshal(env.Data, out); err != nil {
		return fmt.Errorf("failed to decode response data: %w", err)
	}
	return nil
}
