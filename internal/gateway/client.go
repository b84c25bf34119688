// Package gateway is the typed boundary between taskdeck and the remote task
// backend. Each operation is a single JSON request/response exchange with no
// retries and no validation of the lifecycle.
package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/imkarma/taskdeck/internal/task"
)

// DefaultBaseURL is where the backend listens unless configured otherwise.
const DefaultBaseURL = "http://localhost:3000"

// Service is the set of backend operations the rest of taskdeck depends on.
type Service interface {
	// List returns tasks, constrained to one state when state is non-nil.
	List(ctx context.Context, state *task.State) ([]task.Task, error)

	// Create creates a task with the given title.
	Create(ctx context.Context, title string) (task.Task, error)

	// Advance sets a task's state. The caller picks a legal next state.
	Advance(ctx context.Context, id string, state task.State) (task.Task, error)

	// Remove deletes a task.
	Remove(ctx context.Context, id string) error

	// RunAICommand forwards a free-text command and decodes the response shape.
	RunAICommand(ctx context.Context, command string) (AIResult, error)
}

// Client implements Service over HTTP.
type Client struct {
	baseURL string
	http    *http.Client
	log     *slog.Logger
}

var _ Service = (*Client)(nil)

// Option customizes a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client (tests, custom transports).
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// WithTimeout bounds every request. Zero leaves requests unbounded.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.http.Timeout = d
		}
	}
}

// WithLogger sets the logger used for request tracing.
func WithLogger(l *slog.Logger) Option {
	return func(c *Client) { c.log = l }
}

// New creates a client for the backend at baseURL.
func New(baseURL string, opts ...Option) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{},
		log:     slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// BaseURL returns the backend address this client talks to.
func (c *Client) BaseURL() string { return c.baseURL }

// List fetches tasks, optionally filtered by state.
func (c *Client) List(ctx context.Context, state *task.State) ([]task.Task, error) {
	path := "/tasks"
	if state != nil {
		path += "?state=" + url.QueryEscape(string(*state))
	}

	var tasks []task.Task
	if err := c.do(ctx, "list", http.MethodGet, path, nil, &tasks); err != nil {
		return nil, err
	}
	if tasks == nil {
		tasks = []task.Task{}
	}
	return tasks, nil
}

// Create posts a new task.
func (c *Client) Create(ctx context.Context, title string) (task.Task, error) {
	var t task.Task
	err := c.do(ctx, "create", http.MethodPost, "/tasks", map[string]string{"title": title}, &t)
	return t, err
}

// Advance patches a task's state.
func (c *Client) Advance(ctx context.Context, id string, state task.State) (task.Task, error) {
	var t task.Task
	path := "/tasks/" + url.PathEscape(id) + "/state"
	err := c.do(ctx, "advance", http.MethodPatch, path, map[string]string{"state": string(state)}, &t)
	return t, err
}

// Remove deletes a task. The response body is ignored.
func (c *Client) Remove(ctx context.Context, id string) error {
	return c.do(ctx, "remove", http.MethodDelete, "/tasks/"+url.PathEscape(id), nil, nil)
}

// RunAICommand posts a free-text command and returns the decoded result shape.
func (c *Client) RunAICommand(ctx context.Context, command string) (AIResult, error) {
	body, err := c.exchange(ctx, "ai", http.MethodPost, "/ai/command", map[string]string{"command": command})
	if err != nil {
		return AIResult{}, err
	}
	res, err := DecodeAIResult(body)
	if err != nil {
		return AIResult{}, &Error{Op: "ai", Kind: KindDecode, Err: err}
	}
	return res, nil
}

// do runs one exchange and decodes the body into out when out is non-nil.
func (c *Client) do(ctx context.Context, op, method, path string, in, out any) error {
	body, err := c.exchange(ctx, op, method, path, in)
	if err != nil {
		return err
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(body, out); err != nil {
		return &Error{Op: op, Kind: KindDecode, Err: err}
	}
	return nil
}

// exchange sends the request and returns the raw body of a 2xx response.
func (c *Client) exchange(ctx context.Context, op, method, path string, in any) ([]byte, error) {
	var reqBody io.Reader
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return nil, &Error{Op: op, Kind: KindTransport, Err: fmt.Errorf("marshal request: %w", err)}
		}
		reqBody = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return nil, &Error{Op: op, Kind: KindTransport, Err: fmt.Errorf("create request: %w", err)}
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		c.log.Debug("request failed", "op", op, "method", method, "path", path, "err", err)
		return nil, &Error{Op: op, Kind: KindTransport, Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &Error{Op: op, Kind: KindTransport, Err: fmt.Errorf("read response: %w", err)}
	}

	c.log.Debug("request done", "op", op, "method", method, "path", path,
		"status", resp.StatusCode, "duration", time.Since(start))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &Error{Op: op, Kind: KindStatus, Status: resp.StatusCode}
	}
	return body, nil
}
