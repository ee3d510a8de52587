// Package client talks to the remote task store over its JSON API.
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
	"strings"
	"time"

	"taskboard/internal/client/dto"
	"taskboard/internal/logger"
	"taskboard/internal/middleware"
	"taskboard/internal/models/task"

	"go.uber.org/zap"
)

const tasksPath = "/api/tasks"

// maxErrorBody bounds how much of a failed response is read for its message.
const maxErrorBody = 64 << 10

type Client struct {
	baseURL *url.URL
	http    *http.Client
	timeout *time.Duration
}

type Option func(*Client)

// WithHTTPClient sets the client requests are sent with. New works on a copy
// whose transport is wrapped with the request id and logging transports; hc
// itself is not modified. A nil hc is ignored.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.http = hc
		}
	}
}

// WithTimeout bounds every request. Zero means no timeout.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		c.timeout = &timeout
	}
}

func New(baseURL string, options ...Option) (*Client, error) {
	u, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("parse base url: %w", err)
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("base url %q must be absolute", baseURL)
	}

	c := &Client{
		baseURL: u,
		http:    &http.Client{},
	}
	for _, opt := range options {
		opt(c)
	}

	wrapped := *c.http
	wrapped.Transport = middleware.Chain(c.http.Transport, middleware.RequestID, middleware.Logging)
	if c.timeout != nil {
		wrapped.Timeout = *c.timeout
	}
	c.http = &wrapped
	return c, nil
}

func (c *Client) BaseURL() string {
	return c.baseURL.String()
}

func (c *Client) List(ctx context.Context) ([]task.Task, error) {
	var tasks []task.Task
	if err := c.do(ctx, http.MethodGet, tasksPath, nil, &tasks); err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	if tasks == nil {
		tasks = []task.Task{}
	}
	return tasks, nil
}

func (c *Client) Create(ctx context.Context, req dto.CreateTaskRequest) (*task.Task, error) {
	var created task.Task
	if err := c.do(ctx, http.MethodPost, tasksPath, req, &created); err != nil {
		return nil, fmt.Errorf("create task: %w", err)
	}
	return &created, nil
}

// Update sends only the fields set by options.
func (c *Client) Update(ctx context.Context, id task.ID, options ...dto.UpdateOption) (*task.Task, error) {
	req := dto.BuildUpdate(options...)
	if req.IsEmpty() {
		return nil, errors.New("update task: no fields to update")
	}

	var updated task.Task
	if err := c.do(ctx, http.MethodPut, taskPath(id), req, &updated); err != nil {
		return nil, fmt.Errorf("update task %s: %w", id, err)
	}
	return &updated, nil
}

// Delete ignores the response body; any 2xx status is success.
func (c *Client) Delete(ctx context.Context, id task.ID) error {
	if err := c.do(ctx, http.MethodDelete, taskPath(id), nil, nil); err != nil {
		return fmt.Errorf("delete task %s: %w", id, err)
	}
	return nil
}

func taskPath(id task.ID) string {
	return tasksPath + "/" + url.PathEscape(id.String())
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL.String()+path, reader)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return decodeError(resp, method, path)
	}

	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		logger.Warn("Client: Failed to decode JSON",
			zap.String("method", method),
			zap.String("path", path),
			zap.Error(err))
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func decodeError(resp *http.Response, method, path string) error {
	apiErr := &APIError{Method: method, Path: path, Status: resp.StatusCode}

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	if err != nil || len(raw) == 0 {
		return apiErr
	}

	var body dto.ErrorResponse
	if json.Unmarshal(raw, &body) == nil && body.Error != "" {
		apiErr.Message = body.Error
	} else {
		apiErr.Message = strings.TrimSpace(string(raw))
	}
	return apiErr
}
