// Package rest implements the service.Service interface over a JSON REST
// resource collection (GET /, GET /{id}, POST /, PUT /{id}, DELETE /{id}).
package rest

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/clientcredentials"

	"taskman/internal/config"
	"taskman/internal/service"
)

const (
	// RequestIDHeader carries a fresh UUID on every request.
	RequestIDHeader = "X-Request-ID"

	// maxErrorBody bounds how much of an error response is read for the message.
	maxErrorBody = 512
)

// Client implements service.Service against a base resource endpoint.
type Client struct {
	baseURL string
	http    *http.Client
	timeout time.Duration
	log     *slog.Logger
}

// New creates a client from config. Authentication is picked in order:
// stored token.json, configured client credentials, none.
func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*Client, error) {
	httpClient, err := newHTTPClient(ctx, cfg)
	if err != nil {
		return nil, err
	}
	return NewWithHTTPClient(cfg.Settings.BaseURL, httpClient, cfg.Settings.Timeout, logger)
}

// NewWithHTTPClient creates a client with a custom HTTP client (for testing).
// A zero timeout sets no per-call deadline beyond what ctx carries.
func NewWithHTTPClient(baseURL string, httpClient *http.Client, timeout time.Duration, logger *slog.Logger) (*Client, error) {
	u, err := url.Parse(strings.TrimSpace(baseURL))
	if err != nil {
		return nil, fmt.Errorf("invalid base url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("invalid base url: scheme must be http or https, got %q", u.Scheme)
	}
	if u.Host == "" {
		return nil, fmt.Errorf("invalid base url: missing host")
	}
	if httpClient == nil {
		httpClient = &http.Client{}
	}
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Client{
		baseURL: strings.TrimRight(u.String(), "/"),
		http:    httpClient,
		timeout: timeout,
		log:     logger,
	}, nil
}

func newHTTPClient(ctx context.Context, cfg *config.Config) (*http.Client, error) {
	if cfg.HasToken() {
		data, err := os.ReadFile(cfg.TokenPath())
		if err != nil {
			return nil, fmt.Errorf("failed to read token.json: %w", err)
		}
		var token oauth2.Token
		if err := json.Unmarshal(data, &token); err != nil {
			return nil, fmt.Errorf("invalid token.json: %w", err)
		}
		if token.AccessToken == "" {
			return nil, fmt.Errorf("invalid token.json: empty access token")
		}
		return oauth2.NewClient(ctx, oauth2.StaticTokenSource(&token)), nil
	}

	if auth := cfg.Settings.Auth; auth.Enabled() {
		cc := &clientcredentials.Config{
			ClientID:     auth.ClientID,
			ClientSecret: auth.ClientSecret,
			TokenURL:     auth.TokenURL,
			Scopes:       auth.Scopes,
		}
		return cc.Client(ctx), nil
	}

	return &http.Client{}, nil
}

// BaseURL returns the normalized base endpoint.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// ListTasks returns every task of the collection in API order.
func (c *Client) ListTasks(ctx context.Context) ([]service.Task, error) {
	var tasks []service.Task
	if err := c.do(ctx, "list tasks", http.MethodGet, c.baseURL, nil, &tasks); err != nil {
		return nil, err
	}
	return tasks, nil
}

// GetTask returns a single task.
func (c *Client) GetTask(ctx context.Context, id int) (service.Task, error) {
	if id < 1 {
		return service.Task{}, service.ErrInvalidID
	}
	var task service.Task
	if err := c.do(ctx, "get task", http.MethodGet, c.taskURL(id), nil, &task); err != nil {
		return service.Task{}, err
	}
	return task, nil
}

// CreateTask posts a task without id and returns the stored representation.
func (c *Client) CreateTask(ctx context.Context, task service.Task) (service.Task, error) {
	task.ID = nil

	var created service.Task
	if err := c.do(ctx, "create task", http.MethodPost, c.baseURL, task, &created); err != nil {
		return service.Task{}, err
	}
	return created, nil
}

// UpdateTask replaces a task with a full body.
func (c *Client) UpdateTask(ctx context.Context, id int, task service.Task) (service.Task, error) {
	if id < 1 {
		return service.Task{}, service.ErrInvalidID
	}
	var updated service.Task
	if err := c.do(ctx, "update task", http.MethodPut, c.taskURL(id), task, &updated); err != nil {
		return service.Task{}, err
	}
	return updated, nil
}

// DeleteTask deletes a task. Any response body is discarded.
func (c *Client) DeleteTask(ctx context.Context, id int) error {
	if id < 1 {
		return service.ErrInvalidID
	}
	return c.do(ctx, "delete task", http.MethodDelete, c.taskURL(id), nil, nil)
}

func (c *Client) taskURL(id int) string {
	return c.baseURL + "/" + strconv.Itoa(id)
}

// do issues one request. body is JSON-encoded when non-nil; out receives the
// decoded response when non-nil.
func (c *Client) do(ctx context.Context, op, method, target string, body, out any) error {
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	fail := func(status int, err error) error {
		return &service.TransportError{Op: op, Method: method, URL: target, StatusCode: status, Err: err}
	}

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fail(0, err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, target, reader)
	if err != nil {
		return fail(0, err)
	}
	requestID := uuid.NewString()
	req.Header.Set(RequestIDHeader, requestID)
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		c.log.Debug("api request failed", "request_id", requestID, "method", method, "url", target, "error", err)
		return fail(0, wrapError(err))
	}
	defer resp.Body.Close()

	c.log.Debug("api request",
		"request_id", requestID,
		"method", method,
		"url", target,
		"status", resp.StatusCode,
		"duration", time.Since(start))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return fail(resp.StatusCode, statusError(resp.StatusCode, snippet))
	}

	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		// An empty success body carries no representation.
		if errors.Is(err, io.EOF) {
			return nil
		}
		return fail(resp.StatusCode, fmt.Errorf("malformed response: %w", err))
	}
	return nil
}

// wrapError gives network failures a user-friendly message while keeping the cause.
func wrapError(err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("request timed out: %w", err)
	}
	if errors.Is(err, context.Canceled) {
		return fmt.Errorf("request cancelled: %w", err)
	}
	return err
}

// statusError describes a non-success status.
func statusError(status int, body []byte) error {
	switch status {
	case http.StatusUnauthorized, http.StatusForbidden:
		return errors.New("token expired or rejected (run: taskman login)")
	case http.StatusNotFound:
		return errors.New("not found")
	}
	msg := strings.TrimSpace(string(body))
	if msg == "" {
		return errors.New(strings.ToLower(http.StatusText(status)))
	}
	return fmt.Errorf("%s: %s", strings.ToLower(http.StatusText(status)), msg)
}
