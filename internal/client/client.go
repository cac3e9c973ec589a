// Package client talks to the student HTTP API.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/SAP-F-2025/student-service/internal/models"
)

const (
	DefaultBaseURL = "http://localhost:5000"
	DefaultTimeout = 5 * time.Second
)

// ConnectionError means no HTTP response was received at all.
type ConnectionError struct {
	URL string
	Err error
}

func (e *ConnectionError) Error() string {
	return fmt.Sprintf("Cannot connect to the API at %s. Is the server running?", e.URL)
}

func (e *ConnectionError) Unwrap() error {
	return e.Err
}

// TimeoutError means the server accepted the request but did not reply in time.
type TimeoutError struct {
	URL     string
	Timeout time.Duration
	Err     error
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("The API at %s did not respond within %s", e.URL, e.Timeout)
}

func (e *TimeoutError) Unwrap() error {
	return e.Err
}

// Response is a decoded server reply. Non-2xx replies are returned as a
// Response, not as an error.
type Response struct {
	StatusCode int
	URL        string
	Envelope   models.Envelope

	body []byte
}

// OK reports a 2xx status
func (r *Response) OK() bool {
	return r.StatusCode >= 200 && r.StatusCode < 300
}

// Students decodes data as a list of records
func (r *Response) Students() ([]models.Student, error) {
	var payload struct {
		Data []models.Student `json:"data"`
	}
	if err := json.Unmarshal(r.body, &payload); err != nil {
		return nil, fmt.Errorf("failed to decode students: %w", err)
	}
	return payload.Data, nil
}

// Student decodes data as a single record; nil when the reply carries none
func (r *Response) Student() (*models.Student, error) {
	var payload struct {
		Data *models.Student `json:"data"`
	}
	if err := json.Unmarshal(r.body, &payload); err != nil {
		return nil, fmt.Errorf("failed to decode student: %w", err)
	}
	return payload.Data, nil
}

type Client struct {
	baseURL    string
	httpClient *http.Client
}

func New(baseURL string, timeout time.Duration) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
	}
}

func (c *Client) BaseURL() string {
	return c.baseURL
}

func (c *Client) List(ctx context.Context) (*Response, error) {
	return c.do(ctx, http.MethodGet, "/students", nil)
}

func (c *Client) Get(ctx context.Context, studentID string) (*Response, error) {
	return c.do(ctx, http.MethodGet, studentPath(studentID), nil)
}

func (c *Client) Create(ctx context.Context, student models.Student) (*Response, error) {
	return c.do(ctx, http.MethodPost, "/students", student)
}

// Update sends only the given fields, keyed by their JSON names
func (c *Client) Update(ctx context.Context, studentID string, fields map[string]interface{}) (*Response, error) {
	return c.do(ctx, http.MethodPut, studentPath(studentID), fields)
}

func (c *Client) Delete(ctx context.Context, studentID string) (*Response, error) {
	return c.do(ctx, http.MethodDelete, studentPath(studentID), nil)
}

func (c *Client) Health(ctx context.Context) (*Response, error) {
	return c.do(ctx, http.MethodGet, "/health", nil)
}

func (c *Client) do(ctx context.Context, method, path string, payload interface{}) (*Response, error) {
	target := c.baseURL + path

	var body io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("failed to encode request: %w", err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, target, body)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, c.transportError(ctx, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, c.transportError(ctx, err)
	}

	out := &Response{StatusCode: resp.StatusCode, URL: target, body: raw}
	if err := json.Unmarshal(raw, &out.Envelope); err != nil {
		return nil, fmt.Errorf("unexpected response from %s (HTTP %d): %w", target, resp.StatusCode, err)
	}
	return out, nil
}

func (c *Client) transportError(ctx context.Context, err error) error {
	var netErr net.Error
	if errors.Is(err, context.DeadlineExceeded) || (errors.As(err, &netErr) && netErr.Timeout()) {
		return &TimeoutError{URL: c.baseURL, Timeout: c.httpClient.Timeout, Err: err}
	}
	if ctx.Err() != nil {
		return fmt.Errorf("request to %s cancelled: %w", c.baseURL, err)
	}
	return &ConnectionError{URL: c.baseURL, Err: err}
}

func studentPath(studentID string) string {
	return "/students/" + url.PathEscape(studentID)
}
