// Package client is a typed HTTP client for the registration API. It mirrors
// the browser form: inputs are validated locally before any request is sent.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"registration/internal/student"
)

// GenericError is shown when the server gives no usable message.
const GenericError = "There was an error during registration."

// APIError is a non-2xx response.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%d: %s", e.Status, e.Message)
}

// Client talks to one registration service.
type Client struct {
	baseURL string
	http    *http.Client
	token   string
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the default http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// WithToken sends a bearer token on every request.
func WithToken(token string) Option {
	return func(c *Client) { c.token = token }
}

// New creates a client for baseURL, e.g. http://localhost:5001.
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: 10 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Register validates the form and submits it, returning the new id.
func (c *Client) Register(ctx context.Context, f Form) (int64, error) {
	payload, err := f.Payload()
	if err != nil {
		return 0, err
	}
	var resp struct {
		Message string `json:"message"`
		UserID  int64  `json:"userId"`
	}
	if err := c.do(ctx, http.MethodPost, "/register", payload, &resp); err != nil {
		return 0, err
	}
	return resp.UserID, nil
}

// List fetches every student.
func (c *Client) List(ctx context.Context) ([]student.Student, error) {
	var students []student.Student
	if err := c.do(ctx, http.MethodGet, "/users", nil, &students); err != nil {
		return nil, err
	}
	return students, nil
}

// Update validates the form and overwrites student id. It returns the
// payload that was accepted so callers can patch their local view.
func (c *Client) Update(ctx context.Context, id int64, f Form) (student.Input, error) {
	payload, err := f.Payload()
	if err != nil {
		return student.Input{}, err
	}
	if err := c.do(ctx, http.MethodPut, "/update/"+strconv.FormatInt(id, 10), payload, nil); err != nil {
		return student.Input{}, err
	}
	return payload, nil
}

// Delete removes student id.
func (c *Client) Delete(ctx context.Context, id int64) error {
	return c.do(ctx, http.MethodDelete, "/delete/"+strconv.FormatInt(id, 10), nil, nil)
}

// Token exchanges an admin API key for a bearer token.
func (c *Client) Token(ctx context.Context, apiKey string) (string, error) {
	var resp struct {
		AccessToken string `json:"access_token"`
	}
	if err := c.do(ctx, http.MethodPost, "/auth/token", map[string]string{"apiKey": apiKey}, &resp); err != nil {
		return "", err
	}
	return resp.AccessToken, nil
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var rd io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		rd = bytes.NewReader(raw)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, rd)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &APIError{Status: resp.StatusCode, Message: serverMessage(raw)}
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// serverMessage extracts the error text the service sent, preferring "error"
// over "message" and falling back to GenericError.
func serverMessage(raw []byte) string {
	var body struct {
		Error   string `json:"error"`
		Message string `json:"message"`
	}
	if err := json.Unmarshal(raw, &body); err != nil {
		return GenericError
	}
	switch {
	case body.Error != "":
		return body.Error
	case body.Message != "":
		return body.Message
	default:
		return GenericError
	}
}
