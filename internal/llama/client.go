// Package llama talks to a local OpenAI-compatible inference server
// (LM Studio, llama.cpp server). It owns the HTTP transport, the /v1/models
// connectivity probe, model resolution and the chat completion gateway.
package llama

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/amishk599/careerlens/internal/model"
)

const (
	// DefaultBaseURL is where LM Studio listens out of the box.
	DefaultBaseURL = "http://127.0.0.1:1234"
	// DefaultTimeout is the per-request ceiling.
	DefaultTimeout = 120 * time.Second

	modelsPath      = "/v1/models"
	completionsPath = "/v1/chat/completions"
)

// Transport issues JSON requests against the inference server. Client is the
// production implementation; tests substitute their own.
type Transport interface {
	Get(ctx context.Context, path string) ([]byte, error)
	Post(ctx context.Context, path string, body any) ([]byte, error)
}

// Client is a minimal JSON HTTP client bound to one base URL.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

// NewClient creates a client for baseURL. A zero timeout means DefaultTimeout.
// apiKey is optional and sent as a bearer token when set.
func NewClient(baseURL, apiKey string, timeout time.Duration) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: timeout},
	}
}

// BaseURL returns the server root this client targets.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Get performs a GET and returns the response body.
func (c *Client) Get(ctx context.Context, path string) ([]byte, error) {
	return c.do(ctx, http.MethodGet, path, nil)
}

// Post marshals body as JSON, POSTs it and returns the response body.
func (c *Client) Post(ctx context.Context, path string, body any) ([]byte, error) {
	data, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("marshal request body: %w", err)
	}
	return c.do(ctx, http.MethodPost, path, data)
}

func (c *Client) do(ctx context.Context, method, path string, body []byte) ([]byte, error) {
	url := c.baseURL + path

	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, url, reader)
	if err != nil {
		return nil, fmt.Errorf("create %s request: %w", method, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &model.TransportError{Op: method, URL: url, Err: err}
	}
	defer resp.Body.Close()

	respBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &model.TransportError{Op: method, URL: url, Err: fmt.Errorf("read response: %w", err)}
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &model.HTTPError{StatusCode: resp.StatusCode, Body: respBytes}
	}
	return respBytes, nil
}
