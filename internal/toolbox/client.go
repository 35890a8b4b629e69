// Package toolbox is an HTTP client for the toolbox server: a separate
// process exposing data-lookup tools (company / industry / people / news
// search) behind a two-endpoint REST API.
//
// Endpoints:
//   - GET  {base}/api/toolset/{name}      -> toolset manifest (empty name = default)
//   - POST {base}/api/tool/{name}/invoke  -> {"result": ...} or {"error": ...}
package toolbox

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// DefaultBaseURL matches the demo toolbox process started alongside the app.
const DefaultBaseURL = "http://127.0.0.1:5000"

const defaultTimeout = 30 * time.Second

// Client talks to one toolbox server. Safe for concurrent use.
type Client struct {
	baseURL string
	hc      *http.Client
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client (used by tests).
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.hc = hc }
}

// New returns a client for the toolbox server at baseURL.
// An empty baseURL falls back to DefaultBaseURL.
func New(baseURL string, opts ...Option) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		hc:      &http.Client{Timeout: defaultTimeout},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// BaseURL returns the server address the client was built with.
func (c *Client) BaseURL() string { return c.baseURL }

// LoadToolset fetches the manifest for the named toolset.
// An empty name loads the server's default toolset.
func (c *Client) LoadToolset(ctx context.Context, name string) (*Toolset, error) {
	url := c.baseURL + "/api/toolset/" + name
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	resp, err := c.hc.Do(req)
	if err != nil {
		return nil, fmt.Errorf("toolbox %s unreachable: %w", c.baseURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("toolbox toolset %q: %s", name, readError(resp))
	}
	var ts Toolset
	if err := json.NewDecoder(resp.Body).Decode(&ts); err != nil {
		return nil, fmt.Errorf("decode toolset manifest: %w", err)
	}
	return &ts, nil
}

// Invoke calls a tool with a JSON argument object and returns the result text.
// Tool results are strings on the wire (often JSON-encoded rows); non-string
// results are returned as their raw JSON.
func (c *Client) Invoke(ctx context.Context, tool string, args json.RawMessage) (string, error) {
	if len(args) == 0 {
		args = json.RawMessage("{}")
	}
	url := c.baseURL + "/api/tool/" + tool + "/invoke"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(args))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.hc.Do(req)
	if err != nil {
		return "", fmt.Errorf("invoke %s: %w", tool, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", fmt.Errorf("invoke %s: %s", tool, readError(resp))
	}

	var body struct {
		Result json.RawMessage `json:"result"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return "", fmt.Errorf("invoke %s: decode response: %w", tool, err)
	}

	// Unquote string results; pass anything else through as raw JSON.
	var s string
	if err := json.Unmarshal(body.Result, &s); err == nil {
		return s, nil
	}
	return string(body.Result), nil
}

// readError extracts the server's error message from a non-2xx response,
// falling back to the HTTP status and a body snippet.
func readError(resp *http.Response) string {
	b, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
	var body struct {
		Error string `json:"error"`
	}
	if err := json.Unmarshal(b, &body); err == nil && body.Error != "" {
		return body.Error
	}
	msg := strings.TrimSpace(string(b))
	if msg == "" {
		return resp.Status
	}
	return fmt.Sprintf("%s: %s", resp.Status, msg)
}
