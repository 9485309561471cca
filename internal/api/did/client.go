// Package did is a client for the avatar service's client-key resource.
package did

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/denis-hade/hade-avatar-server/internal/api"
)

const (
	defaultBaseURL = "https://api.d-id.com"

	// ClientKeyPath is the resource read with GET and created with POST.
	ClientKeyPath = "/agents/client-key"
)

// ClientOption configures the client.
type ClientOption func(*Client)

// WithBaseURL sets a custom base URL.
func WithBaseURL(baseURL string) ClientOption {
	return func(c *Client) {
		if baseURL != "" {
			c.baseURL = strings.TrimSuffix(baseURL, "/")
		}
	}
}

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(httpClient *http.Client) ClientOption {
	return func(c *Client) {
		c.httpClient = httpClient
	}
}

// Client talks to the avatar service using basic authentication.
type Client struct {
	username   string
	password   string
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a new avatar service client.
func NewClient(username, password string, opts ...ClientOption) *Client {
	c := &Client{
		username:   username,
		password:   password,
		baseURL:    defaultBaseURL,
		httpClient: http.DefaultClient,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// CreateClientKeyRequest is the body of the create call.
type CreateClientKeyRequest struct {
	AllowedDomains []string `json:"allowed_domains"`
}

// GetClientKey reads the current client key. Any status is returned as a
// Response; only transport failures are errors.
func (c *Client) GetClientKey(ctx context.Context) (*api.Response, error) {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+ClientKeyPath, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	c.setHeaders(httpReq)
	return api.Do(c.httpClient, httpReq)
}

// CreateClientKey asks the service to issue a key restricted to allowedDomains.
func (c *Client) CreateClientKey(ctx context.Context, allowedDomains []string) (*api.Response, error) {
	body, err := json.Marshal(CreateClientKeyRequest{AllowedDomains: allowedDomains})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+ClientKeyPath, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	c.setHeaders(httpReq)
	return api.Do(c.httpClient, httpReq)
}

func (c *Client) setHeaders(req *http.Request) {
	req.Header.Set("Accept", "application/json")
	req.SetBasicAuth(c.username, c.password)
}

// SplitDomains turns a comma-separated allowed-domain setting into a list,
// dropping blanks.
func SplitDomains(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
