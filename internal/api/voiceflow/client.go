// Package voiceflow is a thin client for the conversational runtime's
// session-scoped interact endpoint.
package voiceflow

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/denis-hade/hade-avatar-server/internal/api"
	"github.com/denis-hade/hade-avatar-server/internal/domain"
)

const (
	defaultBaseURL   = "https://general-runtime.voiceflow.com"
	defaultVersionID = "production"
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

// WithVersionID selects the runtime state (version) to interact with.
func WithVersionID(versionID string) ClientOption {
	return func(c *Client) {
		if versionID != "" {
			c.versionID = versionID
		}
	}
}

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(httpClient *http.Client) ClientOption {
	return func(c *Client) {
		c.httpClient = httpClient
	}
}

// Client calls the conversational runtime.
type Client struct {
	apiKey     string
	versionID  string
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a new runtime client.
func NewClient(apiKey string, opts ...ClientOption) *Client {
	c := &Client{
		apiKey:     apiKey,
		versionID:  defaultVersionID,
		baseURL:    defaultBaseURL,
		httpClient: http.DefaultClient,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Interact sends text on behalf of sessionID and returns the runtime's traces.
//
// A non-2xx answer is returned as a voiceflow_error APIError that mirrors the
// upstream status; transport failures become vf_proxy_failed.
func (c *Client) Interact(ctx context.Context, sessionID, text string) (*InteractResponse, error) {
	body, err := json.Marshal(InteractRequest{
		Request: Action{Type: "text", Payload: text},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	endpoint := fmt.Sprintf("%s/state/user/%s/interact", c.baseURL, url.PathEscape(sessionID))
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, proxyFailed(fmt.Errorf("failed to create request: %w", err))
	}

	c.setHeaders(httpReq)

	resp, err := api.Do(c.httpClient, httpReq)
	if err != nil {
		return nil, proxyFailed(err)
	}

	if !resp.OK() {
		return nil, domain.ErrUpstream(fmt.Sprintf("voiceflow returned status %d", resp.StatusCode)).
			WithCode(domain.ErrorCodeVoiceflow).
			WithUpstreamStatus(resp.StatusCode).
			WithStatusCode(resp.StatusCode).
			WithDetails(resp.Payload())
	}

	return &InteractResponse{Traces: unwrapTraces(resp.Body)}, nil
}

func (c *Client) setHeaders(req *http.Request) {
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("versionID", c.versionID)
}

func proxyFailed(err error) error {
	return domain.ErrServer("").
		WithCode(domain.ErrorCodeVoiceflowProxy).
		WithDetails(err.Error()).
		WithCause(err)
}
