// Package api holds the plumbing shared by the upstream clients: executing a
// request and reading the body without assuming it is well-formed JSON.
package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
)

// maxBodyBytes caps how much of an upstream body is read into memory.
const maxBodyBytes = 4 << 20

// ErrBodyTooLarge is returned by Do when an upstream body exceeds maxBodyBytes.
var ErrBodyTooLarge = fmt.Errorf("upstream response exceeds %d bytes", maxBodyBytes)

// Response is an upstream reply with its body fully read.
type Response struct {
	StatusCode int
	Body       []byte
}

// OK reports whether the upstream answered with a 2xx status.
func (r *Response) OK() bool {
	return r.StatusCode >= 200 && r.StatusCode < 300
}

// Payload returns the decoded JSON body, or the trimmed raw text when the body
// is not valid JSON. An empty body yields nil.
func (r *Response) Payload() any {
	trimmed := bytes.TrimSpace(r.Body)
	if len(trimmed) == 0 {
		return nil
	}
	var v any
	if err := json.Unmarshal(trimmed, &v); err != nil {
		return string(trimmed)
	}
	return v
}

// Object returns the body as a JSON object, or nil when it is anything else.
func (r *Response) Object() map[string]any {
	obj, _ := r.Payload().(map[string]any)
	return obj
}

// String returns the first non-blank string value among keys in obj, with
// surrounding whitespace removed.
func String(obj map[string]any, keys ...string) string {
	for _, key := range keys {
		if s, ok := obj[key].(string); ok {
			if s = strings.TrimSpace(s); s != "" {
				return s
			}
		}
	}
	return ""
}

// Do executes req and reads the whole response body. Only transport-level
// failures and bodies over maxBodyBytes are returned as errors; non-2xx
// statuses are left to the caller.
func Do(client *http.Client, req *http.Request) (*Response, error) {
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}
	if len(body) > maxBodyBytes {
		return nil, ErrBodyTooLarge
	}

	return &Response{StatusCode: resp.StatusCode, Body: body}, nil
}
