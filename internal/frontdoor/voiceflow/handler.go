// Package voiceflow serves the conversational reply relay.
package voiceflow

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"

	vfapi "github.com/denis-hade/hade-avatar-server/internal/api/voiceflow"
	"github.com/denis-hade/hade-avatar-server/internal/codec"
	"github.com/denis-hade/hade-avatar-server/internal/domain"
	"github.com/denis-hade/hade-avatar-server/internal/metrics"
	"github.com/denis-hade/hade-avatar-server/internal/reply"
	"github.com/denis-hade/hade-avatar-server/internal/server"
)

// DefaultFallbackReply is returned when the runtime produced no text.
const DefaultFallbackReply = "Sorry, I didn't catch that."

const maxRequestBytes = 1 << 20

// Interactor is the runtime call the relay depends on.
type Interactor interface {
	Interact(ctx context.Context, sessionID, text string) (*vfapi.InteractResponse, error)
}

type Handler struct {
	client   Interactor
	fallback string
	check    func() error
}

// Option configures a Handler.
type Option func(*Handler)

// WithFallbackReply overrides DefaultFallbackReply.
func WithFallbackReply(s string) Option {
	return func(h *Handler) {
		if s != "" {
			h.fallback = s
		}
	}
}

// WithConfigCheck runs check before every relay; a non-nil error fails the
// request without calling upstream.
func WithConfigCheck(check func() error) Option {
	return func(h *Handler) { h.check = check }
}

func NewHandler(client Interactor, opts ...Option) *Handler {
	h := &Handler{
		client:   client,
		fallback: DefaultFallbackReply,
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// ReplyRequest is the inbound body of POST /vf/reply.
type ReplyRequest struct {
	SessionID string `json:"sessionId"`
	UserText  string `json:"userText"`
}

// ReplyResponse is the successful response body.
type ReplyResponse struct {
	ReplyText string `json:"replyText"`
}

func (h *Handler) HandleReply(w http.ResponseWriter, r *http.Request) {
	logger := slog.Default()
	requestID := server.GetRequestID(r.Context())

	req, err := decodeReplyRequest(w, r)
	if err != nil {
		h.fail(w, r, "invalid", err)
		return
	}

	if h.check != nil {
		if err := h.check(); err != nil {
			h.fail(w, r, "config", err)
			return
		}
	}

	server.AddLogField(r.Context(), "frontdoor", "voiceflow")
	server.AddLogField(r.Context(), "session_id", req.SessionID)

	resp, err := h.client.Interact(r.Context(), req.SessionID, strings.TrimSpace(req.UserText))
	if err != nil {
		logger.Error("voiceflow interact failed",
			slog.String("request_id", requestID),
			slog.String("session_id", req.SessionID),
			slog.String("error", err.Error()),
		)
		h.fail(w, r, "upstream_error", err)
		return
	}

	text := reply.Extract(resp.Traces)
	outcome := "ok"
	if text == "" {
		text = h.fallback
		outcome = "fallback"
	}
	metrics.ObserveReply(outcome)
	server.AddLogField(r.Context(), "reply_outcome", outcome)

	codec.WriteJSON(w, http.StatusOK, ReplyResponse{ReplyText: text})
}

func (h *Handler) fail(w http.ResponseWriter, r *http.Request, outcome string, err error) {
	metrics.ObserveReply(outcome)
	server.AddError(r.Context(), err)
	codec.WriteError(w, err)
}

func decodeReplyRequest(w http.ResponseWriter, r *http.Request) (*ReplyRequest, error) {
	var req ReplyRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxRequestBytes)).Decode(&req); err != nil {
		return nil, domain.ErrInvalidRequest("request body must be a JSON object with string sessionId and userText").WithCause(err)
	}

	switch {
	case strings.TrimSpace(req.SessionID) == "":
		return nil, domain.ErrInvalidRequest("sessionId is required")
	case strings.TrimSpace(req.UserText) == "":
		return nil, domain.ErrInvalidRequest("userText is required")
	}
	req.SessionID = strings.TrimSpace(req.SessionID)
	return &req, nil
}
