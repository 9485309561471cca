// Package did serves the avatar client-key endpoint.
package did

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/denis-hade/hade-avatar-server/internal/clientkey"
	"github.com/denis-hade/hade-avatar-server/internal/codec"
	"github.com/denis-hade/hade-avatar-server/internal/server"
)

// KeySource yields a usable client key.
type KeySource interface {
	Acquire(ctx context.Context) (*clientkey.Result, error)
}

type Handler struct {
	keys  KeySource
	check func() error
}

func NewHandler(keys KeySource, check func() error) *Handler {
	return &Handler{keys: keys, check: check}
}

// HandleClientKey answers GET and POST /did/client-key.
func (h *Handler) HandleClientKey(w http.ResponseWriter, r *http.Request) {
	server.AddLogField(r.Context(), "frontdoor", "did")
	w.Header().Set("Cache-Control", "no-store")

	if h.check != nil {
		if err := h.check(); err != nil {
			server.AddError(r.Context(), err)
			codec.WriteError(w, err)
			return
		}
	}

	res, err := h.keys.Acquire(r.Context())
	if err != nil {
		slog.Default().Error("client key acquisition failed",
			slog.String("request_id", server.GetRequestID(r.Context())),
			slog.String("error", err.Error()),
		)
		server.AddError(r.Context(), err)
		codec.WriteError(w, err)
		return
	}

	if res.Cached {
		server.AddLogField(r.Context(), "client_key_source", "cache")
	} else if res.Note != "" {
		server.AddLogField(r.Context(), "client_key_source", res.Note)
	} else {
		server.AddLogField(r.Context(), "client_key_source", "upstream")
	}

	codec.WriteJSON(w, http.StatusOK, res)
}
