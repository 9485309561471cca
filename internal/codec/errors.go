// Package codec renders canonical domain errors and success payloads as the
// JSON bodies the browser client expects.
package codec

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/denis-hade/hade-avatar-server/internal/domain"
)

// ErrorResponse is a rendered error ready to be written to the wire.
type ErrorResponse struct {
	StatusCode int
	Body       []byte
}

// ToCanonicalError converts any error to a domain.APIError.
// If the error is already a domain.APIError, it returns it directly.
// Otherwise, it wraps the error in a generic server error.
func ToCanonicalError(err error) *domain.APIError {
	var apiErr *domain.APIError
	if errors.As(err, &apiErr) {
		return apiErr
	}
	return domain.ErrServer(err.Error()).WithCause(err)
}

// FormatError builds the JSON error body for err.
//
// Errors carrying a wire code render as {"error": code, ...} with "status" and
// "details" when present; "message" is only emitted when no upstream status is
// known. Errors without a code render as {"error": message}.
func FormatError(err error) *ErrorResponse {
	apiErr := ToCanonicalError(err)

	body := map[string]any{}
	if apiErr.Code == "" {
		body["error"] = apiErr.Message
	} else {
		body["error"] = string(apiErr.Code)
		if apiErr.UpstreamStatus != 0 {
			body["status"] = apiErr.UpstreamStatus
		} else if apiErr.Message != "" {
			body["message"] = apiErr.Message
		}
		if apiErr.Details != nil {
			body["details"] = apiErr.Details
		}
	}

	encoded, _ := json.Marshal(body)

	return &ErrorResponse{
		StatusCode: apiErr.HTTPStatusCode(),
		Body:       encoded,
	}
}

// WriteError writes err as a JSON error response.
func WriteError(w http.ResponseWriter, err error) {
	resp := FormatError(err)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(resp.StatusCode)
	w.Write(resp.Body)
}

// WriteJSON writes v as a JSON response with the given status.
func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
