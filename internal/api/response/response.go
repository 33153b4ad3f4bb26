// Package response provides utilities for sending consistent HTTP responses.
// It includes helpers for JSON responses and standardized error responses.
package response

import (
	"bytes"
	"encoding/json"
	"net/http"

	"github.com/ndewijer/Portfolio-Dashboard-Backend/internal/cache"
)

// CacheHeader reports whether a response was served from the result cache.
const CacheHeader = "X-Cache"

// ErrorResponse represents a structured error response returned by the API.
// The Details field is optional and can contain additional context about the error.
type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

// RespondJSON sends a JSON response with the given status code.
// If data is nil, only the status code is sent (useful for 204 No Content).
// data is encoded before anything is written; if that fails the client gets a
// 500 with an ErrorResponse instead of a truncated body.
func RespondJSON(w http.ResponseWriter, status int, data any) {
	if data == nil {
		w.WriteHeader(status)
		return
	}

	var body bytes.Buffer
	if err := json.NewEncoder(&body).Encode(data); err != nil {
		body.Reset()
		status = http.StatusInternalServerError
		_ = json.NewEncoder(&body).Encode(ErrorResponse{
			Error:   "failed to encode response",
			Details: err.Error(),
		})
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(body.Bytes())
}

// RespondCached is RespondJSON with the X-Cache header set to status.
func RespondCached(w http.ResponseWriter, status cache.Status, data any) {
	w.Header().Set(CacheHeader, string(status))
	RespondJSON(w, http.StatusOK, data)
}

// RespondError sends a structured error response with the given status code.
// The message should be a user-friendly error description.
//
// Example:
//
//	response.RespondError(w, http.StatusNotFound, "unknown asset class", err.Error())
func RespondError(w http.ResponseWriter, status int, message string, details string) {
	RespondJSON(w, status, ErrorResponse{
		Error:   message,
		Details: details,
	})
}
