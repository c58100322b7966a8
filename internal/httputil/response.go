package httputil

import (
	"encoding/json"
	"log/slog"
	"net/http"
)

// Response is the JSON envelope returned by every intake API endpoint.
// The error message is a short, user-facing string; internal detail stays
// in server logs.
type Response struct {
	OK    bool   `json:"ok"`
	Error string `json:"error,omitempty"`
}

// WriteJSON writes a JSON response with the given status code and data.
func WriteJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		slog.Error("failed to encode JSON response", slog.String("error", err.Error()))
	}
}

// WriteOK writes the success envelope with HTTP 200.
func WriteOK(w http.ResponseWriter) {
	WriteJSON(w, http.StatusOK, Response{OK: true})
}

// WriteError writes the failure envelope with the given status code.
func WriteError(w http.ResponseWriter, status int, message string) {
	WriteJSON(w, status, Response{OK: false, Error: message})
}
