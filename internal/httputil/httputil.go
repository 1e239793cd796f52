// Package httputil provides utility functions for HTTP servers.
package httputil

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
)

const (
	base10    = 10
	int64Size = 64

	// maxBodyBytes caps request bodies.
	maxBodyBytes = 1 << 20
)

// Message is the JSON body used for confirmations and errors.
// The capitalized keys are part of the wire format.
type Message struct {
	Message string            `json:"Message"`
	Errors  map[string]string `json:"Errors,omitempty"`
}

// IDFromString parses an int64 ID from the given string.
func IDFromString(s string) (int64, error) {
	id, err := strconv.ParseInt(s, base10, int64Size)
	if err != nil {
		return 0, fmt.Errorf("error parsing %q: %w", s, err)
	}

	return id, nil
}

// ParseIDFromPath parses an int64 ID from the named path value.
// It writes a 400 response and returns false if the value is not an integer.
func ParseIDFromPath(w http.ResponseWriter, r *http.Request, logger *slog.Logger, name string) (int64, bool) {
	id, err := IDFromString(r.PathValue(name))
	if err != nil {
		msg := "error parsing " + name
		logger.InfoContext(r.Context(), msg, slog.Any("err", err))
		WriteMessage(w, r, logger, http.StatusBadRequest, Message{
			Message: msg,
			Errors:  map[string]string{name: "must be an integer"},
		})

		return 0, false
	}

	return id, true
}

// EncodeJSON encodes v to JSON, sets status, and writes it to w.
func EncodeJSON[T any](w http.ResponseWriter, statusCode int, v T) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		return fmt.Errorf("failed to encode json: %w", err)
	}

	return nil
}

// DecodeJSON decodes JSON from r regardless of its Content-Type.
func DecodeJSON[T any](w http.ResponseWriter, r *http.Request) (T, error) {
	var v T
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(&v); err != nil {
		return v, fmt.Errorf("failed to decode json: %w", err)
	}

	return v, nil
}

// WriteMessage encodes msg with the given status and logs an encoding failure.
func WriteMessage(w http.ResponseWriter, r *http.Request, logger *slog.Logger, statusCode int, msg Message) {
	if err := EncodeJSON(w, statusCode, msg); err != nil {
		logger.ErrorContext(r.Context(), "error encoding message", slog.Any("err", err))
	}
}

// WriteInternalError logs err and writes a generic 500 response.
func WriteInternalError(w http.ResponseWriter, r *http.Request, logger *slog.Logger, msg string, err error) {
	logger.ErrorContext(r.Context(), msg, slog.Any("err", err))
	WriteMessage(w, r, logger, http.StatusInternalServerError, Message{Message: "internal server error"})
}
