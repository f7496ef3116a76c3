package http

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"loan-advisor/finance"
	"loan-advisor/logger"
	"loan-advisor/repository"
	"loan-advisor/service"
)

const maxBodyBytes = 1 << 20

func sendJSON(w http.ResponseWriter, r *http.Request, status int, v any) {
	// Encode into a buffer first so a failure can still become a 500.
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(v); err != nil {
		logger.FromContext(r.Context()).Error("error encoding response", "error", err)
		sendJSONError(w, r, "internal server error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if _, err := buf.WriteTo(w); err != nil {
		logger.FromContext(r.Context()).Warn("error writing response", "error", err)
	}
}

func sendJSONError(w http.ResponseWriter, r *http.Request, message string, status int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	logger.FromContext(r.Context()).Warn("sending JSON error to client", "message", message, "statusCode", status)
	json.NewEncoder(w).Encode(map[string]string{"error": message})
}

// decodeJSON reads a JSON request body into v, writing the error response
// itself when the body is unusable.
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	if !strings.Contains(r.Header.Get("Content-Type"), "application/json") {
		sendJSONError(w, r, "Content-Type must be application/json", http.StatusUnsupportedMediaType)
		return false
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		logger.FromContext(r.Context()).Warn("error decoding request body", "error", err)
		sendJSONError(w, r, "invalid request body", http.StatusBadRequest)
		return false
	}
	return true
}

// sendServiceError maps domain errors onto HTTP statuses. Anything
// unrecognized is logged and hidden behind a 500.
func sendServiceError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, finance.ErrInvalidTerms),
		errors.Is(err, finance.ErrInvalidAnalysis),
		errors.Is(err, service.ErrInvalidInput):
		sendJSONError(w, r, err.Error(), http.StatusBadRequest)
	case errors.Is(err, service.ErrNoViableTerm):
		sendJSONError(w, r, err.Error(), http.StatusUnprocessableEntity)
	case errors.Is(err, repository.ErrNotFound):
		sendJSONError(w, r, "analysis not found", http.StatusNotFound)
	default:
		logger.FromContext(r.Context()).Error("request failed", "path", r.URL.Path, "error", err)
		sendJSONError(w, r, "internal server error", http.StatusInternalServerError)
	}
}
