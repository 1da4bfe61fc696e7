package api

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/HendryAvila/devdash/internal/project"
	"github.com/HendryAvila/devdash/internal/store"
)

// maxBodyBytes bounds JSON request bodies. Imports are the largest.
const maxBodyBytes = 4 << 20

// ---------------------------------------------------------------------------
// Request helpers
// ---------------------------------------------------------------------------

// readJSON decodes a JSON request body with a size limit. An empty body
// decodes to the zero value when allowEmpty is set.
func readJSON[T any](w http.ResponseWriter, r *http.Request, allowEmpty bool) (T, bool) {
	var v T
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	err := json.NewDecoder(r.Body).Decode(&v)
	if err == nil || (allowEmpty && errors.Is(err, io.EOF)) {
		return v, true
	}
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		writeError(w, http.StatusRequestEntityTooLarge, "request body too large")
	} else {
		writeError(w, http.StatusBadRequest, "invalid request body")
	}
	return v, false
}

// urlParam returns the unescaped chi route parameter. Escaped slashes
// survive routing and are decoded here so the path validator sees them.
func urlParam(r *http.Request, name string) string {
	raw := chi.URLParam(r, name)
	if v, err := url.PathUnescape(raw); err == nil {
		return v
	}
	return raw
}

// requireField writes a 400 error and returns false when value is empty.
func requireField(w http.ResponseWriter, value, fieldName string) bool {
	if value == "" {
		writeError(w, http.StatusBadRequest, fieldName+" is required")
		return false
	}
	return true
}

// queryInt parses an integer query parameter, falling back to def.
func queryInt(r *http.Request, key string, def int) (int, error) {
	v := r.URL.Query().Get(key)
	if v == "" {
		return def, nil
	}
	return strconv.Atoi(v)
}

// ---------------------------------------------------------------------------
// Response helpers
// ---------------------------------------------------------------------------

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		slog.Error("failed to write JSON response", "error", err)
	}
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, errorResponse{Error: message})
}

// writeDomainError maps sentinel errors to status codes. Escapes are
// checked before not-found because Info wraps both.
func writeDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, project.ErrInvalidPath):
		writeError(w, http.StatusForbidden, err.Error())
	case errors.Is(err, project.ErrNotFound), errors.Is(err, store.ErrNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, store.ErrEmptyTag):
		writeError(w, http.StatusBadRequest, "tag is required")
	case errors.Is(err, project.ErrEditorNotAllowed), errors.Is(err, project.ErrEditorNotFound):
		writeError(w, http.StatusBadRequest, err.Error())
	default:
		writeInternalError(w, err)
	}
}

// writeInternalError logs the actual error server-side and returns a generic message to the client.
func writeInternalError(w http.ResponseWriter, err error) {
	slog.Error("request failed", "error", err)
	writeError(w, http.StatusInternalServerError, "internal server error")
}
