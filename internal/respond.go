package internal

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"

	"asset-tracking-api/internal/store"

	"github.com/go-chi/chi/v5"
)

// Error kinds carried in the "code" field of error bodies
const (
	codeValidation   = "VALIDATION_ERROR"
	codeNotFound     = "NOT_FOUND"
	codeInternal     = "INTERNAL"
	codeImportFailed = "IMPORT_FAILED"
)

type errorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

// writeJSON writes a JSON response
func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, code, msg string) {
	writeJSON(w, status, errorResponse{Error: msg, Code: code})
}

func badRequest(w http.ResponseWriter, msg string) {
	writeError(w, http.StatusBadRequest, codeValidation, msg)
}

// storeFailed maps a store error to 404 or 500 and records it
func (s *Server) storeFailed(w http.ResponseWriter, r *http.Request, op string, err error) {
	if errors.Is(err, store.ErrNotFound) {
		s.Metrics.ObserveStore(op, "not_found")
		writeError(w, http.StatusNotFound, codeNotFound, "asset not found")
		return
	}
	s.Metrics.ObserveStore(op, "error")
	s.Log.Error("store operation failed", "op", op, "error", err, "request_id", RequestIDFromContext(r.Context()))
	writeError(w, http.StatusInternalServerError, codeInternal, err.Error())
}

// assetID parses the {id} URL parameter
func assetID(r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

const maxJSONBytes = 1 << 20 // 1 MB

// decodeBody decodes exactly one JSON value into v, writing a 400 (or 413
// for an oversized body) on failure
func decodeBody(w http.ResponseWriter, r *http.Request, v interface{}) bool {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxJSONBytes))
	if err := dec.Decode(v); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, http.StatusRequestEntityTooLarge, codeValidation, "request body too large")
			return false
		}
		badRequest(w, "invalid JSON body: "+err.Error())
		return false
	}
	if err := dec.Decode(&json.RawMessage{}); err != io.EOF {
		badRequest(w, "invalid JSON body: unexpected data after the first value")
		return false
	}
	return true
}
