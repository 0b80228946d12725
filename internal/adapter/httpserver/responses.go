// Package httpserver contains HTTP handlers and middleware.
//
// It provides REST endpoints for resume ingestion, profile retrieval, and
// posting ranking, keeping HTTP concerns separate from business logic.
package httpserver

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/amithrb/jobfinder/internal/domain"
)

type errorEnvelope struct {
	Error apiError `json:"error"`
}

type apiError struct {
	Code    string      `json:"code"`
	Message string      `json:"message"`
	Details interface{} `json:"details"`
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, _ *http.Request, err error, details interface{}) {
	code := http.StatusInternalServerError
	codeStr := "INTERNAL"
	switch {
	case errors.Is(err, domain.ErrInvalidArgument):
		code = http.StatusBadRequest
		codeStr = "INVALID_ARGUMENT"
	case errors.Is(err, domain.ErrNotFound):
		code = http.StatusNotFound
		codeStr = "NOT_FOUND"
	case errors.Is(err, domain.ErrParse):
		code = http.StatusUnprocessableEntity
		codeStr = "PARSE_ERROR"
	case errors.Is(err, domain.ErrServiceUnavailable):
		code = http.StatusServiceUnavailable
		codeStr = "SERVICE_UNAVAILABLE"
	case errors.Is(err, domain.ErrSchemaInvalid):
		code = http.StatusBadGateway
		codeStr = "SCHEMA_INVALID"
	}
	writeJSON(w, code, errorEnvelope{Error: apiError{Code: codeStr, Message: err.Error(), Details: details}})
}
