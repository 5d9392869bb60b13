// Package httpserver contains HTTP handlers and middleware.
//
// It exposes the REST API for interview generation, evaluation
// enqueueing, and result polling, keeping HTTP concerns out of the
// usecase layer.
package httpserver

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/prepwise/ai-interview-evaluator/internal/domain"
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
	case errors.Is(err, domain.ErrConflict):
		code = http.StatusConflict
		codeStr = "CONFLICT"
	case errors.Is(err, domain.ErrRateLimited):
		code = http.StatusTooManyRequests
		codeStr = "RATE_LIMITED"
	case errors.Is(err, domain.ErrEmptyResponse):
		code = http.StatusServiceUnavailable
		codeStr = "EMPTY_RESPONSE"
	case errors.Is(err, domain.ErrParse):
		code = http.StatusServiceUnavailable
		codeStr = "UNPARSABLE_RESPONSE"
	case errors.Is(err, domain.ErrUpstream):
		code = http.StatusServiceUnavailable
		codeStr = "UPSTREAM_ERROR"
	case errors.Is(err, domain.ErrNetwork):
		code = http.StatusServiceUnavailable
		codeStr = "NETWORK_ERROR"
	}
	writeJSON(w, code, errorEnvelope{Error: apiError{Code: codeStr, Message: err.Error(), Details: details}})
}
