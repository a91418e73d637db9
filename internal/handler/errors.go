// Package handler provides HTTP handlers for the user service API.
package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/Adarsh-2019/user-service/internal/domain"
)

// apiError is the JSON error envelope returned on every failure.
type apiError struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

// writeError maps a domain failure to its transport representation.
// The taxonomy is fixed: validation 400, conflict 409, not-found 404,
// credential and token failures 401, anything else a generic 500 that
// never leaks internals.
func writeError(w http.ResponseWriter, err error) {
	var status int
	var body apiError

	switch {
	case domain.IsValidation(err):
		status = http.StatusBadRequest
		body = apiError{Error: err.Error(), Code: "validation_error"}
	case errors.Is(err, domain.ErrDuplicateEmail):
		status = http.StatusConflict
		body = apiError{Error: domain.ErrDuplicateEmail.Error(), Code: "duplicate_email"}
	case errors.Is(err, domain.ErrUserNotFound):
		status = http.StatusNotFound
		body = apiError{Error: domain.ErrUserNotFound.Error(), Code: "not_found"}
	case errors.Is(err, domain.ErrInvalidCredentials):
		status = http.StatusUnauthorized
		body = apiError{Error: domain.ErrInvalidCredentials.Error(), Code: "authentication_failed"}
	case errors.Is(err, domain.ErrTokenExpired):
		status = http.StatusUnauthorized
		body = apiError{Error: domain.ErrTokenExpired.Error(), Code: "token_expired"}
	case errors.Is(err, domain.ErrTokenInvalid):
		status = http.StatusUnauthorized
		body = apiError{Error: domain.ErrTokenInvalid.Error(), Code: "token_invalid"}
	default:
		status = http.StatusInternalServerError
		body = apiError{Error: "internal server error", Code: "internal_error"}
	}

	writeJSON(w, status, body)
}

// writeJSON writes a JSON response with the given status.
func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
