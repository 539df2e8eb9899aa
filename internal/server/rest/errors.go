package rest

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/dmitrijs2005/cloudvault/internal/common"
)

// Machine-readable error codes returned in {"error": {"code", "message"}}.
const (
	CodeValidationError    = "VALIDATION_ERROR"
	CodeDuplicateEmail     = "DUPLICATE_EMAIL"
	CodeInvalidParent      = "INVALID_PARENT"
	CodeCyclicMove         = "CYCLIC_MOVE"
	CodeInvalidCredentials = "INVALID_CREDENTIALS"
	CodeUnauthenticated    = "UNAUTHENTICATED"
	CodeUserNotFound       = "USER_NOT_FOUND"
	CodeNotFound           = "NOT_FOUND"
	CodeMethodNotAllowed   = "METHOD_NOT_ALLOWED"
	CodePayloadTooLarge    = "PAYLOAD_TOO_LARGE"
	CodeTooManyAttempts    = "TOO_MANY_ATTEMPTS"
	CodeStorageWrite       = "STORAGE_WRITE_ERROR"
	CodeStorageRead        = "STORAGE_READ_ERROR"
	CodeInternalError      = "INTERNAL_ERROR"
)

type errorBody struct {
	Error errorDetail `json:"error"`
}

type errorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// WriteError writes the standard error envelope.
func WriteError(w http.ResponseWriter, statusCode int, code, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(errorBody{
		Error: errorDetail{
			Code:    code,
			Message: message,
		},
	})
}

type apiError struct {
	status  int
	code    string
	message string
}

// errorTable is checked in order; the first sentinel matched by errors.Is
// wins. Messages are fixed so no internal detail reaches the client.
var errorTable = []struct {
	target error
	apiError
}{
	{common.ErrValidation, apiError{http.StatusBadRequest, CodeValidationError, "invalid request"}},
	{common.ErrDuplicateEmail, apiError{http.StatusBadRequest, CodeDuplicateEmail, "email already registered"}},
	{common.ErrInvalidParent, apiError{http.StatusBadRequest, CodeInvalidParent, "parent must be one of your folders"}},
	{common.ErrCyclicMove, apiError{http.StatusBadRequest, CodeCyclicMove, "cannot move an entry into itself or its descendants"}},
	{common.ErrInvalidCredentials, apiError{http.StatusUnauthorized, CodeInvalidCredentials, "invalid email or password"}},
	{common.ErrUnauthenticated, apiError{http.StatusUnauthorized, CodeUnauthenticated, "authentication required"}},
	{common.ErrUserNotFound, apiError{http.StatusUnauthorized, CodeUserNotFound, "user not found"}},
	{common.ErrNotFound, apiError{http.StatusNotFound, CodeNotFound, "not found"}},
	{common.ErrPayloadTooLarge, apiError{http.StatusRequestEntityTooLarge, CodePayloadTooLarge, "file is too large"}},
	{common.ErrTooManyAttempts, apiError{http.StatusTooManyRequests, CodeTooManyAttempts, "too many login attempts, try again later"}},
	{common.ErrStorageWrite, apiError{http.StatusInternalServerError, CodeStorageWrite, "could not store file"}},
	{common.ErrStorageRead, apiError{http.StatusInternalServerError, CodeStorageRead, "could not read file"}},
}

var internalError = apiError{http.StatusInternalServerError, CodeInternalError, "internal error"}

func classify(err error) apiError {
	for _, e := range errorTable {
		if errors.Is(err, e.target) {
			return e.apiError
		}
	}
	return internalError
}

// writeServiceError maps err to a response. Validation messages are passed
// through since they only describe the client's own input.
func (s *HTTPServer) writeServiceError(w http.ResponseWriter, r *http.Request, op string, err error) {
	ae := classify(err)
	msg := ae.message
	if ae.code == CodeValidationError {
		msg = err.Error()
	}
	if ae.status >= http.StatusInternalServerError {
		s.logger.Error(r.Context(), "request failed", "op", op, "error", err)
	}
	WriteError(w, ae.status, ae.code, msg)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
