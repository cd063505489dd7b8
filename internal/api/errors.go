package api

import (
	"encoding/json"
	"errors"
	"net/http"
)

// Standard API errors
var (
	ErrNotFound     = errors.New("resource not found")
	ErrUnauthorized = errors.New("unauthorized")
	ErrBadRequest   = errors.New("bad request")
	ErrForbidden    = errors.New("forbidden")
	ErrTierRequired = errors.New("plan upgrade required")
	ErrLimitReached = errors.New("plan limit reached")
	ErrInternal     = errors.New("internal server error")
)

// ErrorResponse defines the standard error response format
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

// Error code constants. TIER_REQUIRED and FORBIDDEN are distinct so
// clients can render an upgrade prompt versus a permissions message.
const (
	CodeBadRequest   = "BAD_REQUEST"
	CodeUnauthorized = "UNAUTHORIZED"
	CodeNotFound     = "NOT_FOUND"
	CodeForbidden    = "FORBIDDEN"
	CodeTierRequired = "TIER_REQUIRED"
	CodeLimitReached = "LIMIT_REACHED"
	CodeMaintenance  = "MAINTENANCE"
	CodeInternal     = "INTERNAL"
)

// WriteError writes a JSON error response to the HTTP response writer
func WriteError(w http.ResponseWriter, err error, statusCode int, code string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	response := ErrorResponse{
		Error: err.Error(),
		Code:  code,
	}

	// Ignore encoding errors - nothing we can do at this point
	_ = json.NewEncoder(w).Encode(response)
}

// CodedError is a handler error carrying a machine-readable code alongside
// the message, rendered as the same {error, code} envelope WriteError uses.
// huma picks up the status from GetStatus and marshals the value as the
// response body. The code lets clients distinguish an upgrade prompt
// (TIER_REQUIRED, LIMIT_REACHED) from a permissions problem (FORBIDDEN).
type CodedError struct {
	status int
	cause  error

	Message string `json:"error"`
	Code    string `json:"code"`
}

func (e *CodedError) Error() string  { return e.Message }
func (e *CodedError) GetStatus() int { return e.status }
func (e *CodedError) Unwrap() error  { return e.cause }

// ErrorTierRequired is a 403 whose code tells the client the store's plan
// lacks the feature.
func ErrorTierRequired(msg string) error {
	return &CodedError{status: http.StatusForbidden, cause: ErrTierRequired, Message: msg, Code: CodeTierRequired}
}

// ErrorRoleForbidden is a 403 whose code tells the client the key's role
// lacks the permission.
func ErrorRoleForbidden(msg string) error {
	return &CodedError{status: http.StatusForbidden, cause: ErrForbidden, Message: msg, Code: CodeForbidden}
}

// ErrorLimitReached is a 403 whose code tells the client a plan limit has
// been hit.
func ErrorLimitReached(msg string) error {
	return &CodedError{status: http.StatusForbidden, cause: ErrLimitReached, Message: msg, Code: CodeLimitReached}
}

// WriteJSON writes a JSON response to the HTTP response writer
func WriteJSON(w http.ResponseWriter, data interface{}, statusCode int) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	return json.NewEncoder(w).Encode(data)
}

// WriteErrorFromStandard is a helper that maps standard errors to HTTP status codes
func WriteErrorFromStandard(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrNotFound):
		WriteError(w, err, http.StatusNotFound, CodeNotFound)
	case errors.Is(err, ErrUnauthorized):
		WriteError(w, err, http.StatusUnauthorized, CodeUnauthorized)
	case errors.Is(err, ErrBadRequest):
		WriteError(w, err, http.StatusBadRequest, CodeBadRequest)
	case errors.Is(err, ErrTierRequired):
		WriteError(w, err, http.StatusForbidden, CodeTierRequired)
	case errors.Is(err, ErrForbidden):
		WriteError(w, err, http.StatusForbidden, CodeForbidden)
	case errors.Is(err, ErrLimitReached):
		WriteError(w, err, http.StatusForbidden, CodeLimitReached)
	default:
		WriteError(w, err, http.StatusInternalServerError, CodeInternal)
	}
}
