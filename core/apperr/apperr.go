// Package apperr carries an error code, user message and HTTP status across layers.
package apperr

import (
	"errors"
	"fmt"
	"net/http"
	"sync"

	"grocery.GO/core/validate"
)

const (
	CodeValidation   = "VALIDATION_ERROR"
	CodeNotFound     = "RESOURCE_NOT_FOUND"
	CodeConflict     = "CONFLICT"
	CodeUnauthorized = "UNAUTHORIZED"
	CodeBadRequest   = "BAD_REQUEST"
	CodePrecondition = "FAILED_PRECONDITION"
	CodeUnavailable  = "SERVICE_UNAVAILABLE"
	CodeInternal     = "INTERNAL_ERROR"
)

type Error struct {
	Code       string            `json:"code"`
	Message    string            `json:"message"`
	Fields     map[string]string `json:"fields,omitempty"`
	HTTPStatus int               `json:"-"`
	Err        error             `json:"-"`
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error { return e.Err }

func New(code, message string, status int) *Error {
	return &Error{Code: code, Message: message, HTTPStatus: status}
}

func BadRequest(message string) *Error {
	return New(CodeBadRequest, message, http.StatusBadRequest)
}

func Unauthorized(message string) *Error {
	return New(CodeUnauthorized, message, http.StatusUnauthorized)
}

func Internal(err error) *Error {
	return &Error{Code: CodeInternal, Message: "internal error", HTTPStatus: http.StatusInternalServerError, Err: err}
}

type mapping struct {
	target error
	code   string
	status int
}

var (
	mu       sync.RWMutex
	mappings []mapping
)

// Register maps a sentinel error to a code and status. Call from init().
func Register(target error, code string, status int) {
	mu.Lock()
	defer mu.Unlock()
	mappings = append(mappings, mapping{target: target, code: code, status: status})
}

// From converts any error into an *Error. Registered sentinels keep their message; field
// validation failures become VALIDATION_ERROR with per-field messages.
func From(err error) *Error {
	if err == nil {
		return nil
	}
	var ae *Error
	if errors.As(err, &ae) {
		return ae
	}
	var ve *validate.Error
	if errors.As(err, &ve) {
		return &Error{
			Code:       CodeValidation,
			Message:    ve.Error(),
			Fields:     ve.Map(),
			HTTPStatus: http.StatusUnprocessableEntity,
			Err:        err,
		}
	}
	mu.RLock()
	defer mu.RUnlock()
	for _, m := range mappings {
		if errors.Is(err, m.target) {
			return &Error{Code: m.code, Message: m.target.Error(), HTTPStatus: m.status, Err: err}
		}
	}
	return Internal(err)
}
