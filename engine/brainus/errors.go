package brainus

import (
	"errors"
	"fmt"
	"time"
)

// Error codes mirroring the failure kinds reported by the BrainUs API.
const (
	ErrCodeAuthentication = "AUTHENTICATION_ERROR"
	ErrCodeRateLimited    = "RATE_LIMITED"
	ErrCodeQuotaExceeded  = "QUOTA_EXCEEDED"
	ErrCodeTimeout        = "TIMEOUT"
	ErrCodeValidation     = "INPUT_VALIDATION_ERROR"
	ErrCodeAPI            = "API_ERROR"
)

// Error is the typed failure surfaced by the client and dispatcher. The Code
// field is the discriminant; callers branch on it rather than on dynamic
// types.
type Error struct {
	Code       string `json:"code"`
	Message    string `json:"message"`
	StatusCode int    `json:"status_code,omitempty"`
	// RetryAfter carries the server-provided wait hint on RATE_LIMITED
	// failures; zero means no hint was given.
	RetryAfter time.Duration `json:"-"`
	Err        error         `json:"-"`
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s (%v)", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// NewError creates a typed error with the given code.
func NewError(code, message string) *Error {
	return &Error{Code: code, Message: message}
}

// WrapError wraps an underlying error with a typed code.
func WrapError(code, message string, err error) *Error {
	return &Error{Code: code, Message: message, Err: err}
}

// AsError extracts a typed *Error from an error chain.
func AsError(err error) (*Error, bool) {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr, true
	}
	return nil, false
}

// IsCode reports whether err carries the given error code.
func IsCode(err error, code string) bool {
	apiErr, ok := AsError(err)
	return ok && apiErr.Code == code
}

// RetryAfterHint returns the server-provided wait hint on err, if any.
func RetryAfterHint(err error) time.Duration {
	if apiErr, ok := AsError(err); ok {
		return apiErr.RetryAfter
	}
	return 0
}
