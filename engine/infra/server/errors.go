package server

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/brainus-ai/brainus-go/engine/brainus"
	"github.com/brainus-ai/brainus-go/engine/dispatch"
	"github.com/gin-gonic/gin"
)

// Error codes surfaced in API responses.
const (
	ErrBadRequestCode         = "BAD_REQUEST"
	ErrUnauthorizedCode       = "UNAUTHORIZED"
	ErrQuotaExceededCode      = "QUOTA_EXCEEDED"
	ErrRateLimitedCode        = "RATE_LIMITED"
	ErrGatewayTimeoutCode     = "GATEWAY_TIMEOUT"
	ErrUpstreamCode           = "UPSTREAM_ERROR"
	ErrServiceUnavailableCode = "SERVICE_UNAVAILABLE"
)

// Error represents errors that can occur while serving proxy requests.
type Error struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Err     error  `json:"-"`
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

// Response is the envelope every endpoint returns.
type Response struct {
	Status  int    `json:"status"`
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
	Error   *Error `json:"error,omitempty"`
}

func respondOK(c *gin.Context, message string, data any) {
	c.JSON(http.StatusOK, Response{Status: http.StatusOK, Message: message, Data: data})
}

func respondError(c *gin.Context, status int, apiErr *Error) {
	c.JSON(status, Response{Status: status, Message: apiErr.Message, Error: apiErr})
}

// mapQueryError translates dispatcher/client failures into HTTP responses.
func mapQueryError(c *gin.Context, err error) {
	var exhausted *dispatch.RetriesExhaustedError
	if errors.As(err, &exhausted) {
		respondError(c, http.StatusBadGateway, &Error{
			Code:    ErrUpstreamCode,
			Message: "upstream query failed after retries",
			Err:     err,
		})
		return
	}

	apiErr, ok := brainus.AsError(err)
	if !ok {
		respondError(c, http.StatusBadGateway, &Error{
			Code:    ErrUpstreamCode,
			Message: "upstream query failed",
			Err:     err,
		})
		return
	}
	switch apiErr.Code {
	case brainus.ErrCodeValidation:
		respondError(c, http.StatusBadRequest, &Error{Code: ErrBadRequestCode, Message: apiErr.Message})
	case brainus.ErrCodeAuthentication:
		respondError(c, http.StatusUnauthorized, &Error{Code: ErrUnauthorizedCode, Message: apiErr.Message})
	case brainus.ErrCodeQuotaExceeded:
		respondError(c, http.StatusForbidden, &Error{Code: ErrQuotaExceededCode, Message: apiErr.Message})
	case brainus.ErrCodeRateLimited:
		respondError(c, http.StatusTooManyRequests, &Error{Code: ErrRateLimitedCode, Message: apiErr.Message})
	case brainus.ErrCodeTimeout:
		respondError(c, http.StatusGatewayTimeout, &Error{Code: ErrGatewayTimeoutCode, Message: apiErr.Message})
	default:
		respondError(c, http.StatusBadGateway, &Error{Code: ErrUpstreamCode, Message: apiErr.Message})
	}
}
