package utils

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// RequestIDKey is the gin context key under which the per-request ID is
// stored by the logging middleware.
const RequestIDKey = "request_id"

// Error codes shared across handlers and middleware.
const (
	CodeRateLimitExceeded   = "RATE_LIMIT_EXCEEDED"
	CodeInternalServerError = "INTERNAL_SERVER_ERROR"
	CodeNotFound            = "NOT_FOUND"
)

// ErrorDetail is the inner error object of the standard error envelope.
type ErrorDetail struct {
	Code       string  `json:"code"`
	Message    string  `json:"message"`
	RequestID  string  `json:"request_id,omitempty"`
	RetryAfter float64 `json:"retry_after,omitempty"`
}

// ErrorEnvelope is the standard error response body:
//
//	{"error": {"code": ..., "message": ..., "request_id": ...}}
type ErrorEnvelope struct {
	Error ErrorDetail `json:"error"`
}

// ErrorResponse writes the standard error envelope with the given status.
// The request ID is picked up from the context when present.
func ErrorResponse(c *gin.Context, statusCode int, code, message string) {
	c.JSON(statusCode, ErrorEnvelope{
		Error: ErrorDetail{
			Code:      code,
			Message:   message,
			RequestID: RequestID(c),
		},
	})
}

// AppError is an application error carrying the HTTP status and the
// machine-readable code used by the error envelope. It satisfies the error
// interface so handlers can return it like any other error.
type AppError struct {
	Status  int
	Code    string
	Message string
}

func (e *AppError) Error() string {
	return e.Message
}

// Shared application errors.
var (
	ErrNotFound = &AppError{
		Status:  http.StatusNotFound,
		Code:    CodeNotFound,
		Message: "The requested resource was not found",
	}
	ErrInternal = &AppError{
		Status:  http.StatusInternalServerError,
		Code:    CodeInternalServerError,
		Message: "An unexpected error occurred. Please try again later.",
	}
)

// AbortWithError writes the standard envelope for err and stops the handler
// chain.
func AbortWithError(c *gin.Context, err *AppError) {
	c.AbortWithStatusJSON(err.Status, ErrorEnvelope{
		Error: ErrorDetail{
			Code:      err.Code,
			Message:   err.Message,
			RequestID: RequestID(c),
		},
	})
}

// RequestID returns the current request's ID, or empty if the logging
// middleware has not run.
func RequestID(c *gin.Context) string {
	if id, exists := c.Get(RequestIDKey); exists {
		if s, ok := id.(string); ok {
			return s
		}
	}
	return ""
}
