package apperrors

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/MdFaizanuddin1/Ecommerce-Full-stack/logger"
	"github.com/MdFaizanuddin1/Ecommerce-Full-stack/response"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Error represents an application error
type Error struct {
	Code    int      `json:"statusCode"`
	Message string   `json:"message"`
	Details []string `json:"errors,omitempty"`
	Err     error    `json:"-"`
}

// Error implements the error interface
func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap returns the wrapped error
func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches on code and message so sentinels work with errors.Is even when
// handlers wrap them with a cause.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Code == e.Code && t.Message == e.Message
}

// Wrap returns a copy of e carrying cause.
func (e *Error) Wrap(cause error) *Error {
	return &Error{Code: e.Code, Message: e.Message, Details: e.Details, Err: cause}
}

// New creates a new Error
func New(code int, message string, err error) *Error {
	return &Error{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

func BadRequest(message string) *Error   { return New(http.StatusBadRequest, message, nil) }
func Unauthorized(message string) *Error { return New(http.StatusUnauthorized, message, nil) }
func Forbidden(message string) *Error    { return New(http.StatusForbidden, message, nil) }
func NotFound(message string) *Error     { return New(http.StatusNotFound, message, nil) }
func Conflict(message string) *Error     { return New(http.StatusConflict, message, nil) }

// Internal hides err from the client but keeps it for logging.
func Internal(message string, err error) *Error {
	return New(http.StatusInternalServerError, message, err)
}

// Validation builds a 400 with one entry per failing field.
func Validation(message string, details []string) *Error {
	return &Error{Code: http.StatusBadRequest, Message: message, Details: details}
}

// Common error types
var (
	ErrBadRequest         = New(http.StatusBadRequest, "Bad request", nil)
	ErrUnauthorized       = New(http.StatusUnauthorized, "Unauthorized request", nil)
	ErrForbidden          = New(http.StatusForbidden, "Forbidden", nil)
	ErrNotFound           = New(http.StatusNotFound, "Not found", nil)
	ErrInternalServer     = New(http.StatusInternalServerError, "Internal server error", nil)
	ErrServiceUnavailable = New(http.StatusServiceUnavailable, "Service unavailable", nil)
)

// Authentication error types
var (
	ErrInvalidCredentials = New(http.StatusUnauthorized, "Invalid password or user credentials", nil)
	ErrInvalidToken       = New(http.StatusUnauthorized, "Invalid token", nil)
	ErrRefreshReused      = New(http.StatusUnauthorized, "refresh token is expired or used", nil)
	ErrAdminOnly          = New(http.StatusForbidden, "Admin access only", nil)
)

// Business logic error types
var (
	ErrInsufficientStock = New(http.StatusBadRequest, "Insufficient stock", nil)
	ErrPaymentFailed     = New(http.StatusBadRequest, "payment verification failed", nil)
	ErrInvalidID         = New(http.StatusBadRequest, "Invalid ID format", nil)
)

// From converts any error into an *Error, defaulting to a 500.
func From(err error) *Error {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr
	}
	return Internal(ErrInternalServer.Message, err)
}

// ErrorMiddleware renders the last error attached to the gin context as the
// response envelope.
func ErrorMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 || c.Writer.Written() {
			return
		}

		appErr := From(c.Errors.Last().Err)
		if appErr.Code >= http.StatusInternalServerError {
			logger.Error(c, "request failed", appErr.Err,
				zap.String("path", c.FullPath()),
				zap.String("message", appErr.Message),
			)
		}
		response.Fail(c, appErr.Code, appErr.Message, appErr.Details)
	}
}

// Recovery turns panics into the 500 envelope.
func Recovery() gin.HandlerFunc {
	return gin.CustomRecovery(func(c *gin.Context, recovered interface{}) {
		logger.Error(c, "panic recovered", fmt.Errorf("%v", recovered), zap.String("path", c.Request.URL.Path))
		response.Fail(c, http.StatusInternalServerError, ErrInternalServer.Message, nil)
	})
}
