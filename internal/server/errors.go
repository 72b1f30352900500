package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/vegasq/codesearch/query"
	"github.com/vegasq/codesearch/reader"
)

// AppError represents a standardized API error
type AppError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Err     error  `json:"-"` // Internal error for logging
}

// Error implements the error interface
func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// NewAppError creates a new AppError
func NewAppError(code int, message string, err error) *AppError {
	return &AppError{Code: code, Message: message, Err: err}
}

// BadRequest creates a 400 error
func BadRequest(message string) *AppError {
	return NewAppError(http.StatusBadRequest, message, nil)
}

// Internal creates a 500 error
func Internal(err error) *AppError {
	return NewAppError(http.StatusInternalServerError, "internal server error", err)
}

// toAppError maps service errors onto HTTP statuses. Client mistakes keep
// their message; store and internal failures do not leak details.
func toAppError(err error) *AppError {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	var dsErr *reader.DataSourceError
	switch {
	case errors.Is(err, query.ErrParse), errors.Is(err, query.ErrInvalidConfiguration):
		return NewAppError(http.StatusBadRequest, err.Error(), err)
	case errors.Is(err, context.DeadlineExceeded):
		return NewAppError(http.StatusGatewayTimeout, "search timed out", err)
	case errors.As(err, &dsErr):
		return NewAppError(http.StatusServiceUnavailable, "data source unavailable", err)
	default:
		return Internal(err)
	}
}

// abortWithError writes err as {"error": message} and stops the chain.
func (s *Server) abortWithError(c *gin.Context, err error) {
	appErr := toAppError(err)
	if appErr.Code >= http.StatusInternalServerError {
		s.log.Error("request failed",
			"request_id", RequestIDFrom(c),
			"path", c.Request.URL.Path,
			"status", appErr.Code,
			"error", err)
	}
	_ = c.Error(err)
	c.AbortWithStatusJSON(appErr.Code, gin.H{"error": appErr.Message})
}
