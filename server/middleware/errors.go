package middleware

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// HTTPError is an error that knows its status and caller-facing message.
// server/errors.AppError implements it.
type HTTPError interface {
	error
	StatusCode() int
	UserMessage() string
	GetContext() string
	Unwrap() error
}

// ErrorResponse is the JSON body of every error response.
type ErrorResponse struct {
	Error     string `json:"error"`
	Timestamp string `json:"timestamp"`
	RequestID string `json:"request_id,omitempty"`
}

// GinErrorHandler renders the last error a handler attached with c.Error,
// unless the handler already wrote a response.
func GinErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		last := c.Errors.Last()
		if last == nil || c.Writer.Written() {
			return
		}
		HandleHTTPError(c, last.Err)
	}
}

// HandleHTTPError writes err as a JSON error response. Errors implementing
// HTTPError keep their status and message; anything else is a 500 with a
// generic message.
func HandleHTTPError(c *gin.Context, err error) {
	reqID := GetRequestIDFromGin(c)

	statusCode := http.StatusInternalServerError
	message := "Internal server error"

	var httpErr HTTPError
	if errors.As(err, &httpErr) {
		statusCode = httpErr.StatusCode()
		message = httpErr.UserMessage()
		slog.Error("HTTP error",
			"error", httpErr.Unwrap(),
			"user_message", message,
			"context", httpErr.GetContext(),
			"status_code", statusCode,
			"request_id", reqID,
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
		)
	} else {
		slog.Error("HTTP error",
			"error", err,
			"status_code", statusCode,
			"request_id", reqID,
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
		)
	}

	c.AbortWithStatusJSON(statusCode, ErrorResponse{
		Error:     message,
		Timestamp: time.Now().Format(time.RFC3339),
		RequestID: reqID,
	})
}
