package logger

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	RequestIDHeader = "X-Request-ID"
	requestIDKey    = "request_id"
)

// RequestID returns the id GinMiddleware assigned to the request.
func RequestID(c *gin.Context) string {
	return c.GetString(requestIDKey)
}

// GinMiddleware tags each request with an id (reusing an incoming
// X-Request-ID) and logs it on completion at a level chosen by status.
func (l *Logger) GinMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(RequestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		c.Set(requestIDKey, id)
		c.Header(RequestIDHeader, id)

		start := time.Now()
		reqLog := l.With(
			"request_id", id,
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"remote_addr", c.ClientIP(),
		)
		reqLog.Debug("HTTP request started")

		c.Next()

		status := c.Writer.Status()
		args := []any{"status_code", status, "duration_ms", time.Since(start).Milliseconds()}
		switch {
		case status >= 500:
			reqLog.Logger.Error("HTTP request completed", args...)
		case status >= 400:
			reqLog.Warn("HTTP request completed", args...)
		default:
			reqLog.Info("HTTP request completed", args...)
		}
	}
}
