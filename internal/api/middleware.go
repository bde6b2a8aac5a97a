package api

import (
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const requestIDHeader = "X-Request-ID"

// RequestIDMiddleware adds a unique request ID to each request context.
// The ID is either taken from the X-Request-ID header or generated.
func RequestIDMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.GetHeader(requestIDHeader)
		if requestID == "" {
			requestID = uuid.NewString()
		}
		c.Set("request_id", requestID)
		c.Writer.Header().Set(requestIDHeader, requestID)
		c.Next()
	}
}

// LoggerMiddleware logs each request once with method, path, status,
// duration, and client IP.
func LoggerMiddleware(log Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		method := c.Request.Method

		c.Next()

		keysAndValues := []any{
			"method", method,
			"path", path,
			"status", c.Writer.Status(),
			"duration", time.Since(start),
			"client_ip", c.ClientIP(),
			"request_id", c.GetString("request_id"),
		}
		if query := c.Request.URL.RawQuery; query != "" {
			keysAndValues = append(keysAndValues, "query", query)
		}
		if !strings.HasPrefix(path, "/health") {
			keysAndValues = append(keysAndValues, "user_agent", c.Request.UserAgent())
		}

		if len(c.Errors) > 0 {
			keysAndValues = append(keysAndValues, "errors", c.Errors.String())
			log.Error("HTTP request with errors", keysAndValues...)
			return
		}
		log.Info("HTTP request", keysAndValues...)
	}
}

// RecoveryMiddleware converts panics into a 500 envelope instead of a
// dropped connection.
func RecoveryMiddleware(log Logger) gin.HandlerFunc {
	return gin.CustomRecovery(func(c *gin.Context, recovered any) {
		log.Error("Panic recovered",
			"panic", recovered,
			"path", c.Request.URL.Path,
			"request_id", c.GetString("request_id"))
		respondError(c, 500, "internal server error")
		c.Abort()
	})
}
