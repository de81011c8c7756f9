package middleware

import (
	"time"

	"plantcare-backend/pkg/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// RequestLogging assigns each request a unique ID, logs its start and
// completion with timing, and echoes the ID back in X-Request-ID.
func RequestLogging(logger zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := uuid.NewString()
		c.Set(utils.RequestIDKey, requestID)
		c.Header("X-Request-ID", requestID)

		start := time.Now()

		logger.Info().
			Str("request_id", requestID).
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Str("client", c.ClientIP()).
			Msg("request started")

		c.Next()

		duration := time.Since(start)
		status := c.Writer.Status()

		event := logger.Info()
		if status >= 500 {
			event = logger.Error()
		}
		event.
			Str("request_id", requestID).
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Int("status", status).
			Dur("duration", duration).
			Msg("request completed")
	}
}
