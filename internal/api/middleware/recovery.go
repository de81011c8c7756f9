package middleware

import (
	"plantcare-backend/pkg/utils"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// Recovery converts panics into the standard 500 error envelope so clients
// never see a raw stack or an empty body.
func Recovery(logger zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if r := recover(); r != nil {
				logger.Error().
					Interface("panic", r).
					Str("request_id", utils.RequestID(c)).
					Str("method", c.Request.Method).
					Str("path", c.Request.URL.Path).
					Msg("request panicked")

				utils.AbortWithError(c, utils.ErrInternal)
			}
		}()

		c.Next()
	}
}
