package middleware

import (
	"fmt"
	"math"
	"net/http"
	"strconv"
	"strings"
	"time"

	"plantcare-backend/pkg/ratelimit"
	"plantcare-backend/pkg/utils"

	"github.com/gin-gonic/gin"
)

// RateLimit gates requests through the fixed-window limiter. Exempt paths
// pass through untouched; everything else gets quota headers, and exhausted
// clients get a 429 with a retry hint.
func RateLimit(limiter *ratelimit.Limiter) gin.HandlerFunc {
	return func(c *gin.Context) {
		decision := limiter.Check(clientKey(c), c.Request.URL.Path, time.Now())

		if decision.Exempt {
			c.Next()
			return
		}

		setRateLimitHeaders(c, decision)

		if !decision.Allowed {
			retrySeconds := int(math.Ceil(decision.RetryAfter.Seconds()))
			c.Header("Retry-After", strconv.Itoa(retrySeconds))

			cfg := limiter.Config()
			c.JSON(http.StatusTooManyRequests, utils.ErrorEnvelope{
				Error: utils.ErrorDetail{
					Code: utils.CodeRateLimitExceeded,
					Message: fmt.Sprintf(
						"Rate limit exceeded: %d requests per %d seconds",
						cfg.MaxCalls, int(cfg.Window.Seconds()),
					),
					RequestID:  utils.RequestID(c),
					RetryAfter: decision.RetryAfter.Seconds(),
				},
			})
			c.Abort()
			return
		}

		c.Next()
	}
}

// clientKey extracts the identity under which quota is tracked. Proxied
// requests carry the real address in forwarding headers, so those win over
// the socket peer.
func clientKey(c *gin.Context) string {
	if forwarded := c.GetHeader("X-Forwarded-For"); forwarded != "" {
		// First hop in the chain is the originating client.
		ips := strings.Split(forwarded, ",")
		if ip := strings.TrimSpace(ips[0]); ip != "" {
			return ip
		}
	}

	if realIP := c.GetHeader("X-Real-IP"); realIP != "" {
		return realIP
	}

	if ip := c.ClientIP(); ip != "" {
		return ip
	}

	return ratelimit.UnknownClientKey
}

func setRateLimitHeaders(c *gin.Context, decision ratelimit.Decision) {
	c.Header("X-RateLimit-Limit", strconv.Itoa(decision.Limit))
	c.Header("X-RateLimit-Remaining", strconv.Itoa(decision.Remaining))
	c.Header("X-RateLimit-Reset", strconv.FormatInt(decision.Reset.Unix(), 10))
}
