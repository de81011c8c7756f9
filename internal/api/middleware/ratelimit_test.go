package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"plantcare-backend/pkg/ratelimit"
	"plantcare-backend/pkg/utils"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupRateLimitRouter(maxCalls int, window time.Duration) (*gin.Engine, *ratelimit.Limiter) {
	gin.SetMode(gin.TestMode)

	limiter := ratelimit.New(&ratelimit.Config{
		MaxCalls:      maxCalls,
		Window:        window,
		ExemptPaths:   []string{"/health"},
		PurgeInterval: time.Minute,
		Enabled:       true,
	})

	router := gin.New()
	router.Use(RateLimit(limiter))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "healthy"})
	})
	router.GET("/api/v1/plants", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"plants": []string{}})
	})

	return router, limiter
}

func doRequest(router *gin.Engine, path, clientIP string) *httptest.ResponseRecorder {
	req := httptest.NewRequest("GET", path, nil)
	if clientIP != "" {
		req.Header.Set("X-Forwarded-For", clientIP)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestRateLimit_AdmitsWithHeaders(t *testing.T) {
	router, _ := setupRateLimitRouter(5, time.Minute)

	w := doRequest(router, "/api/v1/plants", "192.168.1.1")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "5", w.Header().Get("X-RateLimit-Limit"))
	assert.Equal(t, "4", w.Header().Get("X-RateLimit-Remaining"))
	assert.NotEmpty(t, w.Header().Get("X-RateLimit-Reset"))
}

func TestRateLimit_RejectsWhenExhausted(t *testing.T) {
	router, _ := setupRateLimitRouter(2, time.Minute)

	doRequest(router, "/api/v1/plants", "192.168.1.2")
	doRequest(router, "/api/v1/plants", "192.168.1.2")
	w := doRequest(router, "/api/v1/plants", "192.168.1.2")

	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Equal(t, "0", w.Header().Get("X-RateLimit-Remaining"))

	retryAfter, err := strconv.Atoi(w.Header().Get("Retry-After"))
	require.NoError(t, err)
	assert.Greater(t, retryAfter, 0)
	assert.LessOrEqual(t, retryAfter, 60)

	var envelope utils.ErrorEnvelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &envelope))
	assert.Equal(t, utils.CodeRateLimitExceeded, envelope.Error.Code)
	assert.Contains(t, envelope.Error.Message, "2 requests per 60 seconds")
	assert.Positive(t, envelope.Error.RetryAfter)
}

func TestRateLimit_ExemptPathBypasses(t *testing.T) {
	router, limiter := setupRateLimitRouter(1, time.Minute)

	// Exhaust the quota first.
	doRequest(router, "/api/v1/plants", "192.168.1.3")
	require.Equal(t, http.StatusTooManyRequests, doRequest(router, "/api/v1/plants", "192.168.1.3").Code)

	for i := 0; i < 5; i++ {
		w := doRequest(router, "/health", "192.168.1.3")
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Empty(t, w.Header().Get("X-RateLimit-Limit"))
	}

	// Exempt traffic never touches limiter state.
	assert.Equal(t, int64(2), limiter.Stats().TotalRequests)
}

func TestRateLimit_DifferentClients(t *testing.T) {
	router, _ := setupRateLimitRouter(1, time.Minute)

	require.Equal(t, http.StatusOK, doRequest(router, "/api/v1/plants", "192.168.1.4").Code)
	require.Equal(t, http.StatusTooManyRequests, doRequest(router, "/api/v1/plants", "192.168.1.4").Code)

	assert.Equal(t, http.StatusOK, doRequest(router, "/api/v1/plants", "192.168.1.5").Code)
}

func TestClientKey(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name     string
		headers  map[string]string
		expected string
	}{
		{
			name:     "forwarded chain uses first hop",
			headers:  map[string]string{"X-Forwarded-For": "10.0.0.1, 10.0.0.2"},
			expected: "10.0.0.1",
		},
		{
			name:     "real ip fallback",
			headers:  map[string]string{"X-Real-IP": "10.0.0.3"},
			expected: "10.0.0.3",
		},
		{
			name:     "remote addr fallback",
			headers:  map[string]string{},
			expected: "192.0.2.1",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)
			c.Request = httptest.NewRequest("GET", "/test", nil)
			for k, v := range tt.headers {
				c.Request.Header.Set(k, v)
			}

			assert.Equal(t, tt.expected, clientKey(c))
		})
	}
}
