package handlers

import (
	"net/http"
	"time"

	"plantcare-backend/pkg/redis"

	"github.com/gin-gonic/gin"
)

const (
	ServiceName    = "plant-care-api"
	ServiceVersion = "1.0.0"
)

// HealthHandler serves liveness and dependency health endpoints.
type HealthHandler struct {
	redisClient *redis.Client
	environment string
}

// NewHealthHandler creates a health handler.
func NewHealthHandler(redisClient *redis.Client, environment string) *HealthHandler {
	return &HealthHandler{
		redisClient: redisClient,
		environment: environment,
	}
}

// HealthCheck is the basic liveness probe used by container orchestration.
func (h *HealthHandler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"service": ServiceName,
		"version": ServiceVersion,
	})
}

// DetailedHealthCheck reports per-dependency status. Returns 503 when any
// dependency is down so load balancers stop routing here.
func (h *HealthHandler) DetailedHealthCheck(c *gin.Context) {
	services := gin.H{
		"redis": h.checkRedis(),
	}

	overallHealthy := true
	for _, svc := range services {
		if status, ok := svc.(gin.H); ok {
			if healthy, ok := status["healthy"].(bool); ok && !healthy {
				overallHealthy = false
			}
		}
	}

	response := gin.H{
		"service":     ServiceName,
		"version":     ServiceVersion,
		"environment": h.environment,
		"timestamp":   time.Now().UTC(),
		"services":    services,
	}

	if overallHealthy {
		response["status"] = "healthy"
		c.JSON(http.StatusOK, response)
	} else {
		response["status"] = "unhealthy"
		c.JSON(http.StatusServiceUnavailable, response)
	}
}

// APIHealthCheck is the versioned health endpoint under /api/v1.
func (h *HealthHandler) APIHealthCheck(c *gin.Context) {
	redisStatus := h.checkRedis()

	healthy, _ := redisStatus["healthy"].(bool)
	status := "healthy"
	code := http.StatusOK
	if !healthy {
		status = "unhealthy"
		code = http.StatusServiceUnavailable
	}

	c.JSON(code, gin.H{
		"status":      status,
		"version":     ServiceVersion,
		"api_version": "v1",
		"dependencies": gin.H{
			"redis": redisStatus,
		},
	})
}

func (h *HealthHandler) checkRedis() gin.H {
	status := gin.H{
		"service": "redis",
		"healthy": false,
	}

	if h.redisClient == nil {
		status["error"] = "redis client not initialized"
		return status
	}

	healthStatus := h.redisClient.HealthCheck()
	status["healthy"] = healthStatus.IsConnected
	status["connectionInfo"] = healthStatus.ConnectionInfo
	status["responseTime"] = healthStatus.ResponseTime.String()
	status["lastPing"] = healthStatus.LastPing

	if healthStatus.Error != "" {
		status["error"] = healthStatus.Error
	}

	return status
}
