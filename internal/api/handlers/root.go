package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// RootHandler serves the informational root and API inventory endpoints.
type RootHandler struct{}

// NewRootHandler creates a root handler.
func NewRootHandler() *RootHandler {
	return &RootHandler{}
}

// Root is the top-level welcome endpoint.
func (h *RootHandler) Root(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"message": "Welcome to Plant Care API",
		"version": ServiceVersion,
		"health":  "/health",
	})
}

// APIRoot lists the v1 API surface. Domain endpoints are reserved and will
// be registered as their modules land.
func (h *RootHandler) APIRoot(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"message": "Plant Care API v1",
		"version": ServiceVersion,
		"health":  "/api/v1/health",
		"endpoints": gin.H{
			"authentication": "/api/v1/auth",
			"users":          "/api/v1/users",
			"plants":         "/api/v1/plants",
			"care":           "/api/v1/care",
			"health":         "/api/v1/plant-health",
			"growth":         "/api/v1/growth",
			"community":      "/api/v1/community",
			"ai":             "/api/v1/ai",
			"weather":        "/api/v1/weather",
			"analytics":      "/api/v1/analytics",
			"notifications":  "/api/v1/notifications",
			"payments":       "/api/v1/payments",
			"content":        "/api/v1/content",
			"admin":          "/api/v1/admin",
		},
	})
}
