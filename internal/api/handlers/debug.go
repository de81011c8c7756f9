package handlers

import (
	"net/http"

	"plantcare-backend/pkg/cache"
	"plantcare-backend/pkg/ratelimit"

	"github.com/gin-gonic/gin"
)

// DebugHandler exposes introspection endpoints. Only registered in debug
// mode.
type DebugHandler struct {
	router  *gin.Engine
	limiter *ratelimit.Limiter
	cache   *cache.Cache
}

// NewDebugHandler creates a debug handler.
func NewDebugHandler(router *gin.Engine, limiter *ratelimit.Limiter, c *cache.Cache) *DebugHandler {
	return &DebugHandler{
		router:  router,
		limiter: limiter,
		cache:   c,
	}
}

// ListRoutes returns all registered routes.
func (h *DebugHandler) ListRoutes(c *gin.Context) {
	routes := h.router.Routes()

	routesInfo := make([]gin.H, 0, len(routes))
	for _, route := range routes {
		routesInfo = append(routesInfo, gin.H{
			"method": route.Method,
			"path":   route.Path,
		})
	}

	c.JSON(http.StatusOK, gin.H{
		"total_routes": len(routesInfo),
		"routes":       routesInfo,
	})
}

// RateLimitStats returns limiter activity counters and the active policy.
func (h *DebugHandler) RateLimitStats(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"stats":  h.limiter.Stats(),
		"config": h.limiter.Config(),
	})
}

// CacheStats returns cache hit/miss counters.
func (h *DebugHandler) CacheStats(c *gin.Context) {
	c.JSON(http.StatusOK, h.cache.Stats())
}
