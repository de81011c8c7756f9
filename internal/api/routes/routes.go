package routes

import (
	"plantcare-backend/internal/api/handlers"
	"plantcare-backend/internal/api/middleware"
	"plantcare-backend/internal/config"
	"plantcare-backend/pkg/cache"
	"plantcare-backend/pkg/ratelimit"
	"plantcare-backend/pkg/redis"
	"plantcare-backend/pkg/utils"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// Dependencies carries everything route handlers and middleware need. All
// collaborators are constructed at startup and injected here; nothing is
// looked up globally.
type Dependencies struct {
	Config      *config.Config
	RedisClient *redis.Client
	Limiter     *ratelimit.Limiter
	Cache       *cache.Cache
	Logger      zerolog.Logger
}

// Setup registers the middleware chain and all routes.
func Setup(router *gin.Engine, deps Dependencies) {
	// Logging runs first so every later stage (including rejections) is
	// attributed to a request ID.
	router.Use(middleware.RequestLogging(deps.Logger))
	router.Use(middleware.Recovery(deps.Logger))
	router.Use(middleware.SecurityHeaders())
	router.Use(middleware.RateLimit(deps.Limiter))

	healthHandler := handlers.NewHealthHandler(deps.RedisClient, deps.Config.Environment)
	rootHandler := handlers.NewRootHandler()

	router.GET("/", rootHandler.Root)
	router.GET("/health", healthHandler.HealthCheck)
	router.GET("/health/detailed", healthHandler.DetailedHealthCheck)

	api := router.Group("/api/v1")
	{
		api.GET("/", rootHandler.APIRoot)
		api.GET("/health", healthHandler.APIHealthCheck)
	}

	// Domain routers (plants, care, community, payments, ...) register here
	// as their modules are implemented.

	if deps.Config.Debug {
		debugHandler := handlers.NewDebugHandler(router, deps.Limiter, deps.Cache)
		debug := api.Group("/debug")
		{
			debug.GET("/routes", debugHandler.ListRoutes)
			debug.GET("/ratelimit", debugHandler.RateLimitStats)
			debug.GET("/cache", debugHandler.CacheStats)
		}
	}

	router.NoRoute(func(c *gin.Context) {
		utils.AbortWithError(c, utils.ErrNotFound)
	})
}
