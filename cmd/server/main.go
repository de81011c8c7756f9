package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"plantcare-backend/internal/api/routes"
	"plantcare-backend/internal/config"
	"plantcare-backend/internal/jobs"
	"plantcare-backend/pkg/cache"
	"plantcare-backend/pkg/ratelimit"
	"plantcare-backend/pkg/redis"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

func main() {
	logger := zerolog.New(os.Stdout).With().Timestamp().Str("service", "plant-care-api").Logger()

	if err := run(logger); err != nil {
		logger.Fatal().Err(err).Msg("application failed")
	}
}

func run(logger zerolog.Logger) error {
	// Configuration is loaded and validated once, before anything serves
	// traffic. Everything downstream receives it explicitly.
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	if !cfg.Debug {
		gin.SetMode(gin.ReleaseMode)
	}

	logger.Info().
		Str("environment", cfg.Environment).
		Str("port", cfg.Port).
		Msg("plant care application starting up")

	// Redis backs the cache, job results, and health checks. Connection
	// failures retry in the background instead of blocking startup.
	redisClient := redis.NewClient(cfg.Redis)
	defer redisClient.Close()

	if status := redisClient.HealthCheck(); status.IsConnected {
		logger.Info().Str("addr", status.ConnectionInfo).Msg("redis connected")
	} else {
		logger.Warn().Str("error", status.Error).Msg("redis connection failed, will retry automatically")
	}

	appCache := cache.New(redisClient, cache.DefaultConfig())

	limiter := ratelimit.New(&ratelimit.Config{
		MaxCalls:      cfg.RateLimit.MaxCalls,
		Window:        cfg.RateLimit.Window(),
		ExemptPaths:   cfg.RateLimit.ExemptPaths,
		PurgeInterval: cfg.RateLimit.PurgeInterval,
		Enabled:       cfg.RateLimit.Enabled,
	})
	limiter.Start()
	defer limiter.Stop()

	router := gin.New()
	router.Use(cors.New(corsConfig(cfg)))

	routes.Setup(router, routes.Dependencies{
		Config:      cfg,
		RedisClient: redisClient,
		Limiter:     limiter,
		Cache:       appCache,
		Logger:      logger,
	})

	// Background jobs replace the former out-of-process task queue: results
	// land in redis with a TTL, just like a result backend.
	resultStore := jobs.NewResultStore(appCache, cfg.Jobs.ResultTTL)
	scheduler := jobs.NewScheduler(resultStore, logger)
	scheduler.Register(jobs.NewSystemHealthTask(redisClient, cfg.Environment), cfg.Jobs.HealthCheckInterval)
	scheduler.Register(jobs.NewSystemMetricsTask(redisClient, limiter), cfg.Jobs.MetricsInterval)
	scheduler.Start()
	defer scheduler.Stop()

	server := &http.Server{
		Addr:    cfg.Host + ":" + cfg.Port,
		Handler: router,
	}

	errChan := make(chan error, 1)
	go func() {
		logger.Info().Str("addr", server.Addr).Msg("server listening")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errChan <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errChan:
		return err
	case sig := <-quit:
		logger.Info().Str("signal", sig.String()).Msg("shutting down")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		return err
	}

	logger.Info().Msg("shutdown complete")
	return nil
}

func corsConfig(cfg *config.Config) cors.Config {
	corsCfg := cors.Config{
		AllowMethods:  []string{"GET", "POST", "PUT", "DELETE", "PATCH", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Authorization", "X-Requested-With"},
		ExposeHeaders: []string{"X-Request-ID", "X-RateLimit-Limit", "X-RateLimit-Remaining", "X-RateLimit-Reset"},
		MaxAge:        time.Hour,
	}

	// Wildcard origins cannot be combined with credentials.
	if len(cfg.AllowedOrigins) == 1 && cfg.AllowedOrigins[0] == "*" {
		corsCfg.AllowAllOrigins = true
	} else {
		corsCfg.AllowOrigins = cfg.AllowedOrigins
		corsCfg.AllowCredentials = true
	}

	return corsCfg
}
