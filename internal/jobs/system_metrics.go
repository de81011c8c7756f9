package jobs

import (
	"context"

	"plantcare-backend/pkg/ratelimit"
	"plantcare-backend/pkg/redis"
)

// SystemMetricsTask collects runtime metrics from the redis pool and the
// request rate limiter for monitoring.
type SystemMetricsTask struct {
	redisClient *redis.Client
	limiter     *ratelimit.Limiter
}

// NewSystemMetricsTask creates the periodic metrics collection task.
func NewSystemMetricsTask(redisClient *redis.Client, limiter *ratelimit.Limiter) *SystemMetricsTask {
	return &SystemMetricsTask{
		redisClient: redisClient,
		limiter:     limiter,
	}
}

// Name implements Task.
func (t *SystemMetricsTask) Name() string {
	return "system_metrics"
}

// Run implements Task.
func (t *SystemMetricsTask) Run(ctx context.Context) (map[string]interface{}, error) {
	limiterStats := t.limiter.Stats()

	return map[string]interface{}{
		"redis": t.redisClient.ConnectionStats(),
		"ratelimit": map[string]interface{}{
			"totalRequests":   limiterStats.TotalRequests,
			"blockedRequests": limiterStats.BlockedRequests,
			"activeClients":   limiterStats.ActiveClients,
		},
	}, nil
}
