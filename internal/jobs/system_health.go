package jobs

import (
	"context"

	"plantcare-backend/pkg/redis"
)

// SystemHealthTask periodically verifies that the broker and worker side of
// the system are operational. Degraded dependencies are reported in the
// result payload rather than failing the run.
type SystemHealthTask struct {
	redisClient *redis.Client
	environment string
}

// NewSystemHealthTask creates the periodic system health check.
func NewSystemHealthTask(redisClient *redis.Client, environment string) *SystemHealthTask {
	return &SystemHealthTask{
		redisClient: redisClient,
		environment: environment,
	}
}

// Name implements Task.
func (t *SystemHealthTask) Name() string {
	return "system_health"
}

// Run implements Task.
func (t *SystemHealthTask) Run(ctx context.Context) (map[string]interface{}, error) {
	data := map[string]interface{}{
		"status":      "healthy",
		"environment": t.environment,
		"worker":      "operational",
	}

	status := t.redisClient.HealthCheck()
	if status.IsConnected {
		data["redis_broker"] = "healthy"
	} else {
		data["status"] = "unhealthy"
		data["redis_broker"] = "unhealthy"
		data["redis_error"] = status.Error
	}

	return data, nil
}
