package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
)

// Config holds all application settings. Built once at startup by Load and
// passed down explicitly; there is no ambient global.
type Config struct {
	Environment    string   `validate:"oneof=development staging production"`
	Debug          bool
	Host           string   `validate:"required"`
	Port           string   `validate:"required,numeric"`
	AllowedOrigins []string `validate:"min=1"`

	Redis     RedisConfig
	RateLimit RateLimitConfig
	Jobs      JobsConfig
}

// RedisConfig holds Redis connection settings.
type RedisConfig struct {
	URL          string
	Host         string `validate:"required"`
	Port         string `validate:"required,numeric"`
	Password     string
	DB           int           `validate:"gte=0"`
	PoolSize     int           `validate:"gt=0"`
	MinIdleConns int           `validate:"gte=0"`
	MaxRetries   int           `validate:"gte=0"`
	RetryDelay   time.Duration `validate:"gt=0"`
	DialTimeout  time.Duration `validate:"gt=0"`
	ReadTimeout  time.Duration `validate:"gt=0"`
	WriteTimeout time.Duration `validate:"gt=0"`
	PoolTimeout  time.Duration `validate:"gt=0"`
}

// RateLimitConfig holds the request rate limiting policy.
type RateLimitConfig struct {
	Enabled       bool
	MaxCalls      int           `validate:"gt=0"`
	WindowSeconds int           `validate:"gt=0"`
	ExemptPaths   []string
	PurgeInterval time.Duration `validate:"gt=0"`
}

// JobsConfig holds background job scheduling settings.
type JobsConfig struct {
	HealthCheckInterval time.Duration `validate:"gt=0"`
	MetricsInterval     time.Duration `validate:"gt=0"`
	ResultTTL           time.Duration `validate:"gt=0"`
}

// Load reads settings from the environment (and an optional .env file),
// applies defaults, and validates the result. It returns an error rather
// than exiting so callers decide how to fail.
func Load() (*Config, error) {
	// A missing .env file is fine; real deployments set the environment
	// directly.
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("loading .env file: %w", err)
	}

	cfg := &Config{
		Environment:    getEnv("ENVIRONMENT", "development"),
		Debug:          getEnvBool("DEBUG", true),
		Host:           getEnv("APP_HOST", "0.0.0.0"),
		Port:           getEnv("APP_PORT", "8080"),
		AllowedOrigins: getEnvList("ALLOWED_ORIGINS", []string{"http://localhost:3000", "http://localhost:5173"}),
		Redis: RedisConfig{
			URL:          getEnv("REDIS_URL", ""),
			Host:         getEnv("REDIS_HOST", "localhost"),
			Port:         getEnv("REDIS_PORT", "6379"),
			Password:     getEnv("REDIS_PASSWORD", ""),
			DB:           getEnvInt("REDIS_DB", 0),
			PoolSize:     getEnvInt("REDIS_POOL_SIZE", 20),
			MinIdleConns: getEnvInt("REDIS_MIN_IDLE_CONNS", 5),
			MaxRetries:   getEnvInt("REDIS_MAX_RETRIES", 3),
			RetryDelay:   getEnvDuration("REDIS_RETRY_DELAY", time.Second),
			DialTimeout:  getEnvDuration("REDIS_DIAL_TIMEOUT", 5*time.Second),
			ReadTimeout:  getEnvDuration("REDIS_READ_TIMEOUT", 3*time.Second),
			WriteTimeout: getEnvDuration("REDIS_WRITE_TIMEOUT", 3*time.Second),
			PoolTimeout:  getEnvDuration("REDIS_POOL_TIMEOUT", 4*time.Second),
		},
		RateLimit: RateLimitConfig{
			Enabled:       getEnvBool("RATE_LIMIT_ENABLED", true),
			MaxCalls:      getEnvInt("RATE_LIMIT_MAX_CALLS", 100),
			WindowSeconds: getEnvInt("RATE_LIMIT_WINDOW_SECONDS", 60),
			ExemptPaths:   getEnvList("RATE_LIMIT_EXEMPT_PATHS", []string{"/health", "/health/detailed"}),
			PurgeInterval: getEnvDuration("RATE_LIMIT_PURGE_INTERVAL", 5*time.Minute),
		},
		Jobs: JobsConfig{
			HealthCheckInterval: getEnvDuration("JOBS_HEALTH_CHECK_INTERVAL", 5*time.Minute),
			MetricsInterval:     getEnvDuration("JOBS_METRICS_INTERVAL", 15*time.Minute),
			ResultTTL:           getEnvDuration("JOBS_RESULT_TTL", time.Hour),
		},
	}

	if err := validator.New().Struct(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// Window returns the rate limit window as a duration.
func (c RateLimitConfig) Window() time.Duration {
	return time.Duration(c.WindowSeconds) * time.Second
}

// Addr returns the host:port address for the redis server.
func (c RedisConfig) Addr() string {
	return c.Host + ":" + c.Port
}

// IsProduction reports whether the app runs in production mode.
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvBool(key string, fallback bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := strconv.ParseBool(value)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := time.ParseDuration(value)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvList(key string, fallback []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}

	parts := strings.Split(value, ",")
	list := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			list = append(list, trimmed)
		}
	}
	if len(list) == 0 {
		return fallback
	}
	return list
}
