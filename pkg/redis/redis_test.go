package redis

import (
	"strings"
	"testing"
	"time"

	"plantcare-backend/internal/config"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testRedisConfig(t *testing.T) (config.RedisConfig, *miniredis.Miniredis) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	host, port, found := strings.Cut(mr.Addr(), ":")
	require.True(t, found)

	return config.RedisConfig{
		Host:         host,
		Port:         port,
		DB:           0,
		PoolSize:     10,
		MinIdleConns: 2,
		MaxRetries:   3,
		RetryDelay:   time.Second,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
		PoolTimeout:  4 * time.Second,
	}, mr
}

func TestNewClient(t *testing.T) {
	cfg, _ := testRedisConfig(t)

	client := NewClient(cfg)
	defer client.Close()

	require.NotNil(t, client.GetClient())
	assert.True(t, client.IsConnected())
}

func TestReconnect_ServerRestarts(t *testing.T) {
	cfg, mr := testRedisConfig(t)

	client := NewClient(cfg)
	defer client.Close()

	require.True(t, client.IsConnected())

	mr.Close()
	require.False(t, client.HealthCheck().IsConnected)

	require.NoError(t, mr.Restart())

	assert.Eventually(t, client.IsConnected, 10*time.Second, 100*time.Millisecond,
		"client should re-mark itself connected after the server comes back")
}

func TestHealthCheck(t *testing.T) {
	cfg, _ := testRedisConfig(t)

	client := NewClient(cfg)
	defer client.Close()

	status := client.HealthCheck()
	assert.True(t, status.IsConnected)
	assert.Empty(t, status.Error)
	assert.Equal(t, cfg.Addr(), status.ConnectionInfo)
	assert.False(t, status.LastPing.IsZero())
	assert.True(t, client.IsConnected())
}

func TestHealthCheck_ServerDown(t *testing.T) {
	cfg, mr := testRedisConfig(t)

	client := NewClient(cfg)
	defer client.Close()

	require.True(t, client.HealthCheck().IsConnected)

	mr.Close()

	status := client.HealthCheck()
	assert.False(t, status.IsConnected)
	assert.NotEmpty(t, status.Error)
	assert.False(t, client.IsConnected())
}

func TestConnectionStats(t *testing.T) {
	cfg, _ := testRedisConfig(t)

	client := NewClient(cfg)
	defer client.Close()

	client.HealthCheck()

	stats := client.ConnectionStats()
	assert.NotContains(t, stats, "error")
	assert.Contains(t, stats, "totalConns")
	assert.Equal(t, true, stats["isConnected"])
}
