package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_RedisAddrRequired(t *testing.T) {
	t.Setenv(envRedisAddr, "")

	cfg, err := LoadConfig()
	require.Error(t, err)
	assert.Nil(t, cfg)
	assert.Contains(t, err.Error(), "REDIS_ADDR is required")
}

func TestLoadConfig_Ok(t *testing.T) {
	t.Setenv(envRedisAddr, "redis://localhost:6379")
	t.Setenv(envHTTPPort, "8080")
	t.Setenv(envMetricsPort, "9090")
	t.Setenv(envDataDir, "/var/lib/greyhound")

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, "redis://localhost:6379", cfg.Redis.Addr)
	assert.Equal(t, 8080, cfg.HTTPPort)
	assert.Equal(t, 0, cfg.GRPCHealthPort)
	assert.Equal(t, 9090, cfg.MetricsPort)
	assert.Equal(t, "/var/lib/greyhound", cfg.DataDir)
}

func TestLoadConfig_InMemoryByDefault(t *testing.T) {
	t.Setenv(envRedisAddr, "redis://localhost:6379")
	t.Setenv(envDataDir, "")

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Empty(t, cfg.DataDir)
}

func TestLoadConfig_InvalidPorts(t *testing.T) {
	tests := []struct {
		name    string
		env     string
		value   string
		wantErr string
	}{
		{name: "not_a_number", env: envHTTPPort, value: "http", wantErr: "invalid SERVICE_PORT_HTTP"},
		{name: "negative", env: envGRPCHealthPort, value: "-1", wantErr: "SERVICE_PORT_GRPC_HEALTH must be 0-65535"},
		{name: "too_large", env: envMetricsPort, value: "65536", wantErr: "SERVICE_PORT_METRICS must be 0-65535"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(envRedisAddr, "redis://localhost:6379")
			t.Setenv(tt.env, tt.value)

			cfg, err := LoadConfig()
			require.Error(t, err)
			assert.Nil(t, cfg)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}
