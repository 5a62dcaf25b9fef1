package main

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"mygreyhound/adapters/myredis"
)

// Env variable names.
const (
	envRedisAddr      = "REDIS_ADDR"
	envHTTPPort       = "SERVICE_PORT_HTTP"
	envGRPCHealthPort = "SERVICE_PORT_GRPC_HEALTH"
	envMetricsPort    = "SERVICE_PORT_METRICS"
	envAdvertiseHost  = "ADVERTISE_HOST"
	envDataDir        = "DATA_DIR"
)

type PipelineStoreConfig struct {
	Redis          myredis.RedisConfig
	HTTPPort       int
	GRPCHealthPort int
	MetricsPort    int
	AdvertiseHost  string
	// DataDir is the badger directory. Empty keeps pipelines in memory.
	DataDir string
}

// LoadConfig loads configuration from environment variables.
// REDIS_ADDR is required.
func LoadConfig() (*PipelineStoreConfig, error) {
	redisAddr := os.Getenv(envRedisAddr)
	if redisAddr == "" {
		return nil, fmt.Errorf("%s is required", envRedisAddr)
	}

	ports := make(map[string]int, 3)
	for _, name := range []string{envHTTPPort, envGRPCHealthPort, envMetricsPort} {
		s := strings.TrimSpace(os.Getenv(name))
		if s == "" {
			continue
		}
		port, err := strconv.Atoi(s)
		if err != nil {
			return nil, fmt.Errorf("invalid %s: %w", name, err)
		}
		if port < 0 || port > 65535 {
			return nil, fmt.Errorf("%s must be 0-65535, got %d", name, port)
		}
		ports[name] = port
	}

	return &PipelineStoreConfig{
		Redis: myredis.RedisConfig{
			Addr: redisAddr,
		},
		HTTPPort:       ports[envHTTPPort],
		GRPCHealthPort: ports[envGRPCHealthPort],
		MetricsPort:    ports[envMetricsPort],
		AdvertiseHost:  strings.TrimSpace(os.Getenv(envAdvertiseHost)),
		DataDir:        strings.TrimSpace(os.Getenv(envDataDir)),
	}, nil
}
