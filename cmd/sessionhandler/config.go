package main

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"mygreyhound/adapters/myredis"
)

// Env variable names.
const (
	envRedisAddr         = "REDIS_ADDR"
	envHTTPPort          = "SERVICE_PORT_HTTP"
	envGRPCHealthPort    = "SERVICE_PORT_GRPC_HEALTH"
	envMetricsPort       = "SERVICE_PORT_METRICS"
	envAdvertiseHost     = "ADVERTISE_HOST"
	envNativeWorkerPath  = "NATIVE_WORKER_PATH"
	envNativeWorkerArgs  = "NATIVE_WORKER_ARGS"
	envPoolMax           = "POOL_MAX"
	envPoolMin           = "POOL_MIN"
	envPoolIdleTimeoutMs = "POOL_IDLE_TIMEOUT_MS"
)

const (
	defaultPoolMax         = 100
	defaultPoolMin         = 0
	defaultPoolIdleTimeout = 10 * time.Second
)

type SessionHandlerConfig struct {
	Redis myredis.RedisConfig
	// HTTPPort is 0 when an ephemeral port should be picked at startup.
	HTTPPort       int
	GRPCHealthPort int
	MetricsPort    int
	AdvertiseHost  string

	NativeWorkerPath string
	NativeWorkerArgs []string
	PoolMax          int
	PoolMin          int
	PoolIdleTimeout  time.Duration
}

// LoadConfig loads configuration from environment variables.
// REDIS_ADDR and NATIVE_WORKER_PATH are required.
func LoadConfig() (*SessionHandlerConfig, error) {
	redisAddr := os.Getenv(envRedisAddr)
	if redisAddr == "" {
		return nil, fmt.Errorf("%s is required", envRedisAddr)
	}
	workerPath := strings.TrimSpace(os.Getenv(envNativeWorkerPath))
	if workerPath == "" {
		return nil, fmt.Errorf("%s is required", envNativeWorkerPath)
	}

	httpPort, err := portEnv(envHTTPPort)
	if err != nil {
		return nil, err
	}
	healthPort, err := portEnv(envGRPCHealthPort)
	if err != nil {
		return nil, err
	}
	metricsPort, err := portEnv(envMetricsPort)
	if err != nil {
		return nil, err
	}

	poolMax, err := intEnv(envPoolMax, defaultPoolMax)
	if err != nil {
		return nil, err
	}
	poolMin, err := intEnv(envPoolMin, defaultPoolMin)
	if err != nil {
		return nil, err
	}
	if poolMax < 1 || poolMin < 0 || poolMin > poolMax {
		return nil, fmt.Errorf("%s and %s must satisfy 0 <= min <= max, max >= 1, got min=%d max=%d", envPoolMin, envPoolMax, poolMin, poolMax)
	}
	idleMs, err := intEnv(envPoolIdleTimeoutMs, int(defaultPoolIdleTimeout/time.Millisecond))
	if err != nil {
		return nil, err
	}
	if idleMs <= 0 {
		return nil, fmt.Errorf("%s must be a positive integer (ms), got %d", envPoolIdleTimeoutMs, idleMs)
	}

	return &SessionHandlerConfig{
		Redis: myredis.RedisConfig{
			Addr: redisAddr,
		},
		HTTPPort:         httpPort,
		GRPCHealthPort:   healthPort,
		MetricsPort:      metricsPort,
		AdvertiseHost:    strings.TrimSpace(os.Getenv(envAdvertiseHost)),
		NativeWorkerPath: workerPath,
		NativeWorkerArgs: strings.Fields(os.Getenv(envNativeWorkerArgs)),
		PoolMax:          poolMax,
		PoolMin:          poolMin,
		PoolIdleTimeout:  time.Duration(idleMs) * time.Millisecond,
	}, nil
}

// portEnv reads an optional port. Unset means 0.
func portEnv(name string) (int, error) {
	port, err := intEnv(name, 0)
	if err != nil {
		return 0, err
	}
	if port < 0 || port > 65535 {
		return 0, fmt.Errorf("%s must be 0-65535, got %d", name, port)
	}
	return port, nil
}

func intEnv(name string, def int) (int, error) {
	s := strings.TrimSpace(os.Getenv(name))
	if s == "" {
		return def, nil
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", name, err)
	}
	return v, nil
}
