package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"mygreyhound/adapters/myredis"
	"mygreyhound/service"

	"gopkg.in/yaml.v3"
)

// Env variable names.
const (
	envRedisAddr             = "REDIS_ADDR"
	envConfigPath            = "CONFIG_PATH"
	envWSPort                = "SERVICE_PORT_WS"
	envHTTPPort              = "SERVICE_PORT_HTTP"
	envGRPCHealthPort        = "SERVICE_PORT_GRPC_HEALTH"
	envMetricsPort           = "SERVICE_PORT_METRICS"
	envAdvertiseHost         = "ADVERTISE_HOST"
	envBridgeHost            = "BRIDGE_HOST"
	envSoftSessionShareMax   = "SOFT_SESSION_SHARE_MAX"
	envHardSessionShareMax   = "HARD_SESSION_SHARE_MAX"
	envSessionTimeoutMinutes = "SESSION_TIMEOUT_MINUTES"
	envPipelineTimeoutMins   = "PIPELINE_TIMEOUT_MINUTES"
	envExpirePeriodSeconds   = "EXPIRE_PERIOD_SECONDS"
	envWatchIntervalMs       = "WATCH_INTERVAL_MS"
	envPipelineCacheSize     = "PIPELINE_CACHE_SIZE"
	envCommandRate           = "COMMAND_RATE_PER_SECOND"
	envCommandBurst          = "COMMAND_BURST"
	envNativeWorkerPath      = "NATIVE_WORKER_PATH"
	envNativeWorkerArgs      = "NATIVE_WORKER_ARGS"
	envPoolMax               = "POOL_MAX"
	envPoolMin               = "POOL_MIN"
	envPoolIdleTimeoutMs     = "POOL_IDLE_TIMEOUT_MS"
)

// ControllerConfig holds the controller configuration. Tuning values come from the YAML file at
// CONFIG_PATH when set and are overridden by their environment variables.
type ControllerConfig struct {
	Redis          myredis.RedisConfig
	WSPort         int
	GRPCHealthPort int
	MetricsPort    int
	AdvertiseHost  string
	BridgeHost     string

	SoftSessionShareMax int
	HardSessionShareMax int
	SessionTimeout      time.Duration
	// PipelineTimeout of zero keeps idle pipeline instances forever.
	PipelineTimeout     time.Duration
	ExpirePeriod        time.Duration
	WatchInterval       time.Duration
	PipelineCacheSize   int
	CommandRate         float64
	CommandBurst        int

	// Embedded is set when the controller also hosts a session handler.
	Embedded *EmbeddedWorkerConfig
}

// EmbeddedWorkerConfig configures the session handler run inside the controller process.
type EmbeddedWorkerConfig struct {
	HTTPPort         int
	NativeWorkerPath string
	NativeWorkerArgs []string
	PoolMax          int
	PoolMin          int
	PoolIdleTimeout  time.Duration
}

// yamlConfig is the YAML overlay. Absent keys keep their defaults.
type yamlConfig struct {
	BridgeHost            *string  `yaml:"bridge_host"`
	SoftSessionShareMax   *int     `yaml:"soft_session_share_max"`
	HardSessionShareMax   *int     `yaml:"hard_session_share_max"`
	SessionTimeoutMinutes *int     `yaml:"session_timeout_minutes"`
	PipelineTimeoutMins   *int     `yaml:"pipeline_timeout_minutes"`
	ExpirePeriodSeconds   *int     `yaml:"expire_period_seconds"`
	WatchIntervalMs       *int     `yaml:"watch_interval_ms"`
	PipelineCacheSize     *int     `yaml:"pipeline_cache_size"`
	CommandRatePerSecond  *float64 `yaml:"command_rate_per_second"`
	CommandBurst          *int     `yaml:"command_burst"`
}

func defaultConfig() ControllerConfig {
	return ControllerConfig{
		BridgeHost:          "127.0.0.1",
		SoftSessionShareMax: 16,
		HardSessionShareMax: 0,
		SessionTimeout:      service.DefaultSessionTimeout,
		PipelineTimeout:     service.DefaultPipelineTimeout,
		ExpirePeriod:        service.DefaultExpirePeriod,
		WatchInterval:       time.Second,
		PipelineCacheSize:   256,
		CommandRate:         50,
		CommandBurst:        100,
	}
}

// loadYAMLConfig reads and unmarshals the overlay at path.
func loadYAMLConfig(path string) (*yamlConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var out yamlConfig
	if err := yaml.Unmarshal(data, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *ControllerConfig) applyYAML(raw *yamlConfig) {
	if raw.BridgeHost != nil {
		c.BridgeHost = strings.TrimSpace(*raw.BridgeHost)
	}
	if raw.SoftSessionShareMax != nil {
		c.SoftSessionShareMax = *raw.SoftSessionShareMax
	}
	if raw.HardSessionShareMax != nil {
		c.HardSessionShareMax = *raw.HardSessionShareMax
	}
	if raw.SessionTimeoutMinutes != nil {
		c.SessionTimeout = time.Duration(*raw.SessionTimeoutMinutes) * time.Minute
	}
	if raw.PipelineTimeoutMins != nil {
		c.PipelineTimeout = time.Duration(*raw.PipelineTimeoutMins) * time.Minute
	}
	if raw.ExpirePeriodSeconds != nil {
		c.ExpirePeriod = time.Duration(*raw.ExpirePeriodSeconds) * time.Second
	}
	if raw.WatchIntervalMs != nil {
		c.WatchInterval = time.Duration(*raw.WatchIntervalMs) * time.Millisecond
	}
	if raw.PipelineCacheSize != nil {
		c.PipelineCacheSize = *raw.PipelineCacheSize
	}
	if raw.CommandRatePerSecond != nil {
		c.CommandRate = *raw.CommandRatePerSecond
	}
	if raw.CommandBurst != nil {
		c.CommandBurst = *raw.CommandBurst
	}
}

// LoadConfig builds the controller configuration: defaults, then the YAML overlay at CONFIG_PATH, then
// environment variables. REDIS_ADDR is required. Setting NATIVE_WORKER_PATH embeds a session handler.
func LoadConfig() (*ControllerConfig, error) {
	cfg := defaultConfig()

	cfg.Redis.Addr = os.Getenv(envRedisAddr)
	if cfg.Redis.Addr == "" {
		return nil, fmt.Errorf("%s is required", envRedisAddr)
	}

	if configPath := strings.TrimSpace(os.Getenv(envConfigPath)); configPath != "" {
		if !filepath.IsAbs(configPath) {
			abs, err := filepath.Abs(configPath)
			if err != nil {
				return nil, err
			}
			configPath = abs
		}
		raw, err := loadYAMLConfig(configPath)
		if err != nil {
			return nil, fmt.Errorf("load config %s: %w", configPath, err)
		}
		cfg.applyYAML(raw)
	}

	env := envReader{}
	cfg.WSPort = env.portVar(envWSPort, 0)
	cfg.GRPCHealthPort = env.portVar(envGRPCHealthPort, 0)
	cfg.MetricsPort = env.portVar(envMetricsPort, 0)
	if host := strings.TrimSpace(os.Getenv(envAdvertiseHost)); host != "" {
		cfg.AdvertiseHost = host
	}
	if host := strings.TrimSpace(os.Getenv(envBridgeHost)); host != "" {
		cfg.BridgeHost = host
	}
	cfg.SoftSessionShareMax = env.intVar(envSoftSessionShareMax, cfg.SoftSessionShareMax)
	cfg.HardSessionShareMax = env.intVar(envHardSessionShareMax, cfg.HardSessionShareMax)
	cfg.SessionTimeout = time.Duration(env.intVar(envSessionTimeoutMinutes, int(cfg.SessionTimeout/time.Minute))) * time.Minute
	cfg.PipelineTimeout = time.Duration(env.intVar(envPipelineTimeoutMins, int(cfg.PipelineTimeout/time.Minute))) * time.Minute
	cfg.ExpirePeriod = time.Duration(env.intVar(envExpirePeriodSeconds, int(cfg.ExpirePeriod/time.Second))) * time.Second
	cfg.WatchInterval = time.Duration(env.intVar(envWatchIntervalMs, int(cfg.WatchInterval/time.Millisecond))) * time.Millisecond
	cfg.PipelineCacheSize = env.intVar(envPipelineCacheSize, cfg.PipelineCacheSize)
	cfg.CommandRate = env.floatVar(envCommandRate, cfg.CommandRate)
	cfg.CommandBurst = env.intVar(envCommandBurst, cfg.CommandBurst)

	if path := strings.TrimSpace(os.Getenv(envNativeWorkerPath)); path != "" {
		cfg.Embedded = &EmbeddedWorkerConfig{
			HTTPPort:         env.portVar(envHTTPPort, 0),
			NativeWorkerPath: path,
			NativeWorkerArgs: strings.Fields(os.Getenv(envNativeWorkerArgs)),
			PoolMax:          env.intVar(envPoolMax, 100),
			PoolMin:          env.intVar(envPoolMin, 0),
			PoolIdleTimeout:  time.Duration(env.intVar(envPoolIdleTimeoutMs, 10000)) * time.Millisecond,
		}
	}
	if env.err != nil {
		return nil, env.err
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *ControllerConfig) validate() error {
	switch {
	case c.BridgeHost == "":
		return fmt.Errorf("%s must not be empty", envBridgeHost)
	case c.SessionTimeout <= 0:
		return fmt.Errorf("%s must be positive", envSessionTimeoutMinutes)
	case c.PipelineTimeout < 0:
		return fmt.Errorf("%s must not be negative", envPipelineTimeoutMins)
	case c.ExpirePeriod <= 0:
		return fmt.Errorf("%s must be positive", envExpirePeriodSeconds)
	case c.WatchInterval <= 0:
		return fmt.Errorf("%s must be positive", envWatchIntervalMs)
	case c.PipelineCacheSize <= 0:
		return fmt.Errorf("%s must be positive", envPipelineCacheSize)
	case c.CommandRate <= 0 || c.CommandBurst <= 0:
		return fmt.Errorf("%s and %s must be positive", envCommandRate, envCommandBurst)
	}
	if w := c.Embedded; w != nil {
		if w.PoolMax < 1 || w.PoolMin < 0 || w.PoolMin > w.PoolMax {
			return fmt.Errorf("%s and %s must satisfy 0 <= min <= max, max >= 1, got min=%d max=%d", envPoolMin, envPoolMax, w.PoolMin, w.PoolMax)
		}
		if w.PoolIdleTimeout <= 0 {
			return fmt.Errorf("%s must be positive", envPoolIdleTimeoutMs)
		}
	}
	return nil
}

// envReader parses optional numeric variables and keeps the first error.
type envReader struct {
	err error
}

func (r *envReader) lookup(name string) (string, bool) {
	if r.err != nil {
		return "", false
	}
	s := strings.TrimSpace(os.Getenv(name))
	return s, s != ""
}

func (r *envReader) intVar(name string, def int) int {
	s, ok := r.lookup(name)
	if !ok {
		return def
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		r.err = fmt.Errorf("invalid %s: %w", name, err)
		return def
	}
	return v
}

func (r *envReader) floatVar(name string, def float64) float64 {
	s, ok := r.lookup(name)
	if !ok {
		return def
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		r.err = fmt.Errorf("invalid %s: %w", name, err)
		return def
	}
	return v
}

func (r *envReader) portVar(name string, def int) int {
	v := r.intVar(name, def)
	if r.err == nil && (v < 0 || v > 65535) {
		r.err = fmt.Errorf("%s must be 0-65535, got %d", name, v)
	}
	return v
}
