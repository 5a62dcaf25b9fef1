package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"mygreyhound/api"
	"mygreyhound/cmd/internal/runner"
	"mygreyhound/domain"
	"mygreyhound/handlers"
	"mygreyhound/service"

	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
)

func main() {
	logger := runner.NewLogger()
	level.Info(logger).Log("msg", "Starting session handler")

	config, err := LoadConfig()
	if err != nil {
		level.Error(logger).Log("msg", "Failed to load configuration", "err", err)
		os.Exit(1)
	}
	level.Info(logger).Log(
		"msg", "Configuration loaded",
		"service_port_http", config.HTTPPort,
		"redis_addr", config.Redis.Addr,
		"native_worker_path", config.NativeWorkerPath,
		"pool_min", config.PoolMin,
		"pool_max", config.PoolMax,
	)

	if err := run(config, logger); err != nil {
		level.Error(logger).Log("msg", "Session handler failed", "err", err)
		os.Exit(1)
	}
	level.Info(logger).Log("msg", "Session handler stopped")
}

func run(config *SessionHandlerConfig, logger log.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	redisClient, err := runner.ConnectRedis(config.Redis.Addr, logger)
	if err != nil {
		return err
	}
	defer redisClient.Close()

	gatherer := prometheus.NewRegistry()
	metrics := service.NewMetrics(gatherer)
	registry := service.NewRegistry(runner.NewServiceRecordCache(redisClient), config.AdvertiseHost, logger, service.WithRegistryMetrics(metrics))

	pool := service.NewProcessPool(
		service.NewNativeSpawner(config.NativeWorkerPath, config.NativeWorkerArgs, logger),
		logger,
		metrics,
		service.WithPoolBounds(config.PoolMin, config.PoolMax),
		service.WithPoolIdleTimeout(config.PoolIdleTimeout),
	)
	resources := service.NewResourceManager(pool, logger)
	defer resources.Close()

	var e *echo.Echo
	{
		validator, err := handlers.OpenAPIValidator(api.SessionHandler)
		if err != nil {
			return err
		}
		e = echo.New()
		service.RegisterErrorHandler(e, logger)
		e.Use(validator)
		handlers.RegisterSessionHandlerRoutes(e, handlers.NewSessionHandlerServer(resources, logger))
	}

	servers := runner.NewServers(ctx, logger)
	if err := servers.Observability(domain.RoleSessionHandler, config.GRPCHealthPort, config.MetricsPort, gatherer); err != nil {
		return err
	}
	port, err := runner.PickPort(config.HTTPPort)
	if err != nil {
		return err
	}
	if err := servers.Echo("session_handler", e, port); err != nil {
		return err
	}
	if _, err := servers.Announce(registry, domain.RoleSessionHandler, port); err != nil {
		return err
	}
	return servers.Wait()
}
