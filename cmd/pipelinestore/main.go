package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"mygreyhound/adapters/mybadger"
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
	level.Info(logger).Log("msg", "Starting pipeline store")

	config, err := LoadConfig()
	if err != nil {
		level.Error(logger).Log("msg", "Failed to load configuration", "err", err)
		os.Exit(1)
	}
	level.Info(logger).Log(
		"msg", "Configuration loaded",
		"service_port_http", config.HTTPPort,
		"redis_addr", config.Redis.Addr,
		"data_dir", config.DataDir,
	)

	if err := run(config, logger); err != nil {
		level.Error(logger).Log("msg", "Pipeline store failed", "err", err)
		os.Exit(1)
	}
	level.Info(logger).Log("msg", "Pipeline store stopped")
}

func run(config *PipelineStoreConfig, logger log.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	redisClient, err := runner.ConnectRedis(config.Redis.Addr, logger)
	if err != nil {
		return err
	}
	defer redisClient.Close()

	db, err := mybadger.OpenDB(config.DataDir, logger)
	if err != nil {
		return err
	}
	defer db.Close()

	gatherer := prometheus.NewRegistry()
	metrics := service.NewMetrics(gatherer)
	registry := service.NewRegistry(runner.NewServiceRecordCache(redisClient), config.AdvertiseHost, logger, service.WithRegistryMetrics(metrics))

	var e *echo.Echo
	{
		validator, err := handlers.OpenAPIValidator(api.PipelineStore)
		if err != nil {
			return err
		}
		e = echo.New()
		service.RegisterErrorHandler(e, logger)
		e.Use(validator)
		handlers.RegisterPipelineStoreRoutes(e, handlers.NewPipelineStoreServer(mybadger.NewPipelineStore(db), logger))
	}

	servers := runner.NewServers(ctx, logger)
	if err := servers.Observability(domain.RolePipelineStore, config.GRPCHealthPort, config.MetricsPort, gatherer); err != nil {
		return err
	}
	port, err := runner.PickPort(config.HTTPPort)
	if err != nil {
		return err
	}
	if err := servers.Echo("pipeline_store", e, port); err != nil {
		return err
	}
	if _, err := servers.Announce(registry, domain.RolePipelineStore, port); err != nil {
		return err
	}
	return servers.Wait()
}
