package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"mygreyhound/adapters"
	"mygreyhound/adapters/myredis"
	"mygreyhound/api"
	"mygreyhound/cmd/internal/runner"
	"mygreyhound/domain"
	"mygreyhound/handlers"
	"mygreyhound/interfaces"
	"mygreyhound/service"

	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
	"github.com/go-redis/redis/v8"
	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
)

// workerHTTPTimeout bounds one call to a session handler or the pipeline store.
const workerHTTPTimeout = 60 * time.Second

func main() {
	logger := runner.NewLogger()
	level.Info(logger).Log("msg", "Starting controller")

	config, err := LoadConfig()
	if err != nil {
		level.Error(logger).Log("msg", "Failed to load configuration", "err", err)
		os.Exit(1)
	}
	level.Info(logger).Log(
		"msg", "Configuration loaded",
		"service_port_ws", config.WSPort,
		"redis_addr", config.Redis.Addr,
		"soft_session_share_max", config.SoftSessionShareMax,
		"hard_session_share_max", config.HardSessionShareMax,
		"session_timeout", config.SessionTimeout,
		"pipeline_timeout", config.PipelineTimeout,
		"embedded_worker", config.Embedded != nil,
	)

	if err := run(config, logger); err != nil {
		level.Error(logger).Log("msg", "Controller failed", "err", err)
		os.Exit(1)
	}
	level.Info(logger).Log("msg", "Controller stopped")
}

func run(config *ControllerConfig, logger log.Logger) error {
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

	servers := runner.NewServers(ctx, logger)
	if err := servers.Observability(domain.RoleWebSocket, config.GRPCHealthPort, config.MetricsPort, gatherer); err != nil {
		return err
	}

	workers := adapters.SessionHandlerHTTP(&http.Client{Timeout: workerHTTPTimeout}, logger)
	if config.Embedded != nil {
		resources, e, err := newEmbeddedWorker(config.Embedded, metrics, logger)
		if err != nil {
			return err
		}
		defer resources.Close()

		port, err := runner.PickPort(config.Embedded.HTTPPort)
		if err != nil {
			return err
		}
		if err := servers.Echo("session_handler", e, port); err != nil {
			return err
		}
		record, err := servers.Announce(registry, domain.RoleSessionHandler, port)
		if err != nil {
			return err
		}
		workers = service.NewColocatedSessionHandler(record.Address(), resources, workers)
	}

	front := newFrontDoor(config, redisClient, registry, workers, metrics, logger)
	servers.Go(func() error {
		front.routing.HandleRegistryEvents(servers.Context(), registry.Watch(servers.Context(), domain.RoleSessionHandler, config.WatchInterval))
		return nil
	})
	servers.Go(func() error {
		front.sweeper.Run(servers.Context())
		return nil
	})

	e := echo.New()
	handlers.RegisterWebSocketRoutes(e, front.ws)
	port, err := runner.PickPort(config.WSPort)
	if err != nil {
		return err
	}
	if err := servers.Echo("websocket", e, port); err != nil {
		return err
	}
	if _, err := servers.Announce(registry, domain.RoleWebSocket, port); err != nil {
		return err
	}
	return servers.Wait()
}

// frontDoor is the client-facing stack of the controller.
type frontDoor struct {
	routing    *service.RoutingTable
	sweeper    *service.Sweeper
	controller *service.Controller
	ws         *handlers.WebSocketServer
}

// newFrontDoor wires the controller over the redis routing table, the registry and workers.
func newFrontDoor(
	config *ControllerConfig,
	redisClient redis.UniversalClient,
	registry interfaces.Registry,
	workers interfaces.SessionHandler,
	metrics *service.Metrics,
	logger log.Logger,
) *frontDoor {
	affinity := myredis.NewAffinityStore(redisClient, service.NewTimeProvider(time.Now))
	routing := service.NewRoutingTable(registry, affinity, workers, logger,
		service.WithSessionShareLimits(config.SoftSessionShareMax, config.HardSessionShareMax))
	store := adapters.PipelineStoreHTTP(registry, &http.Client{Timeout: workerHTTPTimeout})
	bridges := service.NewBridgeFactory(config.BridgeHost, "", service.DefaultBridgeAcceptTimeout, logger, metrics)
	controller := service.NewController(store, routing, workers, bridges, logger,
		service.WithPipelineCacheSize(config.PipelineCacheSize),
		service.WithControllerMetrics(metrics))

	return &frontDoor{
		routing:    routing,
		sweeper:    service.NewSweeper(affinity, workers, config.SessionTimeout, config.PipelineTimeout, config.ExpirePeriod, logger, metrics),
		controller: controller,
		ws:         handlers.NewWebSocketServer(controller, logger, handlers.WithCommandRate(config.CommandRate, config.CommandBurst)),
	}
}

// resourceCloser is the in-process resource manager of an embedded worker.
type resourceCloser interface {
	interfaces.ResourceManager
	Close()
}

// newEmbeddedWorker builds the session handler hosted by the controller process and its HTTP API, so
// other controllers can reach it like any other sh.
func newEmbeddedWorker(config *EmbeddedWorkerConfig, metrics *service.Metrics, logger log.Logger) (resourceCloser, *echo.Echo, error) {
	validator, err := handlers.OpenAPIValidator(api.SessionHandler)
	if err != nil {
		return nil, nil, err
	}
	pool := service.NewProcessPool(
		service.NewNativeSpawner(config.NativeWorkerPath, config.NativeWorkerArgs, logger),
		logger,
		metrics,
		service.WithPoolBounds(config.PoolMin, config.PoolMax),
		service.WithPoolIdleTimeout(config.PoolIdleTimeout),
	)
	resources := service.NewResourceManager(pool, logger)

	e := echo.New()
	service.RegisterErrorHandler(e, logger)
	e.Use(validator)
	handlers.RegisterSessionHandlerRoutes(e, handlers.NewSessionHandlerServer(resources, logger))
	return resources, e, nil
}
