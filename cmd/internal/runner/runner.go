// Package runner holds the process plumbing shared by the mygreyhound binaries: logging, the redis
// backed service registry, and the lifecycle of the servers each binary runs.
package runner

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"time"

	"mygreyhound/adapters/myredis"
	"mygreyhound/domain"
	"mygreyhound/handlers"
	"mygreyhound/interfaces"
	"mygreyhound/service"

	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
	"github.com/go-redis/redis/v8"
	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"golang.org/x/sync/errgroup"
	"google.golang.org/grpc"
)

const (
	// RegistryPrefix is the redis key prefix of service records.
	RegistryPrefix = "services"
	// ShutdownTimeout bounds the graceful stop of every server.
	ShutdownTimeout = 10 * time.Second

	redisPingTimeout = 5 * time.Second
)

// NewLogger creates the logfmt logger of a binary.
//
// Returns: log.Logger writing to stderr with timestamp and caller.
//
// Called first by every cmd main.
func NewLogger() log.Logger {
	logger := log.NewLogfmtLogger(log.NewSyncWriter(os.Stderr))
	logger = log.WithPrefix(logger, "ts", log.DefaultTimestampUTC)
	logger = log.WithPrefix(logger, "caller", log.DefaultCaller)
	return logger
}

// ConnectRedis creates the redis client and checks that the server answers.
//
// Parameter addr is the REDIS_ADDR of the binary.
//
// Returns: redis.UniversalClient, or an error when the server does not answer.
//
// Called from every cmd main.
func ConnectRedis(addr string, logger log.Logger) (redis.UniversalClient, error) {
	client, err := myredis.NewRedisUniversalClient(addr)
	if err != nil {
		return nil, fmt.Errorf("failed to create redis client: %w", err)
	}
	ctx, cancel := context.WithTimeout(context.Background(), redisPingTimeout)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}
	level.Info(logger).Log("msg", "Connected to Redis")
	return client, nil
}

// NewServiceRecordCache stores service records as JSON under RegistryPrefix.
//
// Returns: interfaces.Cache[domain.ServiceRecord] for service.NewRegistry.
//
// Called from every cmd main.
func NewServiceRecordCache(client redis.UniversalClient) interfaces.Cache[domain.ServiceRecord] {
	marshal := func(r domain.ServiceRecord) ([]byte, error) { return json.Marshal(r) }
	unmarshal := func(b []byte) (domain.ServiceRecord, error) {
		var r domain.ServiceRecord
		err := json.Unmarshal(b, &r)
		return r, err
	}
	return myredis.NewCache[domain.ServiceRecord](client, RegistryPrefix, marshal, unmarshal)
}

// Servers runs the long-lived servers of a binary. Stop hooks run in reverse registration order once
// the context is done or a server failed.
type Servers struct {
	g      *errgroup.Group
	ctx    context.Context
	logger log.Logger
	stops  []func(ctx context.Context) error
}

// NewServers creates a server group bound to ctx.
//
// Parameter ctx stops every server of the group when cancelled.
//
// Returns: *Servers.
//
// Called from every cmd main.
func NewServers(ctx context.Context, logger log.Logger) *Servers {
	g, gctx := errgroup.WithContext(ctx)
	return &Servers{g: g, ctx: gctx, logger: logger}
}

// Context is done on shutdown or when any server failed.
func (s *Servers) Context() context.Context {
	return s.ctx
}

// OnStop registers a hook run at shutdown.
func (s *Servers) OnStop(fn func(ctx context.Context) error) {
	s.stops = append(s.stops, fn)
}

// Go runs fn until shutdown. A returned error stops the other servers.
func (s *Servers) Go(fn func() error) {
	s.g.Go(fn)
}

// Echo serves e on port. The listener is opened before Echo returns so the port is reachable as soon as
// it is registered.
func (s *Servers) Echo(name string, e *echo.Echo, port int) error {
	lis, err := net.Listen("tcp", fmt.Sprintf(":%d", port))
	if err != nil {
		return fmt.Errorf("failed to listen for %s on port %d: %w", name, port, err)
	}
	e.Listener = lis
	e.HideBanner = true
	e.HidePort = true
	level.Info(s.logger).Log("msg", "Starting HTTP server", "server", name, "addr", lis.Addr())
	s.g.Go(func() error {
		if err := e.Start(""); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("%s server error: %w", name, err)
		}
		return nil
	})
	s.OnStop(e.Shutdown)
	return nil
}

// GRPC serves srv on port.
func (s *Servers) GRPC(name string, srv *grpc.Server, port int) error {
	lis, err := net.Listen("tcp", fmt.Sprintf(":%d", port))
	if err != nil {
		return fmt.Errorf("failed to listen for %s on port %d: %w", name, port, err)
	}
	level.Info(s.logger).Log("msg", "Starting gRPC server", "server", name, "addr", lis.Addr())
	s.g.Go(func() error {
		if err := srv.Serve(lis); err != nil && !errors.Is(err, grpc.ErrServerStopped) {
			return fmt.Errorf("%s server error: %w", name, err)
		}
		return nil
	})
	s.OnStop(func(context.Context) error {
		srv.GracefulStop()
		return nil
	})
	return nil
}

// Observability starts the gRPC health service and the Prometheus endpoint when their ports are set.
// The health status flips to NOT_SERVING first on shutdown.
func (s *Servers) Observability(role domain.Role, healthPort, metricsPort int, gatherer prometheus.Gatherer) error {
	if healthPort > 0 {
		grpcServer, healthServer := handlers.NewHealthServer(string(role))
		if err := s.GRPC("health", grpcServer, healthPort); err != nil {
			return err
		}
		s.OnStop(func(context.Context) error {
			healthServer.Shutdown()
			return nil
		})
	}
	if metricsPort > 0 {
		if err := s.Echo("metrics", handlers.NewMetricsServer(gatherer), metricsPort); err != nil {
			return err
		}
	}
	return nil
}

// Announce registers role on port and unregisters it first thing at shutdown.
func (s *Servers) Announce(registrar interfaces.Registrar, role domain.Role, port int) (domain.ServiceRecord, error) {
	record, err := registrar.Register(s.ctx, role, port)
	if err != nil {
		return domain.ServiceRecord{}, fmt.Errorf("failed to register %s: %w", role, err)
	}
	s.OnStop(func(ctx context.Context) error {
		return registrar.Unregister(ctx, record)
	})
	return record, nil
}

// Wait blocks until shutdown, runs the stop hooks and returns the first server error.
func (s *Servers) Wait() error {
	<-s.ctx.Done()
	level.Info(s.logger).Log("msg", "Shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), ShutdownTimeout)
	defer cancel()
	for i := len(s.stops) - 1; i >= 0; i-- {
		if err := s.stops[i](ctx); err != nil {
			level.Error(s.logger).Log("msg", "Error during shutdown", "err", err)
		}
	}
	return s.g.Wait()
}

// PickPort returns port, or a free ephemeral port when port is 0.
func PickPort(port int) (int, error) {
	if port != 0 {
		return port, nil
	}
	p, err := service.FreePort()
	if err != nil {
		return 0, fmt.Errorf("failed to pick a free port: %w", err)
	}
	return p, nil
}
