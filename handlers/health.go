package handlers

import (
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	"google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/reflection"
)

// NewHealthServer creates a gRPC server exposing grpc.health.v1 for service, reported SERVING for both
// service and the overall "" entry.
//
// Parameter service is the role name the health entry is registered under.
//
// Returns: the *grpc.Server to serve and the *health.Server that flips the status on shutdown.
//
// Called from runner.Servers.
func NewHealthServer(service string) (*grpc.Server, *health.Server) {
	grpcServer := grpc.NewServer()
	healthServer := health.NewServer()
	healthServer.SetServingStatus("", grpc_health_v1.HealthCheckResponse_SERVING)
	healthServer.SetServingStatus(service, grpc_health_v1.HealthCheckResponse_SERVING)
	grpc_health_v1.RegisterHealthServer(grpcServer, healthServer)
	reflection.Register(grpcServer)
	return grpcServer, healthServer
}
