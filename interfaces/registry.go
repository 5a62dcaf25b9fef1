package interfaces

import (
	"context"
	"time"

	"mygreyhound/domain"
)

// Registry is the read side of the service registry.
//
// Get returns the live members of a role. Watch polls Get and emits membership deltas.
// Implemented by service.registry; used by service.RoutingTable (worker selection),
// adapters.PipelineStoreHTTP (pipeline store lookup) and cmd/controller (sh departures).
//
//go:generate moq -stub -out mock/registry.go -pkg mock . Registry
type Registry interface {
	// Get returns the current members of role. An empty role yields an empty slice.
	// Returns unavailable when the coordination store is unreachable.
	Get(ctx context.Context, role domain.Role) ([]domain.ServiceRecord, error)

	// Watch polls role every interval and sends register/unregister events for the delta against
	// the previous poll. The channel is closed when ctx is done.
	Watch(ctx context.Context, role domain.Role, interval time.Duration) <-chan domain.RegistryEvent
}

// Registrar is the write side of the service registry.
//
// Implemented by service.registry; used by the binaries under cmd/ to announce themselves.
type Registrar interface {
	// Register writes a record for role and keeps it alive until Unregister. A zero port picks a free port.
	Register(ctx context.Context, role domain.Role, port int) (domain.ServiceRecord, error)

	// Unregister stops refreshing record and deletes it. Idempotent.
	Unregister(ctx context.Context, record domain.ServiceRecord) error
}
