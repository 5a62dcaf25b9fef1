package interfaces

import (
	"context"
	"time"

	"mygreyhound/domain"
)

// AffinityStore persists the routing table: session -> (pipeline, worker) bindings, per pair session sets
// and last-touched timestamps of both pairs and sessions. Every multi-key update is applied as one transaction.
//
// Implemented by adapters/myredis.affinityStore. Used by service.RoutingTable and service.Sweeper.
//
//go:generate moq -stub -out mock/affinity_store.go -pkg mock . AffinityStore
type AffinityStore interface {
	// AddSession binds sessionID to (pipelineID, worker) and stamps the session and the pair as touched.
	AddSession(ctx context.Context, pipelineID domain.PipelineID, worker domain.WorkerAddress, sessionID domain.SessionID) error

	// GetWorker returns the binding of sessionID and refreshes the touched time of the session and its pair.
	// Returns invalid_session when the session is unknown.
	GetWorker(ctx context.Context, sessionID domain.SessionID) (domain.AffinityBinding, error)

	// DelSession removes the binding of sessionID. Deleting an absent session is not an error.
	DelSession(ctx context.Context, sessionID domain.SessionID) error

	// PipelineLoads returns the session count of every worker hosting pipelineID.
	// An empty slice means the pipeline has no binding.
	PipelineLoads(ctx context.Context, pipelineID domain.PipelineID) ([]domain.WorkerLoad, error)

	// PurgeWorker removes every binding of worker and returns the removed pairs.
	PurgeWorker(ctx context.Context, worker domain.WorkerAddress) ([]domain.PipelineWorker, error)

	// ExpireIdle samples one (pipeline, worker) pair and removes it when it has not been touched for
	// longer than timeout. Returns (nil, nil) when nothing expired and service.ErrSweepAborted when a
	// concurrent update invalidated the sample.
	ExpireIdle(ctx context.Context, timeout time.Duration) (*domain.PipelineWorker, error)

	// ExpireSession samples one session and removes its binding when the session itself has not been
	// touched for longer than timeout, whatever its siblings on the pair do. The pair stays for reuse.
	// Returns (nil, nil) when nothing expired and service.ErrSweepAborted on a concurrent update.
	ExpireSession(ctx context.Context, timeout time.Duration) (*domain.AffinityBinding, error)
}
