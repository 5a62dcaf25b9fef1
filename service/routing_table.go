package service

import (
	"context"
	"fmt"
	"math/rand/v2"

	"mygreyhound/domain"
	"mygreyhound/helpers"
	"mygreyhound/interfaces"

	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
)

const (
	// DefaultSoftSessionShareMax is the per-worker session count above which a pipeline is offloaded.
	DefaultSoftSessionShareMax = 16
	// DefaultHardSessionShareMax is the per-worker ceiling; 0 means unlimited.
	DefaultHardSessionShareMax = 0
)

// RoutingTable places sessions on session handlers and keeps the affinity store in step with registry
// membership. It holds no state of its own; the affinity store is the single source of truth.
type RoutingTable struct {
	registry  interfaces.Registry
	affinity  interfaces.AffinityStore
	workers   interfaces.SessionHandler
	softLimit int64
	hardLimit int64
	intn      func(n int) int
	logger    log.Logger
}

// RoutingOption configures a RoutingTable.
type RoutingOption func(*RoutingTable)

// WithSessionShareLimits sets the soft and hard per-worker session limits. A limit <= 0 is unlimited.
func WithSessionShareLimits(soft, hard int) RoutingOption {
	return func(t *RoutingTable) {
		t.softLimit = int64(soft)
		t.hardLimit = int64(hard)
	}
}

// WithRandom replaces the uniform worker choice; intn must return a value in [0, n).
func WithRandom(intn func(n int) int) RoutingOption {
	return func(t *RoutingTable) {
		t.intn = intn
	}
}

// NewRoutingTable creates the routing table. Panics on nil registry, affinity, workers or logger.
//
// Parameters: registry lists live session handlers; affinity persists the bindings; workers is used for
// best-effort teardown of purged pairs; options set the share limits and the random source.
//
// Returns: *RoutingTable.
//
// Called from cmd/controller.
func NewRoutingTable(
	registry interfaces.Registry,
	affinity interfaces.AffinityStore,
	workers interfaces.SessionHandler,
	logger log.Logger,
	options ...RoutingOption,
) *RoutingTable {
	t := &RoutingTable{
		registry:  helpers.NilPanic(registry, "service.routing_table.go: registry is required"),
		affinity:  helpers.NilPanic(affinity, "service.routing_table.go: affinity is required"),
		workers:   helpers.NilPanic(workers, "service.routing_table.go: workers is required"),
		softLimit: DefaultSoftSessionShareMax,
		hardLimit: DefaultHardSessionShareMax,
		intn:      rand.IntN,
		logger:    log.With(helpers.NilPanic(logger, "service.routing_table.go: logger is required"), "component", "routing_table"),
	}
	for _, opt := range options {
		opt(t)
	}
	return t
}

// PickWorker chooses uniformly among live sh members not in exclude. ok is false when every member is
// excluded or none is registered.
func (t *RoutingTable) PickWorker(ctx context.Context, exclude map[domain.WorkerAddress]bool) (domain.WorkerAddress, bool, error) {
	records, err := t.registry.Get(ctx, domain.RoleSessionHandler)
	if err != nil {
		return "", false, fmt.Errorf("pick worker failed to list session handlers, err: %w", err)
	}

	candidates := make([]domain.WorkerAddress, 0, len(records))
	for _, rec := range records {
		addr := rec.Address()
		if !exclude[addr] {
			candidates = append(candidates, addr)
		}
	}
	if len(candidates) == 0 {
		return "", false, nil
	}
	return candidates[t.intn(len(candidates))], true, nil
}

// CandidateFor returns the worker a new session of pipelineID should be placed on.
//
// The least loaded worker already hosting the pipeline is reused while under the soft limit. Past it the
// pipeline is opened on a worker not hosting it yet; when there is none the least loaded one is reused
// while under the hard limit. Returns overloaded when both limits are exhausted and unavailable when no
// session handler is registered.
func (t *RoutingTable) CandidateFor(ctx context.Context, pipelineID domain.PipelineID) (domain.WorkerAddress, error) {
	loads, err := t.affinity.PipelineLoads(ctx, pipelineID)
	if err != nil {
		return "", fmt.Errorf("candidate for %s failed to read loads, err: %w", pipelineID, err)
	}

	if len(loads) == 0 {
		worker, ok, err := t.PickWorker(ctx, nil)
		if err != nil {
			return "", err
		}
		if !ok {
			return "", NewUnavailableError("No session handler available", nil)
		}
		return worker, nil
	}

	best := loads[0]
	hosting := make(map[domain.WorkerAddress]bool, len(loads))
	for _, l := range loads {
		hosting[l.Worker] = true
		if l.Sessions < best.Sessions {
			best = l
		}
	}

	if underLimit(best.Sessions, t.softLimit) {
		return best.Worker, nil
	}

	worker, ok, err := t.PickWorker(ctx, hosting)
	if err != nil {
		return "", err
	}
	if ok {
		level.Debug(t.logger).Log("msg", "Offloading pipeline to a new worker", "pipeline_id", pipelineID, "worker", worker)
		return worker, nil
	}

	if underLimit(best.Sessions, t.hardLimit) {
		level.Warn(t.logger).Log("msg", "Soft session limit exceeded, assigning anyway", "pipeline_id", pipelineID, "worker", best.Worker, "sessions", best.Sessions)
		return best.Worker, nil
	}
	return "", NewOverloadedError(fmt.Sprintf("Pipeline %s is past the hard session limit", pipelineID), nil)
}

func underLimit(count, limit int64) bool {
	return limit <= 0 || count < limit
}

func (t *RoutingTable) AddSession(ctx context.Context, pipelineID domain.PipelineID, worker domain.WorkerAddress, sessionID domain.SessionID) error {
	return t.affinity.AddSession(ctx, pipelineID, worker, sessionID)
}

// GetWorker resolves sessionID and counts the lookup as activity of its pair.
func (t *RoutingTable) GetWorker(ctx context.Context, sessionID domain.SessionID) (domain.AffinityBinding, error) {
	return t.affinity.GetWorker(ctx, sessionID)
}

func (t *RoutingTable) DelSession(ctx context.Context, sessionID domain.SessionID) error {
	return t.affinity.DelSession(ctx, sessionID)
}

// PurgeWorker drops every binding of worker and asks it, best effort, to destroy the pipelines it hosted.
func (t *RoutingTable) PurgeWorker(ctx context.Context, worker domain.WorkerAddress) error {
	purged, err := t.affinity.PurgeWorker(ctx, worker)
	if err != nil {
		return fmt.Errorf("purge worker %s failed, err: %w", worker, err)
	}
	for _, pw := range purged {
		if err := t.workers.DestroyResource(ctx, pw.Worker, pw.PipelineID); err != nil {
			level.Debug(t.logger).Log("msg", "Destroy on departed worker failed", "worker", worker, "pipeline_id", pw.PipelineID, "err", err)
		}
	}
	level.Info(t.logger).Log("msg", "Purged worker", "worker", worker, "pipelines", len(purged))
	return nil
}

// HandleRegistryEvents purges the bindings of every sh that leaves the registry until events is closed.
//
// Called from cmd/controller with the channel of Registry.Watch for the sh role.
func (t *RoutingTable) HandleRegistryEvents(ctx context.Context, events <-chan domain.RegistryEvent) {
	for ev := range events {
		if ev.Type != domain.RegistryEventUnregister {
			level.Info(t.logger).Log("msg", "Session handler joined", "worker", ev.Record.Address())
			continue
		}
		if err := t.PurgeWorker(ctx, ev.Record.Address()); err != nil {
			level.Error(t.logger).Log("msg", "Purge of departed session handler failed", "worker", ev.Record.Address(), "err", err)
		}
	}
}
