package service

import (
	"context"
	"encoding/json"
	"fmt"
	"net"
	"strconv"
	"sync"
	"sync/atomic"

	"mygreyhound/domain"
	"mygreyhound/helpers"
	"mygreyhound/interfaces"

	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
	"golang.org/x/sync/singleflight"
)

// resource is one live pipeline instance. mu serializes the calls on proc, which accepts a single
// request at a time.
type resource struct {
	pipelineID domain.PipelineID
	mu         sync.Mutex
	proc       interfaces.WorkerProcess
}

// resourceManager implements interfaces.ResourceManager: one worker process per live pipeline, drawn
// from the pool, with any number of sessions mapped onto it.
type resourceManager struct {
	pool   interfaces.ProcessPool
	logger log.Logger

	mu        sync.Mutex
	resources map[domain.PipelineID]*resource
	sessions  map[domain.SessionID]domain.PipelineID

	creates singleflight.Group
	readID  atomic.Int64
}

// NewResourceManager creates the session-handler side owner of pipeline instances.
// Panics on nil pool or logger.
//
// Parameter pool provides the native processes the instances run in.
//
// Returns: *resourceManager, which implements interfaces.ResourceManager.
//
// Called from cmd/sessionhandler, and from cmd/controller for an embedded worker.
func NewResourceManager(pool interfaces.ProcessPool, logger log.Logger) *resourceManager {
	return &resourceManager{
		pool:      helpers.NilPanic(pool, "service.resource_manager.go: pool is required"),
		logger:    log.With(helpers.NilPanic(logger, "service.resource_manager.go: logger is required"), "component", "resource_manager"),
		resources: make(map[domain.PipelineID]*resource),
		sessions:  make(map[domain.SessionID]domain.PipelineID),
	}
}

// Create maps sessionID onto the live instance of pipelineID, instantiating it first when needed.
// Concurrent creates of the same pipeline share one instantiation.
func (m *resourceManager) Create(ctx context.Context, pipelineID domain.PipelineID, definition string, sessionID domain.SessionID) error {
	if _, err := m.resource(ctx, pipelineID, definition); err != nil {
		return fmt.Errorf("create %s failed, err: %w", pipelineID, err)
	}
	m.mu.Lock()
	m.sessions[sessionID] = pipelineID
	m.mu.Unlock()
	level.Debug(m.logger).Log("msg", "Session created", "pipeline_id", pipelineID, "session_id", sessionID)
	return nil
}

func (m *resourceManager) resource(ctx context.Context, pipelineID domain.PipelineID, definition string) (*resource, error) {
	m.mu.Lock()
	res, ok := m.resources[pipelineID]
	m.mu.Unlock()
	if ok && res.proc.State() != domain.ProcessDead {
		return res, nil
	}
	if ok {
		m.dropResource(res)
	}

	v, err, _ := m.creates.Do(string(pipelineID), func() (any, error) {
		m.mu.Lock()
		existing, ok := m.resources[pipelineID]
		m.mu.Unlock()
		if ok {
			return existing, nil
		}

		proc, err := m.pool.Acquire(ctx)
		if err != nil {
			return nil, err
		}
		if err := proc.Create(ctx, definition); err != nil {
			m.pool.Release(proc)
			return nil, err
		}
		res := &resource{pipelineID: pipelineID, proc: proc}
		m.mu.Lock()
		m.resources[pipelineID] = res
		m.mu.Unlock()
		level.Info(m.logger).Log("msg", "Pipeline instantiated", "pipeline_id", pipelineID, "pid", proc.PID())
		return res, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*resource), nil
}

// DeleteSession drops the mapping of sessionID. The pipeline instance stays alive. Idempotent.
func (m *resourceManager) DeleteSession(_ context.Context, sessionID domain.SessionID) error {
	m.mu.Lock()
	delete(m.sessions, sessionID)
	m.mu.Unlock()
	return nil
}

func (m *resourceManager) lookup(sessionID domain.SessionID) (*resource, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	pipelineID, ok := m.sessions[sessionID]
	if !ok {
		return nil, NewInvalidSessionError(fmt.Sprintf("Unknown session %s", sessionID), nil)
	}
	res, ok := m.resources[pipelineID]
	if !ok {
		delete(m.sessions, sessionID)
		return nil, NewInvalidSessionError(fmt.Sprintf("Session %s lost its pipeline", sessionID), nil)
	}
	return res, nil
}

// with runs fn on the process of sessionID. A process that died or was retired under fn is evicted with
// its resource.
func (m *resourceManager) with(sessionID domain.SessionID, fn func(proc interfaces.WorkerProcess) error) error {
	res, err := m.lookup(sessionID)
	if err != nil {
		return err
	}
	res.mu.Lock()
	err = fn(res.proc)
	res.mu.Unlock()
	if err != nil && (IsWorkerClosedError(err) || res.proc.State() == domain.ProcessDead) {
		level.Warn(m.logger).Log("msg", "Worker process died", "pipeline_id", res.pipelineID, "err", err)
		m.dropResource(res)
	}
	return err
}

func (m *resourceManager) Info(ctx context.Context, sessionID domain.SessionID, kind domain.InfoKind) (json.RawMessage, error) {
	var out json.RawMessage
	err := m.with(sessionID, func(proc interfaces.WorkerProcess) error {
		var err error
		out, err = proc.Info(ctx, kind)
		return err
	})
	return out, err
}

// Read makes the pipeline process push the query result to target and returns once the read is queued.
func (m *resourceManager) Read(ctx context.Context, sessionID domain.SessionID, query domain.ReadQuery, target domain.ReadTarget) (domain.ReadAck, error) {
	if target.Host == "" {
		return domain.ReadAck{}, NewBadParameterError("Invalid host", nil)
	}
	if target.Port <= 0 {
		return domain.ReadAck{}, NewBadParameterError("Invalid port", nil)
	}

	var ack domain.ReadAck
	err := m.with(sessionID, func(proc interfaces.WorkerProcess) error {
		numPoints, numBytes, err := proc.Read(ctx, query, target)
		if err != nil {
			return err
		}
		ack = domain.ReadAck{
			ReadID:    m.readID.Add(1),
			NumPoints: numPoints,
			NumBytes:  numBytes,
			Message:   "Request queued for transmission to " + net.JoinHostPort(target.Host, strconv.Itoa(target.Port)),
		}
		return nil
	})
	return ack, err
}

// Validate instantiates definition on a scratch process. A definition the engine rejects is reported
// as invalid, not as an error. A process that fails or is interrupted before answering is an error.
func (m *resourceManager) Validate(ctx context.Context, definition string) (bool, error) {
	proc, err := m.pool.Acquire(ctx)
	if err != nil {
		return false, fmt.Errorf("validate failed to acquire a process, err: %w", err)
	}
	defer m.pool.Release(proc)

	if err := proc.Create(ctx, definition); err != nil {
		if IsEngineRejection(err) && ctx.Err() == nil {
			return false, nil
		}
		return false, fmt.Errorf("validate failed, err: %w", err)
	}
	valid, err := proc.IsValid(ctx)
	if err != nil {
		return false, err
	}
	if err := proc.Destroy(ctx); err != nil {
		level.Debug(m.logger).Log("msg", "Scratch pipeline destroy failed", "err", err)
	}
	return valid, nil
}

// DestroyResource tears down the instance of pipelineID and every session mapped onto it.
// Unknown pipelines are not an error.
func (m *resourceManager) DestroyResource(ctx context.Context, pipelineID domain.PipelineID) error {
	m.mu.Lock()
	res, ok := m.resources[pipelineID]
	m.mu.Unlock()
	if !ok {
		return nil
	}

	res.mu.Lock()
	if err := res.proc.Destroy(ctx); err != nil {
		level.Debug(m.logger).Log("msg", "Native destroy failed", "pipeline_id", pipelineID, "err", err)
	}
	res.mu.Unlock()
	m.dropResource(res)
	level.Info(m.logger).Log("msg", "Pipeline destroyed", "pipeline_id", pipelineID)
	return nil
}

// dropResource forgets res and its sessions and kills its process. No-op if res was already replaced.
func (m *resourceManager) dropResource(res *resource) {
	m.mu.Lock()
	if m.resources[res.pipelineID] != res {
		m.mu.Unlock()
		return
	}
	delete(m.resources, res.pipelineID)
	for s, pl := range m.sessions {
		if pl == res.pipelineID {
			delete(m.sessions, s)
		}
	}
	m.mu.Unlock()
	m.pool.Destroy(res.proc)
}

// Close destroys every instance and closes the pool.
func (m *resourceManager) Close() {
	m.mu.Lock()
	all := make([]*resource, 0, len(m.resources))
	for _, res := range m.resources {
		all = append(all, res)
	}
	m.mu.Unlock()
	for _, res := range all {
		m.dropResource(res)
	}
	m.pool.Close()
}
