package service

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"mygreyhound/domain"
	"mygreyhound/helpers"
	"mygreyhound/interfaces"

	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
	lru "github.com/hashicorp/golang-lru/v2"
)

// DefaultPipelineCacheSize is the number of pipeline definitions kept in memory by a Controller.
const DefaultPipelineCacheSize = 256

// Controller implements interfaces.Controller: it drives the session lifecycle
// absent -> creating -> active -> (reading)* -> destroyed over the routing table, the pipeline store
// and the session handlers.
type Controller struct {
	store   interfaces.PipelineStore
	routing *RoutingTable
	workers interfaces.SessionHandler
	bridges *BridgeFactory
	metrics *Metrics
	logger  log.Logger

	cacheSize   int
	definitions *lru.Cache[domain.PipelineID, string]
	newID       func() (domain.SessionID, error)

	mu    sync.Mutex
	reads map[domain.SessionID]map[int64]interfaces.ReadStream
}

// ControllerOption configures a Controller.
type ControllerOption func(*Controller)

// WithPipelineCacheSize bounds the definition cache. size <= 0 keeps the default.
func WithPipelineCacheSize(size int) ControllerOption {
	return func(c *Controller) {
		if size > 0 {
			c.cacheSize = size
		}
	}
}

func WithControllerMetrics(m *Metrics) ControllerOption {
	return func(c *Controller) {
		c.metrics = m
	}
}

// NewController creates the controller. Panics on nil collaborators or logger.
//
// Parameters: store resolves stored definitions; routing picks and binds workers; workers reaches the
// session handlers; bridges opens the streaming bridges of read calls; options set the definition cache
// size and metrics.
//
// Returns: *Controller, which implements interfaces.Controller.
//
// Called from cmd/controller.
func NewController(
	store interfaces.PipelineStore,
	routing *RoutingTable,
	workers interfaces.SessionHandler,
	bridges *BridgeFactory,
	logger log.Logger,
	options ...ControllerOption,
) *Controller {
	c := &Controller{
		store:     helpers.NilPanic(store, "service.controller.go: store is required"),
		routing:   helpers.NilPanic(routing, "service.controller.go: routing is required"),
		workers:   helpers.NilPanic(workers, "service.controller.go: workers is required"),
		bridges:   helpers.NilPanic(bridges, "service.controller.go: bridges is required"),
		logger:    log.With(helpers.NilPanic(logger, "service.controller.go: logger is required"), "component", "controller"),
		cacheSize: DefaultPipelineCacheSize,
		newID:     NewSessionID,
		reads:     make(map[domain.SessionID]map[int64]interfaces.ReadStream),
	}
	for _, opt := range options {
		opt(c)
	}
	// Only fails on a non-positive size.
	c.definitions, _ = lru.New[domain.PipelineID, string](c.cacheSize)
	return c
}

// Put validates definition on a random session handler, then stores it.
func (c *Controller) Put(ctx context.Context, definition string) (domain.PipelineID, error) {
	if definition == "" {
		return "", NewBadParameterError("Missing pipeline definition", nil)
	}
	worker, ok, err := c.routing.PickWorker(ctx, nil)
	if err != nil {
		return "", fmt.Errorf("put failed to pick a worker, err: %w", err)
	}
	if !ok {
		return "", NewUnavailableError("No session handler available", nil)
	}

	valid, err := c.workers.Validate(ctx, worker, definition)
	if err != nil {
		return "", fmt.Errorf("put failed to validate on %s, err: %w", worker, err)
	}
	if !valid {
		return "", NewInvalidPipelineError("Invalid pipeline", nil)
	}

	id, err := c.store.Put(ctx, definition)
	if err != nil {
		return "", fmt.Errorf("put failed to store pipeline, err: %w", err)
	}
	c.definitions.Add(id, definition)
	level.Debug(c.logger).Log("msg", "Pipeline stored", "pipeline_id", id)
	return id, nil
}

func (c *Controller) definition(ctx context.Context, pipelineID domain.PipelineID) (string, error) {
	if def, ok := c.definitions.Get(pipelineID); ok {
		return def, nil
	}
	def, err := c.store.Retrieve(ctx, pipelineID)
	if err != nil {
		return "", err
	}
	c.definitions.Add(pipelineID, def)
	return def, nil
}

// Create opens a session on pipelineID. A binding recorded for a worker that then fails to instantiate
// the pipeline is rolled back.
func (c *Controller) Create(ctx context.Context, pipelineID domain.PipelineID) (domain.SessionID, error) {
	if pipelineID == "" {
		return "", NewBadParameterError("Missing pipelineId", nil)
	}
	definition, err := c.definition(ctx, pipelineID)
	if err != nil {
		return "", fmt.Errorf("create failed to retrieve %s, err: %w", pipelineID, err)
	}

	worker, err := c.routing.CandidateFor(ctx, pipelineID)
	if err != nil {
		return "", fmt.Errorf("create failed to place %s, err: %w", pipelineID, err)
	}

	sessionID, err := c.newID()
	if err != nil {
		return "", err
	}

	if err := c.routing.AddSession(ctx, pipelineID, worker, sessionID); err != nil {
		return "", fmt.Errorf("create failed to bind session, err: %w", err)
	}

	if err := c.workers.Create(ctx, worker, pipelineID, definition, sessionID); err != nil {
		if delErr := c.routing.DelSession(context.WithoutCancel(ctx), sessionID); delErr != nil {
			level.Error(c.logger).Log("msg", "Rollback of session binding failed", "session_id", sessionID, "err", delErr)
		}
		return "", fmt.Errorf("create failed on worker %s, err: %w", worker, err)
	}

	c.metrics.sessionCreated()
	level.Info(c.logger).Log("msg", "Session created", "pipeline_id", pipelineID, "worker", worker, "session_id", sessionID)
	return sessionID, nil
}

// Info answers a metadata query for sessionID on its worker.
func (c *Controller) Info(ctx context.Context, sessionID domain.SessionID, kind domain.InfoKind) (json.RawMessage, error) {
	binding, err := c.routing.GetWorker(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("%s failed to resolve session, err: %w", kind, err)
	}
	out, err := c.workers.Info(ctx, binding.Worker, sessionID, kind)
	if err != nil {
		return nil, fmt.Errorf("%s failed on worker %s, err: %w", kind, binding.Worker, err)
	}
	return out, nil
}

// Read opens a streaming bridge for sink and asks the session's worker to push the query result to it.
// The stream is tracked for Cancel until it is done.
func (c *Controller) Read(ctx context.Context, sessionID domain.SessionID, query domain.ReadQuery, sink interfaces.StreamSink) (domain.ReadAck, interfaces.ReadStream, error) {
	binding, err := c.routing.GetWorker(ctx, sessionID)
	if err != nil {
		return domain.ReadAck{}, nil, fmt.Errorf("read failed to resolve session, err: %w", err)
	}

	bridge, err := c.bridges.Listen(sink)
	if err != nil {
		return domain.ReadAck{}, nil, fmt.Errorf("read failed to open bridge, err: %w", err)
	}

	ack, err := c.workers.Read(ctx, binding.Worker, sessionID, query, bridge.Target())
	if err != nil {
		bridge.Cancel()
		return domain.ReadAck{}, nil, fmt.Errorf("read failed on worker %s, err: %w", binding.Worker, err)
	}

	c.track(sessionID, ack.ReadID, bridge)
	level.Debug(c.logger).Log("msg", "Read started", "session_id", sessionID, "read_id", ack.ReadID, "bridge", bridge)
	return ack, bridge, nil
}

func (c *Controller) track(sessionID domain.SessionID, readID int64, stream interfaces.ReadStream) {
	c.mu.Lock()
	byID, ok := c.reads[sessionID]
	if !ok {
		byID = make(map[int64]interfaces.ReadStream)
		c.reads[sessionID] = byID
	}
	byID[readID] = stream
	c.mu.Unlock()

	go func() {
		<-stream.Done()
		c.untrack(sessionID, readID, stream)
	}()
}

func (c *Controller) untrack(sessionID domain.SessionID, readID int64, stream interfaces.ReadStream) {
	c.mu.Lock()
	defer c.mu.Unlock()
	byID := c.reads[sessionID]
	if byID[readID] != stream {
		return
	}
	delete(byID, readID)
	if len(byID) == 0 {
		delete(c.reads, sessionID)
	}
}

// Cancel drops the in-flight read readID of sessionID. Unknown or finished reads report false.
func (c *Controller) Cancel(_ context.Context, sessionID domain.SessionID, readID int64) (bool, error) {
	c.mu.Lock()
	stream, ok := c.reads[sessionID][readID]
	c.mu.Unlock()
	if !ok {
		return false, nil
	}
	select {
	case <-stream.Done():
		return false, nil
	default:
	}
	stream.Cancel()
	c.untrack(sessionID, readID, stream)
	return true, nil
}

// Destroy drops the client-visible session. The worker keeps the pipeline instance until the idle sweep
// expires it. In-flight reads of the session are cancelled.
func (c *Controller) Destroy(ctx context.Context, sessionID domain.SessionID) error {
	binding, err := c.routing.GetWorker(ctx, sessionID)
	if err != nil {
		return fmt.Errorf("destroy failed to resolve session, err: %w", err)
	}

	if err := c.workers.DeleteSession(ctx, binding.Worker, sessionID); err != nil && !IsInvalidSessionError(err) {
		return fmt.Errorf("destroy failed on worker %s, err: %w", binding.Worker, err)
	}
	if err := c.routing.DelSession(ctx, sessionID); err != nil {
		return fmt.Errorf("destroy failed to unbind session, err: %w", err)
	}

	c.mu.Lock()
	streams := c.reads[sessionID]
	delete(c.reads, sessionID)
	c.mu.Unlock()
	for _, s := range streams {
		s.Cancel()
	}

	c.metrics.sessionDestroyed()
	level.Info(c.logger).Log("msg", "Session destroyed", "session_id", sessionID, "worker", binding.Worker)
	return nil
}
