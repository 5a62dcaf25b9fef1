package service

import (
	"context"
	"errors"
	"time"

	"mygreyhound/helpers"
	"mygreyhound/interfaces"

	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
)

// ErrSweepAborted is returned by AffinityStore.ExpireIdle when a concurrent update invalidated the sample.
var ErrSweepAborted = errors.New("sweep aborted by concurrent update")

const (
	// DefaultSessionTimeout is the idle time after which a session nobody destroyed is unbound.
	DefaultSessionTimeout = 5 * time.Minute
	// DefaultPipelineTimeout is the idle time after which a pipeline/worker pair expires. Zero keeps pairs forever.
	DefaultPipelineTimeout = 30 * time.Minute
	// DefaultExpirePeriod is the interval between two sweep cycles.
	DefaultExpirePeriod = 10 * time.Second
)

// Sweeper runs two idle sweeps over the routing table, one sample each per cycle. The session sweep
// unbinds sessions whose clients went away without destroying them. The pipeline sweep expires idle
// pipeline/worker pairs and asks the worker to destroy the pipeline instance it held for them.
type Sweeper struct {
	affinity        interfaces.AffinityStore
	workers         interfaces.SessionHandler
	sessionTimeout  time.Duration
	pipelineTimeout time.Duration
	period          time.Duration
	logger          log.Logger
	metrics         *Metrics
}

// NewSweeper creates the idle sweeps. Panics on nil affinity, workers or logger.
//
// Parameters: sessionTimeout is the per-session idle limit (<= 0 gives DefaultSessionTimeout);
// pipelineTimeout is the per-pair idle limit (<= 0 disables the pipeline sweep); period is the cycle interval.
//
// Returns: *Sweeper.
//
// Called from cmd/controller.
func NewSweeper(
	affinity interfaces.AffinityStore,
	workers interfaces.SessionHandler,
	sessionTimeout, pipelineTimeout, period time.Duration,
	logger log.Logger,
	metrics *Metrics,
) *Sweeper {
	if sessionTimeout <= 0 {
		sessionTimeout = DefaultSessionTimeout
	}
	return &Sweeper{
		affinity:        helpers.NilPanic(affinity, "service.sweeper.go: affinity is required"),
		workers:         helpers.NilPanic(workers, "service.sweeper.go: workers is required"),
		sessionTimeout:  sessionTimeout,
		pipelineTimeout: pipelineTimeout,
		period:          period,
		logger:          log.With(helpers.NilPanic(logger, "service.sweeper.go: logger is required"), "component", "sweeper"),
		metrics:         metrics,
	}
}

// Run sweeps every period until ctx is done.
func (s *Sweeper) Run(ctx context.Context) {
	ticker := time.NewTicker(s.period)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.SweepOnce(ctx)
		}
	}
}

// SweepOnce runs one cycle of both sweeps. Aborts and store errors are logged; the next cycle samples again.
// Returns whether a session and whether a pipeline/worker pair expired.
func (s *Sweeper) SweepOnce(ctx context.Context) (sessionExpired, pairExpired bool) {
	sessionExpired = s.sweepSession(ctx)
	if s.pipelineTimeout > 0 {
		pairExpired = s.sweepPair(ctx)
	}
	return sessionExpired, pairExpired
}

func (s *Sweeper) sweepSession(ctx context.Context) bool {
	expired, err := s.affinity.ExpireSession(ctx, s.sessionTimeout)
	if errors.Is(err, ErrSweepAborted) {
		level.Debug(s.logger).Log("msg", "Session sweep aborted", "err", err)
		s.metrics.sweepAbort()
		return false
	}
	if err != nil {
		level.Warn(s.logger).Log("msg", "Session sweep failed", "err", err)
		return false
	}
	if expired == nil {
		return false
	}

	s.metrics.sessionExpired()
	level.Info(s.logger).Log("msg", "Expired abandoned session", "session_id", expired.SessionID, "pipeline_id", expired.PipelineID, "worker", expired.Worker)
	if err := s.workers.DeleteSession(ctx, expired.Worker, expired.SessionID); err != nil && !IsInvalidSessionError(err) {
		level.Warn(s.logger).Log("msg", "Delete of expired session failed", "session_id", expired.SessionID, "worker", expired.Worker, "err", err)
	}
	return true
}

func (s *Sweeper) sweepPair(ctx context.Context) bool {
	expired, err := s.affinity.ExpireIdle(ctx, s.pipelineTimeout)
	if errors.Is(err, ErrSweepAborted) {
		level.Debug(s.logger).Log("msg", "Pipeline sweep aborted", "err", err)
		s.metrics.sweepAbort()
		return false
	}
	if err != nil {
		level.Warn(s.logger).Log("msg", "Pipeline sweep failed", "err", err)
		return false
	}
	if expired == nil {
		return false
	}

	s.metrics.pairExpired()
	level.Info(s.logger).Log("msg", "Expired idle pipeline", "pipeline_id", expired.PipelineID, "worker", expired.Worker, "sessions", len(expired.Sessions))
	if err := s.workers.DestroyResource(ctx, expired.Worker, expired.PipelineID); err != nil {
		level.Warn(s.logger).Log("msg", "Destroy of expired pipeline failed", "pipeline_id", expired.PipelineID, "worker", expired.Worker, "err", err)
	}
	return true
}
