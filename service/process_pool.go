package service

import (
	"context"
	"errors"
	"sync"
	"time"

	"mygreyhound/domain"
	"mygreyhound/helpers"
	"mygreyhound/interfaces"

	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
)

// ErrPoolClosed is returned by Acquire once the pool has been closed.
var ErrPoolClosed = errors.New("process pool is closed")

const (
	DefaultPoolMax         = 100
	DefaultPoolMin         = 0
	DefaultPoolIdleTimeout = 10 * time.Second
)

type idleProcess struct {
	proc  interfaces.WorkerProcess
	since time.Time
}

// processPool implements interfaces.ProcessPool. size counts every live process (spawning, handed out
// and idle) and never exceeds max. Waiters block on changed, which is closed and replaced on every
// release or destroy. Idle processes are reused most recent first, so the reaper evicts the oldest.
type processPool struct {
	spawn       SpawnFunc
	max         int
	min         int
	idleTimeout time.Duration
	logger      log.Logger
	metrics     *Metrics

	mu      sync.Mutex
	size    int
	busy    int
	idle    []idleProcess
	changed chan struct{}
	closed  bool
	stop    chan struct{}
}

// PoolOption configures the process pool.
type PoolOption func(*processPool)

// WithPoolBounds sets the number of processes kept alive while idle and the maximum alive.
func WithPoolBounds(min, max int) PoolOption {
	return func(p *processPool) {
		p.min = min
		p.max = max
	}
}

// WithPoolIdleTimeout sets how long a process may stay idle before the reaper evicts it.
func WithPoolIdleTimeout(d time.Duration) PoolOption {
	return func(p *processPool) {
		p.idleTimeout = d
	}
}

// NewProcessPool creates the pool and starts its idle reaper. Processes are spawned on demand only.
// Panics on nil spawn or logger.
//
// Parameters: spawn starts one native process; metrics may be nil; options set the pool bounds and the idle timeout.
//
// Returns: interfaces.ProcessPool (*processPool).
//
// Called from cmd/sessionhandler, and from cmd/controller for an embedded worker, with NewNativeSpawner.
func NewProcessPool(spawn SpawnFunc, logger log.Logger, metrics *Metrics, options ...PoolOption) interfaces.ProcessPool {
	p := &processPool{
		spawn:       helpers.NilPanic(spawn, "service.process_pool.go: spawn is required"),
		max:         DefaultPoolMax,
		min:         DefaultPoolMin,
		idleTimeout: DefaultPoolIdleTimeout,
		logger:      log.With(helpers.NilPanic(logger, "service.process_pool.go: logger is required"), "component", "process_pool"),
		metrics:     metrics,
		changed:     make(chan struct{}),
		stop:        make(chan struct{}),
	}
	for _, opt := range options {
		opt(p)
	}
	if p.max < 1 {
		p.max = 1
	}
	go p.reapLoop()
	return p
}

// Acquire returns the most recently released idle process, or spawns one while size < max.
// Otherwise it waits for a release or destroy until ctx is done, then fails with overloaded.
func (p *processPool) Acquire(ctx context.Context) (interfaces.WorkerProcess, error) {
	for {
		p.mu.Lock()
		if p.closed {
			p.mu.Unlock()
			return nil, ErrPoolClosed
		}

		for len(p.idle) > 0 {
			last := p.idle[len(p.idle)-1]
			p.idle = p.idle[:len(p.idle)-1]
			if last.proc.State() == domain.ProcessDead {
				p.size--
				continue
			}
			p.busy++
			p.recordLocked()
			p.mu.Unlock()
			return last.proc, nil
		}

		if p.size < p.max {
			p.size++
			p.recordLocked()
			p.mu.Unlock()
			return p.spawnOne(ctx)
		}

		wait := p.changed
		p.mu.Unlock()

		select {
		case <-wait:
		case <-ctx.Done():
			return nil, NewOverloadedError("No worker process available", ctx.Err())
		}
	}
}

// spawnOne runs spawn for a slot already counted in size.
func (p *processPool) spawnOne(ctx context.Context) (interfaces.WorkerProcess, error) {
	proc, err := p.spawn(ctx)

	p.mu.Lock()
	defer p.mu.Unlock()
	if err != nil {
		p.size--
		p.notifyLocked()
		return nil, NewWorkerError("Can't spawn worker process", err)
	}
	if p.closed {
		p.size--
		proc.Kill()
		return nil, ErrPoolClosed
	}
	p.busy++
	p.recordLocked()
	level.Debug(p.logger).Log("msg", "Spawned worker process", "pid", proc.PID(), "size", p.size)
	return proc, nil
}

// Release returns proc to the idle set. A dead process, or any process once the pool is closed, is
// discarded instead.
func (p *processPool) Release(proc interfaces.WorkerProcess) {
	p.mu.Lock()
	p.busy--
	if p.closed || proc.State() == domain.ProcessDead {
		p.size--
		p.notifyLocked()
		p.mu.Unlock()
		proc.Kill()
		return
	}
	p.idle = append(p.idle, idleProcess{proc: proc, since: time.Now()})
	p.notifyLocked()
	p.mu.Unlock()
}

// Destroy kills proc and frees its slot.
func (p *processPool) Destroy(proc interfaces.WorkerProcess) {
	p.mu.Lock()
	p.busy--
	p.size--
	p.notifyLocked()
	p.mu.Unlock()
	proc.Kill()
}

// Close kills every idle process and fails later Acquire calls. Processes handed out are killed when
// released. Idempotent.
func (p *processPool) Close() {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return
	}
	p.closed = true
	idle := p.idle
	p.idle = nil
	p.size -= len(idle)
	close(p.stop)
	p.notifyLocked()
	p.mu.Unlock()

	for _, ip := range idle {
		ip.proc.Kill()
	}
}

func (p *processPool) reapLoop() {
	interval := p.idleTimeout / 2
	if interval <= 0 {
		interval = time.Second
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-p.stop:
			return
		case now := <-ticker.C:
			p.reap(now)
		}
	}
}

// reap evicts idle processes older than idleTimeout, oldest first, while size stays above min.
func (p *processPool) reap(now time.Time) {
	var evicted []interfaces.WorkerProcess
	p.mu.Lock()
	for len(p.idle) > 0 && p.size > p.min && now.Sub(p.idle[0].since) > p.idleTimeout {
		evicted = append(evicted, p.idle[0].proc)
		p.idle = p.idle[1:]
		p.size--
	}
	if len(evicted) > 0 {
		p.notifyLocked()
	}
	p.mu.Unlock()

	for _, proc := range evicted {
		level.Debug(p.logger).Log("msg", "Evicted idle worker process", "pid", proc.PID())
		proc.Kill()
	}
}

func (p *processPool) notifyLocked() {
	close(p.changed)
	p.changed = make(chan struct{})
	p.recordLocked()
}

func (p *processPool) recordLocked() {
	p.metrics.pool(p.size, p.busy)
}
