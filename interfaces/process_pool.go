package interfaces

import (
	"context"
	"encoding/json"

	"mygreyhound/domain"
)

// WorkerProcess is one native worker subprocess speaking the stdio JSON protocol.
// At most one request may be outstanding; callers draw processes from a ProcessPool and
// serialize their own calls.
//
//go:generate moq -stub -out mock/worker_process.go -pkg mock . WorkerProcess
type WorkerProcess interface {
	// PID returns the OS process id.
	PID() int
	// State returns the current lifecycle state.
	State() domain.ProcessState

	Create(ctx context.Context, definition string) error
	Destroy(ctx context.Context) error
	NumPoints(ctx context.Context) (int64, error)
	IsValid(ctx context.Context) (bool, error)
	Info(ctx context.Context, kind domain.InfoKind) (json.RawMessage, error)
	// Read makes the process push the query result to target; it returns once the read is queued.
	Read(ctx context.Context, query domain.ReadQuery, target domain.ReadTarget) (numPoints int64, numBytes int64, err error)

	// Kill terminates the process. Idempotent.
	Kill()
}

// ProcessPool bounds and recycles WorkerProcess instances.
//
//go:generate moq -stub -out mock/process_pool.go -pkg mock . ProcessPool
type ProcessPool interface {
	// Acquire returns an idle process or spawns one; it blocks while the pool is at max size.
	Acquire(ctx context.Context) (WorkerProcess, error)
	// Release returns p to the idle set. Dead processes are destroyed instead.
	Release(p WorkerProcess)
	// Destroy terminates p and frees its slot.
	Destroy(p WorkerProcess)
	// Close destroys every idle process and fails subsequent Acquire calls.
	Close()
}
