package interfaces

import (
	"context"
	"encoding/json"

	"mygreyhound/domain"
)

// SessionHandler is the controller's view of the sh role: every call names the worker that serves it.
//
// Implemented by adapters.SessionHandlerHTTP (remote workers) and service.colocatedSessionHandler
// (short-circuits calls addressed to the worker hosted in the same process).
//
//go:generate moq -stub -out mock/session_handler.go -pkg mock . SessionHandler
type SessionHandler interface {
	// Create instantiates pipelineID on worker (reusing a live instance) and maps sessionID to it.
	Create(ctx context.Context, worker domain.WorkerAddress, pipelineID domain.PipelineID, definition string, sessionID domain.SessionID) error

	// DeleteSession drops the worker's mapping for sessionID. The pipeline instance stays alive.
	DeleteSession(ctx context.Context, worker domain.WorkerAddress, sessionID domain.SessionID) error

	// Info answers a metadata query for sessionID. The result is the raw JSON value of the query.
	Info(ctx context.Context, worker domain.WorkerAddress, sessionID domain.SessionID, kind domain.InfoKind) (json.RawMessage, error)

	// Read asks worker to push the query result for sessionID to target.
	Read(ctx context.Context, worker domain.WorkerAddress, sessionID domain.SessionID, query domain.ReadQuery, target domain.ReadTarget) (domain.ReadAck, error)

	// Validate reports whether worker accepts definition.
	Validate(ctx context.Context, worker domain.WorkerAddress, definition string) (bool, error)

	// DestroyResource tears down the worker's instance of pipelineID. Unknown pipelines are not an error.
	DestroyResource(ctx context.Context, worker domain.WorkerAddress, pipelineID domain.PipelineID) error
}
