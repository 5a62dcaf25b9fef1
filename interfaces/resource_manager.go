package interfaces

import (
	"context"
	"encoding/json"

	"mygreyhound/domain"
)

// ResourceManager is the sh-side owner of pipeline instances: one worker process per live pipeline,
// any number of sessions mapped onto it.
//
// Implemented by service.resourceManager. Served over HTTP by handlers.SessionHandlerServer and called
// in-process by service.colocatedSessionHandler.
//
//go:generate moq -stub -out mock/resource_manager.go -pkg mock . ResourceManager
type ResourceManager interface {
	Create(ctx context.Context, pipelineID domain.PipelineID, definition string, sessionID domain.SessionID) error
	DeleteSession(ctx context.Context, sessionID domain.SessionID) error
	Info(ctx context.Context, sessionID domain.SessionID, kind domain.InfoKind) (json.RawMessage, error)
	Read(ctx context.Context, sessionID domain.SessionID, query domain.ReadQuery, target domain.ReadTarget) (domain.ReadAck, error)
	Validate(ctx context.Context, definition string) (bool, error)
	DestroyResource(ctx context.Context, pipelineID domain.PipelineID) error
}
