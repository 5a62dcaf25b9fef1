package interfaces

import (
	"context"

	"mygreyhound/domain"
)

// PipelineStore stores pipeline definitions under content-derived ids.
//
// Implemented by adapters/mybadger.pipelineStore (the db role) and adapters.PipelineStoreHTTP
// (the controller's client of the db role).
//
//go:generate moq -stub -out mock/pipeline_store.go -pkg mock . PipelineStore
type PipelineStore interface {
	// Put stores definition and returns its id. Storing the same definition twice yields the same id.
	Put(ctx context.Context, definition string) (domain.PipelineID, error)

	// Retrieve returns the definition stored under id, or invalid_pipeline when absent.
	Retrieve(ctx context.Context, id domain.PipelineID) (string, error)
}
