package handlers

import (
	"fmt"
	"net/http"

	"mygreyhound/domain"
	"mygreyhound/helpers"
	"mygreyhound/interfaces"
	"mygreyhound/service"

	"github.com/go-kit/log"
	"github.com/labstack/echo/v4"
)

// PipelineStoreServer serves the pipeline store HTTP API.
type PipelineStoreServer struct {
	store  interfaces.PipelineStore
	logger log.Logger
}

// NewPipelineStoreServer creates a new PipelineStoreServer. Panics on nil store or logger.
//
// Parameter store keeps the definitions.
//
// Returns: *PipelineStoreServer for RegisterPipelineStoreRoutes.
//
// Called from cmd/pipelinestore.
func NewPipelineStoreServer(store interfaces.PipelineStore, logger log.Logger) *PipelineStoreServer {
	return &PipelineStoreServer{
		store:  helpers.NilPanic(store, "handlers.pipeline_store_http.go: store is required"),
		logger: log.WithPrefix(helpers.NilPanic(logger, "handlers.pipeline_store_http.go: logger is required"), "component", "PipelineStoreServer"),
	}
}

// RegisterPipelineStoreRoutes binds the pipeline store API to h.
func RegisterPipelineStoreRoutes(e *echo.Echo, h *PipelineStoreServer) {
	e.PUT("/put", h.Put)
	e.GET("/retrieve", h.Retrieve)
}

type putResponse struct {
	ID domain.PipelineID `json:"id"`
}

// Put (PUT /put) stores the definition and returns its content-derived id.
func (h *PipelineStoreServer) Put(ectx echo.Context) error {
	var req pipelineRequest
	if err := ectx.Bind(&req); err != nil {
		return service.NewBadParameterError("invalid request body", err)
	}
	id, err := h.store.Put(ectx.Request().Context(), req.Pipeline)
	if err != nil {
		return fmt.Errorf("put failed to store pipeline, err: %w", err)
	}
	return ectx.JSON(http.StatusOK, putResponse{ID: id})
}

// Retrieve (GET /retrieve?pipelineId=) returns the stored definition, 404 invalid_pipeline when absent.
func (h *PipelineStoreServer) Retrieve(ectx echo.Context) error {
	id := ectx.QueryParam("pipelineId")
	if id == "" {
		return service.NewBadParameterError("Missing pipelineId", nil)
	}
	def, err := h.store.Retrieve(ectx.Request().Context(), domain.PipelineID(id))
	if err != nil {
		return fmt.Errorf("retrieve failed, err: %w", err)
	}
	return ectx.JSON(http.StatusOK, pipelineRequest{Pipeline: def})
}
