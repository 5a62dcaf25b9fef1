package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"

	"mygreyhound/domain"
	"mygreyhound/helpers"
	"mygreyhound/interfaces"
	"mygreyhound/service"

	"github.com/go-kit/log"
	"github.com/labstack/echo/v4"
)

// SessionHandlerServer serves the session handler HTTP API over a ResourceManager.
type SessionHandlerServer struct {
	resources interfaces.ResourceManager
	logger    log.Logger
}

// NewSessionHandlerServer creates a new SessionHandlerServer. Panics on nil resources or logger.
//
// Parameter resources owns the pipeline instances of this process.
//
// Returns: *SessionHandlerServer for RegisterSessionHandlerRoutes.
//
// Called from cmd/sessionhandler, and from cmd/controller for an embedded worker.
func NewSessionHandlerServer(resources interfaces.ResourceManager, logger log.Logger) *SessionHandlerServer {
	return &SessionHandlerServer{
		resources: helpers.NilPanic(resources, "handlers.session_handler_http.go: resources is required"),
		logger:    log.WithPrefix(helpers.NilPanic(logger, "handlers.session_handler_http.go: logger is required"), "component", "SessionHandlerServer"),
	}
}

// RegisterSessionHandlerRoutes binds every route of the session handler API to h.
func RegisterSessionHandlerRoutes(e *echo.Echo, h *SessionHandlerServer) {
	e.POST("/create", h.Create)
	e.DELETE("/sessions/:sessionId", h.DeleteSession)
	e.DELETE("/resources/:pipelineId", h.DestroyResource)
	e.POST("/validate", h.Validate)
	e.POST("/read/:sessionId", h.Read)
	for _, kind := range domain.InfoKinds {
		e.GET("/"+string(kind)+"/:sessionId", h.Info(kind))
	}
}

type createRequest struct {
	PipelineID string `json:"pipelineId"`
	Pipeline   string `json:"pipeline"`
	SessionID  string `json:"sessionId"`
}

type pipelineRequest struct {
	Pipeline string `json:"pipeline"`
}

type validateResponse struct {
	Valid bool `json:"valid"`
}

type readResponse struct {
	ReadID    int64  `json:"readId"`
	NumPoints int64  `json:"numPoints"`
	NumBytes  int64  `json:"numBytes"`
	Message   string `json:"message"`
}

// Create (POST /create) instantiates the pipeline, reusing a live instance, and maps the session onto it.
func (h *SessionHandlerServer) Create(ectx echo.Context) error {
	var req createRequest
	if err := ectx.Bind(&req); err != nil {
		return service.NewBadParameterError("invalid request body", err)
	}
	ctx := ectx.Request().Context()
	if err := h.resources.Create(ctx, domain.PipelineID(req.PipelineID), req.Pipeline, domain.SessionID(req.SessionID)); err != nil {
		return fmt.Errorf("create failed, err: %w", err)
	}
	return ectx.JSON(http.StatusOK, struct{}{})
}

// DeleteSession (DELETE /sessions/{sessionId}) drops the session mapping. Unknown sessions succeed.
func (h *SessionHandlerServer) DeleteSession(ectx echo.Context) error {
	sessionID := domain.SessionID(ectx.Param("sessionId"))
	if err := h.resources.DeleteSession(ectx.Request().Context(), sessionID); err != nil {
		return fmt.Errorf("deleteSession failed, err: %w", err)
	}
	return ectx.JSON(http.StatusOK, struct{}{})
}

// DestroyResource (DELETE /resources/{pipelineId}) tears down the pipeline instance and its sessions.
func (h *SessionHandlerServer) DestroyResource(ectx echo.Context) error {
	pipelineID := domain.PipelineID(ectx.Param("pipelineId"))
	if err := h.resources.DestroyResource(ectx.Request().Context(), pipelineID); err != nil {
		return fmt.Errorf("destroyResource failed, err: %w", err)
	}
	return ectx.JSON(http.StatusOK, struct{}{})
}

// Validate (POST /validate) reports whether the engine accepts the definition.
func (h *SessionHandlerServer) Validate(ectx echo.Context) error {
	var req pipelineRequest
	if err := ectx.Bind(&req); err != nil {
		return service.NewBadParameterError("invalid request body", err)
	}
	valid, err := h.resources.Validate(ectx.Request().Context(), req.Pipeline)
	if err != nil {
		return fmt.Errorf("validate failed, err: %w", err)
	}
	return ectx.JSON(http.StatusOK, validateResponse{Valid: valid})
}

// Read (POST /read/{sessionId}) queues a read pushed to the host and port of the body. Every other body
// field is passed to the engine as query.
func (h *SessionHandlerServer) Read(ectx echo.Context) error {
	var body map[string]any
	if err := json.NewDecoder(ectx.Request().Body).Decode(&body); err != nil {
		return service.NewBadParameterError("invalid request body", err)
	}
	host, _ := body["host"].(string)
	port, _ := body["port"].(float64)
	delete(body, "host")
	delete(body, "port")

	target := domain.ReadTarget{Host: host, Port: int(port)}
	ack, err := h.resources.Read(ectx.Request().Context(), domain.SessionID(ectx.Param("sessionId")), domain.ReadQuery(body), target)
	if err != nil {
		return fmt.Errorf("read failed, err: %w", err)
	}
	return ectx.JSON(http.StatusOK, readResponse{ReadID: ack.ReadID, NumPoints: ack.NumPoints, NumBytes: ack.NumBytes, Message: ack.Message})
}

// Info returns the handler of GET /{kind}/{sessionId}, replying {"<kind>": value}.
func (h *SessionHandlerServer) Info(kind domain.InfoKind) echo.HandlerFunc {
	return func(ectx echo.Context) error {
		out, err := h.resources.Info(ectx.Request().Context(), domain.SessionID(ectx.Param("sessionId")), kind)
		if err != nil {
			return fmt.Errorf("%s failed, err: %w", kind, err)
		}
		return ectx.JSON(http.StatusOK, map[string]json.RawMessage{string(kind): out})
	}
}
