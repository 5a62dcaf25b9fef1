package service

import (
	"context"
	"encoding/json"

	"mygreyhound/domain"
	"mygreyhound/helpers"
	"mygreyhound/interfaces"
)

// NewColocatedSessionHandler returns a SessionHandler that serves calls addressed to local with the
// in-process ResourceManager and forwards every other call to remote. Panics on empty local or nil
// collaborators.
//
// Parameters: local is the address of the embedded worker; resources serves it; remote serves every other address.
//
// Returns: interfaces.SessionHandler (*colocatedSessionHandler).
//
// Called from cmd/controller when it embeds a session handler (NATIVE_WORKER_PATH set).
func NewColocatedSessionHandler(local domain.WorkerAddress, resources interfaces.ResourceManager, remote interfaces.SessionHandler) interfaces.SessionHandler {
	return &colocatedSessionHandler{
		local:     domain.WorkerAddress(helpers.StrPanic(string(local), "service.colocated.go: local address is required")),
		resources: helpers.NilPanic(resources, "service.colocated.go: resources is required"),
		remote:    helpers.NilPanic(remote, "service.colocated.go: remote is required"),
	}
}

type colocatedSessionHandler struct {
	local     domain.WorkerAddress
	resources interfaces.ResourceManager
	remote    interfaces.SessionHandler
}

func (h *colocatedSessionHandler) Create(ctx context.Context, worker domain.WorkerAddress, pipelineID domain.PipelineID, definition string, sessionID domain.SessionID) error {
	if worker == h.local {
		return h.resources.Create(ctx, pipelineID, definition, sessionID)
	}
	return h.remote.Create(ctx, worker, pipelineID, definition, sessionID)
}

func (h *colocatedSessionHandler) DeleteSession(ctx context.Context, worker domain.WorkerAddress, sessionID domain.SessionID) error {
	if worker == h.local {
		return h.resources.DeleteSession(ctx, sessionID)
	}
	return h.remote.DeleteSession(ctx, worker, sessionID)
}

func (h *colocatedSessionHandler) Info(ctx context.Context, worker domain.WorkerAddress, sessionID domain.SessionID, kind domain.InfoKind) (json.RawMessage, error) {
	if worker == h.local {
		return h.resources.Info(ctx, sessionID, kind)
	}
	return h.remote.Info(ctx, worker, sessionID, kind)
}

func (h *colocatedSessionHandler) Read(ctx context.Context, worker domain.WorkerAddress, sessionID domain.SessionID, query domain.ReadQuery, target domain.ReadTarget) (domain.ReadAck, error) {
	if worker == h.local {
		return h.resources.Read(ctx, sessionID, query, target)
	}
	return h.remote.Read(ctx, worker, sessionID, query, target)
}

func (h *colocatedSessionHandler) Validate(ctx context.Context, worker domain.WorkerAddress, definition string) (bool, error) {
	if worker == h.local {
		return h.resources.Validate(ctx, definition)
	}
	return h.remote.Validate(ctx, worker, definition)
}

func (h *colocatedSessionHandler) DestroyResource(ctx context.Context, worker domain.WorkerAddress, pipelineID domain.PipelineID) error {
	if worker == h.local {
		return h.resources.DestroyResource(ctx, pipelineID)
	}
	return h.remote.DestroyResource(ctx, worker, pipelineID)
}
