package interfaces

import (
	"context"
	"encoding/json"

	"mygreyhound/domain"
)

// StreamSink receives the bytes of one read. OnData calls are sequential and in arrival order;
// OnEnd is called at most once, after the last OnData, and never after a cancellation.
type StreamSink struct {
	OnData func(chunk []byte) error
	OnEnd  func(err error)
}

// ReadStream is the controller-side handle of one in-flight read.
type ReadStream interface {
	// StartPushing flushes buffered bytes to the sink and forwards later ones as they arrive.
	StartPushing()
	// Cancel drops the stream without calling OnEnd. Idempotent.
	Cancel()
	// Done is closed once the stream ended or was cancelled.
	Done() <-chan struct{}
}

// Controller is the client-visible command surface.
//
// Implemented by service.Controller; driven by handlers.WebSocketServer.
//
//go:generate moq -stub -out mock/controller.go -pkg mock . Controller
type Controller interface {
	Put(ctx context.Context, definition string) (domain.PipelineID, error)
	Create(ctx context.Context, pipelineID domain.PipelineID) (domain.SessionID, error)
	Info(ctx context.Context, sessionID domain.SessionID, kind domain.InfoKind) (json.RawMessage, error)
	// Read starts a read. The caller relays the ack to its client, then calls StartPushing on the stream.
	Read(ctx context.Context, sessionID domain.SessionID, query domain.ReadQuery, sink StreamSink) (domain.ReadAck, ReadStream, error)
	Cancel(ctx context.Context, sessionID domain.SessionID, readID int64) (bool, error)
	Destroy(ctx context.Context, sessionID domain.SessionID) error
}
