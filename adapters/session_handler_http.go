package adapters

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"sync"
	"time"

	"mygreyhound/domain"
	"mygreyhound/helpers"
	"mygreyhound/interfaces"
	"mygreyhound/service"

	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
	"github.com/sony/gobreaker"
)

const (
	// DefaultBreakerFailures is the number of consecutive transport failures that opens a worker's circuit.
	DefaultBreakerFailures = 5
	// DefaultBreakerResetTimeout is how long an open circuit rejects calls before probing the worker again.
	DefaultBreakerResetTimeout = 10 * time.Second
)

// SessionHandlerOption configures SessionHandlerHTTP.
type SessionHandlerOption func(*sessionHandlerHTTP)

// WithBreaker sets the circuit breaker thresholds applied to every worker.
func WithBreaker(failures int, resetTimeout time.Duration) SessionHandlerOption {
	return func(s *sessionHandlerHTTP) {
		if failures > 0 {
			s.failures = uint32(failures)
		}
		if resetTimeout > 0 {
			s.resetTimeout = resetTimeout
		}
	}
}

// SessionHandlerHTTP creates an interfaces.SessionHandler that calls session handlers over HTTP at
// http://<worker>. Every worker address gets its own circuit breaker, tripped by transport failures only;
// error replies of a reachable worker pass through. Panics on nil client or logger.
//
// Parameters: client sends the requests; options tune the breakers.
//
// Returns: interfaces.SessionHandler (*sessionHandlerHTTP).
//
// Called from cmd/controller.
func SessionHandlerHTTP(client *http.Client, logger log.Logger, options ...SessionHandlerOption) interfaces.SessionHandler {
	s := &sessionHandlerHTTP{
		client:       helpers.NilPanic(client, "adapters.session_handler_http.go: http client is required"),
		logger:       log.With(helpers.NilPanic(logger, "adapters.session_handler_http.go: logger is required"), "component", "session_handler_http"),
		failures:     DefaultBreakerFailures,
		resetTimeout: DefaultBreakerResetTimeout,
		breakers:     make(map[domain.WorkerAddress]*gobreaker.CircuitBreaker),
	}
	for _, opt := range options {
		opt(s)
	}
	return s
}

type sessionHandlerHTTP struct {
	client       *http.Client
	logger       log.Logger
	failures     uint32
	resetTimeout time.Duration

	mu       sync.Mutex
	breakers map[domain.WorkerAddress]*gobreaker.CircuitBreaker
}

func (s *sessionHandlerHTTP) breaker(worker domain.WorkerAddress) *gobreaker.CircuitBreaker {
	s.mu.Lock()
	defer s.mu.Unlock()
	cb, ok := s.breakers[worker]
	if ok {
		return cb
	}
	cb = gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        string(worker),
		MaxRequests: 1,
		Timeout:     s.resetTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= s.failures
		},
		IsSuccessful: func(err error) bool {
			return !errors.Is(err, errTransport)
		},
		OnStateChange: func(name string, from gobreaker.State, to gobreaker.State) {
			level.Warn(s.logger).Log("msg", "Session handler circuit changed", "worker", name, "from", from.String(), "to", to.String())
		},
	})
	s.breakers[worker] = cb
	return cb
}

func (s *sessionHandlerHTTP) call(ctx context.Context, worker domain.WorkerAddress, method, path string, in, out any) error {
	_, err := s.breaker(worker).Execute(func() (interface{}, error) {
		return nil, doJSON(ctx, s.client, method, "http://"+string(worker)+path, in, out)
	})
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return service.NewWorkerClosedError(fmt.Sprintf("Session handler %s is failing", worker), err)
	}
	return err
}

type createRequest struct {
	PipelineID domain.PipelineID `json:"pipelineId"`
	Pipeline   string            `json:"pipeline"`
	SessionID  domain.SessionID  `json:"sessionId"`
}

type validateRequest struct {
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

// Create performs POST /create {pipelineId, pipeline, sessionId}.
func (s *sessionHandlerHTTP) Create(ctx context.Context, worker domain.WorkerAddress, pipelineID domain.PipelineID, definition string, sessionID domain.SessionID) error {
	return s.call(ctx, worker, http.MethodPost, "/create", createRequest{PipelineID: pipelineID, Pipeline: definition, SessionID: sessionID}, nil)
}

// DeleteSession performs DELETE /sessions/{sessionId}.
func (s *sessionHandlerHTTP) DeleteSession(ctx context.Context, worker domain.WorkerAddress, sessionID domain.SessionID) error {
	return s.call(ctx, worker, http.MethodDelete, "/sessions/"+url.PathEscape(string(sessionID)), nil, nil)
}

// Info performs GET /{kind}/{sessionId} and unwraps the {"<kind>": value} reply.
func (s *sessionHandlerHTTP) Info(ctx context.Context, worker domain.WorkerAddress, sessionID domain.SessionID, kind domain.InfoKind) (json.RawMessage, error) {
	var out map[string]json.RawMessage
	if err := s.call(ctx, worker, http.MethodGet, "/"+string(kind)+"/"+url.PathEscape(string(sessionID)), nil, &out); err != nil {
		return nil, err
	}
	value, ok := out[string(kind)]
	if !ok {
		return nil, service.NewWorkerError(fmt.Sprintf("Reply of %s is missing %s", worker, kind), nil)
	}
	return value, nil
}

// Read performs POST /read/{sessionId} with the query fields plus host and port of target.
func (s *sessionHandlerHTTP) Read(ctx context.Context, worker domain.WorkerAddress, sessionID domain.SessionID, query domain.ReadQuery, target domain.ReadTarget) (domain.ReadAck, error) {
	body := make(map[string]any, len(query)+2)
	for k, v := range query {
		body[k] = v
	}
	body["host"] = target.Host
	body["port"] = target.Port

	var out readResponse
	if err := s.call(ctx, worker, http.MethodPost, "/read/"+url.PathEscape(string(sessionID)), body, &out); err != nil {
		return domain.ReadAck{}, err
	}
	return domain.ReadAck{ReadID: out.ReadID, NumPoints: out.NumPoints, NumBytes: out.NumBytes, Message: out.Message}, nil
}

// Validate performs POST /validate {pipeline}.
func (s *sessionHandlerHTTP) Validate(ctx context.Context, worker domain.WorkerAddress, definition string) (bool, error) {
	var out validateResponse
	if err := s.call(ctx, worker, http.MethodPost, "/validate", validateRequest{Pipeline: definition}, &out); err != nil {
		return false, err
	}
	return out.Valid, nil
}

// DestroyResource performs DELETE /resources/{pipelineId}.
func (s *sessionHandlerHTTP) DestroyResource(ctx context.Context, worker domain.WorkerAddress, pipelineID domain.PipelineID) error {
	return s.call(ctx, worker, http.MethodDelete, "/resources/"+url.PathEscape(string(pipelineID)), nil, nil)
}
