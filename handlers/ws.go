package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"mygreyhound/domain"
	"mygreyhound/helpers"
	"mygreyhound/interfaces"
	"mygreyhound/service"

	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
	"golang.org/x/time/rate"
)

const (
	// DefaultCommandRate is the sustained number of commands per second a connection may send.
	DefaultCommandRate = 50
	// DefaultCommandBurst is the number of commands a connection may send at once.
	DefaultCommandBurst = 100

	wsWriteWait = 10 * time.Second

	reasonParse     = "Couldn't parse command"
	reasonUnknown   = "Unknown command"
	reasonRateLimit = "Rate limit exceeded"
)

// reply is a JSON text frame sent to the client.
type reply map[string]any

// commandFunc runs one client command. The returned fields are merged into the success reply.
type commandFunc func(ctx context.Context, conn *wsConn, msg map[string]any) (reply, error)

// WebSocketServer is the client front door: JSON text frames {command, ...params} dispatched to the
// Controller, and read data relayed as binary frames.
type WebSocketServer struct {
	controller interfaces.Controller
	upgrader   websocket.Upgrader
	rate       rate.Limit
	burst      int
	logger     log.Logger
	commands   map[string]commandFunc
}

// WebSocketOption configures a WebSocketServer.
type WebSocketOption func(*WebSocketServer)

// WithCommandRate limits each connection to perSecond commands with the given burst.
func WithCommandRate(perSecond float64, burst int) WebSocketOption {
	return func(s *WebSocketServer) {
		if perSecond > 0 {
			s.rate = rate.Limit(perSecond)
		}
		if burst > 0 {
			s.burst = burst
		}
	}
}

// NewWebSocketServer creates the front door over controller. Panics on nil controller or logger.
//
// Parameters: controller serves every decoded command; options set the per-connection command rate.
//
// Returns: *WebSocketServer for RegisterWebSocketRoutes.
//
// Called from cmd/controller.
func NewWebSocketServer(controller interfaces.Controller, logger log.Logger, options ...WebSocketOption) *WebSocketServer {
	s := &WebSocketServer{
		controller: helpers.NilPanic(controller, "handlers.ws.go: controller is required"),
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool { return true },
		},
		rate:   DefaultCommandRate,
		burst:  DefaultCommandBurst,
		logger: log.WithPrefix(helpers.NilPanic(logger, "handlers.ws.go: logger is required"), "component", "WebSocketServer"),
	}
	for _, opt := range options {
		opt(s)
	}

	s.commands = map[string]commandFunc{
		"put":     s.put,
		"create":  s.create,
		"destroy": s.destroy,
		"cancel":  s.cancel,
		"read":    s.read,
	}
	for _, kind := range domain.InfoKinds {
		s.commands[string(kind)] = s.info(kind)
	}
	return s
}

// RegisterWebSocketRoutes serves the front door on GET /. Plain HTTP requests get a banner.
func RegisterWebSocketRoutes(e *echo.Echo, s *WebSocketServer) {
	e.GET("/", s.Handle)
}

// Handle upgrades the request and serves the connection until the client goes away.
func (s *WebSocketServer) Handle(ectx echo.Context) error {
	if !websocket.IsWebSocketUpgrade(ectx.Request()) {
		return ectx.String(http.StatusOK, "mygreyhound point distribution server")
	}
	ws, err := s.upgrader.Upgrade(ectx.Response(), ectx.Request(), nil)
	if err != nil {
		level.Warn(s.logger).Log("msg", "Websocket upgrade failed", "err", err)
		return nil
	}
	conn := &wsConn{
		ws:      ws,
		limiter: rate.NewLimiter(s.rate, s.burst),
		logger:  log.With(s.logger, "remote_addr", ectx.Request().RemoteAddr),
	}
	level.Debug(conn.logger).Log("msg", "Websocket connection accepted")
	s.serve(context.WithoutCancel(ectx.Request().Context()), conn)
	return nil
}

func (s *WebSocketServer) serve(ctx context.Context, conn *wsConn) {
	defer conn.close()
	for {
		typ, data, err := conn.ws.ReadMessage()
		if err != nil {
			if !websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				level.Debug(conn.logger).Log("msg", "Websocket read ended", "err", err)
			}
			return
		}
		s.dispatch(ctx, conn, typ, data)
	}
}

func (s *WebSocketServer) dispatch(ctx context.Context, conn *wsConn, typ int, data []byte) {
	var msg map[string]any
	if typ != websocket.TextMessage || json.Unmarshal(data, &msg) != nil || msg == nil {
		conn.send(reply{"status": 0, "reason": reasonParse})
		return
	}
	command, _ := msg["command"].(string)
	fn, ok := s.commands[command]
	if !ok {
		r := reply{"status": 0, "reason": reasonUnknown}
		if command != "" {
			r["command"] = command
		}
		conn.send(r)
		return
	}
	if !conn.limiter.Allow() {
		conn.send(reply{"command": command, "status": 0, "reason": reasonRateLimit})
		return
	}

	res, err := fn(ctx, conn, msg)
	if err != nil {
		level.Debug(conn.logger).Log("msg", "Command failed", "command", command, "err", err)
		conn.send(reply{"command": command, "status": 0, "reason": reason(err)})
		return
	}
	out := reply{}
	for k, v := range res {
		out[k] = v
	}
	out["command"] = command
	out["status"] = 1
	conn.send(out)

	if command == "read" {
		conn.startPending()
	}
}

// reason is the client-visible text of err. Inner errors are never shown.
func reason(err error) string {
	if myErr := service.ToMyError(err); myErr != nil {
		return myErr.Message
	}
	return "Internal error"
}

func stringParam(msg map[string]any, key string) (string, error) {
	v, ok := msg[key].(string)
	if !ok || v == "" {
		return "", service.NewProtocolError(fmt.Sprintf("Missing property %q", key), nil)
	}
	return v, nil
}

func (s *WebSocketServer) put(ctx context.Context, _ *wsConn, msg map[string]any) (reply, error) {
	definition, err := stringParam(msg, "pipeline")
	if err != nil {
		return nil, err
	}
	id, err := s.controller.Put(ctx, definition)
	if err != nil {
		return nil, err
	}
	return reply{"pipelineId": id}, nil
}

func (s *WebSocketServer) create(ctx context.Context, _ *wsConn, msg map[string]any) (reply, error) {
	pipelineID, err := stringParam(msg, "pipelineId")
	if err != nil {
		return nil, err
	}
	sessionID, err := s.controller.Create(ctx, domain.PipelineID(pipelineID))
	if err != nil {
		return nil, err
	}
	return reply{"session": sessionID}, nil
}

func (s *WebSocketServer) info(kind domain.InfoKind) commandFunc {
	return func(ctx context.Context, _ *wsConn, msg map[string]any) (reply, error) {
		sessionID, err := stringParam(msg, "session")
		if err != nil {
			return nil, err
		}
		out, err := s.controller.Info(ctx, domain.SessionID(sessionID), kind)
		if err != nil {
			return nil, err
		}
		return reply{string(kind): out}, nil
	}
}

func (s *WebSocketServer) destroy(ctx context.Context, _ *wsConn, msg map[string]any) (reply, error) {
	sessionID, err := stringParam(msg, "session")
	if err != nil {
		return nil, err
	}
	if err := s.controller.Destroy(ctx, domain.SessionID(sessionID)); err != nil {
		return nil, err
	}
	return reply{}, nil
}

func (s *WebSocketServer) cancel(ctx context.Context, _ *wsConn, msg map[string]any) (reply, error) {
	sessionID, err := stringParam(msg, "session")
	if err != nil {
		return nil, err
	}
	readID, ok := msg["readId"].(float64)
	if !ok {
		return nil, service.NewProtocolError(`Missing property "readId"`, nil)
	}
	cancelled, err := s.controller.Cancel(ctx, domain.SessionID(sessionID), int64(readID))
	if err != nil {
		return nil, err
	}
	return reply{"cancelled": cancelled}, nil
}

// read starts a read whose bytes follow the ack as binary frames. With summary set, a final
// {command: "summary"} frame reports the relayed byte count.
func (s *WebSocketServer) read(ctx context.Context, conn *wsConn, msg map[string]any) (reply, error) {
	sessionID, err := stringParam(msg, "session")
	if err != nil {
		return nil, err
	}
	summary, _ := msg["summary"].(bool)

	query := domain.ReadQuery{}
	for k, v := range msg {
		switch k {
		case "command", "session", "summary":
			continue
		}
		query[k] = v
	}

	var readID atomic.Int64
	var relayed atomic.Int64
	sink := interfaces.StreamSink{
		OnData: func(chunk []byte) error {
			relayed.Add(int64(len(chunk)))
			return conn.write(websocket.BinaryMessage, chunk)
		},
		OnEnd: func(err error) {
			if !summary {
				return
			}
			r := reply{"command": "summary", "status": 1, "readId": readID.Load(), "numBytes": relayed.Load()}
			if err != nil {
				r["status"] = 0
				r["reason"] = reason(err)
			}
			conn.send(r)
		},
	}

	ack, stream, err := s.controller.Read(ctx, domain.SessionID(sessionID), query, sink)
	if err != nil {
		return nil, err
	}
	readID.Store(ack.ReadID)
	conn.track(stream)
	return reply{"readId": ack.ReadID, "numPoints": ack.NumPoints, "numBytes": ack.NumBytes, "message": ack.Message}, nil
}

// wsConn is one client connection. Writes are serialized; gorilla allows a single concurrent writer.
type wsConn struct {
	ws      *websocket.Conn
	limiter *rate.Limiter
	logger  log.Logger

	writeMu sync.Mutex

	mu      sync.Mutex
	pending interfaces.ReadStream
	streams []interfaces.ReadStream
	closed  bool
}

func (c *wsConn) write(messageType int, data []byte) error {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	_ = c.ws.SetWriteDeadline(time.Now().Add(wsWriteWait))
	return c.ws.WriteMessage(messageType, data)
}

func (c *wsConn) send(r reply) {
	data, err := json.Marshal(r)
	if err != nil {
		level.Error(c.logger).Log("msg", "Can't encode reply", "err", err)
		return
	}
	if err := c.write(websocket.TextMessage, data); err != nil {
		level.Debug(c.logger).Log("msg", "Websocket write failed", "err", err)
	}
}

// track registers the stream of a read whose ack is about to be sent. It starts pushing once the ack is out.
func (c *wsConn) track(stream interfaces.ReadStream) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		stream.Cancel()
		return
	}
	c.pending = stream
	live := c.streams[:0]
	for _, s := range c.streams {
		select {
		case <-s.Done():
		default:
			live = append(live, s)
		}
	}
	c.streams = append(live, stream)
}

func (c *wsConn) startPending() {
	c.mu.Lock()
	stream := c.pending
	c.pending = nil
	c.mu.Unlock()
	if stream != nil {
		stream.StartPushing()
	}
}

// close cancels the reads still relaying to this connection. Their sessions stay until destroyed or swept.
func (c *wsConn) close() {
	c.mu.Lock()
	c.closed = true
	streams := c.streams
	c.streams = nil
	c.pending = nil
	c.mu.Unlock()
	for _, s := range streams {
		s.Cancel()
	}
	_ = c.ws.Close()
}
