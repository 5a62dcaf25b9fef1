package service

import (
	"errors"
	"io"
	"net"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"mygreyhound/domain"
	"mygreyhound/helpers"
	"mygreyhound/interfaces"

	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
)

const (
	// DefaultBridgeAcceptTimeout bounds the wait for the worker to connect back.
	DefaultBridgeAcceptTimeout = 30 * time.Second

	bridgeReadBuffer = 64 * 1024
)

// BridgeFactory opens streaming bridges: single-use listeners a worker connects back to and pushes
// read data on.
type BridgeFactory struct {
	advertiseHost string
	bindHost      string
	acceptTimeout time.Duration
	logger        log.Logger
	metrics       *Metrics
}

// NewBridgeFactory creates a bridge factory. A non-positive acceptTimeout waits forever. Panics on nil logger.
//
// Parameters: advertiseHost is the host workers dial; bindHost is the listen host; acceptTimeout bounds the wait
// for the worker connection; metrics may be nil.
//
// Returns: *BridgeFactory.
//
// Called from cmd/controller.
func NewBridgeFactory(advertiseHost, bindHost string, acceptTimeout time.Duration, logger log.Logger, metrics *Metrics) *BridgeFactory {
	return &BridgeFactory{
		advertiseHost: advertiseHost,
		bindHost:      bindHost,
		acceptTimeout: acceptTimeout,
		logger:        log.With(helpers.NilPanic(logger, "service.bridge.go: logger is required"), "component", "bridge"),
		metrics:       metrics,
	}
}

// Listen opens a bridge on an OS-assigned port. Bytes are delivered to sink once StartPushing is called.
func (f *BridgeFactory) Listen(sink interfaces.StreamSink) (*Bridge, error) {
	lis, err := net.Listen("tcp", net.JoinHostPort(f.bindHost, "0"))
	if err != nil {
		return nil, NewInternalServerError("Can't open streaming bridge", err)
	}
	port := lis.Addr().(*net.TCPAddr).Port

	b := &Bridge{
		lis:     lis,
		target:  domain.ReadTarget{Host: f.advertiseHost, Port: port},
		sink:    sink,
		logger:  log.With(f.logger, "port", port),
		metrics: f.metrics,
		done:    make(chan struct{}),
	}
	go b.serve(f.acceptTimeout)
	return b, nil
}

// Bridge implements interfaces.ReadStream for one read.
//
// Lock order is mu then sendMu. mu guards the buffering state; sendMu orders the calls to sink.OnData,
// so the flush in StartPushing always precedes bytes read after it.
type Bridge struct {
	lis     net.Listener
	target  domain.ReadTarget
	sink    interfaces.StreamSink
	logger  log.Logger
	metrics *Metrics

	mu      sync.Mutex
	conn    net.Conn
	pushing bool
	buf     []byte
	ended   bool
	endErr  error

	sendMu    sync.Mutex
	cancelled atomic.Bool
	sent      atomic.Int64

	endOnce  sync.Once
	doneOnce sync.Once
	done     chan struct{}
}

// Target is the address the worker must push to.
func (b *Bridge) Target() domain.ReadTarget {
	return b.target
}

// Sent returns the number of bytes handed to the sink so far.
func (b *Bridge) Sent() int64 {
	return b.sent.Load()
}

func (b *Bridge) Done() <-chan struct{} {
	return b.done
}

func (b *Bridge) serve(acceptTimeout time.Duration) {
	if tl, ok := b.lis.(*net.TCPListener); ok && acceptTimeout > 0 {
		_ = tl.SetDeadline(time.Now().Add(acceptTimeout))
	}
	conn, err := b.lis.Accept()
	_ = b.lis.Close()
	if err != nil {
		if b.cancelled.Load() {
			return
		}
		level.Warn(b.logger).Log("msg", "Worker never connected to bridge", "err", err)
		b.end(NewUnavailableError("Worker never connected to the streaming bridge", err))
		return
	}

	b.mu.Lock()
	if b.cancelled.Load() {
		b.mu.Unlock()
		_ = conn.Close()
		return
	}
	b.conn = conn
	b.mu.Unlock()

	defer conn.Close()
	chunk := make([]byte, bridgeReadBuffer)
	for {
		n, err := conn.Read(chunk)
		if n > 0 {
			b.receive(append([]byte(nil), chunk[:n]...))
		}
		if err != nil {
			if errors.Is(err, io.EOF) {
				b.end(nil)
			} else {
				b.end(NewWorkerClosedError("Streaming bridge upstream failed", err))
			}
			return
		}
	}
}

func (b *Bridge) receive(data []byte) {
	b.mu.Lock()
	if b.cancelled.Load() {
		b.mu.Unlock()
		return
	}
	if !b.pushing {
		b.buf = append(b.buf, data...)
		b.mu.Unlock()
		return
	}
	b.sendMu.Lock()
	b.mu.Unlock()
	ok := b.send(data)
	b.sendMu.Unlock()
	if !ok {
		b.Cancel()
	}
}

// send forwards data to the sink. Caller must hold sendMu and cancel the bridge, once sendMu is
// released, when send reports a sink failure.
func (b *Bridge) send(data []byte) bool {
	if b.cancelled.Load() || len(data) == 0 {
		return true
	}
	b.sent.Add(int64(len(data)))
	b.metrics.bridged(len(data))
	if err := b.sink.OnData(data); err != nil {
		level.Debug(b.logger).Log("msg", "Bridge sink failed, cancelling", "err", err)
		return false
	}
	return true
}

// end records the upstream end. While buffering it is deferred until StartPushing has flushed.
func (b *Bridge) end(err error) {
	b.mu.Lock()
	if b.cancelled.Load() {
		b.mu.Unlock()
		return
	}
	if !b.pushing {
		b.ended = true
		b.endErr = err
		b.mu.Unlock()
		return
	}
	// Wait for a send in progress so the end never overtakes data.
	b.sendMu.Lock()
	b.mu.Unlock()
	b.sendMu.Unlock()
	b.deliverEnd(err)
}

func (b *Bridge) deliverEnd(err error) {
	b.endOnce.Do(func() {
		if !b.cancelled.Load() && b.sink.OnEnd != nil {
			b.sink.OnEnd(err)
		}
		b.finish()
	})
}

// StartPushing flushes the buffered bytes and forwards later ones as they arrive. An end that arrived
// while buffering is delivered after the flush. Idempotent.
func (b *Bridge) StartPushing() {
	b.mu.Lock()
	if b.pushing || b.cancelled.Load() {
		b.mu.Unlock()
		return
	}
	b.pushing = true
	data := b.buf
	b.buf = nil
	ended, endErr := b.ended, b.endErr
	b.sendMu.Lock()
	b.mu.Unlock()

	ok := b.send(data)
	b.sendMu.Unlock()
	if !ok {
		b.Cancel()
		return
	}

	if ended {
		b.deliverEnd(endErr)
	}
}

// Cancel closes the upstream connection and the listener and discards buffered bytes. OnEnd is not
// called afterwards. Idempotent, also after the stream ended.
func (b *Bridge) Cancel() {
	b.mu.Lock()
	if b.cancelled.Swap(true) {
		b.mu.Unlock()
		return
	}
	b.buf = nil
	conn := b.conn
	b.mu.Unlock()

	_ = b.lis.Close()
	if conn != nil {
		_ = conn.Close()
	}
	b.finish()
}

func (b *Bridge) finish() {
	b.doneOnce.Do(func() {
		close(b.done)
		level.Debug(b.logger).Log("msg", "Bridge finished", "sent", b.sent.Load(), "cancelled", b.cancelled.Load())
	})
}

// String returns the advertised host:port.
func (b *Bridge) String() string {
	return net.JoinHostPort(b.target.Host, strconv.Itoa(b.target.Port))
}
