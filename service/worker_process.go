package service

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os/exec"
	"path/filepath"
	"strings"
	"sync"

	"mygreyhound/domain"
	"mygreyhound/interfaces"

	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
)

// ErrProcessBusy is returned when a request is issued while another one is in flight on the same process.
var ErrProcessBusy = errors.New("worker process has a request in flight")

// ErrEngineRejected is the inner error of a worker_error the native engine itself answered with, either an
// unsuccessful status or stderr output. Interrupted or failed transport never carries it.
var ErrEngineRejected = errors.New("rejected by the native engine")

// IsEngineRejection reports whether err is a refusal by the native engine rather than a failure to reach it.
func IsEngineRejection(err error) bool {
	return errors.Is(err, ErrEngineRejected)
}

// SpawnFunc starts one native worker process and waits for its ready handshake.
type SpawnFunc func(ctx context.Context) (interfaces.WorkerProcess, error)

// NewNativeSpawner returns a SpawnFunc running path with args.
// An absolute path also sets the working directory to the executable's directory.
//
// Parameters: path is the native worker executable; args are passed unchanged.
//
// Returns: SpawnFunc for NewProcessPool.
//
// Called from cmd/sessionhandler and cmd/controller.
func NewNativeSpawner(path string, args []string, logger log.Logger) SpawnFunc {
	return func(ctx context.Context) (interfaces.WorkerProcess, error) {
		return spawnWorkerProcess(ctx, path, args, logger)
	}
}

// infoCommands maps an info query to the native command and the reply field holding its result.
var infoCommands = map[domain.InfoKind]struct{ command, field string }{
	domain.InfoNumPoints: {"getNumPoints", "count"},
	domain.InfoSchema:    {"getSchema", "schema"},
	domain.InfoSrs:       {"getSrs", "srs"},
	domain.InfoStats:     {"getStats", "stats"},
	domain.InfoFills:     {"getFills", "fills"},
	domain.InfoBounds:    {"getBounds", "bounds"},
	domain.InfoSerialize: {"serialize", "serialized"},
}

type nativeRequest struct {
	Command string         `json:"command"`
	Params  map[string]any `json:"params,omitempty"`
}

type nativeReply struct {
	fields map[string]json.RawMessage
	err    error
}

// workerProcess implements interfaces.WorkerProcess over the stdio JSON protocol of the native engine.
// Replies are the JSON objects written to stdout; other JSON values are ignored. Any stderr output fails
// the request in flight and retires the process. At most one request is in flight; the pending slot
// receives exactly one reply.
type workerProcess struct {
	cmd    *exec.Cmd
	stdin  io.WriteCloser
	logger log.Logger

	callMu sync.Mutex

	mu      sync.Mutex
	state   domain.ProcessState
	pending chan nativeReply

	killOnce sync.Once
	exited   chan struct{}
}

func spawnWorkerProcess(ctx context.Context, path string, args []string, logger log.Logger) (*workerProcess, error) {
	cmd := exec.Command(path, args...)
	if filepath.IsAbs(path) {
		cmd.Dir = filepath.Dir(path)
	}
	stdin, err := cmd.StdinPipe()
	if err != nil {
		return nil, NewWorkerError("Can't open worker stdin", err)
	}
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, NewWorkerError("Can't open worker stdout", err)
	}
	stderr, err := cmd.StderrPipe()
	if err != nil {
		return nil, NewWorkerError("Can't open worker stderr", err)
	}

	p := &workerProcess{
		cmd:     cmd,
		stdin:   stdin,
		state:   domain.ProcessSpawning,
		pending: make(chan nativeReply, 1),
		exited:  make(chan struct{}),
	}
	ready := p.pending

	if err := cmd.Start(); err != nil {
		return nil, NewWorkerError(fmt.Sprintf("Can't spawn worker process %s", path), err)
	}
	p.logger = log.With(logger, "component", "worker_process", "pid", cmd.Process.Pid)

	var readers sync.WaitGroup
	readers.Add(2)
	go func() {
		defer readers.Done()
		p.readStdout(stdout)
	}()
	go func() {
		defer readers.Done()
		p.readStderr(stderr)
	}()
	go func() {
		// Wait closes the pipes, so it may only run once both readers drained them.
		readers.Wait()
		err := cmd.Wait()
		level.Debug(p.logger).Log("msg", "Worker process exited", "err", err)
		close(p.exited)
	}()

	select {
	case r := <-ready:
		if r.err != nil {
			p.Kill()
			return nil, r.err
		}
		if intField(r.fields, "ready") != 1 {
			p.Kill()
			return nil, NewWorkerError("Couldn't get worker process to ready state", nil)
		}
	case <-ctx.Done():
		p.Kill()
		return nil, NewWorkerError("Worker process ready handshake interrupted", ctx.Err())
	}

	p.mu.Lock()
	if p.state == domain.ProcessSpawning {
		p.state = domain.ProcessReady
	}
	p.mu.Unlock()
	level.Debug(p.logger).Log("msg", "Worker process ready")
	return p, nil
}

func (p *workerProcess) readStdout(stdout io.Reader) {
	dec := json.NewDecoder(stdout)
	for {
		var raw json.RawMessage
		if err := dec.Decode(&raw); err != nil {
			if !errors.Is(err, io.EOF) {
				level.Warn(p.logger).Log("msg", "Worker stdout is not valid JSON", "err", err)
			}
			break
		}
		if len(raw) == 0 || raw[0] != '{' {
			continue
		}
		var fields map[string]json.RawMessage
		if err := json.Unmarshal(raw, &fields); err != nil {
			continue
		}
		p.deliver(checkReply(fields))
	}

	p.mu.Lock()
	p.state = domain.ProcessDead
	p.mu.Unlock()
	p.deliver(nativeReply{err: NewWorkerClosedError("Worker process closed while waiting for response", nil)})
	p.Kill()
}

func (p *workerProcess) readStderr(stderr io.Reader) {
	buf := make([]byte, 4096)
	for {
		n, err := stderr.Read(buf)
		if n > 0 {
			text := strings.TrimSpace(string(buf[:n]))
			level.Warn(p.logger).Log("msg", "Worker process wrote to stderr", "stderr", text)
			p.failInFlight(nativeReply{err: NewWorkerError("Worker process responded with error: "+text, ErrEngineRejected)})
		}
		if err != nil {
			return
		}
	}
}

// deliver hands r to the request in flight, if any. Values arriving with no request pending are dropped.
func (p *workerProcess) deliver(r nativeReply) {
	p.mu.Lock()
	ch := p.pending
	p.pending = nil
	p.mu.Unlock()
	if ch != nil {
		ch <- r
	}
}

// failInFlight hands r to the request in flight and kills the process. The engine may still answer that
// request on stdout, and the late reply would be taken for the answer to the next one.
func (p *workerProcess) failInFlight(r nativeReply) {
	p.mu.Lock()
	ch := p.pending
	p.pending = nil
	if ch != nil {
		p.state = domain.ProcessDead
	}
	p.mu.Unlock()
	if ch == nil {
		return
	}
	ch <- r
	p.Kill()
}

func checkReply(fields map[string]json.RawMessage) nativeReply {
	_, hasStatus := fields["status"]
	_, hasReady := fields["ready"]
	if (hasStatus && intField(fields, "status") == 0) || (hasReady && intField(fields, "ready") == 0) {
		msg := stringField(fields, "message")
		if msg == "" {
			msg = "Unsuccessful return"
		}
		return nativeReply{err: NewWorkerError(msg, ErrEngineRejected)}
	}
	return nativeReply{fields: fields}
}

// call sends one request and waits for its reply. A ctx cancellation kills the process, since a late
// reply would otherwise be taken for the answer to the next request.
func (p *workerProcess) call(ctx context.Context, command string, params map[string]any) (map[string]json.RawMessage, error) {
	if !p.callMu.TryLock() {
		return nil, ErrProcessBusy
	}
	defer p.callMu.Unlock()

	line, err := json.Marshal(nativeRequest{Command: command, Params: params})
	if err != nil {
		return nil, NewInternalServerError("Can't encode worker request", err)
	}

	ch := make(chan nativeReply, 1)
	p.mu.Lock()
	if p.state == domain.ProcessDead {
		p.mu.Unlock()
		return nil, NewWorkerClosedError("Worker process is dead", nil)
	}
	p.pending = ch
	p.state = domain.ProcessBusy
	p.mu.Unlock()

	if _, err := p.stdin.Write(append(line, '\n')); err != nil {
		p.Kill()
		return nil, NewWorkerClosedError("Can't write to worker process", err)
	}

	select {
	case r := <-ch:
		p.mu.Lock()
		if p.state == domain.ProcessBusy {
			p.state = domain.ProcessIdle
		}
		p.mu.Unlock()
		if r.err != nil {
			return nil, fmt.Errorf("%s failed, err: %w", command, r.err)
		}
		return r.fields, nil
	case <-ctx.Done():
		p.Kill()
		return nil, NewWorkerError(fmt.Sprintf("%s interrupted", command), ctx.Err())
	}
}

func (p *workerProcess) PID() int {
	return p.cmd.Process.Pid
}

func (p *workerProcess) State() domain.ProcessState {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.state
}

func (p *workerProcess) Create(ctx context.Context, definition string) error {
	_, err := p.call(ctx, "create", map[string]any{"pipelineDesc": definition})
	return err
}

func (p *workerProcess) Destroy(ctx context.Context) error {
	_, err := p.call(ctx, "destroy", nil)
	return err
}

func (p *workerProcess) NumPoints(ctx context.Context) (int64, error) {
	fields, err := p.call(ctx, "getNumPoints", nil)
	if err != nil {
		return 0, err
	}
	var count int64
	if err := json.Unmarshal(fields["count"], &count); err != nil {
		return 0, NewWorkerError("Worker reply lacks count", err)
	}
	return count, nil
}

func (p *workerProcess) IsValid(ctx context.Context) (bool, error) {
	fields, err := p.call(ctx, "isValid", nil)
	if err != nil {
		return false, err
	}
	var valid bool
	if err := json.Unmarshal(fields["valid"], &valid); err != nil {
		return false, NewWorkerError("Worker reply lacks valid", err)
	}
	return valid, nil
}

func (p *workerProcess) Info(ctx context.Context, kind domain.InfoKind) (json.RawMessage, error) {
	ic, ok := infoCommands[kind]
	if !ok {
		return nil, NewBadParameterError(fmt.Sprintf("Unknown info query %q", kind), nil)
	}
	fields, err := p.call(ctx, ic.command, nil)
	if err != nil {
		return nil, err
	}
	value, ok := fields[ic.field]
	if !ok {
		return nil, NewWorkerError("Worker reply lacks "+ic.field, nil)
	}
	return value, nil
}

// Read asks the process to push the result of query to target. The reply arrives once the read is queued.
func (p *workerProcess) Read(ctx context.Context, query domain.ReadQuery, target domain.ReadTarget) (int64, int64, error) {
	params := make(map[string]any, len(query)+2)
	for k, v := range query {
		params[k] = v
	}
	params["host"] = target.Host
	params["port"] = target.Port

	fields, err := p.call(ctx, "read", params)
	if err != nil {
		return 0, 0, err
	}
	return intField(fields, "numPoints"), intField(fields, "numBytes"), nil
}

// Kill terminates the process. Idempotent.
func (p *workerProcess) Kill() {
	p.killOnce.Do(func() {
		p.mu.Lock()
		p.state = domain.ProcessDead
		p.mu.Unlock()
		_ = p.stdin.Close()
		if p.cmd.Process != nil {
			_ = p.cmd.Process.Kill()
		}
	})
}

func intField(fields map[string]json.RawMessage, name string) int64 {
	raw, ok := fields[name]
	if !ok {
		return 0
	}
	var f float64
	if err := json.Unmarshal(bytes.TrimSpace(raw), &f); err != nil {
		return 0
	}
	return int64(f)
}

func stringField(fields map[string]json.RawMessage, name string) string {
	var s string
	_ = json.Unmarshal(fields[name], &s)
	return s
}
