package service

import (
	"context"
	"encoding/json"
	"io"
	"net"
	"testing"
	"time"

	"mygreyhound/domain"

	"github.com/go-kit/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func spawnHelper(t *testing.T, mode string) *workerProcess {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	p, err := helperSpawner(t, mode)(ctx)
	require.NoError(t, err)
	wp := p.(*workerProcess)
	t.Cleanup(wp.Kill)
	return wp
}

func TestWorkerProcess_Spawn(t *testing.T) {
	ctx := context.Background()

	t.Run("ready_handshake", func(t *testing.T) {
		p := spawnHelper(t, "worker")
		assert.Equal(t, domain.ProcessReady, p.State())
		assert.Positive(t, p.PID())
	})

	t.Run("ready_refused", func(t *testing.T) {
		_, err := helperSpawner(t, "noready")(ctx)
		require.Error(t, err)
		assert.True(t, IsMyError(err, ErrWorkerError))
		assert.Contains(t, err.Error(), "no license")
	})

	t.Run("exit_before_ready", func(t *testing.T) {
		_, err := helperSpawner(t, "exit")(ctx)
		require.Error(t, err)
		assert.True(t, IsWorkerClosedError(err))
	})

	t.Run("bad_executable", func(t *testing.T) {
		_, err := NewNativeSpawner("/nonexistent/native-worker", nil, log.NewNopLogger())(ctx)
		require.Error(t, err)
		assert.True(t, IsMyError(err, ErrWorkerError))
	})
}

func TestWorkerProcess_Commands(t *testing.T) {
	ctx := context.Background()
	p := spawnHelper(t, "worker")

	require.NoError(t, p.Create(ctx, "<Pipeline/>"))
	assert.Equal(t, domain.ProcessIdle, p.State())

	valid, err := p.IsValid(ctx)
	require.NoError(t, err)
	assert.True(t, valid)

	n, err := p.NumPoints(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(helperPoints), n)

	tests := []struct {
		kind domain.InfoKind
		want string
	}{
		{kind: domain.InfoNumPoints, want: `10`},
		{kind: domain.InfoSrs, want: `"EPSG:3857"`},
		{kind: domain.InfoFills, want: `[1,4,16]`},
		{kind: domain.InfoBounds, want: `[0,0,0,1,1,1]`},
		{kind: domain.InfoSerialize, want: `{"pipeline":"<Pipeline/>"}`},
	}
	for _, tt := range tests {
		t.Run(string(tt.kind), func(t *testing.T) {
			got, err := p.Info(ctx, tt.kind)
			require.NoError(t, err)
			assert.JSONEq(t, tt.want, string(got))
		})
	}

	t.Run("unknown_info_kind", func(t *testing.T) {
		_, err := p.Info(ctx, "volume")
		require.Error(t, err)
		assert.True(t, IsBadParameterError(err))
	})

	require.NoError(t, p.Destroy(ctx))
	valid, err = p.IsValid(ctx)
	require.NoError(t, err)
	assert.False(t, valid)
}

func TestWorkerProcess_CreateRejected(t *testing.T) {
	p := spawnHelper(t, "worker")
	err := p.Create(context.Background(), "<invalid/>")
	require.Error(t, err)
	assert.True(t, IsMyError(err, ErrWorkerError))
	assert.Contains(t, err.Error(), "Invalid pipeline")
	// A rejected request leaves the process usable.
	assert.Equal(t, domain.ProcessIdle, p.State())
}

func TestWorkerProcess_Read(t *testing.T) {
	lis, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer lis.Close()

	received := make(chan []byte, 1)
	go func() {
		conn, err := lis.Accept()
		if err != nil {
			return
		}
		defer conn.Close()
		b, _ := io.ReadAll(conn)
		received <- b
	}()

	p := spawnHelper(t, "worker")
	require.NoError(t, p.Create(context.Background(), "<Pipeline/>"))

	port := lis.Addr().(*net.TCPAddr).Port
	numPoints, numBytes, err := p.Read(context.Background(), domain.ReadQuery{"depthBegin": 0}, domain.ReadTarget{Host: "127.0.0.1", Port: port})
	require.NoError(t, err)
	assert.Equal(t, int64(helperPoints), numPoints)
	assert.Equal(t, int64(helperPoints*helperRecordSize), numBytes)

	select {
	case b := <-received:
		assert.Len(t, b, helperPoints*helperRecordSize)
	case <-time.After(5 * time.Second):
		t.Fatal("no data pushed")
	}
}

func TestWorkerProcess_StderrFailsRequest(t *testing.T) {
	p := spawnHelper(t, "stderr")
	_, err := p.NumPoints(context.Background())
	require.Error(t, err)
	assert.True(t, IsMyError(err, ErrWorkerError))
	assert.True(t, IsEngineRejection(err))
	assert.Contains(t, err.Error(), "engine failure")
	assert.Equal(t, domain.ProcessDead, p.State(), "a failed request retires the process")
}

func TestWorkerProcess_LateReplyAfterStderrIsNotReused(t *testing.T) {
	p := spawnHelper(t, "stderrlate")

	_, err := p.NumPoints(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "engine warning")

	// The stdout reply to the failed request must not answer this one.
	_, err = p.NumPoints(context.Background())
	require.Error(t, err)
	assert.True(t, IsWorkerClosedError(err))
}

func TestWorkerProcess_ExitMidRequest(t *testing.T) {
	p := spawnHelper(t, "worker")
	_, err := p.call(context.Background(), "crash", nil)
	require.Error(t, err)
	assert.True(t, IsWorkerClosedError(err))
	assert.Eventually(t, func() bool { return p.State() == domain.ProcessDead }, 5*time.Second, 10*time.Millisecond)

	_, err = p.NumPoints(context.Background())
	require.Error(t, err)
	assert.True(t, IsWorkerClosedError(err))
}

func TestWorkerProcess_SingleInFlight(t *testing.T) {
	p := spawnHelper(t, "worker")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	done := make(chan error, 1)
	go func() {
		_, err := p.call(ctx, "hang", nil)
		done <- err
	}()
	require.Eventually(t, func() bool { return p.State() == domain.ProcessBusy }, 5*time.Second, 5*time.Millisecond)

	_, err := p.NumPoints(context.Background())
	assert.ErrorIs(t, err, ErrProcessBusy)

	// Abandoning the request kills the process: a late reply must not answer the next request.
	cancel()
	err = <-done
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, domain.ProcessDead, p.State())
}

func TestCheckReply(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		wantErr string
	}{
		{name: "status_ok", raw: `{"status":1,"count":3}`},
		{name: "no_status", raw: `{"count":3}`},
		{name: "status_zero", raw: `{"status":0,"message":"boom"}`, wantErr: "boom"},
		{name: "status_zero_no_message", raw: `{"status":0}`, wantErr: "Unsuccessful return"},
		{name: "ready_zero", raw: `{"ready":0}`, wantErr: "Unsuccessful return"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var fields map[string]json.RawMessage
			require.NoError(t, json.Unmarshal([]byte(tt.raw), &fields))
			r := checkReply(fields)
			if tt.wantErr == "" {
				assert.NoError(t, r.err)
				return
			}
			require.Error(t, r.err)
			assert.Contains(t, r.err.Error(), tt.wantErr)
			assert.True(t, IsEngineRejection(r.err))
		})
	}
}
