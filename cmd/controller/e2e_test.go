package main

import (
	"context"
	"encoding/json"
	"net"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"mygreyhound/adapters"
	"mygreyhound/adapters/mybadger"
	"mygreyhound/api"
	"mygreyhound/cmd/internal/runner"
	"mygreyhound/domain"
	"mygreyhound/handlers"
	"mygreyhound/interfaces"
	"mygreyhound/interfaces/mock"
	"mygreyhound/service"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-kit/log"
	"github.com/go-redis/redis/v8"
	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	e2ePoints   = 10
	e2ePayload  = e2ePoints * 12
	e2ePipeline = `{"pipeline":[{"type":"readers.las","filename":"autzen.laz"}]}`
)

// fakeEngine is a native process that accepts every definition not containing "invalid" and pushes
// e2ePayload bytes on read.
func fakeEngine(spawned *atomic.Int32) service.SpawnFunc {
	return func(ctx context.Context) (interfaces.WorkerProcess, error) {
		spawned.Add(1)
		return &mock.WorkerProcessMock{
			StateFunc: func() domain.ProcessState { return domain.ProcessIdle },
			CreateFunc: func(ctx context.Context, definition string) error {
				if strings.Contains(definition, "invalid") {
					return service.NewWorkerError("Invalid pipeline", nil)
				}
				return nil
			},
			IsValidFunc: func(ctx context.Context) (bool, error) { return true, nil },
			InfoFunc: func(ctx context.Context, kind domain.InfoKind) (json.RawMessage, error) {
				if kind == domain.InfoNumPoints {
					return json.RawMessage(strconv.Itoa(e2ePoints)), nil
				}
				return json.RawMessage(`"EPSG:3857"`), nil
			},
			ReadFunc: func(ctx context.Context, query domain.ReadQuery, target domain.ReadTarget) (int64, int64, error) {
				go func() {
					conn, err := net.Dial("tcp", net.JoinHostPort(target.Host, strconv.Itoa(target.Port)))
					if err != nil {
						return
					}
					defer conn.Close()
					_, _ = conn.Write(make([]byte, e2ePayload))
				}()
				return e2ePoints, e2ePayload, nil
			},
		}, nil
	}
}

func serverPort(t *testing.T, srv *httptest.Server) int {
	t.Helper()
	return srv.Listener.Addr().(*net.TCPAddr).Port
}

// deployment runs one pipeline store, one session handler and the controller front door in-process.
type deployment struct {
	ws      *websocket.Conn
	spawned atomic.Int32
}

func deploy(t *testing.T) *deployment {
	t.Helper()
	ctx := context.Background()
	logger := log.NewNopLogger()
	d := &deployment{}

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	registry := service.NewRegistry(runner.NewServiceRecordCache(client), "127.0.0.1", logger)

	// db
	db, err := mybadger.OpenDB("", logger)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	storeAPI, err := handlers.OpenAPIValidator(api.PipelineStore)
	require.NoError(t, err)
	storeEcho := echo.New()
	service.RegisterErrorHandler(storeEcho, logger)
	storeEcho.Use(storeAPI)
	handlers.RegisterPipelineStoreRoutes(storeEcho, handlers.NewPipelineStoreServer(mybadger.NewPipelineStore(db), logger))
	storeSrv := httptest.NewServer(storeEcho)
	t.Cleanup(storeSrv.Close)
	dbRecord, err := registry.Register(ctx, domain.RolePipelineStore, serverPort(t, storeSrv))
	require.NoError(t, err)
	t.Cleanup(func() { _ = registry.Unregister(ctx, dbRecord) })

	// sh
	resources := service.NewResourceManager(service.NewProcessPool(fakeEngine(&d.spawned), logger, nil), logger)
	t.Cleanup(resources.Close)
	shAPI, err := handlers.OpenAPIValidator(api.SessionHandler)
	require.NoError(t, err)
	shEcho := echo.New()
	service.RegisterErrorHandler(shEcho, logger)
	shEcho.Use(shAPI)
	handlers.RegisterSessionHandlerRoutes(shEcho, handlers.NewSessionHandlerServer(resources, logger))
	shSrv := httptest.NewServer(shEcho)
	t.Cleanup(shSrv.Close)
	shRecord, err := registry.Register(ctx, domain.RoleSessionHandler, serverPort(t, shSrv))
	require.NoError(t, err)
	t.Cleanup(func() { _ = registry.Unregister(ctx, shRecord) })

	// ws
	config := defaultConfig()
	front := newFrontDoor(&config, client, registry, adapters.SessionHandlerHTTP(&http.Client{Timeout: 10 * time.Second}, logger), nil, logger)
	wsEcho := echo.New()
	handlers.RegisterWebSocketRoutes(wsEcho, front.ws)
	wsSrv := httptest.NewServer(wsEcho)
	t.Cleanup(wsSrv.Close)

	d.ws, _, err = websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(wsSrv.URL, "http"), nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = d.ws.Close() })
	return d
}

func (d *deployment) next(t *testing.T) (int, []byte) {
	t.Helper()
	require.NoError(t, d.ws.SetReadDeadline(time.Now().Add(10*time.Second)))
	typ, data, err := d.ws.ReadMessage()
	require.NoError(t, err)
	return typ, data
}

func (d *deployment) command(t *testing.T, request map[string]any) map[string]any {
	t.Helper()
	require.NoError(t, d.ws.WriteJSON(request))
	typ, data := d.next(t)
	require.Equal(t, websocket.TextMessage, typ)
	var reply map[string]any
	require.NoError(t, json.Unmarshal(data, &reply))
	return reply
}

func TestEndToEnd_PutCreateReadDestroy(t *testing.T) {
	d := deploy(t)

	put := d.command(t, map[string]any{"command": "put", "pipeline": e2ePipeline})
	require.Equal(t, float64(1), put["status"], put)
	pipelineID, _ := put["pipelineId"].(string)
	assert.Equal(t, mybadger.PipelineID(e2ePipeline), domain.PipelineID(pipelineID))

	again := d.command(t, map[string]any{"command": "put", "pipeline": e2ePipeline})
	assert.Equal(t, pipelineID, again["pipelineId"], "identical definitions share an id")

	create := d.command(t, map[string]any{"command": "create", "pipelineId": pipelineID})
	require.Equal(t, float64(1), create["status"], create)
	session, _ := create["session"].(string)
	assert.Len(t, session, 64)

	numPoints := d.command(t, map[string]any{"command": "numPoints", "session": session})
	require.Equal(t, float64(1), numPoints["status"], numPoints)
	assert.Equal(t, float64(e2ePoints), numPoints["numPoints"])

	read := d.command(t, map[string]any{"command": "read", "session": session, "summary": true})
	require.Equal(t, float64(1), read["status"], read)
	assert.Equal(t, float64(e2ePayload), read["numBytes"])
	readID := read["readId"]

	received := 0
	for received < e2ePayload {
		typ, data := d.next(t)
		require.Equal(t, websocket.BinaryMessage, typ)
		received += len(data)
	}
	assert.Equal(t, e2ePayload, received)

	typ, data := d.next(t)
	require.Equal(t, websocket.TextMessage, typ)
	var summary map[string]any
	require.NoError(t, json.Unmarshal(data, &summary))
	assert.Equal(t, "summary", summary["command"])
	assert.Equal(t, float64(1), summary["status"])
	assert.Equal(t, readID, summary["readId"])
	assert.Equal(t, float64(e2ePayload), summary["numBytes"])

	destroy := d.command(t, map[string]any{"command": "destroy", "session": session})
	require.Equal(t, float64(1), destroy["status"], destroy)

	gone := d.command(t, map[string]any{"command": "numPoints", "session": session})
	assert.Equal(t, float64(0), gone["status"])
	assert.NotEmpty(t, gone["reason"])

	// Validation returns its scratch process to the pool, which the session then reuses.
	assert.LessOrEqual(t, d.spawned.Load(), int32(2))
}

func TestEndToEnd_Errors(t *testing.T) {
	d := deploy(t)

	invalid := d.command(t, map[string]any{"command": "put", "pipeline": `{"invalid":true}`})
	assert.Equal(t, float64(0), invalid["status"])
	assert.Equal(t, "Invalid pipeline", invalid["reason"])

	unknown := d.command(t, map[string]any{"command": "create", "pipelineId": "0000"})
	assert.Equal(t, float64(0), unknown["status"])
	assert.NotEmpty(t, unknown["reason"])

	session := d.command(t, map[string]any{"command": "schema", "session": "nope"})
	assert.Equal(t, float64(0), session["status"])

	cancel := d.command(t, map[string]any{"command": "cancel", "session": "nope", "readId": 1})
	assert.Equal(t, float64(1), cancel["status"])
	assert.Equal(t, false, cancel["cancelled"])
}
