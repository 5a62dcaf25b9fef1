package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"mygreyhound/api"
	"mygreyhound/domain"
	"mygreyhound/interfaces/mock"
	"mygreyhound/service"

	"github.com/go-kit/log"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newSessionHandlerEcho(t *testing.T, resources *mock.ResourceManagerMock) *echo.Echo {
	t.Helper()
	e := echo.New()
	service.RegisterErrorHandler(e, log.NewNopLogger())
	validator, err := OpenAPIValidator(api.SessionHandler)
	require.NoError(t, err)
	e.Use(validator)
	RegisterSessionHandlerRoutes(e, NewSessionHandlerServer(resources, log.NewNopLogger()))
	return e
}

func serve(e *echo.Echo, method, target, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func errorCode(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var er struct {
		Error struct {
			Code string `json:"code"`
		} `json:"error"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &er), rec.Body.String())
	return er.Error.Code
}

func TestNewSessionHandlerServer_Panics(t *testing.T) {
	t.Run("resources_nil", func(t *testing.T) {
		assert.PanicsWithValue(t, "handlers.session_handler_http.go: resources is required", func() {
			NewSessionHandlerServer(nil, log.NewNopLogger())
		})
	})
	t.Run("logger_nil", func(t *testing.T) {
		assert.PanicsWithValue(t, "handlers.session_handler_http.go: logger is required", func() {
			NewSessionHandlerServer(&mock.ResourceManagerMock{}, nil)
		})
	})
}

func TestSessionHandlerServer_Create(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		createErr  error
		wantStatus int
		wantCode   string
		wantCalls  int
	}{
		{
			name:       "ok",
			body:       `{"pipelineId":"p1","pipeline":"<Pipeline/>","sessionId":"s1"}`,
			wantStatus: http.StatusOK,
			wantCalls:  1,
		},
		{
			name:       "missing_session_id",
			body:       `{"pipelineId":"p1","pipeline":"<Pipeline/>"}`,
			wantStatus: http.StatusBadRequest,
			wantCode:   service.ErrBadParameter,
		},
		{
			name:       "invalid_json",
			body:       `{invalid`,
			wantStatus: http.StatusBadRequest,
			wantCode:   service.ErrBadParameter,
		},
		{
			name:       "engine_rejects",
			body:       `{"pipelineId":"p1","pipeline":"<invalid/>","sessionId":"s1"}`,
			createErr:  service.NewWorkerError("Invalid pipeline", nil),
			wantStatus: http.StatusBadGateway,
			wantCode:   service.ErrWorkerError,
			wantCalls:  1,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rm := &mock.ResourceManagerMock{
				CreateFunc: func(ctx context.Context, pipelineID domain.PipelineID, definition string, sessionID domain.SessionID) error {
					assert.Equal(t, domain.PipelineID("p1"), pipelineID)
					assert.Equal(t, domain.SessionID("s1"), sessionID)
					return tt.createErr
				},
			}
			rec := serve(newSessionHandlerEcho(t, rm), http.MethodPost, "/create", tt.body)
			assert.Equal(t, tt.wantStatus, rec.Code, rec.Body.String())
			assert.Len(t, rm.CreateCalls(), tt.wantCalls)
			if tt.wantCode != "" {
				assert.Equal(t, tt.wantCode, errorCode(t, rec))
			}
		})
	}
}

func TestSessionHandlerServer_Info(t *testing.T) {
	rm := &mock.ResourceManagerMock{
		InfoFunc: func(ctx context.Context, sessionID domain.SessionID, kind domain.InfoKind) (json.RawMessage, error) {
			if sessionID != "s1" {
				return nil, service.NewInvalidSessionError("Unknown session", nil)
			}
			switch kind {
			case domain.InfoSrs:
				return json.RawMessage(`"EPSG:3857"`), nil
			case domain.InfoNumPoints:
				return json.RawMessage(`10`), nil
			}
			return json.RawMessage(`null`), nil
		},
	}
	e := newSessionHandlerEcho(t, rm)

	rec := serve(e, http.MethodGet, "/srs/s1", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"srs":"EPSG:3857"}`, rec.Body.String())

	rec = serve(e, http.MethodGet, "/numPoints/s1", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"numPoints":10}`, rec.Body.String())

	rec = serve(e, http.MethodGet, "/schema/unknown", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, service.ErrInvalidSession, errorCode(t, rec))
}

func TestSessionHandlerServer_Read(t *testing.T) {
	rm := &mock.ResourceManagerMock{
		ReadFunc: func(ctx context.Context, sessionID domain.SessionID, query domain.ReadQuery, target domain.ReadTarget) (domain.ReadAck, error) {
			return domain.ReadAck{ReadID: 1, NumPoints: 10, NumBytes: 120, Message: "queued"}, nil
		},
	}
	e := newSessionHandlerEcho(t, rm)

	rec := serve(e, http.MethodPost, "/read/s1", `{"host":"10.0.0.5","port":4100,"depthEnd":8}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.JSONEq(t, `{"readId":1,"numPoints":10,"numBytes":120,"message":"queued"}`, rec.Body.String())
	require.Len(t, rm.ReadCalls(), 1)
	call := rm.ReadCalls()[0]
	assert.Equal(t, domain.SessionID("s1"), call.SessionID)
	assert.Equal(t, domain.ReadTarget{Host: "10.0.0.5", Port: 4100}, call.Target)
	assert.Equal(t, domain.ReadQuery{"depthEnd": float64(8)}, call.Query)

	rec = serve(e, http.MethodPost, "/read/s1", `{"host":"10.0.0.5"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Len(t, rm.ReadCalls(), 1)
}

func TestSessionHandlerServer_Lifecycle(t *testing.T) {
	rm := &mock.ResourceManagerMock{
		ValidateFunc: func(ctx context.Context, definition string) (bool, error) {
			return definition == "<Pipeline/>", nil
		},
	}
	e := newSessionHandlerEcho(t, rm)

	rec := serve(e, http.MethodPost, "/validate", `{"pipeline":"<Pipeline/>"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"valid":true}`, rec.Body.String())

	rec = serve(e, http.MethodPost, "/validate", `{"pipeline":"<other/>"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"valid":false}`, rec.Body.String())

	rec = serve(e, http.MethodDelete, "/sessions/s1", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	require.Len(t, rm.DeleteSessionCalls(), 1)
	assert.Equal(t, domain.SessionID("s1"), rm.DeleteSessionCalls()[0].SessionID)

	rec = serve(e, http.MethodDelete, "/resources/p1", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	require.Len(t, rm.DestroyResourceCalls(), 1)
	assert.Equal(t, domain.PipelineID("p1"), rm.DestroyResourceCalls()[0].PipelineID)

	rec = serve(e, http.MethodGet, "/nowhere", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
