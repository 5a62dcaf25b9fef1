package adapters

import (
	"context"
	"errors"
	"net"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"

	"mygreyhound/domain"
	"mygreyhound/interfaces/mock"
	"mygreyhound/service"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dbRegistry(t *testing.T, srv *httptest.Server) *mock.RegistryMock {
	t.Helper()
	host, portStr, err := net.SplitHostPort(string(workerAddress(srv)))
	require.NoError(t, err)
	port, err := strconv.Atoi(portStr)
	require.NoError(t, err)
	return &mock.RegistryMock{
		GetFunc: func(ctx context.Context, role domain.Role) ([]domain.ServiceRecord, error) {
			if role != domain.RolePipelineStore {
				return nil, nil
			}
			return []domain.ServiceRecord{{Role: role, InstanceID: "db-1", Host: host, Port: port}}, nil
		},
	}
}

func TestPipelineStoreHTTP_Panics(t *testing.T) {
	t.Run("registry_nil", func(t *testing.T) {
		assert.PanicsWithValue(t, "adapters.pipeline_store_http.go: registry is required", func() {
			PipelineStoreHTTP(nil, &http.Client{})
		})
	})
	t.Run("client_nil", func(t *testing.T) {
		assert.PanicsWithValue(t, "adapters.pipeline_store_http.go: http client is required", func() {
			PipelineStoreHTTP(&mock.RegistryMock{}, nil)
		})
	})
}

func TestPipelineStoreHTTP_PutRetrieve(t *testing.T) {
	rec := &requestRecorder{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rec.record(r)
		w.Header().Set("Content-Type", "application/json")
		switch r.URL.Path {
		case "/put":
			_, _ = w.Write([]byte(`{"id":"abc123"}`))
		case "/retrieve":
			if r.URL.Query().Get("pipelineId") != "abc123" {
				writeErr(w, http.StatusNotFound, service.ErrInvalidPipeline, "Unknown pipeline")
				return
			}
			_, _ = w.Write([]byte(`{"pipeline":"<Pipeline/>"}`))
		}
	}))
	defer srv.Close()

	ctx := context.Background()
	store := PipelineStoreHTTP(dbRegistry(t, srv), srv.Client())

	id, err := store.Put(ctx, "<Pipeline/>")
	require.NoError(t, err)
	assert.Equal(t, domain.PipelineID("abc123"), id)
	assert.Equal(t, http.MethodPut, rec.last().method)
	assert.Equal(t, map[string]any{"pipeline": "<Pipeline/>"}, rec.last().body)

	def, err := store.Retrieve(ctx, "abc123")
	require.NoError(t, err)
	assert.Equal(t, "<Pipeline/>", def)
	assert.Equal(t, "pipelineId=abc123", rec.last().query)

	_, err = store.Retrieve(ctx, "nope")
	require.Error(t, err)
	assert.True(t, service.IsInvalidPipelineError(err))
}

func TestPipelineStoreHTTP_Unavailable(t *testing.T) {
	ctx := context.Background()

	t.Run("no_instance", func(t *testing.T) {
		store := PipelineStoreHTTP(&mock.RegistryMock{}, &http.Client{})
		_, err := store.Put(ctx, "<Pipeline/>")
		assert.True(t, service.IsUnavailableError(err))
	})

	t.Run("registry_error", func(t *testing.T) {
		reg := &mock.RegistryMock{
			GetFunc: func(ctx context.Context, role domain.Role) ([]domain.ServiceRecord, error) {
				return nil, service.NewUnavailableError("redis down", errors.New("dial tcp"))
			},
		}
		_, err := PipelineStoreHTTP(reg, &http.Client{}).Retrieve(ctx, "abc123")
		assert.True(t, service.IsUnavailableError(err))
	})

	t.Run("instance_gone", func(t *testing.T) {
		srv := httptest.NewServer(http.NotFoundHandler())
		reg := dbRegistry(t, srv)
		srv.Close()
		_, err := PipelineStoreHTTP(reg, &http.Client{}).Retrieve(ctx, "abc123")
		assert.True(t, service.IsUnavailableError(err))
	})
}
