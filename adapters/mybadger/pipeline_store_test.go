package mybadger

import (
	"context"
	"testing"

	"mygreyhound/service"

	"github.com/go-kit/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T, dir string) *pipelineStore {
	t.Helper()
	db, err := OpenDB(dir, log.NewNopLogger())
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return NewPipelineStore(db)
}

func TestNewPipelineStore_Panics(t *testing.T) {
	assert.PanicsWithValue(t, "mybadger.pipeline_store.go: db is required", func() {
		NewPipelineStore(nil)
	})
}

func TestPipelineID(t *testing.T) {
	id := PipelineID("<Pipeline/>")
	assert.Len(t, id, 64)
	assert.Equal(t, id, PipelineID("<Pipeline/>"))
	assert.NotEqual(t, id, PipelineID("<Pipeline />"))
	// sha256 of the empty string.
	assert.Equal(t, "e3b0c44298fc1c149afbf4c8996fb92427ae41e4649b934ca495991b7852b855", string(PipelineID("")))
}

func TestPipelineStore_PutRetrieve(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t, "")

	id, err := store.Put(ctx, "<Pipeline/>")
	require.NoError(t, err)
	assert.Equal(t, PipelineID("<Pipeline/>"), id)

	again, err := store.Put(ctx, "<Pipeline/>")
	require.NoError(t, err)
	assert.Equal(t, id, again, "same definition, same id")

	def, err := store.Retrieve(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "<Pipeline/>", def)

	t.Run("unknown", func(t *testing.T) {
		_, err := store.Retrieve(ctx, "deadbeef")
		require.Error(t, err)
		assert.True(t, service.IsInvalidPipelineError(err))
	})

	t.Run("empty_definition", func(t *testing.T) {
		_, err := store.Put(ctx, "")
		assert.True(t, service.IsBadParameterError(err))
	})
}

func TestPipelineStore_Persists(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	db, err := OpenDB(dir, log.NewNopLogger())
	require.NoError(t, err)
	id, err := NewPipelineStore(db).Put(ctx, "<Pipeline>persist</Pipeline>")
	require.NoError(t, err)
	require.NoError(t, db.Close())

	reopened := newTestStore(t, dir)
	def, err := reopened.Retrieve(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "<Pipeline>persist</Pipeline>", def)
}
