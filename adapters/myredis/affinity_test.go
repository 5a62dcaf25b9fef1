package myredis

import (
	"context"
	"sync"
	"testing"
	"time"

	"mygreyhound/domain"
	"mygreyhound/helpers"
	"mygreyhound/interfaces/mock"
	"mygreyhound/service"

	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testClock is a settable clock with an optional hook run on every Now call.
type testClock struct {
	mu   sync.Mutex
	now  time.Time
	hook func()
}

func (c *testClock) provider() *mock.TimeProviderMock {
	return &mock.TimeProviderMock{NowFunc: func() time.Time {
		c.mu.Lock()
		hook := c.hook
		now := c.now
		c.mu.Unlock()
		if hook != nil {
			hook()
		}
		return now
	}}
}

func (c *testClock) set(now time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = now
}

func (c *testClock) setHook(hook func()) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.hook = hook
}

func newTestAffinityStore(t *testing.T) (*affinityStore, redis.UniversalClient, *testClock) {
	t.Helper()
	client, _ := newTestClient(t)
	clock := &testClock{now: helpers.TestNow()}
	return NewAffinityStore(client, clock.provider()), client, clock
}

const (
	plA     domain.PipelineID    = "pl-a"
	plB     domain.PipelineID    = "pl-b"
	workerA domain.WorkerAddress = "10.0.0.1:9001"
	workerB domain.WorkerAddress = "10.0.0.2:9001"
)

func TestNewAffinityStore_Panics(t *testing.T) {
	client, _ := newTestClient(t)
	t.Run("client_nil", func(t *testing.T) {
		assert.PanicsWithValue(t, "adapters.myredis.affinity.go: client is required", func() {
			NewAffinityStore(nil, &mock.TimeProviderMock{})
		})
	})
	t.Run("time_provider_nil", func(t *testing.T) {
		assert.PanicsWithValue(t, "adapters.myredis.affinity.go: timeProvider is required", func() {
			NewAffinityStore(client, nil)
		})
	})
}

func TestAffinityStore_AddSession_GetWorker(t *testing.T) {
	ctx := context.Background()
	store, client, clock := newTestAffinityStore(t)

	require.NoError(t, store.AddSession(ctx, plA, workerA, "s1"))

	t.Run("every key of the binding is written", func(t *testing.T) {
		isMember := func(key, member string) bool {
			ok, err := client.SIsMember(ctx, key, member).Result()
			require.NoError(t, err)
			return ok
		}
		assert.True(t, isMember("pipelineIds", "pl-a"))
		assert.True(t, isMember("pipelineIds:pl-a", "10.0.0.1:9001"))
		assert.True(t, isMember("pipelineIds:pl-a:10.0.0.1:9001", "s1"))
		assert.True(t, isMember("sessionHandlers:10.0.0.1:9001", "pl-a"))

		vals, err := client.HGetAll(ctx, "sessionIds:s1").Result()
		require.NoError(t, err)
		assert.Equal(t, map[string]string{"sh": "10.0.0.1:9001", "pipelineId": "pl-a"}, vals)

		touched, err := client.Get(ctx, "pipelineIds:pl-a:10.0.0.1:9001:touched").Int64()
		require.NoError(t, err)
		assert.Equal(t, helpers.TestNow().Unix(), touched)

		stamp, err := client.Get(ctx, "pipelineIds:pl-a:10.0.0.1:9001:s1").Int64()
		require.NoError(t, err)
		assert.Equal(t, helpers.TestNow().Unix(), stamp)
		assert.True(t, isMember("sessionIds", "s1"))
	})

	t.Run("get worker refreshes touched", func(t *testing.T) {
		later := helpers.TestNow().Add(10 * time.Minute)
		clock.set(later)

		binding, err := store.GetWorker(ctx, "s1")
		require.NoError(t, err)
		assert.Equal(t, domain.AffinityBinding{PipelineID: plA, Worker: workerA, SessionID: "s1", LastTouched: later}, binding)

		touched, err := client.Get(ctx, "pipelineIds:pl-a:10.0.0.1:9001:touched").Int64()
		require.NoError(t, err)
		assert.Equal(t, later.Unix(), touched)

		stamp, err := client.Get(ctx, "pipelineIds:pl-a:10.0.0.1:9001:s1").Int64()
		require.NoError(t, err)
		assert.Equal(t, later.Unix(), stamp)
	})

	t.Run("unknown session returns invalid_session", func(t *testing.T) {
		_, err := store.GetWorker(ctx, "nope")
		require.Error(t, err)
		assert.True(t, service.IsInvalidSessionError(err))
	})
}

func TestAffinityStore_GetWorker_RetriesOnConcurrentWrite(t *testing.T) {
	ctx := context.Background()
	store, client, clock := newTestAffinityStore(t)
	require.NoError(t, store.AddSession(ctx, plA, workerA, "s1"))

	calls := 0
	clock.setHook(func() {
		calls++
		if calls == 1 {
			// Writing the watched key from another connection aborts the first attempt.
			require.NoError(t, client.HSet(ctx, "sessionIds:s1", "note", "rewritten").Err())
		}
	})

	binding, err := store.GetWorker(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, workerA, binding.Worker)
	assert.Equal(t, 2, calls)
}

func TestAffinityStore_DelSession(t *testing.T) {
	ctx := context.Background()
	store, client, _ := newTestAffinityStore(t)
	require.NoError(t, store.AddSession(ctx, plA, workerA, "s1"))
	require.NoError(t, store.AddSession(ctx, plA, workerA, "s2"))

	require.NoError(t, store.DelSession(ctx, "s1"))

	_, err := store.GetWorker(ctx, "s1")
	assert.True(t, service.IsInvalidSessionError(err))
	assert.Equal(t, int64(0), client.Exists(ctx, "pipelineIds:pl-a:10.0.0.1:9001:s1").Val())
	assert.False(t, client.SIsMember(ctx, "sessionIds", "s1").Val())

	loads, err := store.PipelineLoads(ctx, plA)
	require.NoError(t, err)
	assert.Equal(t, []domain.WorkerLoad{{Worker: workerA, Sessions: 1}}, loads)

	t.Run("idempotent", func(t *testing.T) {
		require.NoError(t, store.DelSession(ctx, "s1"))
		require.NoError(t, store.DelSession(ctx, "never-existed"))
	})

	t.Run("last session keeps the pair for reuse", func(t *testing.T) {
		require.NoError(t, store.DelSession(ctx, "s2"))
		loads, err := store.PipelineLoads(ctx, plA)
		require.NoError(t, err)
		assert.Equal(t, []domain.WorkerLoad{{Worker: workerA, Sessions: 0}}, loads)
		assert.True(t, client.SIsMember(ctx, "pipelineIds", "pl-a").Val())
	})
}

func TestAffinityStore_PipelineLoads_CountsMatchBindings(t *testing.T) {
	ctx := context.Background()
	store, _, _ := newTestAffinityStore(t)

	loads, err := store.PipelineLoads(ctx, plA)
	require.NoError(t, err)
	assert.Empty(t, loads)

	var wg sync.WaitGroup
	sessions := []domain.SessionID{"s1", "s2", "s3", "s4", "s5", "s6"}
	for i, s := range sessions {
		worker := workerA
		if i%2 == 1 {
			worker = workerB
		}
		wg.Add(1)
		go func(s domain.SessionID, worker domain.WorkerAddress) {
			defer wg.Done()
			assert.NoError(t, store.AddSession(ctx, plA, worker, s))
		}(s, worker)
	}
	wg.Wait()

	for _, s := range []domain.SessionID{"s1", "s2", "s4"} {
		wg.Add(1)
		go func(s domain.SessionID) {
			defer wg.Done()
			assert.NoError(t, store.DelSession(ctx, s))
		}(s)
	}
	wg.Wait()

	loads, err = store.PipelineLoads(ctx, plA)
	require.NoError(t, err)
	// s3, s5 remain on workerA; s6 on workerB.
	assert.Equal(t, []domain.WorkerLoad{{Worker: workerA, Sessions: 2}, {Worker: workerB, Sessions: 1}}, loads)

	for _, s := range []domain.SessionID{"s3", "s5"} {
		b, err := store.GetWorker(ctx, s)
		require.NoError(t, err)
		assert.Equal(t, workerA, b.Worker)
	}
}

func TestAffinityStore_PurgeWorker(t *testing.T) {
	ctx := context.Background()
	store, client, _ := newTestAffinityStore(t)
	require.NoError(t, store.AddSession(ctx, plA, workerA, "s1"))
	require.NoError(t, store.AddSession(ctx, plA, workerB, "s2"))
	require.NoError(t, store.AddSession(ctx, plB, workerA, "s3"))

	purged, err := store.PurgeWorker(ctx, workerA)
	require.NoError(t, err)
	assert.Equal(t, []domain.PipelineWorker{
		{PipelineID: plA, Worker: workerA, Sessions: []domain.SessionID{"s1"}},
		{PipelineID: plB, Worker: workerA, Sessions: []domain.SessionID{"s3"}},
	}, purged)

	for _, s := range []domain.SessionID{"s1", "s3"} {
		_, err := store.GetWorker(ctx, s)
		assert.True(t, service.IsInvalidSessionError(err))
	}
	b, err := store.GetWorker(ctx, "s2")
	require.NoError(t, err)
	assert.Equal(t, workerB, b.Worker)

	members, err := client.SMembers(ctx, "pipelineIds").Result()
	require.NoError(t, err)
	assert.Equal(t, []string{"pl-a"}, members, "pl-b lost its last worker")
	assert.Equal(t, int64(0), client.Exists(ctx, "sessionHandlers:10.0.0.1:9001").Val())

	t.Run("unknown worker purges nothing", func(t *testing.T) {
		purged, err := store.PurgeWorker(ctx, "10.9.9.9:1")
		require.NoError(t, err)
		assert.Empty(t, purged)
	})
}

func TestAffinityStore_ExpireIdle(t *testing.T) {
	ctx := context.Background()
	timeout := 30 * time.Minute

	t.Run("empty routing table expires nothing", func(t *testing.T) {
		store, _, _ := newTestAffinityStore(t)
		expired, err := store.ExpireIdle(ctx, timeout)
		require.NoError(t, err)
		assert.Nil(t, expired)
	})

	t.Run("touched within timeout is kept", func(t *testing.T) {
		store, _, clock := newTestAffinityStore(t)
		require.NoError(t, store.AddSession(ctx, plA, workerA, "s1"))

		clock.set(helpers.TestNow().Add(20 * time.Minute))
		_, err := store.GetWorker(ctx, "s1")
		require.NoError(t, err)

		clock.set(helpers.TestNow().Add(45 * time.Minute))
		expired, err := store.ExpireIdle(ctx, timeout)
		require.NoError(t, err)
		assert.Nil(t, expired)

		_, err = store.GetWorker(ctx, "s1")
		require.NoError(t, err)
	})

	t.Run("exactly at timeout is kept", func(t *testing.T) {
		store, _, clock := newTestAffinityStore(t)
		require.NoError(t, store.AddSession(ctx, plA, workerA, "s1"))

		clock.set(helpers.TestNow().Add(timeout))
		expired, err := store.ExpireIdle(ctx, timeout)
		require.NoError(t, err)
		assert.Nil(t, expired)
	})

	t.Run("untouched beyond timeout is purged", func(t *testing.T) {
		store, client, clock := newTestAffinityStore(t)
		require.NoError(t, store.AddSession(ctx, plA, workerA, "s1"))
		require.NoError(t, store.AddSession(ctx, plA, workerA, "s2"))

		clock.set(helpers.TestNow().Add(timeout + time.Second))
		expired, err := store.ExpireIdle(ctx, timeout)
		require.NoError(t, err)
		require.NotNil(t, expired)
		assert.Equal(t, domain.PipelineWorker{PipelineID: plA, Worker: workerA, Sessions: []domain.SessionID{"s1", "s2"}}, *expired)

		for _, s := range []domain.SessionID{"s1", "s2"} {
			_, err := store.GetWorker(ctx, s)
			assert.True(t, service.IsInvalidSessionError(err))
		}
		keys, err := client.Keys(ctx, "*").Result()
		require.NoError(t, err)
		assert.Empty(t, keys, "no key of the pair survives")
	})

	t.Run("shrinks the pipeline but keeps it while another worker hosts it", func(t *testing.T) {
		store, client, clock := newTestAffinityStore(t)
		require.NoError(t, store.AddSession(ctx, plA, workerA, "s1"))
		clock.set(helpers.TestNow().Add(timeout))
		require.NoError(t, store.AddSession(ctx, plA, workerB, "s2"))

		// Only workerA is stale; sample until it is picked.
		clock.set(helpers.TestNow().Add(timeout + time.Second))
		var expired *domain.PipelineWorker
		for i := 0; i < 100 && expired == nil; i++ {
			var err error
			expired, err = store.ExpireIdle(ctx, timeout)
			require.NoError(t, err)
		}
		require.NotNil(t, expired)
		assert.Equal(t, workerA, expired.Worker)

		members, err := client.SMembers(ctx, "pipelineIds:pl-a").Result()
		require.NoError(t, err)
		assert.Equal(t, []string{string(workerB)}, members)
		assert.True(t, client.SIsMember(ctx, "pipelineIds", "pl-a").Val())
	})

	t.Run("concurrent touch aborts the sweep", func(t *testing.T) {
		store, client, clock := newTestAffinityStore(t)
		require.NoError(t, store.AddSession(ctx, plA, workerA, "s1"))

		stale := helpers.TestNow().Add(timeout + time.Second)
		clock.set(stale)
		clock.setHook(func() {
			// A live session touches the pair between the sweep's read and its write.
			require.NoError(t, client.Set(ctx, "pipelineIds:pl-a:10.0.0.1:9001:touched", stale.Unix(), 0).Err())
		})

		expired, err := store.ExpireIdle(ctx, timeout)
		require.Error(t, err)
		assert.ErrorIs(t, err, service.ErrSweepAborted)
		assert.Nil(t, expired)

		clock.setHook(nil)
		b, err := store.GetWorker(ctx, "s1")
		require.NoError(t, err)
		assert.Equal(t, workerA, b.Worker)
	})
}

func TestAffinityStore_ExpireSession(t *testing.T) {
	ctx := context.Background()
	timeout := 5 * time.Minute

	t.Run("no session expires nothing", func(t *testing.T) {
		store, _, _ := newTestAffinityStore(t)
		expired, err := store.ExpireSession(ctx, timeout)
		require.NoError(t, err)
		assert.Nil(t, expired)
	})

	t.Run("touched within timeout is kept", func(t *testing.T) {
		store, _, clock := newTestAffinityStore(t)
		require.NoError(t, store.AddSession(ctx, plA, workerA, "s1"))

		clock.set(helpers.TestNow().Add(timeout))
		expired, err := store.ExpireSession(ctx, timeout)
		require.NoError(t, err)
		assert.Nil(t, expired)
	})

	t.Run("abandoned session expires while a sibling keeps the pair warm", func(t *testing.T) {
		store, client, clock := newTestAffinityStore(t)
		require.NoError(t, store.AddSession(ctx, plA, workerA, "abandoned"))
		require.NoError(t, store.AddSession(ctx, plA, workerA, "live"))

		var expired []domain.AffinityBinding
		for hour := 1; hour <= 24; hour++ {
			clock.set(helpers.TestNow().Add(time.Duration(hour) * time.Hour))
			_, err := store.GetWorker(ctx, "live")
			require.NoError(t, err)

			pair, err := store.ExpireIdle(ctx, time.Hour)
			require.NoError(t, err)
			assert.Nil(t, pair, "the pair is touched every hour")

			for i := 0; i < 10; i++ {
				b, err := store.ExpireSession(ctx, timeout)
				require.NoError(t, err)
				if b != nil {
					expired = append(expired, *b)
				}
			}
		}

		require.Len(t, expired, 1)
		assert.Equal(t, domain.SessionID("abandoned"), expired[0].SessionID)
		assert.Equal(t, plA, expired[0].PipelineID)
		assert.Equal(t, workerA, expired[0].Worker)
		assert.True(t, helpers.TestNow().Equal(expired[0].LastTouched))

		_, err := store.GetWorker(ctx, "abandoned")
		assert.True(t, service.IsInvalidSessionError(err))
		b, err := store.GetWorker(ctx, "live")
		require.NoError(t, err)
		assert.Equal(t, workerA, b.Worker)

		loads, err := store.PipelineLoads(ctx, plA)
		require.NoError(t, err)
		assert.Equal(t, []domain.WorkerLoad{{Worker: workerA, Sessions: 1}}, loads)
		members, err := client.SMembers(ctx, "sessionIds").Result()
		require.NoError(t, err)
		assert.Equal(t, []string{"live"}, members)
	})

	t.Run("last session expiring keeps the pair for reuse", func(t *testing.T) {
		store, client, clock := newTestAffinityStore(t)
		require.NoError(t, store.AddSession(ctx, plA, workerA, "s1"))

		clock.set(helpers.TestNow().Add(timeout + time.Second))
		expired, err := store.ExpireSession(ctx, timeout)
		require.NoError(t, err)
		require.NotNil(t, expired)
		assert.Equal(t, domain.SessionID("s1"), expired.SessionID)

		assert.True(t, client.SIsMember(ctx, "pipelineIds:pl-a", string(workerA)).Val())
		assert.Equal(t, int64(1), client.Exists(ctx, "pipelineIds:pl-a:10.0.0.1:9001:touched").Val())
		assert.Equal(t, int64(0), client.Exists(ctx, "sessionIds:s1", "pipelineIds:pl-a:10.0.0.1:9001:s1").Val())
	})

	t.Run("stale member of the session set is dropped", func(t *testing.T) {
		store, client, _ := newTestAffinityStore(t)
		require.NoError(t, client.SAdd(ctx, "sessionIds", "ghost").Err())

		expired, err := store.ExpireSession(ctx, timeout)
		require.NoError(t, err)
		assert.Nil(t, expired)
		assert.False(t, client.SIsMember(ctx, "sessionIds", "ghost").Val())
	})

	t.Run("concurrent touch aborts the sweep", func(t *testing.T) {
		store, client, clock := newTestAffinityStore(t)
		require.NoError(t, store.AddSession(ctx, plA, workerA, "s1"))

		stale := helpers.TestNow().Add(timeout + time.Second)
		clock.set(stale)
		clock.setHook(func() {
			require.NoError(t, client.Set(ctx, "pipelineIds:pl-a:10.0.0.1:9001:s1", stale.Unix(), 0).Err())
		})

		expired, err := store.ExpireSession(ctx, timeout)
		require.Error(t, err)
		assert.ErrorIs(t, err, service.ErrSweepAborted)
		assert.Nil(t, expired)

		clock.setHook(nil)
		_, err = store.GetWorker(ctx, "s1")
		require.NoError(t, err)
	})
}
