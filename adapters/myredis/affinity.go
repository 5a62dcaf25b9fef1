package myredis

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"mygreyhound/domain"
	"mygreyhound/helpers"
	"mygreyhound/interfaces"
	"mygreyhound/service"

	"github.com/go-redis/redis/v8"
)

// Key schema of the routing table.
//
//	pipelineIds                        set of pipelines with at least one worker
//	pipelineIds:{pl}                   set of workers hosting pl
//	pipelineIds:{pl}:{sh}              set of sessions bound to (pl, sh)
//	pipelineIds:{pl}:{sh}:touched      unix seconds of the pair's last activity
//	pipelineIds:{pl}:{sh}:{sId}        unix seconds of the session's last activity
//	sessionIds                         set of bound sessions
//	sessionIds:{sId}                   hash {sh, pipelineId}
//	sessionHandlers:{sh}               set of pipelines hosted by sh
const (
	keyPipelineIDs       = "pipelineIds"
	keySessionIDs        = "sessionIds"
	keySessionHandlers   = "sessionHandlers"
	fieldSessionHandler  = "sh"
	fieldSessionPipeline = "pipelineId"
)

// defaultWatchAttempts bounds the WATCH retry loop of GetWorker, DelSession and PurgeWorker.
const defaultWatchAttempts = 3

func pipelineKey(pl domain.PipelineID) string {
	return keyPipelineIDs + ":" + string(pl)
}

func pairKey(pl domain.PipelineID, sh domain.WorkerAddress) string {
	return pipelineKey(pl) + ":" + string(sh)
}

func touchedKey(pl domain.PipelineID, sh domain.WorkerAddress) string {
	return pairKey(pl, sh) + ":touched"
}

func sessionTouchedKey(pl domain.PipelineID, sh domain.WorkerAddress, s domain.SessionID) string {
	return pairKey(pl, sh) + ":" + string(s)
}

func sessionKey(s domain.SessionID) string {
	return keySessionIDs + ":" + string(s)
}

func handlerKey(sh domain.WorkerAddress) string {
	return keySessionHandlers + ":" + string(sh)
}

// affinityStore implements interfaces.AffinityStore on redis. Multi-key updates run in MULTI/EXEC;
// read-check-act sequences WATCH the keys they mutate and abort on a concurrent change.
type affinityStore struct {
	client        redis.UniversalClient
	timeProvider  interfaces.TimeProvider
	watchAttempts int
}

// NewAffinityStore creates the redis routing table. Panics on nil client or timeProvider.
//
// Parameters: client is shared with the registry cache; timeProvider stamps every touch.
//
// Returns: *affinityStore, which implements interfaces.AffinityStore.
//
// Called from cmd/controller.
func NewAffinityStore(client redis.UniversalClient, timeProvider interfaces.TimeProvider) *affinityStore {
	return &affinityStore{
		client:        helpers.NilPanic(client, "adapters.myredis.affinity.go: client is required"),
		timeProvider:  helpers.NilPanic(timeProvider, "adapters.myredis.affinity.go: timeProvider is required"),
		watchAttempts: defaultWatchAttempts,
	}
}

// AddSession applies every membership update of a new binding as one transaction.
func (s *affinityStore) AddSession(ctx context.Context, pl domain.PipelineID, sh domain.WorkerAddress, sessionID domain.SessionID) error {
	now := s.timeProvider.Now().Unix()
	_, err := s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.SAdd(ctx, keyPipelineIDs, string(pl))
		pipe.SAdd(ctx, pipelineKey(pl), string(sh))
		pipe.SAdd(ctx, pairKey(pl, sh), string(sessionID))
		pipe.Set(ctx, touchedKey(pl, sh), now, 0)
		pipe.Set(ctx, sessionTouchedKey(pl, sh, sessionID), now, 0)
		pipe.SAdd(ctx, keySessionIDs, string(sessionID))
		pipe.HSet(ctx, sessionKey(sessionID), fieldSessionHandler, string(sh), fieldSessionPipeline, string(pl))
		pipe.SAdd(ctx, handlerKey(sh), string(pl))
		return nil
	})
	if err != nil {
		return service.NewUnavailableError("Redis add session error", fmt.Errorf("can't bind session '%s' to %s/%s, err: %w", sessionID, pl, sh, err))
	}
	return nil
}

// GetWorker resolves sessionID and refreshes the touched time of the session and its pair. The session
// key is watched so a concurrent DelSession can't leave a touched key behind for a binding that no
// longer exists.
func (s *affinityStore) GetWorker(ctx context.Context, sessionID domain.SessionID) (domain.AffinityBinding, error) {
	var binding domain.AffinityBinding
	key := sessionKey(sessionID)
	err := s.watchRetry(ctx, func(tx *redis.Tx) error {
		pl, sh, err := readSession(ctx, tx, key)
		if err != nil {
			return err
		}
		if sh == "" {
			return service.NewInvalidSessionError("Invalid session", fmt.Errorf("session '%s' is not bound", sessionID))
		}

		now := s.timeProvider.Now()
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, touchedKey(pl, sh), now.Unix(), 0)
			pipe.Set(ctx, sessionTouchedKey(pl, sh, sessionID), now.Unix(), 0)
			return nil
		})
		if err != nil {
			return err
		}

		binding = domain.AffinityBinding{PipelineID: pl, Worker: sh, SessionID: sessionID, LastTouched: now}
		return nil
	}, key)
	if err != nil {
		return domain.AffinityBinding{}, service.NewUnavailableError("Redis get session error", fmt.Errorf("can't resolve session '%s', err: %w", sessionID, err))
	}
	return binding, nil
}

// DelSession removes the session from its pair's session set and drops its reverse mapping.
// The pair itself stays until the idle sweep or a worker purge removes it.
func (s *affinityStore) DelSession(ctx context.Context, sessionID domain.SessionID) error {
	key := sessionKey(sessionID)
	err := s.watchRetry(ctx, func(tx *redis.Tx) error {
		pl, sh, err := readSession(ctx, tx, key)
		if err != nil {
			return err
		}
		if sh == "" {
			return nil
		}

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			queueUnbind(ctx, pipe, pl, sh, sessionID)
			return nil
		})
		return err
	}, key)
	if err != nil {
		return service.NewUnavailableError("Redis delete session error", fmt.Errorf("can't delete session '%s', err: %w", sessionID, err))
	}
	return nil
}

// PipelineLoads returns SCARD of every pair of the pipeline, sorted by worker address.
func (s *affinityStore) PipelineLoads(ctx context.Context, pl domain.PipelineID) ([]domain.WorkerLoad, error) {
	workers, err := s.client.SMembers(ctx, pipelineKey(pl)).Result()
	if err != nil {
		return nil, service.NewUnavailableError("Redis get pipeline workers error", fmt.Errorf("can't list workers of pipeline '%s', err: %w", pl, err))
	}
	if len(workers) == 0 {
		return []domain.WorkerLoad{}, nil
	}
	sort.Strings(workers)

	counts := make([]*redis.IntCmd, len(workers))
	_, err = s.client.Pipelined(ctx, func(pipe redis.Pipeliner) error {
		for i, sh := range workers {
			counts[i] = pipe.SCard(ctx, pairKey(pl, domain.WorkerAddress(sh)))
		}
		return nil
	})
	if err != nil {
		return nil, service.NewUnavailableError("Redis count sessions error", fmt.Errorf("can't count sessions of pipeline '%s', err: %w", pl, err))
	}

	loads := make([]domain.WorkerLoad, len(workers))
	for i, sh := range workers {
		loads[i] = domain.WorkerLoad{Worker: domain.WorkerAddress(sh), Sessions: counts[i].Val()}
	}
	return loads, nil
}

// PurgeWorker removes every pair of sh, one transaction per pipeline.
func (s *affinityStore) PurgeWorker(ctx context.Context, sh domain.WorkerAddress) ([]domain.PipelineWorker, error) {
	pipelines, err := s.client.SMembers(ctx, handlerKey(sh)).Result()
	if err != nil {
		return nil, service.NewUnavailableError("Redis get worker pipelines error", fmt.Errorf("can't list pipelines of worker '%s', err: %w", sh, err))
	}
	sort.Strings(pipelines)

	purged := make([]domain.PipelineWorker, 0, len(pipelines))
	for _, p := range pipelines {
		pl := domain.PipelineID(p)
		var removed domain.PipelineWorker
		err := s.watchRetry(ctx, func(tx *redis.Tx) error {
			var err error
			removed, err = removePair(ctx, tx, pl, sh)
			return err
		}, pairKey(pl, sh), pipelineKey(pl), touchedKey(pl, sh))
		if err != nil {
			return purged, service.NewUnavailableError("Redis purge worker error", fmt.Errorf("can't purge %s/%s, err: %w", pl, sh, err))
		}
		purged = append(purged, removed)
	}

	return purged, nil
}

// ExpireIdle samples one pipeline, then one of its workers, and removes the pair when its touched
// time is older than timeout. The touched key and both membership sets are watched; a concurrent
// change aborts the cycle with service.ErrSweepAborted and discards the queued writes.
func (s *affinityStore) ExpireIdle(ctx context.Context, timeout time.Duration) (*domain.PipelineWorker, error) {
	p, err := s.client.SRandMember(ctx, keyPipelineIDs).Result()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, service.NewUnavailableError("Redis sample pipeline error", fmt.Errorf("can't sample pipelines, err: %w", err))
	}
	pl := domain.PipelineID(p)

	w, err := s.client.SRandMember(ctx, pipelineKey(pl)).Result()
	if err == redis.Nil {
		return nil, s.dropEmptyPipeline(ctx, pl)
	}
	if err != nil {
		return nil, service.NewUnavailableError("Redis sample worker error", fmt.Errorf("can't sample workers of pipeline '%s', err: %w", pl, err))
	}
	sh := domain.WorkerAddress(w)

	var expired *domain.PipelineWorker
	err = s.client.Watch(ctx, func(tx *redis.Tx) error {
		touched, err := tx.Get(ctx, touchedKey(pl, sh)).Int64()
		if err != nil && err != redis.Nil {
			return err
		}
		if s.timeProvider.Now().Unix()-touched <= int64(timeout/time.Second) {
			return nil
		}

		removed, err := removePair(ctx, tx, pl, sh)
		if err != nil {
			return err
		}
		expired = &removed
		return nil
	}, touchedKey(pl, sh), pairKey(pl, sh), pipelineKey(pl))
	if errors.Is(err, redis.TxFailedErr) {
		return nil, fmt.Errorf("expire %s/%s: %w", pl, sh, service.ErrSweepAborted)
	}
	if err != nil {
		return nil, service.NewUnavailableError("Redis expire pair error", fmt.Errorf("can't expire %s/%s, err: %w", pl, sh, err))
	}

	return expired, nil
}

// ExpireSession samples one bound session and unbinds it when its own touched time is older than
// timeout. The session hash and its touched key are watched so a concurrent GetWorker aborts the cycle.
func (s *affinityStore) ExpireSession(ctx context.Context, timeout time.Duration) (*domain.AffinityBinding, error) {
	id, err := s.client.SRandMember(ctx, keySessionIDs).Result()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, service.NewUnavailableError("Redis sample session error", fmt.Errorf("can't sample sessions, err: %w", err))
	}
	sessionID := domain.SessionID(id)
	key := sessionKey(sessionID)

	var expired *domain.AffinityBinding
	err = s.client.Watch(ctx, func(tx *redis.Tx) error {
		pl, sh, err := readSession(ctx, tx, key)
		if err != nil {
			return err
		}
		if sh == "" {
			_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
				pipe.SRem(ctx, keySessionIDs, id)
				return nil
			})
			return err
		}

		stamp := sessionTouchedKey(pl, sh, sessionID)
		if err := tx.Watch(ctx, stamp).Err(); err != nil {
			return err
		}
		touched, err := tx.Get(ctx, stamp).Int64()
		if err != nil && err != redis.Nil {
			return err
		}
		if s.timeProvider.Now().Unix()-touched <= int64(timeout/time.Second) {
			return nil
		}

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			queueUnbind(ctx, pipe, pl, sh, sessionID)
			return nil
		})
		if err != nil {
			return err
		}
		expired = &domain.AffinityBinding{PipelineID: pl, Worker: sh, SessionID: sessionID, LastTouched: time.Unix(touched, 0)}
		return nil
	}, key)
	if errors.Is(err, redis.TxFailedErr) {
		return nil, fmt.Errorf("expire session %s: %w", sessionID, service.ErrSweepAborted)
	}
	if err != nil {
		return nil, service.NewUnavailableError("Redis expire session error", fmt.Errorf("can't expire session '%s', err: %w", sessionID, err))
	}

	return expired, nil
}

// queueUnbind queues the removal of one session binding. The pair keeps its touched time.
func queueUnbind(ctx context.Context, pipe redis.Pipeliner, pl domain.PipelineID, sh domain.WorkerAddress, sessionID domain.SessionID) {
	pipe.SRem(ctx, pairKey(pl, sh), string(sessionID))
	pipe.SRem(ctx, keySessionIDs, string(sessionID))
	pipe.Del(ctx, sessionKey(sessionID), sessionTouchedKey(pl, sh, sessionID))
}

// dropEmptyPipeline removes pl from the pipeline set when it has no worker left.
func (s *affinityStore) dropEmptyPipeline(ctx context.Context, pl domain.PipelineID) error {
	err := s.client.Watch(ctx, func(tx *redis.Tx) error {
		n, err := tx.SCard(ctx, pipelineKey(pl)).Result()
		if err != nil {
			return err
		}
		if n > 0 {
			return nil
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.SRem(ctx, keyPipelineIDs, string(pl))
			return nil
		})
		return err
	}, pipelineKey(pl))
	if errors.Is(err, redis.TxFailedErr) {
		return fmt.Errorf("drop pipeline %s: %w", pl, service.ErrSweepAborted)
	}
	if err != nil {
		return service.NewUnavailableError("Redis drop pipeline error", fmt.Errorf("can't drop pipeline '%s', err: %w", pl, err))
	}
	return nil
}

// removePair queues the removal of the (pl, sh) pair and all of its sessions on a watched tx.
// The pipeline leaves the pipeline set only when sh was its last worker.
func removePair(ctx context.Context, tx *redis.Tx, pl domain.PipelineID, sh domain.WorkerAddress) (domain.PipelineWorker, error) {
	members, err := tx.SMembers(ctx, pairKey(pl, sh)).Result()
	if err != nil {
		return domain.PipelineWorker{}, err
	}
	workers, err := tx.SMembers(ctx, pipelineKey(pl)).Result()
	if err != nil {
		return domain.PipelineWorker{}, err
	}
	lastWorker := len(workers) == 0 || (len(workers) == 1 && workers[0] == string(sh))

	sort.Strings(members)
	sessions := make([]domain.SessionID, len(members))
	for i, m := range members {
		sessions[i] = domain.SessionID(m)
	}

	_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		for _, sessionID := range sessions {
			pipe.Del(ctx, sessionKey(sessionID), sessionTouchedKey(pl, sh, sessionID))
			pipe.SRem(ctx, keySessionIDs, string(sessionID))
		}
		pipe.Del(ctx, pairKey(pl, sh), touchedKey(pl, sh))
		pipe.SRem(ctx, pipelineKey(pl), string(sh))
		pipe.SRem(ctx, handlerKey(sh), string(pl))
		if lastWorker {
			pipe.SRem(ctx, keyPipelineIDs, string(pl))
		}
		return nil
	})
	if err != nil {
		return domain.PipelineWorker{}, err
	}

	return domain.PipelineWorker{PipelineID: pl, Worker: sh, Sessions: sessions}, nil
}

// readSession reads the reverse mapping of a session. Both values are empty when the session is unknown.
func readSession(ctx context.Context, tx *redis.Tx, key string) (domain.PipelineID, domain.WorkerAddress, error) {
	vals, err := tx.HGetAll(ctx, key).Result()
	if err != nil {
		return "", "", err
	}
	sh, pl := vals[fieldSessionHandler], vals[fieldSessionPipeline]
	if sh == "" || pl == "" {
		return "", "", nil
	}
	return domain.PipelineID(pl), domain.WorkerAddress(sh), nil
}

// watchRetry runs fn under WATCH keys, retrying when the transaction is aborted by a concurrent write.
func (s *affinityStore) watchRetry(ctx context.Context, fn func(tx *redis.Tx) error, keys ...string) error {
	var err error
	for attempt := 0; attempt < s.watchAttempts; attempt++ {
		err = s.client.Watch(ctx, fn, keys...)
		if !errors.Is(err, redis.TxFailedErr) {
			return err
		}
	}
	return fmt.Errorf("gave up after %d attempts: %w", s.watchAttempts, err)
}
