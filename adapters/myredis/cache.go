package myredis

import (
	"context"
	"fmt"
	"strings"
	"time"

	"mygreyhound/service"

	"github.com/go-redis/redis/v8"
)

type redisCache[T any] struct {
	client    redis.UniversalClient
	prefix    string
	marshal   func(T) ([]byte, error)
	unmarshal func([]byte) (T, error)
	zero      T
}

// NewCache creates redis implementation of generic cache interface. Keys are stored as prefix:key.
//
// Parameters: prefix namespaces the keys; marshal and unmarshal convert T to and from the stored bytes.
//
// Returns: *redisCache[T], which implements interfaces.Cache[T].
//
// Called from runner.NewServiceRecordCache.
func NewCache[T any](client redis.UniversalClient, prefix string, marshal func(T) ([]byte, error), unmarshal func([]byte) (T, error)) *redisCache[T] {
	var zero T
	return &redisCache[T]{
		client:    client,
		prefix:    prefix,
		zero:      zero,
		marshal:   marshal,
		unmarshal: unmarshal,
	}
}

func (r *redisCache[T]) WriteValue(ctx context.Context, key string, item T, ttl time.Duration) error {
	bytes, err := r.marshal(item)
	if err != nil {
		return service.NewInternalServerError("Redis marshal item error", fmt.Errorf("can't marshal item of type %T, err: %w", item, err))
	}

	err = r.client.Set(ctx, r.generateKey(key), bytes, ttl).Err()
	if err != nil {
		return service.NewUnavailableError("Redis write key error", fmt.Errorf("can't write item of type %T to redis (key='%s'), err: %w", item, key, err))
	}

	return nil
}

func (r *redisCache[T]) DeleteValue(ctx context.Context, key string) error {
	err := r.client.Del(ctx, r.generateKey(key)).Err()
	if err != nil {
		return service.NewUnavailableError("Redis delete key error", fmt.Errorf("can't delete item of type %T from redis (key='%s'), err: %w", r.zero, key, err))
	}
	return nil
}

// ListValues lists the keys under prefix:keyPrefix then fetches their values. Keys that expire
// between the listing and the fetch are skipped.
func (r *redisCache[T]) ListValues(ctx context.Context, keyPrefix string) ([]T, error) {
	fullKeys, err := r.client.Keys(ctx, r.generateKey(keyPrefix)+"*").Result()
	if err != nil {
		return nil, service.NewUnavailableError("Redis get keys error", fmt.Errorf("redis get keys error, err: %w", err))
	}

	prefixWithColon := r.prefix + ":"
	items := make([]T, 0, len(fullKeys))
	for _, k := range fullKeys {
		if !strings.HasPrefix(k, prefixWithColon) {
			continue
		}

		bytes, err := r.client.Get(ctx, k).Bytes()
		if err == redis.Nil {
			continue
		}
		if err != nil {
			return nil, service.NewUnavailableError("Redis get key error", fmt.Errorf("can't read item of type %T from redis (key='%s'), err: %w", r.zero, k, err))
		}

		item, err := r.unmarshal(bytes)
		if err != nil {
			continue
		}

		items = append(items, item)
	}

	return items, nil
}

func (r *redisCache[T]) generateKey(key string) string {
	return r.prefix + ":" + key
}
