package cacheinfra

import (
	"context"
	"errors"
	"time"

	"github.com/goliatone/go-catalog-cache/cache"
	"github.com/redis/go-redis/v9"
)

const backendRedis = "redis"

var (
	_ cache.Store         = (*RedisStore)(nil)
	_ cache.PrefixDeleter = (*RedisStore)(nil)
	_ cache.Closer        = (*RedisStore)(nil)
)

// RedisStore implements cache.Store with go-redis. Expiry is delegated to the server.
type RedisStore struct {
	client     redis.UniversalClient
	compressor Compressor
}

// NewRedisStore connects to cfg.Address and pings it before returning.
func NewRedisStore(ctx context.Context, cfg RemoteConfig) (*RedisStore, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Address,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, wrapBackend(err, backendRedis, "ping", "")
	}

	return NewRedisStoreWithClient(client, CompressorByName(cfg.Compression)), nil
}

// NewRedisStoreWithClient wraps an existing client. The store takes ownership of it.
func NewRedisStoreWithClient(client redis.UniversalClient, compressor Compressor) *RedisStore {
	if compressor == nil {
		compressor = NoCompression()
	}
	return &RedisStore{client: client, compressor: compressor}
}

func (s *RedisStore) Get(ctx context.Context, key string) cache.Lookup {
	data, err := s.client.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return cache.Miss()
		}
		return cache.Failed(wrapBackend(err, backendRedis, "get", key))
	}

	payload, err := s.compressor.Decode(data)
	if err != nil {
		return cache.Failed(errCorruptPayload(err, backendRedis, key))
	}
	return cache.Hit(payload)
}

func (s *RedisStore) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if ttl <= 0 {
		return errNonPositiveTTL(key)
	}

	data, err := s.compressor.Encode(value)
	if err != nil {
		return wrapBackend(err, backendRedis, "compress", key)
	}

	if err := s.client.Set(ctx, key, data, ttl).Err(); err != nil {
		return wrapBackend(err, backendRedis, "set", key)
	}
	return nil
}

func (s *RedisStore) Delete(ctx context.Context, key string) error {
	if err := s.client.Del(ctx, key).Err(); err != nil {
		return wrapBackend(err, backendRedis, "delete", key)
	}
	return nil
}

// DeletePrefix walks the keyspace with SCAN and deletes every match in batches.
func (s *RedisStore) DeletePrefix(ctx context.Context, prefix string) (int, error) {
	removed := 0
	pattern := prefix + "*"
	var cursor uint64

	for {
		keys, next, err := s.client.Scan(ctx, cursor, pattern, 100).Result()
		if err != nil {
			return removed, wrapBackend(err, backendRedis, "scan", pattern)
		}

		if len(keys) > 0 {
			n, err := s.client.Del(ctx, keys...).Result()
			if err != nil {
				return removed, wrapBackend(err, backendRedis, "delete", pattern)
			}
			removed += int(n)
		}

		cursor = next
		if cursor == 0 {
			return removed, nil
		}
	}
}

func (s *RedisStore) Close() error {
	return s.client.Close()
}
