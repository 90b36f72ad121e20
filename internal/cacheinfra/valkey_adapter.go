package cacheinfra

import (
	"context"
	"time"

	"github.com/goliatone/go-catalog-cache/cache"
	"github.com/valkey-io/valkey-go"
)

const backendValkey = "valkey"

var (
	_ cache.Store         = (*ValkeyStore)(nil)
	_ cache.PrefixDeleter = (*ValkeyStore)(nil)
	_ cache.Closer        = (*ValkeyStore)(nil)
)

// ValkeyStore implements cache.Store on a Valkey (or Redis compatible) server.
// Expiry is delegated to the server through PX.
type ValkeyStore struct {
	client     valkey.Client
	compressor Compressor
}

// NewValkeyStore connects to cfg.Address and pings it before returning.
func NewValkeyStore(ctx context.Context, cfg RemoteConfig) (*ValkeyStore, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	client, err := valkey.NewClient(valkey.ClientOption{
		InitAddress: []string{cfg.Address},
		Password:    cfg.Password,
		SelectDB:    cfg.DB,
	})
	if err != nil {
		return nil, wrapBackend(err, backendValkey, "connect", "")
	}

	if err := client.Do(ctx, client.B().Ping().Build()).Error(); err != nil {
		client.Close()
		return nil, wrapBackend(err, backendValkey, "ping", "")
	}

	return NewValkeyStoreWithClient(client, CompressorByName(cfg.Compression)), nil
}

// NewValkeyStoreWithClient wraps an existing client. The store takes ownership of it.
func NewValkeyStoreWithClient(client valkey.Client, compressor Compressor) *ValkeyStore {
	if compressor == nil {
		compressor = NoCompression()
	}
	return &ValkeyStore{client: client, compressor: compressor}
}

func (s *ValkeyStore) Get(ctx context.Context, key string) cache.Lookup {
	data, err := s.client.Do(ctx, s.client.B().Get().Key(key).Build()).AsBytes()
	if err != nil {
		if valkey.IsValkeyNil(err) {
			return cache.Miss()
		}
		return cache.Failed(wrapBackend(err, backendValkey, "get", key))
	}

	payload, err := s.compressor.Decode(data)
	if err != nil {
		return cache.Failed(errCorruptPayload(err, backendValkey, key))
	}
	return cache.Hit(payload)
}

func (s *ValkeyStore) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if ttl <= 0 {
		return errNonPositiveTTL(key)
	}

	data, err := s.compressor.Encode(value)
	if err != nil {
		return wrapBackend(err, backendValkey, "compress", key)
	}

	cmd := s.client.B().Set().Key(key).Value(string(data)).Px(ttl).Build()
	if err := s.client.Do(ctx, cmd).Error(); err != nil {
		return wrapBackend(err, backendValkey, "set", key)
	}
	return nil
}

func (s *ValkeyStore) Delete(ctx context.Context, key string) error {
	if err := s.client.Do(ctx, s.client.B().Del().Key(key).Build()).Error(); err != nil {
		return wrapBackend(err, backendValkey, "delete", key)
	}
	return nil
}

// DeletePrefix walks the keyspace with SCAN and deletes every match in batches.
func (s *ValkeyStore) DeletePrefix(ctx context.Context, prefix string) (int, error) {
	removed := 0
	pattern := prefix + "*"
	var cursor uint64

	for {
		if err := ctx.Err(); err != nil {
			return removed, err
		}

		scan, err := s.client.Do(ctx, s.client.B().Scan().Cursor(cursor).Match(pattern).Count(100).Build()).AsScanEntry()
		if err != nil {
			return removed, wrapBackend(err, backendValkey, "scan", pattern)
		}

		if len(scan.Elements) > 0 {
			n, err := s.client.Do(ctx, s.client.B().Del().Key(scan.Elements...).Build()).AsInt64()
			if err != nil {
				return removed, wrapBackend(err, backendValkey, "delete", pattern)
			}
			removed += int(n)
		}

		cursor = scan.Cursor
		if cursor == 0 {
			return removed, nil
		}
	}
}

func (s *ValkeyStore) Close() error {
	s.client.Close()
	return nil
}
