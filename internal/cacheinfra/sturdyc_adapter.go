package cacheinfra

import (
	"context"
	"strings"
	"time"

	"github.com/goliatone/go-catalog-cache/cache"
	"github.com/viccon/sturdyc"
)

var (
	_ cache.Store         = (*SturdycStore)(nil)
	_ cache.PrefixDeleter = (*SturdycStore)(nil)
)

// memoryEntry carries its own deadline because sturdyc applies a single TTL per
// client while callers choose one per Set.
type memoryEntry struct {
	value     []byte
	expiresAt time.Time
}

// SturdycStore is an in-process cache.Store backed by a sturdyc client.
type SturdycStore struct {
	client *sturdyc.Client[memoryEntry]
	maxTTL time.Duration
	now    func() time.Time
}

// NewSturdycStore validates cfg and initializes a sturdyc client with it.
//
// Capacity, NumShards, MaxTTL and EvictionPercentage are passed to sturdyc.New();
// EvictionInterval is applied as an option when set.
func NewSturdycStore(cfg MemoryConfig) (*SturdycStore, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	var options []sturdyc.Option
	if cfg.EvictionInterval > 0 {
		options = append(options, sturdyc.WithEvictionInterval(cfg.EvictionInterval))
	}

	client := sturdyc.New[memoryEntry](
		cfg.Capacity,
		cfg.NumShards,
		cfg.MaxTTL,
		cfg.EvictionPercentage,
		options...,
	)

	return &SturdycStore{client: client, maxTTL: cfg.MaxTTL, now: time.Now}, nil
}

// Get returns a hit for live entries. Entries past their own deadline are removed
// and reported as a miss.
func (s *SturdycStore) Get(ctx context.Context, key string) cache.Lookup {
	if err := ctx.Err(); err != nil {
		return cache.Failed(err)
	}

	entry, ok := s.client.Get(key)
	if !ok {
		return cache.Miss()
	}
	if !s.now().Before(entry.expiresAt) {
		s.client.Delete(key)
		return cache.Miss()
	}

	value := make([]byte, len(entry.value))
	copy(value, entry.value)
	return cache.Hit(value)
}

// Set stores a copy of value. TTLs longer than MaxTTL are capped by sturdyc itself.
func (s *SturdycStore) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if ttl <= 0 {
		return errNonPositiveTTL(key)
	}
	if ttl > s.maxTTL {
		ttl = s.maxTTL
	}

	stored := make([]byte, len(value))
	copy(stored, value)
	s.client.Set(key, memoryEntry{value: stored, expiresAt: s.now().Add(ttl)})
	return nil
}

// Delete removes a single entry. Deleting an absent key is not an error.
func (s *SturdycStore) Delete(ctx context.Context, key string) error {
	s.client.Delete(key)
	return nil
}

// DeletePrefix removes all entries whose keys start with prefix.
func (s *SturdycStore) DeletePrefix(ctx context.Context, prefix string) (int, error) {
	removed := 0
	for _, key := range s.client.ScanKeys() {
		if strings.HasPrefix(key, prefix) {
			s.client.Delete(key)
			removed++
		}
	}
	return removed, nil
}

// Keys lists the keys currently held, expired or not.
func (s *SturdycStore) Keys() []string {
	return s.client.ScanKeys()
}
