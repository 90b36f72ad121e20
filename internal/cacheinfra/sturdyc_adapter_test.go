package cacheinfra

import (
	"context"
	"sort"
	"testing"
	"time"

	"github.com/goliatone/go-catalog-cache/cache"
	goerrors "github.com/goliatone/go-errors"
)

func TestDefaultMemoryConfig(t *testing.T) {
	cfg := DefaultMemoryConfig()

	if cfg.Capacity != 10000 {
		t.Errorf("expected Capacity to be 10000, got %d", cfg.Capacity)
	}

	if cfg.NumShards != 256 {
		t.Errorf("expected NumShards to be 256, got %d", cfg.NumShards)
	}

	if cfg.MaxTTL != time.Hour {
		t.Errorf("expected MaxTTL to be one hour, got %v", cfg.MaxTTL)
	}

	if cfg.EvictionPercentage != 10 {
		t.Errorf("expected EvictionPercentage to be 10, got %d", cfg.EvictionPercentage)
	}
}

func TestMemoryConfig_Validate(t *testing.T) {
	tests := []struct {
		name      string
		mutate    func(*MemoryConfig)
		wantError bool
		field     string
	}{
		{name: "valid default config", mutate: func(c *MemoryConfig) {}},
		{name: "zero capacity", mutate: func(c *MemoryConfig) { c.Capacity = 0 }, wantError: true, field: "Capacity"},
		{name: "negative shards", mutate: func(c *MemoryConfig) { c.NumShards = -1 }, wantError: true, field: "NumShards"},
		{name: "zero ttl", mutate: func(c *MemoryConfig) { c.MaxTTL = 0 }, wantError: true, field: "MaxTTL"},
		{name: "eviction over 100", mutate: func(c *MemoryConfig) { c.EvictionPercentage = 101 }, wantError: true, field: "EvictionPercentage"},
		{name: "negative eviction interval", mutate: func(c *MemoryConfig) { c.EvictionInterval = -time.Second }, wantError: true, field: "EvictionInterval"},
		{name: "eviction interval", mutate: func(c *MemoryConfig) { c.EvictionInterval = time.Minute }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultMemoryConfig()
			tt.mutate(&cfg)

			err := cfg.Validate()
			if !tt.wantError {
				if err != nil {
					t.Fatalf("expected no error, got %v", err)
				}
				return
			}

			if err == nil {
				t.Fatalf("expected error for %s", tt.field)
			}
			if !goerrors.IsValidation(err) {
				t.Errorf("expected validation error, got %v", err)
			}
		})
	}
}

func newTestSturdycStore(t *testing.T) (*SturdycStore, *time.Time) {
	t.Helper()

	store, err := NewSturdycStore(DefaultMemoryConfig())
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}

	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	store.now = func() time.Time { return now }
	return store, &now
}

func TestNewSturdycStore_InvalidConfig(t *testing.T) {
	cfg := DefaultMemoryConfig()
	cfg.Capacity = 0

	store, err := NewSturdycStore(cfg)
	if err == nil {
		t.Fatal("expected error for invalid config")
	}
	if store != nil {
		t.Error("expected nil store on error")
	}
}

func TestSturdycStore_SetGet(t *testing.T) {
	store, _ := newTestSturdycStore(t)
	ctx := context.Background()

	if res := store.Get(ctx, "movie_1"); res.Status != cache.StatusMiss {
		t.Fatalf("expected miss before set, got %s", res.Status)
	}

	payload := []byte(`{"id":1}`)
	if err := store.Set(ctx, "movie_1", payload, time.Minute); err != nil {
		t.Fatalf("set failed: %v", err)
	}

	payload[0] = 'X'

	res := store.Get(ctx, "movie_1")
	if !res.IsHit() {
		t.Fatalf("expected hit, got %s", res.Status)
	}
	if string(res.Value) != `{"id":1}` {
		t.Errorf("expected stored copy to be isolated from caller, got %s", res.Value)
	}
}

func TestSturdycStore_EntryExpires(t *testing.T) {
	store, now := newTestSturdycStore(t)
	ctx := context.Background()

	if err := store.Set(ctx, "genre_3", []byte(`{"id":3}`), time.Minute); err != nil {
		t.Fatalf("set failed: %v", err)
	}

	*now = now.Add(30 * time.Second)
	if res := store.Get(ctx, "genre_3"); !res.IsHit() {
		t.Fatalf("expected hit before expiry, got %s", res.Status)
	}

	*now = now.Add(31 * time.Second)
	if res := store.Get(ctx, "genre_3"); res.Status != cache.StatusMiss {
		t.Fatalf("expected miss after expiry, got %s", res.Status)
	}

	for _, key := range store.Keys() {
		if key == "genre_3" {
			t.Error("expected expired entry to be removed")
		}
	}
}

func TestSturdycStore_TTLCappedByMaxTTL(t *testing.T) {
	store, now := newTestSturdycStore(t)
	ctx := context.Background()

	if err := store.Set(ctx, "actor_1", []byte(`{}`), 48*time.Hour); err != nil {
		t.Fatalf("set failed: %v", err)
	}

	*now = now.Add(time.Hour + time.Second)
	if res := store.Get(ctx, "actor_1"); res.Status != cache.StatusMiss {
		t.Errorf("expected entry to expire at MaxTTL, got %s", res.Status)
	}
}

func TestSturdycStore_SetRejectsNonPositiveTTL(t *testing.T) {
	store, _ := newTestSturdycStore(t)

	err := store.Set(context.Background(), "movie_1", []byte(`{}`), 0)
	if err == nil {
		t.Fatal("expected error for zero ttl")
	}
	if !goerrors.IsCategory(err, goerrors.CategoryBadInput) {
		t.Errorf("expected bad input category, got %v", err)
	}
}

func TestSturdycStore_CancelledContext(t *testing.T) {
	store, _ := newTestSturdycStore(t)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if res := store.Get(ctx, "movie_1"); res.Status != cache.StatusError {
		t.Errorf("expected error lookup for cancelled context, got %s", res.Status)
	}
	if err := store.Set(ctx, "movie_1", []byte(`{}`), time.Minute); err == nil {
		t.Error("expected set to fail for cancelled context")
	}
}

func TestSturdycStore_Delete(t *testing.T) {
	store, _ := newTestSturdycStore(t)
	ctx := context.Background()

	if err := store.Delete(ctx, "missing"); err != nil {
		t.Fatalf("deleting an absent key should not fail: %v", err)
	}

	_ = store.Set(ctx, "movie_2", []byte(`{}`), time.Minute)
	if err := store.Delete(ctx, "movie_2"); err != nil {
		t.Fatalf("delete failed: %v", err)
	}
	if res := store.Get(ctx, "movie_2"); res.Status != cache.StatusMiss {
		t.Errorf("expected miss after delete, got %s", res.Status)
	}

	if err := store.Delete(ctx, "movie_2"); err != nil {
		t.Errorf("second delete should be idempotent: %v", err)
	}
}

func TestSturdycStore_DeletePrefix(t *testing.T) {
	store, _ := newTestSturdycStore(t)
	ctx := context.Background()

	keys := []string{
		"movie_page_1_limit_20",
		"movie_page_2_limit_20",
		"movie_1",
		"actor_page_1_limit_20",
	}
	for _, key := range keys {
		if err := store.Set(ctx, key, []byte(`[]`), time.Minute); err != nil {
			t.Fatalf("set %s failed: %v", key, err)
		}
	}

	removed, err := store.DeletePrefix(ctx, "movie_page_")
	if err != nil {
		t.Fatalf("delete prefix failed: %v", err)
	}
	if removed != 2 {
		t.Errorf("expected 2 removed keys, got %d", removed)
	}

	remaining := store.Keys()
	sort.Strings(remaining)
	want := []string{"actor_page_1_limit_20", "movie_1"}
	if len(remaining) != len(want) {
		t.Fatalf("expected %v, got %v", want, remaining)
	}
	for i := range want {
		if remaining[i] != want[i] {
			t.Errorf("expected %v, got %v", want, remaining)
		}
	}
}
