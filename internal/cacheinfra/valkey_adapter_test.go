package cacheinfra

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/goliatone/go-catalog-cache/cache"
	"github.com/google/uuid"
)

// newTestValkeyStore connects to the server in VALKEY_ADDR and skips otherwise.
// Keys are namespaced per test so parallel runs against one server do not collide.
func newTestValkeyStore(t *testing.T, compression string) (*ValkeyStore, string) {
	t.Helper()

	addr := os.Getenv("VALKEY_ADDR")
	if addr == "" {
		t.Skip("VALKEY_ADDR not set")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	store, err := NewValkeyStore(ctx, RemoteConfig{Address: addr, Compression: compression})
	if err != nil {
		t.Fatalf("failed to connect to valkey at %s: %v", addr, err)
	}

	ns := "test-" + uuid.NewString() + ":"
	t.Cleanup(func() {
		_, _ = store.DeletePrefix(context.Background(), ns)
		_ = store.Close()
	})
	return store, ns
}

func TestValkeyStore_SetGetDelete(t *testing.T) {
	for _, compression := range []string{CompressionNone, CompressionS2, CompressionZstd} {
		t.Run(compression, func(t *testing.T) {
			store, ns := newTestValkeyStore(t, compression)
			ctx := context.Background()
			key := ns + "movie_1"

			if res := store.Get(ctx, key); res.Status != cache.StatusMiss {
				t.Fatalf("expected miss, got %s", res.Status)
			}

			if err := store.Set(ctx, key, []byte(`{"id":1}`), time.Minute); err != nil {
				t.Fatalf("set failed: %v", err)
			}

			res := store.Get(ctx, key)
			if !res.IsHit() || string(res.Value) != `{"id":1}` {
				t.Fatalf("unexpected lookup %+v", res)
			}

			if err := store.Delete(ctx, key); err != nil {
				t.Fatalf("delete failed: %v", err)
			}
			if res := store.Get(ctx, key); res.Status != cache.StatusMiss {
				t.Errorf("expected miss after delete, got %s", res.Status)
			}
			if err := store.Delete(ctx, key); err != nil {
				t.Errorf("deleting an absent key should not fail: %v", err)
			}
		})
	}
}

func TestValkeyStore_Expiry(t *testing.T) {
	store, ns := newTestValkeyStore(t, CompressionNone)
	ctx := context.Background()
	key := ns + "genre_3"

	if err := store.Set(ctx, key, []byte(`{"id":3}`), 50*time.Millisecond); err != nil {
		t.Fatalf("set failed: %v", err)
	}

	time.Sleep(150 * time.Millisecond)

	if res := store.Get(ctx, key); res.Status != cache.StatusMiss {
		t.Errorf("expected miss after expiry, got %s", res.Status)
	}
}

func TestValkeyStore_DeletePrefix(t *testing.T) {
	store, ns := newTestValkeyStore(t, CompressionNone)
	ctx := context.Background()

	for page := 1; page <= 120; page++ {
		key := fmt.Sprintf("%smovie_page_%d_limit_20", ns, page)
		if err := store.Set(ctx, key, []byte(`[]`), time.Minute); err != nil {
			t.Fatalf("set failed: %v", err)
		}
	}
	_ = store.Set(ctx, ns+"movie_1", []byte(`{}`), time.Minute)

	removed, err := store.DeletePrefix(ctx, ns+"movie_page_")
	if err != nil {
		t.Fatalf("delete prefix failed: %v", err)
	}
	if removed != 120 {
		t.Errorf("expected 120 removed keys, got %d", removed)
	}
	if res := store.Get(ctx, ns+"movie_1"); !res.IsHit() {
		t.Errorf("expected item key to survive, got %s", res.Status)
	}
}
