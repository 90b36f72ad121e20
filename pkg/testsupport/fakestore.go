package testsupport

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/goliatone/go-catalog-cache/cache"
)

var (
	_ cache.Store         = (*FakeStore)(nil)
	_ cache.PrefixDeleter = (*PrefixStore)(nil)
)

type fakeEntry struct {
	value []byte
	ttl   time.Duration
}

// FakeStore is an in-memory cache.Store that records every call and can be told
// to fail. It never expires entries; the TTL passed to Set is kept for assertions.
type FakeStore struct {
	mu        sync.Mutex
	entries   map[string]fakeEntry
	calls     []string
	getErr    error
	setErr    error
	deleteErr error
}

func NewFakeStore() *FakeStore {
	return &FakeStore{entries: make(map[string]fakeEntry)}
}

// Helper method to record method calls
func (s *FakeStore) recordCall(op, key string) {
	s.calls = append(s.calls, op+":"+key)
}

func (s *FakeStore) Get(ctx context.Context, key string) cache.Lookup {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.recordCall("Get", key)

	if s.getErr != nil {
		return cache.Failed(s.getErr)
	}
	entry, ok := s.entries[key]
	if !ok {
		return cache.Miss()
	}
	return cache.Hit(append([]byte(nil), entry.value...))
}

func (s *FakeStore) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.recordCall("Set", key)

	if s.setErr != nil {
		return s.setErr
	}
	s.entries[key] = fakeEntry{value: append([]byte(nil), value...), ttl: ttl}
	return nil
}

func (s *FakeStore) Delete(ctx context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.recordCall("Delete", key)

	if s.deleteErr != nil {
		return s.deleteErr
	}
	delete(s.entries, key)
	return nil
}

// FailGet makes every Get report err. Nil restores normal behaviour.
func (s *FakeStore) FailGet(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.getErr = err
}

func (s *FakeStore) FailSet(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.setErr = err
}

func (s *FakeStore) FailDelete(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.deleteErr = err
}

// Put seeds a raw payload without recording a call.
func (s *FakeStore) Put(key string, value []byte) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[key] = fakeEntry{value: append([]byte(nil), value...)}
}

// Has reports whether key holds an entry.
func (s *FakeStore) Has(key string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.entries[key]
	return ok
}

// Value returns the raw payload stored at key.
func (s *FakeStore) Value(key string) ([]byte, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	entry, ok := s.entries[key]
	if !ok {
		return nil, false
	}
	return append([]byte(nil), entry.value...), true
}

// TTL returns the expiry the key was last set with.
func (s *FakeStore) TTL(key string) time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.entries[key].ttl
}

// Keys returns the stored keys, sorted.
func (s *FakeStore) Keys() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	keys := make([]string, 0, len(s.entries))
	for key := range s.entries {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

// Calls returns the recorded calls as "Op:key".
func (s *FakeStore) Calls() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.calls...)
}

// CallCount counts recorded calls of op ("Get", "Set", "Delete", "DeletePrefix").
func (s *FakeStore) CallCount(op string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, call := range s.calls {
		if strings.HasPrefix(call, op+":") {
			n++
		}
	}
	return n
}

func (s *FakeStore) ClearCalls() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls = nil
}

// PrefixStore is a FakeStore that also deletes by prefix.
type PrefixStore struct {
	*FakeStore
	prefixErr error
}

func NewPrefixStore() *PrefixStore {
	return &PrefixStore{FakeStore: NewFakeStore()}
}

func (s *PrefixStore) DeletePrefix(ctx context.Context, prefix string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.recordCall("DeletePrefix", prefix)

	if s.prefixErr != nil {
		return 0, s.prefixErr
	}
	removed := 0
	for key := range s.entries {
		if strings.HasPrefix(key, prefix) {
			delete(s.entries, key)
			removed++
		}
	}
	return removed, nil
}

func (s *PrefixStore) FailDeletePrefix(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.prefixErr = err
}
