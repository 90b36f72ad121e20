package repositorycache

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/goliatone/go-catalog-cache/cache"
	goerrors "github.com/goliatone/go-errors"
)

// Reader is the read side of a persistent store for one entity kind.
type Reader[T any] interface {
	FindByID(ctx context.Context, id int64) (T, error)
	// FindPage returns records ordered by id ascending.
	FindPage(ctx context.Context, skip, limit int) ([]T, error)
}

// Origin tells where a result was served from.
type Origin string

const (
	OriginStore Origin = "store"
	OriginCache Origin = "cache"
)

// Item is a single record and how it was resolved.
type Item[T any] struct {
	Record T
	Origin Origin
	Key    string
}

// Page is one normalized page of records.
type Page[T any] struct {
	Records []T
	Page    int
	Limit   int
	Origin  Origin
	Key     string
}

// Accessor is the cache-aside layer for one entity kind. Reads check the cache,
// fall back to the Reader and populate the cache with a TTL. Every cache failure
// is logged and absorbed; only Reader failures reach the caller.
//
// An Accessor is safe for concurrent use.
type Accessor[T any] struct {
	kind   cache.Kind
	reader Reader[T]
	store  cache.Store
	opts   options
	logger *slog.Logger
	pages  *keyRegistry
}

// NewAccessor builds an accessor. A nil store disables caching; every read then
// goes to the reader.
func NewAccessor[T any](kind cache.Kind, reader Reader[T], store cache.Store, opts ...Option) *Accessor[T] {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	if store == nil {
		store = noopStore{}
	}
	return &Accessor[T]{
		kind:   kind,
		reader: reader,
		store:  store,
		opts:   o,
		logger: o.logger.With("kind", kind.String()),
		pages:  newKeyRegistry(),
	}
}

func (a *Accessor[T]) Kind() cache.Kind { return a.kind }

// TTL is the expiry applied to populated entries.
func (a *Accessor[T]) TTL() time.Duration { return a.opts.ttl }

func (a *Accessor[T]) ItemKey(id int64) string {
	return a.opts.keys.ItemKey(a.kind, id)
}

// PageKey returns the key of the page after normalization.
func (a *Accessor[T]) PageKey(page, limit int) string {
	req := cache.NormalizePage(page, limit)
	return a.opts.keys.PageKey(a.kind, req.Page, req.Limit)
}

// GetItem returns the record with id. Absent records yield ErrNotFound and are
// never cached.
func (a *Accessor[T]) GetItem(ctx context.Context, id int64) (Item[T], error) {
	ctx, requestID := ensureRequestID(ctx)
	key := a.ItemKey(id)

	var cached T
	if a.readCache(ctx, requestID, key, &cached) {
		return Item[T]{Record: cached, Origin: OriginCache, Key: key}, nil
	}

	record, err := a.reader.FindByID(ctx, id)
	if err != nil {
		if isNotFound(err) {
			return Item[T]{Key: key}, ErrNotFound
		}
		return Item[T]{Key: key}, a.storeFailure(err, "get_item", key, requestID)
	}

	a.writeCache(ctx, requestID, key, record)
	return Item[T]{Record: record, Origin: OriginStore, Key: key}, nil
}

// GetPage returns one page ordered by id ascending. Paging input is normalized
// first, so page=0,limit=500 reads the same entry as page=1,limit=100. An empty
// page yields ErrNoRecords and is never cached.
func (a *Accessor[T]) GetPage(ctx context.Context, page, limit int) (Page[T], error) {
	return a.getPage(ctx, cache.NormalizePage(page, limit))
}

// GetPageRequest is GetPage for an already parsed request.
func (a *Accessor[T]) GetPageRequest(ctx context.Context, req cache.PageRequest) (Page[T], error) {
	return a.getPage(ctx, cache.NormalizePage(req.Page, req.Limit))
}

func (a *Accessor[T]) getPage(ctx context.Context, req cache.PageRequest) (Page[T], error) {
	ctx, requestID := ensureRequestID(ctx)
	key := a.PageKey(req.Page, req.Limit)
	result := Page[T]{Page: req.Page, Limit: req.Limit, Key: key}
	if req.Overflows() {
		return result, ErrNoRecords
	}

	var cached []T
	if a.readCache(ctx, requestID, key, &cached) && len(cached) > 0 {
		a.pages.track(key)
		result.Records = cached
		result.Origin = OriginCache
		return result, nil
	}

	records, err := a.reader.FindPage(ctx, req.Skip(), req.Limit)
	if err != nil {
		if isNotFound(err) {
			return result, ErrNoRecords
		}
		return result, a.storeFailure(err, "get_page", key, requestID)
	}
	if len(records) == 0 {
		return result, ErrNoRecords
	}

	if a.writeCache(ctx, requestID, key, records) {
		a.pages.track(key)
	}
	result.Records = records
	result.Origin = OriginStore
	return result, nil
}

// Invalidate deletes the item key for id whether or not it is cached. Failures
// are logged and never returned.
func (a *Accessor[T]) Invalidate(ctx context.Context, id int64) {
	ctx, requestID := ensureRequestID(ctx)
	key := a.ItemKey(id)
	if err := a.store.Delete(ctx, key); err != nil {
		a.logCacheFailure(ctx, "invalidate", key, requestID, err)
	}
}

// InvalidatePages clears every page entry of the kind and returns how many keys
// were removed. Stores implementing cache.PrefixDeleter clear by prefix, other
// stores only lose the pages this accessor populated.
func (a *Accessor[T]) InvalidatePages(ctx context.Context) int {
	ctx, requestID := ensureRequestID(ctx)
	prefix := a.opts.keys.PagePrefix(a.kind)
	tracked := a.pages.drain(prefix)

	if deleter, ok := a.store.(cache.PrefixDeleter); ok {
		n, err := deleter.DeletePrefix(ctx, prefix)
		if err == nil {
			return n
		}
		a.logCacheFailure(ctx, "invalidate_pages", prefix+"*", requestID, err)
	}

	removed := 0
	for _, key := range tracked {
		if err := a.store.Delete(ctx, key); err != nil {
			a.logCacheFailure(ctx, "invalidate_pages", key, requestID, err)
			continue
		}
		removed++
	}
	return removed
}

// PageInvalidation reports whether writes through a CachedRepository clear pages.
func (a *Accessor[T]) PageInvalidation() bool { return a.opts.invalidatePages }

// readCache decodes the entry at key into dst. It returns false on a miss, on a
// backend error and on an undecodable payload.
func (a *Accessor[T]) readCache(ctx context.Context, requestID, key string, dst any) bool {
	lookup := a.store.Get(ctx, key)
	switch lookup.Status {
	case cache.StatusHit:
		if err := a.opts.codec.Unmarshal(lookup.Value, dst); err != nil {
			a.logCacheFailure(ctx, "decode", key, requestID, err)
			return false
		}
		a.logger.DebugContext(ctx, "cache hit", "key", key, "request_id", requestID)
		return true
	case cache.StatusError:
		a.logCacheFailure(ctx, "get", key, requestID, lookup.Err)
		return false
	default:
		a.logger.DebugContext(ctx, "cache miss", "key", key, "request_id", requestID)
		return false
	}
}

func (a *Accessor[T]) writeCache(ctx context.Context, requestID, key string, value any) bool {
	payload, err := a.opts.codec.Marshal(value)
	if err != nil {
		a.logCacheFailure(ctx, "encode", key, requestID, err)
		return false
	}
	if err := a.store.Set(ctx, key, payload, a.opts.ttl); err != nil {
		a.logCacheFailure(ctx, "set", key, requestID, err)
		return false
	}
	return true
}

func (a *Accessor[T]) logCacheFailure(ctx context.Context, op, key, requestID string, err error) {
	a.logger.WarnContext(ctx, "cache operation failed",
		"op", op,
		"key", key,
		"request_id", requestID,
		"error", err,
	)
}

func (a *Accessor[T]) storeFailure(err error, op, key, requestID string) error {
	richErr := goerrors.Wrap(err, goerrors.CategoryInternal, fmt.Sprintf("%s %s", a.kind, op)).
		WithTextCode(TextCodeStoreFailure).
		WithMetadata(map[string]any{
			"kind": a.kind.String(),
			"op":   op,
			"key":  key,
		}).
		WithRequestID(requestID)

	goerrors.LogBySeverity(a.logger, richErr)
	return richErr
}

type noopStore struct{}

func (noopStore) Get(context.Context, string) cache.Lookup                    { return cache.Miss() }
func (noopStore) Set(context.Context, string, []byte, time.Duration) error { return nil }
func (noopStore) Delete(context.Context, string) error                      { return nil }
