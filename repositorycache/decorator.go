package repositorycache

import (
	"context"

	"github.com/goliatone/go-catalog-cache/cache"
)

// Identifiable is implemented by records the decorator can key.
type Identifiable interface {
	EntityID() int64
	EntityKind() cache.Kind
}

// Repository is the persistent store contract wrapped by CachedRepository.
type Repository[T any] interface {
	Reader[T]
	Create(ctx context.Context, record T) (T, error)
	Update(ctx context.Context, record T) (T, error)
	Delete(ctx context.Context, id int64) error
}

// WriteHook runs after a successful write and its invalidation.
type WriteHook func(ctx context.Context, id int64)

// Interface assertion to ensure CachedRepository implements Repository[T]
var _ Repository[Identifiable] = (*CachedRepository[Identifiable])(nil)

// CachedRepository decorates a base repository with the cache-aside accessor.
// Reads go through the cache, writes go to the base repository and then
// invalidate the item key (and the page keys when enabled), in that order.
type CachedRepository[T Identifiable] struct {
	base     Repository[T]
	accessor *Accessor[T]
	hooks    []WriteHook
}

// New creates a CachedRepository for the kind reported by T.
func New[T Identifiable](base Repository[T], store cache.Store, opts ...Option) *CachedRepository[T] {
	var zero T
	return &CachedRepository[T]{
		base:     base,
		accessor: NewAccessor[T](zero.EntityKind(), base, store, opts...),
	}
}

// OnWrite registers hooks that run after every successful write. Register them
// before the repository is shared.
func (c *CachedRepository[T]) OnWrite(hooks ...WriteHook) *CachedRepository[T] {
	c.hooks = append(c.hooks, hooks...)
	return c
}

// Accessor exposes the underlying accessor for explicit invalidation.
func (c *CachedRepository[T]) Accessor() *Accessor[T] {
	return c.accessor
}

// GetByID retrieves a record by ID, with caching
func (c *CachedRepository[T]) GetByID(ctx context.Context, id int64) (T, error) {
	item, err := c.accessor.GetItem(ctx, id)
	return item.Record, err
}

// List retrieves one normalized page, with caching
func (c *CachedRepository[T]) List(ctx context.Context, page, limit int) ([]T, error) {
	res, err := c.accessor.GetPage(ctx, page, limit)
	if err != nil {
		return nil, err
	}
	return res.Records, nil
}

// FindByID reads through the cache so the decorator can stand in for its base.
func (c *CachedRepository[T]) FindByID(ctx context.Context, id int64) (T, error) {
	return c.GetByID(ctx, id)
}

// FindPage passes through to the base repository. Arbitrary offsets do not map to
// page keys.
func (c *CachedRepository[T]) FindPage(ctx context.Context, skip, limit int) ([]T, error) {
	return c.base.FindPage(ctx, skip, limit)
}

// Create creates a new record. Write operations pass through to base repository
func (c *CachedRepository[T]) Create(ctx context.Context, record T) (T, error) {
	result, err := c.base.Create(ctx, record)
	if err == nil {
		c.invalidateAfterWrite(ctx, result.EntityID())
	}
	return result, err
}

// Update updates a record
func (c *CachedRepository[T]) Update(ctx context.Context, record T) (T, error) {
	result, err := c.base.Update(ctx, record)
	if err == nil {
		c.invalidateAfterWrite(ctx, record.EntityID())
	}
	return result, err
}

// Delete deletes a record
func (c *CachedRepository[T]) Delete(ctx context.Context, id int64) error {
	err := c.base.Delete(ctx, id)
	if err == nil {
		c.invalidateAfterWrite(ctx, id)
	}
	return err
}

func (c *CachedRepository[T]) invalidateAfterWrite(ctx context.Context, id int64) {
	c.accessor.Invalidate(ctx, id)
	if c.accessor.PageInvalidation() {
		c.accessor.InvalidatePages(ctx)
	}
	for _, hook := range c.hooks {
		hook(ctx, id)
	}
}
