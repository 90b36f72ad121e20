// Package repositorycache provides the cache-aside accessor and the cached
// repository decorator for catalog entities.
//
// # Overview
//
// An Accessor mediates reads of one entity kind (movie, actor, genre) between a
// cache.Store and a persistent Reader. A CachedRepository wraps a full repository,
// serving reads through the accessor and invalidating after writes.
//
//	base := catalogdb.NewMovieRepository(db)
//	movies := repositorycache.New[catalogdb.Movie](base, store,
//		repositorycache.WithConfig(cacheConfig),
//		repositorycache.WithLogger(logger),
//	)
//
//	movie, err := movies.GetByID(ctx, 7)
//	page, err := movies.List(ctx, 1, 20)
//
// # Read Path
//
//  1. Derive the key: "movie_7" for items, "movie_page_1_limit_20" for pages
//  2. On a cache hit, decode and return the payload
//  3. On a miss, read the persistent store
//  4. Populate the key with the configured TTL (one hour by default)
//
// Absent records (ErrNotFound) and empty pages (ErrNoRecords) are returned
// without writing to the cache. Paging input is normalized before the key is
// derived, so equivalent requests share one entry.
//
// # Failure Handling
//
// The cache is an optimization. A failed Get is a miss, a payload that does not
// decode is a miss, and failed Set and Delete calls are logged at warn level and
// ignored. Persistent store failures are returned as go-errors values in the
// internal category with the STORE_FAILURE text code; IsStoreFailure detects them.
//
// # Invalidation
//
// Accessor.Invalidate deletes a single item key and never fails. The decorator
// calls it after every successful Create, Update and Delete, and also clears the
// kind's page keys unless page invalidation is turned off. Page keys are removed
// by prefix on stores implementing cache.PrefixDeleter; elsewhere the accessor
// removes the pages it has populated itself.
//
// There is no single-flight: concurrent misses may both read the store and both
// write the key, which is an idempotent overwrite.
//
// # Request IDs
//
// Every operation carries a request id, taken from the context (WithRequestID)
// or generated, that appears in log lines and in returned errors.
package repositorycache
