// Package cache defines the cache store contract, key derivation and policy used by
// the catalog cache-aside accessor.
//
// # Overview
//
// The package exports the pieces every accessor shares:
//
//   - Store: get, set-with-TTL and delete over opaque byte payloads
//   - Lookup: the explicit Hit / Miss / Error result returned by Store.Get
//   - KeySerializer: deterministic item and page keys
//   - Codec: JSON (default) or MessagePack payload encoding
//   - PageRequest: page/limit normalization
//   - Config: TTL, namespace, codec and page invalidation policy
//
// Backends live in internal/cacheinfra (sturdyc in process, valkey and redis remote)
// and are selected by pkg/di.
//
// # Keys
//
// Item keys address a single entity and page keys address one page of a listing:
//
//	serializer := cache.NewDefaultKeySerializer()
//	serializer.ItemKey(cache.KindMovie, 7)         // movie_7
//	serializer.PageKey(cache.KindMovie, 1, 20)     // movie_page_1_limit_20
//	serializer.PagePrefix(cache.KindMovie)         // movie_page_
//
// Page keys are always derived from a normalized PageRequest, so page=0&limit=500 and
// page=1&limit=100 share the same entry.
//
// # Lookups
//
// Store.Get never returns a Go error. Callers branch on the lookup status instead:
//
//	switch res := store.Get(ctx, key); res.Status {
//	case cache.StatusHit:
//		// decode res.Value
//	case cache.StatusError:
//		// log res.Err, then read the source of truth
//	default:
//		// miss
//	}
//
// A backend failure is never fatal to a read. The cache is an optimization and the
// persistent store stays authoritative.
package cache
