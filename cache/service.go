package cache

import (
	"context"
	"time"
)

// LookupStatus reports how a cache read resolved.
type LookupStatus int

const (
	// StatusMiss means the key is absent or expired.
	StatusMiss LookupStatus = iota
	// StatusHit means the key held a payload.
	StatusHit
	// StatusError means the backend could not answer.
	StatusError
)

func (s LookupStatus) String() string {
	switch s {
	case StatusHit:
		return "hit"
	case StatusMiss:
		return "miss"
	case StatusError:
		return "error"
	default:
		return "unknown"
	}
}

// Lookup is the result of Store.Get. Exactly one of the three outcomes is set:
// a hit carries Value, a store error carries Err, a miss carries neither.
type Lookup struct {
	Status LookupStatus
	Value  []byte
	Err    error
}

// Hit builds a successful lookup.
func Hit(value []byte) Lookup {
	return Lookup{Status: StatusHit, Value: value}
}

// Miss builds an empty lookup.
func Miss() Lookup {
	return Lookup{Status: StatusMiss}
}

// Failed builds a lookup for a backend error. A nil error is reported as a miss.
func Failed(err error) Lookup {
	if err == nil {
		return Miss()
	}
	return Lookup{Status: StatusError, Err: err}
}

// IsHit reports whether the lookup produced a payload.
func (l Lookup) IsHit() bool { return l.Status == StatusHit }

// Store is the key/value contract the accessor needs from a cache backend.
// Implementations enforce TTL themselves and must be safe for concurrent use.
type Store interface {
	Get(ctx context.Context, key string) Lookup
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}

// PrefixDeleter is implemented by stores that can remove every key sharing a prefix.
// It returns the number of removed keys.
type PrefixDeleter interface {
	DeletePrefix(ctx context.Context, prefix string) (int, error)
}

// Closer is implemented by stores holding network or background resources.
type Closer interface {
	Close() error
}
