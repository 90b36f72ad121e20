package cacheinfra

import (
	"context"

	"github.com/goliatone/go-catalog-cache/cache"
)

// NewStore builds the backend selected by cfg.Driver. Remote stores are pinged
// before they are returned; callers own the result and should Close it when it
// implements cache.Closer.
func NewStore(ctx context.Context, cfg Config) (cache.Store, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	var (
		store cache.Store
		err   error
	)
	switch cfg.Driver {
	case DriverValkey:
		store, err = asStore(NewValkeyStore(ctx, cfg.Remote))
	case DriverRedis:
		store, err = asStore(NewRedisStore(ctx, cfg.Remote))
	default:
		store, err = asStore(NewSturdycStore(cfg.Memory))
	}
	if err != nil {
		return nil, err
	}
	return store, nil
}

// asStore avoids leaking typed nil pointers through the cache.Store interface.
func asStore[S cache.Store](s S, err error) (cache.Store, error) {
	if err != nil {
		return nil, err
	}
	return s, nil
}
