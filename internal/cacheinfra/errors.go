package cacheinfra

import (
	goerrors "github.com/goliatone/go-errors"
)

const (
	TextCodeBackend    = "CACHE_BACKEND"
	TextCodeInvalidTTL = "INVALID_TTL"
	TextCodeCorrupt    = "CACHE_PAYLOAD_CORRUPT"
)

func errNonPositiveTTL(key string) error {
	return goerrors.New("cache ttl must be positive", goerrors.CategoryBadInput).
		WithTextCode(TextCodeInvalidTTL).
		WithMetadata(map[string]any{"key": key})
}

// wrapBackend tags a backend failure as external so callers can tell it apart from
// persistent store failures.
func wrapBackend(err error, backend, op, key string) error {
	if err == nil {
		return nil
	}
	return goerrors.Wrap(err, goerrors.CategoryExternal, backend+" "+op).
		WithTextCode(TextCodeBackend).
		WithMetadata(map[string]any{"backend": backend, "op": op, "key": key})
}

func errCorruptPayload(err error, backend, key string) error {
	return goerrors.Wrap(err, goerrors.CategoryExternal, backend+" payload decode").
		WithTextCode(TextCodeCorrupt).
		WithMetadata(map[string]any{"backend": backend, "key": key})
}
