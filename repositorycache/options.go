package repositorycache

import (
	"log/slog"
	"time"

	"github.com/goliatone/go-catalog-cache/cache"
)

// Option configures an Accessor.
type Option func(*options)

type options struct {
	ttl             time.Duration
	keys            cache.KeySerializer
	codec           cache.Codec
	logger          *slog.Logger
	invalidatePages bool
}

func defaultOptions() options {
	cfg := cache.DefaultConfig()
	return options{
		ttl:             cfg.TTL,
		keys:            cfg.KeySerializer(),
		codec:           cfg.PayloadCodec(),
		logger:          slog.Default(),
		invalidatePages: cfg.InvalidatePages,
	}
}

// WithConfig applies a whole cache.Config. Options listed after it still win.
func WithConfig(cfg cache.Config) Option {
	return func(o *options) {
		if cfg.TTL > 0 {
			o.ttl = cfg.TTL
		}
		o.keys = cfg.KeySerializer()
		o.codec = cfg.PayloadCodec()
		o.invalidatePages = cfg.InvalidatePages
	}
}

// WithTTL sets the expiry of populated entries. Non positive values are ignored.
func WithTTL(ttl time.Duration) Option {
	return func(o *options) {
		if ttl > 0 {
			o.ttl = ttl
		}
	}
}

func WithKeySerializer(keys cache.KeySerializer) Option {
	return func(o *options) {
		if keys != nil {
			o.keys = keys
		}
	}
}

func WithCodec(codec cache.Codec) Option {
	return func(o *options) {
		if codec != nil {
			o.codec = codec
		}
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// WithPageInvalidation toggles clearing page keys after writes made through a
// CachedRepository.
func WithPageInvalidation(enabled bool) Option {
	return func(o *options) {
		o.invalidatePages = enabled
	}
}
