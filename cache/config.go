package cache

import (
	"regexp"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	goerrors "github.com/goliatone/go-errors"
)

// DefaultTTL is how long entries live unless configured otherwise.
const DefaultTTL = time.Hour

var namespacePattern = regexp.MustCompile(`^[a-zA-Z0-9_.\-]*$`)

// Config holds the cache-aside policy shared by every accessor.
type Config struct {
	// TTL applied to item and page entries.
	TTL time.Duration

	// Namespace is prepended to every key ("{namespace}:movie_7"). Empty keeps bare keys.
	Namespace string

	// Codec names the payload encoding: "json" or "msgpack".
	Codec string

	// InvalidatePages clears "{kind}_page_*" entries whenever an item of that kind is
	// written through a CachedRepository.
	InvalidatePages bool
}

// DefaultConfig returns the one hour, JSON encoded, page invalidating policy.
func DefaultConfig() Config {
	return Config{
		TTL:             DefaultTTL,
		Codec:           CodecJSON,
		InvalidatePages: true,
	}
}

// Validate checks whether the configuration values are valid.
func (c Config) Validate() error {
	err := validation.ValidateStruct(&c,
		validation.Field(&c.TTL, validation.Required, validation.Min(time.Second)),
		validation.Field(&c.Namespace, validation.Length(0, 64), validation.Match(namespacePattern)),
		validation.Field(&c.Codec, validation.Required, validation.In(CodecJSON, CodecMsgpack)),
	)
	if err != nil {
		return goerrors.FromOzzoValidation(err, "invalid cache configuration").
			WithTextCode("INVALID_CACHE_CONFIG")
	}
	return nil
}

// KeySerializer returns the serializer matching the configured namespace.
func (c Config) KeySerializer() KeySerializer {
	return NewDefaultKeySerializer(c.Namespace)
}

// PayloadCodec returns the codec matching the configured name.
func (c Config) PayloadCodec() Codec {
	return CodecByName(c.Codec)
}
