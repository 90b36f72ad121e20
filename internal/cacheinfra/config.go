package cacheinfra

import (
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	goerrors "github.com/goliatone/go-errors"
)

// Driver selects a cache backend.
type Driver string

const (
	DriverMemory Driver = "memory"
	DriverValkey Driver = "valkey"
	DriverRedis  Driver = "redis"
)

// Config holds the backend selection and the settings of every backend.
// Only the section matching Driver is validated.
type Config struct {
	Driver Driver
	Memory MemoryConfig
	Remote RemoteConfig
}

// MemoryConfig holds the configuration for the sturdyc backed in-process store.
type MemoryConfig struct {
	// Capacity defines the maximum number of entries that the cache can store.
	// Must be greater than 0.
	Capacity int

	// NumShards determines the number of cache shards for concurrent access.
	// Higher values improve concurrency but increase memory overhead.
	// Must be greater than 0. Default: 256
	NumShards int

	// MaxTTL is the longest lifetime any entry may have. Per entry TTLs passed to
	// Set are honoured when shorter.
	MaxTTL time.Duration

	// EvictionPercentage specifies what percentage of entries to evict
	// when the cache reaches its capacity. Must be between 1-100.
	// Default: 10 (evict 10% of entries)
	EvictionPercentage int

	// EvictionInterval sets how often the cache checks for expired entries.
	// Zero value uses the default interval.
	EvictionInterval time.Duration
}

// RemoteConfig configures the valkey and redis stores.
type RemoteConfig struct {
	// Address in host:port form.
	Address  string
	Password string
	DB       int

	// Compression applied to payloads before they leave the process: "none", "s2" or "zstd".
	Compression string
}

// DefaultConfig returns an in-memory configuration.
func DefaultConfig() Config {
	return Config{
		Driver: DriverMemory,
		Memory: DefaultMemoryConfig(),
		Remote: DefaultRemoteConfig(),
	}
}

// DefaultMemoryConfig returns sizing suitable for a single catalog process.
func DefaultMemoryConfig() MemoryConfig {
	return MemoryConfig{
		Capacity:           10000,
		NumShards:          256,
		MaxTTL:             time.Hour,
		EvictionPercentage: 10,
	}
}

// DefaultRemoteConfig points at a local server without compression.
func DefaultRemoteConfig() RemoteConfig {
	return RemoteConfig{
		Address:     "localhost:6379",
		Compression: CompressionNone,
	}
}

// Validate checks the driver and the section it uses.
func (c Config) Validate() error {
	err := validation.ValidateStruct(&c,
		validation.Field(&c.Driver, validation.Required, validation.In(DriverMemory, DriverValkey, DriverRedis)),
	)
	if err != nil {
		return goerrors.FromOzzoValidation(err, "invalid cache backend configuration").
			WithTextCode("INVALID_CACHE_BACKEND")
	}

	if c.Driver == DriverMemory {
		return c.Memory.Validate()
	}
	return c.Remote.Validate()
}

// Validate checks if the configuration values are valid.
func (c MemoryConfig) Validate() error {
	err := validation.ValidateStruct(&c,
		validation.Field(&c.Capacity, validation.Required, validation.Min(1)),
		validation.Field(&c.NumShards, validation.Required, validation.Min(1)),
		validation.Field(&c.MaxTTL, validation.Required, validation.Min(time.Second)),
		validation.Field(&c.EvictionPercentage, validation.Required, validation.Min(1), validation.Max(100)),
		validation.Field(&c.EvictionInterval, validation.Min(time.Duration(0))),
	)
	if err != nil {
		return goerrors.FromOzzoValidation(err, "invalid memory cache configuration").
			WithTextCode("INVALID_MEMORY_CACHE")
	}
	return nil
}

// Validate checks if the configuration values are valid.
func (c RemoteConfig) Validate() error {
	err := validation.ValidateStruct(&c,
		validation.Field(&c.Address, validation.Required),
		validation.Field(&c.DB, validation.Min(0), validation.Max(15)),
		validation.Field(&c.Compression, validation.In(CompressionNone, CompressionS2, CompressionZstd)),
	)
	if err != nil {
		return goerrors.FromOzzoValidation(err, "invalid remote cache configuration").
			WithTextCode("INVALID_REMOTE_CACHE")
	}
	return nil
}
