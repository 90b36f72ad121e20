package config

import (
	"fmt"
	"io"
	"log/slog"
	"net/url"
	"os"
	"reflect"
	"strconv"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-viper/mapstructure/v2"
	"github.com/goliatone/go-catalog-cache/cache"
	"github.com/goliatone/go-catalog-cache/internal/cacheinfra"
	"github.com/goliatone/go-catalog-cache/internal/catalogdb"
	goerrors "github.com/goliatone/go-errors"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	LogFormatText = "text"
	LogFormatJSON = "json"
)

// Config is the application configuration assembled from the environment.
type Config struct {
	DB    catalogdb.Config
	Store cacheinfra.Config
	Cache cache.Config
	Log   LogConfig
}

// LogConfig selects the slog handler.
type LogConfig struct {
	Level  string
	Format string
}

// env mirrors the CATALOG_* environment variables.
type env struct {
	DBDriver       string        `mapstructure:"CATALOG_DB_DRIVER"`
	DBDSN          string        `mapstructure:"CATALOG_DB_DSN"`
	DBMaxOpenConns int           `mapstructure:"CATALOG_DB_MAX_OPEN_CONNS"`
	CacheDriver    string        `mapstructure:"CATALOG_CACHE_DRIVER"`
	CacheAddr      string        `mapstructure:"CATALOG_CACHE_ADDR"`
	CachePassword  string        `mapstructure:"CATALOG_CACHE_PASSWORD"`
	CacheDB        int           `mapstructure:"CATALOG_CACHE_DB"`
	CacheCapacity  int           `mapstructure:"CATALOG_CACHE_CAPACITY"`
	CacheTTL       time.Duration `mapstructure:"CATALOG_CACHE_TTL"`
	Namespace      string        `mapstructure:"CATALOG_CACHE_NAMESPACE"`
	Codec          string        `mapstructure:"CATALOG_CACHE_CODEC"`
	Compression    string        `mapstructure:"CATALOG_CACHE_COMPRESSION"`
	PageInvalidate bool          `mapstructure:"CATALOG_CACHE_PAGE_INVALIDATION"`
	LogLevel       string        `mapstructure:"CATALOG_LOG_LEVEL"`
	LogFormat      string        `mapstructure:"CATALOG_LOG_FORMAT"`
}

// Default returns the configuration used when no variable is set: in-memory
// SQLite, the sturdyc store and the default cache policy.
func Default() Config {
	return Config{
		DB:    catalogdb.DefaultConfig(),
		Store: cacheinfra.DefaultConfig(),
		Cache: cache.DefaultConfig(),
		Log:   LogConfig{Level: "info", Format: LogFormatText},
	}
}

// Load reads the CATALOG_* environment variables. Each dotenv file that exists is
// loaded first without overriding variables already set; with no arguments ".env"
// is tried.
//
// CATALOG_CACHE_TTL takes a Go duration ("90m", "1h") or a bare integer number of
// seconds ("3600").
func Load(dotenvFiles ...string) (Config, error) {
	if len(dotenvFiles) == 0 {
		dotenvFiles = []string{".env"}
	}
	for _, file := range dotenvFiles {
		if _, err := os.Stat(file); err != nil {
			continue
		}
		if err := godotenv.Load(file); err != nil {
			return Config{}, goerrors.Wrap(err, goerrors.CategoryBadInput, "failed to load "+file).
				WithTextCode("INVALID_DOTENV")
		}
	}

	v := viper.New()
	setDefaults(v, Default())
	v.AutomaticEnv()

	var raw env
	if err := v.Unmarshal(&raw, viper.DecodeHook(secondsOrDuration())); err != nil {
		return Config{}, goerrors.Wrap(err, goerrors.CategoryBadInput, "unable to decode config").
			WithTextCode("INVALID_CONFIG")
	}

	cfg := raw.toConfig()
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// secondsOrDuration decodes duration strings, reading a bare integer as seconds.
func secondsOrDuration() mapstructure.DecodeHookFuncType {
	durationType := reflect.TypeOf(time.Duration(0))
	return func(from, to reflect.Type, data any) (any, error) {
		if to != durationType || from.Kind() != reflect.String {
			return data, nil
		}
		raw := strings.TrimSpace(data.(string))
		if seconds, err := strconv.ParseInt(raw, 10, 64); err == nil {
			return time.Duration(seconds) * time.Second, nil
		}
		return time.ParseDuration(raw)
	}
}

// setDefaults registers every key, which also lets AutomaticEnv see it during Unmarshal.
func setDefaults(v *viper.Viper, d Config) {
	v.SetDefault("CATALOG_DB_DRIVER", d.DB.Driver)
	v.SetDefault("CATALOG_DB_DSN", d.DB.DSN)
	v.SetDefault("CATALOG_DB_MAX_OPEN_CONNS", d.DB.MaxOpenConns)
	v.SetDefault("CATALOG_CACHE_DRIVER", string(d.Store.Driver))
	v.SetDefault("CATALOG_CACHE_ADDR", d.Store.Remote.Address)
	v.SetDefault("CATALOG_CACHE_PASSWORD", d.Store.Remote.Password)
	v.SetDefault("CATALOG_CACHE_DB", d.Store.Remote.DB)
	v.SetDefault("CATALOG_CACHE_CAPACITY", d.Store.Memory.Capacity)
	v.SetDefault("CATALOG_CACHE_TTL", d.Cache.TTL)
	v.SetDefault("CATALOG_CACHE_NAMESPACE", d.Cache.Namespace)
	v.SetDefault("CATALOG_CACHE_CODEC", d.Cache.Codec)
	v.SetDefault("CATALOG_CACHE_COMPRESSION", d.Store.Remote.Compression)
	v.SetDefault("CATALOG_CACHE_PAGE_INVALIDATION", d.Cache.InvalidatePages)
	v.SetDefault("CATALOG_LOG_LEVEL", d.Log.Level)
	v.SetDefault("CATALOG_LOG_FORMAT", d.Log.Format)
}

func (e env) toConfig() Config {
	cfg := Default()

	cfg.DB.Driver = strings.ToLower(e.DBDriver)
	cfg.DB.DSN = e.DBDSN
	cfg.DB.MaxOpenConns = e.DBMaxOpenConns

	cfg.Store.Driver = cacheinfra.Driver(strings.ToLower(e.CacheDriver))
	cfg.Store.Memory.Capacity = e.CacheCapacity
	cfg.Store.Remote.Address = e.CacheAddr
	cfg.Store.Remote.Password = e.CachePassword
	cfg.Store.Remote.DB = e.CacheDB
	cfg.Store.Remote.Compression = strings.ToLower(e.Compression)

	cfg.Cache.TTL = e.CacheTTL
	cfg.Cache.Namespace = e.Namespace
	cfg.Cache.Codec = strings.ToLower(e.Codec)
	cfg.Cache.InvalidatePages = e.PageInvalidate
	if cfg.Store.Memory.MaxTTL < cfg.Cache.TTL {
		cfg.Store.Memory.MaxTTL = cfg.Cache.TTL
	}

	cfg.Log.Level = strings.ToLower(e.LogLevel)
	cfg.Log.Format = strings.ToLower(e.LogFormat)
	return cfg
}

// Validate checks every section.
func (c Config) Validate() error {
	if err := c.DB.Validate(); err != nil {
		return err
	}
	if err := c.Store.Validate(); err != nil {
		return err
	}
	if err := c.Cache.Validate(); err != nil {
		return err
	}
	return c.Log.Validate()
}

// Validate checks if the configuration values are valid.
func (c LogConfig) Validate() error {
	err := validation.ValidateStruct(&c,
		validation.Field(&c.Level, validation.Required, validation.In("debug", "info", "warn", "error")),
		validation.Field(&c.Format, validation.Required, validation.In(LogFormatText, LogFormatJSON)),
	)
	if err != nil {
		return goerrors.FromOzzoValidation(err, "invalid log configuration").
			WithTextCode("INVALID_LOG_CONFIG")
	}
	return nil
}

// Logger builds a slog logger writing to w.
func (c LogConfig) Logger(w io.Writer) *slog.Logger {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.Level)); err != nil {
		level = slog.LevelInfo
	}
	opts := &slog.HandlerOptions{Level: level}

	if c.Format == LogFormatJSON {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

// String renders the configuration with credentials masked.
func (c Config) String() string {
	var sb strings.Builder
	sb.WriteString("\n")
	sb.WriteString(fmt.Sprintf("  DBDriver: %s\n", c.DB.Driver))
	sb.WriteString(fmt.Sprintf("  DBDSN: %s\n", maskDSN(c.DB.DSN)))
	sb.WriteString(fmt.Sprintf("  CacheDriver: %s\n", c.Store.Driver))
	if c.Store.Driver != cacheinfra.DriverMemory {
		sb.WriteString(fmt.Sprintf("  CacheAddr: %s\n", c.Store.Remote.Address))
		if c.Store.Remote.Password != "" {
			sb.WriteString("  CachePassword: ********\n")
		} else {
			sb.WriteString("  CachePassword: (empty)\n")
		}
		sb.WriteString(fmt.Sprintf("  CacheCompression: %s\n", c.Store.Remote.Compression))
	}
	sb.WriteString(fmt.Sprintf("  CacheTTL: %s\n", c.Cache.TTL))
	sb.WriteString(fmt.Sprintf("  CacheNamespace: %s\n", c.Cache.Namespace))
	sb.WriteString(fmt.Sprintf("  CacheCodec: %s\n", c.Cache.Codec))
	sb.WriteString(fmt.Sprintf("  CachePageInvalidation: %v\n", c.Cache.InvalidatePages))
	sb.WriteString(fmt.Sprintf("  LogLevel: %s\n", c.Log.Level))
	sb.WriteString(fmt.Sprintf("  LogFormat: %s\n", c.Log.Format))
	return sb.String()
}

// maskDSN hides the password of URL style DSNs and key=value postgres DSNs.
func maskDSN(dsn string) string {
	if u, err := url.Parse(dsn); err == nil && u.User != nil {
		if _, ok := u.User.Password(); ok {
			u.User = url.UserPassword(u.User.Username(), "xxxxx")
			return strings.Replace(u.String(), "xxxxx", "********", 1)
		}
		return dsn
	}

	fields := strings.Fields(dsn)
	for i, field := range fields {
		if strings.HasPrefix(field, "password=") {
			fields[i] = "password=********"
		}
	}
	return strings.Join(fields, " ")
}
