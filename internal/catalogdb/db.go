package catalogdb

import (
	"context"
	"database/sql"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	goerrors "github.com/goliatone/go-errors"
	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/dialect/sqlitedialect"
)

const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// Config selects the SQL backend.
type Config struct {
	Driver string
	DSN    string

	// MaxOpenConns caps the pool. Zero leaves the database/sql default, except for
	// in-memory SQLite which is pinned to one connection.
	MaxOpenConns int
}

// DefaultConfig returns an in-memory SQLite database with foreign keys enabled.
func DefaultConfig() Config {
	return Config{
		Driver: DriverSQLite,
		DSN:    "file::memory:?cache=shared&_foreign_keys=on",
	}
}

// Validate checks if the configuration values are valid.
func (c Config) Validate() error {
	err := validation.ValidateStruct(&c,
		validation.Field(&c.Driver, validation.Required, validation.In(DriverSQLite, DriverPostgres)),
		validation.Field(&c.DSN, validation.Required),
		validation.Field(&c.MaxOpenConns, validation.Min(0)),
	)
	if err != nil {
		return goerrors.FromOzzoValidation(err, "invalid database configuration").
			WithTextCode("INVALID_DB_CONFIG")
	}
	return nil
}

// Open connects to the configured database, registers the join models and pings it.
// The caller owns the returned handle and must Close it.
func Open(ctx context.Context, cfg Config) (*bun.DB, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	var (
		sqldb *sql.DB
		db    *bun.DB
		err   error
	)

	switch cfg.Driver {
	case DriverPostgres:
		sqldb, err = sql.Open("postgres", cfg.DSN)
		if err != nil {
			return nil, errDatabase(err, "open")
		}
		db = bun.NewDB(sqldb, pgdialect.New())
	default:
		sqldb, err = sql.Open("sqlite3", cfg.DSN)
		if err != nil {
			return nil, errDatabase(err, "open")
		}
		if strings.Contains(cfg.DSN, ":memory:") || strings.Contains(cfg.DSN, "mode=memory") {
			sqldb.SetMaxOpenConns(1)
		}
		db = bun.NewDB(sqldb, sqlitedialect.New())
	}

	if cfg.MaxOpenConns > 0 {
		sqldb.SetMaxOpenConns(cfg.MaxOpenConns)
	}

	RegisterModels(db)

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, errDatabase(err, "ping")
	}
	return db, nil
}

// RegisterModels registers the m2m join tables. Bun needs them before any relation
// query runs.
func RegisterModels(db *bun.DB) {
	db.RegisterModel((*MovieGenre)(nil), (*MovieActor)(nil))
}
