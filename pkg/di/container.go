package di

import (
	"context"
	"errors"
	"log/slog"

	"github.com/goliatone/go-catalog-cache/cache"
	"github.com/goliatone/go-catalog-cache/internal/cacheinfra"
	"github.com/goliatone/go-catalog-cache/internal/catalogdb"
	"github.com/goliatone/go-catalog-cache/internal/config"
	"github.com/goliatone/go-catalog-cache/repositorycache"
	"github.com/uptrace/bun"
)

// Container provides dependency injection for the catalog. It opens the database
// and the cache store once, builds one cached repository per entity kind and owns
// the lifecycle of what it opened.
type Container struct {
	config config.Config
	logger *slog.Logger

	db        *bun.DB
	ownsDB    bool
	store     cache.Store
	ownsStore bool

	movies *repositorycache.CachedRepository[catalogdb.Movie]
	actors *repositorycache.CachedRepository[catalogdb.Actor]
	genres *repositorycache.CachedRepository[catalogdb.Genre]
	links  *catalogdb.Associations
}

// Option customizes a Container.
type Option func(*Container)

// WithLogger sets the logger handed to every accessor.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Container) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithStore injects a cache store. The container does not close injected stores.
func WithStore(store cache.Store) Option {
	return func(c *Container) {
		if store != nil {
			c.store = store
		}
	}
}

// WithDB injects an open database. The catalog join models are registered on it.
// The container does not close injected databases.
func WithDB(db *bun.DB) Option {
	return func(c *Container) {
		if db != nil {
			c.db = db
		}
	}
}

// NewContainer wires the catalog from cfg and creates the schema when missing.
func NewContainer(ctx context.Context, cfg config.Config, opts ...Option) (*Container, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	c := &Container{config: cfg}
	for _, opt := range opts {
		opt(c)
	}
	if c.logger == nil {
		c.logger = slog.Default()
	}

	if c.db == nil {
		db, err := catalogdb.Open(ctx, cfg.DB)
		if err != nil {
			return nil, err
		}
		c.db, c.ownsDB = db, true
	} else {
		catalogdb.RegisterModels(c.db)
	}
	if err := catalogdb.CreateSchema(ctx, c.db); err != nil {
		c.Close()
		return nil, err
	}

	if c.store == nil {
		store, err := cacheinfra.NewStore(ctx, cfg.Store)
		if err != nil {
			c.Close()
			return nil, err
		}
		c.store, c.ownsStore = store, true
	}

	cacheOpts := []repositorycache.Option{
		repositorycache.WithConfig(cfg.Cache),
		repositorycache.WithLogger(c.logger),
	}
	c.movies = repositorycache.New[catalogdb.Movie](catalogdb.NewMovieRepository(c.db), c.store, cacheOpts...)
	c.actors = repositorycache.New[catalogdb.Actor](catalogdb.NewActorRepository(c.db), c.store, cacheOpts...)
	c.genres = repositorycache.New[catalogdb.Genre](catalogdb.NewGenreRepository(c.db), c.store, cacheOpts...)
	c.links = catalogdb.NewAssociations(c.db)

	// Movies embed their genres and actors.
	c.actors.OnWrite(func(ctx context.Context, id int64) {
		c.refreshMovies(ctx, c.links.MoviesForActor, id)
	})
	c.genres.OnWrite(func(ctx context.Context, id int64) {
		c.refreshMovies(ctx, c.links.MoviesForGenre, id)
	})

	c.logger.Info("catalog container ready",
		"db_driver", cfg.DB.Driver,
		"cache_driver", string(cfg.Store.Driver),
		"cache_ttl", cfg.Cache.TTL,
	)
	return c, nil
}

// NewContainerWithDefaults creates a container using default configuration:
// in-memory SQLite and the in-process store.
func NewContainerWithDefaults(ctx context.Context, opts ...Option) (*Container, error) {
	return NewContainer(ctx, config.Default(), opts...)
}

func (c *Container) Movies() *repositorycache.CachedRepository[catalogdb.Movie] { return c.movies }
func (c *Container) Actors() *repositorycache.CachedRepository[catalogdb.Actor] { return c.actors }
func (c *Container) Genres() *repositorycache.CachedRepository[catalogdb.Genre] { return c.genres }

// Store returns the cache store shared by every repository.
func (c *Container) Store() cache.Store { return c.store }

// DB returns the database handle.
func (c *Container) DB() *bun.DB { return c.db }

func (c *Container) Logger() *slog.Logger { return c.logger }

// Config returns a copy of the configuration used by this container.
func (c *Container) Config() config.Config { return c.config }

// LinkGenre attaches a genre to a movie and invalidates the cached movie.
func (c *Container) LinkGenre(ctx context.Context, movieID, genreID int64) error {
	if err := c.links.LinkGenre(ctx, movieID, genreID); err != nil {
		return err
	}
	c.invalidateMovie(ctx, movieID)
	return nil
}

// UnlinkGenre detaches a genre from a movie and invalidates the cached movie.
func (c *Container) UnlinkGenre(ctx context.Context, movieID, genreID int64) error {
	if err := c.links.UnlinkGenre(ctx, movieID, genreID); err != nil {
		return err
	}
	c.invalidateMovie(ctx, movieID)
	return nil
}

// LinkActor attaches an actor to a movie and invalidates the cached movie.
func (c *Container) LinkActor(ctx context.Context, movieID, actorID int64) error {
	if err := c.links.LinkActor(ctx, movieID, actorID); err != nil {
		return err
	}
	c.invalidateMovie(ctx, movieID)
	return nil
}

// UnlinkActor detaches an actor from a movie and invalidates the cached movie.
func (c *Container) UnlinkActor(ctx context.Context, movieID, actorID int64) error {
	if err := c.links.UnlinkActor(ctx, movieID, actorID); err != nil {
		return err
	}
	c.invalidateMovie(ctx, movieID)
	return nil
}

// DeleteGenre deletes a genre and invalidates the movies that listed it. The
// links are read before the delete cascades them away.
func (c *Container) DeleteGenre(ctx context.Context, id int64) error {
	movieIDs, err := c.links.MoviesForGenre(ctx, id)
	if err != nil {
		return err
	}
	if err := c.genres.Delete(ctx, id); err != nil {
		return err
	}
	c.invalidateMovies(ctx, movieIDs)
	return nil
}

// DeleteActor deletes an actor and invalidates the movies that listed them.
func (c *Container) DeleteActor(ctx context.Context, id int64) error {
	movieIDs, err := c.links.MoviesForActor(ctx, id)
	if err != nil {
		return err
	}
	if err := c.actors.Delete(ctx, id); err != nil {
		return err
	}
	c.invalidateMovies(ctx, movieIDs)
	return nil
}

// Close releases the database and the store when the container opened them.
func (c *Container) Close() error {
	var errs []error
	if c.ownsStore {
		if closer, ok := c.store.(cache.Closer); ok {
			errs = append(errs, closer.Close())
		}
		c.ownsStore = false
	}
	if c.ownsDB && c.db != nil {
		errs = append(errs, c.db.Close())
		c.ownsDB = false
	}
	return errors.Join(errs...)
}

func (c *Container) invalidateMovie(ctx context.Context, movieID int64) {
	c.invalidateMovies(ctx, []int64{movieID})
}

func (c *Container) invalidateMovies(ctx context.Context, movieIDs []int64) {
	accessor := c.movies.Accessor()
	for _, id := range movieIDs {
		accessor.Invalidate(ctx, id)
	}
	if len(movieIDs) > 0 && accessor.PageInvalidation() {
		accessor.InvalidatePages(ctx)
	}
}

func (c *Container) refreshMovies(ctx context.Context, lookup func(context.Context, int64) ([]int64, error), id int64) {
	movieIDs, err := lookup(ctx, id)
	if err != nil {
		c.logger.WarnContext(ctx, "failed to resolve linked movies", "id", id, "error", err)
		return
	}
	c.invalidateMovies(ctx, movieIDs)
}
