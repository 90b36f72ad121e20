package catalogdb

import (
	"context"

	"github.com/goliatone/go-catalog-cache/cache"
	"github.com/uptrace/bun"
)

// Associations manages the movie_genres and movie_actors join tables.
type Associations struct {
	db bun.IDB
}

func NewAssociations(db bun.IDB) *Associations {
	return &Associations{db: db}
}

// LinkGenre attaches a genre to a movie. Linking twice is a no-op.
func (a *Associations) LinkGenre(ctx context.Context, movieID, genreID int64) error {
	link := &MovieGenre{MovieID: movieID, GenreID: genreID}
	if _, err := a.db.NewInsert().Model(link).On("CONFLICT DO NOTHING").Exec(ctx); err != nil {
		return errQuery(err, cache.KindMovie, "link genre")
	}
	return nil
}

// UnlinkGenre detaches a genre from a movie.
func (a *Associations) UnlinkGenre(ctx context.Context, movieID, genreID int64) error {
	_, err := a.db.NewDelete().
		Model((*MovieGenre)(nil)).
		Where("movie_id = ?", movieID).
		Where("genre_id = ?", genreID).
		Exec(ctx)
	if err != nil {
		return errQuery(err, cache.KindMovie, "unlink genre")
	}
	return nil
}

// LinkActor attaches an actor to a movie. Linking twice is a no-op.
func (a *Associations) LinkActor(ctx context.Context, movieID, actorID int64) error {
	link := &MovieActor{MovieID: movieID, ActorID: actorID}
	if _, err := a.db.NewInsert().Model(link).On("CONFLICT DO NOTHING").Exec(ctx); err != nil {
		return errQuery(err, cache.KindMovie, "link actor")
	}
	return nil
}

// UnlinkActor detaches an actor from a movie.
func (a *Associations) UnlinkActor(ctx context.Context, movieID, actorID int64) error {
	_, err := a.db.NewDelete().
		Model((*MovieActor)(nil)).
		Where("movie_id = ?", movieID).
		Where("actor_id = ?", actorID).
		Exec(ctx)
	if err != nil {
		return errQuery(err, cache.KindMovie, "unlink actor")
	}
	return nil
}

// MoviesForGenre lists the ids of movies linked to a genre, ascending.
func (a *Associations) MoviesForGenre(ctx context.Context, genreID int64) ([]int64, error) {
	var ids []int64
	err := a.db.NewSelect().
		Model((*MovieGenre)(nil)).
		Column("movie_id").
		Where("genre_id = ?", genreID).
		Order("movie_id ASC").
		Scan(ctx, &ids)
	if err != nil {
		return nil, errQuery(err, cache.KindGenre, "list movies")
	}
	return ids, nil
}

// MoviesForActor lists the ids of movies linked to an actor, ascending.
func (a *Associations) MoviesForActor(ctx context.Context, actorID int64) ([]int64, error) {
	var ids []int64
	err := a.db.NewSelect().
		Model((*MovieActor)(nil)).
		Column("movie_id").
		Where("actor_id = ?", actorID).
		Order("movie_id ASC").
		Scan(ctx, &ids)
	if err != nil {
		return nil, errQuery(err, cache.KindActor, "list movies")
	}
	return ids, nil
}
