package catalogdb

import (
	"context"
	"fmt"

	"github.com/uptrace/bun"
)

// SeedMovies inserts count movies titled "Movie 1".."Movie N" in id order.
func SeedMovies(ctx context.Context, db bun.IDB, count int) ([]Movie, error) {
	repo := NewMovieRepository(db)
	movies := make([]Movie, 0, count)
	for i := 1; i <= count; i++ {
		movie, err := repo.Create(ctx, Movie{
			Title:     fmt.Sprintf("Movie %d", i),
			Duration:  90 + i,
			Language:  "en",
			Streaming: fmt.Sprintf("https://stream.example.com/movies/%d", i),
			Rating:    float64(i%10) / 2,
		})
		if err != nil {
			return nil, err
		}
		movies = append(movies, movie)
	}
	return movies, nil
}

// SeedGenres inserts one genre per name.
func SeedGenres(ctx context.Context, db bun.IDB, names ...string) ([]Genre, error) {
	repo := NewGenreRepository(db)
	genres := make([]Genre, 0, len(names))
	for _, name := range names {
		genre, err := repo.Create(ctx, Genre{Name: name})
		if err != nil {
			return nil, err
		}
		genres = append(genres, genre)
	}
	return genres, nil
}

// SeedActors inserts count actors named "Actor N".
func SeedActors(ctx context.Context, db bun.IDB, count int) ([]Actor, error) {
	repo := NewActorRepository(db)
	actors := make([]Actor, 0, count)
	for i := 1; i <= count; i++ {
		actor, err := repo.Create(ctx, Actor{
			FirstName: "Actor",
			LastName:  fmt.Sprintf("%d", i),
		})
		if err != nil {
			return nil, err
		}
		actors = append(actors, actor)
	}
	return actors, nil
}
