package testsupport

import (
	"context"
	"fmt"
	"testing"

	"github.com/goliatone/go-catalog-cache/internal/catalogdb"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// OpenCatalogDB opens a private in-memory SQLite catalog with the schema created.
// The database is closed when the test ends.
func OpenCatalogDB(t testing.TB) *bun.DB {
	t.Helper()

	ctx := context.Background()
	db, err := catalogdb.Open(ctx, CatalogDBConfig())
	if err != nil {
		t.Fatalf("failed to open catalog database: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	if err := catalogdb.CreateSchema(ctx, db); err != nil {
		t.Fatalf("failed to create catalog schema: %v", err)
	}
	return db
}

// CatalogDBConfig returns a SQLite config naming a fresh in-memory database, so
// parallel tests never share tables.
func CatalogDBConfig() catalogdb.Config {
	return catalogdb.Config{
		Driver: catalogdb.DriverSQLite,
		DSN:    fmt.Sprintf("file:catalog-%s?mode=memory&cache=shared&_foreign_keys=on", uuid.NewString()),
	}
}

// SeedCatalog inserts the embedded fixture catalog and links every movie to the
// first genre and the first actor.
func SeedCatalog(t testing.TB, db bun.IDB) CatalogFixture {
	t.Helper()

	ctx := context.Background()
	fixture := LoadCatalog(t)

	movies := catalogdb.NewMovieRepository(db)
	for i, m := range fixture.Movies {
		created, err := movies.Create(ctx, m)
		if err != nil {
			t.Fatalf("failed to seed movie %q: %v", m.Title, err)
		}
		fixture.Movies[i] = created
	}
	actors := catalogdb.NewActorRepository(db)
	for i, a := range fixture.Actors {
		created, err := actors.Create(ctx, a)
		if err != nil {
			t.Fatalf("failed to seed actor %q: %v", a.LastName, err)
		}
		fixture.Actors[i] = created
	}
	genres := catalogdb.NewGenreRepository(db)
	for i, g := range fixture.Genres {
		created, err := genres.Create(ctx, g)
		if err != nil {
			t.Fatalf("failed to seed genre %q: %v", g.Name, err)
		}
		fixture.Genres[i] = created
	}

	links := catalogdb.NewAssociations(db)
	for _, m := range fixture.Movies {
		if err := links.LinkGenre(ctx, m.ID, fixture.Genres[0].ID); err != nil {
			t.Fatalf("failed to link genre: %v", err)
		}
		if err := links.LinkActor(ctx, m.ID, fixture.Actors[0].ID); err != nil {
			t.Fatalf("failed to link actor: %v", err)
		}
	}
	return fixture
}
