package catalogdb

import (
	"context"
	"fmt"

	"github.com/uptrace/bun"
)

// CreateSchema creates the catalog tables when they do not exist yet.
func CreateSchema(ctx context.Context, db bun.IDB) error {
	for _, model := range []any{(*Movie)(nil), (*Actor)(nil), (*Genre)(nil)} {
		if _, err := db.NewCreateTable().Model(model).IfNotExists().Exec(ctx); err != nil {
			return errDatabase(err, fmt.Sprintf("create table %T", model))
		}
	}

	joins := []struct {
		model  any
		column string
		table  string
	}{
		{(*MovieGenre)(nil), "genre_id", "genres"},
		{(*MovieActor)(nil), "actor_id", "actors"},
	}
	for _, j := range joins {
		_, err := db.NewCreateTable().
			Model(j.model).
			IfNotExists().
			ForeignKey(`("movie_id") REFERENCES "movies" ("id") ON DELETE CASCADE`).
			ForeignKey(fmt.Sprintf(`(%q) REFERENCES %q ("id") ON DELETE CASCADE`, j.column, j.table)).
			Exec(ctx)
		if err != nil {
			return errDatabase(err, fmt.Sprintf("create table %T", j.model))
		}
	}
	return nil
}

// DropSchema drops every catalog table.
func DropSchema(ctx context.Context, db bun.IDB) error {
	for _, model := range []any{(*MovieGenre)(nil), (*MovieActor)(nil), (*Movie)(nil), (*Actor)(nil), (*Genre)(nil)} {
		if _, err := db.NewDropTable().Model(model).IfExists().Exec(ctx); err != nil {
			return errDatabase(err, fmt.Sprintf("drop table %T", model))
		}
	}
	return nil
}
