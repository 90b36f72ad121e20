package catalogdb

import (
	"context"
	"database/sql"
	"errors"

	"github.com/goliatone/go-catalog-cache/cache"
	"github.com/uptrace/bun"
)

// Repository is a bun backed store for one catalog model.
type Repository[T Record] struct {
	db        bun.IDB
	kind      cache.Kind
	relations []string
}

// NewRepository builds a repository for T. Relations are loaded on every read.
func NewRepository[T Record](db bun.IDB, relations ...string) *Repository[T] {
	var zero T
	return &Repository[T]{
		db:        db,
		kind:      zero.EntityKind(),
		relations: relations,
	}
}

// NewMovieRepository loads genres and actors with every movie.
func NewMovieRepository(db bun.IDB) *Repository[Movie] {
	return NewRepository[Movie](db, "Genres", "Actors")
}

func NewActorRepository(db bun.IDB) *Repository[Actor] {
	return NewRepository[Actor](db)
}

func NewGenreRepository(db bun.IDB) *Repository[Genre] {
	return NewRepository[Genre](db)
}

// Kind returns the entity kind served by the repository.
func (r *Repository[T]) Kind() cache.Kind { return r.kind }

// FindByID returns the record with id or a not_found error.
func (r *Repository[T]) FindByID(ctx context.Context, id int64) (T, error) {
	var record T

	q := r.db.NewSelect().Model(&record).Where("?TableAlias.id = ?", id)
	for _, rel := range r.relations {
		q = q.Relation(rel)
	}

	if err := q.Scan(ctx); err != nil {
		var zero T
		if errors.Is(err, sql.ErrNoRows) {
			return zero, errNotFound(r.kind, id)
		}
		return zero, errQuery(err, r.kind, "find")
	}
	return record, nil
}

// FindPage returns up to limit records after skipping skip, ordered by id ascending.
// An empty slice is not an error.
func (r *Repository[T]) FindPage(ctx context.Context, skip, limit int) ([]T, error) {
	records := make([]T, 0, limit)

	q := r.db.NewSelect().
		Model(&records).
		OrderExpr("?TableAlias.id ASC").
		Offset(skip).
		Limit(limit)
	for _, rel := range r.relations {
		q = q.Relation(rel)
	}

	if err := q.Scan(ctx); err != nil && !errors.Is(err, sql.ErrNoRows) {
		return nil, errQuery(err, r.kind, "list")
	}
	return records, nil
}

// Count returns the number of stored records.
func (r *Repository[T]) Count(ctx context.Context) (int, error) {
	n, err := r.db.NewSelect().Model((*T)(nil)).Count(ctx)
	if err != nil {
		return 0, errQuery(err, r.kind, "count")
	}
	return n, nil
}

// Create inserts record and returns it with its assigned id.
func (r *Repository[T]) Create(ctx context.Context, record T) (T, error) {
	if _, err := r.db.NewInsert().Model(&record).Exec(ctx); err != nil {
		var zero T
		return zero, errQuery(err, r.kind, "create")
	}
	return record, nil
}

// Update overwrites the stored columns of record, matched by primary key.
func (r *Repository[T]) Update(ctx context.Context, record T) (T, error) {
	q := r.db.NewUpdate().Model(&record).WherePK()
	if ic, ok := any(record).(immutableColumns); ok {
		q = q.ExcludeColumn(ic.immutableColumns()...)
	}

	res, err := q.Exec(ctx)
	if err != nil {
		var zero T
		return zero, errQuery(err, r.kind, "update")
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		var zero T
		return zero, errNotFound(r.kind, record.EntityID())
	}
	return record, nil
}

// Delete removes the record with id. Join rows go with it through ON DELETE CASCADE.
func (r *Repository[T]) Delete(ctx context.Context, id int64) error {
	res, err := r.db.NewDelete().Model((*T)(nil)).Where("id = ?", id).Exec(ctx)
	if err != nil {
		return errQuery(err, r.kind, "delete")
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return errNotFound(r.kind, id)
	}
	return nil
}
