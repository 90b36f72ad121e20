package catalogdb

import (
	"context"
	"time"

	"github.com/goliatone/go-catalog-cache/cache"
	"github.com/uptrace/bun"
)

// immutableColumns lists columns an update must leave untouched.
type immutableColumns interface {
	immutableColumns() []string
}

// Record is implemented by every catalog model.
type Record interface {
	EntityID() int64
	EntityKind() cache.Kind
}

var (
	_ Record = Movie{}
	_ Record = Actor{}
	_ Record = Genre{}

	_ bun.BeforeAppendModelHook = (*Movie)(nil)
)

type Movie struct {
	bun.BaseModel `bun:"table:movies,alias:m" json:"-" msgpack:"-"`

	ID          int64      `bun:"id,pk,autoincrement" json:"id"`
	Title       string     `bun:"title,notnull" json:"title"`
	ReleaseDate *time.Time `bun:"release_date" json:"release_date,omitempty"`
	Duration    int        `bun:"duration" json:"duration"`
	Description string     `bun:"description" json:"description"`
	Language    string     `bun:"language" json:"language"`
	Country     string     `bun:"country" json:"country"`
	Poster      string     `bun:"poster" json:"poster"`
	Trailer     string     `bun:"trailer" json:"trailer"`
	Streaming   string     `bun:"streaming" json:"streaming"`
	Rating      float64    `bun:"rating" json:"rating"`
	CreatedAt   time.Time  `bun:"created_at,nullzero,notnull,default:current_timestamp" json:"created_at"`
	UpdatedAt   time.Time  `bun:"updated_at,nullzero,notnull,default:current_timestamp" json:"updated_at"`

	Genres []Genre `bun:"m2m:movie_genres,join:Movie=Genre" json:"genres,omitempty"`
	Actors []Actor `bun:"m2m:movie_actors,join:Movie=Actor" json:"actors,omitempty"`
}

func (m Movie) EntityID() int64        { return m.ID }
func (m Movie) EntityKind() cache.Kind { return cache.KindMovie }

func (Movie) immutableColumns() []string { return []string{"created_at"} }

// BeforeAppendModel keeps the timestamps current on insert and update.
func (m *Movie) BeforeAppendModel(ctx context.Context, query bun.Query) error {
	now := time.Now().UTC()
	switch query.(type) {
	case *bun.InsertQuery:
		if m.CreatedAt.IsZero() {
			m.CreatedAt = now
		}
		m.UpdatedAt = now
	case *bun.UpdateQuery:
		m.UpdatedAt = now
	}
	return nil
}

type Actor struct {
	bun.BaseModel `bun:"table:actors,alias:a" json:"-" msgpack:"-"`

	ID        int64      `bun:"id,pk,autoincrement" json:"id"`
	FirstName string     `bun:"first_name,notnull" json:"first_name"`
	LastName  string     `bun:"last_name,notnull" json:"last_name"`
	BirthDate *time.Time `bun:"birth_date" json:"birth_date,omitempty"`
	Bio       string     `bun:"bio" json:"bio"`
}

func (a Actor) EntityID() int64        { return a.ID }
func (a Actor) EntityKind() cache.Kind { return cache.KindActor }

type Genre struct {
	bun.BaseModel `bun:"table:genres,alias:g" json:"-" msgpack:"-"`

	ID   int64  `bun:"id,pk,autoincrement" json:"id"`
	Name string `bun:"name,notnull,unique" json:"name"`
}

func (g Genre) EntityID() int64        { return g.ID }
func (g Genre) EntityKind() cache.Kind { return cache.KindGenre }

// MovieGenre is the movie_genres join table.
type MovieGenre struct {
	bun.BaseModel `bun:"table:movie_genres,alias:mg"`

	MovieID int64  `bun:"movie_id,pk"`
	Movie   *Movie `bun:"rel:belongs-to,join:movie_id=id"`
	GenreID int64  `bun:"genre_id,pk"`
	Genre   *Genre `bun:"rel:belongs-to,join:genre_id=id"`
}

// MovieActor is the movie_actors join table.
type MovieActor struct {
	bun.BaseModel `bun:"table:movie_actors,alias:ma"`

	MovieID int64  `bun:"movie_id,pk"`
	Movie   *Movie `bun:"rel:belongs-to,join:movie_id=id"`
	ActorID int64  `bun:"actor_id,pk"`
	Actor   *Actor `bun:"rel:belongs-to,join:actor_id=id"`
}
