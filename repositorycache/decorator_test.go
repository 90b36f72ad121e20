package repositorycache

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"github.com/goliatone/go-catalog-cache/pkg/testsupport"
)

func TestNew(t *testing.T) {
	baseRepo := newMockRepository()
	store := testsupport.NewFakeStore()

	cached := New[testRecord](baseRepo, store)
	if cached == nil {
		t.Fatal("New returned nil")
	}
	if cached.base != baseRepo {
		t.Error("base repository not set correctly")
	}
	if cached.Accessor().Kind() != "movie" {
		t.Errorf("expected kind taken from the record type, got %s", cached.Accessor().Kind())
	}
	if !cached.Accessor().PageInvalidation() {
		t.Error("expected page invalidation on by default")
	}
}

func TestCachedReadMethods(t *testing.T) {
	ctx := context.Background()
	baseRepo := newMockRepositoryRange(1, 3)
	store := testsupport.NewFakeStore()
	cached := New[testRecord](baseRepo, store)

	record, err := cached.GetByID(ctx, 2)
	if err != nil || record.ID != 2 {
		t.Fatalf("GetByID failed: %+v, %v", record, err)
	}
	records, err := cached.List(ctx, 1, 20)
	if err != nil || len(records) != 3 {
		t.Fatalf("List failed: %v, %v", records, err)
	}

	baseRepo.clearCalls()
	if _, err := cached.FindByID(ctx, 2); err != nil {
		t.Fatalf("FindByID failed: %v", err)
	}
	if _, err := cached.List(ctx, 1, 20); err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if calls := baseRepo.getCalls(); len(calls) != 0 {
		t.Errorf("expected reads to be served from cache, got %v", calls)
	}

	// Arbitrary offsets bypass the cache.
	if _, err := cached.FindPage(ctx, 1, 1); err != nil {
		t.Fatalf("FindPage failed: %v", err)
	}
	if calls := baseRepo.getCalls(); !reflect.DeepEqual(calls, []string{"FindPage:1:1"}) {
		t.Errorf("expected FindPage to reach the base, got %v", calls)
	}
}

func TestCachedReadMethods_ErrorPropagation(t *testing.T) {
	ctx := context.Background()
	baseRepo := newMockRepository()
	cached := New[testRecord](baseRepo, testsupport.NewFakeStore())

	if _, err := cached.GetByID(ctx, 1); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
	if _, err := cached.List(ctx, 1, 20); !errors.Is(err, ErrNoRecords) {
		t.Errorf("expected ErrNoRecords, got %v", err)
	}

	baseRepo.findErr = errors.New("connection reset")
	if _, err := cached.GetByID(ctx, 1); !IsStoreFailure(err) {
		t.Errorf("expected store failure, got %v", err)
	}
	if _, err := cached.List(ctx, 1, 20); !IsStoreFailure(err) {
		t.Errorf("expected store failure, got %v", err)
	}
}

func TestWriteMethods_Invalidate(t *testing.T) {
	tests := []struct {
		name  string
		write func(ctx context.Context, c *CachedRepository[testRecord]) error
	}{
		{
			name: "update",
			write: func(ctx context.Context, c *CachedRepository[testRecord]) error {
				_, err := c.Update(ctx, testRecord{ID: 1, Title: "Renamed"})
				return err
			},
		},
		{
			name: "delete",
			write: func(ctx context.Context, c *CachedRepository[testRecord]) error {
				return c.Delete(ctx, 1)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := context.Background()
			baseRepo := newMockRepositoryRange(1, 3)
			store := testsupport.NewFakeStore()
			cached := New[testRecord](baseRepo, store)

			cached.GetByID(ctx, 1)
			cached.GetByID(ctx, 2)
			cached.List(ctx, 1, 20)

			if err := tt.write(ctx, cached); err != nil {
				t.Fatalf("write failed: %v", err)
			}
			if !reflect.DeepEqual(store.Keys(), []string{"movie_2"}) {
				t.Errorf("expected only movie_2 to survive, got %v", store.Keys())
			}

			calls := store.Calls()
			if calls[len(calls)-2] != "Delete:movie_1" {
				t.Errorf("expected item invalidation before page invalidation, got %v", calls)
			}
		})
	}
}

func TestWriteMethods_Create(t *testing.T) {
	ctx := context.Background()
	baseRepo := newMockRepositoryRange(1, 2)
	store := testsupport.NewFakeStore()
	cached := New[testRecord](baseRepo, store)

	cached.List(ctx, 1, 20)

	created, err := cached.Create(ctx, testRecord{Title: "Fresh"})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if created.ID != 3 {
		t.Errorf("expected id 3, got %d", created.ID)
	}
	if store.Has("movie_page_1_limit_20") {
		t.Error("expected page to be invalidated after create")
	}

	records, err := cached.List(ctx, 1, 20)
	if err != nil || len(records) != 3 {
		t.Errorf("expected the new record in the next page read, got %v, %v", records, err)
	}
}

func TestWriteMethods_FailureSkipsInvalidation(t *testing.T) {
	ctx := context.Background()
	baseRepo := newMockRepositoryRange(1, 2)
	store := testsupport.NewFakeStore()
	cached := New[testRecord](baseRepo, store)
	hookCalls := 0
	cached.OnWrite(func(context.Context, int64) { hookCalls++ })

	cached.GetByID(ctx, 1)
	baseRepo.deleteErr = errors.New("constraint failed")
	baseRepo.writeErr = errors.New("constraint failed")

	if err := cached.Delete(ctx, 1); err == nil {
		t.Fatal("expected delete error")
	}
	if _, err := cached.Update(ctx, testRecord{ID: 1}); err == nil {
		t.Fatal("expected update error")
	}
	if !store.Has("movie_1") {
		t.Error("failed writes must not invalidate")
	}
	if hookCalls != 0 {
		t.Errorf("expected no hook calls, got %d", hookCalls)
	}
}

func TestWriteMethods_PageInvalidationDisabled(t *testing.T) {
	ctx := context.Background()
	baseRepo := newMockRepositoryRange(1, 3)
	store := testsupport.NewFakeStore()
	cached := New[testRecord](baseRepo, store, WithPageInvalidation(false))

	cached.GetByID(ctx, 1)
	cached.List(ctx, 1, 20)
	if err := cached.Delete(ctx, 1); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}

	if store.Has("movie_1") {
		t.Error("expected item key to be invalidated")
	}
	if !store.Has("movie_page_1_limit_20") {
		t.Error("expected page key to survive with page invalidation off")
	}
}

func TestWriteHooks(t *testing.T) {
	ctx := context.Background()
	baseRepo := newMockRepositoryRange(1, 3)
	cached := New[testRecord](baseRepo, testsupport.NewFakeStore())

	var seen []int64
	cached.OnWrite(func(_ context.Context, id int64) { seen = append(seen, id) })

	cached.Update(ctx, testRecord{ID: 2, Title: "Two"})
	cached.Delete(ctx, 3)
	created, _ := cached.Create(ctx, testRecord{Title: "Four"})

	expected := []int64{2, 3, created.ID}
	if !reflect.DeepEqual(seen, expected) {
		t.Errorf("expected hook ids %v, got %v", expected, seen)
	}
}

func TestCacheScenarios_WithFixtures(t *testing.T) {
	ctx := context.Background()
	fixture := testsupport.LoadCatalog(t)

	baseRepo := newMockRepository()
	for _, m := range fixture.Movies {
		baseRepo.records[m.ID] = testRecord{ID: m.ID, Title: m.Title}
		if m.ID > baseRepo.nextID {
			baseRepo.nextID = m.ID
		}
	}
	store := testsupport.NewFakeStore()
	cached := New[testRecord](baseRepo, store)

	records, err := cached.List(ctx, 1, 2)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if records[0].Title != fixture.Movies[0].Title || records[1].Title != fixture.Movies[1].Title {
		t.Errorf("unexpected first page %v", records)
	}

	payload, ok := store.Value("movie_page_1_limit_2")
	if !ok {
		t.Fatal("expected first page to be cached")
	}
	testsupport.CompareWithGolden(t, testsupport.GoldenPath("movie_page_1_limit_2.json"), payload)
}
