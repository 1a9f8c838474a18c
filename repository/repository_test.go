package repository

import (
	"context"
	goerrors "errors"
	"fmt"
	"testing"
	"time"

	"github.com/mahsel79/FulkopingLibraryWeb-sub000/cache"
	"github.com/mahsel79/FulkopingLibraryWeb-sub000/model"
	"github.com/mahsel79/FulkopingLibraryWeb-sub000/pkg/errors"
	"github.com/mahsel79/FulkopingLibraryWeb-sub000/pkg/testsupport"
	"github.com/mahsel79/FulkopingLibraryWeb-sub000/store"
)

type fixture struct {
	store *testsupport.MemoryStore
	cache *cache.Cache[model.Book]
	repo  *Repository[model.Book]
	clock *manualClock
}

type manualClock struct {
	now time.Time
}

func (c *manualClock) Now() time.Time { return c.now }

func (c *manualClock) Advance(d time.Duration) { c.now = c.now.Add(d) }

func newFixture(t *testing.T, opts ...Option[model.Book]) *fixture {
	t.Helper()

	clock := &manualClock{now: time.Date(2024, 5, 17, 12, 0, 0, 0, time.UTC)}
	docs := testsupport.NewMemoryStore()
	entityCache := cache.New("books", cache.WithClock[model.Book](clock.Now))

	repo, err := New("books", docs, entityCache, opts...)
	if err != nil {
		t.Fatalf("failed to build repository: %v", err)
	}
	return &fixture{store: docs, cache: entityCache, repo: repo, clock: clock}
}

func book(id, title string) model.Book {
	return model.Book{ID: id, Title: title, Author: "Herbert", ItemType: string(model.ItemTypeBook), Available: true}
}

func TestNewRejectsUnmappableEntity(t *testing.T) {
	docs := testsupport.NewMemoryStore()
	if _, err := New("strings", docs, cache.New[string]("strings")); err == nil {
		t.Fatal("expected error for non-struct entity type")
	}
}

func TestSaveAssignsIDWhenMissing(t *testing.T) {
	f := newFixture(t, WithIDGenerator[model.Book](func() string { return "generated" }))

	saved, err := f.repo.Save(context.Background(), book("", "Dune"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if saved.ID != "generated" {
		t.Errorf("expected generated id, got %q", saved.ID)
	}
}

func TestSaveKeepsExistingID(t *testing.T) {
	f := newFixture(t)

	saved, err := f.repo.Save(context.Background(), book("b1", "Dune"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if saved.ID != "b1" {
		t.Errorf("expected id b1, got %q", saved.ID)
	}
}

func TestSaveCachesWrittenEntity(t *testing.T) {
	f := newFixture(t)

	if _, err := f.repo.Save(context.Background(), book("b1", "Dune")); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	gets := f.store.Calls("get")
	got, found, err := f.repo.FindByID(context.Background(), "b1")
	if err != nil || !found {
		t.Fatalf("expected cached entity, found=%v err=%v", found, err)
	}
	if got.Title != "Dune" {
		t.Errorf("expected Dune, got %s", got.Title)
	}
	if f.store.Calls("get") != gets {
		t.Error("expected read after save to be served from cache")
	}
}

func TestSaveWrapsStoreFailure(t *testing.T) {
	f := newFixture(t)
	f.store.FailNext("set", 1, fmt.Errorf("disk full"))

	_, err := f.repo.Save(context.Background(), book("b1", "Dune"))
	if err == nil {
		t.Fatal("expected error")
	}
	if !goerrors.Is(err, errors.ErrStore) {
		t.Errorf("expected store failure kind, got %v", err)
	}
}

func TestFindByIDFallsThroughOnMiss(t *testing.T) {
	f := newFixture(t)
	testsupport.SeedDocument(t, f.store, "books", "b1", book("b1", "Dune"))

	got, found, err := f.repo.FindByID(context.Background(), "b1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !found {
		t.Fatal("expected entity to be found")
	}
	if got.Title != "Dune" {
		t.Errorf("expected Dune, got %s", got.Title)
	}
	if f.store.Calls("get") != 1 {
		t.Errorf("expected one store get, got %d", f.store.Calls("get"))
	}

	// Second read is a cache hit.
	if _, _, err := f.repo.FindByID(context.Background(), "b1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if f.store.Calls("get") != 1 {
		t.Errorf("expected cache hit to skip the store, got %d gets", f.store.Calls("get"))
	}
}

func TestFindByIDRefetchesAfterTTL(t *testing.T) {
	f := newFixture(t)
	testsupport.SeedDocument(t, f.store, "books", "b1", book("b1", "Dune"))

	if _, _, err := f.repo.FindByID(context.Background(), "b1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	f.clock.Advance(cache.DefaultTTL)

	if _, _, err := f.repo.FindByID(context.Background(), "b1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if f.store.Calls("get") != 2 {
		t.Errorf("expected stale entry to trigger a refetch, got %d gets", f.store.Calls("get"))
	}
}

func TestFindByIDAbsentIsNotAnError(t *testing.T) {
	f := newFixture(t)

	_, found, err := f.repo.FindByID(context.Background(), "missing")
	if err != nil {
		t.Fatalf("expected no error for absent document, got %v", err)
	}
	if found {
		t.Error("expected found=false")
	}
}

func TestFindByIDWrapsStoreFailure(t *testing.T) {
	f := newFixture(t)
	f.store.FailNext("get", 1, fmt.Errorf("connection reset"))

	_, _, err := f.repo.FindByID(context.Background(), "b1")
	if !goerrors.Is(err, errors.ErrStore) {
		t.Errorf("expected store failure kind, got %v", err)
	}
}

func TestFindAllRepopulatesCache(t *testing.T) {
	f := newFixture(t)
	testsupport.SeedDocument(t, f.store, "books", "b1", book("b1", "Dune"))
	testsupport.SeedDocument(t, f.store, "books", "b2", book("b2", "Dune Messiah"))

	all, err := f.repo.FindAll(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(all) != 2 {
		t.Fatalf("expected 2 entities, got %d", len(all))
	}

	// Both ids should now hit the cache.
	for _, id := range []string{"b1", "b2"} {
		if _, _, err := f.repo.FindByID(context.Background(), id); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}
	if f.store.Calls("get") != 0 {
		t.Errorf("expected point reads to hit the cache, got %d gets", f.store.Calls("get"))
	}
}

func TestFindByField(t *testing.T) {
	f := newFixture(t)
	testsupport.SeedDocument(t, f.store, "books", "b1", book("b1", "Dune"))
	other := book("b2", "Foundation")
	other.Author = "Asimov"
	testsupport.SeedDocument(t, f.store, "books", "b2", other)

	got, err := f.repo.FindByField(context.Background(), "author", "Herbert")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 1 || got[0].ID != "b1" {
		t.Errorf("expected only b1, got %+v", got)
	}
}

func TestSearchAppliesCriteria(t *testing.T) {
	f := newFixture(t)
	testsupport.SeedDocument(t, f.store, "books", "b1", book("b1", "Dune"))
	testsupport.SeedDocument(t, f.store, "books", "b2", book("b2", "Dune Messiah"))
	testsupport.SeedDocument(t, f.store, "books", "b3", book("b3", "Children of Dune"))

	got, err := f.repo.Search(context.Background(), model.SearchCriteria{
		SearchTerm:    "Dune",
		SortField:     "title",
		SortDirection: model.SortDesc,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 prefix matches, got %d", len(got))
	}
	if got[0].Title != "Dune Messiah" || got[1].Title != "Dune" {
		t.Errorf("expected descending title order, got %+v", got)
	}
}

func TestUpdateMergesFields(t *testing.T) {
	f := newFixture(t)
	testsupport.SeedDocument(t, f.store, "books", "b1", book("b1", "Dune"))

	updated, err := f.repo.Update(context.Background(), "b1", store.FieldMap{"available": false})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if updated.Available {
		t.Error("expected availability to be updated")
	}
	if updated.Title != "Dune" || updated.Author != "Herbert" {
		t.Errorf("expected untouched fields to survive, got %+v", updated)
	}
}

func TestUpdateIgnoresIDField(t *testing.T) {
	f := newFixture(t)
	testsupport.SeedDocument(t, f.store, "books", "b1", book("b1", "Dune"))

	updated, err := f.repo.Update(context.Background(), "b1", store.FieldMap{"id": "hijacked", "title": "Dune (revised)"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if updated.ID != "b1" {
		t.Errorf("expected id to stay b1, got %q", updated.ID)
	}
	if updated.Title != "Dune (revised)" {
		t.Errorf("expected title to change, got %q", updated.Title)
	}
}

func TestUpdateRejectsEmptyFieldSet(t *testing.T) {
	f := newFixture(t)

	_, err := f.repo.Update(context.Background(), "b1", nil)
	if !goerrors.Is(err, errors.ErrValidation) {
		t.Errorf("expected validation failure, got %v", err)
	}
}

func TestUpdateRefreshesCache(t *testing.T) {
	f := newFixture(t)
	testsupport.SeedDocument(t, f.store, "books", "b1", book("b1", "Dune"))

	if _, _, err := f.repo.FindByID(context.Background(), "b1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := f.repo.Update(context.Background(), "b1", store.FieldMap{"available": false}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	got, _, err := f.repo.FindByID(context.Background(), "b1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Available {
		t.Error("expected cache to hold the updated entity")
	}
}

func TestDeleteByIDIsIdempotent(t *testing.T) {
	f := newFixture(t)
	testsupport.SeedDocument(t, f.store, "books", "b1", book("b1", "Dune"))

	if !f.repo.DeleteByID(context.Background(), "b1") {
		t.Error("expected first delete to report true")
	}
	if f.repo.DeleteByID(context.Background(), "b1") {
		t.Error("expected second delete to report false")
	}
}

func TestDeleteByIDEvictsCache(t *testing.T) {
	f := newFixture(t)
	testsupport.SeedDocument(t, f.store, "books", "b1", book("b1", "Dune"))

	if _, _, err := f.repo.FindByID(context.Background(), "b1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	f.repo.DeleteByID(context.Background(), "b1")

	_, found, err := f.repo.FindByID(context.Background(), "b1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if found {
		t.Error("expected deleted entity to be gone from the cache too")
	}
}

func TestSaveAllWritesBatchAndCaches(t *testing.T) {
	f := newFixture(t)

	saved, err := f.repo.SaveAll(context.Background(), []model.Book{
		book("b1", "Dune"),
		book("", "Dune Messiah"),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(saved) != 2 {
		t.Fatalf("expected 2 saved entities, got %d", len(saved))
	}
	for _, s := range saved {
		if s.ID == "" {
			t.Error("expected every saved entity to carry an id")
		}
	}

	n, err := f.repo.Count(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if n != 2 {
		t.Errorf("expected count 2, got %d", n)
	}
}

func TestSaveAllFailureCachesNothing(t *testing.T) {
	f := newFixture(t)
	f.store.FailNext("set_batch", 1, fmt.Errorf("write refused"))

	_, err := f.repo.SaveAll(context.Background(), []model.Book{book("b1", "Dune")})
	if !goerrors.Is(err, errors.ErrStore) {
		t.Fatalf("expected store failure kind, got %v", err)
	}
	if f.cache.Len() != 0 {
		t.Errorf("expected nothing cached after batch failure, Len = %d", f.cache.Len())
	}
}

func TestSaveAllEmptySliceIsNoop(t *testing.T) {
	f := newFixture(t)

	saved, err := f.repo.SaveAll(context.Background(), nil)
	if err != nil || saved != nil {
		t.Errorf("expected no-op, got %v, %v", saved, err)
	}
	if f.store.Calls("set_batch") != 0 {
		t.Error("expected no store access for an empty batch")
	}
}

func TestDeleteAllClearsEverything(t *testing.T) {
	f := newFixture(t)
	testsupport.SeedDocument(t, f.store, "books", "b1", book("b1", "Dune"))
	if _, _, err := f.repo.FindByID(context.Background(), "b1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !f.repo.DeleteAll(context.Background()) {
		t.Fatal("expected delete all to succeed")
	}
	if f.cache.Len() != 0 {
		t.Errorf("expected empty cache, Len = %d", f.cache.Len())
	}

	n, err := f.repo.Count(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if n != 0 {
		t.Errorf("expected empty collection, count = %d", n)
	}
}

func TestDeleteAllReportsFailure(t *testing.T) {
	f := newFixture(t)
	f.store.FailNext("delete_collection", 1, fmt.Errorf("locked"))

	if f.repo.DeleteAll(context.Background()) {
		t.Error("expected failure to report false")
	}
}

func TestCountWrapsStoreFailure(t *testing.T) {
	f := newFixture(t)
	f.store.FailNext("count", 1, fmt.Errorf("timeout"))

	_, err := f.repo.Count(context.Background())
	if !goerrors.Is(err, errors.ErrStore) {
		t.Errorf("expected store failure kind, got %v", err)
	}
}

func TestCancelledContextSurfacesAsStoreFailure(t *testing.T) {
	f := newFixture(t)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := f.repo.FindAll(ctx)
	if !goerrors.Is(err, errors.ErrStore) {
		t.Errorf("expected store failure kind, got %v", err)
	}
	if !goerrors.Is(err, context.Canceled) {
		t.Errorf("expected cause to remain visible, got %v", err)
	}
}
