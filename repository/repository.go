package repository

import (
	"context"
	goerrors "errors"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/mahsel79/FulkopingLibraryWeb-sub000/cache"
	"github.com/mahsel79/FulkopingLibraryWeb-sub000/mapper"
	"github.com/mahsel79/FulkopingLibraryWeb-sub000/model"
	"github.com/mahsel79/FulkopingLibraryWeb-sub000/pkg/errors"
	"github.com/mahsel79/FulkopingLibraryWeb-sub000/query"
	"github.com/mahsel79/FulkopingLibraryWeb-sub000/store"
)

// idField is the document field that carries the entity identifier.
const idField = "id"

// Observer receives repository-level events. Implemented by pkg/metrics.
type Observer interface {
	StoreRoundTrip(collection, op string)
}

// Repository provides cached CRUD and criteria search over one document
// collection. Reads consult the TTL cache first; every successful store
// read or write refreshes it. Store failures, including cancellation of a
// blocking call, are wrapped into the single STORE_FAILURE kind. A missing
// document on point lookup is an absent result, not an error.
type Repository[T any] struct {
	collection  string
	store       store.DocumentStore
	cache       *cache.Cache[T]
	searchField string
	logger      *zap.Logger
	observer    Observer
	newID       func() string
}

// Option customizes a Repository.
type Option[T any] func(*Repository[T])

// WithLogger attaches a logger; a no-op logger is used otherwise.
func WithLogger[T any](l *zap.Logger) Option[T] {
	return func(r *Repository[T]) {
		if l != nil {
			r.logger = l
		}
	}
}

// WithSearchField sets the field free-text criteria terms match against.
func WithSearchField[T any](field string) Option[T] {
	return func(r *Repository[T]) {
		if field != "" {
			r.searchField = field
		}
	}
}

// WithObserver attaches a metrics observer.
func WithObserver[T any](o Observer) Option[T] {
	return func(r *Repository[T]) { r.observer = o }
}

// WithIDGenerator overrides how identifiers are assigned on first save.
func WithIDGenerator[T any](gen func() string) Option[T] {
	return func(r *Repository[T]) {
		if gen != nil {
			r.newID = gen
		}
	}
}

// New builds a repository over the given collection. It fails when T is not
// mappable, so a miswired entity type is caught at assembly time rather
// than on the first conversion.
func New[T any](collection string, docs store.DocumentStore, entityCache *cache.Cache[T], opts ...Option[T]) (*Repository[T], error) {
	if err := mapper.ValidateEntityType[T](); err != nil {
		return nil, err
	}

	r := &Repository[T]{
		collection:  collection,
		store:       docs,
		cache:       entityCache,
		searchField: query.DefaultSearchField,
		logger:      zap.NewNop(),
		newID:       func() string { return uuid.New().String() },
	}
	for _, opt := range opts {
		opt(r)
	}
	return r, nil
}

// Collection returns the collection this repository manages.
func (r *Repository[T]) Collection() string { return r.collection }

// Save writes the entity, assigning a fresh identifier when none is set,
// then reads the persisted document back and refreshes the cache with it.
func (r *Repository[T]) Save(ctx context.Context, entity T) (T, error) {
	var zero T

	doc, err := mapper.ToFieldMap(entity)
	if err != nil {
		r.logger.Error("entity conversion failed",
			zap.String("collection", r.collection), zap.Error(err))
		return zero, err
	}

	id, _ := doc[idField].(string)
	if id == "" {
		id = r.newID()
		doc[idField] = id
	}

	r.roundTrip("set")
	if err := r.store.Set(ctx, r.collection, id, doc); err != nil {
		return zero, r.storeFailure("set", err)
	}

	return r.readBack(ctx, id)
}

// FindByID returns the entity and true when it exists, the zero value and
// false when the store has no such document. Fresh cache entries
// short-circuit the store entirely.
func (r *Repository[T]) FindByID(ctx context.Context, id string) (T, bool, error) {
	var zero T

	if cached, ok := r.cache.Get(id); ok {
		return cached, true, nil
	}
	r.logger.Debug("cache miss",
		zap.String("collection", r.collection), zap.String("id", id))

	r.roundTrip("get")
	doc, err := r.store.Get(ctx, r.collection, id)
	if err != nil {
		if goerrors.Is(err, store.ErrNotFound) {
			return zero, false, nil
		}
		return zero, false, r.storeFailure("get", err)
	}

	entity, err := mapper.ToEntity[T](doc)
	if err != nil {
		r.logger.Error("entity conversion failed",
			zap.String("collection", r.collection), zap.String("id", id), zap.Error(err))
		return zero, false, err
	}

	r.cache.Put(id, entity)
	return entity, true, nil
}

// FindAll scans the whole collection. It always bypasses the cache for
// completeness but repopulates it with every entity read.
func (r *Repository[T]) FindAll(ctx context.Context) ([]T, error) {
	return r.runQuery(ctx, store.Query{})
}

// FindByField returns every entity whose field equals value.
func (r *Repository[T]) FindByField(ctx context.Context, field, value string) ([]T, error) {
	criteria := model.SearchCriteria{FilterField: field, FilterValue: value}
	return r.runQuery(ctx, query.Translate(criteria, r.searchField))
}

// Search runs a criteria query (term prefix, equality filter, sort)
// translated into the store's native query shape.
func (r *Repository[T]) Search(ctx context.Context, criteria model.SearchCriteria) ([]T, error) {
	return r.runQuery(ctx, query.Translate(criteria, r.searchField))
}

// Update applies a partial update: only the supplied fields change in the
// store. The cache is refreshed from a fresh read so it never holds a
// partially applied view.
func (r *Repository[T]) Update(ctx context.Context, id string, fields store.FieldMap) (T, error) {
	var zero T

	if len(fields) == 0 {
		return zero, errors.NewValidation("no fields to update")
	}

	// The identifier is immutable once assigned.
	updates := fields.Clone()
	delete(updates, idField)

	r.roundTrip("update")
	if err := r.store.UpdateFields(ctx, r.collection, id, updates); err != nil {
		return zero, r.storeFailure("update", err)
	}

	return r.readBack(ctx, id)
}

// DeleteByID removes the entity from the store and evicts it from the
// cache. Delete is best-effort and idempotent at the call site: any
// failure, including deleting an id the store no longer has, yields false
// instead of an error.
func (r *Repository[T]) DeleteByID(ctx context.Context, id string) bool {
	r.cache.Invalidate(id)

	r.roundTrip("delete")
	if err := r.store.Delete(ctx, r.collection, id); err != nil {
		r.logger.Warn("delete failed",
			zap.String("collection", r.collection), zap.String("id", id), zap.Error(err))
		return false
	}
	return true
}

// SaveAll writes the entities as one batch. The batch either fully applies
// or fully fails; a failure surfaces as an error with nothing cached.
func (r *Repository[T]) SaveAll(ctx context.Context, entities []T) ([]T, error) {
	if len(entities) == 0 {
		return nil, nil
	}

	docs := make(map[string]store.FieldMap, len(entities))
	saved := make([]T, 0, len(entities))

	for _, entity := range entities {
		doc, err := mapper.ToFieldMap(entity)
		if err != nil {
			return nil, err
		}
		id, _ := doc[idField].(string)
		if id == "" {
			id = r.newID()
			doc[idField] = id
		}
		docs[id] = doc

		withID, err := mapper.ToEntity[T](doc)
		if err != nil {
			return nil, err
		}
		saved = append(saved, withID)
	}

	r.roundTrip("set_batch")
	if err := r.store.SetBatch(ctx, r.collection, docs); err != nil {
		return nil, r.storeFailure("set_batch", err)
	}

	for id, doc := range docs {
		if entity, err := mapper.ToEntity[T](doc); err == nil {
			r.cache.Put(id, entity)
		}
	}
	return saved, nil
}

// DeleteAll removes every document in the collection and clears the cache.
// Like DeleteByID it reports failure instead of returning an error.
func (r *Repository[T]) DeleteAll(ctx context.Context) bool {
	r.cache.Clear()

	r.roundTrip("delete_collection")
	if err := r.store.DeleteCollection(ctx, r.collection); err != nil {
		r.logger.Warn("delete all failed",
			zap.String("collection", r.collection), zap.Error(err))
		return false
	}
	return true
}

// Count returns the store-side document count, not the cache size.
func (r *Repository[T]) Count(ctx context.Context) (int64, error) {
	r.roundTrip("count")
	n, err := r.store.Count(ctx, r.collection)
	if err != nil {
		return 0, r.storeFailure("count", err)
	}
	return n, nil
}

// readBack fetches the persisted document and refreshes the cache with the
// complete merged entity.
func (r *Repository[T]) readBack(ctx context.Context, id string) (T, error) {
	var zero T

	r.roundTrip("get")
	doc, err := r.store.Get(ctx, r.collection, id)
	if err != nil {
		return zero, r.storeFailure("get", err)
	}

	entity, err := mapper.ToEntity[T](doc)
	if err != nil {
		r.logger.Error("entity conversion failed",
			zap.String("collection", r.collection), zap.String("id", id), zap.Error(err))
		return zero, err
	}

	r.cache.Put(id, entity)
	return entity, nil
}

func (r *Repository[T]) runQuery(ctx context.Context, q store.Query) ([]T, error) {
	r.roundTrip("query")
	docs, err := r.store.Query(ctx, r.collection, q)
	if err != nil {
		return nil, r.storeFailure("query", err)
	}

	entities := make([]T, 0, len(docs))
	for _, doc := range docs {
		entity, err := mapper.ToEntity[T](doc)
		if err != nil {
			r.logger.Error("entity conversion failed",
				zap.String("collection", r.collection), zap.Error(err))
			return nil, err
		}
		if id, ok := doc[idField].(string); ok && id != "" {
			r.cache.Put(id, entity)
		}
		entities = append(entities, entity)
	}
	return entities, nil
}

func (r *Repository[T]) storeFailure(op string, err error) error {
	r.logger.Error("store operation failed",
		zap.String("collection", r.collection), zap.String("op", op), zap.Error(err))
	return errors.NewStoreFailure(op, err)
}

func (r *Repository[T]) roundTrip(op string) {
	if r.observer != nil {
		r.observer.StoreRoundTrip(r.collection, op)
	}
}
