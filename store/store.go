package store

import (
	"context"
	"errors"
)

// ErrNotFound is returned by point lookups when no document exists under
// the requested id. Callers are expected to check it with errors.Is and
// translate it into an absent result rather than a failure.
var ErrNotFound = errors.New("document not found")

// FieldMap is the schemaless representation of one document: field name to
// value. It is what the mapper produces for writes and what queries return.
type FieldMap map[string]any

// Clone returns a shallow copy so callers can mutate the result freely.
func (m FieldMap) Clone() FieldMap {
	out := make(FieldMap, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

// DocumentStore is the boundary to the external document database. All
// operations are collection scoped and atomic per document; nothing here
// spans multiple documents transactionally.
type DocumentStore interface {
	// Get performs a point read. Returns ErrNotFound when the id is absent.
	Get(ctx context.Context, collection, id string) (FieldMap, error)
	// Set writes the full document, creating or replacing it.
	Set(ctx context.Context, collection, id string, doc FieldMap) error
	// UpdateFields overwrites only the supplied fields of an existing
	// document. Returns ErrNotFound when the id is absent.
	UpdateFields(ctx context.Context, collection, id string, fields FieldMap) error
	// Delete removes the document. Returns ErrNotFound when the id is absent.
	Delete(ctx context.Context, collection, id string) error
	// Query runs a predicate/sort query; an empty Query scans the collection.
	Query(ctx context.Context, collection string, q Query) ([]FieldMap, error)
	// SetBatch writes all documents or none of them.
	SetBatch(ctx context.Context, collection string, docs map[string]FieldMap) error
	// DeleteCollection removes every document in the collection.
	DeleteCollection(ctx context.Context, collection string) error
	// Count returns the number of documents in the collection.
	Count(ctx context.Context, collection string) (int64, error)
}
