package testsupport

import (
	"context"
	"testing"

	"github.com/mahsel79/FulkopingLibraryWeb-sub000/mapper"
	"github.com/mahsel79/FulkopingLibraryWeb-sub000/store"
)

// SeedDocument converts the entity to a field map and writes it straight
// into the store, bypassing the repository layer.
func SeedDocument(t *testing.T, docs store.DocumentStore, collection, id string, entity any) {
	t.Helper()

	doc, err := mapper.ToFieldMap(entity)
	if err != nil {
		t.Fatalf("failed to map fixture entity: %v", err)
	}
	doc["id"] = id

	if err := docs.Set(context.Background(), collection, id, doc); err != nil {
		t.Fatalf("failed to seed %s/%s: %v", collection, id, err)
	}
}
