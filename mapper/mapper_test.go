package mapper

import (
	"errors"
	"testing"
	"time"

	apperrors "github.com/mahsel79/FulkopingLibraryWeb-sub000/pkg/errors"
	"github.com/mahsel79/FulkopingLibraryWeb-sub000/store"
)

type testBook struct {
	ID        string `json:"id"`
	Title     string `json:"title"`
	Author    string `json:"author"`
	Pages     int    `json:"pages"`
	Available bool   `json:"available"`
}

type testRecord struct {
	ID       string     `json:"id"`
	Note     *string    `json:"note"`
	Tags     []string   `json:"tags"`
	Created  time.Time  `json:"created"`
	Internal string     `json:"-"`
	Score    float64    `json:"score"`
	Count    int        `json:"count"`
	Extra    *time.Time `json:"extra"`
}

func TestToFieldMapCopiesAllFields(t *testing.T) {
	book := testBook{ID: "b1", Title: "Dune", Author: "Herbert", Pages: 412, Available: true}

	doc, err := ToFieldMap(book)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := store.FieldMap{
		"id":        "b1",
		"title":     "Dune",
		"author":    "Herbert",
		"pages":     412,
		"available": true,
	}
	if len(doc) != len(want) {
		t.Fatalf("expected %d fields, got %d: %v", len(want), len(doc), doc)
	}
	for k, v := range want {
		if doc[k] != v {
			t.Errorf("field %s: expected %v, got %v", k, v, doc[k])
		}
	}
}

func TestToFieldMapOmitsNilValues(t *testing.T) {
	rec := testRecord{ID: "r1", Created: time.Now()}

	doc, err := ToFieldMap(rec)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	for _, omitted := range []string{"note", "tags", "extra"} {
		if _, ok := doc[omitted]; ok {
			t.Errorf("expected nil field %s to be omitted", omitted)
		}
	}
	// Zero scalars are real values, not nulls.
	if _, ok := doc["score"]; !ok {
		t.Error("expected zero float field to be present")
	}
	if _, ok := doc["count"]; !ok {
		t.Error("expected zero int field to be present")
	}
}

func TestToFieldMapSkipsOptedOutFields(t *testing.T) {
	rec := testRecord{ID: "r1", Internal: "secret"}

	doc, err := ToFieldMap(rec)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, ok := doc["Internal"]; ok {
		t.Error("expected json:\"-\" field to be skipped")
	}
}

func TestToFieldMapPointerEntity(t *testing.T) {
	doc, err := ToFieldMap(&testBook{ID: "b1", Title: "Dune"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if doc["title"] != "Dune" {
		t.Errorf("expected title Dune, got %v", doc["title"])
	}
}

func TestToFieldMapRejectsNonStruct(t *testing.T) {
	if _, err := ToFieldMap("not a struct"); err == nil {
		t.Fatal("expected error for non-struct entity")
	}
	var nilBook *testBook
	if _, err := ToFieldMap(nilBook); err == nil {
		t.Fatal("expected error for nil entity")
	}
}

func TestRoundTrip(t *testing.T) {
	original := testBook{ID: "b1", Title: "Dune", Author: "Herbert", Pages: 412, Available: true}

	doc, err := ToFieldMap(original)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	restored, err := ToEntity[testBook](doc)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if restored != original {
		t.Errorf("round trip mismatch: expected %+v, got %+v", original, restored)
	}
}

func TestToEntityIgnoresUnknownKeys(t *testing.T) {
	doc := store.FieldMap{"id": "b1", "title": "Dune", "no_such_field": 42}

	book, err := ToEntity[testBook](doc)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if book.ID != "b1" || book.Title != "Dune" {
		t.Errorf("unexpected entity: %+v", book)
	}
}

func TestToEntityLeavesAbsentFieldsZero(t *testing.T) {
	book, err := ToEntity[testBook](store.FieldMap{"id": "b1"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if book.Title != "" || book.Pages != 0 || book.Available {
		t.Errorf("expected zero values for absent fields, got %+v", book)
	}
}

func TestToEntityCoercesJSONNumbers(t *testing.T) {
	// JSON decoding hands back float64 for every number.
	doc := store.FieldMap{"id": "b1", "pages": float64(412), "score": float64(1.5)}

	rec, err := ToEntity[testRecord](store.FieldMap{"id": "r1", "count": float64(7), "score": float64(1.5)})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Count != 7 || rec.Score != 1.5 {
		t.Errorf("unexpected coercion result: %+v", rec)
	}

	book, err := ToEntity[testBook](doc)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if book.Pages != 412 {
		t.Errorf("expected pages 412, got %d", book.Pages)
	}
}

func TestToEntityParsesTimeStrings(t *testing.T) {
	stamp := time.Date(2024, 5, 17, 10, 30, 0, 0, time.UTC)
	doc := store.FieldMap{"id": "r1", "created": stamp.Format(time.RFC3339Nano)}

	rec, err := ToEntity[testRecord](doc)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !rec.Created.Equal(stamp) {
		t.Errorf("expected %v, got %v", stamp, rec.Created)
	}
}

func TestToEntityFailsOnTypeMismatch(t *testing.T) {
	doc := store.FieldMap{"id": "b1", "pages": "not a number"}

	_, err := ToEntity[testBook](doc)
	if err == nil {
		t.Fatal("expected conversion failure")
	}
	if !errors.Is(err, apperrors.ErrConversion) {
		t.Errorf("expected conversion failure kind, got %v", err)
	}
}

func TestValidateEntityType(t *testing.T) {
	if err := ValidateEntityType[testBook](); err != nil {
		t.Errorf("expected struct type to validate, got %v", err)
	}
	if err := ValidateEntityType[*testBook](); err != nil {
		t.Errorf("expected struct pointer type to validate, got %v", err)
	}
	if err := ValidateEntityType[string](); err == nil {
		t.Error("expected non-struct type to fail validation")
	}
	if err := ValidateEntityType[map[string]any](); err == nil {
		t.Error("expected map type to fail validation")
	}
}
