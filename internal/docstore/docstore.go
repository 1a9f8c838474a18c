// Package docstore implements the document store boundary on top of a
// relational database via bun. Documents live in a single table keyed by
// (collection, id) with the field map serialized as JSON, and query
// predicates compile to dialect-specific JSON path expressions.
package docstore

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/dialect/sqlitedialect"

	"github.com/mahsel79/FulkopingLibraryWeb-sub000/store"
)

type document struct {
	bun.BaseModel `bun:"table:documents,alias:d"`

	Collection string    `bun:"collection,pk"`
	ID         string    `bun:"id,pk"`
	Data       string    `bun:"data,notnull"`
	UpdatedAt  time.Time `bun:"updated_at,notnull"`
}

type driver string

const (
	driverSQLite   driver = "sqlite"
	driverPostgres driver = "postgres"
)

// Store is a DocumentStore backed by bun.
type Store struct {
	db     *bun.DB
	driver driver
}

var _ store.DocumentStore = (*Store)(nil)

// NewSQLite opens (or creates) a SQLite-backed store at path. Use
// ":memory:" for an ephemeral store.
func NewSQLite(path string) (*Store, error) {
	sqldb, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite store: %w", err)
	}
	return &Store{db: bun.NewDB(sqldb, sqlitedialect.New()), driver: driverSQLite}, nil
}

// NewPostgres connects to a PostgreSQL-backed store.
func NewPostgres(dsn string) (*Store, error) {
	sqldb, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("open postgres store: %w", err)
	}
	return &Store{db: bun.NewDB(sqldb, pgdialect.New()), driver: driverPostgres}, nil
}

// Init creates the documents table when it does not exist yet.
func (s *Store) Init(ctx context.Context) error {
	_, err := s.db.NewCreateTable().
		Model((*document)(nil)).
		IfNotExists().
		Exec(ctx)
	return err
}

// Close releases the underlying connection pool.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) Get(ctx context.Context, collection, id string) (store.FieldMap, error) {
	var doc document
	err := s.db.NewSelect().
		Model(&doc).
		Where("collection = ?", collection).
		Where("id = ?", id).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrNotFound
		}
		return nil, err
	}
	return decodeDoc(doc)
}

func (s *Store) Set(ctx context.Context, collection, id string, fields store.FieldMap) error {
	data, err := json.Marshal(fields)
	if err != nil {
		return err
	}

	doc := document{
		Collection: collection,
		ID:         id,
		Data:       string(data),
		UpdatedAt:  time.Now().UTC(),
	}
	_, err = s.db.NewInsert().
		Model(&doc).
		On("CONFLICT (collection, id) DO UPDATE").
		Set("data = EXCLUDED.data").
		Set("updated_at = EXCLUDED.updated_at").
		Exec(ctx)
	return err
}

// UpdateFields merges the supplied fields into the stored document inside
// one transaction, so concurrent partial updates to the same document
// serialize at the row.
func (s *Store) UpdateFields(ctx context.Context, collection, id string, fields store.FieldMap) error {
	return s.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		var doc document
		err := tx.NewSelect().
			Model(&doc).
			Where("collection = ?", collection).
			Where("id = ?", id).
			Scan(ctx)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return store.ErrNotFound
			}
			return err
		}

		merged, err := decodeDoc(doc)
		if err != nil {
			return err
		}
		for k, v := range fields {
			merged[k] = v
		}

		data, err := json.Marshal(merged)
		if err != nil {
			return err
		}

		_, err = tx.NewUpdate().
			Model((*document)(nil)).
			Set("data = ?", string(data)).
			Set("updated_at = ?", time.Now().UTC()).
			Where("collection = ?", collection).
			Where("id = ?", id).
			Exec(ctx)
		return err
	})
}

func (s *Store) Delete(ctx context.Context, collection, id string) error {
	res, err := s.db.NewDelete().
		Model((*document)(nil)).
		Where("collection = ?", collection).
		Where("id = ?", id).
		Exec(ctx)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return store.ErrNotFound
	}
	return nil
}

func (s *Store) Query(ctx context.Context, collection string, q store.Query) ([]store.FieldMap, error) {
	var docs []document
	sel := s.db.NewSelect().
		Model(&docs).
		Where("collection = ?", collection)

	for _, cond := range q.Conditions {
		expr, err := s.fieldExpr(cond.Field)
		if err != nil {
			return nil, err
		}
		switch cond.Op {
		case store.OpEq, store.OpLt, store.OpLte, store.OpGt, store.OpGte:
			sel = sel.Where(fmt.Sprintf("%s %s ?", expr, cond.Op), cond.Value)
		default:
			return nil, fmt.Errorf("unsupported operator %q", cond.Op)
		}
	}

	if q.OrderBy != nil {
		expr, err := s.fieldExpr(q.OrderBy.Field)
		if err != nil {
			return nil, err
		}
		dir := "ASC"
		if q.OrderBy.Desc {
			dir = "DESC"
		}
		sel = sel.OrderExpr(fmt.Sprintf("%s %s", expr, dir))
	}

	if err := sel.Scan(ctx); err != nil {
		return nil, err
	}

	out := make([]store.FieldMap, 0, len(docs))
	for _, doc := range docs {
		fields, err := decodeDoc(doc)
		if err != nil {
			return nil, err
		}
		out = append(out, fields)
	}
	return out, nil
}

// SetBatch writes all documents in one transaction; any failure rolls the
// whole batch back.
func (s *Store) SetBatch(ctx context.Context, collection string, docs map[string]store.FieldMap) error {
	return s.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		now := time.Now().UTC()
		for id, fields := range docs {
			data, err := json.Marshal(fields)
			if err != nil {
				return err
			}
			doc := document{
				Collection: collection,
				ID:         id,
				Data:       string(data),
				UpdatedAt:  now,
			}
			_, err = tx.NewInsert().
				Model(&doc).
				On("CONFLICT (collection, id) DO UPDATE").
				Set("data = EXCLUDED.data").
				Set("updated_at = EXCLUDED.updated_at").
				Exec(ctx)
			if err != nil {
				return err
			}
		}
		return nil
	})
}

func (s *Store) DeleteCollection(ctx context.Context, collection string) error {
	_, err := s.db.NewDelete().
		Model((*document)(nil)).
		Where("collection = ?", collection).
		Exec(ctx)
	return err
}

func (s *Store) Count(ctx context.Context, collection string) (int64, error) {
	n, err := s.db.NewSelect().
		Model((*document)(nil)).
		Where("collection = ?", collection).
		Count(ctx)
	return int64(n), err
}

// fieldExpr compiles a document field reference to the dialect's JSON path
// expression. Field names are restricted to identifier characters since
// they end up inside the SQL text.
func (s *Store) fieldExpr(field string) (string, error) {
	if !validFieldName(field) {
		return "", fmt.Errorf("invalid field name %q", field)
	}
	switch s.driver {
	case driverPostgres:
		return fmt.Sprintf("(d.data::jsonb ->> '%s')", field), nil
	default:
		return fmt.Sprintf("json_extract(d.data, '$.%s')", field), nil
	}
}

func validFieldName(field string) bool {
	if field == "" {
		return false
	}
	for _, r := range field {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '_':
		default:
			return false
		}
	}
	return true
}

func decodeDoc(doc document) (store.FieldMap, error) {
	var fields store.FieldMap
	if err := json.Unmarshal([]byte(doc.Data), &fields); err != nil {
		return nil, fmt.Errorf("decode document %s/%s: %w", doc.Collection, doc.ID, err)
	}
	return fields, nil
}
