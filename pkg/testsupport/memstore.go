// Package testsupport provides shared test infrastructure, most notably an
// in-memory DocumentStore with failure injection and call counting.
package testsupport

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"sync"
	"time"

	"github.com/mahsel79/FulkopingLibraryWeb-sub000/store"
)

// MemoryStore is a DocumentStore backed by nested maps. It evaluates
// queries in memory, counts calls per operation and can be told to fail
// the next N calls of an operation, which the retry tests rely on.
type MemoryStore struct {
	mu          sync.Mutex
	collections map[string]map[string]store.FieldMap
	calls       map[string]int
	failures    map[string]int
	failErr     error
}

var _ store.DocumentStore = (*MemoryStore)(nil)

// NewMemoryStore builds an empty store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		collections: make(map[string]map[string]store.FieldMap),
		calls:       make(map[string]int),
		failures:    make(map[string]int),
	}
}

// FailNext makes the next n calls of op return err.
func (m *MemoryStore) FailNext(op string, n int, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.failures[op] = n
	m.failErr = err
}

// Calls reports how many times op has been invoked.
func (m *MemoryStore) Calls(op string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls[op]
}

// begin records the call, honors pending failure injection and respects an
// already-cancelled context the way a real network client would.
func (m *MemoryStore) begin(ctx context.Context, op string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.calls[op]++
	if remaining := m.failures[op]; remaining > 0 {
		m.failures[op] = remaining - 1
		if m.failErr != nil {
			return m.failErr
		}
		return fmt.Errorf("injected %s failure", op)
	}
	return ctx.Err()
}

func (m *MemoryStore) Get(ctx context.Context, collection, id string) (store.FieldMap, error) {
	if err := m.begin(ctx, "get"); err != nil {
		return nil, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	doc, ok := m.collections[collection][id]
	if !ok {
		return nil, store.ErrNotFound
	}
	return doc.Clone(), nil
}

func (m *MemoryStore) Set(ctx context.Context, collection, id string, doc store.FieldMap) error {
	if err := m.begin(ctx, "set"); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if m.collections[collection] == nil {
		m.collections[collection] = make(map[string]store.FieldMap)
	}
	m.collections[collection][id] = doc.Clone()
	return nil
}

func (m *MemoryStore) UpdateFields(ctx context.Context, collection, id string, fields store.FieldMap) error {
	if err := m.begin(ctx, "update"); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	doc, ok := m.collections[collection][id]
	if !ok {
		return store.ErrNotFound
	}
	merged := doc.Clone()
	for k, v := range fields {
		merged[k] = v
	}
	m.collections[collection][id] = merged
	return nil
}

func (m *MemoryStore) Delete(ctx context.Context, collection, id string) error {
	if err := m.begin(ctx, "delete"); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.collections[collection][id]; !ok {
		return store.ErrNotFound
	}
	delete(m.collections[collection], id)
	return nil
}

func (m *MemoryStore) Query(ctx context.Context, collection string, q store.Query) ([]store.FieldMap, error) {
	if err := m.begin(ctx, "query"); err != nil {
		return nil, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	ids := make([]string, 0, len(m.collections[collection]))
	for id := range m.collections[collection] {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	var out []store.FieldMap
	for _, id := range ids {
		doc := m.collections[collection][id]
		if matchesConditions(doc, q.Conditions) {
			out = append(out, doc.Clone())
		}
	}

	if q.OrderBy != nil {
		field, desc := q.OrderBy.Field, q.OrderBy.Desc
		sort.SliceStable(out, func(i, j int) bool {
			cmp := compareValues(out[i][field], out[j][field])
			if desc {
				return cmp > 0
			}
			return cmp < 0
		})
	}
	return out, nil
}

func (m *MemoryStore) SetBatch(ctx context.Context, collection string, docs map[string]store.FieldMap) error {
	if err := m.begin(ctx, "set_batch"); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if m.collections[collection] == nil {
		m.collections[collection] = make(map[string]store.FieldMap)
	}
	for id, doc := range docs {
		m.collections[collection][id] = doc.Clone()
	}
	return nil
}

func (m *MemoryStore) DeleteCollection(ctx context.Context, collection string) error {
	if err := m.begin(ctx, "delete_collection"); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.collections, collection)
	return nil
}

func (m *MemoryStore) Count(ctx context.Context, collection string) (int64, error) {
	if err := m.begin(ctx, "count"); err != nil {
		return 0, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	return int64(len(m.collections[collection])), nil
}

func matchesConditions(doc store.FieldMap, conditions []store.Condition) bool {
	for _, cond := range conditions {
		value, ok := doc[cond.Field]
		if !ok {
			return false
		}
		cmp := compareValues(value, cond.Value)
		switch cond.Op {
		case store.OpEq:
			if cmp != 0 {
				return false
			}
		case store.OpLt:
			if cmp >= 0 {
				return false
			}
		case store.OpLte:
			if cmp > 0 {
				return false
			}
		case store.OpGt:
			if cmp <= 0 {
				return false
			}
		case store.OpGte:
			if cmp < 0 {
				return false
			}
		default:
			return false
		}
	}
	return true
}

// compareValues orders two document values: numbers numerically, times
// chronologically, everything else as strings.
func compareValues(a, b any) int {
	if af, aok := asFloat(a); aok {
		if bf, bok := asFloat(b); bok {
			switch {
			case af < bf:
				return -1
			case af > bf:
				return 1
			}
			return 0
		}
	}

	if at, aok := a.(time.Time); aok {
		if bt, bok := b.(time.Time); bok {
			switch {
			case at.Before(bt):
				return -1
			case at.After(bt):
				return 1
			}
			return 0
		}
	}

	as := fmt.Sprintf("%v", a)
	bs := fmt.Sprintf("%v", b)
	switch {
	case as < bs:
		return -1
	case as > bs:
		return 1
	}
	return 0
}

func asFloat(v any) (float64, bool) {
	switch val := v.(type) {
	case int:
		return float64(val), true
	case int32:
		return float64(val), true
	case int64:
		return float64(val), true
	case float32:
		return float64(val), true
	case float64:
		return val, true
	case string:
		f, err := strconv.ParseFloat(val, 64)
		return f, err == nil
	}
	return 0, false
}
