// Package search implements the multi-strategy catalog search engine:
// criteria, fuzzy (edit distance), partial match and paginated search over
// the polymorphic item collections. Reads always go to the live store, not
// the entity cache, and each operation is wrapped in bounded fixed-delay
// retry.
package search

import (
	"context"
	goerrors "errors"
	"strings"
	"time"

	"github.com/agnivade/levenshtein"
	"github.com/cenkalti/backoff/v4"
	validation "github.com/go-ozzo/ozzo-validation/v4"
	"go.uber.org/zap"

	"github.com/mahsel79/FulkopingLibraryWeb-sub000/model"
	"github.com/mahsel79/FulkopingLibraryWeb-sub000/pkg/errors"
	"github.com/mahsel79/FulkopingLibraryWeb-sub000/store"
)

// Retry and matching defaults.
const (
	DefaultMaxAttempts = 3
	DefaultRetryDelay  = 250 * time.Millisecond
	DefaultMaxDistance = 2
)

// Observer receives search-engine events. Implemented by pkg/metrics.
type Observer interface {
	SearchRetry(op string)
	SearchDegraded(op string)
}

// Engine scans the item collections and matches in memory. It is safe for
// concurrent use; all state is fixed at construction.
type Engine struct {
	store       store.DocumentStore
	collections []string
	logger      *zap.Logger
	observer    Observer
	maxAttempts int
	retryDelay  time.Duration
}

// Option customizes an Engine.
type Option func(*Engine)

// WithLogger attaches a logger; a no-op logger is used otherwise.
func WithLogger(l *zap.Logger) Option {
	return func(e *Engine) {
		if l != nil {
			e.logger = l
		}
	}
}

// WithObserver attaches a metrics observer.
func WithObserver(o Observer) Option {
	return func(e *Engine) { e.observer = o }
}

// WithRetry overrides the attempt budget and the fixed delay between
// attempts.
func WithRetry(maxAttempts int, delay time.Duration) Option {
	return func(e *Engine) {
		if maxAttempts > 0 {
			e.maxAttempts = maxAttempts
		}
		if delay > 0 {
			e.retryDelay = delay
		}
	}
}

// New builds an Engine over the given item collections. With no
// collections it scans all three catalog collections.
func New(docs store.DocumentStore, collections []string, opts ...Option) *Engine {
	if len(collections) == 0 {
		collections = []string{
			model.ItemTypeBook.Collection(),
			model.ItemTypeMagazine.Collection(),
			model.ItemTypeMedia.Collection(),
		}
	}

	e := &Engine{
		store:       docs,
		collections: collections,
		logger:      zap.NewNop(),
		maxAttempts: DefaultMaxAttempts,
		retryDelay:  DefaultRetryDelay,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// SearchByCriteria loads the candidate set and dispatches each item to its
// type-appropriate matcher. Cancellation is re-raised immediately; any
// other failure retries and then degrades to an empty result. Empty
// criteria match every item.
func (e *Engine) SearchByCriteria(ctx context.Context, criteria model.SearchCriteria) ([]model.Item, error) {
	candidates, err := e.loadWithRetry(ctx, "criteria")
	if err != nil {
		if isCancellation(err) {
			return nil, err
		}
		return e.degrade("criteria", err), nil
	}

	matched := make([]model.Item, 0, len(candidates))
	for _, item := range candidates {
		if matchesCriteria(item, criteria) {
			matched = append(matched, item)
		}
	}

	if criteria.HasSort() {
		sortItems(matched, criteria.SortField, criteria.SortDirection == model.SortDesc)
	}
	return matched, nil
}

// FuzzySearch matches items whose representative field is within
// maxDistance edits of the query, case-folded. A negative maxDistance is
// clamped to the default of 2. Best-effort: every failure, cancellation
// included, degrades to an empty result.
func (e *Engine) FuzzySearch(ctx context.Context, query string, maxDistance int) []model.Item {
	if isBlank(query) {
		return nil
	}
	if maxDistance < 0 {
		maxDistance = DefaultMaxDistance
	}

	candidates, err := e.loadWithRetry(ctx, "fuzzy")
	if err != nil {
		return e.degrade("fuzzy", err)
	}

	folded := fold(query)
	matched := make([]model.Item, 0)
	for _, item := range candidates {
		distance := levenshtein.ComputeDistance(folded, fold(representative(item)))
		if distance <= maxDistance {
			matched = append(matched, item)
		}
	}
	return matched
}

// FuzzySearchByCriteria matches items whose representative field reaches
// the similarity threshold 1 - distance/max(len) against the criteria's
// search term. The boundary value itself matches.
func (e *Engine) FuzzySearchByCriteria(ctx context.Context, criteria model.SearchCriteria, threshold float64) []model.Item {
	if isBlank(criteria.SearchTerm) {
		return nil
	}

	candidates, err := e.loadWithRetry(ctx, "fuzzy_criteria")
	if err != nil {
		return e.degrade("fuzzy_criteria", err)
	}

	term := fold(criteria.SearchTerm)
	matched := make([]model.Item, 0)
	for _, item := range candidates {
		if !matchesFilter(item, criteria) {
			continue
		}
		if similarity(term, fold(representative(item))) >= threshold {
			matched = append(matched, item)
		}
	}

	if criteria.HasSort() {
		sortItems(matched, criteria.SortField, criteria.SortDirection == model.SortDesc)
	}
	return matched
}

// PartialMatchSearch matches items whose representative field contains the
// query as a substring, case-folded. Best-effort like FuzzySearch.
func (e *Engine) PartialMatchSearch(ctx context.Context, query string) []model.Item {
	if isBlank(query) {
		return nil
	}

	candidates, err := e.loadWithRetry(ctx, "partial")
	if err != nil {
		return e.degrade("partial", err)
	}

	folded := fold(query)
	matched := make([]model.Item, 0)
	for _, item := range candidates {
		if strings.Contains(fold(representative(item)), folded) {
			matched = append(matched, item)
		}
	}
	return matched
}

// SearchPage runs a free-text search restricted to one item type and
// slices the result in memory. Pages are 1-based; page or pageSize below 1
// is a validation failure raised before any store access.
func (e *Engine) SearchPage(ctx context.Context, query string, itemType model.ItemType, page, pageSize int, sortField string, desc bool) ([]model.Item, error) {
	paging := validation.Errors{
		"page":     validation.Validate(page, validation.Required, validation.Min(1)),
		"pageSize": validation.Validate(pageSize, validation.Required, validation.Min(1)),
	}
	if err := paging.Filter(); err != nil {
		return nil, errors.NewValidation(err.Error())
	}

	if isBlank(query) {
		return nil, nil
	}

	candidates, err := e.loadWithRetry(ctx, "paginated")
	if err != nil {
		return e.degrade("paginated", err), nil
	}

	criteria := model.SearchCriteria{SearchTerm: query}
	matched := make([]model.Item, 0, len(candidates))
	for _, item := range candidates {
		if itemType != "" && item.Type() != itemType {
			continue
		}
		if matchesCriteria(item, criteria) {
			matched = append(matched, item)
		}
	}

	sortItems(matched, sortField, desc)

	start := (page - 1) * pageSize
	if start >= len(matched) {
		return nil, nil
	}
	end := start + pageSize
	if end > len(matched) {
		end = len(matched)
	}
	return matched[start:end], nil
}

// loadItems scans every configured collection and decodes the documents.
// Unknown discriminants are skipped; a decode failure of a known type
// fails the load.
func (e *Engine) loadItems(ctx context.Context) ([]model.Item, error) {
	var items []model.Item
	for _, collection := range e.collections {
		docs, err := e.store.Query(ctx, collection, store.Query{})
		if err != nil {
			return nil, err
		}
		for _, doc := range docs {
			item, ok, err := decodeItem(doc)
			if err != nil {
				return nil, err
			}
			if ok {
				items = append(items, item)
			}
		}
	}
	return items, nil
}

// loadWithRetry wraps loadItems in the fixed-delay retry loop. Context
// cancellation is never retried; other failures are retried until the
// attempt budget runs out and the last error is returned.
func (e *Engine) loadWithRetry(ctx context.Context, op string) ([]model.Item, error) {
	var items []model.Item
	attempt := 0

	policy := backoff.WithMaxRetries(
		backoff.NewConstantBackOff(e.retryDelay), uint64(e.maxAttempts-1))

	err := backoff.Retry(func() error {
		attempt++
		loaded, err := e.loadItems(ctx)
		if err != nil {
			if isCancellation(err) {
				return backoff.Permanent(err)
			}
			if attempt < e.maxAttempts {
				e.logger.Warn("search load failed, retrying",
					zap.String("op", op), zap.Int("attempt", attempt), zap.Error(err))
				if e.observer != nil {
					e.observer.SearchRetry(op)
				}
			}
			return err
		}
		items = loaded
		return nil
	}, policy)

	if err != nil {
		return nil, err
	}
	return items, nil
}

// degrade records an exhausted operation and converts it into an empty
// result so best-effort callers never crash.
func (e *Engine) degrade(op string, err error) []model.Item {
	e.logger.Error("search degraded to empty result",
		zap.String("op", op), zap.Error(err))
	if e.observer != nil {
		e.observer.SearchDegraded(op)
	}
	return nil
}

// matchesFilter applies only the equality-filter half of the criteria.
func matchesFilter(item model.Item, criteria model.SearchCriteria) bool {
	if !criteria.HasFilter() {
		return true
	}
	value, ok := fieldValue(item, criteria.FilterField)
	return ok && value == criteria.FilterValue
}

// similarity is 1 - distance/max(len(a), len(b)); two empty strings are
// identical.
func similarity(a, b string) float64 {
	longest := len([]rune(a))
	if l := len([]rune(b)); l > longest {
		longest = l
	}
	if longest == 0 {
		return 1
	}
	distance := levenshtein.ComputeDistance(a, b)
	return 1 - float64(distance)/float64(longest)
}

func isBlank(s string) bool {
	for _, r := range s {
		if r != ' ' && r != '\t' && r != '\n' && r != '\r' {
			return false
		}
	}
	return true
}

func isCancellation(err error) bool {
	return goerrors.Is(err, context.Canceled) || goerrors.Is(err, context.DeadlineExceeded)
}
