// Package query translates abstract search criteria into store-native
// queries.
package query

import (
	"github.com/mahsel79/FulkopingLibraryWeb-sub000/model"
	"github.com/mahsel79/FulkopingLibraryWeb-sub000/store"
)

// DefaultSearchField is the document field free-text terms match against
// when no other field is configured.
const DefaultSearchField = "title"

// prefixSentinel closes the prefix range: every string starting with the
// term sorts at or below term+sentinel in the store's collation. This is a
// starts-with approximation, not full-text search.
const prefixSentinel = "￿"

// Translate converts criteria into a store query. A free-text term becomes
// a prefix range on searchField, a filter becomes an AND-combined equality
// condition and a sort field becomes an order-by clause. Field names are
// passed through without schema validation; unknown fields surface as
// store-side errors or empty results. Empty criteria yield an
// unconstrained collection scan.
func Translate(criteria model.SearchCriteria, searchField string) store.Query {
	if searchField == "" {
		searchField = DefaultSearchField
	}

	var q store.Query

	if criteria.HasTerm() {
		q = q.Where(searchField, store.OpGte, criteria.SearchTerm)
		q = q.Where(searchField, store.OpLte, criteria.SearchTerm+prefixSentinel)
	}

	if criteria.HasFilter() {
		q = q.Where(criteria.FilterField, store.OpEq, criteria.FilterValue)
	}

	if criteria.HasSort() {
		q = q.Sort(criteria.SortField, criteria.SortDirection == model.SortDesc)
	}

	return q
}
