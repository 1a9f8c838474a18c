package model

// SortDirection orders query results.
type SortDirection string

const (
	SortAsc  SortDirection = "ASC"
	SortDesc SortDirection = "DESC"
)

// SearchCriteria is the abstract search specification accepted by the
// repository and the search engine. Every part is optional: an empty
// criteria matches everything. At most one filter field and one sort
// field are representable.
type SearchCriteria struct {
	SearchTerm    string
	FilterField   string
	FilterValue   string
	SortField     string
	SortDirection SortDirection
}

// HasTerm reports whether a free-text term is set.
func (c SearchCriteria) HasTerm() bool { return c.SearchTerm != "" }

// HasFilter reports whether both filter halves are set.
func (c SearchCriteria) HasFilter() bool { return c.FilterField != "" && c.FilterValue != "" }

// HasSort reports whether a sort field is set.
func (c SearchCriteria) HasSort() bool { return c.SortField != "" }

// IsEmpty reports whether the criteria constrains nothing.
func (c SearchCriteria) IsEmpty() bool { return !c.HasTerm() && !c.HasFilter() && !c.HasSort() }
