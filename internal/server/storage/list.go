package storage

// SortField describes a single ORDER BY column.
// Implementations map Column against a per-entity whitelist and
// ignore anything outside it.
type SortField struct {
	Column string
	Desc   bool
}

// ListOptions carries pagination and ordering for list queries.
// Limit == 0 means no limit (all rows).
type ListOptions struct {
	Limit  int
	Offset int
	Sort   []SortField
}

// ArticleFilter restricts article list queries.
// Nil IsPublished means no visibility filter (admin callers).
type ArticleFilter struct {
	IsPublished *bool
}
