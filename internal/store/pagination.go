package store

// Page size bounds shared by list operations.
const (
	DefaultPageLimit = 10
	MaxPageLimit     = 50

	DefaultTagPageLimit = 20
	MaxTagPageLimit     = 100
)

// PageParams contains 1-based page request parameters.
type PageParams struct {
	Page  int
	Limit int
}

// Normalize fills defaults and clamps the limit to max.
func (p *PageParams) Normalize(defaultLimit, maxLimit int) {
	if p.Page < 1 {
		p.Page = 1
	}
	if p.Limit <= 0 {
		p.Limit = defaultLimit
	}
	if p.Limit > maxLimit {
		p.Limit = maxLimit
	}
}

// Offset returns the number of rows to skip.
func (p PageParams) Offset() int {
	if p.Page < 1 {
		return 0
	}
	return (p.Page - 1) * p.Limit
}

// Page is one page of a list result.
type Page[T any] struct {
	Items []T
	Total int
	Page  int
	Limit int
}

// TotalPages returns ceil(Total / Limit).
func (p Page[T]) TotalPages() int {
	if p.Limit <= 0 {
		return 0
	}
	return (p.Total + p.Limit - 1) / p.Limit
}

// NewPage builds a page, substituting an empty slice for nil items.
func NewPage[T any](items []T, total int, params PageParams) Page[T] {
	if items == nil {
		items = []T{}
	}
	return Page[T]{Items: items, Total: total, Page: params.Page, Limit: params.Limit}
}
