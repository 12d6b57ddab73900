package application

const (
	// DefaultPerPage matches the eight rows shown per table page.
	DefaultPerPage = 8
	// MaxPerPage caps caller supplied page sizes.
	MaxPerPage = 100
)

// PageRequest selects a 1-based page. PerPage 0 after normalisation means every row.
type PageRequest struct {
	Page    int
	PerPage int
}

// Normalize applies defaults and bounds.
func (p PageRequest) Normalize() PageRequest {
	if p.Page < 1 {
		p.Page = 1
	}
	switch {
	case p.PerPage <= 0:
		p.PerPage = DefaultPerPage
	case p.PerPage > MaxPerPage:
		p.PerPage = MaxPerPage
	}
	return p
}

// All requests every row in one page, as exports do.
func All() PageRequest {
	return PageRequest{Page: 1}
}

// Offset is the number of rows skipped before the page.
func (p PageRequest) Offset() int {
	if p.PerPage <= 0 || p.Page < 1 {
		return 0
	}
	return (p.Page - 1) * p.PerPage
}

// Paged is one page of results plus the totals needed to render pagination.
type Paged[T any] struct {
	Items      []T
	Page       int
	PerPage    int
	Total      int
	TotalPages int
}

func newPaged[T any](items []T, page PageRequest, total int) Paged[T] {
	if items == nil {
		items = []T{}
	}
	pages := 1
	if page.PerPage > 0 && total > 0 {
		pages = (total + page.PerPage - 1) / page.PerPage
	}
	return Paged[T]{
		Items:      items,
		Page:       page.Page,
		PerPage:    page.PerPage,
		Total:      total,
		TotalPages: pages,
	}
}
