package shared

const (
	DefaultPerPage = 15
	MaxPerPage     = 100
)

// Filter represents query filter options shared by list operations
type Filter struct {
	Page      int
	PerPage   int
	Search    string
	SortBy    string // whitelisted per repository
	SortOrder string // asc or desc
}

// DefaultFilter returns a filter with default values
func DefaultFilter() Filter {
	return Filter{
		Page:    1,
		PerPage: DefaultPerPage,
	}
}

// Normalize clamps page to >= 1 and per-page to [1, MaxPerPage].
func (f Filter) Normalize() Filter {
	if f.Page < 1 {
		f.Page = 1
	}
	switch {
	case f.PerPage == 0:
		f.PerPage = DefaultPerPage
	case f.PerPage < 1:
		f.PerPage = 1
	case f.PerPage > MaxPerPage:
		f.PerPage = MaxPerPage
	}
	return f
}

// Offset returns the row offset for the current page.
func (f Filter) Offset() int {
	return (f.Page - 1) * f.PerPage
}

// Paginated represents a paginated result
type Paginated[T any] struct {
	Items       []T
	Total       int64
	CurrentPage int
	PerPage     int
	LastPage    int
}

// NewPaginated creates a new paginated result
func NewPaginated[T any](items []T, total int64, page, perPage int) Paginated[T] {
	if perPage < 1 {
		perPage = DefaultPerPage
	}
	lastPage := int(total) / perPage
	if int(total)%perPage > 0 {
		lastPage++
	}
	if lastPage < 1 {
		lastPage = 1
	}
	if items == nil {
		items = []T{}
	}
	return Paginated[T]{
		Items:       items,
		Total:       total,
		CurrentPage: page,
		PerPage:     perPage,
		LastPage:    lastPage,
	}
}
