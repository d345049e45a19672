package shared

// Filter is the paging, sorting and matching input of list queries.
// Filters holds exact-match conditions keyed by names the repository knows,
// empty values are ignored.
type Filter struct {
	Page     int
	PageSize int
	OrderBy  string
	OrderDir string
	Search   string
	Filters  map[string]string
}

// DefaultFilter is the first page of 20, newest first
func DefaultFilter() Filter {
	return Filter{
		Page:     1,
		PageSize: 20,
		OrderBy:  "created_at",
		OrderDir: "desc",
		Filters:  map[string]string{},
	}
}

// Offset is the number of rows before the filter's page
func (f Filter) Offset() int {
	if f.Page <= 1 {
		return 0
	}
	return (f.Page - 1) * f.PageSize
}
