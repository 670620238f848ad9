package factoryd

// Default pagination parameters, applied when the request does not
// supply page or per_page.
const (
	DefaultPage     = 1
	DefaultPageSize = 10
)

// FindOptions represents options passed to all find methods with
// multiple results. Pages are 1-indexed.
type FindOptions struct {
	Page    int
	PerPage int
}

// DefaultFindOptions returns FindOptions holding the default window.
func DefaultFindOptions() FindOptions {
	return FindOptions{
		Page:    DefaultPage,
		PerPage: DefaultPageSize,
	}
}

// Pagination is the window metadata echoed on every list response.
//
// PerPage reflects the effective page size: when the requested size
// exceeds the total it is clamped down to it, so a request for a
// thousand rows over a collection of twelve echoes per_page 12.
type Pagination struct {
	Total   int `json:"total"`
	Page    int `json:"page"`
	PerPage int `json:"per_page"`
}

// Window bounds the total count to the options and returns the skip
// offset, the effective page size and the response metadata.
//
// An empty collection yields a zero window rather than an error.
func (o FindOptions) Window(total int) (skip, size int, p Pagination) {
	page, perPage := o.Page, o.PerPage
	if page < 1 {
		page = DefaultPage
	}
	if perPage < 1 {
		perPage = DefaultPageSize
	}
	if perPage > total {
		perPage = total
	}

	return (page - 1) * perPage, perPage, Pagination{
		Total:   total,
		Page:    page,
		PerPage: perPage,
	}
}
