// Package pagination provides the shared page metadata contract used by every
// list endpoint.
package pagination

// DefaultPageSize is the page size applied when a request does not specify one.
const DefaultPageSize = 10

// MaxPageSize caps the page size a caller may request.
const MaxPageSize = 100

// Meta describes one page of a listing. has_next/has_previous are included so
// clients can drive paging controls without a separate count query.
type Meta struct {
	CurrentPage    int  `json:"current_page"`
	TotalPages     int  `json:"total_pages"`
	TotalRecords   int  `json:"total_records"`
	RecordsPerPage int  `json:"records_per_page"`
	HasNext        bool `json:"has_next"`
	HasPrevious    bool `json:"has_previous"`
}

// NewMeta computes page metadata for a listing. Pages are 1-based; totalPages
// is at least 1 so an empty result still describes a valid first page.
func NewMeta(totalRecords, page, perPage int) Meta {
	if perPage <= 0 {
		perPage = DefaultPageSize
	}
	if page <= 0 {
		page = 1
	}

	totalPages := (totalRecords + perPage - 1) / perPage
	if totalPages == 0 {
		totalPages = 1
	}

	return Meta{
		CurrentPage:    page,
		TotalPages:     totalPages,
		TotalRecords:   totalRecords,
		RecordsPerPage: perPage,
		HasNext:        page < totalPages,
		HasPrevious:    page > 1,
	}
}

// Normalize clamps a requested page/perPage pair to sane bounds and returns
// the SQL offset alongside.
func Normalize(page, perPage int) (normPage, normPerPage, offset int) {
	if page <= 0 {
		page = 1
	}
	if perPage <= 0 {
		perPage = DefaultPageSize
	}
	if perPage > MaxPageSize {
		perPage = MaxPageSize
	}
	return page, perPage, (page - 1) * perPage
}
