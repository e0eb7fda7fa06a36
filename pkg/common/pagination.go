package common

// PageRequest carries zero-based page selection for list endpoints
type PageRequest struct {
	Page int `json:"page"`
	Size int `json:"size"`
}

const (
	DefaultPageSize = 10
	MaxPageSize     = 100
)

// Normalize clamps out-of-range values back to defaults: size in (0, 100],
// page >= 0. Invalid sizes fall back to the default rather than erroring,
// matching the lenient contract of the list endpoints.
func (p PageRequest) Normalize() PageRequest {
	if p.Size <= 0 || p.Size > MaxPageSize {
		p.Size = DefaultPageSize
	}
	if p.Page < 0 {
		p.Page = 0
	}
	return p
}

// TotalPages returns ceil(total/size)
func TotalPages(total, size int) int {
	if size <= 0 {
		return 0
	}
	pages := total / size
	if total%size > 0 {
		pages++
	}
	return pages
}

// Page is one page of results with the scan-derived totals
type Page struct {
	Contents      interface{} `json:"contents"`
	PageNumber    int         `json:"page"`
	Size          int         `json:"size"`
	TotalElements int         `json:"totalElements"`
	TotalPages    int         `json:"totalPages"`
}
