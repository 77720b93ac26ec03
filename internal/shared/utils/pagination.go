package utils

import "github.com/campusdesk/campusdesk/internal/shared/constants"

// Pagination is a normalized 1-based page request.
type Pagination struct {
	Page     int
	PageSize int
}

// ValidatePagination applies defaults to non-positive values and caps the
// page size at constants.MaxPageSize.
func ValidatePagination(page, pageSize int) Pagination {
	p := Pagination{Page: page, PageSize: pageSize}
	if p.Page < 1 {
		p.Page = constants.DefaultPage
	}
	switch {
	case p.PageSize < 1:
		p.PageSize = constants.DefaultPageSize
	case p.PageSize > constants.MaxPageSize:
		p.PageSize = constants.MaxPageSize
	}
	return p
}

// TotalPages never reports fewer than one page.
func TotalPages(total int64, pageSize int) int {
	if total <= 0 || pageSize <= 0 {
		return 1
	}
	return int((total + int64(pageSize) - 1) / int64(pageSize))
}
