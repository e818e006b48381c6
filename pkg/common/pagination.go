package common

import (
	"net/http"
	"strconv"
)

const (
	// DefaultPageSize is the default number of items per page
	DefaultPageSize = 50
	// MaxPageSize is the maximum allowed page size
	MaxPageSize = 200
)

// PageRequest holds parsed pagination parameters
type PageRequest struct {
	Page     int
	PageSize int
}

// ParsePageRequest extracts pagination parameters from query string,
// clamping them to sane bounds.
func ParsePageRequest(r *http.Request) PageRequest {
	page := 1
	if v := r.URL.Query().Get("page"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			page = n
		}
	}

	pageSize := DefaultPageSize
	if v := r.URL.Query().Get("page_size"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			pageSize = n
		}
	}
	if pageSize > MaxPageSize {
		pageSize = MaxPageSize
	}

	return PageRequest{Page: page, PageSize: pageSize}
}

// Offset returns the zero-based item offset for this page
func (p PageRequest) Offset() int {
	return (p.Page - 1) * p.PageSize
}

// NewPaginationInfo builds pagination metadata for a result set
func NewPaginationInfo(page, pageSize, total int) *PaginationInfo {
	totalPages := 0
	if pageSize > 0 {
		totalPages = (total + pageSize - 1) / pageSize
	}
	return &PaginationInfo{
		Page:       page,
		PageSize:   pageSize,
		Total:      total,
		TotalPages: totalPages,
		HasNext:    page < totalPages,
		HasPrev:    page > 1,
	}
}

// Paginate slices items for the requested page. It returns an empty
// slice when the offset is past the end.
func Paginate[T any](items []T, req PageRequest) []T {
	start := req.Offset()
	if start >= len(items) {
		return []T{}
	}
	end := start + req.PageSize
	if end > len(items) {
		end = len(items)
	}
	return items[start:end]
}
