package pagination

import (
	"strings"

	"gorm.io/gorm"
)

const (
	DefaultPageSize = 15
	MaxPageSize     = 250
)

// PageRequest describes an offset-paginated query. Page is zero-based.
type PageRequest struct {
	Page      int    `form:"page,default=0"`
	Size      int    `form:"size,default=15"`
	SortBy    string `form:"sort_by,default=id"`
	Direction string `form:"direction,default=asc"`
}

// Page bundles one slice of results with pagination metadata.
type Page[T any] struct {
	Items         []T   `json:"items"`
	Page          int   `json:"page"`
	Size          int   `json:"size"`
	TotalElements int64 `json:"total_elements"`
	TotalPages    int   `json:"total_pages"`
	First         bool  `json:"first"`
	Last          bool  `json:"last"`
}

// Normalize clamps the request into valid bounds and restricts the sort
// field to the allowed set. Unknown sort fields fall back to fallbackSort.
func (r PageRequest) Normalize(allowedSort map[string]bool, fallbackSort string) PageRequest {
	out := r
	if out.Page < 0 {
		out.Page = 0
	}
	if out.Size < 1 {
		out.Size = DefaultPageSize
	}
	if out.Size > MaxPageSize {
		out.Size = MaxPageSize
	}

	sortBy := strings.TrimSpace(out.SortBy)
	if sortBy == "" || !allowedSort[sortBy] {
		sortBy = fallbackSort
	}
	out.SortBy = sortBy

	if strings.EqualFold(strings.TrimSpace(out.Direction), "desc") {
		out.Direction = "desc"
	} else {
		out.Direction = "asc"
	}
	return out
}

// Apply adds ORDER BY, LIMIT and OFFSET clauses for the request.
func (r PageRequest) Apply(stmt *gorm.DB) *gorm.DB {
	return stmt.
		Order(r.SortBy + " " + r.Direction).
		Limit(r.Size).
		Offset(r.Page * r.Size)
}

// NewPage builds the page descriptor for one slice of results.
func NewPage[T any](items []T, req PageRequest, total int64) Page[T] {
	if items == nil {
		items = []T{}
	}

	totalPages := 0
	if req.Size > 0 {
		totalPages = int((total + int64(req.Size) - 1) / int64(req.Size))
	}

	return Page[T]{
		Items:         items,
		Page:          req.Page,
		Size:          req.Size,
		TotalElements: total,
		TotalPages:    totalPages,
		First:         req.Page == 0,
		Last:          req.Page >= totalPages-1,
	}
}
