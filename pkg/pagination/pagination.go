package pagination

import (
	"strconv"
	"strings"

	"github.com/angelmondragon/uniforms-backend/pkg/types"
)

const (
	// DefaultPerPage is the page size used when perPage is not provided.
	DefaultPerPage = 15
	// MaxPerPage caps how many rows a single page may return.
	MaxPerPage = 100
)

// Params holds page pagination inputs from controllers.
type Params struct {
	Page    int
	PerPage int
}

// Limits bounds the per-page values accepted from callers.
type Limits struct {
	DefaultPerPage int
	MaxPerPage     int
}

func (l Limits) normalized() Limits {
	if l.DefaultPerPage <= 0 {
		l.DefaultPerPage = DefaultPerPage
	}
	if l.MaxPerPage <= 0 {
		l.MaxPerPage = MaxPerPage
	}
	if l.DefaultPerPage > l.MaxPerPage {
		l.DefaultPerPage = l.MaxPerPage
	}
	return l
}

// ParseParams reads page/perPage query values. Missing or unparsable values
// fall back to page 1 and the configured default page size.
func ParseParams(page, perPage string, limits Limits) Params {
	limits = limits.normalized()
	params := Params{Page: 1, PerPage: limits.DefaultPerPage}

	if v, err := strconv.Atoi(strings.TrimSpace(page)); err == nil && v > 0 {
		params.Page = v
	}
	if v, err := strconv.Atoi(strings.TrimSpace(perPage)); err == nil && v > 0 {
		params.PerPage = v
	}
	if params.PerPage > limits.MaxPerPage {
		params.PerPage = limits.MaxPerPage
	}
	return params
}

// Paginate slices an already ordered result set. Pages past the end return
// an empty item list with the correct totals.
func Paginate[T any](items []T, params Params) types.PaginatedData[T] {
	if params.Page <= 0 {
		params.Page = 1
	}
	if params.PerPage <= 0 {
		params.PerPage = DefaultPerPage
	}

	total := len(items)
	lastPage := 1
	if total > 0 {
		lastPage = (total + params.PerPage - 1) / params.PerPage
	}

	page := []T{}
	// compare before multiplying so huge page numbers cannot overflow
	if params.Page-1 < lastPage && total > 0 {
		start := (params.Page - 1) * params.PerPage
		end := start + params.PerPage
		if end > total {
			end = total
		}
		page = append(page, items[start:end]...)
	}

	return types.PaginatedData[T]{
		Items: page,
		Pagination: types.PaginationMeta{
			Page:     params.Page,
			PerPage:  params.PerPage,
			Total:    total,
			LastPage: lastPage,
		},
	}
}
