package listing

import "sort"

const (
	// DefaultPerPage is the standard page size when one is not provided.
	DefaultPerPage = 25
	// MaxPerPage caps how many rows any listing can request.
	MaxPerPage = 100
)

// Params holds offset pagination inputs from controllers or services.
// Pages are 1-indexed.
type Params struct {
	Page    int
	PerPage int
}

// Normalize clamps the page to 1 and the page size to the configured bounds.
func (p Params) Normalize() Params {
	if p.Page < 1 {
		p.Page = 1
	}
	if p.PerPage <= 0 {
		p.PerPage = DefaultPerPage
	}
	if p.PerPage > MaxPerPage {
		p.PerPage = MaxPerPage
	}
	return p
}

// Offset returns the number of rows to skip for the normalized params.
func (p Params) Offset() int {
	n := p.Normalize()
	return (n.Page - 1) * n.PerPage
}

// Filter reports whether an item should be kept. Multiple filters are
// combined conjunctively.
type Filter[T any] func(T) bool

// Less orders two items. A nil Less preserves the input order.
type Less[T any] func(a, b T) bool

// Page is one window over a filtered, sorted collection.
type Page[T any] struct {
	Items      []T `json:"items"`
	Page       int `json:"page"`
	PerPage    int `json:"per_page"`
	TotalCount int `json:"total_count"`
	TotalPages int `json:"total_pages"`
}

// Build filters, sorts, and slices the provided items into one page.
// The input slice is never mutated; sorting is stable so equal items keep
// their relative order and consecutive pages concatenate without gaps or
// duplicates. TotalCount reflects the filtered collection, not the page.
func Build[T any](items []T, params Params, filters []Filter[T], less Less[T]) Page[T] {
	p := params.Normalize()

	kept := make([]T, 0, len(items))
	for _, item := range items {
		if matchesAll(item, filters) {
			kept = append(kept, item)
		}
	}

	if less != nil {
		sort.SliceStable(kept, func(i, j int) bool {
			return less(kept[i], kept[j])
		})
	}

	total := len(kept)
	totalPages := total / p.PerPage
	if total%p.PerPage != 0 {
		totalPages++
	}

	start := (p.Page - 1) * p.PerPage
	if start > total {
		start = total
	}
	end := start + p.PerPage
	if end > total {
		end = total
	}

	return Page[T]{
		Items:      kept[start:end],
		Page:       p.Page,
		PerPage:    p.PerPage,
		TotalCount: total,
		TotalPages: totalPages,
	}
}

func matchesAll[T any](item T, filters []Filter[T]) bool {
	for _, keep := range filters {
		if keep == nil {
			continue
		}
		if !keep(item) {
			return false
		}
	}
	return true
}
