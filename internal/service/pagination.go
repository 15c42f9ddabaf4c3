// Package service implements the application's business rules.
package service

// PageSize is the fixed number of posts per listing page.
const PageSize = 5

// PageInfo describes one page of a listing.
type PageInfo struct {
	Page       int   `json:"page"`
	TotalPages int   `json:"total_pages"`
	Total      int64 `json:"total"`
}

// Paginate clamps a requested page number into range and returns the
// effective page, total page count and row offset. An empty listing still has
// one (empty) page; out-of-range requests land on the nearest valid page
// rather than failing.
func Paginate(total int64, page, size int) (effectivePage, totalPages, offset int) {
	if size < 1 {
		size = 1
	}

	totalPages = int((total + int64(size) - 1) / int64(size))
	if totalPages < 1 {
		totalPages = 1
	}

	if page < 1 {
		page = 1
	}
	if page > totalPages {
		page = totalPages
	}

	return page, totalPages, (page - 1) * size
}
