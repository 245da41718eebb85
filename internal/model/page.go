package model

// Page is a single page of a server-ordered listing.
type Page[T any] struct {
	Content       []T   `json:"content"`
	TotalElements int64 `json:"totalElements"`
	Page          int   `json:"page"`
	Size          int   `json:"size"`
}

// Pagination bounds.
const (
	DefaultPageSize = 10
	MaxPageSize     = 100
)

// ClampPage normalizes page/size query values.
func ClampPage(page, size int) (int, int) {
	if page < 0 {
		page = 0
	}
	if size <= 0 {
		size = DefaultPageSize
	}
	if size > MaxPageSize {
		size = MaxPageSize
	}
	return page, size
}
