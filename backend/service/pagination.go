package service

// Offset paging is O(offset) in the underlying store; acceptable at this
// catalog's scale. No cursor paging.

const (
	DefaultPageSize = 20
	MaxPageSize     = 100
)

// PageRequest is a normalized page/size pair.
type PageRequest struct {
	Page     int
	PageSize int
}

// NormalizePage clamps page to >= 1 and pageSize to [1, maxSize].
func NormalizePage(page, pageSize, maxSize int) PageRequest {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = DefaultPageSize
	}
	if pageSize > maxSize {
		pageSize = maxSize
	}
	return PageRequest{Page: page, PageSize: pageSize}
}

// Offset returns the zero-based record offset of the page.
func (r PageRequest) Offset() int {
	return (r.Page - 1) * r.PageSize
}

// FetchLimit returns how many records to request from the store: one more
// than the page size, so the presence of a next page is detected without a
// count query.
func (r PageRequest) FetchLimit() int {
	return r.PageSize + 1
}

// PageResult is one page of items plus pagination state. Total is nil when
// no count was requested; callers must treat that as unknown, not zero.
type PageResult[T any] struct {
	Items    []T    `json:"items"`
	Page     int    `json:"page"`
	PageSize int    `json:"page_size"`
	HasNext  bool   `json:"has_next"`
	HasPrev  bool   `json:"has_prev"`
	Total    *int64 `json:"total"`
}

// BuildPage trims the sentinel record fetched beyond the page size and fills
// in the pagination flags.
func BuildPage[T any](items []T, req PageRequest, total *int64) PageResult[T] {
	hasNext := len(items) > req.PageSize
	if hasNext {
		items = items[:req.PageSize]
	}
	return PageResult[T]{
		Items:    items,
		Page:     req.Page,
		PageSize: req.PageSize,
		HasNext:  hasNext,
		HasPrev:  req.Page > 1,
		Total:    total,
	}
}

// EmptyPage is the zero-result page for short-circuited queries.
func EmptyPage[T any](req PageRequest) PageResult[T] {
	return PageResult[T]{
		Items:    []T{},
		Page:     req.Page,
		PageSize: req.PageSize,
		HasNext:  false,
		HasPrev:  req.Page > 1,
	}
}
