package pagination

// OffsetResult represents traditional offset-based pagination
type OffsetResult[T any] struct {
	Items    []T   `json:"items"`
	Total    int64 `json:"total"`
	Page     int   `json:"page"`
	PerPage  int   `json:"per_page"`
	LastPage int   `json:"last_page"`
	HasMore  bool  `json:"has_more"`
}

// NewOffsetResult creates a new offset-based result
func NewOffsetResult[T any](items []T, total int64, page int, perPage int) *OffsetResult[T] {
	if items == nil {
		items = []T{}
	}

	offset := (page - 1) * perPage
	hasMore := int64(offset+perPage) < total

	lastPage := 1
	if perPage > 0 && total > 0 {
		lastPage = int((total + int64(perPage) - 1) / int64(perPage))
	}

	return &OffsetResult[T]{
		Items:    items,
		Total:    total,
		Page:     page,
		PerPage:  perPage,
		LastPage: lastPage,
		HasMore:  hasMore,
	}
}
