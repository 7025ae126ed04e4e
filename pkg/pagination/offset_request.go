package pagination

import "fmt"

// OffsetRequest represents an offset-based pagination request
type OffsetRequest struct {
	Page    int `json:"page" query:"page"`
	PerPage int `json:"per_page" query:"per_page"`
}

// Validate rejects an explicit page size outside 1..PageMaxSize and
// applies defaults to unset values.
func (r *OffsetRequest) Validate() error {
	if r.PerPage < 0 || r.PerPage > PageMaxSize {
		return fmt.Errorf("per_page must be between 1 and %d", PageMaxSize)
	}
	if r.Page < 0 {
		return fmt.Errorf("page must be a positive number")
	}
	if r.Page > PageMaxNumber {
		return fmt.Errorf("page must not exceed %d", PageMaxNumber)
	}
	if r.Page == 0 {
		r.Page = 1
	}
	if r.PerPage == 0 {
		r.PerPage = PageDefaultSize
	}
	return nil
}
