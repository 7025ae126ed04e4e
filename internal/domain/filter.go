package domain

import (
	"time"

	"github.com/DjordjeVuckovic/news-aggregator/pkg/pagination"
)

type SortOrder string

const (
	SortDesc SortOrder = "desc"
	SortAsc  SortOrder = "asc"
)

const (
	DefaultPerPage = pagination.PageDefaultSize
	MaxPerPage     = pagination.PageMaxSize
	MaxPage        = pagination.PageMaxNumber
)

// ArticleFilter is a read query over stored articles.
type ArticleFilter struct {
	SearchTerm string
	From       *time.Time
	To         *time.Time
	Category   string
	SourceKeys []string
	Author     string
	Sort       SortOrder
	Page       int
	PerPage    int
}

// Normalize applies defaults and clamps the page number and size.
func (f *ArticleFilter) Normalize() {
	if f.Sort != SortAsc {
		f.Sort = SortDesc
	}
	if f.Page < 1 {
		f.Page = 1
	}
	if f.Page > MaxPage {
		f.Page = MaxPage
	}
	if f.PerPage < 1 {
		f.PerPage = DefaultPerPage
	}
	if f.PerPage > MaxPerPage {
		f.PerPage = MaxPerPage
	}
}

func (f ArticleFilter) Offset() int {
	return (f.Page - 1) * f.PerPage
}

// ArticlePage is one page of a filtered article query.
type ArticlePage struct {
	Items []Article
	Total int64
}
