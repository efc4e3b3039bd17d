// Package pagination carries offset paging for the ledger's list endpoints:
// session receipts, movement history and pending stock counts.
package pagination

const (
	defaultPerPage = 15
	maxPerPage     = 100
)

// Params is the page a caller asked for
type Params struct {
	Page    int `form:"page"`
	PerPage int `form:"per_page"`
}

// DefaultParams returns the first page at the default size
func DefaultParams() *Params {
	return &Params{Page: 1, PerPage: defaultPerPage}
}

// Validate clamps the request into range
func (p *Params) Validate() {
	if p.Page < 1 {
		p.Page = 1
	}
	switch {
	case p.PerPage < 1:
		p.PerPage = defaultPerPage
	case p.PerPage > maxPerPage:
		p.PerPage = maxPerPage
	}
}

func (p *Params) Offset() int {
	return (p.Page - 1) * p.PerPage
}

// Page describes the slice of rows returned
type Page struct {
	Page    int   `json:"page"`
	PerPage int   `json:"per_page"`
	Total   int64 `json:"total"`
	HasNext bool  `json:"has_next"`
}

// NewPage reports where params sits within total rows
func NewPage(params *Params, total int64) *Page {
	return &Page{
		Page:    params.Page,
		PerPage: params.PerPage,
		Total:   total,
		HasNext: int64(params.Page)*int64(params.PerPage) < total,
	}
}

// Result pairs a page of items with its position
type Result[T any] struct {
	Items []T   `json:"items"`
	Page  *Page `json:"page"`
}

func NewResult[T any](items []T, page *Page) *Result[T] {
	return &Result[T]{Items: items, Page: page}
}
