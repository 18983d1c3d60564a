// File: internal/common/pagination.go
package common

import (
	"pagination_backend/internal/paging"
)

// Pagination describes the returned page in paginated API responses.
type Pagination struct {
	TotalItems  int64           `json:"total_items"`
	TotalPages  int             `json:"total_pages"`
	CurrentPage int             `json:"current_page"`
	PageSize    int             `json:"page_size"`
	Sort        string          `json:"sort"`
	Dir         string          `json:"dir"`
	HasNext     bool            `json:"has_next"`
	HasPrev     bool            `json:"has_prev"`
	Links       PaginationLinks `json:"links"`
}

// PaginationLinks are ready-to-follow URLs for navigating the result set.
type PaginationLinks struct {
	Self  string `json:"self"`
	First string `json:"first"`
	Prev  string `json:"prev,omitempty"`
	Next  string `json:"next,omitempty"`
	Last  string `json:"last,omitempty"`
}

// NewPagination creates a pagination block from the request state.
// SetCount must have been called for totals and the last link to be filled.
func NewPagination(state *paging.State) *Pagination {
	total, _ := state.Count()
	sort, dir := state.OrderBy()

	p := &Pagination{
		TotalItems:  total,
		TotalPages:  state.AllPages(),
		CurrentPage: state.CurrentPage(),
		PageSize:    state.Size(),
		Sort:        sort,
		Dir:         dir,
		HasNext:     state.HasNext(),
		HasPrev:     state.HasPrev(),
		Links: PaginationLinks{
			Self:  state.PageURL(state.CurrentPage(), nil),
			First: state.PageURL(1, nil),
		},
	}
	if p.HasPrev {
		p.Links.Prev = state.PageURL(state.CurrentPage()-1, nil)
	}
	if p.HasNext {
		p.Links.Next = state.PageURL(state.CurrentPage()+1, nil)
	}
	if p.TotalPages > 0 {
		p.Links.Last = state.PageURL(p.TotalPages, nil)
	}
	return p
}
