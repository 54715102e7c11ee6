package models

// Pagination describes one page of a listing.
type Pagination struct {
	CurrentPage int   `json:"currentPage"`
	PerPage     int   `json:"itemsPerPage"`
	Total       int64 `json:"totalItems"`
	LastPage    int   `json:"totalPages"`
}

func NewPagination(page, perPage int, total int64) Pagination {
	last := int((total + int64(perPage) - 1) / int64(perPage))
	if last < 1 {
		last = 1
	}
	return Pagination{CurrentPage: page, PerPage: perPage, Total: total, LastPage: last}
}

func (p Pagination) Offset() int { return (p.CurrentPage - 1) * p.PerPage }

func (p Pagination) HasPrevious() bool { return p.CurrentPage > 1 }

func (p Pagination) HasNext() bool { return p.CurrentPage < p.LastPage }

func (p Pagination) PreviousPage() int { return p.CurrentPage - 1 }

func (p Pagination) NextPage() int { return p.CurrentPage + 1 }
