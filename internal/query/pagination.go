package query

import (
	"net/url"
	"strconv"

	"gorm.io/gorm"
)

const (
	DefaultPage  = 1
	DefaultLimit = 10
)

// Page is the requested window. Number and Size are always positive;
// anything non-numeric or out of range falls back to the defaults instead
// of erroring.
type Page struct {
	Number int
	Size   int
}

// ParsePage reads page/limit from query parameters with soft fallbacks.
func ParsePage(values url.Values) Page {
	p := Page{Number: DefaultPage, Size: DefaultLimit}
	if n, err := strconv.Atoi(values.Get("page")); err == nil && n >= 1 {
		p.Number = n
	}
	if s, err := strconv.Atoi(values.Get("limit")); err == nil && s >= 1 {
		p.Size = s
	}
	return p
}

func (p Page) Offset() int {
	return (p.Number - 1) * p.Size
}

// Window applies the page to an already filtered and sorted query.
func (p Page) Window(tx *gorm.DB) *gorm.DB {
	return tx.Offset(p.Offset()).Limit(p.Size)
}

// Link is a replayable page reference: clients feed it straight back as
// page/limit query parameters.
type Link struct {
	Page  int `json:"page"`
	Limit int `json:"limit"`
}

type Pagination struct {
	Next *Link `json:"next,omitempty"`
	Prev *Link `json:"prev,omitempty"`
}

// Paginate computes navigation links against the total number of matches.
// A page past the end simply has no next link; it is not an error.
func (p Page) Paginate(total int64) Pagination {
	var pg Pagination
	if int64(p.Number)*int64(p.Size) < total {
		pg.Next = &Link{Page: p.Number + 1, Limit: p.Size}
	}
	if p.Offset() > 0 {
		pg.Prev = &Link{Page: p.Number - 1, Limit: p.Size}
	}
	return pg
}
