package fop

import (
	"fmt"
	"strconv"
)

// DefaultMaxLimit caps the page size any list endpoint accepts.
const DefaultMaxLimit = 100

// Page represents a requested page of a list.
type Page struct {
	Number int
	Limit  int
}

// Offset is the number of rows to skip for this page.
func (p Page) Offset() int {
	return (p.Number - 1) * p.Limit
}

// ParsePage parses page and limit query values. Missing values fall back to
// page 1 and defaultLimit. Non numeric values are an error; out of range
// values are clamped.
func ParsePage(page string, limit string, defaultLimit int) (Page, error) {
	p := Page{Number: 1, Limit: defaultLimit}

	if page != "" {
		n, err := strconv.Atoi(page)
		if err != nil {
			return Page{}, fmt.Errorf("page conversion: %w", err)
		}
		p.Number = n
	}

	if limit != "" {
		n, err := strconv.Atoi(limit)
		if err != nil {
			return Page{}, fmt.Errorf("page limit conversion: %w", err)
		}
		p.Limit = n
	}

	if p.Number < 1 {
		p.Number = 1
	}
	if p.Limit < 1 {
		p.Limit = defaultLimit
	}
	if p.Limit > DefaultMaxLimit {
		p.Limit = DefaultMaxLimit
	}

	return p, nil
}

// PageInfo describes the page returned alongside a list.
type PageInfo struct {
	Page       int `json:"page"`
	Limit      int `json:"limit"`
	Total      int `json:"total"`
	TotalPages int `json:"totalPages"`
}

// NewPageInfo computes page info for a total row count.
func NewPageInfo(p Page, total int) PageInfo {
	pages := 0
	if p.Limit > 0 {
		pages = (total + p.Limit - 1) / p.Limit
	}
	return PageInfo{
		Page:       p.Number,
		Limit:      p.Limit,
		Total:      total,
		TotalPages: pages,
	}
}
