package domain

import (
	"fmt"
	"math"
)

const MaxPageSize = 100

// MaxPage keeps Offset within int for any valid page size.
const MaxPage = math.MaxInt / MaxPageSize

// Page is a 0-based slice of an ordered result set.
type Page[T any] struct {
	Content       []T   `json:"content"`
	TotalElements int64 `json:"totalElements"`
	TotalPages    int   `json:"totalPages"`
	CurrentPage   int   `json:"currentPage"`
	PageSize      int   `json:"pageSize"`
}

type PageRequest struct {
	Page     int
	PageSize int
}

func (p PageRequest) Validate() error {
	if p.Page < 0 {
		return NewValidationError("page", "page must not be negative")
	}
	if p.Page > MaxPage {
		return NewValidationError("page", fmt.Sprintf("page must not exceed %d", MaxPage))
	}
	if p.PageSize <= 0 || p.PageSize > MaxPageSize {
		return NewValidationError("pageSize", fmt.Sprintf("pageSize must be between 1 and %d", MaxPageSize))
	}
	return nil
}

func (p PageRequest) Offset() int { return p.Page * p.PageSize }

func NewPage[T any](content []T, total int64, req PageRequest) Page[T] {
	if content == nil {
		content = []T{}
	}
	pages := 0
	if req.PageSize > 0 {
		pages = int((total + int64(req.PageSize) - 1) / int64(req.PageSize))
	}
	return Page[T]{
		Content:       content,
		TotalElements: total,
		TotalPages:    pages,
		CurrentPage:   req.Page,
		PageSize:      req.PageSize,
	}
}
