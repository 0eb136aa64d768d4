package service

import (
	"math"
	"strings"
)

const (
	defaultLimit = 10
	maxLimit     = 100
)

// PageParams is the 1-based page request accepted by list operations.
type PageParams struct {
	Page  int
	Limit int
}

// normalize clamps the request and returns the effective limit and offset.
func (p PageParams) normalize() (limit, offset int) {
	page := p.Page
	if page < 1 {
		page = 1
	}
	limit = p.Limit
	if limit <= 0 {
		limit = defaultLimit
	}
	if limit > maxLimit {
		limit = maxLimit
	}
	// Keeps (page-1)*limit from overflowing int.
	if page > math.MaxInt/limit {
		page = math.MaxInt / limit
	}
	return limit, (page - 1) * limit
}

// ListResult is the service-level DTO for a page of T.
type ListResult[T any] struct {
	Items  []T
	Total  int
	Offset int
	Limit  int
}

// nonBlank drops absent and whitespace-only values; others pass through unchanged.
func nonBlank(p *string) *string {
	if p == nil || strings.TrimSpace(*p) == "" {
		return nil
	}
	return p
}
