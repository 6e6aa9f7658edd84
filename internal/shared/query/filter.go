// Package query holds filter value types passed from use cases to repositories.
package query

import (
	"strings"

	"github.com/pinegate/pinegate/internal/shared/constants"
)

type PageFilter struct {
	Page     int
	PageSize int
}

func (f PageFilter) Offset() int {
	if f.Page <= 0 {
		return 0
	}
	return (f.Page - 1) * f.Limit()
}

func (f PageFilter) Limit() int {
	if f.PageSize <= 0 {
		return constants.DefaultPageSize
	}
	if f.PageSize > constants.MaxPageSize {
		return constants.MaxPageSize
	}
	return f.PageSize
}

type SortFilter struct {
	SortBy    string
	SortOrder string
}

func (f SortFilter) IsDescending() bool {
	return strings.EqualFold(f.SortOrder, "desc")
}

// OrderClause renders the filter as an ORDER BY fragment, restricted to the allowed columns.
func (f SortFilter) OrderClause(allowed map[string]bool, fallback string) string {
	if f.SortBy == "" || !allowed[f.SortBy] {
		return fallback
	}
	if f.IsDescending() {
		return f.SortBy + " DESC"
	}
	return f.SortBy + " ASC"
}
