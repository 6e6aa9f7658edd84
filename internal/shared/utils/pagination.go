package utils

import (
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/pinegate/pinegate/internal/shared/constants"
	"github.com/pinegate/pinegate/internal/shared/query"
)

// ListParams is the page and sort selection of a list endpoint.
type ListParams struct {
	Page query.PageFilter
	Sort query.SortFilter
}

// ParseListParams reads page, page_size, sort_by and sort_order from the query
// string. Bad numbers fall back to defaults and page_size is capped; sort_by is
// passed through for the repository to check against its own column list.
func ParseListParams(c *gin.Context) ListParams {
	pageSize := positiveQueryInt(c, "page_size", constants.DefaultPageSize)
	if pageSize > constants.MaxPageSize {
		pageSize = constants.MaxPageSize
	}

	order := strings.ToLower(strings.TrimSpace(c.Query("sort_order")))
	if order != "asc" && order != "desc" {
		order = ""
	}

	return ListParams{
		Page: query.PageFilter{
			Page:     positiveQueryInt(c, "page", constants.DefaultPage),
			PageSize: pageSize,
		},
		Sort: query.SortFilter{
			SortBy:    strings.TrimSpace(c.Query("sort_by")),
			SortOrder: order,
		},
	}
}

func positiveQueryInt(c *gin.Context, key string, fallback int) int {
	if n, err := strconv.Atoi(c.Query(key)); err == nil && n >= 1 {
		return n
	}
	return fallback
}

// TotalPages never reports fewer than one page so clients can always render page 1.
func TotalPages(total int64, pageSize int) int {
	if total <= 0 || pageSize <= 0 {
		return 1
	}
	return int((total + int64(pageSize) - 1) / int64(pageSize))
}
