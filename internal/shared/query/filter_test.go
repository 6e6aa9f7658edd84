package query

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPageFilter(t *testing.T) {
	assert.Equal(t, 0, PageFilter{}.Offset())
	assert.Equal(t, 20, PageFilter{}.Limit())
	assert.Equal(t, 100, PageFilter{PageSize: 500}.Limit())
	assert.Equal(t, 40, PageFilter{Page: 3, PageSize: 20}.Offset())
}

func TestSortFilter_OrderClause(t *testing.T) {
	allowed := map[string]bool{"likes_count": true, "title": true}

	assert.Equal(t, "likes_count DESC", SortFilter{SortBy: "likes_count", SortOrder: "DESC"}.OrderClause(allowed, "id ASC"))
	assert.Equal(t, "title ASC", SortFilter{SortBy: "title"}.OrderClause(allowed, "id ASC"))
	assert.Equal(t, "id ASC", SortFilter{SortBy: "password; drop"}.OrderClause(allowed, "id ASC"))
}
