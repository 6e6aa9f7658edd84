package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pinegate/pinegate/internal/domain/catalog"
	"github.com/pinegate/pinegate/internal/shared/logger"
	"github.com/pinegate/pinegate/internal/shared/query"
)

func newEntry(t *testing.T, sellerID uint, scriptID, pineID, title string, likes int) *catalog.Entry {
	t.Helper()
	e, err := catalog.NewEntry(sellerID, scriptID, pineID, title, "https://www.tradingview.com/script/"+scriptID+"/", "", likes, 0, time.Now().UTC())
	require.NoError(t, err)
	return e
}

func TestCatalogEntryRepository_UpsertIsIdempotent(t *testing.T) {
	db := setupTestDB(t)
	repo := NewCatalogEntryRepository(db, logger.NewNop())
	ctx := context.Background()

	first := newEntry(t, 1, "AbC1-Smart-Trend", "PUB;abc", "Smart Trend", 3)
	require.NoError(t, repo.Upsert(ctx, first))
	require.NotZero(t, first.ID())

	again := newEntry(t, 1, "AbC1-Smart-Trend", "PUB;abc", "Smart Trend v2", 9)
	require.NoError(t, repo.Upsert(ctx, again))
	assert.Equal(t, first.ID(), again.ID())

	entries, total, err := repo.ListBySeller(ctx, 1, catalog.ListFilter{})
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	require.Len(t, entries, 1)
	assert.Equal(t, "Smart Trend v2", entries[0].Title())
	assert.Equal(t, 9, entries[0].LikesCount())
}

func TestCatalogEntryRepository_Lookups(t *testing.T) {
	repo := NewCatalogEntryRepository(setupTestDB(t), logger.NewNop())
	ctx := context.Background()

	require.NoError(t, repo.Upsert(ctx, newEntry(t, 1, "AbC1-Smart-Trend", "PINE123", "Smart Trend", 0)))
	require.NoError(t, repo.Upsert(ctx, newEntry(t, 2, "AbC1-Smart-Trend", "PINE123", "Other seller", 0)))

	byPine, err := repo.GetBySellerAndPineID(ctx, 1, "PINE123")
	require.NoError(t, err)
	require.NotNil(t, byPine)
	assert.Equal(t, "Smart Trend", byPine.Title())

	byScript, err := repo.GetBySellerAndScriptID(ctx, 2, "AbC1-Smart-Trend")
	require.NoError(t, err)
	require.NotNil(t, byScript)
	assert.Equal(t, "Other seller", byScript.Title())

	missing, err := repo.GetBySellerAndPineID(ctx, 3, "PINE123")
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestCatalogEntryRepository_ListBySellerPagesAndSorts(t *testing.T) {
	repo := NewCatalogEntryRepository(setupTestDB(t), logger.NewNop())
	ctx := context.Background()

	for i, title := range []string{"Bravo", "Alpha", "Charlie"} {
		require.NoError(t, repo.Upsert(ctx, newEntry(t, 5, title, "", title, i)))
	}

	entries, total, err := repo.ListBySeller(ctx, 5, catalog.ListFilter{PageFilter: query.PageFilter{Page: 1, PageSize: 2}})
	require.NoError(t, err)
	assert.EqualValues(t, 3, total)
	require.Len(t, entries, 2)
	assert.Equal(t, "Alpha", entries[0].Title())
	assert.Equal(t, "Bravo", entries[1].Title())

	entries, _, err = repo.ListBySeller(ctx, 5, catalog.ListFilter{
		SortFilter: query.SortFilter{SortBy: "likes_count", SortOrder: "desc"},
	})
	require.NoError(t, err)
	assert.Equal(t, "Charlie", entries[0].Title())

	// unknown sort columns fall back to title order
	entries, _, err = repo.ListBySeller(ctx, 5, catalog.ListFilter{
		SortFilter: query.SortFilter{SortBy: "id; DROP TABLE catalog_entries"},
	})
	require.NoError(t, err)
	assert.Equal(t, "Alpha", entries[0].Title())
}
