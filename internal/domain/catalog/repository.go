package catalog

import (
	"context"

	"github.com/pinegate/pinegate/internal/shared/query"
)

type EntryRepository interface {
	// Upsert inserts the entry or refreshes the existing (seller, script id) row.
	Upsert(ctx context.Context, entry *Entry) error
	GetBySellerAndPineID(ctx context.Context, sellerID uint, pineID string) (*Entry, error)
	GetBySellerAndScriptID(ctx context.Context, sellerID uint, scriptID string) (*Entry, error)
	ListBySeller(ctx context.Context, sellerID uint, filter ListFilter) ([]*Entry, int64, error)
}

type ListFilter struct {
	query.PageFilter
	query.SortFilter
}
