package mappers

import (
	"fmt"

	"github.com/pinegate/pinegate/internal/domain/catalog"
	"github.com/pinegate/pinegate/internal/infrastructure/persistence/models"
)

// CatalogEntryToEntity rebuilds a catalog entry from its row.
func CatalogEntryToEntity(model *models.CatalogEntryModel) (*catalog.Entry, error) {
	if model == nil {
		return nil, nil
	}

	entry, err := catalog.ReconstructEntry(
		model.ID,
		model.SellerID,
		model.ScriptID,
		model.PineID,
		model.Title,
		model.ScriptURL,
		model.ImageURL,
		model.LikesCount,
		model.ReviewsCount,
		model.LastSyncedAt,
		model.CreatedAt,
		model.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to reconstruct catalog entry: %w", err)
	}
	return entry, nil
}

// CatalogEntryToModel flattens a catalog entry into its row.
func CatalogEntryToModel(entry *catalog.Entry) *models.CatalogEntryModel {
	if entry == nil {
		return nil
	}

	return &models.CatalogEntryModel{
		ID:           entry.ID(),
		SellerID:     entry.SellerID(),
		ScriptID:     entry.ScriptID(),
		PineID:       entry.PineID(),
		Title:        entry.Title(),
		ScriptURL:    entry.ScriptURL(),
		ImageURL:     entry.ImageURL(),
		LikesCount:   entry.LikesCount(),
		ReviewsCount: entry.ReviewsCount(),
		LastSyncedAt: entry.LastSyncedAt(),
		CreatedAt:    entry.CreatedAt(),
		UpdatedAt:    entry.UpdatedAt(),
	}
}
