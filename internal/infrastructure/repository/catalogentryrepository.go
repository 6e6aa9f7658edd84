package repository

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/pinegate/pinegate/internal/domain/catalog"
	"github.com/pinegate/pinegate/internal/infrastructure/persistence/mappers"
	"github.com/pinegate/pinegate/internal/infrastructure/persistence/models"
	"github.com/pinegate/pinegate/internal/shared/db"
	"github.com/pinegate/pinegate/internal/shared/logger"
)

var catalogSortColumns = map[string]bool{
	"title":          true,
	"likes_count":    true,
	"reviews_count":  true,
	"last_synced_at": true,
	"created_at":     true,
}

// CatalogEntryRepositoryImpl implements catalog.EntryRepository.
type CatalogEntryRepositoryImpl struct {
	db     *gorm.DB
	logger logger.Interface
}

func NewCatalogEntryRepository(db *gorm.DB, logger logger.Interface) catalog.EntryRepository {
	return &CatalogEntryRepositoryImpl{
		db:     db,
		logger: logger,
	}
}

// Upsert inserts the entry or refreshes the scraped columns of the existing
// (seller_id, script_id) row. Rows are never deleted here.
func (r *CatalogEntryRepositoryImpl) Upsert(ctx context.Context, entry *catalog.Entry) error {
	model := mappers.CatalogEntryToModel(entry)

	err := db.Conn(ctx, r.db).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "seller_id"}, {Name: "script_id"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"pine_id", "title", "script_url", "image_url",
			"likes_count", "reviews_count", "last_synced_at", "updated_at",
		}),
	}).Create(model).Error
	if err != nil {
		r.logger.Errorw("failed to upsert catalog entry",
			"seller_id", model.SellerID,
			"script_id", model.ScriptID,
			"error", err)
		return fmt.Errorf("failed to upsert catalog entry: %w", err)
	}

	if entry.ID() != 0 {
		return nil
	}

	// The driver does not always report the id of an updated row.
	var id uint
	if err := db.Conn(ctx, r.db).
		Model(&models.CatalogEntryModel{}).
		Where("seller_id = ? AND script_id = ?", model.SellerID, model.ScriptID).
		Pluck("id", &id).Error; err != nil {
		return fmt.Errorf("failed to read catalog entry ID: %w", err)
	}
	if id == 0 {
		return nil
	}
	return entry.SetID(id)
}

func (r *CatalogEntryRepositoryImpl) GetBySellerAndPineID(ctx context.Context, sellerID uint, pineID string) (*catalog.Entry, error) {
	return r.findOne(ctx, "seller_id = ? AND pine_id = ?", sellerID, pineID)
}

func (r *CatalogEntryRepositoryImpl) GetBySellerAndScriptID(ctx context.Context, sellerID uint, scriptID string) (*catalog.Entry, error) {
	return r.findOne(ctx, "seller_id = ? AND script_id = ?", sellerID, scriptID)
}

func (r *CatalogEntryRepositoryImpl) findOne(ctx context.Context, where string, args ...interface{}) (*catalog.Entry, error) {
	var model models.CatalogEntryModel

	if err := db.Conn(ctx, r.db).Where(where, args...).Order("id ASC").First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		r.logger.Errorw("failed to get catalog entry", "error", err)
		return nil, fmt.Errorf("failed to get catalog entry: %w", err)
	}

	return mappers.CatalogEntryToEntity(&model)
}

func (r *CatalogEntryRepositoryImpl) ListBySeller(ctx context.Context, sellerID uint, filter catalog.ListFilter) ([]*catalog.Entry, int64, error) {
	query := db.Conn(ctx, r.db).Model(&models.CatalogEntryModel{}).Where("seller_id = ?", sellerID)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		r.logger.Errorw("failed to count catalog entries", "seller_id", sellerID, "error", err)
		return nil, 0, fmt.Errorf("failed to count catalog entries: %w", err)
	}

	var rows []models.CatalogEntryModel
	if err := query.
		Order(filter.OrderClause(catalogSortColumns, "title ASC")).
		Offset(filter.Offset()).
		Limit(filter.Limit()).
		Find(&rows).Error; err != nil {
		r.logger.Errorw("failed to list catalog entries", "seller_id", sellerID, "error", err)
		return nil, 0, fmt.Errorf("failed to list catalog entries: %w", err)
	}

	entries := make([]*catalog.Entry, 0, len(rows))
	for i := range rows {
		entry, err := mappers.CatalogEntryToEntity(&rows[i])
		if err != nil {
			return nil, 0, err
		}
		entries = append(entries, entry)
	}

	return entries, total, nil
}
