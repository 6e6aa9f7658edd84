package repository

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/pinegate/pinegate/internal/domain/seller"
	"github.com/pinegate/pinegate/internal/infrastructure/persistence/mappers"
	"github.com/pinegate/pinegate/internal/infrastructure/persistence/models"
	"github.com/pinegate/pinegate/internal/shared/db"
	apperrors "github.com/pinegate/pinegate/internal/shared/errors"
	"github.com/pinegate/pinegate/internal/shared/logger"
)

// SellerConnectionRepositoryImpl implements seller.ConnectionRepository.
type SellerConnectionRepositoryImpl struct {
	db     *gorm.DB
	mapper mappers.SellerConnectionMapper
	logger logger.Interface
}

func NewSellerConnectionRepository(db *gorm.DB, logger logger.Interface) seller.ConnectionRepository {
	return &SellerConnectionRepositoryImpl{
		db:     db,
		mapper: mappers.NewSellerConnectionMapper(),
		logger: logger,
	}
}

func (r *SellerConnectionRepositoryImpl) Create(ctx context.Context, conn *seller.SellerConnection) error {
	model := r.mapper.ToModel(conn)

	if err := db.Conn(ctx, r.db).Create(model).Error; err != nil {
		if apperrors.IsDuplicateError(err) {
			return apperrors.NewConflictError("seller connection already exists")
		}
		r.logger.Errorw("failed to create seller connection", "seller_id", conn.SellerID(), "error", err)
		return fmt.Errorf("failed to create seller connection: %w", err)
	}

	if err := conn.SetID(model.ID); err != nil {
		return fmt.Errorf("failed to set seller connection ID: %w", err)
	}

	r.logger.Infow("seller connection created", "id", model.ID, "seller_id", model.SellerID)
	return nil
}

// Update writes the connection if nobody else changed it since it was loaded.
func (r *SellerConnectionRepositoryImpl) Update(ctx context.Context, conn *seller.SellerConnection) error {
	model := r.mapper.ToModel(conn)

	result := db.Conn(ctx, r.db).
		Model(&models.SellerConnectionModel{}).
		Where("id = ? AND version = ?", model.ID, model.Version).
		Updates(map[string]interface{}{
			"platform_username": model.PlatformUsername,
			"session_id_enc":    model.SessionIDEnc,
			"session_sign_enc":  model.SessionSignEnc,
			"status":            model.Status,
			"last_validated_at": model.LastValidatedAt,
			"last_error":        model.LastError,
			"version":           model.Version + 1,
			"updated_at":        model.UpdatedAt,
		})

	if result.Error != nil {
		r.logger.Errorw("failed to update seller connection", "id", model.ID, "error", result.Error)
		return fmt.Errorf("failed to update seller connection: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return seller.ErrVersionConflict
	}

	conn.SetVersion(model.Version + 1)
	return nil
}

func (r *SellerConnectionRepositoryImpl) GetBySellerID(ctx context.Context, sellerID uint) (*seller.SellerConnection, error) {
	var model models.SellerConnectionModel

	if err := db.Conn(ctx, r.db).Where("seller_id = ?", sellerID).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		r.logger.Errorw("failed to get seller connection", "seller_id", sellerID, "error", err)
		return nil, fmt.Errorf("failed to get seller connection: %w", err)
	}

	return r.mapper.ToEntity(&model)
}

func (r *SellerConnectionRepositoryImpl) ListProbeCandidates(ctx context.Context) ([]*seller.SellerConnection, error) {
	var rows []*models.SellerConnectionModel

	err := db.Conn(ctx, r.db).
		Where("status IN ?", []string{seller.StatusActive.String(), seller.StatusUnknown.String()}).
		Where("session_id_enc IS NOT NULL AND session_id_enc <> ''").
		Where("session_sign_enc IS NOT NULL AND session_sign_enc <> ''").
		Order("id ASC").
		Find(&rows).Error
	if err != nil {
		r.logger.Errorw("failed to list probe candidates", "error", err)
		return nil, fmt.Errorf("failed to list probe candidates: %w", err)
	}

	return r.mapper.ToEntities(rows)
}

func (r *SellerConnectionRepositoryImpl) ListNonActiveSellerIDs(ctx context.Context) ([]uint, error) {
	var ids []uint

	err := db.Conn(ctx, r.db).
		Model(&models.SellerConnectionModel{}).
		Where("status <> ?", seller.StatusActive.String()).
		Order("seller_id ASC").
		Pluck("seller_id", &ids).Error
	if err != nil {
		r.logger.Errorw("failed to list non-active sellers", "error", err)
		return nil, fmt.Errorf("failed to list non-active sellers: %w", err)
	}

	return ids, nil
}
