package repository

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/pinegate/pinegate/internal/domain/program"
	"github.com/pinegate/pinegate/internal/infrastructure/persistence/mappers"
	"github.com/pinegate/pinegate/internal/infrastructure/persistence/models"
	"github.com/pinegate/pinegate/internal/shared/biztime"
	"github.com/pinegate/pinegate/internal/shared/db"
	"github.com/pinegate/pinegate/internal/shared/logger"
)

// ProgramRepositoryImpl implements program.Repository.
type ProgramRepositoryImpl struct {
	db     *gorm.DB
	logger logger.Interface
}

func NewProgramRepository(db *gorm.DB, logger logger.Interface) program.Repository {
	return &ProgramRepositoryImpl{
		db:     db,
		logger: logger,
	}
}

func (r *ProgramRepositoryImpl) Create(ctx context.Context, p *program.Program) error {
	model := mappers.ProgramToModel(p)

	if err := db.Conn(ctx, r.db).Create(model).Error; err != nil {
		r.logger.Errorw("failed to create program", "seller_id", p.SellerID(), "error", err)
		return fmt.Errorf("failed to create program: %w", err)
	}

	return p.SetID(model.ID)
}

func (r *ProgramRepositoryImpl) GetByID(ctx context.Context, id uint) (*program.Program, error) {
	var model models.ProgramModel

	if err := db.Conn(ctx, r.db).First(&model, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		r.logger.Errorw("failed to get program", "id", id, "error", err)
		return nil, fmt.Errorf("failed to get program: %w", err)
	}

	return mappers.ProgramToEntity(&model)
}

func (r *ProgramRepositoryImpl) DisableBySellers(ctx context.Context, sellerIDs []uint, reason string) (int64, error) {
	if len(sellerIDs) == 0 {
		return 0, nil
	}

	result := db.Conn(ctx, r.db).
		Model(&models.ProgramModel{}).
		Where("seller_id IN ? AND status = ?", sellerIDs, program.StatusActive.String()).
		Updates(map[string]interface{}{
			"status":          program.StatusDisabled.String(),
			"disabled_reason": reason,
			"updated_at":      biztime.NowUTC(),
		})
	if result.Error != nil {
		r.logger.Errorw("failed to disable programs", "seller_count", len(sellerIDs), "error", result.Error)
		return 0, fmt.Errorf("failed to disable programs: %w", result.Error)
	}

	if result.RowsAffected > 0 {
		r.logger.Infow("programs disabled", "count", result.RowsAffected, "reason", reason)
	}
	return result.RowsAffected, nil
}
