package repository

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/pinegate/pinegate/internal/domain/accessgrant"
	"github.com/pinegate/pinegate/internal/infrastructure/persistence/mappers"
	"github.com/pinegate/pinegate/internal/infrastructure/persistence/models"
	"github.com/pinegate/pinegate/internal/shared/db"
	apperrors "github.com/pinegate/pinegate/internal/shared/errors"
	"github.com/pinegate/pinegate/internal/shared/logger"
)

// AccessGrantRepositoryImpl implements accessgrant.GrantRepository. Writes join
// the transaction carried by ctx when there is one.
type AccessGrantRepositoryImpl struct {
	db     *gorm.DB
	mapper mappers.AccessGrantMapper
	logger logger.Interface
}

func NewAccessGrantRepository(gdb *gorm.DB, logger logger.Interface) accessgrant.GrantRepository {
	return &AccessGrantRepositoryImpl{
		db:     gdb,
		mapper: mappers.NewAccessGrantMapper(),
		logger: logger,
	}
}

func (r *AccessGrantRepositoryImpl) Create(ctx context.Context, grant *accessgrant.Grant) error {
	model, err := r.mapper.ToModel(grant)
	if err != nil {
		return err
	}

	if err := db.Conn(ctx, r.db).Create(model).Error; err != nil {
		if apperrors.IsDuplicateError(err) {
			return accessgrant.ErrDuplicatePurchase
		}
		r.logger.Errorw("failed to create access grant", "purchase_id", grant.PurchaseID(), "error", err)
		return fmt.Errorf("failed to create access grant: %w", err)
	}

	if err := grant.SetID(model.ID); err != nil {
		return fmt.Errorf("failed to set access grant ID: %w", err)
	}

	r.logger.Infow("access grant created",
		"id", model.ID,
		"purchase_id", model.PurchaseID,
		"access_type", model.AccessType)
	return nil
}

// Update persists the grant only if its version is still the one that was loaded.
func (r *AccessGrantRepositoryImpl) Update(ctx context.Context, grant *accessgrant.Grant) error {
	model, err := r.mapper.ToModel(grant)
	if err != nil {
		return err
	}

	result := db.Conn(ctx, r.db).
		Model(&models.AccessGrantModel{}).
		Where("id = ? AND version = ?", model.ID, model.Version).
		Updates(map[string]interface{}{
			"pine_id":                 model.PineID,
			"script_id":               model.ScriptID,
			"buyer_username":          model.BuyerUsername,
			"access_type":             model.AccessType,
			"trial_duration_days":     model.TrialDurationDays,
			"subscription_expires_at": model.SubscriptionExpiresAt,
			"status":                  model.Status,
			"attempts":                model.Attempts,
			"last_attempt_at":         model.LastAttemptAt,
			"assigned_at":             model.AssignedAt,
			"expires_at":              model.ExpiresAt,
			"error_message":           model.ErrorMessage,
			"details":                 model.Details,
			"version":                 model.Version + 1,
			"updated_at":              model.UpdatedAt,
		})

	if result.Error != nil {
		r.logger.Errorw("failed to update access grant", "id", model.ID, "error", result.Error)
		return fmt.Errorf("failed to update access grant: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		r.logger.Warnw("access grant version mismatch", "id", model.ID, "version", model.Version)
		return accessgrant.ErrVersionConflict
	}

	grant.SetVersion(model.Version + 1)
	return nil
}

func (r *AccessGrantRepositoryImpl) GetByID(ctx context.Context, id uint) (*accessgrant.Grant, error) {
	var model models.AccessGrantModel

	if err := db.Conn(ctx, r.db).First(&model, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		r.logger.Errorw("failed to get access grant", "id", id, "error", err)
		return nil, fmt.Errorf("failed to get access grant: %w", err)
	}

	return r.mapper.ToEntity(&model)
}

func (r *AccessGrantRepositoryImpl) GetByPurchaseID(ctx context.Context, purchaseID string) (*accessgrant.Grant, error) {
	var model models.AccessGrantModel

	if err := db.Conn(ctx, r.db).Where("purchase_id = ?", purchaseID).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		r.logger.Errorw("failed to get access grant by purchase", "purchase_id", purchaseID, "error", err)
		return nil, fmt.Errorf("failed to get access grant: %w", err)
	}

	return r.mapper.ToEntity(&model)
}

// AssignmentLogRepositoryImpl implements accessgrant.LogRepository. It only inserts and reads.
type AssignmentLogRepositoryImpl struct {
	db     *gorm.DB
	mapper mappers.AccessGrantMapper
	logger logger.Interface
}

func NewAssignmentLogRepository(gdb *gorm.DB, logger logger.Interface) accessgrant.LogRepository {
	return &AssignmentLogRepositoryImpl{
		db:     gdb,
		mapper: mappers.NewAccessGrantMapper(),
		logger: logger,
	}
}

func (r *AssignmentLogRepositoryImpl) Append(ctx context.Context, entry *accessgrant.LogEntry) error {
	model, err := r.mapper.LogToModel(entry)
	if err != nil {
		return err
	}

	if err := db.Conn(ctx, r.db).Create(model).Error; err != nil {
		r.logger.Errorw("failed to append assignment log", "grant_id", entry.GrantID(), "error", err)
		return fmt.Errorf("failed to append assignment log: %w", err)
	}

	return entry.SetID(model.ID)
}

func (r *AssignmentLogRepositoryImpl) ListByGrant(ctx context.Context, grantID uint) ([]*accessgrant.LogEntry, error) {
	var rows []models.AssignmentLogModel

	if err := db.Conn(ctx, r.db).
		Where("grant_id = ?", grantID).
		Order("created_at ASC, id ASC").
		Find(&rows).Error; err != nil {
		r.logger.Errorw("failed to list assignment logs", "grant_id", grantID, "error", err)
		return nil, fmt.Errorf("failed to list assignment logs: %w", err)
	}

	entries := make([]*accessgrant.LogEntry, 0, len(rows))
	for i := range rows {
		entry, err := r.mapper.LogToEntity(&rows[i])
		if err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}
	return entries, nil
}
