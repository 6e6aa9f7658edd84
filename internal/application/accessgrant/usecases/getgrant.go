package usecases

import (
	"context"
	"fmt"

	"github.com/pinegate/pinegate/internal/application/accessgrant/dto"
	"github.com/pinegate/pinegate/internal/domain/accessgrant"
	"github.com/pinegate/pinegate/internal/shared/errors"
	"github.com/pinegate/pinegate/internal/shared/logger"
)

type GetGrantUseCase struct {
	grantRepo accessgrant.GrantRepository
	logger    logger.Interface
}

// NewGetGrantUseCase creates a new get grant use case
func NewGetGrantUseCase(grantRepo accessgrant.GrantRepository, logger logger.Interface) *GetGrantUseCase {
	return &GetGrantUseCase{grantRepo: grantRepo, logger: logger}
}

// Execute executes the get grant use case
func (uc *GetGrantUseCase) Execute(ctx context.Context, grantID uint) (*dto.GrantDTO, error) {
	if grantID == 0 {
		return nil, errors.NewValidationError("grant ID is required")
	}
	grant, err := uc.grantRepo.GetByID(ctx, grantID)
	if err != nil {
		uc.logger.Errorw("failed to get access grant", "error", err, "grant_id", grantID)
		return nil, fmt.Errorf("failed to get access grant: %w", err)
	}
	if grant == nil {
		return nil, errors.NewNotFoundError("access grant not found")
	}
	return dto.ToGrantDTO(grant), nil
}

type ListGrantLogsUseCase struct {
	grantRepo accessgrant.GrantRepository
	logRepo   accessgrant.LogRepository
	logger    logger.Interface
}

// NewListGrantLogsUseCase creates a new list grant logs use case
func NewListGrantLogsUseCase(
	grantRepo accessgrant.GrantRepository,
	logRepo accessgrant.LogRepository,
	logger logger.Interface,
) *ListGrantLogsUseCase {
	return &ListGrantLogsUseCase{grantRepo: grantRepo, logRepo: logRepo, logger: logger}
}

// Execute returns the assignment log of a grant, oldest first
func (uc *ListGrantLogsUseCase) Execute(ctx context.Context, grantID uint) ([]*dto.LogEntryDTO, error) {
	if grantID == 0 {
		return nil, errors.NewValidationError("grant ID is required")
	}
	grant, err := uc.grantRepo.GetByID(ctx, grantID)
	if err != nil {
		uc.logger.Errorw("failed to get access grant", "error", err, "grant_id", grantID)
		return nil, fmt.Errorf("failed to get access grant: %w", err)
	}
	if grant == nil {
		return nil, errors.NewNotFoundError("access grant not found")
	}

	entries, err := uc.logRepo.ListByGrant(ctx, grantID)
	if err != nil {
		uc.logger.Errorw("failed to list assignment logs", "error", err, "grant_id", grantID)
		return nil, fmt.Errorf("failed to list assignment logs: %w", err)
	}
	return dto.ToLogEntryDTOs(entries), nil
}
