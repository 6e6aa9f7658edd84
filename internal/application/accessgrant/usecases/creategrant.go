package usecases

import (
	"context"
	stderrors "errors"
	"fmt"
	"time"

	"github.com/pinegate/pinegate/internal/application/accessgrant/dto"
	"github.com/pinegate/pinegate/internal/domain/accessgrant"
	"github.com/pinegate/pinegate/internal/domain/program"
	"github.com/pinegate/pinegate/internal/shared/errors"
	"github.com/pinegate/pinegate/internal/shared/logger"
)

type CreateGrantCommand struct {
	PurchaseID            string
	SellerID              uint
	BuyerID               uint
	ProgramID             uint
	PineID                string
	BuyerUsername         string
	AccessType            string
	TrialDurationDays     *int
	SubscriptionExpiresAt *time.Time
}

type CreateGrantUseCase struct {
	grantRepo   accessgrant.GrantRepository
	programRepo program.Repository
	logger      logger.Interface
}

// NewCreateGrantUseCase creates a new create grant use case
func NewCreateGrantUseCase(
	grantRepo accessgrant.GrantRepository,
	programRepo program.Repository,
	logger logger.Interface,
) *CreateGrantUseCase {
	return &CreateGrantUseCase{
		grantRepo:   grantRepo,
		programRepo: programRepo,
		logger:      logger,
	}
}

// Execute records a pending grant for a purchase; a repeated purchase id is a conflict
func (uc *CreateGrantUseCase) Execute(ctx context.Context, cmd CreateGrantCommand) (*dto.GrantDTO, error) {
	accessType, err := accessgrant.NewAccessType(cmd.AccessType)
	if err != nil {
		return nil, errors.NewValidationError(err.Error())
	}

	if cmd.ProgramID != 0 {
		p, err := uc.programRepo.GetByID(ctx, cmd.ProgramID)
		if err != nil {
			uc.logger.Errorw("failed to get program", "error", err, "program_id", cmd.ProgramID)
			return nil, fmt.Errorf("failed to get program: %w", err)
		}
		if p == nil {
			return nil, errors.NewNotFoundError("program not found")
		}
		if p.SellerID() != cmd.SellerID {
			return nil, errors.NewValidationError("program does not belong to seller")
		}
		if !p.Status().IsActive() {
			return nil, errors.NewConflictError("program is disabled", p.DisabledReason())
		}
	}

	grant, err := accessgrant.NewGrant(cmd.PurchaseID, cmd.SellerID, cmd.BuyerID, cmd.ProgramID, accessgrant.Terms{
		PineID:                cmd.PineID,
		BuyerUsername:         cmd.BuyerUsername,
		AccessType:            accessType,
		TrialDurationDays:     cmd.TrialDurationDays,
		SubscriptionExpiresAt: cmd.SubscriptionExpiresAt,
	})
	if err != nil {
		return nil, errors.NewValidationError(err.Error())
	}

	if err := uc.grantRepo.Create(ctx, grant); err != nil {
		if stderrors.Is(err, accessgrant.ErrDuplicatePurchase) {
			return nil, errors.NewConflictError("an access grant already exists for this purchase", cmd.PurchaseID)
		}
		uc.logger.Errorw("failed to create access grant", "error", err, "purchase_id", cmd.PurchaseID)
		return nil, fmt.Errorf("failed to create access grant: %w", err)
	}

	uc.logger.Infow("access grant created",
		"grant_id", grant.ID(),
		"purchase_id", grant.PurchaseID(),
		"seller_id", grant.SellerID(),
		"access_type", accessType,
	)
	return dto.ToGrantDTO(grant), nil
}
