package usecases

import (
	"context"
	"fmt"

	"github.com/pinegate/pinegate/internal/application/accessgrant/dto"
	"github.com/pinegate/pinegate/internal/domain/accessgrant"
	"github.com/pinegate/pinegate/internal/domain/catalog"
	"github.com/pinegate/pinegate/internal/domain/seller"
	"github.com/pinegate/pinegate/internal/shared/errors"
	"github.com/pinegate/pinegate/internal/shared/logger"
)

// VerifyAccessUseCase checks live whether the grant's buyer is on the script's
// access list. It does not change the grant.
type VerifyAccessUseCase struct {
	grantRepo   accessgrant.GrantRepository
	connRepo    seller.ConnectionRepository
	catalogRepo catalog.EntryRepository
	platform    AccessPlatform
	opener      seller.Opener
	logger      logger.Interface
}

// NewVerifyAccessUseCase creates a new verify access use case
func NewVerifyAccessUseCase(
	grantRepo accessgrant.GrantRepository,
	connRepo seller.ConnectionRepository,
	catalogRepo catalog.EntryRepository,
	platform AccessPlatform,
	opener seller.Opener,
	logger logger.Interface,
) *VerifyAccessUseCase {
	return &VerifyAccessUseCase{
		grantRepo:   grantRepo,
		connRepo:    connRepo,
		catalogRepo: catalogRepo,
		platform:    platform,
		opener:      opener,
		logger:      logger,
	}
}

// Execute checks the live access list; platform failures are reported, not returned
func (uc *VerifyAccessUseCase) Execute(ctx context.Context, grantID uint) (*dto.VerifyResultDTO, error) {
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

	sess, err := openSellerSession(ctx, uc.connRepo, uc.opener, grant.SellerID())
	if err != nil {
		return nil, err
	}

	scriptID := grant.ScriptID()
	if scriptID == "" {
		scriptID, err = resolveScriptID(ctx, uc.catalogRepo, grant.SellerID(), grant.PineID())
		if err != nil {
			return nil, err
		}
	}

	result := &dto.VerifyResultDTO{
		GrantID:       grant.ID(),
		ScriptID:      scriptID,
		BuyerUsername: grant.BuyerUsername(),
	}
	names, err := uc.platform.ListAccess(ctx, sess, scriptID, grant.BuyerUsername())
	if err != nil {
		uc.logger.Warnw("access verification failed", "grant_id", grant.ID(), "error", err)
		result.Error = appErrorOf(err).Message
		return result, nil
	}
	result.CanVerify = true
	result.HasAccess = containsUsername(names, grant.BuyerUsername())
	return result, nil
}
