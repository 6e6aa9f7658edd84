package usecases

import (
	"context"
	"time"

	"github.com/pinegate/pinegate/internal/application/seller/dto"
	"github.com/pinegate/pinegate/internal/domain/program"
	"github.com/pinegate/pinegate/internal/domain/seller"
	"github.com/pinegate/pinegate/internal/shared/biztime"
	"github.com/pinegate/pinegate/internal/shared/logger"
)

const reasonDisconnected = "seller disconnected from the platform"

// DisconnectSellerUseCase drops a seller's stored session and takes their
// offerings off sale.
type DisconnectSellerUseCase struct {
	connRepo    seller.ConnectionRepository
	programRepo program.Repository
	logger      logger.Interface
	now         func() time.Time
}

// NewDisconnectSellerUseCase creates a new disconnect seller use case
func NewDisconnectSellerUseCase(
	connRepo seller.ConnectionRepository,
	programRepo program.Repository,
	logger logger.Interface,
) *DisconnectSellerUseCase {
	return &DisconnectSellerUseCase{
		connRepo:    connRepo,
		programRepo: programRepo,
		logger:      logger,
		now:         biztime.NowUTC,
	}
}

// Execute executes the disconnect seller use case
func (uc *DisconnectSellerUseCase) Execute(ctx context.Context, sellerID uint) (*dto.ConnectionDTO, error) {
	conn, err := loadConnection(ctx, uc.connRepo, uc.logger, sellerID)
	if err != nil {
		return nil, err
	}

	conn.Disconnect(uc.now())
	if err := saveConnection(ctx, uc.connRepo, uc.logger, conn); err != nil {
		return nil, err
	}

	disabled, err := uc.programRepo.DisableBySellers(ctx, []uint{sellerID}, reasonDisconnected)
	if err != nil {
		// the next probe pass disables them
		uc.logger.Warnw("failed to disable programs after disconnect", "seller_id", sellerID, "error", err)
	}

	uc.logger.Infow("seller disconnected", "seller_id", sellerID, "programs_disabled", disabled)
	return dto.ToConnectionDTO(conn), nil
}
