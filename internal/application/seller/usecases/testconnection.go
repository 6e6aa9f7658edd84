package usecases

import (
	"context"
	stderrors "errors"
	"fmt"
	"time"

	"github.com/pinegate/pinegate/internal/application/seller/dto"
	"github.com/pinegate/pinegate/internal/domain/seller"
	"github.com/pinegate/pinegate/internal/shared/biztime"
	"github.com/pinegate/pinegate/internal/shared/errors"
	"github.com/pinegate/pinegate/internal/shared/logger"
)

// TestConnectionUseCase probes one seller on demand, ignoring the freshness window.
type TestConnectionUseCase struct {
	connRepo seller.ConnectionRepository
	opener   seller.Opener
	checker  SessionChecker
	logger   logger.Interface
	now      func() time.Time
}

// NewTestConnectionUseCase creates a new test connection use case
func NewTestConnectionUseCase(
	connRepo seller.ConnectionRepository,
	opener seller.Opener,
	checker SessionChecker,
	logger logger.Interface,
) *TestConnectionUseCase {
	return &TestConnectionUseCase{
		connRepo: connRepo,
		opener:   opener,
		checker:  checker,
		logger:   logger,
		now:      biztime.NowUTC,
	}
}

// SetClock overrides the time source
func (uc *TestConnectionUseCase) SetClock(now func() time.Time) {
	uc.now = now
}

// Execute probes the stored session now, ignoring the revalidation window
func (uc *TestConnectionUseCase) Execute(ctx context.Context, sellerID uint) (*dto.ConnectionDTO, error) {
	conn, err := loadConnection(ctx, uc.connRepo, uc.logger, sellerID)
	if err != nil {
		return nil, err
	}
	if !conn.HasCredentials() {
		return nil, errors.NewCredentialError("seller has no stored session; connect first")
	}

	status := probeConnection(ctx, uc.checker, uc.opener, conn, uc.now())
	if err := saveConnection(ctx, uc.connRepo, uc.logger, conn); err != nil {
		return nil, err
	}

	uc.logger.Infow("seller connection tested", "seller_id", sellerID, "status", status)
	return dto.ToConnectionDTO(conn), nil
}

type GetConnectionUseCase struct {
	connRepo seller.ConnectionRepository
	logger   logger.Interface
}

// NewGetConnectionUseCase creates a new get connection use case
func NewGetConnectionUseCase(connRepo seller.ConnectionRepository, logger logger.Interface) *GetConnectionUseCase {
	return &GetConnectionUseCase{connRepo: connRepo, logger: logger}
}

// Execute executes the get connection use case
func (uc *GetConnectionUseCase) Execute(ctx context.Context, sellerID uint) (*dto.ConnectionDTO, error) {
	conn, err := loadConnection(ctx, uc.connRepo, uc.logger, sellerID)
	if err != nil {
		return nil, err
	}
	return dto.ToConnectionDTO(conn), nil
}

func loadConnection(ctx context.Context, repo seller.ConnectionRepository, log logger.Interface, sellerID uint) (*seller.SellerConnection, error) {
	if sellerID == 0 {
		return nil, errors.NewValidationError("seller ID is required")
	}
	conn, err := repo.GetBySellerID(ctx, sellerID)
	if err != nil {
		log.Errorw("failed to get seller connection", "error", err, "seller_id", sellerID)
		return nil, fmt.Errorf("failed to get seller connection: %w", err)
	}
	if conn == nil {
		return nil, errors.NewNotFoundError("seller connection not found")
	}
	return conn, nil
}

func saveConnection(ctx context.Context, repo seller.ConnectionRepository, log logger.Interface, conn *seller.SellerConnection) error {
	if err := repo.Update(ctx, conn); err != nil {
		if stderrors.Is(err, seller.ErrVersionConflict) {
			return errors.NewConflictError("seller connection was modified by another request; retry")
		}
		log.Errorw("failed to update seller connection", "error", err, "seller_id", conn.SellerID())
		return fmt.Errorf("failed to update seller connection: %w", err)
	}
	return nil
}
