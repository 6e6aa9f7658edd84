package usecases

import (
	"context"
	stderrors "errors"
	"fmt"
	"strings"
	"time"

	"github.com/pinegate/pinegate/internal/application/seller/dto"
	"github.com/pinegate/pinegate/internal/domain/seller"
	"github.com/pinegate/pinegate/internal/shared/biztime"
	"github.com/pinegate/pinegate/internal/shared/errors"
	"github.com/pinegate/pinegate/internal/shared/logger"
)

type ConnectSellerCommand struct {
	SellerID         uint
	PlatformUsername string
	SessionID        string
	SessionSign      string
}

// ConnectSellerUseCase stores a new session pair for a seller and tests it
// right away. Credentials the platform rejects are kept so the status is visible.
type ConnectSellerUseCase struct {
	connRepo seller.ConnectionRepository
	vault    CredentialVault
	checker  SessionChecker
	logger   logger.Interface
	now      func() time.Time
}

// NewConnectSellerUseCase creates a new connect seller use case
func NewConnectSellerUseCase(
	connRepo seller.ConnectionRepository,
	vault CredentialVault,
	checker SessionChecker,
	logger logger.Interface,
) *ConnectSellerUseCase {
	return &ConnectSellerUseCase{
		connRepo: connRepo,
		vault:    vault,
		checker:  checker,
		logger:   logger,
		now:      biztime.NowUTC,
	}
}

// SetClock overrides the time source
func (uc *ConnectSellerUseCase) SetClock(now func() time.Time) {
	uc.now = now
}

// Execute seals the session pair and tests it against the platform. The
// credentials are stored even when the test fails.
func (uc *ConnectSellerUseCase) Execute(ctx context.Context, cmd ConnectSellerCommand) (*dto.ConnectionDTO, error) {
	if cmd.SellerID == 0 {
		return nil, errors.NewValidationError("seller ID is required")
	}
	sess, err := seller.NewSession(cmd.SessionID, cmd.SessionSign)
	if err != nil {
		return nil, errors.NewValidationError(err.Error())
	}

	sealedID, err := uc.vault.Encrypt(sess.ID)
	if err != nil {
		uc.logger.Errorw("failed to seal session id", "error", err, "seller_id", cmd.SellerID)
		return nil, fmt.Errorf("failed to seal session: %w", err)
	}
	sealedSign, err := uc.vault.Encrypt(sess.Sign)
	if err != nil {
		uc.logger.Errorw("failed to seal session signature", "error", err, "seller_id", cmd.SellerID)
		return nil, fmt.Errorf("failed to seal session: %w", err)
	}

	conn, err := uc.connRepo.GetBySellerID(ctx, cmd.SellerID)
	if err != nil {
		uc.logger.Errorw("failed to get seller connection", "error", err, "seller_id", cmd.SellerID)
		return nil, fmt.Errorf("failed to get seller connection: %w", err)
	}
	isNew := conn == nil
	if isNew {
		conn, err = seller.NewSellerConnection(cmd.SellerID, cmd.PlatformUsername)
		if err != nil {
			return nil, errors.NewValidationError(err.Error())
		}
	}
	if err := conn.ReplaceCredentials(strings.TrimSpace(cmd.PlatformUsername), sealedID, sealedSign, uc.vault); err != nil {
		return nil, errors.NewInternalError("failed to store session", err.Error())
	}

	status := probeConnection(ctx, uc.checker, uc.vault, conn, uc.now())

	if isNew {
		err = uc.connRepo.Create(ctx, conn)
	} else {
		err = uc.connRepo.Update(ctx, conn)
	}
	if err != nil {
		if stderrors.Is(err, seller.ErrVersionConflict) {
			return nil, errors.NewConflictError("seller connection was modified by another request; retry")
		}
		uc.logger.Errorw("failed to save seller connection", "error", err, "seller_id", cmd.SellerID)
		return nil, fmt.Errorf("failed to save seller connection: %w", err)
	}

	uc.logger.Infow("seller connected",
		"seller_id", cmd.SellerID,
		"platform_username", conn.PlatformUsername(),
		"status", status,
	)
	return dto.ToConnectionDTO(conn), nil
}
