package usecases

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/pinegate/pinegate/internal/application/accessgrant/dto"
	"github.com/pinegate/pinegate/internal/domain/accessgrant"
	"github.com/pinegate/pinegate/internal/domain/catalog"
	"github.com/pinegate/pinegate/internal/domain/seller"
	"github.com/pinegate/pinegate/internal/infrastructure/tradingview"
	"github.com/pinegate/pinegate/internal/shared/biztime"
	"github.com/pinegate/pinegate/internal/shared/errors"
	"github.com/pinegate/pinegate/internal/shared/logger"
)

type RevokeAccessCommand struct {
	GrantID       uint
	PineID        string
	BuyerUsername string
	Actor         string
}

// RevokeAccessUseCase withdraws a buyer's access. Any HTTP success from the
// platform expires the grant whatever the body says.
type RevokeAccessUseCase struct {
	grantRepo   accessgrant.GrantRepository
	logRepo     accessgrant.LogRepository
	connRepo    seller.ConnectionRepository
	catalogRepo catalog.EntryRepository
	platform    AccessPlatform
	opener      seller.Opener
	locker      GrantLocker
	txManager   TransactionManager
	logger      logger.Interface
	now         func() time.Time
}

// NewRevokeAccessUseCase creates a new revoke access use case
func NewRevokeAccessUseCase(
	grantRepo accessgrant.GrantRepository,
	logRepo accessgrant.LogRepository,
	connRepo seller.ConnectionRepository,
	catalogRepo catalog.EntryRepository,
	platform AccessPlatform,
	opener seller.Opener,
	locker GrantLocker,
	txManager TransactionManager,
	logger logger.Interface,
) *RevokeAccessUseCase {
	return &RevokeAccessUseCase{
		grantRepo:   grantRepo,
		logRepo:     logRepo,
		connRepo:    connRepo,
		catalogRepo: catalogRepo,
		platform:    platform,
		opener:      opener,
		locker:      locker,
		txManager:   txManager,
		logger:      logger,
		now:         biztime.NowUTC,
	}
}

// SetClock overrides the time source
func (uc *RevokeAccessUseCase) SetClock(now func() time.Time) {
	uc.now = now
}

// Execute removes the buyer from the script and expires the grant on any 2xx
func (uc *RevokeAccessUseCase) Execute(ctx context.Context, cmd RevokeAccessCommand) (*dto.RevokeResultDTO, error) {
	if cmd.GrantID == 0 {
		return nil, errors.NewValidationError("grant ID is required")
	}

	release, err := uc.locker.Acquire(ctx, cmd.GrantID)
	if err != nil {
		uc.logger.Warnw("revocation rejected", "grant_id", cmd.GrantID, "error", err)
		return nil, err
	}
	defer release()

	grant, err := uc.grantRepo.GetByID(ctx, cmd.GrantID)
	if err != nil {
		uc.logger.Errorw("failed to get access grant", "error", err, "grant_id", cmd.GrantID)
		return nil, fmt.Errorf("failed to get access grant: %w", err)
	}
	if grant == nil {
		return nil, errors.NewNotFoundError("access grant not found")
	}

	pineID := strings.TrimSpace(cmd.PineID)
	if pineID == "" {
		pineID = grant.PineID()
	}
	username := strings.TrimSpace(cmd.BuyerUsername)
	if username == "" {
		username = grant.BuyerUsername()
	}

	revocation := map[string]any{
		"actor":          cmd.Actor,
		"pine_id":        pineID,
		"buyer_username": username,
		"previous_state": grant.Status().String(),
	}

	_, err = uc.remove(ctx, grant, pineID, username, revocation)
	persistCtx := context.WithoutCancel(ctx)
	now := uc.now()

	if err != nil {
		appErr := appErrorOf(err)
		revocation["error"] = appErr.Message
		revocation["error_type"] = string(appErr.Type)
		grant.MergeDetails(map[string]any{accessgrant.DetailRevocation: revocation})
		if perr := persistGrant(persistCtx, uc.txManager, uc.grantRepo, uc.logRepo, uc.logger, now, grant, logLine{
			level:   accessgrant.LogLevelError,
			message: "revocation failed: " + appErr.Message,
			details: revocation,
		}); perr != nil {
			return nil, perr
		}

		uc.logger.Warnw("revocation failed", "grant_id", grant.ID(), "error_type", appErr.Type, "error", appErr.Message)
		return nil, newGrantFailure(grant.ID(), grant.Details(), appErr)
	}

	grant.Expire(now, map[string]any{accessgrant.DetailRevocation: revocation})
	if err := persistGrant(persistCtx, uc.txManager, uc.grantRepo, uc.logRepo, uc.logger, now, grant, logLine{
		level:   accessgrant.LogLevelInfo,
		message: fmt.Sprintf("access revoked for %s", username),
		details: revocation,
	}); err != nil {
		return nil, err
	}

	uc.logger.Infow("access revoked", "grant_id", grant.ID(), "script_id", revocation["script_id"])
	return &dto.RevokeResultDTO{
		Success: true,
		GrantID: grant.ID(),
		Status:  grant.Status().String(),
		Revoked: now,
	}, nil
}

// remove resolves the script and calls the platform. details collects what
// was learned for the audit trail.
func (uc *RevokeAccessUseCase) remove(
	ctx context.Context,
	grant *accessgrant.Grant,
	pineID, username string,
	details map[string]any,
) (resp *tradingview.Response, err error) {
	defer func() {
		if r := recover(); r != nil {
			uc.logger.Errorw("panic during revocation", "grant_id", grant.ID(), "panic", r)
			resp, err = nil, errors.NewInternalError("unexpected failure during revocation", fmt.Sprint(r))
		}
	}()

	sess, err := openSellerSession(ctx, uc.connRepo, uc.opener, grant.SellerID())
	if err != nil {
		return nil, err
	}

	scriptID, err := resolveScriptID(ctx, uc.catalogRepo, grant.SellerID(), pineID)
	if err != nil {
		return nil, err
	}
	details["script_id"] = scriptID

	resp, err = uc.platform.RemoveAccess(ctx, sess, scriptID, username)
	if resp != nil {
		details[accessgrant.DetailResponse] = responseDetails(resp, tradingview.InterpretAccessResponse(resp.Body))
	}
	return resp, err
}
