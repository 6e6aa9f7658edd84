package usecases

import (
	"context"
	"fmt"
	"time"

	"github.com/pinegate/pinegate/internal/application/catalog/dto"
	"github.com/pinegate/pinegate/internal/domain/catalog"
	"github.com/pinegate/pinegate/internal/domain/seller"
	"github.com/pinegate/pinegate/internal/infrastructure/tradingview"
	"github.com/pinegate/pinegate/internal/shared/biztime"
	"github.com/pinegate/pinegate/internal/shared/errors"
	"github.com/pinegate/pinegate/internal/shared/logger"
)

// ScriptSource fetches a seller's published scripts from the platform.
type ScriptSource interface {
	FindUserID(ctx context.Context, sess seller.Session, username string) (string, error)
	FetchScriptListing(ctx context.Context, sess seller.Session, userID string) (*tradingview.Response, error)
}

type SyncCatalogCommand struct {
	SellerID uint
}

// SyncCatalogUseCase refreshes the catalog entries of one seller. Entries that
// disappeared from the platform are kept.
type SyncCatalogUseCase struct {
	connRepo    seller.ConnectionRepository
	catalogRepo catalog.EntryRepository
	source      ScriptSource
	opener      seller.Opener
	logger      logger.Interface
	now         func() time.Time
}

// NewSyncCatalogUseCase creates a new catalog sync use case
func NewSyncCatalogUseCase(
	connRepo seller.ConnectionRepository,
	catalogRepo catalog.EntryRepository,
	source ScriptSource,
	opener seller.Opener,
	logger logger.Interface,
) *SyncCatalogUseCase {
	return &SyncCatalogUseCase{
		connRepo:    connRepo,
		catalogRepo: catalogRepo,
		source:      source,
		opener:      opener,
		logger:      logger,
		now:         biztime.NowUTC,
	}
}

// SetClock overrides the time stamped on synced entries
func (uc *SyncCatalogUseCase) SetClock(now func() time.Time) {
	uc.now = now
}

// Execute fetches the seller's published scripts and upserts them into the catalog
func (uc *SyncCatalogUseCase) Execute(ctx context.Context, cmd SyncCatalogCommand) (*dto.SyncResultDTO, error) {
	if cmd.SellerID == 0 {
		return nil, errors.NewValidationError("seller ID is required")
	}

	conn, err := uc.connRepo.GetBySellerID(ctx, cmd.SellerID)
	if err != nil {
		uc.logger.Errorw("failed to get seller connection", "error", err, "seller_id", cmd.SellerID)
		return nil, fmt.Errorf("failed to get seller connection: %w", err)
	}
	if conn == nil {
		return nil, errors.NewCredentialError("seller is not connected to the platform")
	}
	if !conn.IsUsable() {
		return nil, errors.NewCredentialError(
			"seller session is not active; the seller must reconnect",
			fmt.Sprintf("connection status is %s", conn.Status()),
		)
	}
	sess, err := conn.OpenSession(uc.opener)
	if err != nil {
		if appErr := errors.GetAppError(err); appErr != nil {
			return nil, appErr
		}
		return nil, errors.NewCredentialError("failed to open seller session", err.Error())
	}

	userID, err := uc.source.FindUserID(ctx, sess, conn.PlatformUsername())
	if err != nil {
		uc.logger.Warnw("failed to discover seller user id", "seller_id", cmd.SellerID, "error", err)
		return nil, err
	}

	resp, err := uc.source.FetchScriptListing(ctx, sess, userID)
	if err != nil {
		uc.logger.Warnw("failed to fetch script listing", "seller_id", cmd.SellerID, "error", err)
		return nil, err
	}

	records, err := tradingview.ParseScriptListing(resp.Body)
	if err != nil {
		uc.logger.Warnw("script listing not recognised", "seller_id", cmd.SellerID, "error", err)
		return nil, errors.NewExternalServiceError("script listing could not be parsed", err.Error())
	}

	syncedAt := uc.now()
	result := &dto.SyncResultDTO{SellerID: cmd.SellerID, SyncedAt: syncedAt}
	for _, rec := range records {
		scriptID := catalog.DeriveScriptID(rec.URL, rec.PrivateID)
		entry, err := catalog.NewEntry(cmd.SellerID, scriptID, rec.PrivateID, rec.Name, rec.URL, rec.ImageURL, rec.Likes, rec.Reviews, syncedAt)
		if err != nil {
			uc.logger.Warnw("skipping script record", "seller_id", cmd.SellerID, "title", rec.Name, "error", err)
			result.Skipped++
			continue
		}
		if err := uc.catalogRepo.Upsert(ctx, entry); err != nil {
			uc.logger.Errorw("failed to upsert catalog entry", "error", err, "seller_id", cmd.SellerID, "script_id", scriptID)
			return nil, fmt.Errorf("failed to upsert catalog entry: %w", err)
		}
		result.Count++
	}

	uc.logger.Infow("catalog synced",
		"seller_id", cmd.SellerID,
		"count", result.Count,
		"skipped", result.Skipped,
	)
	return result, nil
}
