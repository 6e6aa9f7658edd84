package usecases

import (
	"context"
	stderrors "errors"
	"fmt"

	"golang.org/x/text/cases"

	"github.com/pinegate/pinegate/internal/domain/catalog"
	"github.com/pinegate/pinegate/internal/domain/seller"
	"github.com/pinegate/pinegate/internal/shared/errors"
)

// sameUsername compares platform usernames with Unicode case folding. A Caser
// may hold state, so each comparison builds its own.
func sameUsername(a, b string) bool {
	folder := cases.Fold()
	return folder.String(a) == folder.String(b)
}

func containsUsername(names []string, want string) bool {
	for _, n := range names {
		if sameUsername(n, want) {
			return true
		}
	}
	return false
}

// openSellerSession loads the seller connection and decrypts its session.
// Every failure is a credential error: the seller must reconnect.
func openSellerSession(ctx context.Context, repo seller.ConnectionRepository, opener seller.Opener, sellerID uint) (seller.Session, error) {
	conn, err := repo.GetBySellerID(ctx, sellerID)
	if err != nil {
		return seller.Session{}, fmt.Errorf("failed to load seller connection: %w", err)
	}
	if conn == nil {
		return seller.Session{}, errors.NewCredentialError("seller is not connected to the platform")
	}
	if !conn.IsUsable() {
		return seller.Session{}, errors.NewCredentialError(
			"seller session is not active; the seller must reconnect",
			fmt.Sprintf("connection status is %s", conn.Status()),
		)
	}

	sess, err := conn.OpenSession(opener)
	if err != nil {
		if appErr := errors.GetAppError(err); appErr != nil {
			return seller.Session{}, appErr
		}
		return seller.Session{}, errors.NewCredentialError("failed to open seller session", err.Error())
	}
	return sess, nil
}

// resolveScriptID maps a caller identifier to the identifier the platform accepts.
// The value is looked up as a pine id first, then as a script id.
func resolveScriptID(ctx context.Context, repo catalog.EntryRepository, sellerID uint, pineID string) (string, error) {
	entry, err := repo.GetBySellerAndPineID(ctx, sellerID, pineID)
	if err != nil {
		return "", fmt.Errorf("failed to look up catalog entry: %w", err)
	}
	if entry == nil {
		entry, err = repo.GetBySellerAndScriptID(ctx, sellerID, pineID)
		if err != nil {
			return "", fmt.Errorf("failed to look up catalog entry: %w", err)
		}
	}
	if entry == nil {
		return "", errors.NewNotFoundError(
			fmt.Sprintf("script not found for pine id %q; sync the seller catalog and retry", pineID),
		)
	}

	scriptID, err := entry.ExternalScriptID()
	if err != nil {
		if stderrors.Is(err, catalog.ErrNoExternalID) {
			return "", errors.NewValidationError(
				fmt.Sprintf("script %q has no identifier the platform accepts", pineID),
				fmt.Sprintf("script_id=%s", entry.ScriptID()),
			)
		}
		return "", err
	}
	return scriptID, nil
}

func appErrorOf(err error) *errors.AppError {
	if appErr := errors.GetAppError(err); appErr != nil {
		return appErr
	}
	return errors.NewInternalError("unexpected failure during access attempt", err.Error())
}
