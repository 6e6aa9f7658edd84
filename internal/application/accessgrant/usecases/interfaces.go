package usecases

import (
	"context"
	"time"

	"github.com/pinegate/pinegate/internal/domain/seller"
	"github.com/pinegate/pinegate/internal/infrastructure/tradingview"
)

// AccessPlatform is the subset of the platform client the orchestrator calls.
type AccessPlatform interface {
	SearchUsernames(ctx context.Context, sess seller.Session, query string) ([]string, error)
	AddAccess(ctx context.Context, sess seller.Session, scriptID, username string, expiresAt *time.Time) (*tradingview.Response, error)
	RemoveAccess(ctx context.Context, sess seller.Session, scriptID, username string) (*tradingview.Response, error)
	ListAccess(ctx context.Context, sess seller.Session, scriptID, username string) ([]string, error)
}

// GrantLocker serialises attempts on one grant.
type GrantLocker interface {
	Acquire(ctx context.Context, grantID uint) (func(), error)
}

// TransactionManager runs fn atomically against the grant store.
type TransactionManager interface {
	RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}
