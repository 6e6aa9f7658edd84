package accessgrant

import "context"

type GrantRepository interface {
	Create(ctx context.Context, grant *Grant) error
	// Update persists the grant if its version is still current and advances the version.
	Update(ctx context.Context, grant *Grant) error
	GetByID(ctx context.Context, id uint) (*Grant, error)
	GetByPurchaseID(ctx context.Context, purchaseID string) (*Grant, error)
}

type LogRepository interface {
	Append(ctx context.Context, entry *LogEntry) error
	ListByGrant(ctx context.Context, grantID uint) ([]*LogEntry, error)
}
