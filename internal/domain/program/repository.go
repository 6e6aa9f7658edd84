package program

import "context"

type Repository interface {
	Create(ctx context.Context, p *Program) error
	GetByID(ctx context.Context, id uint) (*Program, error)
	// DisableBySellers disables every active program of the given sellers and
	// returns how many rows changed.
	DisableBySellers(ctx context.Context, sellerIDs []uint, reason string) (int64, error)
}
