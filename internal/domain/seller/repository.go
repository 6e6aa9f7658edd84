package seller

import "context"

type ConnectionRepository interface {
	Create(ctx context.Context, conn *SellerConnection) error
	Update(ctx context.Context, conn *SellerConnection) error
	GetBySellerID(ctx context.Context, sellerID uint) (*SellerConnection, error)
	// ListProbeCandidates returns active or never-validated connections that hold credentials.
	ListProbeCandidates(ctx context.Context) ([]*SellerConnection, error)
	// ListNonActiveSellerIDs returns sellers whose connection is anything but active.
	ListNonActiveSellerIDs(ctx context.Context) ([]uint, error)
}
