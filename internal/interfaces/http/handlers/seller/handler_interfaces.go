package seller

import (
	"context"

	catalogdto "github.com/pinegate/pinegate/internal/application/catalog/dto"
	catalogusecases "github.com/pinegate/pinegate/internal/application/catalog/usecases"
	"github.com/pinegate/pinegate/internal/application/seller/dto"
	"github.com/pinegate/pinegate/internal/application/seller/usecases"
)

type connectSellerUseCase interface {
	Execute(ctx context.Context, cmd usecases.ConnectSellerCommand) (*dto.ConnectionDTO, error)
}

type sellerIDUseCase interface {
	Execute(ctx context.Context, sellerID uint) (*dto.ConnectionDTO, error)
}

type syncCatalogUseCase interface {
	Execute(ctx context.Context, cmd catalogusecases.SyncCatalogCommand) (*catalogdto.SyncResultDTO, error)
}

type listCatalogUseCase interface {
	Execute(ctx context.Context, query catalogusecases.ListCatalogQuery) (*catalogusecases.ListCatalogResult, error)
}

type probeSessionsUseCase interface {
	Execute(ctx context.Context) (*dto.ProbeSummaryDTO, error)
}
