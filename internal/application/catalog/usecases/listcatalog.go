package usecases

import (
	"context"
	"fmt"

	"github.com/pinegate/pinegate/internal/application/catalog/dto"
	"github.com/pinegate/pinegate/internal/domain/catalog"
	"github.com/pinegate/pinegate/internal/shared/errors"
	"github.com/pinegate/pinegate/internal/shared/logger"
	"github.com/pinegate/pinegate/internal/shared/query"
)

type ListCatalogQuery struct {
	SellerID  uint
	Page      int
	PageSize  int
	SortBy    string
	SortOrder string
}

type ListCatalogResult struct {
	Items    []*dto.CatalogEntryDTO
	Total    int64
	Page     int
	PageSize int
}

type ListCatalogUseCase struct {
	catalogRepo catalog.EntryRepository
	logger      logger.Interface
}

// NewListCatalogUseCase creates a new list catalog use case
func NewListCatalogUseCase(catalogRepo catalog.EntryRepository, logger logger.Interface) *ListCatalogUseCase {
	return &ListCatalogUseCase{catalogRepo: catalogRepo, logger: logger}
}

// Execute executes the list catalog use case
func (uc *ListCatalogUseCase) Execute(ctx context.Context, q ListCatalogQuery) (*ListCatalogResult, error) {
	if q.SellerID == 0 {
		return nil, errors.NewValidationError("seller ID is required")
	}

	filter := catalog.ListFilter{
		PageFilter: query.PageFilter{Page: q.Page, PageSize: q.PageSize},
		SortFilter: query.SortFilter{SortBy: q.SortBy, SortOrder: q.SortOrder},
	}
	entries, total, err := uc.catalogRepo.ListBySeller(ctx, q.SellerID, filter)
	if err != nil {
		uc.logger.Errorw("failed to list catalog entries", "error", err, "seller_id", q.SellerID)
		return nil, fmt.Errorf("failed to list catalog entries: %w", err)
	}

	return &ListCatalogResult{
		Items:    dto.ToCatalogEntryDTOs(entries),
		Total:    total,
		Page:     q.Page,
		PageSize: filter.Limit(),
	}, nil
}
