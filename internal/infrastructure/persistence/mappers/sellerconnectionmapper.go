package mappers

import (
	"fmt"

	"github.com/pinegate/pinegate/internal/domain/seller"
	"github.com/pinegate/pinegate/internal/infrastructure/persistence/models"
)

// SellerConnectionMapper converts between seller connections and their persistence model.
type SellerConnectionMapper interface {
	ToEntity(model *models.SellerConnectionModel) (*seller.SellerConnection, error)
	ToModel(entity *seller.SellerConnection) *models.SellerConnectionModel
	ToEntities(models []*models.SellerConnectionModel) ([]*seller.SellerConnection, error)
}

type sellerConnectionMapper struct{}

func NewSellerConnectionMapper() SellerConnectionMapper {
	return &sellerConnectionMapper{}
}

func (m *sellerConnectionMapper) ToEntity(model *models.SellerConnectionModel) (*seller.SellerConnection, error) {
	if model == nil {
		return nil, nil
	}

	entity, err := seller.ReconstructSellerConnection(
		model.ID,
		model.SellerID,
		model.PlatformUsername,
		model.SessionIDEnc,
		model.SessionSignEnc,
		seller.ConnectionStatus(model.Status),
		model.LastValidatedAt,
		model.LastError,
		model.Version,
		model.CreatedAt,
		model.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to reconstruct seller connection: %w", err)
	}
	return entity, nil
}

func (m *sellerConnectionMapper) ToModel(entity *seller.SellerConnection) *models.SellerConnectionModel {
	if entity == nil {
		return nil
	}

	return &models.SellerConnectionModel{
		ID:               entity.ID(),
		SellerID:         entity.SellerID(),
		PlatformUsername: entity.PlatformUsername(),
		SessionIDEnc:     entity.SessionIDEnc(),
		SessionSignEnc:   entity.SessionSignEnc(),
		Status:           entity.Status().String(),
		LastValidatedAt:  entity.LastValidatedAt(),
		LastError:        entity.LastError(),
		Version:          entity.Version(),
		CreatedAt:        entity.CreatedAt(),
		UpdatedAt:        entity.UpdatedAt(),
	}
}

func (m *sellerConnectionMapper) ToEntities(models []*models.SellerConnectionModel) ([]*seller.SellerConnection, error) {
	entities := make([]*seller.SellerConnection, 0, len(models))
	for i, model := range models {
		entity, err := m.ToEntity(model)
		if err != nil {
			return nil, fmt.Errorf("failed to map model at index %d (ID %d): %w", i, model.ID, err)
		}
		if entity != nil {
			entities = append(entities, entity)
		}
	}
	return entities, nil
}
