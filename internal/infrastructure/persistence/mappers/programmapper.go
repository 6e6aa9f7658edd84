package mappers

import (
	"fmt"

	"github.com/pinegate/pinegate/internal/domain/program"
	"github.com/pinegate/pinegate/internal/infrastructure/persistence/models"
)

func ProgramToEntity(model *models.ProgramModel) (*program.Program, error) {
	if model == nil {
		return nil, nil
	}

	p, err := program.ReconstructProgram(
		model.ID,
		model.SellerID,
		model.PineID,
		model.Title,
		program.Status(model.Status),
		model.DisabledReason,
		model.CreatedAt,
		model.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to reconstruct program: %w", err)
	}
	return p, nil
}

func ProgramToModel(p *program.Program) *models.ProgramModel {
	if p == nil {
		return nil
	}

	return &models.ProgramModel{
		ID:             p.ID(),
		SellerID:       p.SellerID(),
		PineID:         p.PineID(),
		Title:          p.Title(),
		Status:         p.Status().String(),
		DisabledReason: p.DisabledReason(),
		CreatedAt:      p.CreatedAt(),
		UpdatedAt:      p.UpdatedAt(),
	}
}
