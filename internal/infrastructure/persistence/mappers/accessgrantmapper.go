package mappers

import (
	"encoding/json"
	"fmt"

	"gorm.io/datatypes"

	"github.com/pinegate/pinegate/internal/domain/accessgrant"
	"github.com/pinegate/pinegate/internal/infrastructure/persistence/models"
)

// AccessGrantMapper handles the conversion between grants, their log entries and persistence models.
type AccessGrantMapper interface {
	ToEntity(model *models.AccessGrantModel) (*accessgrant.Grant, error)
	ToModel(entity *accessgrant.Grant) (*models.AccessGrantModel, error)
	LogToEntity(model *models.AssignmentLogModel) (*accessgrant.LogEntry, error)
	LogToModel(entry *accessgrant.LogEntry) (*models.AssignmentLogModel, error)
}

type accessGrantMapper struct{}

func NewAccessGrantMapper() AccessGrantMapper {
	return &accessGrantMapper{}
}

func (m *accessGrantMapper) ToEntity(model *models.AccessGrantModel) (*accessgrant.Grant, error) {
	if model == nil {
		return nil, nil
	}

	details, err := decodeDetails(model.Details)
	if err != nil {
		return nil, fmt.Errorf("failed to decode grant details (ID %d): %w", model.ID, err)
	}

	terms := accessgrant.Terms{
		PineID:                model.PineID,
		BuyerUsername:         model.BuyerUsername,
		AccessType:            accessgrant.AccessType(model.AccessType),
		TrialDurationDays:     model.TrialDurationDays,
		SubscriptionExpiresAt: model.SubscriptionExpiresAt,
	}

	grant, err := accessgrant.ReconstructGrant(
		model.ID,
		model.PurchaseID,
		model.SellerID,
		model.BuyerID,
		model.ProgramID,
		terms,
		model.ScriptID,
		accessgrant.Status(model.Status),
		model.Attempts,
		model.LastAttemptAt,
		model.AssignedAt,
		model.ExpiresAt,
		model.ErrorMessage,
		details,
		model.Version,
		model.CreatedAt,
		model.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to reconstruct access grant: %w", err)
	}
	return grant, nil
}

func (m *accessGrantMapper) ToModel(entity *accessgrant.Grant) (*models.AccessGrantModel, error) {
	if entity == nil {
		return nil, nil
	}

	details, err := encodeDetails(entity.Details())
	if err != nil {
		return nil, fmt.Errorf("failed to encode grant details: %w", err)
	}

	terms := entity.Terms()
	return &models.AccessGrantModel{
		ID:                    entity.ID(),
		PurchaseID:            entity.PurchaseID(),
		SellerID:              entity.SellerID(),
		BuyerID:               entity.BuyerID(),
		ProgramID:             entity.ProgramID(),
		PineID:                terms.PineID,
		ScriptID:              entity.ScriptID(),
		BuyerUsername:         terms.BuyerUsername,
		AccessType:            terms.AccessType.String(),
		TrialDurationDays:     terms.TrialDurationDays,
		SubscriptionExpiresAt: terms.SubscriptionExpiresAt,
		Status:                entity.Status().String(),
		Attempts:              entity.Attempts(),
		LastAttemptAt:         entity.LastAttemptAt(),
		AssignedAt:            entity.AssignedAt(),
		ExpiresAt:             entity.ExpiresAt(),
		ErrorMessage:          entity.ErrorMessage(),
		Details:               details,
		Version:               entity.Version(),
		CreatedAt:             entity.CreatedAt(),
		UpdatedAt:             entity.UpdatedAt(),
	}, nil
}

func (m *accessGrantMapper) LogToEntity(model *models.AssignmentLogModel) (*accessgrant.LogEntry, error) {
	if model == nil {
		return nil, nil
	}
	details, err := decodeDetails(model.Details)
	if err != nil {
		return nil, fmt.Errorf("failed to decode log details (ID %d): %w", model.ID, err)
	}
	return accessgrant.ReconstructLogEntry(
		model.ID,
		model.GrantID,
		accessgrant.LogLevel(model.Level),
		model.Message,
		details,
		model.CreatedAt,
	), nil
}

func (m *accessGrantMapper) LogToModel(entry *accessgrant.LogEntry) (*models.AssignmentLogModel, error) {
	if entry == nil {
		return nil, nil
	}
	details, err := encodeDetails(entry.Details())
	if err != nil {
		return nil, fmt.Errorf("failed to encode log details: %w", err)
	}
	return &models.AssignmentLogModel{
		ID:        entry.ID(),
		GrantID:   entry.GrantID(),
		Level:     entry.Level().String(),
		Message:   entry.Message(),
		Details:   details,
		CreatedAt: entry.CreatedAt(),
	}, nil
}

func encodeDetails(details map[string]any) (datatypes.JSON, error) {
	if len(details) == 0 {
		return datatypes.JSON("{}"), nil
	}
	data, err := json.Marshal(details)
	if err != nil {
		return nil, err
	}
	return datatypes.JSON(data), nil
}

func decodeDetails(raw datatypes.JSON) (map[string]any, error) {
	details := map[string]any{}
	if len(raw) == 0 {
		return details, nil
	}
	if err := json.Unmarshal(raw, &details); err != nil {
		return nil, err
	}
	return details, nil
}
