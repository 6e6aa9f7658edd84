package dto

import (
	"time"

	"github.com/pinegate/pinegate/internal/domain/accessgrant"
)

type GrantDTO struct {
	ID                    uint           `json:"id"`
	PurchaseID            string         `json:"purchase_id"`
	SellerID              uint           `json:"seller_id"`
	BuyerID               uint           `json:"buyer_id"`
	ProgramID             uint           `json:"program_id,omitempty"`
	PineID                string         `json:"pine_id"`
	ScriptID              string         `json:"script_id,omitempty"`
	BuyerUsername         string         `json:"buyer_username"`
	AccessType            string         `json:"access_type"`
	TrialDurationDays     *int           `json:"trial_duration_days,omitempty"`
	SubscriptionExpiresAt *time.Time     `json:"subscription_expires_at,omitempty"`
	Status                string         `json:"status"`
	Attempts              int            `json:"attempts"`
	LastAttemptAt         *time.Time     `json:"last_attempt_at,omitempty"`
	AssignedAt            *time.Time     `json:"assigned_at,omitempty"`
	ExpiresAt             *time.Time     `json:"expires_at"`
	ErrorMessage          string         `json:"error_message,omitempty"`
	Details               map[string]any `json:"details,omitempty"`
	CreatedAt             time.Time      `json:"created_at"`
	UpdatedAt             time.Time      `json:"updated_at"`
}

type LogEntryDTO struct {
	ID        uint           `json:"id"`
	GrantID   uint           `json:"grant_id"`
	Level     string         `json:"level"`
	Message   string         `json:"message"`
	Details   map[string]any `json:"details,omitempty"`
	CreatedAt time.Time      `json:"created_at"`
}

// AssignResultDTO is the success reply of an assign or retry.
type AssignResultDTO struct {
	Success      bool           `json:"success"`
	GrantID      uint           `json:"grant_id"`
	Status       string         `json:"status"`
	Attempts     int            `json:"attempts"`
	ExpiresAt    *time.Time     `json:"expires_at"`
	Verification map[string]any `json:"verification,omitempty"`
	Ambiguous    bool           `json:"ambiguous_response,omitempty"`
}

type RevokeResultDTO struct {
	Success bool      `json:"success"`
	GrantID uint      `json:"grant_id"`
	Status  string    `json:"status"`
	Revoked time.Time `json:"revoked_at"`
}

type VerifyResultDTO struct {
	GrantID       uint   `json:"grant_id"`
	ScriptID      string `json:"script_id"`
	BuyerUsername string `json:"buyer_username"`
	CanVerify     bool   `json:"can_verify"`
	HasAccess     bool   `json:"has_access"`
	Error         string `json:"error,omitempty"`
}

func ToGrantDTO(g *accessgrant.Grant) *GrantDTO {
	if g == nil {
		return nil
	}
	terms := g.Terms()
	return &GrantDTO{
		ID:                    g.ID(),
		PurchaseID:            g.PurchaseID(),
		SellerID:              g.SellerID(),
		BuyerID:               g.BuyerID(),
		ProgramID:             g.ProgramID(),
		PineID:                terms.PineID,
		ScriptID:              g.ScriptID(),
		BuyerUsername:         terms.BuyerUsername,
		AccessType:            terms.AccessType.String(),
		TrialDurationDays:     terms.TrialDurationDays,
		SubscriptionExpiresAt: terms.SubscriptionExpiresAt,
		Status:                g.Status().String(),
		Attempts:              g.Attempts(),
		LastAttemptAt:         g.LastAttemptAt(),
		AssignedAt:            g.AssignedAt(),
		ExpiresAt:             g.ExpiresAt(),
		ErrorMessage:          g.ErrorMessage(),
		Details:               g.Details(),
		CreatedAt:             g.CreatedAt(),
		UpdatedAt:             g.UpdatedAt(),
	}
}

func ToLogEntryDTOs(entries []*accessgrant.LogEntry) []*LogEntryDTO {
	out := make([]*LogEntryDTO, 0, len(entries))
	for _, e := range entries {
		if e == nil {
			continue
		}
		out = append(out, &LogEntryDTO{
			ID:        e.ID(),
			GrantID:   e.GrantID(),
			Level:     e.Level().String(),
			Message:   e.Message(),
			Details:   e.Details(),
			CreatedAt: e.CreatedAt(),
		})
	}
	return out
}
