package dto

import (
	"time"

	"github.com/pinegate/pinegate/internal/domain/seller"
)

// ConnectionDTO never carries session material, sealed or not.
type ConnectionDTO struct {
	SellerID         uint       `json:"seller_id"`
	PlatformUsername string     `json:"platform_username"`
	Status           string     `json:"status"`
	HasCredentials   bool       `json:"has_credentials"`
	LastValidatedAt  *time.Time `json:"last_validated_at,omitempty"`
	LastError        string     `json:"last_error,omitempty"`
	UpdatedAt        time.Time  `json:"updated_at"`
}

// ProbeSummaryDTO reports one pass of the session health prober.
type ProbeSummaryDTO struct {
	Total            int   `json:"total"`
	Checked          int   `json:"checked"`
	Skipped          int   `json:"skipped"`
	Expired          int   `json:"expired"`
	Errors           int   `json:"errors"`
	ProgramsDisabled int64 `json:"programs_disabled"`
}

func ToConnectionDTO(c *seller.SellerConnection) *ConnectionDTO {
	if c == nil {
		return nil
	}
	return &ConnectionDTO{
		SellerID:         c.SellerID(),
		PlatformUsername: c.PlatformUsername(),
		Status:           c.Status().String(),
		HasCredentials:   c.HasCredentials(),
		LastValidatedAt:  c.LastValidatedAt(),
		LastError:        c.LastError(),
		UpdatedAt:        c.UpdatedAt(),
	}
}
