package models

import (
	"time"

	"gorm.io/datatypes"

	"github.com/pinegate/pinegate/internal/shared/constants"
)

// AccessGrantModel is the persistence model for an access grant.
// Details holds the last external response and verification result.
type AccessGrantModel struct {
	ID                    uint   `gorm:"primarykey"`
	PurchaseID            string `gorm:"not null;size:128;uniqueIndex"`
	SellerID              uint   `gorm:"not null;index"`
	BuyerID               uint   `gorm:"not null;index"`
	ProgramID             uint   `gorm:"index"`
	PineID                string `gorm:"not null;size:191"`
	ScriptID              string `gorm:"size:191"`
	BuyerUsername         string `gorm:"not null;size:64"`
	AccessType            string `gorm:"not null;size:20"`
	TrialDurationDays     *int
	SubscriptionExpiresAt *time.Time
	Status                string `gorm:"not null;size:20;default:pending;index"`
	Attempts              int    `gorm:"not null;default:0"`
	LastAttemptAt         *time.Time
	AssignedAt            *time.Time
	ExpiresAt             *time.Time
	ErrorMessage          string `gorm:"type:text"`
	Details               datatypes.JSON
	Version               int `gorm:"not null;default:1"`
	CreatedAt             time.Time
	UpdatedAt             time.Time
}

func (AccessGrantModel) TableName() string {
	return constants.TableAccessGrants
}
