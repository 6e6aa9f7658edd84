package models

import (
	"time"

	"github.com/pinegate/pinegate/internal/shared/constants"
)

// SellerConnectionModel is the persistence model for a seller's platform session.
// Session columns only ever hold vault ciphertext.
type SellerConnectionModel struct {
	ID               uint    `gorm:"primarykey"`
	SellerID         uint    `gorm:"not null;uniqueIndex"`
	PlatformUsername string  `gorm:"not null;size:64"`
	SessionIDEnc     *string `gorm:"type:text"`
	SessionSignEnc   *string `gorm:"type:text"`
	Status           string  `gorm:"not null;size:20;index"`
	LastValidatedAt  *time.Time
	LastError        string `gorm:"type:text"`
	Version          int    `gorm:"not null;default:1"`
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

func (SellerConnectionModel) TableName() string {
	return constants.TableSellerConnections
}
