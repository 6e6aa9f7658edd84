package models

import (
	"time"

	"github.com/pinegate/pinegate/internal/shared/constants"
)

// ProgramModel is the persistence model for a marketplace offering.
type ProgramModel struct {
	ID             uint   `gorm:"primarykey"`
	SellerID       uint   `gorm:"not null;index:idx_program_seller_status,priority:1"`
	PineID         string `gorm:"not null;size:191"`
	Title          string `gorm:"size:255"`
	Status         string `gorm:"not null;size:20;default:active;index:idx_program_seller_status,priority:2"`
	DisabledReason string `gorm:"size:64"`
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

func (ProgramModel) TableName() string {
	return constants.TablePrograms
}
