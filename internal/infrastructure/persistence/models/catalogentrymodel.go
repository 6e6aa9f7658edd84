package models

import (
	"time"

	"github.com/pinegate/pinegate/internal/shared/constants"
)

// CatalogEntryModel is the persistence model for one synced seller script.
type CatalogEntryModel struct {
	ID           uint    `gorm:"primarykey"`
	SellerID     uint    `gorm:"not null;uniqueIndex:idx_catalog_seller_script,priority:1;index:idx_catalog_seller_pine,priority:1"`
	ScriptID     string  `gorm:"not null;size:191;uniqueIndex:idx_catalog_seller_script,priority:2"`
	PineID       *string `gorm:"size:191;index:idx_catalog_seller_pine,priority:2"`
	Title        string  `gorm:"size:255"`
	ScriptURL    string  `gorm:"size:512"`
	ImageURL     string  `gorm:"size:512"`
	LikesCount   int     `gorm:"not null;default:0"`
	ReviewsCount int     `gorm:"not null;default:0"`
	LastSyncedAt time.Time
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

func (CatalogEntryModel) TableName() string {
	return constants.TableCatalogEntries
}
