package models

import (
	"time"

	"gorm.io/datatypes"

	"github.com/pinegate/pinegate/internal/shared/constants"
)

// AssignmentLogModel is one append-only audit row of a grant.
type AssignmentLogModel struct {
	ID        uint   `gorm:"primarykey"`
	GrantID   uint   `gorm:"not null;index"`
	Level     string `gorm:"not null;size:20"`
	Message   string `gorm:"type:text"`
	Details   datatypes.JSON
	CreatedAt time.Time `gorm:"index"`
}

func (AssignmentLogModel) TableName() string {
	return constants.TableAssignmentLogs
}
