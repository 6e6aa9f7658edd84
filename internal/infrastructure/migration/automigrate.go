package migration

import (
	"github.com/pinegate/pinegate/internal/infrastructure/persistence/models"
)

// AutoMigrateModels lists every persistence model owned by the service.
func AutoMigrateModels() []interface{} {
	return []interface{}{
		&models.SellerConnectionModel{},
		&models.CatalogEntryModel{},
		&models.ProgramModel{},
		&models.AccessGrantModel{},
		&models.AssignmentLogModel{},
	}
}
