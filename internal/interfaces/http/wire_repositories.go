package http

import (
	"gorm.io/gorm"

	"github.com/pinegate/pinegate/internal/domain/accessgrant"
	"github.com/pinegate/pinegate/internal/domain/catalog"
	"github.com/pinegate/pinegate/internal/domain/program"
	"github.com/pinegate/pinegate/internal/domain/seller"
	"github.com/pinegate/pinegate/internal/infrastructure/repository"
	"github.com/pinegate/pinegate/internal/shared/logger"
)

// repositories holds all repository instances used by the application.
type repositories struct {
	connectionRepo seller.ConnectionRepository
	catalogRepo    catalog.EntryRepository
	programRepo    program.Repository
	grantRepo      accessgrant.GrantRepository
	logRepo        accessgrant.LogRepository
}

func newRepositories(db *gorm.DB, log logger.Interface) *repositories {
	return &repositories{
		connectionRepo: repository.NewSellerConnectionRepository(db, log),
		catalogRepo:    repository.NewCatalogEntryRepository(db, log),
		programRepo:    repository.NewProgramRepository(db, log),
		grantRepo:      repository.NewAccessGrantRepository(db, log),
		logRepo:        repository.NewAssignmentLogRepository(db, log),
	}
}
