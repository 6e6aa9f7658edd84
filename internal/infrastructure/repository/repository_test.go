package repository

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/pinegate/pinegate/internal/infrastructure/persistence/models"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	// every pooled connection to :memory: would otherwise see its own empty database
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	err = db.AutoMigrate(
		&models.SellerConnectionModel{},
		&models.CatalogEntryModel{},
		&models.ProgramModel{},
		&models.AccessGrantModel{},
		&models.AssignmentLogModel{},
	)
	require.NoError(t, err)

	return db
}

type sealedPrefix struct{}

func (sealedPrefix) IsSealed(v string) bool { return strings.HasPrefix(v, "v1:") }
