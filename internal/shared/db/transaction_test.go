package db

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

type ledgerRow struct {
	ID   uint `gorm:"primaryKey"`
	Note string
}

func setupDB(t *testing.T) *gorm.DB {
	t.Helper()
	gdb, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	sqlDB, err := gdb.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })
	require.NoError(t, gdb.AutoMigrate(&ledgerRow{}))
	return gdb
}

func count(t *testing.T, gdb *gorm.DB) int64 {
	t.Helper()
	var n int64
	require.NoError(t, gdb.Model(&ledgerRow{}).Count(&n).Error)
	return n
}

func TestRunInTransaction_CommitsAndRollsBack(t *testing.T) {
	gdb := setupDB(t)
	tm := NewTransactionManager(gdb)
	ctx := context.Background()

	err := tm.RunInTransaction(ctx, func(txCtx context.Context) error {
		assert.True(t, InTransaction(txCtx))
		return Conn(txCtx, gdb).Create(&ledgerRow{Note: "kept"}).Error
	})
	require.NoError(t, err)
	assert.Equal(t, int64(1), count(t, gdb))

	boom := errors.New("boom")
	err = tm.RunInTransaction(ctx, func(txCtx context.Context) error {
		require.NoError(t, Conn(txCtx, gdb).Create(&ledgerRow{Note: "dropped"}).Error)
		return boom
	})
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, int64(1), count(t, gdb))
}

func TestRunInTransaction_NestedCallJoinsOuter(t *testing.T) {
	gdb := setupDB(t)
	tm := NewTransactionManager(gdb)

	boom := errors.New("outer failed")
	err := tm.RunInTransaction(context.Background(), func(outer context.Context) error {
		inner := tm.RunInTransaction(outer, func(txCtx context.Context) error {
			return Conn(txCtx, gdb).Create(&ledgerRow{Note: "inner"}).Error
		})
		require.NoError(t, inner)
		return boom
	})
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, int64(0), count(t, gdb), "inner write must roll back with the outer transaction")
}

func TestConn_WithoutTransaction(t *testing.T) {
	gdb := setupDB(t)
	ctx := context.Background()
	assert.False(t, InTransaction(ctx))
	require.NoError(t, Conn(ctx, gdb).Create(&ledgerRow{Note: "plain"}).Error)
	assert.Equal(t, int64(1), count(t, gdb))
}
