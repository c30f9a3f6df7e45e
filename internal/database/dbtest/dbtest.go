// Package dbtest opens throwaway SQLite databases for tests.
package dbtest

import (
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"real-estate-catalog/internal/database"
)

// New returns a migrated in-memory database closed at test cleanup
func New(t testing.TB) *database.GormDB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	// every connection to :memory: is a separate database
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	gdb := database.NewGormDBFromDB(db)
	require.NoError(t, gdb.InitSchema())
	t.Cleanup(func() { gdb.Close() })
	return gdb
}
