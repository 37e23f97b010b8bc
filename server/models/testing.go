package models

import (
	"testing"

	"github.com/Daskott/rolodex/shared"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// InitializeTestDb opens a fresh encrypted sqlite db under a temp directory
// that is removed when the test ends.
func InitializeTestDb(tb testing.TB) *gorm.DB {
	tb.Helper()

	db, err := OpenDB(shared.DatabaseConfig{
		Driver: shared.SQLITE_DRIVER,
		Sqlite: shared.SqliteConfig{PassPhrase: "test-passphrase"},
	}, tb.TempDir())
	if err != nil {
		tb.Fatalf("failed to init test db: %v", err)
	}

	tb.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})

	return db
}

// TestLogger returns a logger that discards everything.
func TestLogger() *zap.SugaredLogger {
	return zap.NewNop().Sugar()
}
