package models

import (
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/Daskott/rolodex/shared"
	"github.com/Daskott/rolodex/utils"
	sqliteEncrypt "github.com/Daskott/gorm-sqlite-cipher"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormLogger "gorm.io/gorm/logger"
)

const DB_NAME = "rolodex.db"

// OpenDB connects to the database described by dbConfig and
// auto-migrates the users & contacts schema.
func OpenDB(dbConfig shared.DatabaseConfig, dbRootDir string) (*gorm.DB, error) {
	dialector, err := dialectorFor(dbConfig, dbRootDir)
	if err != nil {
		return nil, err
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: gormLogger.New(
			log.New(os.Stdout, "\r\n", log.LstdFlags),
			gormLogger.Config{
				LogLevel:                  gormLogger.Silent,
				IgnoreRecordNotFoundError: true,
				Colorful:                  false,
			},
		),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect database: %v", err)
	}

	if dbConfig.Driver == shared.SQLITE_DRIVER {
		sqlDB, err := db.DB()
		if err != nil {
			return nil, err
		}
		// sqlite allows a single writer
		sqlDB.SetMaxOpenConns(1)
	}

	err = AutoMigrate(db)
	if err != nil {
		return nil, err
	}

	return db, nil
}

// AutoMigrate auto-migrates the db schema
func AutoMigrate(db *gorm.DB) error {
	err := db.AutoMigrate(&User{}, &Contact{})
	if err != nil {
		return fmt.Errorf("failed to migrate database: %v", err)
	}

	return nil
}

// SqliteFilePath returns the location of the sqlite db file under dbRootDir.
func SqliteFilePath(dbRootDir string) (string, error) {
	dbDir, err := DbDirectory(dbRootDir)
	if err != nil {
		return "", err
	}

	return filepath.Join(dbDir, DB_NAME), nil
}

func DbDirectory(dbRootDir string) (string, error) {
	dbDir := filepath.Join(dbRootDir, "db")

	err := utils.CreateDirIfNotExist(dbDir)
	if err != nil {
		return "", err
	}

	return dbDir, nil
}

// ---------------------------------------------------------------------------------//
// Helper functions
// --------------------------------------------------------------------------------//

func dialectorFor(dbConfig shared.DatabaseConfig, dbRootDir string) (gorm.Dialector, error) {
	switch dbConfig.Driver {
	case shared.POSTGRES_DRIVER:
		return postgres.Open(dbConfig.Postgres.DSN), nil
	case shared.SQLITE_DRIVER, "":
		dsn, err := sqliteDSN(dbConfig.Sqlite.PassPhrase, dbRootDir)
		if err != nil {
			return nil, fmt.Errorf("failed to set sqlite DSN: %v", err)
		}
		return sqliteEncrypt.Open(dsn), nil
	default:
		return nil, fmt.Errorf("unsupported database driver %q", dbConfig.Driver)
	}
}

func sqliteDSN(passPhrase string, dbRootDir string) (string, error) {
	dbFilePath, err := SqliteFilePath(dbRootDir)
	if err != nil {
		return "", err
	}

	return fmt.Sprintf(
		"file:%v?_pragma_key=%s&_pragma_cipher_page_size=4096&_journal_mode=WAL&_foreign_keys=1&_busy_timeout=5000",
		dbFilePath,
		passPhrase,
	), nil
}
