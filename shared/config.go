package shared

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator"
	"github.com/spf13/viper"
)

// ParseServerConfig decodes the server settings held by config and validates them.
func ParseServerConfig(config *viper.Viper) (*ServerConfig, error) {
	serverConfig := ServerConfig{}

	err := config.Unmarshal(&serverConfig)
	if err != nil {
		return nil, fmt.Errorf("unable to decode server config: %v", err)
	}

	err = validator.New().Struct(serverConfig)
	if err != nil {
		return nil, fmt.Errorf("invalid server config: %v", strings.ReplaceAll(err.Error(), "\n", "; "))
	}

	switch serverConfig.Database.Driver {
	case SQLITE_DRIVER:
		if serverConfig.Database.Sqlite.PassPhrase == "" {
			return nil, fmt.Errorf("invalid server config: 'database.sqlite.passPhrase' is required for the sqlite driver")
		}
	case POSTGRES_DRIVER:
		if serverConfig.Database.Postgres.DSN == "" {
			return nil, fmt.Errorf("invalid server config: 'database.postgres.dsn' is required for the postgres driver")
		}
		if serverConfig.Google.Storage.EnableSqliteBackupAndSync {
			return nil, fmt.Errorf("invalid server config: sqlite backups cannot be enabled for the postgres driver")
		}
	}

	return &serverConfig, nil
}
