package server

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/Daskott/rolodex/server/cron"
	"github.com/Daskott/rolodex/server/gstorage"
	"github.com/Daskott/rolodex/server/logger"
	"github.com/Daskott/rolodex/server/models"
	"github.com/Daskott/rolodex/server/service"
	"github.com/Daskott/rolodex/shared"
	"github.com/go-co-op/gocron"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

func Start(config *viper.Viper, devMode bool) {
	serverConfig, err := shared.ParseServerConfig(config)
	if err != nil {
		zap.NewExample().Sugar().Fatal(err)
	}

	logg := logger.NewLogger(serverConfig.Logger)
	defer logg.Sync()

	dbRootDir := serverConfig.Database.Sqlite.Dir
	if dbRootDir == "" {
		dbRootDir = configDirectory(devMode, logg)
	}

	var backup *sqliteBackup
	if serverConfig.Google.Storage.EnableSqliteBackupAndSync {
		backup, err = initSqliteBackup(serverConfig.Google, dbRootDir, logg)
		fatalOnError(err, logg)
		fatalOnError(backup.restore(context.Background()), logg)
	}

	db, err := models.OpenDB(serverConfig.Database, dbRootDir)
	fatalOnError(err, logg)

	userStore := models.NewUserStore(db, logg)
	contactStore := models.NewContactStore(db, logg)

	router := NewRouter(
		service.NewUserService(userStore, logg),
		service.NewContactService(contactStore, userStore, logg),
		logg,
	)

	var scheduler *gocron.Scheduler
	if backup != nil {
		backup.db = db
		scheduler = cron.NewCronScheduler(serverConfig.Rolodex.Cron.TimeZone)
		fatalOnError(backup.schedule(scheduler, serverConfig.Google.Storage.SqliteBackupSchedule), logg)
		scheduler.StartAsync()
	}

	httpServer := &http.Server{
		Addr:    fmt.Sprintf(":%v", serverConfig.Rolodex.Listener.Port),
		Handler: router,
	}

	go serve(httpServer, logg)

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	shutdown(httpServer, logg)

	if scheduler != nil {
		scheduler.Stop()
		if err := backup.stop(context.Background()); err != nil {
			logg.Error(err)
		}
	}

	if sqlDB, err := db.DB(); err == nil {
		sqlDB.Close()
	}
}

func initSqliteBackup(googleConfig shared.GoogleConfig, dbRootDir string, logg *zap.SugaredLogger) (*sqliteBackup, error) {
	storage, err := gstorage.NewGStorage(context.Background(), googleConfig.ApplicationCredentials)
	if err != nil {
		return nil, err
	}

	return newSqliteBackup(storage, googleConfig.Storage, dbRootDir, logg)
}
