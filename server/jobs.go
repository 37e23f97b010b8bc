package server

import (
	"context"
	"path"

	"github.com/Daskott/rolodex/server/gstorage"
	"github.com/Daskott/rolodex/server/models"
	"github.com/Daskott/rolodex/shared"
	"github.com/Daskott/rolodex/utils"
	"github.com/go-co-op/gocron"
	"github.com/pkg/errors"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const backupSqliteDbTag = "backupSqliteDb"

type objectStorage interface {
	UploadFile(ctx context.Context, bucket, object, filePath string) error
	DownloadFile(ctx context.Context, bucket, object, destFileName string) error
	Close() error
}

// sqliteBackup keeps a copy of the sqlite db file in a storage bucket.
type sqliteBackup struct {
	storage objectStorage
	db      *gorm.DB
	bucket  string
	object  string
	dbPath  string
	logg    *zap.SugaredLogger
}

func newSqliteBackup(storage objectStorage, config shared.StorageConfig, dbRootDir string, logg *zap.SugaredLogger) (*sqliteBackup, error) {
	dbPath, err := models.SqliteFilePath(dbRootDir)
	if err != nil {
		return nil, err
	}

	return &sqliteBackup{
		storage: storage,
		bucket:  config.Bucket,
		object:  path.Join(config.Prefix, models.DB_NAME),
		dbPath:  dbPath,
		logg:    logg.With("job", backupSqliteDbTag),
	}, nil
}

// restore downloads the last backup if there is no local db file yet.
// A missing backup is not an error.
func (sb *sqliteBackup) restore(ctx context.Context) error {
	if utils.FileExist(sb.dbPath) {
		return nil
	}

	err := sb.storage.DownloadFile(ctx, sb.bucket, sb.object, sb.dbPath)
	if err == gstorage.ErrObjectNotExist {
		sb.logg.Infof("no backup found at %v/%v", sb.bucket, sb.object)
		return nil
	}
	if err != nil {
		return errors.Wrap(err, "restore sqlite db")
	}

	sb.logg.Infof("restored sqlite db from %v/%v", sb.bucket, sb.object)
	return nil
}

// run flushes the WAL into the db file before uploading it.
func (sb *sqliteBackup) run(ctx context.Context) error {
	if sb.db != nil {
		if err := sb.db.WithContext(ctx).Exec("PRAGMA wal_checkpoint(TRUNCATE)").Error; err != nil {
			return errors.Wrap(err, "checkpoint sqlite db")
		}
	}

	if err := sb.storage.UploadFile(ctx, sb.bucket, sb.object, sb.dbPath); err != nil {
		return errors.Wrap(err, "upload sqlite db")
	}

	sb.logg.Debugf("uploaded sqlite db to %v/%v", sb.bucket, sb.object)
	return nil
}

// stop uploads writes made since the last scheduled run and releases the storage client.
func (sb *sqliteBackup) stop(ctx context.Context) error {
	runErr := sb.run(ctx)

	if err := sb.storage.Close(); err != nil && runErr == nil {
		return errors.Wrap(err, "close storage")
	}

	return runErr
}

func (sb *sqliteBackup) schedule(scheduler *gocron.Scheduler, cronExpr string) error {
	_, err := scheduler.Cron(cronExpr).SingletonMode().Tag(backupSqliteDbTag).Do(func() {
		if err := sb.run(context.Background()); err != nil {
			sb.logg.Error(err)
		}
	})

	return err
}
