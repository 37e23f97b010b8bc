package server

import (
	"context"
	"io/ioutil"
	"path/filepath"
	"testing"

	"github.com/Daskott/rolodex/server/cron"
	"github.com/Daskott/rolodex/server/gstorage"
	"github.com/Daskott/rolodex/server/models"
	"github.com/Daskott/rolodex/shared"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
)

type storageStub struct {
	objects map[string][]byte
	fail    error
	closed  bool
}

func newStorageStub() *storageStub {
	return &storageStub{objects: map[string][]byte{}}
}

func (s *storageStub) UploadFile(_ context.Context, bucket, object, filePath string) error {
	if s.fail != nil {
		return s.fail
	}

	content, err := ioutil.ReadFile(filePath)
	if err != nil {
		return err
	}

	s.objects[filepath.Join(bucket, object)] = content
	return nil
}

func (s *storageStub) DownloadFile(_ context.Context, bucket, object, destFileName string) error {
	if s.fail != nil {
		return s.fail
	}

	content, ok := s.objects[filepath.Join(bucket, object)]
	if !ok {
		return gstorage.ErrObjectNotExist
	}

	return ioutil.WriteFile(destFileName, content, 0600)
}

func (s *storageStub) Close() error {
	s.closed = true
	return nil
}

var storageConfig = shared.StorageConfig{
	Bucket:                    "rolodex",
	Prefix:                    "rolodex-test",
	SqliteBackupSchedule:      "*/30 * * * *",
	EnableSqliteBackupAndSync: true,
}

func TestSqliteBackupRestore(t *testing.T) {
	ctx := context.Background()
	storage := newStorageStub()

	backup, err := newSqliteBackup(storage, storageConfig, t.TempDir(), models.TestLogger())
	assert.Nil(t, err)
	assert.Equal(t, "rolodex-test/rolodex.db", backup.object)

	// Nothing to restore
	assert.Nil(t, backup.restore(ctx))
	assert.NoFileExists(t, backup.dbPath)

	storage.objects[filepath.Join("rolodex", backup.object)] = []byte("backup")
	assert.Nil(t, backup.restore(ctx))

	content, err := ioutil.ReadFile(backup.dbPath)
	assert.Nil(t, err)
	assert.Equal(t, "backup", string(content))

	// A local db file is never overwritten
	storage.objects[filepath.Join("rolodex", backup.object)] = []byte("newer backup")
	assert.Nil(t, backup.restore(ctx))

	content, err = ioutil.ReadFile(backup.dbPath)
	assert.Nil(t, err)
	assert.Equal(t, "backup", string(content))
}

func TestSqliteBackupRestoreFailure(t *testing.T) {
	storage := newStorageStub()
	storage.fail = errors.New("bucket unreachable")

	backup, err := newSqliteBackup(storage, storageConfig, t.TempDir(), models.TestLogger())
	assert.Nil(t, err)

	err = backup.restore(context.Background())
	assert.EqualError(t, err, "restore sqlite db: bucket unreachable")
}

func TestSqliteBackupRun(t *testing.T) {
	ctx := context.Background()
	dbRootDir := t.TempDir()
	storage := newStorageStub()

	db, err := models.OpenDB(shared.DatabaseConfig{
		Driver: shared.SQLITE_DRIVER,
		Sqlite: shared.SqliteConfig{PassPhrase: "test-passphrase"},
	}, dbRootDir)
	assert.Nil(t, err)
	defer func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	}()

	_, err = models.NewUserStore(db, models.TestLogger()).Create(ctx, "Ana", "ana@x.com")
	assert.Nil(t, err)

	backup, err := newSqliteBackup(storage, storageConfig, dbRootDir, models.TestLogger())
	assert.Nil(t, err)
	backup.db = db

	assert.Nil(t, backup.run(ctx))
	assert.NotEmpty(t, storage.objects[filepath.Join("rolodex", backup.object)])

	storage.fail = errors.New("bucket unreachable")
	assert.EqualError(t, backup.run(ctx), "upload sqlite db: bucket unreachable")
}

func TestSqliteBackupStop(t *testing.T) {
	dbRootDir := t.TempDir()
	storage := newStorageStub()

	backup, err := newSqliteBackup(storage, storageConfig, dbRootDir, models.TestLogger())
	assert.Nil(t, err)
	assert.Nil(t, ioutil.WriteFile(backup.dbPath, []byte("db"), 0600))

	assert.Nil(t, backup.stop(context.Background()))
	assert.True(t, storage.closed)
	assert.Equal(t, "db", string(storage.objects[filepath.Join("rolodex", backup.object)]))

	// The client is released even when the last upload fails
	storage = newStorageStub()
	storage.fail = errors.New("bucket unreachable")
	backup.storage = storage

	assert.EqualError(t, backup.stop(context.Background()), "upload sqlite db: bucket unreachable")
	assert.True(t, storage.closed)
}

func TestSqliteBackupSchedule(t *testing.T) {
	backup, err := newSqliteBackup(newStorageStub(), storageConfig, t.TempDir(), models.TestLogger())
	assert.Nil(t, err)

	scheduler := cron.NewCronScheduler("America/Toronto")
	assert.Nil(t, backup.schedule(scheduler, storageConfig.SqliteBackupSchedule))
	assert.Equal(t, 1, scheduler.Len())

	// Tags are unique, so the job cannot be scheduled twice
	assert.NotNil(t, backup.schedule(scheduler, storageConfig.SqliteBackupSchedule))

	assert.NotNil(t, backup.schedule(cron.NewCronScheduler("UTC"), "not a cron expression"))
}
