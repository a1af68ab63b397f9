package catalog_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"media-mirror/core/catalog"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
)

func setupMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("Failed to open mock sql db: %v", err)
	}

	dialector := mysql.New(mysql.Config{
		Conn:                      db,
		SkipInitializeWithVersion: true,
	})

	gormDB, err := gorm.Open(dialector, &gorm.Config{})
	if err != nil {
		t.Fatalf("Failed to open gorm db: %v", err)
	}

	return gormDB, mock
}

func TestStore_GetProvider_DriverError(t *testing.T) {
	db, mock := setupMockDB(t)
	store := catalog.NewStore(db)

	driverErr := errors.New("connection reset")
	mock.ExpectQuery("SELECT \\* FROM `providers`").WillReturnError(driverErr)

	p, err := store.GetProvider(context.Background(), "prov-1")
	assert.Nil(t, p)
	assert.Error(t, err)
	assert.ErrorIs(t, err, driverErr)
	// Driver failures must not masquerade as missing records.
	assert.NotErrorIs(t, err, catalog.ErrNotFound)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStore_ListMediaFiles_DriverError(t *testing.T) {
	db, mock := setupMockDB(t)
	store := catalog.NewStore(db)

	mock.ExpectQuery("SELECT \\* FROM `media_files`").WillReturnError(errors.New("bad connection"))

	files, err := store.ListMediaFiles(context.Background(), "prov-1")
	assert.Nil(t, files)
	assert.Error(t, err)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStore_TouchLastSync_DriverError(t *testing.T) {
	db, mock := setupMockDB(t)
	store := catalog.NewStore(db)

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE `providers`").WillReturnError(errors.New("lock wait timeout"))
	mock.ExpectRollback()

	err := store.TouchLastSync(context.Background(), "prov-1", time.Now())
	assert.Error(t, err)
	assert.NotErrorIs(t, err, catalog.ErrNotFound)

	assert.NoError(t, mock.ExpectationsWereMet())
}
