package database

import (
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
)

func TestOpenWithDialector_ClosesPoolWhenPingFails(t *testing.T) {
	sqlDB, mock, err := sqlmock.New(sqlmock.MonitorPingsOption(true))
	require.NoError(t, err)

	mock.ExpectPing().WillReturnError(errors.New("connection refused"))
	mock.ExpectClose()

	db, err := openWithDialector(postgres.New(postgres.Config{Conn: sqlDB}), Config{
		StoreDriver:     DriverPostgres,
		GormLogLevel:    1,
		MaxOpenConns:    1,
		MaxIdleConns:    1,
		ConnMaxLifetime: time.Minute,
	})

	require.Error(t, err)
	assert.Nil(t, db)
	assert.Contains(t, err.Error(), "failed to ping postgres")
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestOpenWithDialector_PingsOnce(t *testing.T) {
	sqlDB, mock, err := sqlmock.New(sqlmock.MonitorPingsOption(true))
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })

	mock.ExpectPing()

	db, err := openWithDialector(postgres.New(postgres.Config{Conn: sqlDB}), Config{
		StoreDriver:  DriverPostgres,
		GormLogLevel: 1,
		MaxOpenConns: 1,
		MaxIdleConns: 1,
	})

	require.NoError(t, err)
	require.NotNil(t, db)
	require.NoError(t, mock.ExpectationsWereMet())
}
