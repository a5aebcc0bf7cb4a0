package migrations

import (
	"errors"
	"testing"
	"time"

	"signalhook/src/model"
	"signalhook/src/security"

	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newSQLiteDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, db.AutoMigrate(&model.WebhookSignal{}))
	return db
}

func TestRunOnce_SkipsAppliedMigrations(t *testing.T) {
	db := newSQLiteDB(t)

	calls := 0
	fn := func(*gorm.DB) error {
		calls++
		return nil
	}

	require.NoError(t, RunOnce(db, "00042_test", fn))
	require.NoError(t, RunOnce(db, "00042_test", fn))
	require.Equal(t, 1, calls)

	var count int64
	require.NoError(t, db.Model(&DataMigration{}).Where("id = ?", "00042_test").Count(&count).Error)
	require.EqualValues(t, 1, count)
}

func TestRunOnce_FailedMigrationIsNotRecorded(t *testing.T) {
	db := newSQLiteDB(t)

	err := RunOnce(db, "00043_broken", func(*gorm.DB) error { return errors.New("boom") })
	require.Error(t, err)

	var count int64
	require.NoError(t, db.Model(&DataMigration{}).Where("id = ?", "00043_broken").Count(&count).Error)
	require.EqualValues(t, 0, count)
}

func TestRunOnce_RejectsInvalidInput(t *testing.T) {
	db := newSQLiteDB(t)

	require.Error(t, RunOnce(db, "", func(*gorm.DB) error { return nil }))
	require.Error(t, RunOnce(db, "00044_nil", nil))
	require.NoError(t, RunOnce(nil, "00045_nil_db", func(*gorm.DB) error { return nil }))
}

func TestBackfillSignalFingerprints(t *testing.T) {
	db := newSQLiteDB(t)

	at := time.Date(2026, 5, 2, 9, 0, 0, 0, time.UTC)
	legacy := model.WebhookSignal{ConfigID: "abc123", Payload: datatypes.JSON(`{"ticker":"AAPL"}`), ReceivedAt: at}
	current := model.WebhookSignal{ConfigID: "abc123", Payload: datatypes.JSON(`{"ticker":"MSFT"}`), ReceivedAt: at, Fingerprint: "keep-me"}
	require.NoError(t, db.Create(&legacy).Error)
	require.NoError(t, db.Create(&current).Error)

	require.NoError(t, Run(db))

	var got []model.WebhookSignal
	require.NoError(t, db.Order("id ASC").Find(&got).Error)
	require.Len(t, got, 2)
	require.Equal(t, security.Fingerprint("abc123", got[0].ReceivedAt, got[0].Payload), got[0].Fingerprint)
	require.Equal(t, "keep-me", got[1].Fingerprint)
}
