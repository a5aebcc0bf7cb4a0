package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"signalhook/src/database"
	"signalhook/src/model"
	"signalhook/src/repository"
	"signalhook/src/supabase"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
)

func TestOpen_RejectsIncompleteConfig(t *testing.T) {
	_, err := Open(context.Background(), database.Config{StoreDriver: database.DriverSupabase, SupabaseURL: "https://x.supabase.co"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "SUPABASE_KEY")
}

func TestOpen_Supabase(t *testing.T) {
	stores, err := Open(context.Background(), database.Config{
		StoreDriver: database.DriverSupabase,
		SupabaseURL: "https://x.supabase.co",
		SupabaseKey: "key",
	})
	require.NoError(t, err)

	assert.IsType(t, &supabase.ConfigStore{}, stores.Configs)
	assert.IsType(t, &supabase.SignalStore{}, stores.Signals)
	assert.Nil(t, stores.DB)
	assert.NoError(t, stores.Close())
}

func TestOpen_SQLiteMigratesAndRoundTrips(t *testing.T) {
	config := database.Config{
		StoreDriver:     database.DriverSQLite,
		SQLitePath:      filepath.Join(t.TempDir(), "signals.db"),
		AutoMigrate:     true,
		GormLogLevel:    1,
		MaxOpenConns:    1,
		MaxIdleConns:    1,
		ConnMaxLifetime: time.Minute,
	}

	stores, err := Open(context.Background(), config)
	require.NoError(t, err)
	t.Cleanup(func() { _ = stores.Close() })

	require.IsType(t, &repository.WebhookConfigRepository{}, stores.Configs)
	require.NotNil(t, stores.DB)

	ctx := context.Background()
	configs := stores.Configs.(*repository.WebhookConfigRepository)
	require.NoError(t, configs.Create(ctx, &model.WebhookConfig{
		ID:            "abc123",
		Name:          "AAPL",
		WebhookURL:    "https://hooks.example/receive-webhook/abc123",
		SecurityToken: "abc123xyz789",
	}))

	got, err := stores.Configs.GetByID(ctx, "abc123")
	require.NoError(t, err)
	require.Equal(t, "abc123xyz789", got.SecurityToken)

	missing, err := stores.Configs.GetByID(ctx, "doesnotexist")
	require.NoError(t, err)
	require.Nil(t, missing)

	signal := &model.WebhookSignal{ConfigID: "abc123", Payload: datatypes.JSON(`{"ticker":"AAPL"}`), ReceivedAt: time.Now().UTC()}
	require.NoError(t, stores.Signals.Insert(ctx, signal))
	require.NotZero(t, signal.ID)
}
