package webhookconfig

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"signalhook/src/database"
	"signalhook/src/repository"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newManager(t *testing.T) (*Manager, *bytes.Buffer) {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })
	require.NoError(t, database.Migrate(db))

	var out bytes.Buffer
	ids := []string{"cfg-1", "cfg-2"}
	return &Manager{
		Log:  logrus.WithField("cmd", "configs"),
		Repo: repository.NewWebhookConfigRepository(db),
		Out:  &out,
		NewID: func() string {
			id := ids[0]
			ids = ids[1:]
			return id
		},
	}, &out
}

func TestManager_CreateAndList(t *testing.T) {
	m, out := newManager(t)
	ctx := context.Background()

	config, err := m.Create(ctx, CreateInput{
		Name:    " AAPL alerts ",
		Token:   "abc123xyz789",
		BaseURL: "https://hooks.example/receive-webhook/",
	})
	require.NoError(t, err)
	assert.Equal(t, "cfg-1", config.ID)
	assert.Equal(t, "AAPL alerts", config.Name)
	assert.Equal(t, "https://hooks.example/receive-webhook/cfg-1", config.WebhookURL)
	assert.Contains(t, out.String(), "https://hooks.example/receive-webhook/cfg-1")

	stored, err := m.Repo.GetByID(ctx, "cfg-1")
	require.NoError(t, err)
	require.NotNil(t, stored)
	assert.Equal(t, "abc123xyz789", stored.SecurityToken)
	assert.True(t, stored.IsActive)
	assert.JSONEq(t, `{"email":true,"browser":true,"onSuccess":true,"onFailure":true}`, string(stored.NotificationPreferences))

	out.Reset()
	require.NoError(t, m.List(ctx))
	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	require.Len(t, lines, 2)
	assert.Contains(t, lines[0], "ID")
	assert.Contains(t, lines[1], "cfg-1")
	assert.NotContains(t, out.String(), "abc123xyz789")
}

func TestManager_CreateValidates(t *testing.T) {
	m, _ := newManager(t)
	ctx := context.Background()

	_, err := m.Create(ctx, CreateInput{Name: "x", Token: "short"})
	require.Error(t, err)

	_, err = m.Create(ctx, CreateInput{Name: "x", Token: strings.Repeat("a", 256)})
	require.Error(t, err)

	_, err = m.Create(ctx, CreateInput{Name: "  ", Token: "abc123xyz789"})
	require.Error(t, err)
}

func TestManager_Rotate(t *testing.T) {
	m, _ := newManager(t)
	ctx := context.Background()

	_, err := m.Create(ctx, CreateInput{Name: "AAPL", Token: "abc123xyz789", BaseURL: "https://hooks.example/receive-webhook"})
	require.NoError(t, err)

	require.NoError(t, m.Rotate(ctx, "cfg-1", "newtoken123"))
	stored, err := m.Repo.GetByID(ctx, "cfg-1")
	require.NoError(t, err)
	assert.Equal(t, "newtoken123", stored.SecurityToken)

	err = m.Rotate(ctx, "missing", "newtoken123")
	assert.ErrorIs(t, err, ErrConfigNotFound)

	assert.Error(t, m.Rotate(ctx, "cfg-1", "abc"))
}

func TestValidateToken_CountsCharacters(t *testing.T) {
	assert.NoError(t, ValidateToken("日本語日本語"))
	assert.NoError(t, ValidateToken(strings.Repeat("é", 255)))
	assert.Error(t, ValidateToken(strings.Repeat("é", 256)))
	assert.Error(t, ValidateToken("日本語日本"))
}
