package database

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetConfig_Defaults(t *testing.T) {
	config := GetConfig()

	assert.Equal(t, DriverPostgres, config.StoreDriver)
	assert.True(t, config.AutoMigrate)
	assert.Equal(t, 2, config.GormLogLevel)
}

func TestConfigValidate(t *testing.T) {
	cases := []struct {
		name    string
		config  Config
		wantErr string
	}{
		{"supabase ok", Config{StoreDriver: "supabase", SupabaseURL: "https://x.supabase.co", SupabaseKey: "k"}, ""},
		{"supabase missing both", Config{StoreDriver: "supabase"}, "SUPABASE_URL and SUPABASE_KEY"},
		{"supabase missing key", Config{StoreDriver: "supabase", SupabaseURL: "https://x.supabase.co"}, "SUPABASE_KEY"},
		{"postgres ok", Config{StoreDriver: "postgres", DatabaseURL: "postgres://localhost/db"}, ""},
		{"postgres missing url", Config{StoreDriver: "postgres"}, "DATABASE_URL"},
		{"sqlite ok", Config{StoreDriver: "SQLite", SQLitePath: "x.db"}, ""},
		{"sqlite missing path", Config{StoreDriver: "sqlite"}, "SQLITE_PATH"},
		{"empty driver", Config{}, "STORE_DRIVER is empty"},
		{"unknown driver", Config{StoreDriver: "mongo"}, "unknown STORE_DRIVER"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.config.Validate()
			if tc.wantErr == "" {
				require.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.wantErr)
		})
	}
}

func TestConfigIsSQL(t *testing.T) {
	assert.True(t, Config{StoreDriver: "postgres"}.IsSQL())
	assert.True(t, Config{StoreDriver: "sqlite"}.IsSQL())
	assert.False(t, Config{StoreDriver: "supabase"}.IsSQL())
}
