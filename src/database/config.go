package database

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

const (
	DriverSupabase = "supabase"
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

type Config struct {
	// StoreDriver selects where configurations are read from and signals are written to.
	StoreDriver string `envconfig:"STORE_DRIVER" default:"postgres"` // supabase | postgres | sqlite

	DatabaseURL string `envconfig:"DATABASE_URL"`
	SQLitePath  string `envconfig:"SQLITE_PATH" default:"signalhook.db"`

	SupabaseURL     string        `envconfig:"SUPABASE_URL"`
	SupabaseKey     string        `envconfig:"SUPABASE_KEY"`
	SupabaseTimeout time.Duration `envconfig:"SUPABASE_TIMEOUT" default:"15s"`

	AutoMigrate     bool          `envconfig:"AUTO_MIGRATE" default:"true"`
	GormLogLevel    int           `envconfig:"GORM_LOG_LEVEL" default:"2"`
	MaxOpenConns    int           `envconfig:"DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"DB_CONN_MAX_LIFETIME" default:"1h"`
}

func GetConfig() Config {
	var config Config
	if err := envconfig.Process("", &config); err != nil {
		panic(fmt.Errorf("error processing env config: %w", err))
	}
	return config
}

// Validate reports connection parameters that are missing for the selected driver.
// It is meant to run once at startup.
func (c Config) Validate() error {
	switch strings.ToLower(c.StoreDriver) {
	case DriverSupabase:
		var missing []string
		if strings.TrimSpace(c.SupabaseURL) == "" {
			missing = append(missing, "SUPABASE_URL")
		}
		if strings.TrimSpace(c.SupabaseKey) == "" {
			missing = append(missing, "SUPABASE_KEY")
		}
		if len(missing) > 0 {
			return fmt.Errorf("store driver %q requires %s", DriverSupabase, strings.Join(missing, " and "))
		}
	case DriverPostgres:
		if strings.TrimSpace(c.DatabaseURL) == "" {
			return fmt.Errorf("store driver %q requires DATABASE_URL", DriverPostgres)
		}
	case DriverSQLite:
		if strings.TrimSpace(c.SQLitePath) == "" {
			return fmt.Errorf("store driver %q requires SQLITE_PATH", DriverSQLite)
		}
	case "":
		return errors.New("STORE_DRIVER is empty")
	default:
		return fmt.Errorf("unknown STORE_DRIVER %q", c.StoreDriver)
	}
	return nil
}

// IsSQL reports whether the driver is backed by gorm.
func (c Config) IsSQL() bool {
	d := strings.ToLower(c.StoreDriver)
	return d == DriverPostgres || d == DriverSQLite
}
