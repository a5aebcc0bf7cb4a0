package database

import (
	"fmt"
	"strings"

	"signalhook/src/database/migrations"
	"signalhook/src/model"

	"github.com/sirupsen/logrus"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Open connects to the SQL backend selected by config. The caller owns the
// returned handle; there is no package-level connection.
func Open(config Config) (*gorm.DB, error) {
	var dialector gorm.Dialector
	switch strings.ToLower(config.StoreDriver) {
	case DriverPostgres:
		dialector = postgres.Open(config.DatabaseURL)
	case DriverSQLite:
		dialector = sqlite.Open(config.SQLitePath)
	default:
		return nil, fmt.Errorf("store driver %q is not a SQL backend", config.StoreDriver)
	}

	return openWithDialector(dialector, config)
}

// openWithDialector opens the pool, applies the pool limits and pings once. The
// pool is closed on every failure path.
func openWithDialector(dialector gorm.Dialector, config Config) (*gorm.DB, error) {
	db, err := gorm.Open(dialector, &gorm.Config{
		TranslateError:       true,
		DisableAutomaticPing: true,
		Logger:               logger.Default.LogMode(logger.LogLevel(config.GormLogLevel)),
	})
	if err != nil {
		closeConnPool(db)
		return nil, fmt.Errorf("failed to connect to %s: %w", config.StoreDriver, err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		closeConnPool(db)
		return nil, fmt.Errorf("failed to get sql.DB from gorm: %w", err)
	}
	sqlDB.SetMaxOpenConns(config.MaxOpenConns)
	sqlDB.SetMaxIdleConns(config.MaxIdleConns)
	sqlDB.SetConnMaxLifetime(config.ConnMaxLifetime)

	if err := sqlDB.Ping(); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("failed to ping %s: %w", config.StoreDriver, err)
	}

	logrus.WithField("driver", config.StoreDriver).Info("[database] connection established")

	return db, nil
}

func closeConnPool(db *gorm.DB) {
	if db == nil || db.Config == nil {
		return
	}
	if conn, ok := db.ConnPool.(interface{ Close() error }); ok {
		_ = conn.Close()
	}
}

// Migrate creates the webhook tables and runs pending data migrations.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&model.WebhookConfig{},
		&model.WebhookSignal{},
		&migrations.DataMigration{},
	); err != nil {
		return fmt.Errorf("failed to run schema migrations: %w", err)
	}

	if err := migrations.Run(db); err != nil {
		return fmt.Errorf("failed to run data migrations: %w", err)
	}

	logrus.Info("[database] migrations completed")
	return nil
}

// Close releases the underlying connection pool.
func Close(db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
