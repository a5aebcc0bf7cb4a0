// Package store selects the backend that holds webhook configurations and
// accepted signals.
package store

import (
	"context"
	"fmt"
	"strings"

	"signalhook/src/database"
	"signalhook/src/model"
	"signalhook/src/repository"
	"signalhook/src/supabase"

	logger "github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// ConfigStore is the read side the ingestion handler depends on.
type ConfigStore interface {
	GetByID(ctx context.Context, id string) (*model.WebhookConfig, error)
}

// SignalStore is the append-only write sink for accepted signals.
type SignalStore interface {
	Insert(ctx context.Context, signal *model.WebhookSignal) error
}

// Stores bundles the two collaborators of the ingestion endpoint.
// DB is set only for SQL backends.
type Stores struct {
	Configs ConfigStore
	Signals SignalStore
	DB      *gorm.DB
}

// Close releases the SQL connection pool, if any.
func (s *Stores) Close() error {
	if s == nil || s.DB == nil {
		return nil
	}
	return database.Close(s.DB)
}

// Open validates config and builds the stores for the selected driver.
func Open(ctx context.Context, config database.Config) (*Stores, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	if strings.EqualFold(config.StoreDriver, database.DriverSupabase) {
		client, err := supabase.NewClient(config.SupabaseURL, config.SupabaseKey, config.SupabaseTimeout)
		if err != nil {
			return nil, err
		}

		logger.WithField("driver", database.DriverSupabase).Info("[store] using Supabase REST backend")

		return &Stores{
			Configs: supabase.NewConfigStore(client),
			Signals: supabase.NewSignalStore(client),
		}, nil
	}

	db, err := database.Open(config)
	if err != nil {
		return nil, err
	}

	if config.AutoMigrate {
		if err := database.Migrate(db.WithContext(ctx)); err != nil {
			_ = database.Close(db)
			return nil, fmt.Errorf("migrate %s: %w", config.StoreDriver, err)
		}
	}

	return FromDB(db), nil
}

// FromDB wires gorm repositories on an existing connection.
func FromDB(db *gorm.DB) *Stores {
	return &Stores{
		Configs: repository.NewWebhookConfigRepository(db),
		Signals: repository.NewWebhookSignalRepository(db),
		DB:      db,
	}
}
