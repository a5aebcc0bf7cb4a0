// repository/webhook_signal_repository.go
package repository

import (
	"context"

	logger "github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"signalhook/src/model"
)

// WebhookSignalRepository appends accepted signals and reads them back
// for the admin tooling. It never updates or deletes rows.
type WebhookSignalRepository struct {
	db *gorm.DB
}

// NewWebhookSignalRepository creates a new repository instance on top of db.
func NewWebhookSignalRepository(db *gorm.DB) *WebhookSignalRepository {
	logger.WithField("component", "WebhookSignalRepository").
		Debug("Creating new WebhookSignalRepository")

	return &WebhookSignalRepository{db: db}
}

// Insert appends a signal. The generated id is written back into signal.
func (r *WebhookSignalRepository) Insert(
	ctx context.Context,
	signal *model.WebhookSignal,
) error {

	logger.WithFields(map[string]interface{}{
		"repo":      "WebhookSignalRepository",
		"op":        "Insert",
		"config_id": signal.ConfigID,
	}).Debug("Inserting webhook signal")

	if err := r.db.WithContext(ctx).Create(signal).Error; err != nil {
		logger.WithFields(map[string]interface{}{
			"repo":      "WebhookSignalRepository",
			"op":        "Insert",
			"config_id": signal.ConfigID,
		}).WithError(err).Error("Failed to insert webhook signal")

		return err
	}

	logger.WithFields(map[string]interface{}{
		"repo":      "WebhookSignalRepository",
		"op":        "Insert",
		"config_id": signal.ConfigID,
		"signal_id": signal.ID,
	}).Info("Webhook signal stored")

	return nil
}

// FindLatest fetches the newest signals, optionally restricted to one configuration.
func (r *WebhookSignalRepository) FindLatest(
	ctx context.Context,
	configID string,
	limit int,
) ([]model.WebhookSignal, error) {

	if limit <= 0 {
		limit = 50 // default safety limit
	}

	logger.WithFields(map[string]interface{}{
		"repo":      "WebhookSignalRepository",
		"op":        "FindLatest",
		"config_id": configID,
		"limit":     limit,
	}).Debug("Fetching latest webhook signals")

	var signals []model.WebhookSignal

	q := r.db.WithContext(ctx)
	if configID != "" {
		q = q.Where("config_id = ?", configID)
	}

	err := q.Order("received_at DESC, id DESC").
		Limit(limit).
		Find(&signals).Error

	if err != nil {
		logger.WithFields(map[string]interface{}{
			"repo":      "WebhookSignalRepository",
			"op":        "FindLatest",
			"config_id": configID,
		}).WithError(err).Error("Failed to fetch latest webhook signals")

		return nil, err
	}

	logger.WithFields(map[string]interface{}{
		"repo":        "WebhookSignalRepository",
		"op":          "FindLatest",
		"config_id":   configID,
		"rows_return": len(signals),
	}).Debug("Latest webhook signals fetched")

	return signals, nil
}

// CountByConfig returns how many signals were stored for a configuration.
func (r *WebhookSignalRepository) CountByConfig(
	ctx context.Context,
	configID string,
) (int64, error) {

	var count int64

	err := r.db.WithContext(ctx).
		Model(&model.WebhookSignal{}).
		Where("config_id = ?", configID).
		Count(&count).Error

	if err != nil {
		logger.WithFields(map[string]interface{}{
			"repo":      "WebhookSignalRepository",
			"op":        "CountByConfig",
			"config_id": configID,
		}).WithError(err).Error("Failed to count webhook signals")

		return 0, err
	}

	return count, nil
}
