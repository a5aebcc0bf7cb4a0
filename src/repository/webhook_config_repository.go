package repository

import (
	"context"
	"errors"
	"time"

	logger "github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"signalhook/src/model"
)

// WebhookConfigRepository handles webhook configurations stored in a SQL database.
type WebhookConfigRepository struct {
	db *gorm.DB
}

// NewWebhookConfigRepository creates a new repository instance on top of db.
func NewWebhookConfigRepository(db *gorm.DB) *WebhookConfigRepository {
	logger.WithField("component", "WebhookConfigRepository").
		Debug("Creating new WebhookConfigRepository")

	return &WebhookConfigRepository{db: db}
}

// GetByID fetches a configuration by its id.
// Returns (nil, nil) if not found.
func (r *WebhookConfigRepository) GetByID(
	ctx context.Context,
	id string,
) (*model.WebhookConfig, error) {

	logger.WithFields(map[string]interface{}{
		"repo":      "WebhookConfigRepository",
		"op":        "GetByID",
		"config_id": id,
	}).Debug("Fetching webhook config by ID")

	var config model.WebhookConfig

	err := r.db.WithContext(ctx).
		Where("id = ?", id).
		First(&config).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			logger.WithFields(map[string]interface{}{
				"repo":      "WebhookConfigRepository",
				"op":        "GetByID",
				"config_id": id,
			}).Info("Webhook config not found")
			return nil, nil // not found is not an error
		}

		logger.WithFields(map[string]interface{}{
			"repo":      "WebhookConfigRepository",
			"op":        "GetByID",
			"config_id": id,
		}).WithError(err).Error("Failed to fetch webhook config by ID")

		return nil, err
	}

	return &config, nil
}

// Create inserts a new configuration.
func (r *WebhookConfigRepository) Create(
	ctx context.Context,
	config *model.WebhookConfig,
) error {

	logger.WithFields(map[string]interface{}{
		"repo":      "WebhookConfigRepository",
		"op":        "Create",
		"config_id": config.ID,
		"name":      config.Name,
	}).Debug("Creating webhook config")

	if err := r.db.WithContext(ctx).Create(config).Error; err != nil {
		logger.WithFields(map[string]interface{}{
			"repo":      "WebhookConfigRepository",
			"op":        "Create",
			"config_id": config.ID,
		}).WithError(err).Error("Failed to create webhook config")

		return err
	}

	logger.WithFields(map[string]interface{}{
		"repo":      "WebhookConfigRepository",
		"op":        "Create",
		"config_id": config.ID,
	}).Info("Webhook config created")

	return nil
}

// List returns all configurations, newest first.
func (r *WebhookConfigRepository) List(ctx context.Context) ([]model.WebhookConfig, error) {
	var configs []model.WebhookConfig

	err := r.db.WithContext(ctx).
		Order("created_at DESC, id ASC").
		Find(&configs).Error

	if err != nil {
		logger.WithFields(map[string]interface{}{
			"repo": "WebhookConfigRepository",
			"op":   "List",
		}).WithError(err).Error("Failed to list webhook configs")

		return nil, err
	}

	logger.WithFields(map[string]interface{}{
		"repo":        "WebhookConfigRepository",
		"op":          "List",
		"rows_return": len(configs),
	}).Debug("Webhook configs listed")

	return configs, nil
}

// UpdateSecurityToken replaces the token of an existing configuration.
// Returns false if no configuration has that id.
func (r *WebhookConfigRepository) UpdateSecurityToken(
	ctx context.Context,
	id string,
	token string,
) (bool, error) {

	res := r.db.WithContext(ctx).
		Model(&model.WebhookConfig{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"security_token": token,
			"updated_at":     time.Now().UTC(),
		})

	if res.Error != nil {
		logger.WithFields(map[string]interface{}{
			"repo":      "WebhookConfigRepository",
			"op":        "UpdateSecurityToken",
			"config_id": id,
		}).WithError(res.Error).Error("Failed to rotate webhook config token")

		return false, res.Error
	}

	logger.WithFields(map[string]interface{}{
		"repo":          "WebhookConfigRepository",
		"op":            "UpdateSecurityToken",
		"config_id":     id,
		"rows_affected": res.RowsAffected,
	}).Info("Webhook config token rotated")

	return res.RowsAffected > 0, nil
}
