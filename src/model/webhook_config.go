package model

import (
	"time"

	"gorm.io/datatypes"
)

// WebhookConfig is a registered webhook endpoint. The ingestion path only ever
// reads SecurityToken from it; the remaining columns are managed by the admin CLI
// and the dashboard.
type WebhookConfig struct {
	ID          string `gorm:"primaryKey;size:64;column:id" json:"id"`
	Name        string `gorm:"size:255;not null;column:name" json:"name"`
	Description string `gorm:"type:text;column:description" json:"description"`
	WebhookURL  string `gorm:"size:512;not null;uniqueIndex;column:webhook_url" json:"webhook_url"`

	// SecurityToken is the shared secret alerts must present as "passphrase".
	SecurityToken string `gorm:"size:255;not null;column:security_token" json:"-"`

	NotificationPreferences datatypes.JSON `gorm:"column:notification_preferences" json:"notification_preferences"`
	IsActive                bool           `gorm:"not null;default:true;column:is_active" json:"is_active"`

	CreatedAt time.Time `gorm:"column:created_at" json:"created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at" json:"updated_at"`
}

func (WebhookConfig) TableName() string {
	return "webhook_configs"
}

// DefaultNotificationPreferences mirrors what the dashboard stores for a new configuration.
func DefaultNotificationPreferences() datatypes.JSON {
	return datatypes.JSON(`{"email":true,"browser":true,"onSuccess":true,"onFailure":true}`)
}

const (
	MinSecurityTokenLength = 6
	MaxSecurityTokenLength = 255
)
