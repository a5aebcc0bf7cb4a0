package model

import (
	"time"

	"gorm.io/datatypes"
)

// WebhookSignal is one accepted alert, stored verbatim with the configuration it
// arrived on. Rows are append-only: nothing in this service updates or deletes them.
type WebhookSignal struct {
	ID       uint           `gorm:"primaryKey;column:id" json:"id"`
	ConfigID string         `gorm:"size:64;not null;index;column:config_id" json:"config_id"`
	Payload  datatypes.JSON `gorm:"not null;column:payload" json:"payload"`

	// Fingerprint lets downstream consumers spot duplicates. It is not unique.
	Fingerprint string    `gorm:"size:64;index;column:fingerprint" json:"fingerprint,omitempty"`
	ReceivedAt  time.Time `gorm:"not null;index;column:received_at" json:"received_at"`
}

func (WebhookSignal) TableName() string {
	return "webhook_signals"
}
