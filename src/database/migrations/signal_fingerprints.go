package migrations

import (
	"signalhook/src/model"
	"signalhook/src/security"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

const fingerprintBackfillBatch = 500

// backfillSignalFingerprints fills the fingerprint column for signals stored
// before it existed. Rows are walked by ascending id so every row is visited once.
func backfillSignalFingerprints(db *gorm.DB) error {
	var lastID uint
	total := 0

	for {
		var batch []model.WebhookSignal
		if err := db.
			Where("id > ? AND (fingerprint IS NULL OR fingerprint = '')", lastID).
			Order("id ASC").
			Limit(fingerprintBackfillBatch).
			Find(&batch).Error; err != nil {
			return err
		}
		if len(batch) == 0 {
			break
		}

		for _, s := range batch {
			fp := security.Fingerprint(s.ConfigID, s.ReceivedAt, s.Payload)
			if err := db.Model(&model.WebhookSignal{}).
				Where("id = ?", s.ID).
				Update("fingerprint", fp).Error; err != nil {
				return err
			}
			lastID = s.ID
		}
		total += len(batch)
	}

	logrus.WithField("rows", total).Info("[migrations] signal fingerprints backfilled")
	return nil
}
