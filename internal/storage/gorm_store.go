package storage

import (
	"context"
	"fmt"
	"time"

	"github.com/ikkim/storefront/internal/app/model"
	"github.com/ikkim/storefront/pkg/logger"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormBackend stores one row per (profile, key) in profile_records. Group
// writes share a transaction.
type GormBackend struct {
	db  *gorm.DB
	now func() time.Time
}

func NewGormBackend(db *gorm.DB) *GormBackend {
	return &GormBackend{db: db, now: time.Now}
}

func (b *GormBackend) Load(ctx context.Context, profileID string, keys []string) (map[string]string, error) {
	var records []model.ProfileRecord
	query := b.db.WithContext(ctx).Where("profile_id = ?", profileID)
	if len(keys) > 0 {
		query = query.Where("record_key IN ?", keys)
	}
	if err := query.Find(&records).Error; err != nil {
		logger.Error("Failed to load profile records from database", err, map[string]interface{}{
			"profile_id": profileID,
		})
		return nil, err
	}

	out := make(map[string]string, len(records))
	for _, r := range records {
		out[r.Key] = r.Value
	}
	return out, nil
}

func (b *GormBackend) Save(ctx context.Context, profileID string, set map[string]string, remove []string) error {
	now := b.now().UTC()

	err := b.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if len(set) > 0 {
			records := make([]model.ProfileRecord, 0, len(set))
			for k, v := range set {
				records = append(records, model.ProfileRecord{
					ProfileID: profileID,
					Key:       k,
					Value:     v,
					UpdatedAt: now,
				})
			}
			err := tx.Clauses(clause.OnConflict{
				Columns:   []clause.Column{{Name: "profile_id"}, {Name: "record_key"}},
				DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
			}).Create(&records).Error
			if err != nil {
				return fmt.Errorf("upsert profile records: %w", err)
			}
		}
		if len(remove) > 0 {
			err := tx.Where("profile_id = ? AND record_key IN ?", profileID, remove).
				Delete(&model.ProfileRecord{}).Error
			if err != nil {
				return fmt.Errorf("delete profile records: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		logger.Error("Failed to save profile records to database", err, map[string]interface{}{
			"profile_id": profileID,
			"set":        len(set),
			"remove":     len(remove),
		})
		return err
	}
	return nil
}

// PurgeStale deletes every profile whose newest record is older than maxIdle
// and reports the number of rows removed.
func (b *GormBackend) PurgeStale(ctx context.Context, maxIdle time.Duration) (int64, error) {
	cutoff := b.now().UTC().Add(-maxIdle)

	stale := b.db.Model(&model.ProfileRecord{}).
		Select("profile_id").
		Group("profile_id").
		Having("MAX(updated_at) < ?", cutoff)

	result := b.db.WithContext(ctx).
		Where("profile_id IN (?)", stale).
		Delete(&model.ProfileRecord{})
	if result.Error != nil {
		logger.Error("Failed to purge stale profiles", result.Error, map[string]interface{}{
			"cutoff": cutoff,
		})
		return 0, result.Error
	}
	return result.RowsAffected, nil
}
