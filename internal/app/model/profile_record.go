package model

import "time"

// ProfileRecord is one persisted key of one profile (postgres driver).
type ProfileRecord struct {
	ID        uint      `gorm:"primarykey" json:"-"`
	ProfileID string    `gorm:"size:64;not null;uniqueIndex:idx_profile_records_profile_key" json:"profile_id"`
	Key       string    `gorm:"column:record_key;size:64;not null;uniqueIndex:idx_profile_records_profile_key" json:"key"`
	Value     string    `gorm:"type:text;not null" json:"value"`
	UpdatedAt time.Time `gorm:"index" json:"updated_at"`
}

func (ProfileRecord) TableName() string {
	return "profile_records"
}
