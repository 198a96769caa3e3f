package models

import (
	"time"

	"gorm.io/gorm"
)

const ActionSyncTriggered = "ElevenLabs sync triggered"

// ActivityLog is an append-only audit entry
type ActivityLog struct {
	ID          uint      `json:"id" gorm:"primaryKey"`
	Action      string    `json:"action" gorm:"size:255;not null;index"`
	Description *string   `json:"description" gorm:"type:text"`
	CreatedAt   time.Time `json:"createdAt" gorm:"autoCreateTime;index"`
}

func CreateActivityLog(db *gorm.DB, action string, description *string) (*ActivityLog, error) {
	entry := ActivityLog{Action: action, Description: description}
	if err := db.Create(&entry).Error; err != nil {
		return nil, err
	}
	return &entry, nil
}

// ListActivityLogs returns one page of entries, newest first
func ListActivityLogs(db *gorm.DB, p Pagination) ([]ActivityLog, int64, error) {
	var total int64
	if err := db.Model(&ActivityLog{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	logs := make([]ActivityLog, 0, p.Limit)
	err := db.Order("created_at DESC").
		Order("id DESC").
		Scopes(paginate(p)).
		Find(&logs).Error
	if err != nil {
		return nil, 0, err
	}
	return logs, total, nil
}
