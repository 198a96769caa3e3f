package models

import (
	"time"

	"github.com/code-100-precent/LingSync/pkg/elevenlabs"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ElevenLabsConversation is a provider conversation merged into local storage.
// Metadata keeps the full raw record as received.
type ElevenLabsConversation struct {
	ID             uint           `json:"id" gorm:"primaryKey"`
	ConversationID string         `json:"conversationId" gorm:"size:191;uniqueIndex;not null"`
	AgentID        string         `json:"agentId" gorm:"size:191;index;not null"`
	UserID         *string        `json:"userId" gorm:"size:191"`
	StartedAt      *time.Time     `json:"startedAt" gorm:"index"`
	EndedAt        *time.Time     `json:"endedAt"`
	Metadata       datatypes.JSON `json:"metadata"`
	CreatedAt      time.Time      `json:"createdAt" gorm:"autoCreateTime"`
	UpdatedAt      time.Time      `json:"updatedAt" gorm:"autoUpdateTime"`
	DeletedAt      *time.Time     `json:"deletedAt" gorm:"index"`
}

func (ElevenLabsConversation) TableName() string {
	return "elevenlabs_conversations"
}

// ConversationFilter narrows the conversations view
type ConversationFilter struct {
	AgentID string
}

// UpsertConversations merges conversations keyed on conversation_id in one statement.
// user_id is always written as null.
func UpsertConversations(db *gorm.DB, convs []elevenlabs.Conversation) error {
	if len(convs) == 0 {
		return nil
	}

	rows := make([]ElevenLabsConversation, 0, len(convs))
	for _, c := range convs {
		metadata, err := c.Metadata()
		if err != nil {
			return err
		}
		rows = append(rows, ElevenLabsConversation{
			ConversationID: c.ConversationID,
			AgentID:        c.AgentID,
			StartedAt:      elevenlabs.ParseTimestamp(c.StartedAt),
			EndedAt:        elevenlabs.ParseTimestamp(c.EndedAt),
			Metadata:       datatypes.JSON(metadata),
		})
	}

	updates := append(clause.AssignmentColumns([]string{
		"agent_id", "user_id", "started_at", "ended_at", "metadata", "updated_at",
	}), clause.Assignment{Column: clause.Column{Name: "deleted_at"}, Value: nil})

	return db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "conversation_id"}},
		DoUpdates: updates,
	}).Create(&rows).Error
}

// CountActiveConversations counts conversations without a deletion mark
func CountActiveConversations(db *gorm.DB) (int64, error) {
	var total int64
	err := db.Model(&ElevenLabsConversation{}).Scopes(notDeleted).Count(&total).Error
	return total, err
}

// ListConversations returns one page of non-deleted conversations and the total matching the filter.
// Rows are ordered by started_at (nulls last), then created_at, then id, all descending.
func ListConversations(db *gorm.DB, filter ConversationFilter, p Pagination) ([]ElevenLabsConversation, int64, error) {
	query := db.Model(&ElevenLabsConversation{}).Scopes(notDeleted)
	if filter.AgentID != "" {
		query = query.Where("agent_id = ?", filter.AgentID)
	}

	var total int64
	if err := query.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	convs := make([]ElevenLabsConversation, 0, p.Limit)
	err := query.Session(&gorm.Session{}).
		Order("CASE WHEN started_at IS NULL THEN 1 ELSE 0 END").
		Order("started_at DESC").
		Order("created_at DESC").
		Order("id DESC").
		Scopes(paginate(p)).
		Find(&convs).Error
	if err != nil {
		return nil, 0, err
	}
	return convs, total, nil
}
