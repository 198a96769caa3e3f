package models

import (
	"time"

	"github.com/code-100-precent/LingSync/pkg/elevenlabs"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ElevenLabsAgent is a provider agent merged into local storage. AgentID is the natural key.
type ElevenLabsAgent struct {
	ID        uint       `json:"id" gorm:"primaryKey"`
	AgentID   string     `json:"agentId" gorm:"size:191;uniqueIndex;not null"`
	Name      *string    `json:"name" gorm:"size:255"`
	VoiceID   *string    `json:"voiceId" gorm:"size:191"`
	CreatedAt time.Time  `json:"createdAt" gorm:"autoCreateTime"`
	UpdatedAt time.Time  `json:"updatedAt" gorm:"autoUpdateTime;index"`
	DeletedAt *time.Time `json:"deletedAt" gorm:"index"`
}

func (ElevenLabsAgent) TableName() string {
	return "elevenlabs_agents"
}

// UpsertAgents merges agents keyed on agent_id in one statement.
// Collisions overwrite name and voice, refresh updated_at and clear deleted_at.
func UpsertAgents(db *gorm.DB, agents []elevenlabs.Agent) error {
	if len(agents) == 0 {
		return nil
	}

	rows := make([]ElevenLabsAgent, 0, len(agents))
	for _, a := range agents {
		rows = append(rows, ElevenLabsAgent{
			AgentID: a.AgentID,
			Name:    a.Name,
			VoiceID: a.VoiceID,
		})
	}

	updates := append(clause.AssignmentColumns([]string{"name", "voice_id", "updated_at"}),
		clause.Assignment{Column: clause.Column{Name: "deleted_at"}, Value: nil})

	return db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "agent_id"}},
		DoUpdates: updates,
	}).Create(&rows).Error
}

// CountActiveAgents counts agents without a deletion mark
func CountActiveAgents(db *gorm.DB) (int64, error) {
	var total int64
	err := db.Model(&ElevenLabsAgent{}).Scopes(notDeleted).Count(&total).Error
	return total, err
}

// ListAgents returns every non-deleted agent, most recently merged first
func ListAgents(db *gorm.DB) ([]ElevenLabsAgent, error) {
	agents := make([]ElevenLabsAgent, 0)
	err := db.Scopes(notDeleted).
		Order("updated_at DESC").
		Order("id DESC").
		Find(&agents).Error
	return agents, err
}
