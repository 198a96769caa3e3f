package reconcile

import (
	"context"

	"github.com/code-100-precent/LingSync/internal/models"
	"gorm.io/gorm"
)

// ActivityLogger records audit entries for executed syncs
type ActivityLogger interface {
	LogActivity(ctx context.Context, action, description string) error
}

// DBActivityLogger appends entries to the activity_logs table
type DBActivityLogger struct {
	db *gorm.DB
}

func NewDBActivityLogger(db *gorm.DB) *DBActivityLogger {
	return &DBActivityLogger{db: db}
}

func (l *DBActivityLogger) LogActivity(ctx context.Context, action, description string) error {
	_, err := models.CreateActivityLog(l.db.WithContext(ctx), action, &description)
	return err
}
