package logging

import (
	"log/slog"
	"time"

	"github.com/ahmetcoskunkizilkaya/officedesk/internal/models"
	"gorm.io/gorm"
)

// StartCleanup runs a daily goroutine that deletes system_logs older than retention.
func StartCleanup(db *gorm.DB, retention time.Duration, done chan struct{}) {
	go func() {
		ticker := time.NewTicker(24 * time.Hour)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				PurgeBefore(db, time.Now().Add(-retention))
			case <-done:
				return
			}
		}
	}()
}

// PurgeBefore removes system logs written before cutoff and returns how many went.
func PurgeBefore(db *gorm.DB, cutoff time.Time) int64 {
	result := db.Where("timestamp < ?", cutoff).Delete(&models.SystemLog{})
	if result.Error != nil {
		slog.Error("log cleanup failed", "error", result.Error)
		return 0
	}
	if result.RowsAffected > 0 {
		slog.Info("log cleanup completed", "deleted", result.RowsAffected)
	}
	return result.RowsAffected
}
