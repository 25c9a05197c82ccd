package logging

import (
	"context"
	"log/slog"
	"time"

	"github.com/ahmetcoskunkizilkaya/stockroom/internal/models"
	"gorm.io/gorm"
)

// PurgeLogs deletes system_logs recorded before cutoff.
func PurgeLogs(ctx context.Context, db *gorm.DB, cutoff time.Time) (int64, error) {
	result := db.WithContext(ctx).Where("timestamp < ?", cutoff).Delete(&models.SystemLog{})
	return result.RowsAffected, result.Error
}

// StartCleanup keeps retainDays of system_logs, checking once a day until done is closed.
func StartCleanup(db *gorm.DB, retainDays int, done chan struct{}) {
	go func() {
		ticker := time.NewTicker(24 * time.Hour)
		defer ticker.Stop()
		for {
			select {
			case <-done:
				return
			case now := <-ticker.C:
				n, err := PurgeLogs(context.Background(), db, now.AddDate(0, 0, -retainDays))
				if err != nil {
					slog.Error("log cleanup failed", "action", "logging.cleanup", "error", err)
					continue
				}
				if n > 0 {
					slog.Info("old system logs removed", "deleted", n, "retain_days", retainDays)
				}
			}
		}
	}()
}
