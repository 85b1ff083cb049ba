package workers

import (
	"context"
	"time"

	"newsroom_backend/internal/logger"
	"newsroom_backend/internal/services"
)

// CleanupWorker removes old read notifications on a schedule so the
// notifications table does not grow without bound.
type CleanupWorker struct {
	notificationSvc services.NotificationService
	retentionDays   int
	interval        time.Duration
}

func NewCleanupWorker(notificationSvc services.NotificationService, retentionDays int, interval time.Duration) *CleanupWorker {
	return &CleanupWorker{
		notificationSvc: notificationSvc,
		retentionDays:   retentionDays,
		interval:        interval,
	}
}

// Start launches the background cleanup loop.
func (w *CleanupWorker) Start(ctx context.Context) {
	go w.run(ctx)
}

func (w *CleanupWorker) run(ctx context.Context) {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			logger.Info("notification cleanup worker stopped")
			return
		case <-ticker.C:
			removed, err := w.notificationSvc.CleanupOld(w.retentionDays)
			logger.WorkerLog("notification_cleanup", "delete_old_read", err)
			if err == nil && removed > 0 {
				logger.Info("removed old read notifications",
					"count", removed, "retention_days", w.retentionDays)
			}
		}
	}
}
