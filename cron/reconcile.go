package cron

import (
	"context"
	"fmt"
	"time"

	"hotelops/services/tasks"

	"github.com/hibiken/asynq"
	"go.uber.org/zap"
)

// NewReconcileScheduler enqueues the room status sweep every interval.
func NewReconcileScheduler(redisOpt asynq.RedisClientOpt, interval time.Duration, logger *zap.Logger) (*asynq.Scheduler, error) {
	scheduler := asynq.NewScheduler(redisOpt, &asynq.SchedulerOpts{
		Location: time.UTC,
		Logger:   logger.Sugar(),
		EnqueueErrorHandler: func(task *asynq.Task, _ []asynq.Option, err error) {
			logger.Warn("Failed to schedule task", zap.String("type", task.Type()), zap.Error(err))
		},
	})

	task, opts := tasks.NewReconcileTask(interval)
	if _, err := scheduler.Register(fmt.Sprintf("@every %s", interval), task, opts...); err != nil {
		return nil, fmt.Errorf("failed to register %s: %w", tasks.TypeRoomReconcile, err)
	}
	return scheduler, nil
}

// RunReconcileTicker sweeps room statuses in-process until ctx is done. It is
// used when no Redis queue is configured.
func RunReconcileTicker(ctx context.Context, r RoomReconciler, interval time.Duration, logger *zap.Logger) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if _, err := r.ReconcileRoomStatuses(ctx); err != nil && ctx.Err() == nil {
				logger.Warn("Room reconcile failed", zap.Error(err))
			}
		}
	}
}
