package tasks

import (
	"time"

	"github.com/hibiken/asynq"
)

const (
	TypeRoomReconcile = "rooms:reconcile"
	QueueMaintenance  = "maintenance"
)

// NewReconcileTask builds the periodic room status sweep. Runs that miss
// their slot are dropped rather than retried; the next tick covers them.
func NewReconcileTask(interval time.Duration) (*asynq.Task, []asynq.Option) {
	task := asynq.NewTask(TypeRoomReconcile, nil)
	opts := []asynq.Option{
		asynq.Queue(QueueMaintenance),
		asynq.MaxRetry(0),
		asynq.Timeout(interval),
		asynq.Unique(interval),
	}
	return task, opts
}
