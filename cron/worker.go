package cron

import (
	"context"
	"fmt"
	"time"

	"hotelops/services/notification"
	"hotelops/services/tasks"

	"github.com/hibiken/asynq"
	"go.uber.org/zap"
)

// RoomReconciler is satisfied by *booking.Orchestrator.
type RoomReconciler interface {
	ReconcileRoomStatuses(ctx context.Context) (int, error)
}

// Worker consumes the notification and maintenance queues.
type Worker struct {
	server *asynq.Server
	mux    *asynq.ServeMux
	logger *zap.Logger
}

func NewWorker(redisOpt asynq.RedisClientOpt, concurrency int, confirmations *notification.ConfirmationHandler, reconciler RoomReconciler, logger *zap.Logger) *Worker {
	srv := asynq.NewServer(
		redisOpt,
		asynq.Config{
			Concurrency: concurrency,
			Queues: map[string]int{
				tasks.QueueNotifications: 6,
				tasks.QueueMaintenance:   1,
			},
			Logger: logger.Sugar(),
			ErrorHandler: asynq.ErrorHandlerFunc(func(ctx context.Context, task *asynq.Task, err error) {
				retried, _ := asynq.GetRetryCount(ctx)
				maxRetry, _ := asynq.GetMaxRetry(ctx)
				logger.Warn("Task failed",
					zap.String("type", task.Type()),
					zap.Int("retry", retried),
					zap.Int("maxRetry", maxRetry),
					zap.Error(err),
				)
			}),
		},
	)

	mux := asynq.NewServeMux()
	mux.HandleFunc(tasks.TypeBookingConfirmation, handleConfirmationTask(confirmations, logger))
	mux.HandleFunc(tasks.TypeRoomReconcile, handleReconcileTask(reconciler))

	return &Worker{server: srv, mux: mux, logger: logger}
}

// Start runs the worker in the background, retrying startup with a growing
// delay while Redis is unreachable.
func (w *Worker) Start() {
	go func() {
		w.logger.Info("Starting task worker")
		const maxAttempts = 5

		for attempts := 1; attempts <= maxAttempts; attempts++ {
			err := w.server.Start(w.mux)
			if err == nil {
				return
			}
			w.logger.Error("Task worker failed to start",
				zap.Int("attempt", attempts),
				zap.Int("maxAttempts", maxAttempts),
				zap.Error(err),
			)
			if attempts == maxAttempts {
				w.logger.Error("Task worker gave up; confirmations stay queued")
				return
			}
			time.Sleep(time.Duration(attempts*2) * time.Second)
		}
	}()
}

func (w *Worker) Shutdown() {
	w.server.Shutdown()
}

func handleConfirmationTask(h *notification.ConfirmationHandler, logger *zap.Logger) asynq.HandlerFunc {
	return func(ctx context.Context, task *asynq.Task) error {
		p, err := tasks.ParseConfirmationTask(task)
		if err != nil {
			return fmt.Errorf("%w: %w", err, asynq.SkipRetry)
		}

		logger.Debug("Delivering confirmation",
			zap.String("reservationId", string(p.ReservationID)),
			zap.String("guestId", string(p.GuestID)),
		)
		return h.Handle(ctx, p)
	}
}

func handleReconcileTask(r RoomReconciler) asynq.HandlerFunc {
	return func(ctx context.Context, _ *asynq.Task) error {
		_, err := r.ReconcileRoomStatuses(ctx)
		return err
	}
}
