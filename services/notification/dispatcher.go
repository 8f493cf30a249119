package notification

import (
	"context"
	"errors"
	"fmt"

	"hotelops/models"
	"hotelops/services/tasks"

	"github.com/hibiken/asynq"
)

// Dispatcher hands a booking confirmation to the delivery pipeline. A nil
// error means the confirmation was accepted, not that it was delivered.
type Dispatcher interface {
	DispatchConfirmation(ctx context.Context, payload models.ConfirmationPayload) error
}

// TaskEnqueuer is the subset of *asynq.Client used here.
type TaskEnqueuer interface {
	EnqueueContext(ctx context.Context, task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error)
}

// AsynqDispatcher enqueues confirmations for the notification worker.
type AsynqDispatcher struct {
	client TaskEnqueuer
}

func NewAsynqDispatcher(client TaskEnqueuer) *AsynqDispatcher {
	return &AsynqDispatcher{client: client}
}

func (d *AsynqDispatcher) DispatchConfirmation(ctx context.Context, payload models.ConfirmationPayload) error {
	task, opts, err := tasks.NewConfirmationTask(payload)
	if err != nil {
		return fmt.Errorf("failed to build confirmation task: %w", err)
	}
	if _, err := d.client.EnqueueContext(ctx, task, opts...); err != nil {
		if errors.Is(err, asynq.ErrTaskIDConflict) {
			return nil
		}
		return fmt.Errorf("failed to enqueue confirmation for %s: %w", payload.ReservationID, err)
	}
	return nil
}

// InlineDispatcher delivers synchronously. It is used when no Redis queue is
// configured.
type InlineDispatcher struct {
	Handler *ConfirmationHandler
}

func (d *InlineDispatcher) DispatchConfirmation(ctx context.Context, payload models.ConfirmationPayload) error {
	return d.Handler.Handle(ctx, payload)
}
