package tasks

import (
	"encoding/json"
	"fmt"
	"time"

	"hotelops/models"

	"github.com/hibiken/asynq"
)

const (
	TypeBookingConfirmation = "booking:confirmation"
	QueueNotifications      = "notifications"
)

// NewConfirmationTask wraps a committed booking for the notification worker.
// The reservation id doubles as the task id so a replayed hand-off is dropped
// by asynq instead of notifying twice.
func NewConfirmationTask(payload models.ConfirmationPayload) (*asynq.Task, []asynq.Option, error) {
	b, err := json.Marshal(payload)
	if err != nil {
		return nil, nil, err
	}
	task := asynq.NewTask(TypeBookingConfirmation, b)
	opts := []asynq.Option{
		asynq.Queue(QueueNotifications),
		asynq.TaskID("confirmation:" + string(payload.ReservationID)),
		asynq.MaxRetry(5),
		asynq.Timeout(30 * time.Second),
		asynq.Retention(24 * time.Hour),
	}
	return task, opts, nil
}

func ParseConfirmationTask(task *asynq.Task) (models.ConfirmationPayload, error) {
	var p models.ConfirmationPayload
	if err := json.Unmarshal(task.Payload(), &p); err != nil {
		return p, fmt.Errorf("invalid %s payload: %w", TypeBookingConfirmation, err)
	}
	return p, nil
}
