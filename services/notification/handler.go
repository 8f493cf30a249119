package notification

import (
	"context"
	"fmt"
	"strconv"
	"time"

	guestRepo "hotelops/database/repository/guest"
	notificationRepo "hotelops/database/repository/notification"
	"hotelops/models"

	"firebase.google.com/go/v4/messaging"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// PushSender is satisfied by *messaging.Client.
type PushSender interface {
	Send(ctx context.Context, message *messaging.Message) (string, error)
}

// ConfirmationHandler turns a confirmation into an in-app notification and,
// when the guest has a registered device, an FCM push.
type ConfirmationHandler struct {
	Notifications notificationRepo.NotificationRepository
	Guests        guestRepo.GuestRepository
	Push          PushSender
	Logger        *zap.Logger
}

// Handle stores the notification record. Push failures are logged and do not
// fail the task, so a retry never duplicates the stored record.
func (h *ConfirmationHandler) Handle(ctx context.Context, p models.ConfirmationPayload) error {
	title, body := confirmationText(p)
	n := &models.Notification{
		ID:        uuid.New().String(),
		User:      p.GuestID,
		Message:   body,
		Type:      models.NotificationBooking,
		Status:    models.NotificationUnread,
		Data:      confirmationData(p),
		CreatedAt: time.Now().UTC(),
	}
	if err := h.Notifications.Create(ctx, n); err != nil {
		return fmt.Errorf("failed to store confirmation for %s: %w", p.ReservationID, err)
	}

	if h.Push == nil {
		return nil
	}
	g, err := h.Guests.GetByID(ctx, p.GuestID)
	if err != nil || g.Profile.FCMToken == "" {
		return nil
	}

	msg := &messaging.Message{
		Token:        g.Profile.FCMToken,
		Notification: &messaging.Notification{Title: title, Body: body},
		Data:         n.Data,
		Android: &messaging.AndroidConfig{
			Priority: "high",
		},
	}
	if _, err := h.Push.Send(ctx, msg); err != nil {
		h.Logger.Warn("Confirmation push failed",
			zap.String("reservationId", string(p.ReservationID)),
			zap.Error(err),
		)
	}
	return nil
}

func confirmationText(p models.ConfirmationPayload) (string, string) {
	title := "Reservation confirmed"
	body := fmt.Sprintf("%s is booked from %s to %s. Total due: %.2f.",
		p.RoomSummary,
		p.CheckIn.Format("Jan 2, 2006 15:04"),
		p.CheckOut.Format("Jan 2, 2006 15:04"),
		p.TotalAmount,
	)
	if p.NewUsername != "" {
		body += fmt.Sprintf(" Sign in as %s with the temporary password issued at booking.", p.NewUsername)
	}
	return title, body
}

func confirmationData(p models.ConfirmationPayload) map[string]string {
	return map[string]string{
		"type":          models.NotificationBooking,
		"reservationId": string(p.ReservationID),
		"checkIn":       p.CheckIn.Format(time.RFC3339),
		"checkOut":      p.CheckOut.Format(time.RFC3339),
		"totalAmount":   strconv.FormatFloat(p.TotalAmount, 'f', 2, 64),
	}
}
