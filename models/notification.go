package models

import "time"

const (
	NotificationBooking     = "booking"
	NotificationMaintenance = "maintenance"
	NotificationGeneral     = "general"

	NotificationUnread = "unread"
	NotificationRead   = "read"
)

// Notification is an in-app message stored for a user.
type Notification struct {
	ID        string            `bson:"id" json:"id"`
	User      GuestID           `bson:"user" json:"user"`
	Message   string            `bson:"message" json:"message"`
	Type      string            `bson:"type" json:"type"`
	Status    string            `bson:"status" json:"status"`
	Data      map[string]string `bson:"data,omitempty" json:"data,omitempty"`
	CreatedAt time.Time         `bson:"createdAt" json:"createdAt"`
}

// ConfirmationPayload is handed to the notification dispatcher once a booking
// commits. It is queued and stored, so it never carries a password; an ad-hoc
// guest's temporary password is only returned in the booking response.
type ConfirmationPayload struct {
	ReservationID ReservationID `json:"reservationId"`
	GuestID       GuestID       `json:"guestId"`
	GuestName     string        `json:"guestName"`
	GuestContact  Contact       `json:"guestContact"`
	RoomSummary   string        `json:"roomSummary"`
	CheckIn       time.Time     `json:"checkIn"`
	CheckOut      time.Time     `json:"checkOut"`
	TotalAmount   float64       `json:"totalAmount"`
	NewUsername   string        `json:"newUsername,omitempty"`
}
