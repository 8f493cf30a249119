package models

import "time"

type ReservationID string

type ReservationStatus string

const (
	ReservationConfirmed  ReservationStatus = "confirmed"
	ReservationCheckedIn  ReservationStatus = "checked-in"
	ReservationCheckedOut ReservationStatus = "checked-out"
	ReservationCancelled  ReservationStatus = "cancelled"
)

// ReleasedStatuses no longer block their interval for new bookings. A
// checked-out stay keeps its interval.
var ReleasedStatuses = []ReservationStatus{ReservationCancelled}

// InactiveStatuses no longer occupy the room.
var InactiveStatuses = []ReservationStatus{ReservationCancelled, ReservationCheckedOut}

// NotCheckedInStatuses are excluded when looking for guests still in a room.
var NotCheckedInStatuses = []ReservationStatus{ReservationConfirmed, ReservationCancelled, ReservationCheckedOut}

// Valid reports whether s is a known reservation status.
func (s ReservationStatus) Valid() bool {
	switch s {
	case ReservationConfirmed, ReservationCheckedIn, ReservationCheckedOut, ReservationCancelled:
		return true
	}
	return false
}

// CanTransitionTo lists the allowed status moves.
func (s ReservationStatus) CanTransitionTo(next ReservationStatus) bool {
	switch s {
	case ReservationConfirmed:
		return next == ReservationCheckedIn || next == ReservationCancelled
	case ReservationCheckedIn:
		return next == ReservationCheckedOut
	}
	return false
}

type ReservationService struct {
	ServiceName string  `bson:"serviceName" json:"serviceName"`
	Amount      float64 `bson:"amount" json:"amount" validate:"gte=0"`
}

// Reservation holds a room for a guest over [CheckIn, CheckOut).
type Reservation struct {
	ID              ReservationID        `bson:"id" json:"id"`
	Guest           GuestID              `bson:"guest" json:"guest"`
	Room            RoomID               `bson:"room" json:"room"`
	ReservationDate time.Time            `bson:"reservationDate" json:"reservationDate"`
	CheckIn         time.Time            `bson:"checkIn" json:"checkIn"`
	CheckOut        time.Time            `bson:"checkOut" json:"checkOut"`
	Status          ReservationStatus    `bson:"status" json:"status"`
	TotalAmount     float64              `bson:"totalAmount" json:"totalAmount"`
	Services        []ReservationService `bson:"services,omitempty" json:"services,omitempty"`
	Invoice         *BillingID           `bson:"invoice,omitempty" json:"invoice,omitempty"`
	UpdatedAt       time.Time            `bson:"updatedAt" json:"updatedAt"`
}

// Overlaps applies the half-open interval test: touching endpoints do not overlap.
func Overlaps(aIn, aOut, bIn, bOut time.Time) bool {
	return aIn.Before(bOut) && aOut.After(bIn)
}

// Active reports whether the reservation still holds its interval.
func (r *Reservation) Active() bool {
	return r.Status == ReservationConfirmed || r.Status == ReservationCheckedIn
}

// Covers reports whether t falls inside the stay.
func (r *Reservation) Covers(t time.Time) bool {
	return !t.Before(r.CheckIn) && t.Before(r.CheckOut)
}
