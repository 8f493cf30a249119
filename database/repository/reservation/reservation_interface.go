package reservationRepo

import (
	"context"
	"time"

	"hotelops/models"
)

// ReservationRepository is the reservation ledger.
type ReservationRepository interface {
	// Insert adds a new reservation.
	Insert(ctx context.Context, res *models.Reservation) error
	// GetByID retrieves a reservation by its unique ID.
	GetByID(ctx context.Context, id models.ReservationID) (*models.Reservation, error)
	// FindOverlapping returns the reservations on roomID whose [checkIn, checkOut)
	// intersects the given interval, ignoring the excluded statuses.
	FindOverlapping(ctx context.Context, roomID models.RoomID, checkIn, checkOut time.Time, exclude []models.ReservationStatus) ([]models.Reservation, error)
	// UpdateStatus moves a reservation to a new status.
	UpdateStatus(ctx context.Context, id models.ReservationID, status models.ReservationStatus) error
	// BookedRoomIDs lists the distinct rooms holding a reservation over [from, to).
	BookedRoomIDs(ctx context.Context, from, to time.Time, exclude []models.ReservationStatus) ([]models.RoomID, error)
	// ListByGuest returns a guest's reservations, most recent check-in first.
	ListByGuest(ctx context.Context, guestID models.GuestID) ([]models.Reservation, error)
}
