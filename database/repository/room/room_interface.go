package roomRepo

import (
	"context"
	"time"

	"hotelops/models"
)

// RoomRepository defines methods for room data access.
type RoomRepository interface {
	// GetByID retrieves a room by its unique ID.
	GetByID(ctx context.Context, id models.RoomID) (*models.Room, error)
	// GetForUpdate retrieves a room and takes its write lock for the
	// transaction carried by ctx.
	GetForUpdate(ctx context.Context, id models.RoomID) (*models.Room, error)
	// SetStatus changes the housekeeping status of a room.
	SetStatus(ctx context.Context, id models.RoomID, status models.RoomStatus) error
	// SetAvailability records the most recently booked window on the room.
	SetAvailability(ctx context.Context, id models.RoomID, from, to time.Time) error
	// Create inserts a new room record.
	Create(ctx context.Context, room *models.Room) error
	// List retrieves all rooms ordered by room number.
	List(ctx context.Context) ([]models.Room, error)
}
