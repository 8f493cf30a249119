package guestRepo

import (
	"context"

	"hotelops/models"
)

// GuestRepository defines methods for guest data access. Username and contact
// email are unique; Create reports a violation as database.ErrDuplicateKey.
type GuestRepository interface {
	GetByID(ctx context.Context, id models.GuestID) (*models.Guest, error)
	GetByUsername(ctx context.Context, username string) (*models.Guest, error)
	Create(ctx context.Context, guest *models.Guest) error
}
