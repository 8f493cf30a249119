package guest

import (
	"context"

	guestRepo "hotelops/database/repository/guest"
	"hotelops/models"
)

type GuestService interface {
	GetByID(ctx context.Context, id models.GuestID) (*models.Guest, error)
	// CreateAdHoc provisions a walk-in guest with a generated username and a
	// temporary password. The plaintext password is only returned here.
	CreateAdHoc(ctx context.Context, identity models.GuestIdentity) (*models.Guest, *models.Credentials, error)
}

// DefaultGuestService is the production implementation.
type DefaultGuestService struct {
	Repo     guestRepo.GuestRepository
	HashCost int
}

func NewDefaultGuestService(repo guestRepo.GuestRepository) *DefaultGuestService {
	return &DefaultGuestService{Repo: repo}
}
