package guest

import (
	"context"
	"errors"
	"fmt"

	"hotelops/database"
	"hotelops/models"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

var (
	ErrGuestNotFound   = errors.New("guest not found")
	ErrDuplicateGuest  = errors.New("guest with this username or email already exists")
	ErrMissingIdentity = errors.New("guest name or email is required")
)

func (s *DefaultGuestService) GetByID(ctx context.Context, id models.GuestID) (*models.Guest, error) {
	g, err := s.Repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return nil, fmt.Errorf("%w: %s", ErrGuestNotFound, id)
		}
		return nil, err
	}
	return g, nil
}

// CreateAdHoc never retries on a username collision: the derived name is
// deterministic, so the caller is told to pass guestId instead.
func (s *DefaultGuestService) CreateAdHoc(ctx context.Context, identity models.GuestIdentity) (*models.Guest, *models.Credentials, error) {
	username := DeriveUsername(identity)
	if username == "" {
		return nil, nil, ErrMissingIdentity
	}

	password, err := TemporaryPassword()
	if err != nil {
		return nil, nil, err
	}
	cost := s.HashCost
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to hash temporary password: %w", err)
	}

	g := &models.Guest{
		ID:           models.GuestID(uuid.New().String()),
		Username:     username,
		PasswordHash: string(hash),
		Role:         models.RoleGuest,
		Status:       models.GuestActive,
		Profile: models.Profile{
			Name:      identity.FullName(),
			FirstName: identity.FirstName,
			LastName:  identity.LastName,
			Contact:   models.Contact{Email: identity.Email, Phone: identity.Phone},
			City:      identity.City,
			Country:   identity.Country,
		},
	}
	if err := s.Repo.Create(ctx, g); err != nil {
		if errors.Is(err, database.ErrDuplicateKey) {
			return nil, nil, fmt.Errorf("%w: %s", ErrDuplicateGuest, username)
		}
		return nil, nil, err
	}
	return g, &models.Credentials{Username: username, Password: password}, nil
}
