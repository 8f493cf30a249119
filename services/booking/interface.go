package booking

import (
	"context"
	"time"

	"hotelops/database"
	"hotelops/database/repository"
	"hotelops/models"
	"hotelops/services/billing"
	"hotelops/services/guest"
	"hotelops/services/notification"

	"go.uber.org/zap"
)

// BookingService is the reservation-booking core.
type BookingService interface {
	Reserve(ctx context.Context, req models.ReservationRequest) (*models.ReservationResult, error)
	GetReservation(ctx context.Context, id models.ReservationID) (*models.Reservation, error)
	UpdateStatus(ctx context.Context, id models.ReservationID, status models.ReservationStatus) (*models.Reservation, error)
	Cancel(ctx context.Context, id models.ReservationID) (*models.Reservation, error)
	CheckIn(ctx context.Context, id models.ReservationID) (*models.Reservation, error)
	CheckOut(ctx context.Context, id models.ReservationID) (*models.Reservation, error)
	GuestReservations(ctx context.Context, id models.GuestID) ([]models.Reservation, error)
	AvailableRooms(ctx context.Context, from, to string) ([]models.Room, error)
}

type Options struct {
	TxnTimeout    time.Duration
	NotifyTimeout time.Duration
}

// Orchestrator implements BookingService. Every write it makes happens inside
// one Transactor call.
type Orchestrator struct {
	Rooms        repository.RoomRepository
	Reservations repository.ReservationRepository
	Guests       guest.GuestService
	Billing      billing.BillingService
	Txn          database.Transactor
	Dispatcher   notification.Dispatcher
	Logger       *zap.Logger
	Opts         Options

	// Now is the clock used for room readiness; tests pin it.
	Now func() time.Time
}

func NewOrchestrator(
	repos *repository.Set,
	txn database.Transactor,
	guests guest.GuestService,
	bills billing.BillingService,
	dispatcher notification.Dispatcher,
	logger *zap.Logger,
	opts Options,
) *Orchestrator {
	if opts.TxnTimeout <= 0 {
		opts.TxnTimeout = 10 * time.Second
	}
	if opts.NotifyTimeout <= 0 {
		opts.NotifyTimeout = 3 * time.Second
	}
	return &Orchestrator{
		Rooms:        repos.Rooms,
		Reservations: repos.Reservations,
		Guests:       guests,
		Billing:      bills,
		Txn:          txn,
		Dispatcher:   dispatcher,
		Logger:       logger,
		Opts:         opts,
		Now:          time.Now,
	}
}

func (o *Orchestrator) now() time.Time {
	return o.Now().UTC()
}
