package billing

import (
	"context"
	"errors"
	"fmt"
	"time"

	"hotelops/database"
	billingRepo "hotelops/database/repository/billing"
	"hotelops/models"
)

var (
	ErrBillingNotFound = errors.New("billing not found")
	ErrAlreadyPaid     = errors.New("billing already paid")
)

type BillingService interface {
	// CreateForReservation issues the invoice of a reservation. The total is the
	// sum of charges when any are given, otherwise totalAmount as a single line.
	CreateForReservation(ctx context.Context, id models.BillingID, reservationID models.ReservationID, guestID models.GuestID, charges []models.Charge, totalAmount float64) (*models.Billing, error)
	MarkPaid(ctx context.Context, id models.BillingID, paidAt time.Time) (*models.Billing, error)
	GetByID(ctx context.Context, id models.BillingID) (*models.Billing, error)
}

type DefaultBillingService struct {
	Repo billingRepo.BillingRepository
	Txn  database.Transactor
	// TxnTimeout bounds MarkPaid's transaction, driver retries included.
	TxnTimeout time.Duration
}

func NewDefaultBillingService(repo billingRepo.BillingRepository, txn database.Transactor) *DefaultBillingService {
	return &DefaultBillingService{Repo: repo, Txn: txn, TxnTimeout: 10 * time.Second}
}

func (s *DefaultBillingService) CreateForReservation(
	ctx context.Context,
	id models.BillingID,
	reservationID models.ReservationID,
	guestID models.GuestID,
	charges []models.Charge,
	totalAmount float64,
) (*models.Billing, error) {
	total := totalAmount
	if len(charges) > 0 {
		total = models.ChargesTotal(charges)
	} else {
		charges = []models.Charge{{Description: "Room reservation", Amount: totalAmount}}
	}

	bill := &models.Billing{
		ID:          id,
		Reservation: reservationID,
		Guest:       guestID,
		Charges:     charges,
		Total:       total,
		Status:      models.BillingUnpaid,
		IssuedAt:    time.Now().UTC(),
	}
	if err := s.Repo.Insert(ctx, bill); err != nil {
		return nil, fmt.Errorf("failed to create billing for reservation %s: %w", reservationID, err)
	}
	return bill, nil
}

// MarkPaid settles an unpaid invoice. Paying twice is rejected so the first
// paidAt is kept.
func (s *DefaultBillingService) MarkPaid(ctx context.Context, id models.BillingID, paidAt time.Time) (*models.Billing, error) {
	if s.TxnTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.TxnTimeout)
		defer cancel()
	}

	var out *models.Billing
	err := s.Txn.WithTransaction(ctx, func(ctx context.Context) error {
		bill, err := s.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if bill.Status == models.BillingPaid {
			return fmt.Errorf("%w: %s", ErrAlreadyPaid, id)
		}
		if err := s.Repo.MarkPaid(ctx, id, paidAt); err != nil {
			return err
		}
		bill.Status = models.BillingPaid
		bill.PaidAt = &paidAt
		out = bill
		return nil
	})
	return out, err
}

func (s *DefaultBillingService) GetByID(ctx context.Context, id models.BillingID) (*models.Billing, error) {
	bill, err := s.Repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return nil, fmt.Errorf("%w: %s", ErrBillingNotFound, id)
		}
		return nil, err
	}
	return bill, nil
}
