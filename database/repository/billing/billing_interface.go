package billingRepo

import (
	"context"
	"time"

	"hotelops/models"
)

// BillingRepository is the billing ledger.
type BillingRepository interface {
	Insert(ctx context.Context, bill *models.Billing) error
	GetByID(ctx context.Context, id models.BillingID) (*models.Billing, error)
	GetByReservation(ctx context.Context, id models.ReservationID) (*models.Billing, error)
	// MarkPaid sets status paid and records paidAt.
	MarkPaid(ctx context.Context, id models.BillingID, paidAt time.Time) error
}
