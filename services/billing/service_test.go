package billing

import (
	"context"
	"testing"
	"time"

	"hotelops/database/memory"
	"hotelops/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newService() *DefaultBillingService {
	store := memory.New()
	return NewDefaultBillingService(store.Repositories().Billings, store)
}

func TestCreateForReservation_Totals(t *testing.T) {
	svc := newService()
	ctx := context.Background()

	itemised, err := svc.CreateForReservation(ctx, "b1", "res1", "g1", []models.Charge{
		{Description: "Room", Amount: 200},
		{Description: "Breakfast", Amount: 25.5},
	}, 999)
	require.NoError(t, err)
	assert.Equal(t, 225.5, itemised.Total)
	assert.Equal(t, models.BillingUnpaid, itemised.Status)

	flat, err := svc.CreateForReservation(ctx, "b2", "res2", "g1", nil, 150)
	require.NoError(t, err)
	assert.Equal(t, 150.0, flat.Total)
	require.Len(t, flat.Charges, 1)
	assert.Equal(t, 150.0, flat.Charges[0].Amount)
}

func TestMarkPaid(t *testing.T) {
	svc := newService()
	ctx := context.Background()
	_, err := svc.CreateForReservation(ctx, "b1", "res1", "g1", nil, 100)
	require.NoError(t, err)

	paidAt := time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)
	bill, err := svc.MarkPaid(ctx, "b1", paidAt)
	require.NoError(t, err)
	assert.Equal(t, models.BillingPaid, bill.Status)
	require.NotNil(t, bill.PaidAt)
	assert.True(t, paidAt.Equal(*bill.PaidAt))

	_, err = svc.MarkPaid(ctx, "b1", paidAt.Add(time.Hour))
	assert.ErrorIs(t, err, ErrAlreadyPaid)

	stored, err := svc.GetByID(ctx, "b1")
	require.NoError(t, err)
	assert.True(t, paidAt.Equal(*stored.PaidAt))

	_, err = svc.MarkPaid(ctx, "missing", paidAt)
	assert.ErrorIs(t, err, ErrBillingNotFound)
}

type blockingTxn struct {
	deadline time.Time
}

func (b *blockingTxn) WithTransaction(ctx context.Context, _ func(ctx context.Context) error) error {
	b.deadline, _ = ctx.Deadline()
	<-ctx.Done()
	return ctx.Err()
}

func TestMarkPaid_BoundedByTxnTimeout(t *testing.T) {
	txn := &blockingTxn{}
	svc := NewDefaultBillingService(memory.New().Repositories().Billings, txn)
	svc.TxnTimeout = 20 * time.Millisecond

	start := time.Now()
	_, err := svc.MarkPaid(context.Background(), "b1", start)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.False(t, txn.deadline.IsZero())
	assert.Less(t, time.Since(start), time.Second)
}
