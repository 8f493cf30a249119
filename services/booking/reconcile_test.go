package booking

import (
	"context"
	"testing"
	"time"

	"hotelops/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReconcileRoomStatuses(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.orch.Reserve(ctx, request("r1", "2026-03-02T14:00:00Z", "2026-03-04T10:00:00Z"))
	require.NoError(t, err)
	cancelled, err := f.orch.Reserve(ctx, request("r2", "2026-03-02T14:00:00Z", "2026-03-04T10:00:00Z"))
	require.NoError(t, err)
	_, err = f.orch.Cancel(ctx, cancelled.Reservation.ID)
	require.NoError(t, err)

	changed, err := f.orch.ReconcileRoomStatuses(ctx)
	require.NoError(t, err)
	assert.Zero(t, changed, "no stay has started yet")

	f.orch.Now = func() time.Time { return time.Date(2026, 3, 2, 15, 0, 0, 0, time.UTC) }
	changed, err = f.orch.ReconcileRoomStatuses(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, changed)

	r1, err := f.repos.Rooms.GetByID(ctx, "r1")
	require.NoError(t, err)
	assert.Equal(t, models.RoomOccupied, r1.Status)
	r2, err := f.repos.Rooms.GetByID(ctx, "r2")
	require.NoError(t, err)
	assert.Equal(t, models.RoomAvailable, r2.Status, "cancelled stays do not occupy a room")

	changed, err = f.orch.ReconcileRoomStatuses(ctx)
	require.NoError(t, err)
	assert.Zero(t, changed)
}

func TestReconcileRoomStatuses_ReleasesEndedStays(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.orch.Reserve(ctx, request("r1", "2026-03-01T08:00:00Z", "2026-03-01T11:00:00Z"))
	require.NoError(t, err)
	r1, err := f.repos.Rooms.GetByID(ctx, "r1")
	require.NoError(t, err)
	require.Equal(t, models.RoomOccupied, r1.Status)

	f.orch.Now = func() time.Time { return time.Date(2026, 3, 1, 15, 0, 0, 0, time.UTC) }
	changed, err := f.orch.ReconcileRoomStatuses(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, changed)

	r1, err = f.repos.Rooms.GetByID(ctx, "r1")
	require.NoError(t, err)
	assert.Equal(t, models.RoomAvailable, r1.Status)

	_, err = f.orch.Reserve(ctx, request("r1", "2026-03-01T15:00:00Z", "2026-03-02T10:00:00Z"))
	require.NoError(t, err, "a stay starting now can take the released room")
}

func TestReconcileRoomStatuses_KeepsOverstayingGuest(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	res, err := f.orch.Reserve(ctx, request("r1", "2026-03-01T08:00:00Z", "2026-03-01T11:00:00Z"))
	require.NoError(t, err)
	_, err = f.orch.CheckIn(ctx, res.Reservation.ID)
	require.NoError(t, err)

	f.orch.Now = func() time.Time { return time.Date(2026, 3, 1, 15, 0, 0, 0, time.UTC) }
	changed, err := f.orch.ReconcileRoomStatuses(ctx)
	require.NoError(t, err)
	assert.Zero(t, changed)

	r1, err := f.repos.Rooms.GetByID(ctx, "r1")
	require.NoError(t, err)
	assert.Equal(t, models.RoomOccupied, r1.Status, "the guest has not checked out")
}
