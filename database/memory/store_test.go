package memory

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"hotelops/database"
	"hotelops/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedRoom(t *testing.T, s *Store, id models.RoomID, number string) {
	t.Helper()
	require.NoError(t, s.Repositories().Rooms.Create(context.Background(), &models.Room{
		ID: id, RoomNumber: number, Type: "double", Price: 120,
	}))
}

func TestWithTransaction_RollsBackOnError(t *testing.T) {
	s := New()
	seedRoom(t, s, "r1", "101")
	repos := s.Repositories()
	boom := errors.New("boom")

	err := s.WithTransaction(context.Background(), func(ctx context.Context) error {
		require.NoError(t, repos.Rooms.SetStatus(ctx, "r1", models.RoomOccupied))
		require.NoError(t, repos.Reservations.Insert(ctx, &models.Reservation{ID: "res1", Room: "r1"}))
		return boom
	})
	require.ErrorIs(t, err, boom)

	room, err := repos.Rooms.GetByID(context.Background(), "r1")
	require.NoError(t, err)
	assert.Equal(t, models.RoomAvailable, room.Status)
	assert.Zero(t, s.Counts().Reservations)
}

func TestWithTransaction_RollsBackWhenContextEnds(t *testing.T) {
	s := New()
	seedRoom(t, s, "r1", "101")
	repos := s.Repositories()

	ctx, cancel := context.WithCancel(context.Background())
	err := s.WithTransaction(ctx, func(ctx context.Context) error {
		require.NoError(t, repos.Rooms.SetStatus(ctx, "r1", models.RoomCleaning))
		cancel()
		return nil
	})
	require.ErrorIs(t, err, context.Canceled)

	room, err := repos.Rooms.GetByID(context.Background(), "r1")
	require.NoError(t, err)
	assert.Equal(t, models.RoomAvailable, room.Status)
}

func TestWithTransaction_Commits(t *testing.T) {
	s := New()
	seedRoom(t, s, "r1", "101")
	repos := s.Repositories()

	err := s.WithTransaction(context.Background(), func(ctx context.Context) error {
		room, err := repos.Rooms.GetForUpdate(ctx, "r1")
		if err != nil {
			return err
		}
		assert.EqualValues(t, 1, room.LockVersion)
		return repos.Rooms.SetStatus(ctx, "r1", models.RoomOccupied)
	})
	require.NoError(t, err)

	room, err := repos.Rooms.GetByID(context.Background(), "r1")
	require.NoError(t, err)
	assert.Equal(t, models.RoomOccupied, room.Status)
}

func TestWithTransaction_WaitingCallerHonoursContext(t *testing.T) {
	s := New()
	release := make(chan struct{})
	started := make(chan struct{})

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		_ = s.WithTransaction(context.Background(), func(ctx context.Context) error {
			close(started)
			<-release
			return nil
		})
	}()
	<-started

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	err := s.WithTransaction(ctx, func(ctx context.Context) error { return nil })
	require.ErrorIs(t, err, context.DeadlineExceeded)

	close(release)
	wg.Wait()
}

func TestReservationRepo_FindOverlappingIsHalfOpen(t *testing.T) {
	s := New()
	repos := s.Repositories()
	ctx := context.Background()
	base := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)

	require.NoError(t, repos.Reservations.Insert(ctx, &models.Reservation{
		ID: "a", Room: "r1", CheckIn: base, CheckOut: base.Add(2 * time.Hour), Status: models.ReservationConfirmed,
	}))
	require.NoError(t, repos.Reservations.Insert(ctx, &models.Reservation{
		ID: "b", Room: "r1", CheckIn: base.Add(4 * time.Hour), CheckOut: base.Add(6 * time.Hour), Status: models.ReservationCancelled,
	}))

	tests := []struct {
		name     string
		from, to time.Time
		want     int
	}{
		{"touching end", base.Add(2 * time.Hour), base.Add(3 * time.Hour), 0},
		{"touching start", base.Add(-time.Hour), base, 0},
		{"partial", base.Add(time.Hour), base.Add(3 * time.Hour), 1},
		{"contains", base.Add(-time.Hour), base.Add(5 * time.Hour), 1},
		{"cancelled only", base.Add(4 * time.Hour), base.Add(5 * time.Hour), 0},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := repos.Reservations.FindOverlapping(ctx, "r1", tc.from, tc.to, models.InactiveStatuses)
			require.NoError(t, err)
			assert.Len(t, got, tc.want)
		})
	}

	booked, err := repos.Reservations.BookedRoomIDs(ctx, base, base.Add(time.Hour), models.InactiveStatuses)
	require.NoError(t, err)
	assert.Equal(t, []models.RoomID{"r1"}, booked)
}

func TestGuestRepo_UniqueKeys(t *testing.T) {
	s := New()
	repos := s.Repositories()
	ctx := context.Background()

	first := &models.Guest{ID: "g1", Username: "janedoe", Profile: models.Profile{Contact: models.Contact{Email: "jane@example.com"}}}
	require.NoError(t, repos.Guests.Create(ctx, first))

	err := repos.Guests.Create(ctx, &models.Guest{ID: "g2", Username: "janedoe"})
	assert.ErrorIs(t, err, database.ErrDuplicateKey)

	err = repos.Guests.Create(ctx, &models.Guest{ID: "g3", Username: "jd", Profile: models.Profile{Contact: models.Contact{Email: "jane@example.com"}}})
	assert.ErrorIs(t, err, database.ErrDuplicateKey)

	_, err = repos.Guests.GetByID(ctx, "missing")
	assert.ErrorIs(t, err, database.ErrNotFound)

	got, err := repos.Guests.GetByUsername(ctx, "janedoe")
	require.NoError(t, err)
	assert.Equal(t, models.GuestID("g1"), got.ID)
}

func TestReturnedDocumentsAreCopies(t *testing.T) {
	s := New()
	repos := s.Repositories()
	ctx := context.Background()

	require.NoError(t, repos.Billings.Insert(ctx, &models.Billing{
		ID: "b1", Reservation: "res1", Charges: []models.Charge{{Description: "room", Amount: 100}},
	}))
	got, err := repos.Billings.GetByID(ctx, "b1")
	require.NoError(t, err)
	got.Charges[0].Amount = 1

	again, err := repos.Billings.GetByReservation(ctx, "res1")
	require.NoError(t, err)
	assert.Equal(t, 100.0, again.Charges[0].Amount)
}
