// Package memory is a process-local document store with the same semantics as
// the Mongo repositories. It backs tests and DATABASE_DRIVER=memory.
package memory

import (
	"context"

	"hotelops/database/repository"
	"hotelops/models"
)

type txKey struct{}

// Store holds every collection. All access goes through a single slot
// semaphore, so transactions are fully serialised and plain reads never see
// uncommitted writes.
type Store struct {
	sem chan struct{}

	rooms         map[models.RoomID]models.Room
	guests        map[models.GuestID]models.Guest
	reservations  map[models.ReservationID]models.Reservation
	billings      map[models.BillingID]models.Billing
	notifications []models.Notification
}

func New() *Store {
	return &Store{
		sem:          make(chan struct{}, 1),
		rooms:        make(map[models.RoomID]models.Room),
		guests:       make(map[models.GuestID]models.Guest),
		reservations: make(map[models.ReservationID]models.Reservation),
		billings:     make(map[models.BillingID]models.Billing),
	}
}

// Repositories returns the store's repositories as a set.
func (s *Store) Repositories() *repository.Set {
	return &repository.Set{
		Rooms:         &RoomRepo{s: s},
		Guests:        &GuestRepo{s: s},
		Reservations:  &ReservationRepo{s: s},
		Billings:      &BillingRepo{s: s},
		Notifications: &NotificationRepo{s: s},
	}
}

// WithTransaction implements database.Transactor. Writes made through the
// inner ctx are undone if fn fails or ctx ends before fn returns. Nested calls
// join the outer transaction.
func (s *Store) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	if s.inTx(ctx) {
		return fn(ctx)
	}
	if err := s.acquire(ctx); err != nil {
		return err
	}
	defer s.release()

	snap := s.snapshot()
	err := fn(context.WithValue(ctx, txKey{}, s))
	if err == nil {
		err = ctx.Err()
	}
	if err != nil {
		s.restore(snap)
		return err
	}
	return nil
}

func (s *Store) inTx(ctx context.Context) bool {
	owner, _ := ctx.Value(txKey{}).(*Store)
	return owner == s
}

func (s *Store) acquire(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	select {
	case s.sem <- struct{}{}:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (s *Store) release() { <-s.sem }

// run executes op with exclusive access to the maps, either as part of the
// transaction carried by ctx or as a single-operation transaction.
func (s *Store) run(ctx context.Context, op func() error) error {
	if s.inTx(ctx) {
		if err := ctx.Err(); err != nil {
			return err
		}
		return op()
	}
	if err := s.acquire(ctx); err != nil {
		return err
	}
	defer s.release()
	return op()
}

type snapshot struct {
	rooms         map[models.RoomID]models.Room
	guests        map[models.GuestID]models.Guest
	reservations  map[models.ReservationID]models.Reservation
	billings      map[models.BillingID]models.Billing
	notifications []models.Notification
}

// Stored values are never mutated in place, so copying the maps is enough.
func (s *Store) snapshot() snapshot {
	return snapshot{
		rooms:         copyMap(s.rooms),
		guests:        copyMap(s.guests),
		reservations:  copyMap(s.reservations),
		billings:      copyMap(s.billings),
		notifications: append([]models.Notification(nil), s.notifications...),
	}
}

func (s *Store) restore(snap snapshot) {
	s.rooms = snap.rooms
	s.guests = snap.guests
	s.reservations = snap.reservations
	s.billings = snap.billings
	s.notifications = snap.notifications
}

func copyMap[K comparable, V any](m map[K]V) map[K]V {
	out := make(map[K]V, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

// Counts reports how many documents each collection holds.
type Counts struct {
	Rooms, Guests, Reservations, Billings, Notifications int
}

func (s *Store) Counts() Counts {
	var c Counts
	_ = s.run(context.Background(), func() error {
		c = Counts{
			Rooms:         len(s.rooms),
			Guests:        len(s.guests),
			Reservations:  len(s.reservations),
			Billings:      len(s.billings),
			Notifications: len(s.notifications),
		}
		return nil
	})
	return c
}
