package memory

import (
	"context"
	"fmt"
	"slices"
	"sort"
	"time"

	"hotelops/database"
	"hotelops/models"
)

type RoomRepo struct{ s *Store }

func (r *RoomRepo) GetByID(ctx context.Context, id models.RoomID) (*models.Room, error) {
	var out *models.Room
	err := r.s.run(ctx, func() error {
		room, ok := r.s.rooms[id]
		if !ok {
			return fmt.Errorf("room %s: %w", id, database.ErrNotFound)
		}
		c := cloneRoom(room)
		out = &c
		return nil
	})
	return out, err
}

// GetForUpdate needs no extra locking here: the store semaphore already
// serialises transactions.
func (r *RoomRepo) GetForUpdate(ctx context.Context, id models.RoomID) (*models.Room, error) {
	var out *models.Room
	err := r.s.run(ctx, func() error {
		room, ok := r.s.rooms[id]
		if !ok {
			return fmt.Errorf("room %s: %w", id, database.ErrNotFound)
		}
		room.LockVersion++
		r.s.rooms[id] = room
		c := cloneRoom(room)
		out = &c
		return nil
	})
	return out, err
}

func (r *RoomRepo) SetStatus(ctx context.Context, id models.RoomID, status models.RoomStatus) error {
	return r.update(ctx, id, func(room *models.Room) { room.Status = status })
}

func (r *RoomRepo) SetAvailability(ctx context.Context, id models.RoomID, from, to time.Time) error {
	return r.update(ctx, id, func(room *models.Room) {
		room.Availability = models.Window{From: &from, To: &to}
	})
}

func (r *RoomRepo) update(ctx context.Context, id models.RoomID, mutate func(*models.Room)) error {
	return r.s.run(ctx, func() error {
		room, ok := r.s.rooms[id]
		if !ok {
			return fmt.Errorf("room %s: %w", id, database.ErrNotFound)
		}
		room = cloneRoom(room)
		mutate(&room)
		room.UpdatedAt = time.Now()
		r.s.rooms[id] = room
		return nil
	})
}

func (r *RoomRepo) Create(ctx context.Context, room *models.Room) error {
	return r.s.run(ctx, func() error {
		if _, ok := r.s.rooms[room.ID]; ok {
			return fmt.Errorf("room %s: %w", room.ID, database.ErrDuplicateKey)
		}
		for _, existing := range r.s.rooms {
			if existing.RoomNumber == room.RoomNumber {
				return fmt.Errorf("room number %s: %w", room.RoomNumber, database.ErrDuplicateKey)
			}
		}
		now := time.Now()
		room.CreatedAt = now
		room.UpdatedAt = now
		if room.Status == "" {
			room.Status = models.RoomAvailable
		}
		r.s.rooms[room.ID] = cloneRoom(*room)
		return nil
	})
}

func (r *RoomRepo) List(ctx context.Context) ([]models.Room, error) {
	var out []models.Room
	err := r.s.run(ctx, func() error {
		for _, room := range r.s.rooms {
			out = append(out, cloneRoom(room))
		}
		return nil
	})
	sort.Slice(out, func(i, j int) bool { return out[i].RoomNumber < out[j].RoomNumber })
	return out, err
}

type GuestRepo struct{ s *Store }

func (r *GuestRepo) GetByID(ctx context.Context, id models.GuestID) (*models.Guest, error) {
	var out *models.Guest
	err := r.s.run(ctx, func() error {
		g, ok := r.s.guests[id]
		if !ok {
			return fmt.Errorf("user %s: %w", id, database.ErrNotFound)
		}
		out = &g
		return nil
	})
	return out, err
}

func (r *GuestRepo) GetByUsername(ctx context.Context, username string) (*models.Guest, error) {
	var out *models.Guest
	err := r.s.run(ctx, func() error {
		for _, g := range r.s.guests {
			if g.Username == username {
				out = &g
				return nil
			}
		}
		return fmt.Errorf("user %s: %w", username, database.ErrNotFound)
	})
	return out, err
}

// Create enforces the same unique keys as the Mongo indexes: id, username and
// non-empty contact email.
func (r *GuestRepo) Create(ctx context.Context, guest *models.Guest) error {
	return r.s.run(ctx, func() error {
		if _, ok := r.s.guests[guest.ID]; ok {
			return fmt.Errorf("user %s: %w", guest.ID, database.ErrDuplicateKey)
		}
		email := guest.Profile.Contact.Email
		for _, g := range r.s.guests {
			if g.Username == guest.Username {
				return fmt.Errorf("username %s: %w", guest.Username, database.ErrDuplicateKey)
			}
			if email != "" && g.Profile.Contact.Email == email {
				return fmt.Errorf("email %s: %w", email, database.ErrDuplicateKey)
			}
		}
		now := time.Now()
		guest.CreatedAt = now
		guest.UpdatedAt = now
		r.s.guests[guest.ID] = *guest
		return nil
	})
}

type ReservationRepo struct{ s *Store }

func (r *ReservationRepo) Insert(ctx context.Context, res *models.Reservation) error {
	return r.s.run(ctx, func() error {
		if _, ok := r.s.reservations[res.ID]; ok {
			return fmt.Errorf("reservation %s: %w", res.ID, database.ErrDuplicateKey)
		}
		res.UpdatedAt = time.Now()
		r.s.reservations[res.ID] = cloneReservation(*res)
		return nil
	})
}

func (r *ReservationRepo) GetByID(ctx context.Context, id models.ReservationID) (*models.Reservation, error) {
	var out *models.Reservation
	err := r.s.run(ctx, func() error {
		res, ok := r.s.reservations[id]
		if !ok {
			return fmt.Errorf("reservation %s: %w", id, database.ErrNotFound)
		}
		c := cloneReservation(res)
		out = &c
		return nil
	})
	return out, err
}

func (r *ReservationRepo) FindOverlapping(ctx context.Context, roomID models.RoomID, checkIn, checkOut time.Time, exclude []models.ReservationStatus) ([]models.Reservation, error) {
	var out []models.Reservation
	err := r.s.run(ctx, func() error {
		for _, res := range r.s.reservations {
			if res.Room != roomID || slices.Contains(exclude, res.Status) {
				continue
			}
			if models.Overlaps(res.CheckIn, res.CheckOut, checkIn, checkOut) {
				out = append(out, cloneReservation(res))
			}
		}
		return nil
	})
	return out, err
}

func (r *ReservationRepo) UpdateStatus(ctx context.Context, id models.ReservationID, status models.ReservationStatus) error {
	return r.s.run(ctx, func() error {
		res, ok := r.s.reservations[id]
		if !ok {
			return fmt.Errorf("reservation %s: %w", id, database.ErrNotFound)
		}
		res = cloneReservation(res)
		res.Status = status
		res.UpdatedAt = time.Now()
		r.s.reservations[id] = res
		return nil
	})
}

func (r *ReservationRepo) BookedRoomIDs(ctx context.Context, from, to time.Time, exclude []models.ReservationStatus) ([]models.RoomID, error) {
	var out []models.RoomID
	err := r.s.run(ctx, func() error {
		seen := make(map[models.RoomID]bool)
		for _, res := range r.s.reservations {
			if seen[res.Room] || slices.Contains(exclude, res.Status) {
				continue
			}
			if models.Overlaps(res.CheckIn, res.CheckOut, from, to) {
				seen[res.Room] = true
				out = append(out, res.Room)
			}
		}
		return nil
	})
	return out, err
}

func (r *ReservationRepo) ListByGuest(ctx context.Context, guestID models.GuestID) ([]models.Reservation, error) {
	var out []models.Reservation
	err := r.s.run(ctx, func() error {
		for _, res := range r.s.reservations {
			if res.Guest == guestID {
				out = append(out, cloneReservation(res))
			}
		}
		return nil
	})
	sort.Slice(out, func(i, j int) bool { return out[i].CheckIn.After(out[j].CheckIn) })
	return out, err
}

type BillingRepo struct{ s *Store }

func (r *BillingRepo) Insert(ctx context.Context, bill *models.Billing) error {
	return r.s.run(ctx, func() error {
		if _, ok := r.s.billings[bill.ID]; ok {
			return fmt.Errorf("billing %s: %w", bill.ID, database.ErrDuplicateKey)
		}
		for _, b := range r.s.billings {
			if b.Reservation == bill.Reservation {
				return fmt.Errorf("billing for reservation %s: %w", bill.Reservation, database.ErrDuplicateKey)
			}
		}
		r.s.billings[bill.ID] = cloneBilling(*bill)
		return nil
	})
}

func (r *BillingRepo) GetByID(ctx context.Context, id models.BillingID) (*models.Billing, error) {
	var out *models.Billing
	err := r.s.run(ctx, func() error {
		b, ok := r.s.billings[id]
		if !ok {
			return fmt.Errorf("billing %s: %w", id, database.ErrNotFound)
		}
		c := cloneBilling(b)
		out = &c
		return nil
	})
	return out, err
}

func (r *BillingRepo) GetByReservation(ctx context.Context, id models.ReservationID) (*models.Billing, error) {
	var out *models.Billing
	err := r.s.run(ctx, func() error {
		for _, b := range r.s.billings {
			if b.Reservation == id {
				c := cloneBilling(b)
				out = &c
				return nil
			}
		}
		return fmt.Errorf("billing for reservation %s: %w", id, database.ErrNotFound)
	})
	return out, err
}

func (r *BillingRepo) MarkPaid(ctx context.Context, id models.BillingID, paidAt time.Time) error {
	return r.s.run(ctx, func() error {
		b, ok := r.s.billings[id]
		if !ok {
			return fmt.Errorf("billing %s: %w", id, database.ErrNotFound)
		}
		b = cloneBilling(b)
		b.Status = models.BillingPaid
		b.PaidAt = &paidAt
		r.s.billings[id] = b
		return nil
	})
}

type NotificationRepo struct{ s *Store }

func (r *NotificationRepo) Create(ctx context.Context, n *models.Notification) error {
	return r.s.run(ctx, func() error {
		if n.CreatedAt.IsZero() {
			n.CreatedAt = time.Now()
		}
		r.s.notifications = append(r.s.notifications, cloneNotification(*n))
		return nil
	})
}

func (r *NotificationRepo) ListByUser(ctx context.Context, user models.GuestID) ([]models.Notification, error) {
	var out []models.Notification
	err := r.s.run(ctx, func() error {
		for i := len(r.s.notifications) - 1; i >= 0; i-- {
			if n := r.s.notifications[i]; n.User == user {
				out = append(out, cloneNotification(n))
			}
		}
		return nil
	})
	return out, err
}
