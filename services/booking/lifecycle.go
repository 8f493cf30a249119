package booking

import (
	"context"
	"errors"
	"time"

	"hotelops/database"
	"hotelops/models"
	"hotelops/services/guest"

	"go.uber.org/zap"
)

// GetReservation is a pure read.
func (o *Orchestrator) GetReservation(ctx context.Context, id models.ReservationID) (*models.Reservation, error) {
	res, err := o.Reservations.GetByID(ctx, id)
	if err != nil {
		return nil, o.readError(ctx, err, KindReservationNotFound, "reservation %s does not exist", id)
	}
	return res, nil
}

func (o *Orchestrator) GuestReservations(ctx context.Context, id models.GuestID) ([]models.Reservation, error) {
	if _, err := o.Guests.GetByID(ctx, id); err != nil {
		return nil, o.readError(ctx, err, KindGuestNotFound, "guest %s does not exist", id)
	}
	out, err := o.Reservations.ListByGuest(ctx, id)
	if err != nil {
		return nil, o.readError(ctx, err, KindStoreUnavailable, "")
	}
	return out, nil
}

// UpdateStatus routes a requested status to the matching transition.
func (o *Orchestrator) UpdateStatus(ctx context.Context, id models.ReservationID, status models.ReservationStatus) (*models.Reservation, error) {
	switch status {
	case models.ReservationCancelled:
		return o.Cancel(ctx, id)
	case models.ReservationCheckedIn:
		return o.CheckIn(ctx, id)
	case models.ReservationCheckedOut:
		return o.CheckOut(ctx, id)
	case models.ReservationConfirmed:
		return nil, newError(KindInvalidTransition, nil, "a reservation cannot return to %s", status)
	}
	return nil, newError(KindInvalidRequest, nil, "unknown reservation status %q", status)
}

// Cancel releases the interval. An occupied room goes back to available
// unless it is still in use.
func (o *Orchestrator) Cancel(ctx context.Context, id models.ReservationID) (*models.Reservation, error) {
	return o.transition(ctx, id, models.ReservationCancelled, func(tx context.Context, _ *models.Reservation, room *models.Room, now time.Time) error {
		if room.Status != models.RoomOccupied {
			return nil
		}
		inUse, err := o.roomInUse(tx, room.ID, now)
		if err != nil || inUse {
			return err
		}
		return o.Rooms.SetStatus(tx, room.ID, models.RoomAvailable)
	})
}

// CheckIn needs the stay to have started and not ended. The room must be
// available, or occupied with no other guest checked in.
func (o *Orchestrator) CheckIn(ctx context.Context, id models.ReservationID) (*models.Reservation, error) {
	return o.transition(ctx, id, models.ReservationCheckedIn, func(tx context.Context, res *models.Reservation, room *models.Room, now time.Time) error {
		if !res.Covers(now) {
			return newError(KindInvalidTransition, nil, "reservation %s runs from %s to %s and cannot be checked in at %s",
				id, res.CheckIn.Format(timeFormat), res.CheckOut.Format(timeFormat), now.Format(timeFormat))
		}
		switch room.Status {
		case models.RoomAvailable:
		case models.RoomOccupied:
			staying, err := o.Reservations.FindOverlapping(tx, room.ID, allTime, endOfTime, models.NotCheckedInStatuses)
			if err != nil {
				return err
			}
			for _, other := range staying {
				if other.ID != id {
					return newError(KindRoomUnavailable, nil, "room %s is still occupied by another guest", room.RoomNumber)
				}
			}
		default:
			return newError(KindRoomUnavailable, nil, "room %s is %s", room.RoomNumber, room.Status)
		}
		return o.Rooms.SetStatus(tx, room.ID, models.RoomOccupied)
	})
}

// CheckOut hands the room to housekeeping.
func (o *Orchestrator) CheckOut(ctx context.Context, id models.ReservationID) (*models.Reservation, error) {
	return o.transition(ctx, id, models.ReservationCheckedOut, func(tx context.Context, _ *models.Reservation, room *models.Room, _ time.Time) error {
		return o.Rooms.SetStatus(tx, room.ID, models.RoomCleaning)
	})
}

var (
	allTime   = time.Unix(0, 0).UTC()
	endOfTime = time.Date(9999, 12, 31, 0, 0, 0, 0, time.UTC)
)

// roomInUse reports whether an active stay covers now or a guest is still
// checked in past their check-out.
func (o *Orchestrator) roomInUse(tx context.Context, roomID models.RoomID, now time.Time) (bool, error) {
	current, err := o.Reservations.FindOverlapping(tx, roomID, now, now.Add(time.Nanosecond), models.InactiveStatuses)
	if err != nil || len(current) > 0 {
		return len(current) > 0, err
	}
	staying, err := o.Reservations.FindOverlapping(tx, roomID, allTime, endOfTime, models.NotCheckedInStatuses)
	if err != nil {
		return false, err
	}
	return len(staying) > 0, nil
}

type roomEffect func(tx context.Context, res *models.Reservation, room *models.Room, now time.Time) error

func (o *Orchestrator) transition(ctx context.Context, id models.ReservationID, next models.ReservationStatus, effect roomEffect) (*models.Reservation, error) {
	var out *models.Reservation
	err := o.inTransaction(ctx, func(tx context.Context) error {
		res, err := o.Reservations.GetByID(tx, id)
		if err != nil {
			if errors.Is(err, database.ErrNotFound) {
				return newError(KindReservationNotFound, nil, "reservation %s does not exist", id)
			}
			return err
		}
		if !res.Status.CanTransitionTo(next) {
			return newError(KindInvalidTransition, nil, "reservation %s is %s and cannot become %s", id, res.Status, next)
		}

		room, err := o.Rooms.GetForUpdate(tx, res.Room)
		if err != nil {
			if errors.Is(err, database.ErrNotFound) {
				return newError(KindRoomNotFound, nil, "room %s does not exist", res.Room)
			}
			return err
		}
		if err := o.Reservations.UpdateStatus(tx, id, next); err != nil {
			return err
		}
		if err := effect(tx, res, room, o.now()); err != nil {
			return err
		}

		res.Status = next
		out = res
		return nil
	})
	if err != nil {
		return nil, err
	}

	o.Logger.Info("Reservation status changed",
		zap.String("reservationId", string(id)),
		zap.String("status", string(next)),
	)
	return out, nil
}

// readError classifies failures of non-transactional reads.
func (o *Orchestrator) readError(ctx context.Context, err error, notFoundKind Kind, notFound string, args ...any) error {
	switch {
	case errors.Is(err, database.ErrNotFound), errors.Is(err, guest.ErrGuestNotFound):
		return newError(notFoundKind, nil, notFound, args...)
	case ctx.Err() != nil:
		return newError(KindRequestCancelled, err, "request was cancelled")
	}
	o.Logger.Error("Read failed", zap.Error(err))
	return newError(KindStoreUnavailable, err, "storage is unavailable")
}
