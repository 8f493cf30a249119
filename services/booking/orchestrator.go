package booking

import (
	"context"
	"errors"
	"fmt"

	"hotelops/database"
	"hotelops/models"
	"hotelops/services/guest"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Reserve books a room for a guest. Room lock, availability checks, guest
// provisioning, the reservation, its invoice and the room update commit
// together or not at all. The confirmation is handed off after commit and a
// failed hand-off only adds a warning.
func (o *Orchestrator) Reserve(ctx context.Context, req models.ReservationRequest) (*models.ReservationResult, error) {
	// Step 1: Validate
	s, err := parseRequest(req)
	if err != nil {
		return nil, err
	}

	var (
		result *models.ReservationResult
		room   *models.Room
	)
	err = o.inTransaction(ctx, func(tx context.Context) error {
		// Mongo may run this function again after a transient conflict.
		result = &models.ReservationResult{}
		now := o.now()

		// Step 2: Lock the room and check it can take the stay
		r, err := o.Rooms.GetForUpdate(tx, req.RoomID)
		if err != nil {
			if errors.Is(err, database.ErrNotFound) {
				return newError(KindRoomNotFound, nil, "room %s does not exist", req.RoomID)
			}
			return err
		}
		if !r.ReadyFor(s.checkIn, now) {
			return newError(KindRoomUnavailable, nil, "room %s is %s", r.RoomNumber, r.Status)
		}
		room = r

		// Step 3: Conflict detection on [checkIn, checkOut)
		clashes, err := o.Reservations.FindOverlapping(tx, r.ID, s.checkIn, s.checkOut, models.ReleasedStatuses)
		if err != nil {
			return err
		}
		if len(clashes) > 0 {
			c := clashes[0]
			return newError(KindDateConflict, nil, "room %s is already reserved from %s to %s",
				r.RoomNumber, c.CheckIn.Format(timeFormat), c.CheckOut.Format(timeFormat))
		}

		// Step 4: Resolve or provision the guest
		g, creds, err := o.resolveGuest(tx, req)
		if err != nil {
			return err
		}
		result.Guest = g
		result.Credentials = creds

		// Step 5: Reservation, pointing at the invoice issued next
		billingID := models.BillingID(uuid.New().String())
		res := &models.Reservation{
			ID:              models.ReservationID(uuid.New().String()),
			Guest:           g.ID,
			Room:            r.ID,
			ReservationDate: now,
			CheckIn:         s.checkIn,
			CheckOut:        s.checkOut,
			Status:          models.ReservationConfirmed,
			TotalAmount:     s.total,
			Services:        req.Services,
			Invoice:         &billingID,
		}
		if err := o.Reservations.Insert(tx, res); err != nil {
			return err
		}
		result.Reservation = res

		// Step 6: Billing
		bill, err := o.Billing.CreateForReservation(tx, billingID, res.ID, g.ID, req.Charges, req.TotalAmount)
		if err != nil {
			return err
		}
		result.Billing = bill

		// Step 7: Room status and booked window
		if res.Covers(now) {
			if err := o.Rooms.SetStatus(tx, r.ID, models.RoomOccupied); err != nil {
				return err
			}
		}
		return o.Rooms.SetAvailability(tx, r.ID, s.checkIn, s.checkOut)
	})
	if err != nil {
		o.Logger.Info("Reservation rejected",
			zap.String("roomId", string(req.RoomID)),
			zap.String("kind", string(KindOf(err))),
			zap.Error(err),
		)
		return nil, err
	}

	o.Logger.Info("Reservation confirmed",
		zap.String("reservationId", string(result.Reservation.ID)),
		zap.String("roomId", string(room.ID)),
		zap.String("guestId", string(result.Guest.ID)),
		zap.Bool("adHocGuest", result.Credentials != nil),
	)

	// Step 9: Confirmation hand-off
	o.dispatchConfirmation(ctx, room, result)
	return result, nil
}

const timeFormat = "2006-01-02 15:04"

func (o *Orchestrator) resolveGuest(ctx context.Context, req models.ReservationRequest) (*models.Guest, *models.Credentials, error) {
	if req.GuestID != "" {
		g, err := o.Guests.GetByID(ctx, req.GuestID)
		if err != nil {
			if errors.Is(err, guest.ErrGuestNotFound) {
				return nil, nil, newError(KindGuestNotFound, nil, "guest %s does not exist", req.GuestID)
			}
			return nil, nil, err
		}
		return g, nil, nil
	}

	g, creds, err := o.Guests.CreateAdHoc(ctx, req.GuestIdentity)
	switch {
	case errors.Is(err, guest.ErrDuplicateGuest):
		return nil, nil, newError(KindDuplicateGuest, err, "a guest with this name or email already exists; book with guestId instead")
	case errors.Is(err, guest.ErrMissingIdentity):
		return nil, nil, newError(KindInvalidRequest, err, "guest identity is incomplete")
	case err != nil:
		return nil, nil, err
	}
	return g, creds, nil
}

// dispatchConfirmation runs detached from the caller's cancellation but is
// bounded by NotifyTimeout.
func (o *Orchestrator) dispatchConfirmation(ctx context.Context, room *models.Room, result *models.ReservationResult) {
	if o.Dispatcher == nil {
		return
	}
	res := result.Reservation
	var newUsername string
	if result.Credentials != nil {
		newUsername = result.Credentials.Username
	}
	payload := models.ConfirmationPayload{
		ReservationID: res.ID,
		GuestID:       result.Guest.ID,
		GuestName:     result.Guest.Profile.Name,
		GuestContact:  result.Guest.Profile.Contact,
		RoomSummary:   room.Summary(),
		CheckIn:       res.CheckIn,
		CheckOut:      res.CheckOut,
		TotalAmount:   result.Billing.Total,
		NewUsername:   newUsername,
	}

	nctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), o.Opts.NotifyTimeout)
	defer cancel()
	if err := o.Dispatcher.DispatchConfirmation(nctx, payload); err != nil {
		o.Logger.Warn("Confirmation hand-off failed",
			zap.String("reservationId", string(res.ID)),
			zap.Error(err),
		)
		result.Warnings = append(result.Warnings, fmt.Sprintf("confirmation notification was not sent: %v", err))
	}
}

// inTransaction runs fn under TxnTimeout and turns whatever escapes it into
// an *Error.
func (o *Orchestrator) inTransaction(ctx context.Context, fn func(tx context.Context) error) error {
	txCtx, cancel := context.WithTimeout(ctx, o.Opts.TxnTimeout)
	defer cancel()

	err := o.Txn.WithTransaction(txCtx, fn)
	if err == nil {
		return nil
	}

	var be *Error
	switch {
	case errors.As(err, &be):
		return be
	case ctx.Err() != nil:
		return newError(KindRequestCancelled, err, "request was cancelled; nothing was saved")
	case txCtx.Err() != nil, errors.Is(err, context.DeadlineExceeded), mongo.IsTimeout(err):
		return newError(KindTransactionTimeout, err, "booking did not complete within %s; nothing was saved", o.Opts.TxnTimeout)
	}
	o.Logger.Error("Transaction failed", zap.Error(err))
	return newError(KindStoreUnavailable, err, "storage is unavailable; nothing was saved")
}
