package booking

import (
	"context"
	"errors"

	"hotelops/database"
	"hotelops/models"

	"go.uber.org/zap"
)

// ReconcileRoomStatuses keeps "occupied" in step with the clock: available
// rooms become occupied once an active stay has started, and occupied rooms
// become available once no stay covers now and no guest is still checked
// in. Each room is handled in its own transaction; the number of rooms
// changed is returned with the first failure, if any.
func (o *Orchestrator) ReconcileRoomStatuses(ctx context.Context) (int, error) {
	rooms, err := o.Rooms.List(ctx)
	if err != nil {
		return 0, o.readError(ctx, err, KindRoomNotFound, "")
	}

	var (
		occupied, released int
		firstErr           error
	)
	for _, r := range rooms {
		if r.Status != models.RoomAvailable && r.Status != models.RoomOccupied {
			continue
		}
		next, err := o.reconcileRoom(ctx, r.ID)
		if err != nil {
			if ctx.Err() != nil {
				return occupied + released, err
			}
			o.Logger.Warn("Room reconcile failed", zap.String("roomId", string(r.ID)), zap.Error(err))
			if firstErr == nil {
				firstErr = err
			}
			continue
		}
		switch next {
		case models.RoomOccupied:
			occupied++
		case models.RoomAvailable:
			released++
		}
	}
	if occupied+released > 0 {
		o.Logger.Info("Room statuses reconciled", zap.Int("occupied", occupied), zap.Int("released", released))
	}
	return occupied + released, firstErr
}

// reconcileRoom returns the status the room was moved to, or "" when it was
// left alone.
func (o *Orchestrator) reconcileRoom(ctx context.Context, id models.RoomID) (models.RoomStatus, error) {
	var next models.RoomStatus
	err := o.inTransaction(ctx, func(tx context.Context) error {
		next = ""
		room, err := o.Rooms.GetForUpdate(tx, id)
		if err != nil {
			if errors.Is(err, database.ErrNotFound) {
				return nil
			}
			return err
		}
		if room.Status != models.RoomAvailable && room.Status != models.RoomOccupied {
			return nil
		}
		inUse, err := o.roomInUse(tx, id, o.now())
		if err != nil {
			return err
		}
		switch {
		case room.Status == models.RoomAvailable && inUse:
			next = models.RoomOccupied
		case room.Status == models.RoomOccupied && !inUse:
			next = models.RoomAvailable
		default:
			return nil
		}
		return o.Rooms.SetStatus(tx, id, next)
	})
	if err != nil {
		return "", err
	}
	return next, nil
}
