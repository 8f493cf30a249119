package booking

import (
	"context"

	"hotelops/models"
)

// AvailableRooms lists in-service rooms with no non-cancelled reservation over
// [from, to). Rooms that are not ready are left out when the range has
// already started.
func (o *Orchestrator) AvailableRooms(ctx context.Context, from, to string) ([]models.Room, error) {
	start, end, err := ParseInterval(from, to)
	if err != nil {
		return nil, newError(KindInvalidRequest, nil, "%s", err.Error())
	}

	rooms, err := o.Rooms.List(ctx)
	if err != nil {
		return nil, o.readError(ctx, err, KindRoomNotFound, "")
	}
	booked, err := o.Reservations.BookedRoomIDs(ctx, start, end, models.ReleasedStatuses)
	if err != nil {
		return nil, o.readError(ctx, err, KindRoomNotFound, "")
	}

	taken := make(map[models.RoomID]struct{}, len(booked))
	for _, id := range booked {
		taken[id] = struct{}{}
	}

	now := o.now()
	available := make([]models.Room, 0, len(rooms))
	for _, r := range rooms {
		if _, ok := taken[r.ID]; ok || !r.ReadyFor(start, now) {
			continue
		}
		available = append(available, r)
	}
	return available, nil
}
