package memory

import (
	"time"

	"hotelops/models"
)

// Callers get copies so that mutating a returned document never reaches the store.

func cloneRoom(r models.Room) models.Room {
	r.Features = append([]models.RoomFeature(nil), r.Features...)
	r.Availability.From = cloneTime(r.Availability.From)
	r.Availability.To = cloneTime(r.Availability.To)
	r.LastCleaned = cloneTime(r.LastCleaned)
	return r
}

func cloneReservation(r models.Reservation) models.Reservation {
	r.Services = append([]models.ReservationService(nil), r.Services...)
	if r.Invoice != nil {
		id := *r.Invoice
		r.Invoice = &id
	}
	return r
}

func cloneBilling(b models.Billing) models.Billing {
	b.Charges = append([]models.Charge(nil), b.Charges...)
	b.PaidAt = cloneTime(b.PaidAt)
	return b
}

func cloneNotification(n models.Notification) models.Notification {
	if n.Data != nil {
		data := make(map[string]string, len(n.Data))
		for k, v := range n.Data {
			data[k] = v
		}
		n.Data = data
	}
	return n
}

func cloneTime(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	c := *t
	return &c
}
