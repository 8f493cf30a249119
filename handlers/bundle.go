package handlers

import (
	"hotelops/services/billing"
	"hotelops/services/booking"
	"hotelops/utils"

	"github.com/gin-gonic/gin"
)

// HandlerBundle groups the endpoint handlers handed to the router.
type HandlerBundle struct {
	// Reservation endpoints
	ReserveHandler           gin.HandlerFunc
	GetReservationHandler    gin.HandlerFunc
	UpdateStatusHandler      gin.HandlerFunc
	GuestReservationsHandler gin.HandlerFunc

	// Room endpoints
	AvailableRoomsHandler gin.HandlerFunc

	// Billing endpoints
	MarkPaidHandler gin.HandlerFunc

	HealthHandler gin.HandlerFunc
}

func NewHandlerBundle(bookings booking.BookingService, bills billing.BillingService, monitor *utils.HealthMonitor) *HandlerBundle {
	bh := NewBookingHandler(bookings)
	billh := NewBillingHandler(bills)
	return &HandlerBundle{
		ReserveHandler:           bh.Reserve,
		GetReservationHandler:    bh.GetReservation,
		UpdateStatusHandler:      bh.UpdateStatus,
		GuestReservationsHandler: bh.GuestReservations,
		AvailableRoomsHandler:    bh.AvailableRooms,
		MarkPaidHandler:          billh.MarkPaid,
		HealthHandler:            HealthCheck(monitor),
	}
}
