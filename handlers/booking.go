package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"hotelops/middleware"
	"hotelops/models"
	"hotelops/services/booking"
	"hotelops/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// BookingHandler exposes the booking core over HTTP.
type BookingHandler struct {
	Service booking.BookingService
}

func NewBookingHandler(service booking.BookingService) *BookingHandler {
	return &BookingHandler{Service: service}
}

// Reserve books a room and answers 201 with the committed entities.
func (h *BookingHandler) Reserve(c *gin.Context) {
	logger := getLogger(c)

	var req models.ReservationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.JSONError(c, http.StatusBadRequest, string(booking.KindInvalidRequest), "invalid request body: "+err.Error())
		return
	}

	result, err := h.Service.Reserve(c.Request.Context(), req)
	if err != nil {
		respondBookingError(c, logger, err)
		return
	}

	logger.Info("Reservation created",
		zap.String("reservationId", string(result.Reservation.ID)),
		zap.String("roomId", string(result.Reservation.Room)),
		zap.String("guestId", string(result.Reservation.Guest)),
		zap.Strings("warnings", result.Warnings),
	)
	if result.Credentials != nil {
		setRedactedReplay(c, logger, *result)
	}
	c.JSON(http.StatusCreated, result)
}

// setRedactedReplay stores a copy of the result without the temporary
// password for idempotent replays.
func setRedactedReplay(c *gin.Context, logger *zap.Logger, result models.ReservationResult) {
	result.Credentials = &models.Credentials{Username: result.Credentials.Username}
	body, err := json.Marshal(result)
	if err != nil {
		logger.Warn("Failed to encode replay body", zap.Error(err))
		body = []byte(`{}`)
	}
	middleware.SetReplayBody(c, body)
}

func (h *BookingHandler) GetReservation(c *gin.Context) {
	res, err := h.Service.GetReservation(c.Request.Context(), models.ReservationID(c.Param("id")))
	if err != nil {
		respondBookingError(c, getLogger(c), err)
		return
	}
	c.JSON(http.StatusOK, res)
}

// UpdateStatus moves a reservation along its lifecycle.
func (h *BookingHandler) UpdateStatus(c *gin.Context) {
	logger := getLogger(c)

	var body struct {
		Status models.ReservationStatus `json:"status" binding:"required"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		utils.JSONError(c, http.StatusBadRequest, string(booking.KindInvalidRequest), "status is required")
		return
	}

	id := models.ReservationID(c.Param("id"))
	res, err := h.Service.UpdateStatus(c.Request.Context(), id, body.Status)
	if err != nil {
		respondBookingError(c, logger, err)
		return
	}

	logger.Info("Reservation status updated",
		zap.String("reservationId", string(id)),
		zap.String("status", string(res.Status)),
	)
	c.JSON(http.StatusOK, res)
}

// AvailableRooms lists rooms free for ?start=&end=.
func (h *BookingHandler) AvailableRooms(c *gin.Context) {
	rooms, err := h.Service.AvailableRooms(c.Request.Context(), c.Query("start"), c.Query("end"))
	if err != nil {
		respondBookingError(c, getLogger(c), err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"rooms": rooms, "count": len(rooms)})
}

func (h *BookingHandler) GuestReservations(c *gin.Context) {
	list, err := h.Service.GuestReservations(c.Request.Context(), models.GuestID(c.Param("id")))
	if err != nil {
		respondBookingError(c, getLogger(c), err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"reservations": list, "count": len(list)})
}

// respondBookingError writes the error envelope for a booking failure.
// Server-side kinds are logged with the underlying cause and answered with
// the kind's message only.
func respondBookingError(c *gin.Context, logger *zap.Logger, err error) {
	kind := booking.KindOf(err)
	status := booking.HTTPStatus(kind)

	message := "the reservation store is unavailable"
	var be *booking.Error
	if errors.As(err, &be) {
		message = be.Message
	}

	if status >= http.StatusInternalServerError {
		logger.Error("Booking operation failed", zap.String("kind", string(kind)), zap.Error(err))
	} else {
		logger.Debug("Booking request rejected", zap.String("kind", string(kind)), zap.Error(err))
	}
	utils.JSONError(c, status, string(kind), message)
}
