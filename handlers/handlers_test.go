package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"hotelops/middleware"
	"hotelops/models"
	"hotelops/services/billing"
	"hotelops/services/booking"
	"hotelops/utils"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type bookingServiceMock struct {
	booking.BookingService

	ReserveFunc        func(ctx context.Context, req models.ReservationRequest) (*models.ReservationResult, error)
	GetFunc            func(ctx context.Context, id models.ReservationID) (*models.Reservation, error)
	UpdateStatusFunc   func(ctx context.Context, id models.ReservationID, s models.ReservationStatus) (*models.Reservation, error)
	AvailableRoomsFunc func(ctx context.Context, from, to string) ([]models.Room, error)
}

func (m *bookingServiceMock) Reserve(ctx context.Context, req models.ReservationRequest) (*models.ReservationResult, error) {
	return m.ReserveFunc(ctx, req)
}

func (m *bookingServiceMock) GetReservation(ctx context.Context, id models.ReservationID) (*models.Reservation, error) {
	return m.GetFunc(ctx, id)
}

func (m *bookingServiceMock) UpdateStatus(ctx context.Context, id models.ReservationID, s models.ReservationStatus) (*models.Reservation, error) {
	return m.UpdateStatusFunc(ctx, id, s)
}

func (m *bookingServiceMock) AvailableRooms(ctx context.Context, from, to string) ([]models.Room, error) {
	return m.AvailableRoomsFunc(ctx, from, to)
}

type billingServiceMock struct {
	billing.BillingService

	MarkPaidFunc func(ctx context.Context, id models.BillingID, paidAt time.Time) (*models.Billing, error)
}

func (m *billingServiceMock) MarkPaid(ctx context.Context, id models.BillingID, paidAt time.Time) (*models.Billing, error) {
	return m.MarkPaidFunc(ctx, id, paidAt)
}

func router(svc booking.BookingService, bills billing.BillingService) *gin.Engine {
	hb := NewHandlerBundle(svc, bills, utils.NewHealthMonitor(nil))
	r := gin.New()
	r.POST("/api/reservations", hb.ReserveHandler)
	r.GET("/api/reservations/:id", hb.GetReservationHandler)
	r.PATCH("/api/reservations/:id/status", hb.UpdateStatusHandler)
	r.GET("/api/rooms/available", hb.AvailableRoomsHandler)
	r.PATCH("/api/billing/:id/pay", hb.MarkPaidHandler)
	r.GET("/health", hb.HealthHandler)
	return r
}

func do(r http.Handler, method, path, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decodeError(t *testing.T, w *httptest.ResponseRecorder) utils.ErrorResponse {
	t.Helper()
	var body utils.ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}

func TestReserve_Created(t *testing.T) {
	svc := &bookingServiceMock{ReserveFunc: func(_ context.Context, req models.ReservationRequest) (*models.ReservationResult, error) {
		assert.Equal(t, models.RoomID("room-1"), req.RoomID)
		assert.Equal(t, "2026-03-10", req.CheckIn)
		assert.Equal(t, "ada@example.com", req.Email)
		return &models.ReservationResult{
			Reservation: &models.Reservation{ID: "res-1", Room: req.RoomID, Guest: "guest-1"},
			Billing:     &models.Billing{ID: "bill-1"},
			Guest:       &models.Guest{ID: "guest-1"},
		}, nil
	}}

	w := do(router(svc, nil), http.MethodPost, "/api/reservations",
		`{"roomId":"room-1","checkIn":"2026-03-10","checkOut":"2026-03-12","email":"ada@example.com","totalAmount":200}`)

	require.Equal(t, http.StatusCreated, w.Code)
	var result models.ReservationResult
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &result))
	assert.Equal(t, models.ReservationID("res-1"), result.Reservation.ID)
	assert.Equal(t, models.BillingID("bill-1"), result.Billing.ID)
}

type replayStore struct {
	mu      sync.Mutex
	claimed map[string]bool
	saved   map[string]*middleware.CachedResponse
}

func (s *replayStore) Claim(_ context.Context, key string, _ time.Duration) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.claimed[key] {
		return false, nil
	}
	s.claimed[key] = true
	return true, nil
}

func (s *replayStore) Lookup(_ context.Context, key string) (*middleware.CachedResponse, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.saved[key], nil
}

func (s *replayStore) Save(_ context.Context, key string, resp middleware.CachedResponse, _ time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.saved[key] = &resp
	return nil
}

func (s *replayStore) Release(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.claimed, key)
	return nil
}

func TestReserve_ReplayOmitsTemporaryPassword(t *testing.T) {
	calls := 0
	svc := &bookingServiceMock{ReserveFunc: func(context.Context, models.ReservationRequest) (*models.ReservationResult, error) {
		calls++
		return &models.ReservationResult{
			Reservation: &models.Reservation{ID: "res-1", Room: "room-1", Guest: "guest-1"},
			Billing:     &models.Billing{ID: "bill-1"},
			Guest:       &models.Guest{ID: "guest-1", Username: "janedoe"},
			Credentials: &models.Credentials{Username: "janedoe", Password: "Tmp7kQ9xWz2p"},
		}, nil
	}}
	store := &replayStore{claimed: map[string]bool{}, saved: map[string]*middleware.CachedResponse{}}
	hb := NewHandlerBundle(svc, nil, utils.NewHealthMonitor(nil))
	r := gin.New()
	r.POST("/api/reservations", middleware.Idempotency(store, time.Hour, zap.NewNop()), hb.ReserveHandler)

	send := func() *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/api/reservations", strings.NewReader(`{"roomId":"room-1"}`))
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set(middleware.IdempotencyHeader, "walk-in-1")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		return w
	}

	first := send()
	require.Equal(t, http.StatusCreated, first.Code)
	assert.Contains(t, first.Body.String(), "Tmp7kQ9xWz2p")

	second := send()
	require.Equal(t, http.StatusCreated, second.Code)
	assert.Equal(t, "true", second.Header().Get(middleware.ReplayedHeader))
	assert.NotContains(t, second.Body.String(), "Tmp7kQ9xWz2p")

	var replayed models.ReservationResult
	require.NoError(t, json.Unmarshal(second.Body.Bytes(), &replayed))
	assert.Equal(t, models.ReservationID("res-1"), replayed.Reservation.ID)
	require.NotNil(t, replayed.Credentials)
	assert.Equal(t, "janedoe", replayed.Credentials.Username)
	assert.Empty(t, replayed.Credentials.Password)
	assert.Equal(t, 1, calls)

	for _, saved := range store.saved {
		assert.NotContains(t, string(saved.Body), "Tmp7kQ9xWz2p")
	}
}

func TestReserve_ErrorMapping(t *testing.T) {
	tests := []struct {
		err    error
		status int
		kind   string
	}{
		{&booking.Error{Kind: booking.KindInvalidRequest, Message: "checkOut must be after checkIn"}, http.StatusBadRequest, "InvalidRequest"},
		{&booking.Error{Kind: booking.KindRoomNotFound, Message: "room not found"}, http.StatusNotFound, "RoomNotFound"},
		{&booking.Error{Kind: booking.KindDateConflict, Message: "overlaps"}, http.StatusConflict, "DateConflict"},
		{&booking.Error{Kind: booking.KindDuplicateGuest, Message: "taken"}, http.StatusConflict, "DuplicateGuest"},
		{&booking.Error{Kind: booking.KindRequestCancelled, Message: "cancelled"}, http.StatusRequestTimeout, "RequestCancelled"},
		{&booking.Error{Kind: booking.KindTransactionTimeout, Message: "timed out"}, http.StatusInternalServerError, "TransactionTimeout"},
		{fmt.Errorf("socket closed"), http.StatusInternalServerError, "StoreUnavailable"},
	}
	for _, tc := range tests {
		t.Run(tc.kind, func(t *testing.T) {
			svc := &bookingServiceMock{ReserveFunc: func(context.Context, models.ReservationRequest) (*models.ReservationResult, error) {
				return nil, tc.err
			}}
			w := do(router(svc, nil), http.MethodPost, "/api/reservations", `{"roomId":"r"}`)
			assert.Equal(t, tc.status, w.Code)
			assert.Equal(t, tc.kind, decodeError(t, w).Error)
		})
	}
}

func TestReserve_MalformedBody(t *testing.T) {
	svc := &bookingServiceMock{ReserveFunc: func(context.Context, models.ReservationRequest) (*models.ReservationResult, error) {
		t.Fatal("service must not be called")
		return nil, nil
	}}
	w := do(router(svc, nil), http.MethodPost, "/api/reservations", `{"roomId":`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "InvalidRequest", decodeError(t, w).Error)
}

func TestGetReservation(t *testing.T) {
	svc := &bookingServiceMock{GetFunc: func(_ context.Context, id models.ReservationID) (*models.Reservation, error) {
		if id == "res-1" {
			return &models.Reservation{ID: id, Status: models.ReservationConfirmed}, nil
		}
		return nil, &booking.Error{Kind: booking.KindReservationNotFound, Message: "reservation not found"}
	}}
	r := router(svc, nil)

	ok := do(r, http.MethodGet, "/api/reservations/res-1", "")
	assert.Equal(t, http.StatusOK, ok.Code)
	assert.Contains(t, ok.Body.String(), `"status":"confirmed"`)

	missing := do(r, http.MethodGet, "/api/reservations/res-2", "")
	assert.Equal(t, http.StatusNotFound, missing.Code)
	assert.Equal(t, "ReservationNotFound", decodeError(t, missing).Error)
}

func TestUpdateStatus(t *testing.T) {
	svc := &bookingServiceMock{UpdateStatusFunc: func(_ context.Context, id models.ReservationID, s models.ReservationStatus) (*models.Reservation, error) {
		if s == models.ReservationCheckedOut {
			return nil, &booking.Error{Kind: booking.KindInvalidTransition, Message: "cannot check out"}
		}
		return &models.Reservation{ID: id, Status: s}, nil
	}}
	r := router(svc, nil)

	ok := do(r, http.MethodPatch, "/api/reservations/res-1/status", `{"status":"cancelled"}`)
	assert.Equal(t, http.StatusOK, ok.Code)
	assert.Contains(t, ok.Body.String(), `"status":"cancelled"`)

	bad := do(r, http.MethodPatch, "/api/reservations/res-1/status", `{"status":"checked-out"}`)
	assert.Equal(t, http.StatusConflict, bad.Code)

	missing := do(r, http.MethodPatch, "/api/reservations/res-1/status", `{}`)
	assert.Equal(t, http.StatusBadRequest, missing.Code)
}

func TestAvailableRooms(t *testing.T) {
	svc := &bookingServiceMock{AvailableRoomsFunc: func(_ context.Context, from, to string) ([]models.Room, error) {
		assert.Equal(t, "2026-03-10", from)
		assert.Equal(t, "2026-03-12", to)
		return []models.Room{{ID: "room-1"}, {ID: "room-2"}}, nil
	}}
	w := do(router(svc, nil), http.MethodGet, "/api/rooms/available?start=2026-03-10&end=2026-03-12", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"count":2`)
}

func TestMarkPaid(t *testing.T) {
	paidAt := time.Date(2026, 3, 12, 10, 0, 0, 0, time.UTC)
	bills := &billingServiceMock{MarkPaidFunc: func(_ context.Context, id models.BillingID, at time.Time) (*models.Billing, error) {
		switch id {
		case "missing":
			return nil, fmt.Errorf("%w: %s", billing.ErrBillingNotFound, id)
		case "paid":
			return nil, fmt.Errorf("%w: %s", billing.ErrAlreadyPaid, id)
		}
		return &models.Billing{ID: id, Status: models.BillingPaid, PaidAt: &at}, nil
	}}
	r := router(nil, bills)

	w := do(r, http.MethodPatch, "/api/billing/bill-1/pay", `{"paidAt":"2026-03-12T10:00:00Z"}`)
	require.Equal(t, http.StatusOK, w.Code)
	var bill models.Billing
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &bill))
	assert.True(t, paidAt.Equal(*bill.PaidAt))

	assert.Equal(t, http.StatusOK, do(r, http.MethodPatch, "/api/billing/bill-1/pay", "").Code)

	notFound := do(r, http.MethodPatch, "/api/billing/missing/pay", "")
	assert.Equal(t, http.StatusNotFound, notFound.Code)
	assert.Equal(t, "BillingNotFound", decodeError(t, notFound).Error)

	paid := do(r, http.MethodPatch, "/api/billing/paid/pay", "")
	assert.Equal(t, http.StatusConflict, paid.Code)
	assert.Equal(t, "AlreadyPaid", decodeError(t, paid).Error)
}

func TestHealthCheck(t *testing.T) {
	w := do(router(nil, nil), http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusServiceUnavailable, w.Code, "no check has run yet")
}
