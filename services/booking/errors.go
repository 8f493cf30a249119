package booking

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind classifies a booking failure for clients.
type Kind string

const (
	KindInvalidRequest      Kind = "InvalidRequest"
	KindRoomNotFound        Kind = "RoomNotFound"
	KindGuestNotFound       Kind = "GuestNotFound"
	KindReservationNotFound Kind = "ReservationNotFound"
	KindRoomUnavailable     Kind = "RoomUnavailable"
	KindDateConflict        Kind = "DateConflict"
	KindDuplicateGuest      Kind = "DuplicateGuest"
	KindInvalidTransition   Kind = "InvalidTransition"
	KindRequestCancelled    Kind = "RequestCancelled"
	KindTransactionTimeout  Kind = "TransactionTimeout"
	KindStoreUnavailable    Kind = "StoreUnavailable"
)

// Error is returned by every Orchestrator operation. None of them leave
// partial writes behind.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error { return e.Err }

func newError(kind Kind, err error, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...), Err: err}
}

// KindOf returns the kind of a booking error, or StoreUnavailable for any
// other non-nil error.
func KindOf(err error) Kind {
	if err == nil {
		return ""
	}
	var be *Error
	if errors.As(err, &be) {
		return be.Kind
	}
	return KindStoreUnavailable
}

// HTTPStatus maps a kind onto the response status.
func HTTPStatus(kind Kind) int {
	switch kind {
	case KindInvalidRequest:
		return http.StatusBadRequest
	case KindRoomNotFound, KindGuestNotFound, KindReservationNotFound:
		return http.StatusNotFound
	case KindRoomUnavailable, KindDateConflict, KindDuplicateGuest, KindInvalidTransition:
		return http.StatusConflict
	case KindRequestCancelled:
		return http.StatusRequestTimeout
	}
	return http.StatusInternalServerError
}
