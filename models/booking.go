package models

// ReservationRequest is the input of a booking. Dates are RFC3339 timestamps
// or YYYY-MM-DD calendar dates. The embedded identity is only read when
// GuestID is empty.
type ReservationRequest struct {
	RoomID   RoomID  `json:"roomId" validate:"required"`
	CheckIn  string  `json:"checkIn" validate:"required"`
	CheckOut string  `json:"checkOut" validate:"required"`
	GuestID  GuestID `json:"guestId,omitempty"`
	GuestIdentity
	Services    []ReservationService `json:"services,omitempty" validate:"dive"`
	Charges     []Charge             `json:"charges,omitempty" validate:"dive"`
	TotalAmount float64              `json:"totalAmount" validate:"gte=0"`
}

// ReservationResult is returned once a booking has committed.
type ReservationResult struct {
	Reservation *Reservation `json:"reservation"`
	Billing     *Billing     `json:"billing"`
	Guest       *Guest       `json:"guest"`
	Credentials *Credentials `json:"credentials,omitempty"`
	Warnings    []string     `json:"warnings,omitempty"`
}
