package models

import "time"

type BillingID string

type BillingStatus string

const (
	BillingPaid   BillingStatus = "paid"
	BillingUnpaid BillingStatus = "unpaid"
)

type Charge struct {
	Description string  `bson:"description" json:"description"`
	Amount      float64 `bson:"amount" json:"amount" validate:"gte=0"`
}

// Billing is the invoice issued with a reservation.
type Billing struct {
	ID          BillingID     `bson:"id" json:"id"`
	Reservation ReservationID `bson:"reservation" json:"reservation"`
	Guest       GuestID       `bson:"guest" json:"guest"`
	Charges     []Charge      `bson:"charges" json:"charges"`
	Total       float64       `bson:"total" json:"total"`
	Status      BillingStatus `bson:"status" json:"status"`
	IssuedAt    time.Time     `bson:"issuedAt" json:"issuedAt"`
	PaidAt      *time.Time    `bson:"paidAt,omitempty" json:"paidAt,omitempty"`
}

// ChargesTotal sums itemised charges.
func ChargesTotal(charges []Charge) float64 {
	var total float64
	for _, c := range charges {
		total += c.Amount
	}
	return total
}
