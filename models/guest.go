package models

import "time"

type GuestID string

const (
	RoleGuest = "guest"

	GuestActive   = "active"
	GuestInactive = "inactive"
)

type Contact struct {
	Email string `bson:"email" json:"email"`
	Phone string `bson:"phone" json:"phone"`
}

type Profile struct {
	Name      string  `bson:"name" json:"name"`
	FirstName string  `bson:"firstName,omitempty" json:"firstName,omitempty"`
	LastName  string  `bson:"lastName,omitempty" json:"lastName,omitempty"`
	Contact   Contact `bson:"contact" json:"contact"`
	City      string  `bson:"city,omitempty" json:"city,omitempty"`
	Country   string  `bson:"country,omitempty" json:"country,omitempty"`
	FCMToken  string  `bson:"fcmToken,omitempty" json:"-"`
}

// Guest is a user record in the users collection. Staff accounts share the
// collection and differ only by Role.
type Guest struct {
	ID           GuestID   `bson:"id" json:"id"`
	Username     string    `bson:"username" json:"username"`
	PasswordHash string    `bson:"password" json:"-"`
	Role         string    `bson:"role" json:"role"`
	Profile      Profile   `bson:"profile" json:"profile"`
	Status       string    `bson:"status" json:"status"`
	CreatedAt    time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt    time.Time `bson:"updatedAt" json:"updatedAt"`
}

// GuestIdentity carries the inline fields used to provision a walk-in guest.
type GuestIdentity struct {
	FirstName string `json:"firstName,omitempty"`
	LastName  string `json:"lastName,omitempty"`
	Email     string `json:"email,omitempty"`
	Phone     string `json:"phone,omitempty"`
	City      string `json:"city,omitempty"`
	Country   string `json:"country,omitempty"`
}

// FullName joins first and last name.
func (g GuestIdentity) FullName() string {
	switch {
	case g.FirstName == "":
		return g.LastName
	case g.LastName == "":
		return g.FirstName
	}
	return g.FirstName + " " + g.LastName
}

// Credentials are handed to an ad-hoc guest once. Password is plaintext and
// never persisted.
type Credentials struct {
	Username string `json:"username"`
	Password string `json:"temporaryPassword,omitempty"`
}
