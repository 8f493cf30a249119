package models

import "time"

type RoomID string

type RoomStatus string

const (
	RoomAvailable   RoomStatus = "available"
	RoomOccupied    RoomStatus = "occupied"
	RoomCleaning    RoomStatus = "cleaning"
	RoomMaintenance RoomStatus = "maintenance"
	RoomUnavailable RoomStatus = "unavailable"
)

// RoomFeature is a single amenity line shown on the room card.
type RoomFeature struct {
	Icon string `bson:"icon,omitempty" json:"icon,omitempty"`
	Text string `bson:"text" json:"text"`
}

// Window is a closed date range cached on the room document.
type Window struct {
	From *time.Time `bson:"from,omitempty" json:"from,omitempty"`
	To   *time.Time `bson:"to,omitempty" json:"to,omitempty"`
}

// Room represents a bookable hotel room.
type Room struct {
	ID           RoomID        `bson:"id" json:"id"`
	RoomNumber   string        `bson:"roomNumber" json:"roomNumber"`
	RoomName     string        `bson:"roomName" json:"roomName"`
	ShortDesc    string        `bson:"shortDesc,omitempty" json:"shortDesc,omitempty"`
	Persons      int           `bson:"persons,omitempty" json:"persons,omitempty"`
	Type         string        `bson:"type" json:"type"` // suite, single, double
	Status       RoomStatus    `bson:"status" json:"status"`
	Price        float64       `bson:"price" json:"price"`
	Features     []RoomFeature `bson:"features,omitempty" json:"features,omitempty"`
	Availability Window        `bson:"availability" json:"availability"`
	LastCleaned  *time.Time    `bson:"lastCleaned,omitempty" json:"lastCleaned,omitempty"`
	Comments     string        `bson:"comments,omitempty" json:"comments,omitempty"`
	LockVersion  int64         `bson:"lockVersion" json:"-"`
	CreatedAt    time.Time     `bson:"createdAt" json:"createdAt"`
	UpdatedAt    time.Time     `bson:"updatedAt" json:"updatedAt"`
}

// InService reports whether the room can take reservations at all.
func (r *Room) InService() bool {
	return r.Status != RoomMaintenance && r.Status != RoomUnavailable
}

// ReadyFor reports whether a stay starting at checkIn may be placed on the room.
// Stays that begin at or before now need the room to be available right away;
// future stays are only constrained by the overlap check.
func (r *Room) ReadyFor(checkIn, now time.Time) bool {
	if !r.InService() {
		return false
	}
	if !checkIn.After(now) {
		return r.Status == RoomAvailable
	}
	return true
}

// Summary is the short human label used in notifications.
func (r *Room) Summary() string {
	if r.RoomName == "" {
		return "Room " + r.RoomNumber
	}
	return r.RoomName + " (" + r.RoomNumber + ")"
}
