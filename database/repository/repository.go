package repository

import (
	billingRepo "hotelops/database/repository/billing"
	guestRepo "hotelops/database/repository/guest"
	notificationRepo "hotelops/database/repository/notification"
	reservationRepo "hotelops/database/repository/reservation"
	roomRepo "hotelops/database/repository/room"

	"go.mongodb.org/mongo-driver/mongo"
)

// Re-export the repository interfaces.
type (
	RoomRepository         = roomRepo.RoomRepository
	GuestRepository        = guestRepo.GuestRepository
	ReservationRepository  = reservationRepo.ReservationRepository
	BillingRepository      = billingRepo.BillingRepository
	NotificationRepository = notificationRepo.NotificationRepository
)

// Set bundles every repository the booking core needs.
type Set struct {
	Rooms         RoomRepository
	Guests        GuestRepository
	Reservations  ReservationRepository
	Billings      BillingRepository
	Notifications NotificationRepository
}

// NewMongoSet opens every collection on db and ensures its indexes.
func NewMongoSet(db *mongo.Database) (*Set, error) {
	rooms, err := roomRepo.NewMongoRoomRepo(db)
	if err != nil {
		return nil, err
	}
	guests, err := guestRepo.NewMongoGuestRepo(db)
	if err != nil {
		return nil, err
	}
	reservations, err := reservationRepo.NewMongoReservationRepo(db)
	if err != nil {
		return nil, err
	}
	billings, err := billingRepo.NewMongoBillingRepo(db)
	if err != nil {
		return nil, err
	}
	notifications, err := notificationRepo.NewMongoNotificationRepo(db)
	if err != nil {
		return nil, err
	}
	return &Set{
		Rooms:         rooms,
		Guests:        guests,
		Reservations:  reservations,
		Billings:      billings,
		Notifications: notifications,
	}, nil
}
