package reservationRepo

import (
	"context"
	"fmt"
	"time"

	"hotelops/database"
	"hotelops/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const opTimeout = 5 * time.Second

// MongoReservationRepo implements ReservationRepository using MongoDB.
type MongoReservationRepo struct {
	coll *mongo.Collection
}

func NewMongoReservationRepo(db *mongo.Database) (*MongoReservationRepo, error) {
	repo := &MongoReservationRepo{coll: db.Collection("reservations")}
	if err := repo.ensureIndexes(); err != nil {
		return nil, err
	}
	return repo, nil
}

func (r *MongoReservationRepo) Insert(ctx context.Context, res *models.Reservation) error {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	res.UpdatedAt = time.Now()
	if _, err := r.coll.InsertOne(ctx, res); err != nil {
		return fmt.Errorf("failed to insert reservation %s: %w", res.ID, database.Classify(err))
	}
	return nil
}

func (r *MongoReservationRepo) GetByID(ctx context.Context, id models.ReservationID) (*models.Reservation, error) {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	var res models.Reservation
	if err := r.coll.FindOne(ctx, bson.M{"id": id}).Decode(&res); err != nil {
		return nil, fmt.Errorf("failed to fetch reservation %s: %w", id, database.Classify(err))
	}
	return &res, nil
}

func (r *MongoReservationRepo) FindOverlapping(ctx context.Context, roomID models.RoomID, checkIn, checkOut time.Time, exclude []models.ReservationStatus) ([]models.Reservation, error) {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	filter := overlapFilter(checkIn, checkOut, exclude)
	filter["room"] = roomID

	cursor, err := r.coll.Find(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to query overlapping reservations for room %s: %w", roomID, database.Classify(err))
	}
	defer cursor.Close(ctx)

	var out []models.Reservation
	if err := cursor.All(ctx, &out); err != nil {
		return nil, fmt.Errorf("failed to decode reservations: %w", err)
	}
	return out, nil
}

func (r *MongoReservationRepo) UpdateStatus(ctx context.Context, id models.ReservationID, status models.ReservationStatus) error {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	update := bson.M{"$set": bson.M{"status": status, "updatedAt": time.Now()}}
	result, err := r.coll.UpdateOne(ctx, bson.M{"id": id}, update)
	if err != nil {
		return fmt.Errorf("failed to update reservation %s: %w", id, database.Classify(err))
	}
	if result.MatchedCount == 0 {
		return fmt.Errorf("reservation %s: %w", id, database.ErrNotFound)
	}
	return nil
}

func (r *MongoReservationRepo) BookedRoomIDs(ctx context.Context, from, to time.Time, exclude []models.ReservationStatus) ([]models.RoomID, error) {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	values, err := r.coll.Distinct(ctx, "room", overlapFilter(from, to, exclude))
	if err != nil {
		return nil, fmt.Errorf("failed to list booked rooms: %w", database.Classify(err))
	}

	ids := make([]models.RoomID, 0, len(values))
	for _, v := range values {
		if s, ok := v.(string); ok {
			ids = append(ids, models.RoomID(s))
		}
	}
	return ids, nil
}

func (r *MongoReservationRepo) ListByGuest(ctx context.Context, guestID models.GuestID) ([]models.Reservation, error) {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "checkIn", Value: -1}})
	cursor, err := r.coll.Find(ctx, bson.M{"guest": guestID}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list reservations for guest %s: %w", guestID, database.Classify(err))
	}
	defer cursor.Close(ctx)

	var out []models.Reservation
	if err := cursor.All(ctx, &out); err != nil {
		return nil, fmt.Errorf("failed to decode reservations: %w", err)
	}
	return out, nil
}

// overlapFilter matches stays with existing.checkIn < checkOut and
// existing.checkOut > checkIn. Back-to-back stays share an endpoint and do
// not match.
func overlapFilter(checkIn, checkOut time.Time, exclude []models.ReservationStatus) bson.M {
	filter := bson.M{
		"checkIn":  bson.M{"$lt": checkOut},
		"checkOut": bson.M{"$gt": checkIn},
	}
	if len(exclude) > 0 {
		filter["status"] = bson.M{"$nin": exclude}
	}
	return filter
}
