package roomRepo

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

// MongoRoomRepo implements RoomRepository using MongoDB.
type MongoRoomRepo struct {
	coll *mongo.Collection
}

// NewMongoRoomRepo binds the repository to the rooms collection and makes sure
// its indexes exist.
func NewMongoRoomRepo(db *mongo.Database) (*MongoRoomRepo, error) {
	repo := &MongoRoomRepo{coll: db.Collection("rooms")}
	if err := repo.ensureIndexes(); err != nil {
		return nil, err
	}
	return repo, nil
}

func (r *MongoRoomRepo) ensureIndexes() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	indexModels := []mongo.IndexModel{
		{Keys: bson.D{{Key: "id", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "roomNumber", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "status", Value: 1}}},
	}

	if _, err := r.coll.Indexes().CreateMany(ctx, indexModels); err != nil {
		return fmt.Errorf("failed to create room indexes: %w", err)
	}
	return nil
}

func (r *MongoRoomRepo) GetByID(ctx context.Context, id models.RoomID) (*models.Room, error) {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	var room models.Room
	if err := r.coll.FindOne(ctx, bson.M{"id": id}).Decode(&room); err != nil {
		return nil, fmt.Errorf("failed to fetch room %s: %w", id, database.Classify(err))
	}
	return &room, nil
}

// GetForUpdate bumps lockVersion so that the room document is written inside
// the caller's transaction. A second transaction touching the same room then
// fails with a write conflict instead of reading a stale ledger.
func (r *MongoRoomRepo) GetForUpdate(ctx context.Context, id models.RoomID) (*models.Room, error) {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	update := bson.M{"$inc": bson.M{"lockVersion": 1}}

	var room models.Room
	if err := r.coll.FindOneAndUpdate(ctx, bson.M{"id": id}, update, opts).Decode(&room); err != nil {
		return nil, fmt.Errorf("failed to lock room %s: %w", id, database.Classify(err))
	}
	return &room, nil
}

func (r *MongoRoomRepo) SetStatus(ctx context.Context, id models.RoomID, status models.RoomStatus) error {
	return r.set(ctx, id, bson.M{"status": status})
}

func (r *MongoRoomRepo) SetAvailability(ctx context.Context, id models.RoomID, from, to time.Time) error {
	return r.set(ctx, id, bson.M{"availability.from": from, "availability.to": to})
}

func (r *MongoRoomRepo) set(ctx context.Context, id models.RoomID, fields bson.M) error {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	fields["updatedAt"] = time.Now()
	result, err := r.coll.UpdateOne(ctx, bson.M{"id": id}, bson.M{"$set": fields})
	if err != nil {
		return fmt.Errorf("failed to update room %s: %w", id, database.Classify(err))
	}
	if result.MatchedCount == 0 {
		return fmt.Errorf("room %s: %w", id, database.ErrNotFound)
	}
	return nil
}

func (r *MongoRoomRepo) Create(ctx context.Context, room *models.Room) error {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	now := time.Now()
	room.CreatedAt = now
	room.UpdatedAt = now
	if room.Status == "" {
		room.Status = models.RoomAvailable
	}

	if _, err := r.coll.InsertOne(ctx, room); err != nil {
		return fmt.Errorf("failed to create room %s: %w", room.RoomNumber, database.Classify(err))
	}
	return nil
}

func (r *MongoRoomRepo) List(ctx context.Context) ([]models.Room, error) {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "roomNumber", Value: 1}})
	cursor, err := r.coll.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list rooms: %w", database.Classify(err))
	}
	defer cursor.Close(ctx)

	var rooms []models.Room
	if err := cursor.All(ctx, &rooms); err != nil {
		return nil, fmt.Errorf("failed to decode rooms: %w", err)
	}
	return rooms, nil
}
