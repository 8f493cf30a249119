package guestRepo

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

// MongoGuestRepo implements GuestRepository on the shared users collection.
type MongoGuestRepo struct {
	coll *mongo.Collection
}

func NewMongoGuestRepo(db *mongo.Database) (*MongoGuestRepo, error) {
	repo := &MongoGuestRepo{coll: db.Collection("users")}
	if err := repo.ensureIndexes(); err != nil {
		return nil, err
	}
	return repo, nil
}

// ensureIndexes creates the uniqueness constraints the booking flow relies on.
// Email is only unique when present.
func (r *MongoGuestRepo) ensureIndexes() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	emailPresent := bson.M{"profile.contact.email": bson.M{"$gt": ""}}
	indexModels := []mongo.IndexModel{
		{Keys: bson.D{{Key: "id", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "username", Value: 1}}, Options: options.Index().SetUnique(true)},
		{
			Keys:    bson.D{{Key: "profile.contact.email", Value: 1}},
			Options: options.Index().SetUnique(true).SetPartialFilterExpression(emailPresent),
		},
	}

	if _, err := r.coll.Indexes().CreateMany(ctx, indexModels); err != nil {
		return fmt.Errorf("failed to create user indexes: %w", err)
	}
	return nil
}

func (r *MongoGuestRepo) GetByID(ctx context.Context, id models.GuestID) (*models.Guest, error) {
	return r.findOne(ctx, bson.M{"id": id})
}

func (r *MongoGuestRepo) GetByUsername(ctx context.Context, username string) (*models.Guest, error) {
	return r.findOne(ctx, bson.M{"username": username})
}

func (r *MongoGuestRepo) findOne(ctx context.Context, filter bson.M) (*models.Guest, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var guest models.Guest
	if err := r.coll.FindOne(ctx, filter).Decode(&guest); err != nil {
		return nil, fmt.Errorf("failed to fetch user %v: %w", filter, database.Classify(err))
	}
	return &guest, nil
}

// Create inserts a new user document.
func (r *MongoGuestRepo) Create(ctx context.Context, guest *models.Guest) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	now := time.Now()
	guest.CreatedAt = now
	guest.UpdatedAt = now

	if _, err := r.coll.InsertOne(ctx, guest); err != nil {
		return fmt.Errorf("failed to create user %s: %w", guest.Username, database.Classify(err))
	}
	return nil
}
