package billingRepo

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

// MongoBillingRepo implements BillingRepository using MongoDB.
type MongoBillingRepo struct {
	coll *mongo.Collection
}

func NewMongoBillingRepo(db *mongo.Database) (*MongoBillingRepo, error) {
	repo := &MongoBillingRepo{coll: db.Collection("billings")}
	if err := repo.ensureIndexes(); err != nil {
		return nil, err
	}
	return repo, nil
}

// ensureIndexes keeps one invoice per reservation.
func (r *MongoBillingRepo) ensureIndexes() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	indexModels := []mongo.IndexModel{
		{Keys: bson.D{{Key: "id", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "reservation", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "guest", Value: 1}, {Key: "status", Value: 1}}},
	}

	if _, err := r.coll.Indexes().CreateMany(ctx, indexModels); err != nil {
		return fmt.Errorf("failed to create billing indexes: %w", err)
	}
	return nil
}

func (r *MongoBillingRepo) Insert(ctx context.Context, bill *models.Billing) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if _, err := r.coll.InsertOne(ctx, bill); err != nil {
		return fmt.Errorf("failed to insert billing %s: %w", bill.ID, database.Classify(err))
	}
	return nil
}

func (r *MongoBillingRepo) GetByID(ctx context.Context, id models.BillingID) (*models.Billing, error) {
	return r.findOne(ctx, bson.M{"id": id})
}

func (r *MongoBillingRepo) GetByReservation(ctx context.Context, id models.ReservationID) (*models.Billing, error) {
	return r.findOne(ctx, bson.M{"reservation": id})
}

func (r *MongoBillingRepo) findOne(ctx context.Context, filter bson.M) (*models.Billing, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var bill models.Billing
	if err := r.coll.FindOne(ctx, filter).Decode(&bill); err != nil {
		return nil, fmt.Errorf("failed to fetch billing %v: %w", filter, database.Classify(err))
	}
	return &bill, nil
}

func (r *MongoBillingRepo) MarkPaid(ctx context.Context, id models.BillingID, paidAt time.Time) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	update := bson.M{"$set": bson.M{"status": models.BillingPaid, "paidAt": paidAt}}
	result, err := r.coll.UpdateOne(ctx, bson.M{"id": id}, update)
	if err != nil {
		return fmt.Errorf("failed to mark billing %s paid: %w", id, database.Classify(err))
	}
	if result.MatchedCount == 0 {
		return fmt.Errorf("billing %s: %w", id, database.ErrNotFound)
	}
	return nil
}
