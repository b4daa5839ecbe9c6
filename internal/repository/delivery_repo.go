package repository

import (
	"context"
	"time"

	"eatprofile/internal/model"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// DeliveryRepo handles MongoDB operations for the report delivery log
type DeliveryRepo interface {
	Record(ctx context.Context, record *model.DeliveryRecord) (string, error)
	ListRecent(ctx context.Context, limit int) ([]*model.DeliveryRecord, error)
	ListBySubmission(ctx context.Context, submissionID string) ([]*model.DeliveryRecord, error)
	CountByStatus(ctx context.Context) (map[model.DeliveryStatus]int64, error)
}

type deliveryRepo struct {
	collection *mongo.Collection
}

// NewDeliveryRepo creates a new delivery repository
func NewDeliveryRepo(db *mongo.Database) DeliveryRepo {
	return &deliveryRepo{
		collection: db.Collection("deliveries"),
	}
}

// EnsureIndexes creates the indexes the delivery queries rely on
func EnsureIndexes(ctx context.Context, db *mongo.Database) error {
	_, err := db.Collection("deliveries").Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "submissionId", Value: 1}}},
		{Keys: bson.D{{Key: "attemptedAt", Value: -1}}},
	})
	return err
}

func (r *deliveryRepo) Record(ctx context.Context, record *model.DeliveryRecord) (string, error) {
	if record.AttemptedAt.IsZero() {
		record.AttemptedAt = time.Now()
	}

	result, err := r.collection.InsertOne(ctx, record)
	if err != nil {
		return "", err
	}

	oid, ok := result.InsertedID.(primitive.ObjectID)
	if !ok {
		return "", nil
	}
	record.ID = oid.Hex()
	return record.ID, nil
}

func (r *deliveryRepo) ListRecent(ctx context.Context, limit int) ([]*model.DeliveryRecord, error) {
	opts := options.Find().SetSort(bson.D{{Key: "attemptedAt", Value: -1}}).SetLimit(int64(limit))
	return r.find(ctx, bson.M{}, opts)
}

func (r *deliveryRepo) ListBySubmission(ctx context.Context, submissionID string) ([]*model.DeliveryRecord, error) {
	opts := options.Find().SetSort(bson.D{{Key: "attemptedAt", Value: 1}})
	return r.find(ctx, bson.M{"submissionId": submissionID}, opts)
}

func (r *deliveryRepo) CountByStatus(ctx context.Context) (map[model.DeliveryStatus]int64, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$group", Value: bson.D{
			{Key: "_id", Value: "$status"},
			{Key: "count", Value: bson.D{{Key: "$sum", Value: 1}}},
		}}},
	}
	cursor, err := r.collection.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var rows []struct {
		Status model.DeliveryStatus `bson:"_id"`
		Count  int64                `bson:"count"`
	}
	if err := cursor.All(ctx, &rows); err != nil {
		return nil, err
	}

	counts := make(map[model.DeliveryStatus]int64, len(rows))
	for _, row := range rows {
		counts[row.Status] = row.Count
	}
	return counts, nil
}

func (r *deliveryRepo) find(ctx context.Context, filter bson.M, opts *options.FindOptions) ([]*model.DeliveryRecord, error) {
	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	records := []*model.DeliveryRecord{}
	if err := cursor.All(ctx, &records); err != nil {
		return nil, err
	}
	return records, nil
}
