package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/mansoorceksport/clubhouse/internal/domain"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoDurationRepository implements domain.DurationRepository
type MongoDurationRepository struct {
	collection *mongo.Collection
}

func NewMongoDurationRepository(db *mongo.Database) *MongoDurationRepository {
	coll := db.Collection("durations")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	_, _ = coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "duration_months", Value: 1}},
		Options: options.Index().SetUnique(true),
	})

	return &MongoDurationRepository{collection: coll}
}

func (r *MongoDurationRepository) Create(ctx context.Context, d *domain.DurationOption) error {
	now := time.Now().UTC()
	d.CreatedAt = now
	d.UpdatedAt = now
	objID := primitive.NewObjectID()

	doc := bson.M{
		"_id":             objID,
		"duration_months": d.DurationMonths,
		"price":           d.Price,
		"created_at":      d.CreatedAt,
		"updated_at":      d.UpdatedAt,
	}

	if _, err := r.collection.InsertOne(ctx, doc); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("failed to create duration: %w", err)
	}
	d.ID = objID.Hex()
	return nil
}

func (r *MongoDurationRepository) GetByID(ctx context.Context, id string) (*domain.DurationOption, error) {
	objID, err := parseObjectID(id)
	if err != nil {
		return nil, err
	}
	return r.findOne(ctx, bson.M{"_id": objID})
}

func (r *MongoDurationRepository) GetByMonths(ctx context.Context, months int) (*domain.DurationOption, error) {
	return r.findOne(ctx, bson.M{"duration_months": months})
}

func (r *MongoDurationRepository) findOne(ctx context.Context, filter bson.M) (*domain.DurationOption, error) {
	var raw bson.M
	if err := r.collection.FindOne(ctx, filter).Decode(&raw); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get duration: %w", err)
	}
	return mapBsonToDuration(raw), nil
}

// List returns every option, shortest first.
func (r *MongoDurationRepository) List(ctx context.Context) ([]*domain.DurationOption, error) {
	opts := options.Find().SetSort(bson.D{{Key: "duration_months", Value: 1}})
	cursor, err := r.collection.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list durations: %w", err)
	}
	defer cursor.Close(ctx)

	durations := []*domain.DurationOption{}
	for cursor.Next(ctx) {
		var raw bson.M
		if err := cursor.Decode(&raw); err != nil {
			return nil, err
		}
		durations = append(durations, mapBsonToDuration(raw))
	}
	return durations, cursor.Err()
}

func (r *MongoDurationRepository) Update(ctx context.Context, d *domain.DurationOption) error {
	objID, err := parseObjectID(d.ID)
	if err != nil {
		return err
	}

	d.UpdatedAt = time.Now().UTC()
	update := bson.M{
		"$set": bson.M{
			"duration_months": d.DurationMonths,
			"price":           d.Price,
			"updated_at":      d.UpdatedAt,
		},
	}

	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": objID}, update)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("failed to update duration: %w", err)
	}
	if result.MatchedCount == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *MongoDurationRepository) Delete(ctx context.Context, id string) error {
	objID, err := parseObjectID(id)
	if err != nil {
		return err
	}
	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": objID})
	if err != nil {
		return fmt.Errorf("failed to delete duration: %w", err)
	}
	if result.DeletedCount == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func mapBsonToDuration(raw bson.M) *domain.DurationOption {
	return &domain.DurationOption{
		ID:             bsonID(raw),
		DurationMonths: bsonInt(raw, "duration_months"),
		Price:          bsonFloat(raw, "price"),
		CreatedAt:      bsonTime(raw, "created_at"),
		UpdatedAt:      bsonTime(raw, "updated_at"),
	}
}
