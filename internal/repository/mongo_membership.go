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

// MongoMembershipRepository implements domain.MembershipRepository
type MongoMembershipRepository struct {
	collection *mongo.Collection
}

func NewMongoMembershipRepository(db *mongo.Database) *MongoMembershipRepository {
	coll := db.Collection("memberships")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	_, _ = coll.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "membership_number", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		// Serves the expiry sweep filter
		{Keys: bson.D{{Key: "status", Value: 1}, {Key: "end_date", Value: 1}}},
	})

	return &MongoMembershipRepository{collection: coll}
}

func (r *MongoMembershipRepository) Create(ctx context.Context, m *domain.Membership) error {
	now := time.Now().UTC()
	m.CreatedAt = now
	m.UpdatedAt = now
	objID := primitive.NewObjectID()

	doc := bson.M{
		"_id":               objID,
		"membership_number": m.MembershipNumber,
		"first_name":        m.FirstName,
		"last_name":         m.LastName,
		"email":             m.Email,
		"phone":             m.Phone,
		"address":           m.Address,
		"duration_months":   m.DurationMonths,
		"duration":          m.Duration,
		"start_date":        m.StartDate,
		"end_date":          m.EndDate,
		"status":            m.Status,
		"created_at":        m.CreatedAt,
		"updated_at":        m.UpdatedAt,
	}

	if _, err := r.collection.InsertOne(ctx, doc); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("failed to create membership: %w", err)
	}
	m.ID = objID.Hex()
	return nil
}

func (r *MongoMembershipRepository) GetByNumber(ctx context.Context, number string) (*domain.Membership, error) {
	var raw bson.M
	if err := r.collection.FindOne(ctx, bson.M{"membership_number": number}).Decode(&raw); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get membership: %w", err)
	}
	return mapBsonToMembership(raw), nil
}

// GetByNumbers returns the memberships that exist among numbers. Missing
// numbers are skipped.
func (r *MongoMembershipRepository) GetByNumbers(ctx context.Context, numbers []string) ([]*domain.Membership, error) {
	if len(numbers) == 0 {
		return []*domain.Membership{}, nil
	}
	return r.find(ctx, bson.M{"membership_number": bson.M{"$in": numbers}})
}

// List returns all memberships, newest first.
func (r *MongoMembershipRepository) List(ctx context.Context) ([]*domain.Membership, error) {
	return r.find(ctx, bson.M{})
}

func (r *MongoMembershipRepository) find(ctx context.Context, filter bson.M) ([]*domain.Membership, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list memberships: %w", err)
	}
	defer cursor.Close(ctx)

	memberships := []*domain.Membership{}
	for cursor.Next(ctx) {
		var raw bson.M
		if err := cursor.Decode(&raw); err != nil {
			return nil, err
		}
		memberships = append(memberships, mapBsonToMembership(raw))
	}
	return memberships, cursor.Err()
}

func (r *MongoMembershipRepository) Update(ctx context.Context, m *domain.Membership) error {
	m.UpdatedAt = time.Now().UTC()
	update := bson.M{
		"$set": bson.M{
			"first_name":      m.FirstName,
			"last_name":       m.LastName,
			"email":           m.Email,
			"phone":           m.Phone,
			"address":         m.Address,
			"duration_months": m.DurationMonths,
			"duration":        m.Duration,
			"start_date":      m.StartDate,
			"end_date":        m.EndDate,
			"status":          m.Status,
			"updated_at":      m.UpdatedAt,
		},
	}

	result, err := r.collection.UpdateOne(ctx, bson.M{"membership_number": m.MembershipNumber}, update)
	if err != nil {
		return fmt.Errorf("failed to update membership: %w", err)
	}
	if result.MatchedCount == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// MarkExpired persists a lazily detected expiry. Only active records change.
func (r *MongoMembershipRepository) MarkExpired(ctx context.Context, number string) error {
	_, err := r.collection.UpdateOne(ctx,
		bson.M{"membership_number": number, "status": domain.MembershipStatusActive},
		bson.M{"$set": bson.M{"status": domain.MembershipStatusExpired, "updated_at": time.Now().UTC()}},
	)
	if err != nil {
		return fmt.Errorf("failed to mark membership expired: %w", err)
	}
	return nil
}

// ExpireDue flips every active membership whose end date has been reached.
// The filter matches domain.IsPastEnd: end_date <= now.
func (r *MongoMembershipRepository) ExpireDue(ctx context.Context, now time.Time) (int64, error) {
	result, err := r.collection.UpdateMany(ctx,
		bson.M{
			"status":   domain.MembershipStatusActive,
			"end_date": bson.M{"$lte": now},
		},
		bson.M{"$set": bson.M{"status": domain.MembershipStatusExpired, "updated_at": now}},
	)
	if err != nil {
		return 0, fmt.Errorf("failed to expire memberships: %w", err)
	}
	return result.ModifiedCount, nil
}

func mapBsonToMembership(raw bson.M) *domain.Membership {
	return &domain.Membership{
		ID:               bsonID(raw),
		MembershipNumber: bsonString(raw, "membership_number"),
		FirstName:        bsonString(raw, "first_name"),
		LastName:         bsonString(raw, "last_name"),
		Email:            bsonString(raw, "email"),
		Phone:            bsonString(raw, "phone"),
		Address:          bsonString(raw, "address"),
		DurationMonths:   bsonInt(raw, "duration_months"),
		Duration:         bsonString(raw, "duration"),
		StartDate:        bsonTime(raw, "start_date"),
		EndDate:          bsonTime(raw, "end_date"),
		Status:           bsonString(raw, "status"),
		CreatedAt:        bsonTime(raw, "created_at"),
		UpdatedAt:        bsonTime(raw, "updated_at"),
	}
}
