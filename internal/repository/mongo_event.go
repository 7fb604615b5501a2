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

// MongoEventRepository implements domain.EventRepository
type MongoEventRepository struct {
	collection *mongo.Collection
}

func NewMongoEventRepository(db *mongo.Database) *MongoEventRepository {
	coll := db.Collection("events")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	_, _ = coll.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "event_date", Value: 1}}},
		{Keys: bson.D{{Key: "status", Value: 1}}},
	})

	return &MongoEventRepository{collection: coll}
}

func (r *MongoEventRepository) Create(ctx context.Context, e *domain.Event) error {
	now := time.Now().UTC()
	e.CreatedAt = now
	e.UpdatedAt = now
	if e.RegisteredMembers == nil {
		e.RegisteredMembers = []domain.EventRegistration{}
	}
	objID := primitive.NewObjectID()

	doc := bson.M{
		"_id":                objID,
		"event_name":         e.EventName,
		"event_date":         e.EventDate,
		"location":           e.Location,
		"description":        e.Description,
		"capacity":           e.Capacity,
		"registrations":      e.Registrations,
		"registered_members": registrationsToBson(e.RegisteredMembers),
		"status":             e.Status,
		"created_at":         e.CreatedAt,
		"updated_at":         e.UpdatedAt,
	}

	if _, err := r.collection.InsertOne(ctx, doc); err != nil {
		return fmt.Errorf("failed to create event: %w", err)
	}
	e.ID = objID.Hex()
	return nil
}

func (r *MongoEventRepository) GetByID(ctx context.Context, id string) (*domain.Event, error) {
	objID, err := parseObjectID(id)
	if err != nil {
		return nil, err
	}

	var raw bson.M
	if err := r.collection.FindOne(ctx, bson.M{"_id": objID}).Decode(&raw); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get event: %w", err)
	}
	return mapBsonToEvent(raw), nil
}

// List returns events ordered by date, soonest first.
func (r *MongoEventRepository) List(ctx context.Context) ([]*domain.Event, error) {
	opts := options.Find().SetSort(bson.D{{Key: "event_date", Value: 1}})
	cursor, err := r.collection.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list events: %w", err)
	}
	defer cursor.Close(ctx)

	events := []*domain.Event{}
	for cursor.Next(ctx) {
		var raw bson.M
		if err := cursor.Decode(&raw); err != nil {
			return nil, err
		}
		events = append(events, mapBsonToEvent(raw))
	}
	return events, cursor.Err()
}

// Update persists the descriptive fields. Seats are only changed through
// AddRegistration and RemoveRegistration, so the capacity check sits in the
// filter to race safely with them.
func (r *MongoEventRepository) Update(ctx context.Context, e *domain.Event) error {
	objID, err := parseObjectID(e.ID)
	if err != nil {
		return err
	}

	e.UpdatedAt = time.Now().UTC()
	update := bson.M{
		"$set": bson.M{
			"event_name":  e.EventName,
			"event_date":  e.EventDate,
			"location":    e.Location,
			"description": e.Description,
			"capacity":    e.Capacity,
			"status":      e.Status,
			"updated_at":  e.UpdatedAt,
		},
	}

	filter := bson.M{
		"_id":           objID,
		"registrations": bson.M{"$lte": e.Capacity},
	}
	result, err := r.collection.UpdateOne(ctx, filter, update)
	if err != nil {
		return fmt.Errorf("failed to update event: %w", err)
	}
	if result.MatchedCount == 0 {
		n, err := r.collection.CountDocuments(ctx, bson.M{"_id": objID})
		if err != nil {
			return fmt.Errorf("failed to update event: %w", err)
		}
		if n > 0 {
			return domain.ErrCapacityTooLow
		}
		return domain.ErrNotFound
	}
	return nil
}

func (r *MongoEventRepository) Delete(ctx context.Context, id string) error {
	objID, err := parseObjectID(id)
	if err != nil {
		return err
	}
	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": objID})
	if err != nil {
		return fmt.Errorf("failed to delete event: %w", err)
	}
	if result.DeletedCount == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// AddRegistration takes a seat only while registrations < capacity and the
// member holds no seat yet, in a single conditional update.
func (r *MongoEventRepository) AddRegistration(ctx context.Context, eventID string, reg domain.EventRegistration) (bool, error) {
	objID, err := parseObjectID(eventID)
	if err != nil {
		return false, err
	}

	filter := bson.M{
		"_id":                                  objID,
		"$expr":                                bson.M{"$lt": bson.A{"$registrations", "$capacity"}},
		"registered_members.membership_number": bson.M{"$ne": reg.MembershipNumber},
	}
	update := bson.M{
		"$push": bson.M{"registered_members": bson.M{
			"membership_number": reg.MembershipNumber,
			"registered_at":     reg.RegisteredAt,
		}},
		"$inc": bson.M{"registrations": 1},
		"$set": bson.M{"updated_at": time.Now().UTC()},
	}

	result, err := r.collection.UpdateOne(ctx, filter, update)
	if err != nil {
		return false, fmt.Errorf("failed to register for event: %w", err)
	}
	return result.ModifiedCount == 1, nil
}

// RemoveRegistration releases the member's seat, never taking registrations
// below zero.
func (r *MongoEventRepository) RemoveRegistration(ctx context.Context, eventID, number string) (bool, error) {
	objID, err := parseObjectID(eventID)
	if err != nil {
		return false, err
	}

	filter := bson.M{
		"_id":                                  objID,
		"registrations":                        bson.M{"$gt": 0},
		"registered_members.membership_number": number,
	}
	update := bson.M{
		"$pull": bson.M{"registered_members": bson.M{"membership_number": number}},
		"$inc":  bson.M{"registrations": -1},
		"$set":  bson.M{"updated_at": time.Now().UTC()},
	}

	result, err := r.collection.UpdateOne(ctx, filter, update)
	if err != nil {
		return false, fmt.Errorf("failed to unregister from event: %w", err)
	}
	return result.ModifiedCount == 1, nil
}

func registrationsToBson(regs []domain.EventRegistration) bson.A {
	out := bson.A{}
	for _, reg := range regs {
		out = append(out, bson.M{
			"membership_number": reg.MembershipNumber,
			"registered_at":     reg.RegisteredAt,
		})
	}
	return out
}

func mapBsonToEvent(raw bson.M) *domain.Event {
	e := &domain.Event{
		ID:                bsonID(raw),
		EventName:         bsonString(raw, "event_name"),
		EventDate:         bsonTime(raw, "event_date"),
		Location:          bsonString(raw, "location"),
		Description:       bsonString(raw, "description"),
		Capacity:          bsonInt(raw, "capacity"),
		Registrations:     bsonInt(raw, "registrations"),
		RegisteredMembers: []domain.EventRegistration{},
		Status:            bsonString(raw, "status"),
		CreatedAt:         bsonTime(raw, "created_at"),
		UpdatedAt:         bsonTime(raw, "updated_at"),
	}

	if regs, ok := raw["registered_members"].(bson.A); ok {
		for _, item := range regs {
			doc := bsonDoc(item)
			if doc == nil {
				continue
			}
			e.RegisteredMembers = append(e.RegisteredMembers, domain.EventRegistration{
				MembershipNumber: bsonString(doc, "membership_number"),
				RegisteredAt:     bsonTime(doc, "registered_at"),
			})
		}
	}
	return e
}
