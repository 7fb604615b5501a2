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

// MongoMaintenanceRepository implements domain.MaintenanceRepository
type MongoMaintenanceRepository struct {
	collection *mongo.Collection
}

func NewMongoMaintenanceRepository(db *mongo.Database) *MongoMaintenanceRepository {
	coll := db.Collection("maintenance_tasks")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	_, _ = coll.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "scheduled_date", Value: 1}}},
		{Keys: bson.D{{Key: "status", Value: 1}}},
	})

	return &MongoMaintenanceRepository{collection: coll}
}

func (r *MongoMaintenanceRepository) Create(ctx context.Context, t *domain.MaintenanceTask) error {
	now := time.Now().UTC()
	t.CreatedAt = now
	t.UpdatedAt = now
	objID := primitive.NewObjectID()

	doc := maintenanceFields(t)
	doc["_id"] = objID
	doc["created_at"] = t.CreatedAt

	if _, err := r.collection.InsertOne(ctx, doc); err != nil {
		return fmt.Errorf("failed to create maintenance task: %w", err)
	}
	t.ID = objID.Hex()
	return nil
}

func (r *MongoMaintenanceRepository) GetByID(ctx context.Context, id string) (*domain.MaintenanceTask, error) {
	objID, err := parseObjectID(id)
	if err != nil {
		return nil, err
	}

	var raw bson.M
	if err := r.collection.FindOne(ctx, bson.M{"_id": objID}).Decode(&raw); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get maintenance task: %w", err)
	}
	return mapBsonToMaintenance(raw), nil
}

func (r *MongoMaintenanceRepository) List(ctx context.Context) ([]*domain.MaintenanceTask, error) {
	opts := options.Find().SetSort(bson.D{{Key: "scheduled_date", Value: 1}})
	cursor, err := r.collection.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list maintenance tasks: %w", err)
	}
	defer cursor.Close(ctx)

	tasks := []*domain.MaintenanceTask{}
	for cursor.Next(ctx) {
		var raw bson.M
		if err := cursor.Decode(&raw); err != nil {
			return nil, err
		}
		tasks = append(tasks, mapBsonToMaintenance(raw))
	}
	return tasks, cursor.Err()
}

func (r *MongoMaintenanceRepository) Update(ctx context.Context, t *domain.MaintenanceTask) error {
	objID, err := parseObjectID(t.ID)
	if err != nil {
		return err
	}

	t.UpdatedAt = time.Now().UTC()
	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": objID}, bson.M{"$set": maintenanceFields(t)})
	if err != nil {
		return fmt.Errorf("failed to update maintenance task: %w", err)
	}
	if result.MatchedCount == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *MongoMaintenanceRepository) Delete(ctx context.Context, id string) error {
	objID, err := parseObjectID(id)
	if err != nil {
		return err
	}
	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": objID})
	if err != nil {
		return fmt.Errorf("failed to delete maintenance task: %w", err)
	}
	if result.DeletedCount == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// maintenanceFields holds every mutable column.
func maintenanceFields(t *domain.MaintenanceTask) bson.M {
	doc := bson.M{
		"title":           t.Title,
		"description":     t.Description,
		"category":        t.Category,
		"priority":        t.Priority,
		"status":          t.Status,
		"assigned_to":     t.AssignedTo,
		"cost":            t.Cost,
		"scheduled_date":  t.ScheduledDate,
		"completion_date": nil,
		"notes":           t.Notes,
		"updated_at":      t.UpdatedAt,
	}
	if t.CompletionDate != nil {
		doc["completion_date"] = *t.CompletionDate
	}
	return doc
}

func mapBsonToMaintenance(raw bson.M) *domain.MaintenanceTask {
	t := &domain.MaintenanceTask{
		ID:            bsonID(raw),
		Title:         bsonString(raw, "title"),
		Description:   bsonString(raw, "description"),
		Category:      bsonString(raw, "category"),
		Priority:      bsonString(raw, "priority"),
		Status:        bsonString(raw, "status"),
		AssignedTo:    bsonString(raw, "assigned_to"),
		Cost:          bsonFloat(raw, "cost"),
		ScheduledDate: bsonTime(raw, "scheduled_date"),
		Notes:         bsonString(raw, "notes"),
		CreatedAt:     bsonTime(raw, "created_at"),
		UpdatedAt:     bsonTime(raw, "updated_at"),
	}
	if done := bsonTime(raw, "completion_date"); !done.IsZero() {
		t.CompletionDate = &done
	}
	return t
}
