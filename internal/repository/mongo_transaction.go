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

// MongoTransactionRepository implements domain.TransactionRepository.
// It only ever inserts and reads.
type MongoTransactionRepository struct {
	collection *mongo.Collection
}

func NewMongoTransactionRepository(db *mongo.Database) *MongoTransactionRepository {
	coll := db.Collection("transactions")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	_, _ = coll.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "transaction_id", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{Keys: bson.D{{Key: "membership_number", Value: 1}, {Key: "transaction_date", Value: -1}}},
		{Keys: bson.D{{Key: "transaction_date", Value: -1}}},
	})

	return &MongoTransactionRepository{collection: coll}
}

func (r *MongoTransactionRepository) Append(ctx context.Context, t *domain.Transaction) error {
	objID := primitive.NewObjectID()

	doc := bson.M{
		"_id":               objID,
		"transaction_id":    t.TransactionID,
		"membership_number": t.MembershipNumber,
		"type":              t.Type,
		"description":       t.Description,
		"amount":            t.Amount,
		"payment_method":    t.PaymentMethod,
		"status":            t.Status,
		"transaction_date":  t.TransactionDate,
	}

	if _, err := r.collection.InsertOne(ctx, doc); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("failed to append transaction: %w", err)
	}
	t.ID = objID.Hex()
	return nil
}

// GetByID accepts either the public transaction id or the record id.
func (r *MongoTransactionRepository) GetByID(ctx context.Context, id string) (*domain.Transaction, error) {
	filter := bson.M{"transaction_id": id}
	if objID, err := primitive.ObjectIDFromHex(id); err == nil {
		filter = bson.M{"$or": bson.A{bson.M{"transaction_id": id}, bson.M{"_id": objID}}}
	}

	var raw bson.M
	if err := r.collection.FindOne(ctx, filter).Decode(&raw); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get transaction: %w", err)
	}
	return mapBsonToTransaction(raw), nil
}

func (r *MongoTransactionRepository) List(ctx context.Context, filter domain.TransactionFilter) ([]*domain.Transaction, error) {
	query := bson.M{}
	if filter.Type != "" {
		query["type"] = filter.Type
	}
	if filter.Status != "" {
		query["status"] = filter.Status
	}
	if filter.MembershipNumber != "" {
		query["membership_number"] = filter.MembershipNumber
	}

	// _id breaks ties between entries written in the same millisecond
	opts := options.Find().SetSort(bson.D{{Key: "transaction_date", Value: -1}, {Key: "_id", Value: -1}})
	cursor, err := r.collection.Find(ctx, query, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list transactions: %w", err)
	}
	defer cursor.Close(ctx)

	txns := []*domain.Transaction{}
	for cursor.Next(ctx) {
		var raw bson.M
		if err := cursor.Decode(&raw); err != nil {
			return nil, err
		}
		txns = append(txns, mapBsonToTransaction(raw))
	}
	return txns, cursor.Err()
}

func mapBsonToTransaction(raw bson.M) *domain.Transaction {
	return &domain.Transaction{
		ID:               bsonID(raw),
		TransactionID:    bsonString(raw, "transaction_id"),
		MembershipNumber: bsonString(raw, "membership_number"),
		Type:             bsonString(raw, "type"),
		Description:      bsonString(raw, "description"),
		Amount:           bsonFloat(raw, "amount"),
		PaymentMethod:    bsonString(raw, "payment_method"),
		Status:           bsonString(raw, "status"),
		TransactionDate:  bsonTime(raw, "transaction_date"),
	}
}
