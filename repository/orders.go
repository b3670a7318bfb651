package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/jarenkendrick14/Dropify/models"
)

const ordersCollection = "orders"

// OrderFilter selects orders for the admin listing. When FilterByOwner
// is set only orders owned by one of OwnerIDs match; an empty OwnerIDs
// set then matches nothing (a username search with no hits).
type OrderFilter struct {
	OwnerIDs      []primitive.ObjectID
	FilterByOwner bool
	Sort          string
}

type OrderRepository interface {
	Create(ctx context.Context, order *models.Order) error
	List(ctx context.Context, filter OrderFilter) ([]models.Order, error)
	SetStatus(ctx context.Context, id primitive.ObjectID, status string) (*models.Order, error)
	Delete(ctx context.Context, id primitive.ObjectID) error
}

type mongoOrderRepository struct {
	collection *mongo.Collection
}

func NewOrderRepository(db *mongo.Database) OrderRepository {
	return &mongoOrderRepository{collection: db.Collection(ordersCollection)}
}

func (m *mongoOrderRepository) Create(ctx context.Context, order *models.Order) error {
	now := time.Now()
	order.CreatedAt = now
	order.UpdatedAt = now

	result, err := m.collection.InsertOne(ctx, order)
	if err != nil {
		return fmt.Errorf("failed to create order: %w", err)
	}

	order.ID = result.InsertedID.(primitive.ObjectID)
	return nil
}

func (m *mongoOrderRepository) List(ctx context.Context, filter OrderFilter) ([]models.Order, error) {
	query := bson.M{}
	if filter.FilterByOwner {
		ids := filter.OwnerIDs
		if ids == nil {
			ids = []primitive.ObjectID{}
		}
		query["user"] = bson.M{"$in": ids}
	}

	sort := ParseSort(filter.Sort, bson.D{{Key: "createdAt", Value: -1}})
	cursor, err := m.collection.Find(ctx, query, options.Find().SetSort(sort))
	if err != nil {
		return nil, fmt.Errorf("failed to list orders: %w", err)
	}

	var orders []models.Order
	if err := cursor.All(ctx, &orders); err != nil {
		return nil, fmt.Errorf("failed to decode orders: %w", err)
	}
	return orders, nil
}

// SetStatus overwrites the status label. The value is not validated
// against the known statuses; admins may set any text.
func (m *mongoOrderRepository) SetStatus(ctx context.Context, id primitive.ObjectID, status string) (*models.Order, error) {
	update := bson.M{"$set": bson.M{
		"status":    status,
		"updatedAt": time.Now(),
	}}

	var order models.Order
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	err := m.collection.FindOneAndUpdate(ctx, bson.M{"_id": id}, update, opts).Decode(&order)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to update order status: %w", err)
	}
	return &order, nil
}

func (m *mongoOrderRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	result, err := m.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("failed to delete order: %w", err)
	}
	if result.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}
