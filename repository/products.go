package repository

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/jarenkendrick14/Dropify/models"
)

const productsCollection = "products"

// ProductFilter selects a page of the catalog. Page is 1-based.
type ProductFilter struct {
	Category string
	Search   string
	Sort     string
	Page     int64
	Limit    int64
}

type ProductRepository interface {
	List(ctx context.Context, filter ProductFilter) ([]models.Product, int64, error)
	Get(ctx context.Context, id primitive.ObjectID) (*models.Product, error)
	GetMany(ctx context.Context, ids []primitive.ObjectID) ([]models.Product, error)
	Create(ctx context.Context, product *models.Product) error
	Update(ctx context.Context, id primitive.ObjectID, product *models.Product) error
	Delete(ctx context.Context, id primitive.ObjectID) error
}

type mongoProductRepository struct {
	collection *mongo.Collection
}

func NewProductRepository(db *mongo.Database) ProductRepository {
	return &mongoProductRepository{collection: db.Collection(productsCollection)}
}

// substringRegex matches the search term case-insensitively anywhere in
// the field, treating the term as literal text.
func substringRegex(search string) primitive.Regex {
	return primitive.Regex{Pattern: regexp.QuoteMeta(search), Options: "i"}
}

func (m *mongoProductRepository) List(ctx context.Context, filter ProductFilter) ([]models.Product, int64, error) {
	query := bson.M{}
	if filter.Category != "" {
		query["category"] = filter.Category
	}
	if filter.Search != "" {
		query["name"] = substringRegex(filter.Search)
	}

	total, err := m.collection.CountDocuments(ctx, query)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count products: %w", err)
	}

	sort := ParseSort(filter.Sort, bson.D{{Key: "createdAt", Value: -1}})
	opts := options.Find().
		SetSort(sort).
		SetSkip((filter.Page - 1) * filter.Limit).
		SetLimit(filter.Limit)

	cursor, err := m.collection.Find(ctx, query, opts)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list products: %w", err)
	}

	var products []models.Product
	if err := cursor.All(ctx, &products); err != nil {
		return nil, 0, fmt.Errorf("failed to decode products: %w", err)
	}

	return products, total, nil
}

func (m *mongoProductRepository) Get(ctx context.Context, id primitive.ObjectID) (*models.Product, error) {
	var product models.Product
	err := m.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&product)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get product: %w", err)
	}
	return &product, nil
}

func (m *mongoProductRepository) GetMany(ctx context.Context, ids []primitive.ObjectID) ([]models.Product, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	cursor, err := m.collection.Find(ctx, bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		return nil, fmt.Errorf("failed to get products: %w", err)
	}

	var products []models.Product
	if err := cursor.All(ctx, &products); err != nil {
		return nil, fmt.Errorf("failed to decode products: %w", err)
	}
	return products, nil
}

func (m *mongoProductRepository) Create(ctx context.Context, product *models.Product) error {
	now := time.Now()
	product.CreatedAt = now
	product.UpdatedAt = now

	result, err := m.collection.InsertOne(ctx, product)
	if err != nil {
		return fmt.Errorf("failed to create product: %w", err)
	}

	product.ID = result.InsertedID.(primitive.ObjectID)
	return nil
}

// Update overwrites name, price, image and category. CreatedAt is kept.
// On success product is replaced with the stored document.
func (m *mongoProductRepository) Update(ctx context.Context, id primitive.ObjectID, product *models.Product) error {
	update := bson.M{"$set": bson.M{
		"name":      product.Name,
		"price":     product.Price,
		"image":     product.Image,
		"category":  product.Category,
		"updatedAt": time.Now(),
	}}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	err := m.collection.FindOneAndUpdate(ctx, bson.M{"_id": id}, update, opts).Decode(product)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return ErrNotFound
		}
		return fmt.Errorf("failed to update product: %w", err)
	}
	return nil
}

func (m *mongoProductRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	result, err := m.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("failed to delete product: %w", err)
	}
	if result.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}
