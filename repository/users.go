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

const usersCollection = "users"

// UserFilter selects users for the admin listing.
type UserFilter struct {
	Search string
	Sort   string
}

type UserRepository interface {
	GetByID(ctx context.Context, id primitive.ObjectID) (*models.User, error)
	GetByUsername(ctx context.Context, username string) (*models.User, error)
	GetMany(ctx context.Context, ids []primitive.ObjectID) ([]models.User, error)
	Create(ctx context.Context, user *models.User) error
	List(ctx context.Context, filter UserFilter) ([]models.User, error)
	FindIDsByUsername(ctx context.Context, search string) ([]primitive.ObjectID, error)
	SetAdmin(ctx context.Context, id primitive.ObjectID, isAdmin bool) (*models.User, error)
	Delete(ctx context.Context, id primitive.ObjectID) error
	ReplaceCart(ctx context.Context, userID primitive.ObjectID, cart []models.CartItem) error
}

type mongoUserRepository struct {
	collection *mongo.Collection
}

func NewUserRepository(db *mongo.Database) UserRepository {
	return &mongoUserRepository{collection: db.Collection(usersCollection)}
}

func (m *mongoUserRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	return m.findOne(ctx, bson.M{"_id": id})
}

func (m *mongoUserRepository) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	return m.findOne(ctx, bson.M{"username": username})
}

func (m *mongoUserRepository) findOne(ctx context.Context, filter bson.M) (*models.User, error) {
	var user models.User
	err := m.collection.FindOne(ctx, filter).Decode(&user)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return &user, nil
}

func (m *mongoUserRepository) GetMany(ctx context.Context, ids []primitive.ObjectID) ([]models.User, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	cursor, err := m.collection.Find(ctx, bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		return nil, fmt.Errorf("failed to get users: %w", err)
	}

	var users []models.User
	if err := cursor.All(ctx, &users); err != nil {
		return nil, fmt.Errorf("failed to decode users: %w", err)
	}
	return users, nil
}

func (m *mongoUserRepository) Create(ctx context.Context, user *models.User) error {
	now := time.Now()
	user.CreatedAt = now
	user.UpdatedAt = now
	if user.Cart == nil {
		user.Cart = []models.CartItem{}
	}

	result, err := m.collection.InsertOne(ctx, user)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return ErrDuplicate
		}
		return fmt.Errorf("failed to create user: %w", err)
	}

	user.ID = result.InsertedID.(primitive.ObjectID)
	return nil
}

// userListOptions builds the find options for a user listing. Sorts
// that touch the username field use a case-insensitive collation so
// "bob" and "Bob" interleave by natural order rather than by byte
// value.
func userListOptions(sort bson.D) *options.FindOptions {
	opts := options.Find().SetSort(sort)
	if sortTouchesField(sort, "username") {
		opts.SetCollation(&options.Collation{Locale: "en", Strength: 2})
	}
	return opts
}

// List filters by case-insensitive username substring.
func (m *mongoUserRepository) List(ctx context.Context, filter UserFilter) ([]models.User, error) {
	query := bson.M{}
	if filter.Search != "" {
		query["username"] = substringRegex(filter.Search)
	}

	sort := ParseSort(filter.Sort, bson.D{{Key: "createdAt", Value: -1}})
	cursor, err := m.collection.Find(ctx, query, userListOptions(sort))
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}

	var users []models.User
	if err := cursor.All(ctx, &users); err != nil {
		return nil, fmt.Errorf("failed to decode users: %w", err)
	}
	return users, nil
}

// FindIDsByUsername resolves a case-insensitive substring search to the
// matching user ids. An empty result is not an error.
func (m *mongoUserRepository) FindIDsByUsername(ctx context.Context, search string) ([]primitive.ObjectID, error) {
	query := bson.M{"username": substringRegex(search)}
	opts := options.Find().SetProjection(bson.M{"_id": 1})

	cursor, err := m.collection.Find(ctx, query, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to search users: %w", err)
	}

	var docs []struct {
		ID primitive.ObjectID `bson:"_id"`
	}
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("failed to decode user ids: %w", err)
	}

	ids := make([]primitive.ObjectID, len(docs))
	for i, doc := range docs {
		ids[i] = doc.ID
	}
	return ids, nil
}

func (m *mongoUserRepository) SetAdmin(ctx context.Context, id primitive.ObjectID, isAdmin bool) (*models.User, error) {
	update := bson.M{"$set": bson.M{
		"isAdmin":   isAdmin,
		"updatedAt": time.Now(),
	}}

	var user models.User
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	err := m.collection.FindOneAndUpdate(ctx, bson.M{"_id": id}, update, opts).Decode(&user)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to update user: %w", err)
	}
	return &user, nil
}

func (m *mongoUserRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	result, err := m.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("failed to delete user: %w", err)
	}
	if result.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// ReplaceCart persists the whole cart in one document write. Clearing
// an already-empty cart matches and succeeds, so retries are no-ops.
func (m *mongoUserRepository) ReplaceCart(ctx context.Context, userID primitive.ObjectID, cart []models.CartItem) error {
	if cart == nil {
		cart = []models.CartItem{}
	}

	update := bson.M{"$set": bson.M{
		"cart":      cart,
		"updatedAt": time.Now(),
	}}

	result, err := m.collection.UpdateByID(ctx, userID, update)
	if err != nil {
		return fmt.Errorf("failed to replace cart: %w", err)
	}
	if result.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}
