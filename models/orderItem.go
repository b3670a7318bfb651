package models

import "go.mongodb.org/mongo-driver/bson/primitive"

// OrderItem is a denormalized copy of a product at checkout time.
// Later edits or deletions of the product do not affect it; Product
// only records which catalog entry the copy was taken from.
type OrderItem struct {
	Name     string             `bson:"name" json:"name"`
	Quantity int                `bson:"quantity" json:"quantity"`
	Image    string             `bson:"image" json:"image"`
	Price    float64            `bson:"price" json:"price"`
	Product  primitive.ObjectID `bson:"product" json:"product"`
}
