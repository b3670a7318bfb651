package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Product categories accepted by the catalog.
const (
	CategoryShirts  = "shirts"
	CategoryHoodies = "hoodies"
	CategoryCaps    = "caps"
)

type Product struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"_id"`
	Name      string             `bson:"name" json:"name"`
	Price     float64            `bson:"price" json:"price"`
	Image     string             `bson:"image" json:"image"`
	Category  string             `bson:"category" json:"category"`
	CreatedAt time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time          `bson:"updatedAt" json:"updatedAt"`
}
