package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Known order statuses. New orders start at StatusProcessing. The
// status field itself stays free text: admins may set any label and no
// transition graph is enforced.
const (
	StatusProcessing = "Processing"
	StatusShipped    = "Shipped"
	StatusDelivered  = "Delivered"
)

type ShippingAddress struct {
	Name       string `bson:"name" json:"name"`
	Address    string `bson:"address" json:"address"`
	City       string `bson:"city" json:"city"`
	PostalCode string `bson:"postalCode" json:"postalCode"`
	Email      string `bson:"email" json:"email"`
}

// Order is an immutable snapshot of a completed checkout. Only status
// and isPaid may change after creation, and only by admins.
type Order struct {
	ID              primitive.ObjectID `bson:"_id,omitempty" json:"_id"`
	User            primitive.ObjectID `bson:"user" json:"user"`
	OrderItems      []OrderItem        `bson:"orderItems" json:"orderItems"`
	ShippingAddress ShippingAddress    `bson:"shippingAddress" json:"shippingAddress"`
	TotalPrice      float64            `bson:"totalPrice" json:"totalPrice"`
	IsPaid          bool               `bson:"isPaid" json:"isPaid"`
	Status          string             `bson:"status" json:"status"`
	CreatedAt       time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt       time.Time          `bson:"updatedAt" json:"updatedAt"`
}
