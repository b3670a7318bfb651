package models

import "go.mongodb.org/mongo-driver/bson/primitive"

// CartItem is one line of the cart embedded in the user document.
// Entries are unique by product and quantity is always >= 1; a
// quantity update that would drop below 1 removes the entry instead.
type CartItem struct {
	Product  primitive.ObjectID `bson:"product" json:"product"`
	Quantity int                `bson:"quantity" json:"quantity"`
}

// ResolvedCartItem is a cart line with the product reference resolved,
// which is what the API returns to callers.
type ResolvedCartItem struct {
	Product  Product `json:"product"`
	Quantity int     `json:"quantity"`
}
