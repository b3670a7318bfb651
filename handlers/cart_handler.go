package handlers

import (
	"context"
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/jarenkendrick14/Dropify/models"
	"github.com/jarenkendrick14/Dropify/repository"
)

// resolveCart replaces product references with full product records.
// Entries whose product no longer exists are dropped from the result.
func resolveCart(ctx context.Context, products repository.ProductRepository, cart []models.CartItem) ([]models.ResolvedCartItem, error) {
	ids := make([]primitive.ObjectID, len(cart))
	for i, item := range cart {
		ids[i] = item.Product
	}

	found, err := products.GetMany(ctx, ids)
	if err != nil {
		return nil, err
	}

	byID := make(map[primitive.ObjectID]models.Product, len(found))
	for _, p := range found {
		byID[p.ID] = p
	}

	resolved := []models.ResolvedCartItem{}
	for _, item := range cart {
		product, ok := byID[item.Product]
		if !ok {
			continue
		}
		resolved = append(resolved, models.ResolvedCartItem{
			Product:  product,
			Quantity: item.Quantity,
		})
	}
	return resolved, nil
}

// respondCart persists nothing; it resolves and writes the cart the
// caller should now observe.
func respondCart(c *gin.Context, products repository.ProductRepository, cart []models.CartItem) {
	resolved, err := resolveCart(c.Request.Context(), products, cart)
	if err != nil {
		log.Printf("failed to resolve cart: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Server Error"})
		return
	}
	c.JSON(http.StatusOK, resolved)
}

func GetCartHandler(c *gin.Context, users repository.UserRepository, products repository.ProductRepository) {
	userID, ok := callerID(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Server Error"})
		return
	}

	user, err := users.GetByID(c.Request.Context(), userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"message": "User not found"})
			return
		}
		log.Printf("failed to get user: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Server Error"})
		return
	}

	respondCart(c, products, user.Cart)
}

// AddToCartHandler increments the quantity when the product is already
// in the cart and appends a new entry otherwise.
func AddToCartHandler(c *gin.Context, users repository.UserRepository, products repository.ProductRepository) {
	var req struct {
		ProductID string `json:"productId" binding:"required"`
		Quantity  int    `json:"quantity" binding:"required,min=1"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": bindMessage(err)})
		return
	}

	productID, err := primitive.ObjectIDFromHex(req.ProductID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid product id"})
		return
	}

	if _, err := products.Get(c.Request.Context(), productID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"message": "Product not found"})
			return
		}
		log.Printf("failed to get product: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Server Error"})
		return
	}

	userID, ok := callerID(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Server Error"})
		return
	}
	user, err := users.GetByID(c.Request.Context(), userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"message": "User not found"})
			return
		}
		log.Printf("failed to get user: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Server Error"})
		return
	}

	cart := user.Cart
	found := false
	for i := range cart {
		if cart[i].Product == productID {
			cart[i].Quantity += req.Quantity
			found = true
			break
		}
	}
	if !found {
		cart = append(cart, models.CartItem{Product: productID, Quantity: req.Quantity})
	}

	if err := users.ReplaceCart(c.Request.Context(), userID, cart); err != nil {
		log.Printf("failed to save cart: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Server Error"})
		return
	}

	respondCart(c, products, cart)
}

// UpdateCartItemQuantityHandler sets a quantity exactly. A quantity
// below 1 removes the entry instead; removing an absent entry is a
// no-op, but setting a quantity on one is a 404.
func UpdateCartItemQuantityHandler(c *gin.Context, users repository.UserRepository, products repository.ProductRepository) {
	var req struct {
		ProductID string `json:"productId" binding:"required"`
		Quantity  *int   `json:"quantity" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": bindMessage(err)})
		return
	}

	productID, err := primitive.ObjectIDFromHex(req.ProductID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid product id"})
		return
	}

	userID, ok := callerID(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Server Error"})
		return
	}
	user, err := users.GetByID(c.Request.Context(), userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"message": "User not found"})
			return
		}
		log.Printf("failed to get user: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Server Error"})
		return
	}

	quantity := *req.Quantity
	cart := user.Cart
	index := -1
	for i := range cart {
		if cart[i].Product == productID {
			index = i
			break
		}
	}

	switch {
	case index < 0 && quantity >= 1:
		c.JSON(http.StatusNotFound, gin.H{"message": "Item not found in cart"})
		return
	case index < 0:
		// Removing an entry that is already gone.
		respondCart(c, products, cart)
		return
	case quantity < 1:
		cart = append(cart[:index], cart[index+1:]...)
	default:
		cart[index].Quantity = quantity
	}

	if err := users.ReplaceCart(c.Request.Context(), userID, cart); err != nil {
		log.Printf("failed to save cart: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Server Error"})
		return
	}

	respondCart(c, products, cart)
}

// DeleteCartItemHandler removes one entry. Absent entries are fine;
// the operation always succeeds.
func DeleteCartItemHandler(c *gin.Context, users repository.UserRepository, products repository.ProductRepository) {
	productID, err := primitive.ObjectIDFromHex(c.Param("productId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid product id"})
		return
	}

	userID, ok := callerID(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Server Error"})
		return
	}
	user, err := users.GetByID(c.Request.Context(), userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"message": "User not found"})
			return
		}
		log.Printf("failed to get user: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Server Error"})
		return
	}

	cart := user.Cart[:0:0]
	for _, item := range user.Cart {
		if item.Product != productID {
			cart = append(cart, item)
		}
	}

	if err := users.ReplaceCart(c.Request.Context(), userID, cart); err != nil {
		log.Printf("failed to save cart: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Server Error"})
		return
	}

	respondCart(c, products, cart)
}

func ClearCartHandler(c *gin.Context, users repository.UserRepository, products repository.ProductRepository) {
	userID, ok := callerID(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Server Error"})
		return
	}

	if err := users.ReplaceCart(c.Request.Context(), userID, nil); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"message": "User not found"})
			return
		}
		log.Printf("failed to clear cart: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Server Error"})
		return
	}

	c.JSON(http.StatusOK, []models.ResolvedCartItem{})
}
