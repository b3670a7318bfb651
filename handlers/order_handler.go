package handlers

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/jarenkendrick14/Dropify/models"
	"github.com/jarenkendrick14/Dropify/repository"
)

type orderItemRequest struct {
	Name     string  `json:"name" binding:"required"`
	Quantity int     `json:"quantity" binding:"required,min=1"`
	Image    string  `json:"image"`
	Price    float64 `json:"price" binding:"min=0"`
	Product  string  `json:"product" binding:"required"`
}

type shippingAddressRequest struct {
	Name       string `json:"name" binding:"required"`
	Address    string `json:"address" binding:"required"`
	City       string `json:"city" binding:"required"`
	PostalCode string `json:"postalCode" binding:"required"`
	Email      string `json:"email" binding:"required"`
}

// orderResponse carries the resolved owner in place of the bare id.
type orderResponse struct {
	models.Order
	User orderOwner `json:"user"`
}

type orderOwner struct {
	ID       primitive.ObjectID `json:"_id"`
	Username string             `json:"username"`
}

// CreateOrderHandler persists an order snapshot owned by the caller and
// then clears the caller's cart. The two writes hit separate documents
// and are not transactional: the order stands once inserted, and a
// failed cart clear is only logged. Re-clearing an already-empty cart
// is a no-op, so the client can safely retry.
func CreateOrderHandler(c *gin.Context, orders repository.OrderRepository, users repository.UserRepository) {
	userID, ok := callerID(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Server Error"})
		return
	}

	var req struct {
		OrderItems      []orderItemRequest     `json:"orderItems" binding:"dive"`
		ShippingAddress shippingAddressRequest `json:"shippingAddress" binding:"required"`
		TotalPrice      float64                `json:"totalPrice" binding:"min=0"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": bindMessage(err)})
		return
	}
	if len(req.OrderItems) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"message": "No order items"})
		return
	}

	items := make([]models.OrderItem, len(req.OrderItems))
	for i, item := range req.OrderItems {
		productID, err := primitive.ObjectIDFromHex(item.Product)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid product id"})
			return
		}
		items[i] = models.OrderItem{
			Name:     item.Name,
			Quantity: item.Quantity,
			Image:    item.Image,
			Price:    item.Price,
			Product:  productID,
		}
	}

	order := &models.Order{
		User:       userID,
		OrderItems: items,
		ShippingAddress: models.ShippingAddress{
			Name:       req.ShippingAddress.Name,
			Address:    req.ShippingAddress.Address,
			City:       req.ShippingAddress.City,
			PostalCode: req.ShippingAddress.PostalCode,
			Email:      req.ShippingAddress.Email,
		},
		TotalPrice: req.TotalPrice,
		IsPaid:     false,
		Status:     models.StatusProcessing,
	}
	if err := orders.Create(c.Request.Context(), order); err != nil {
		log.Printf("failed to create order: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Server Error creating order"})
		return
	}

	// The order is committed at this point regardless of the clear below.
	if err := users.ReplaceCart(c.Request.Context(), userID, nil); err != nil {
		log.Printf("order %s created but cart clear failed: %v", order.ID.Hex(), err)
	}

	c.JSON(http.StatusCreated, order)
}

// GetOrderListHandler lists all orders for the admin screen. A search
// term filters by order owner: it is matched against usernames
// case-insensitively and the orders of every matching user are kept.
func GetOrderListHandler(c *gin.Context, orders repository.OrderRepository, users repository.UserRepository) {
	filter := repository.OrderFilter{Sort: c.Query("sort")}
	if search := c.Query("search"); search != "" {
		ids, err := users.FindIDsByUsername(c.Request.Context(), search)
		if err != nil {
			log.Printf("failed to search users: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Server Error getting all orders"})
			return
		}
		filter.OwnerIDs = ids
		filter.FilterByOwner = true
	}

	list, err := orders.List(c.Request.Context(), filter)
	if err != nil {
		log.Printf("failed to list orders: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Server Error getting all orders"})
		return
	}

	// Resolve owner usernames in one query.
	ownerIDs := make([]primitive.ObjectID, 0, len(list))
	seen := make(map[primitive.ObjectID]bool, len(list))
	for _, order := range list {
		if !seen[order.User] {
			seen[order.User] = true
			ownerIDs = append(ownerIDs, order.User)
		}
	}
	owners, err := users.GetMany(c.Request.Context(), ownerIDs)
	if err != nil {
		log.Printf("failed to resolve order owners: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Server Error getting all orders"})
		return
	}
	usernames := make(map[primitive.ObjectID]string, len(owners))
	for _, owner := range owners {
		usernames[owner.ID] = owner.Username
	}

	response := make([]orderResponse, len(list))
	for i, order := range list {
		response[i] = orderResponse{
			Order: order,
			User:  orderOwner{ID: order.User, Username: usernames[order.User]},
		}
	}

	c.JSON(http.StatusOK, response)
}

func UpdateOrderStatusHandler(c *gin.Context, orders repository.OrderRepository) {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"message": "Order not found"})
		return
	}

	var req struct {
		Status string `json:"status" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": bindMessage(err)})
		return
	}

	order, err := orders.SetStatus(c.Request.Context(), id, req.Status)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"message": "Order not found"})
			return
		}
		log.Printf("failed to update order status: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Server Error updating order status"})
		return
	}

	c.JSON(http.StatusOK, order)
}

func DeleteOrderHandler(c *gin.Context, orders repository.OrderRepository) {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"message": "Order not found"})
		return
	}

	if err := orders.Delete(c.Request.Context(), id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"message": "Order not found"})
			return
		}
		log.Printf("failed to delete order: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Server Error deleting order"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Order removed"})
}
