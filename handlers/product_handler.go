package handlers

import (
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/jarenkendrick14/Dropify/models"
	"github.com/jarenkendrick14/Dropify/repository"
)

const defaultPageLimit = 10

type productRequest struct {
	Name     string  `json:"name" binding:"required"`
	Price    float64 `json:"price" binding:"min=0"`
	Image    string  `json:"image" binding:"required"`
	Category string  `json:"category" binding:"required,oneof=shirts hoodies caps"`
}

// GetProductListHandler returns one page of the catalog with the total
// matching count: {products, page, pages, total}.
func GetProductListHandler(c *gin.Context, products repository.ProductRepository) {
	page, err := strconv.ParseInt(c.DefaultQuery("page", "1"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid page"})
		return
	}
	if page < 1 {
		page = 1
	}

	limit, err := strconv.ParseInt(c.DefaultQuery("limit", strconv.Itoa(defaultPageLimit)), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid limit"})
		return
	}
	if limit < 1 {
		limit = defaultPageLimit
	}

	filter := repository.ProductFilter{
		Category: c.Query("category"),
		Search:   c.Query("search"),
		Sort:     c.Query("sort"),
		Page:     page,
		Limit:    limit,
	}

	list, total, err := products.List(c.Request.Context(), filter)
	if err != nil {
		log.Printf("failed to list products: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Server Error"})
		return
	}
	if list == nil {
		list = []models.Product{}
	}

	c.JSON(http.StatusOK, gin.H{
		"products": list,
		"page":     page,
		"pages":    (total + limit - 1) / limit,
		"total":    total,
	})
}

func CreateProductHandler(c *gin.Context, products repository.ProductRepository) {
	var req productRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": bindMessage(err)})
		return
	}

	product := &models.Product{
		Name:     req.Name,
		Price:    req.Price,
		Image:    req.Image,
		Category: req.Category,
	}
	if err := products.Create(c.Request.Context(), product); err != nil {
		log.Printf("failed to create product: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Server Error"})
		return
	}

	c.JSON(http.StatusCreated, product)
}

// UpdateProductHandler fully overwrites name, price, image and category.
func UpdateProductHandler(c *gin.Context, products repository.ProductRepository) {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"message": "Product not found"})
		return
	}

	var req productRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": bindMessage(err)})
		return
	}

	product := &models.Product{
		Name:     req.Name,
		Price:    req.Price,
		Image:    req.Image,
		Category: req.Category,
	}
	if err := products.Update(c.Request.Context(), id, product); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"message": "Product not found"})
			return
		}
		log.Printf("failed to update product: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Server Error"})
		return
	}

	c.JSON(http.StatusOK, product)
}

func DeleteProductHandler(c *gin.Context, products repository.ProductRepository) {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"message": "Product not found"})
		return
	}

	if err := products.Delete(c.Request.Context(), id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"message": "Product not found"})
			return
		}
		log.Printf("failed to delete product: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Server Error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Product removed"})
}
