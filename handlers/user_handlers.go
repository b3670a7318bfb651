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

// GetUserListHandler lists users for the admin screen with an optional
// case-insensitive username search and field sorting.
func GetUserListHandler(c *gin.Context, users repository.UserRepository) {
	filter := repository.UserFilter{
		Search: c.Query("search"),
		Sort:   c.Query("sort"),
	}

	list, err := users.List(c.Request.Context(), filter)
	if err != nil {
		log.Printf("failed to list users: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Server Error"})
		return
	}
	if list == nil {
		list = []models.User{}
	}

	c.JSON(http.StatusOK, list)
}

// UpdateUserHandler overwrites the admin flag. Admins may demote other
// admins, themselves included.
func UpdateUserHandler(c *gin.Context, users repository.UserRepository) {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"message": "User not found"})
		return
	}

	var req struct {
		IsAdmin *bool `json:"isAdmin" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": bindMessage(err)})
		return
	}

	user, err := users.SetAdmin(c.Request.Context(), id, *req.IsAdmin)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"message": "User not found"})
			return
		}
		log.Printf("failed to update user: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Server Error"})
		return
	}

	c.JSON(http.StatusOK, user)
}

// DeleteUserHandler removes a user. Deleting your own account is
// rejected so an admin cannot lock themselves out mid-session.
func DeleteUserHandler(c *gin.Context, users repository.UserRepository) {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"message": "User not found"})
		return
	}

	caller, ok := callerID(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Server Error"})
		return
	}
	if id == caller {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Cannot delete your own admin account"})
		return
	}

	if err := users.Delete(c.Request.Context(), id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"message": "User not found"})
			return
		}
		log.Printf("failed to delete user: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Server Error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "User removed"})
}
