package handlers

import (
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"

	"github.com/jarenkendrick14/Dropify/jwt"
	"github.com/jarenkendrick14/Dropify/models"
	"github.com/jarenkendrick14/Dropify/repository"
)

const tokenTTL = 24 * time.Hour

type credentialsRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// issueToken signs a token for the user and records it so logout can
// revoke it later.
func issueToken(c *gin.Context, tokens jwt.TokenStore, secret []byte, user *models.User) (string, error) {
	expiresAt := time.Now().Add(tokenTTL)
	token, err := jwt.GenerateToken(secret, user.ID.Hex(), user.IsAdmin, expiresAt)
	if err != nil {
		return "", err
	}
	if err := tokens.Save(c.Request.Context(), token, user.ID.Hex(), tokenTTL); err != nil {
		return "", err
	}
	return token, nil
}

func authPayload(user *models.User, token string) gin.H {
	return gin.H{
		"_id":      user.ID,
		"username": user.Username,
		"isAdmin":  user.IsAdmin,
		"token":    token,
	}
}

func RegisterHandler(c *gin.Context, users repository.UserRepository, tokens jwt.TokenStore, secret []byte) {
	var req credentialsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": bindMessage(err)})
		return
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		log.Printf("failed to hash password: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Server Error"})
		return
	}

	user := &models.User{
		Username: req.Username,
		Password: string(hashed),
		Cart:     []models.CartItem{},
	}
	if err := users.Create(c.Request.Context(), user); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			c.JSON(http.StatusBadRequest, gin.H{"message": "Username already taken"})
			return
		}
		log.Printf("failed to create user: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Server Error"})
		return
	}

	token, err := issueToken(c, tokens, secret, user)
	if err != nil {
		log.Printf("failed to issue token: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Server Error"})
		return
	}

	c.JSON(http.StatusCreated, authPayload(user, token))
}

func LoginHandler(c *gin.Context, users repository.UserRepository, tokens jwt.TokenStore, secret []byte) {
	var req credentialsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": bindMessage(err)})
		return
	}

	user, err := users.GetByUsername(c.Request.Context(), req.Username)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			// Same message as a wrong password so usernames cannot be probed.
			c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid username or password"})
			return
		}
		log.Printf("failed to look up user: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Server Error"})
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid username or password"})
		return
	}

	token, err := issueToken(c, tokens, secret, user)
	if err != nil {
		log.Printf("failed to issue token: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Server Error"})
		return
	}

	c.JSON(http.StatusOK, authPayload(user, token))
}

func LogOutHandler(c *gin.Context, tokens jwt.TokenStore) {
	token, exists := c.Get("Token")
	if !exists {
		c.JSON(http.StatusBadRequest, gin.H{"message": "No token to revoke"})
		return
	}

	err := tokens.Revoke(c.Request.Context(), token.(string))
	if err != nil {
		if errors.Is(err, jwt.ErrTokenNotFound) {
			c.JSON(http.StatusBadRequest, gin.H{"message": "Already logged out"})
			return
		}
		log.Printf("failed to revoke token: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Server Error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Logged out"})
}
