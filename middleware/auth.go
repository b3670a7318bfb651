package middleware

import (
	"log"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/jarenkendrick14/Dropify/jwt"
)

// AuthMiddleware resolves a bearer token to a caller identity. Requests
// without a valid token continue unauthenticated; the gate middlewares
// decide whether that is allowed for a given route.
func AuthMiddleware(secret []byte, tokens jwt.TokenStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		token := strings.TrimPrefix(authHeader, "Bearer ")

		if token == "" || token == authHeader {
			c.Next()
			return
		}

		userID, isAdmin, err := jwt.VerifyToken(c.Request.Context(), secret, tokens, token)
		if err != nil {
			log.Printf("token rejected: %v", err)
			c.Next()
			return
		}

		c.Set("Token", token)
		c.Set("UserID", userID)
		c.Set("IsAdmin", isAdmin)
		c.Next()
	}
}
