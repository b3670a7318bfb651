package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// CheckLoginMiddleware aborts requests without an authenticated caller.
func CheckLoginMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		_, exists := c.Get("UserID")
		if !exists {
			c.JSON(http.StatusUnauthorized, gin.H{
				"message": "Not authorized, no token",
			})
			c.Abort()
			return
		}

		c.Next()
	}
}
