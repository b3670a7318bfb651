package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// CheckAdminPermissionMiddleware aborts requests from non-admin callers.
// Runs after CheckLoginMiddleware, so the identity is already present.
func CheckAdminPermissionMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		isAdmin, exists := c.Get("IsAdmin")
		if !exists || isAdmin != true {
			c.JSON(http.StatusForbidden, gin.H{
				"message": "Not authorized as admin",
			})
			c.Abort()
			return
		}

		c.Next()
	}
}
