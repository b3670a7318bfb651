package routers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/jarenkendrick14/Dropify/handlers"
	"github.com/jarenkendrick14/Dropify/jwt"
	"github.com/jarenkendrick14/Dropify/middleware"
	"github.com/jarenkendrick14/Dropify/repository"
)

func SetupRouters(
	secret []byte,
	tokens jwt.TokenStore,
	products repository.ProductRepository,
	users repository.UserRepository,
	orders repository.OrderRepository,
) *gin.Engine {
	router := gin.Default()
	router.Use(func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, PATCH, DELETE, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		c.Writer.Header().Set("Access-Control-Expose-Headers", "Authorization")
		c.Next()
	})
	if err := router.SetTrustedProxies(nil); err != nil {
		return nil
	}

	router.OPTIONS("/*path", func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	router.Use(middleware.RequestIDMiddleware())
	router.Use(middleware.AuthMiddleware(secret, tokens))
	{
		// Public catalog browsing.
		router.GET("/api/products", func(c *gin.Context) {
			handlers.GetProductListHandler(c, products)
		})

		// Account creation and login.
		router.POST("/api/auth/register", func(c *gin.Context) {
			handlers.RegisterHandler(c, users, tokens, secret)
		})
		router.POST("/api/auth/login", func(c *gin.Context) {
			handlers.LoginHandler(c, users, tokens, secret)
		})

		// Routes scoped to the authenticated caller.
		loginRequired := router.Group("/api")
		loginRequired.Use(middleware.CheckLoginMiddleware())
		{
			loginRequired.POST("/auth/logout", func(c *gin.Context) {
				handlers.LogOutHandler(c, tokens)
			})

			loginRequired.GET("/cart", func(c *gin.Context) {
				handlers.GetCartHandler(c, users, products)
			})
			loginRequired.POST("/cart", func(c *gin.Context) {
				handlers.AddToCartHandler(c, users, products)
			})
			loginRequired.PUT("/cart", func(c *gin.Context) {
				handlers.UpdateCartItemQuantityHandler(c, users, products)
			})
			loginRequired.DELETE("/cart", func(c *gin.Context) {
				handlers.ClearCartHandler(c, users, products)
			})
			loginRequired.DELETE("/cart/:productId", func(c *gin.Context) {
				handlers.DeleteCartItemHandler(c, users, products)
			})

			loginRequired.POST("/orders", func(c *gin.Context) {
				handlers.CreateOrderHandler(c, orders, users)
			})
		}

		// Management routes.
		adminRequired := router.Group("/api")
		adminRequired.Use(middleware.CheckLoginMiddleware(), middleware.CheckAdminPermissionMiddleware())
		{
			adminRequired.POST("/products", func(c *gin.Context) {
				handlers.CreateProductHandler(c, products)
			})
			adminRequired.PUT("/products/:id", func(c *gin.Context) {
				handlers.UpdateProductHandler(c, products)
			})
			adminRequired.DELETE("/products/:id", func(c *gin.Context) {
				handlers.DeleteProductHandler(c, products)
			})

			adminRequired.GET("/orders", func(c *gin.Context) {
				handlers.GetOrderListHandler(c, orders, users)
			})
			adminRequired.PUT("/orders/:id/status", func(c *gin.Context) {
				handlers.UpdateOrderStatusHandler(c, orders)
			})
			adminRequired.DELETE("/orders/:id", func(c *gin.Context) {
				handlers.DeleteOrderHandler(c, orders)
			})

			adminRequired.GET("/users", func(c *gin.Context) {
				handlers.GetUserListHandler(c, users)
			})
			adminRequired.PUT("/users/:id", func(c *gin.Context) {
				handlers.UpdateUserHandler(c, users)
			})
			adminRequired.DELETE("/users/:id", func(c *gin.Context) {
				handlers.DeleteUserHandler(c, users)
			})
		}
	}

	return router
}
