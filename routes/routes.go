package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/kamaudevs/sokoapi/controllers"
	"github.com/kamaudevs/sokoapi/middleware"
	"github.com/kamaudevs/sokoapi/oauth"
)

// Controllers bundles the handlers mounted by Register
type Controllers struct {
	Auth     *controllers.AuthController
	OAuth    *controllers.OAuthController
	Orders   *controllers.OrderController
	Products *controllers.ProductController
	Category *controllers.CategoryController
}

// Register mounts all routes. Catalog reads are public; catalog writes need
// the write scope; orders and profile need an authenticated customer.
func Register(r *gin.Engine, tokens *oauth.TokenService, ctl Controllers) {
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "OK"})
	})

	r.GET("/.well-known/openid-configuration", ctl.OAuth.OpenIDConfiguration)
	r.GET("/.well-known/jwks.json", ctl.OAuth.JWKS)

	credLimit := middleware.CredentialRateLimiter().Middleware()
	r.POST("/o/token", credLimit, ctl.OAuth.Token)
	r.POST("/o/token/", credLimit, ctl.OAuth.Token)

	authed := middleware.Authenticate(tokens)

	auth := r.Group("/api/auth")
	auth.POST("/register", credLimit, ctl.Auth.Register)
	auth.GET("/profile", authed, ctl.Auth.GetProfile)
	auth.PUT("/profile", authed, ctl.Auth.UpdateProfile)
	auth.GET("/userinfo", authed, middleware.RequireScope(oauth.ScopeOpenID), ctl.OAuth.UserInfo)
	auth.GET("/userinfo/", authed, middleware.RequireScope(oauth.ScopeOpenID), ctl.OAuth.UserInfo)

	orders := r.Group("/api/orders")
	orders.Use(authed)
	orders.POST("", ctl.Orders.CreateOrder)
	orders.GET("", ctl.Orders.GetOrders)
	orders.GET("/:id", ctl.Orders.GetOrderByID)
	orders.POST("/:id/cancel", ctl.Orders.CancelOrder)

	products := r.Group("/api/products")
	products.GET("", ctl.Products.ListProducts)
	products.GET("/categories", ctl.Category.ListCategories)
	products.GET("/categories/:id/products", ctl.Category.ProductsInCategory)
	products.GET("/categories/:id/average-price", authed, ctl.Category.AveragePrice)

	write := products.Group("")
	write.Use(authed, middleware.RequireScope(oauth.ScopeWrite))
	write.POST("", ctl.Products.CreateProduct)
	write.POST("/bulk", ctl.Products.BulkCreateProducts)
	write.POST("/categories", ctl.Category.CreateCategory)
}
