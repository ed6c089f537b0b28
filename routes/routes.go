package routes

import (
	"inventory-billing/controllers"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

type Controllers struct {
	Auth    *controllers.AuthController
	Product *controllers.ProductController
	Cart    *controllers.CartController
	Bill    *controllers.BillController
	Report  *controllers.ReportController
}

// SetupRoutes mounts the API. authRequired guards everything except health,
// docs and the sign-up/sign-in endpoints, which go through authLimit instead.
func SetupRoutes(router *gin.Engine, ctrl Controllers, authRequired, authLimit gin.HandlerFunc) {
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	router.GET("/health", func(c *gin.Context) { c.JSON(200, gin.H{"status": "ok"}) })

	router.POST("/auth/signup", authLimit, ctrl.Auth.SignUp)
	router.POST("/auth/signin", authLimit, ctrl.Auth.SignIn)

	auth := router.Group("/")
	auth.Use(authRequired)
	{
		auth.POST("/auth/signout", ctrl.Auth.SignOut)
		auth.GET("/auth/me", ctrl.Auth.Me)

		auth.GET("/products", ctrl.Product.GetAllProducts)
		auth.GET("/products/available", ctrl.Product.GetAvailableProducts)
		auth.GET("/products/:id", ctrl.Product.GetProductByID)
		auth.POST("/products", ctrl.Product.CreateProduct)
		auth.PATCH("/products/:id", ctrl.Product.UpdateProduct)
		auth.DELETE("/products/:id", ctrl.Product.DeleteProduct)

		auth.GET("/cart", ctrl.Cart.GetCart)
		auth.DELETE("/cart", ctrl.Cart.ClearCart)
		auth.POST("/cart/items", ctrl.Cart.AddItem)
		auth.PATCH("/cart/items/:product_id", ctrl.Cart.UpdateItem)
		auth.DELETE("/cart/items/:product_id", ctrl.Cart.RemoveItem)
		auth.POST("/cart/checkout", ctrl.Cart.Checkout)

		auth.GET("/bills/:id", ctrl.Bill.GetBillByID)

		auth.GET("/reports/low-stock", ctrl.Report.LowStock)
	}
}
