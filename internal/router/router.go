package router

import (
	"github.com/gin-gonic/gin"
	"github.com/ikkim/storefront/config"
	"github.com/ikkim/storefront/internal/app/controller"
	"github.com/ikkim/storefront/internal/middleware"
)

type Router struct {
	authController     *controller.AuthController
	productController  *controller.ProductController
	cartController     *controller.CartController
	checkoutController *controller.CheckoutController
	orderController    *controller.OrderController
	healthController   *controller.HealthController
	sessionMiddleware  *middleware.SessionMiddleware
	config             *config.Config
}

func NewRouter(
	authController *controller.AuthController,
	productController *controller.ProductController,
	cartController *controller.CartController,
	checkoutController *controller.CheckoutController,
	orderController *controller.OrderController,
	healthController *controller.HealthController,
	sessionMiddleware *middleware.SessionMiddleware,
	cfg *config.Config,
) *Router {
	return &Router{
		authController:     authController,
		productController:  productController,
		cartController:     cartController,
		checkoutController: checkoutController,
		orderController:    orderController,
		healthController:   healthController,
		sessionMiddleware:  sessionMiddleware,
		config:             cfg,
	}
}

func (r *Router) Setup() *gin.Engine {
	gin.SetMode(r.config.Server.GinMode)

	router := gin.New()

	router.Use(gin.Recovery())
	router.Use(middleware.LoggingMiddleware())
	router.Use(middleware.CORSMiddleware(r.config.CORS.AllowedOrigins))

	router.GET("/health", r.healthController.Health)

	v1 := router.Group("/api/v1")
	v1.Use(middleware.ProfileMiddleware(r.config.Server.CookieSecure))
	v1.Use(middleware.NotificationMiddleware())
	{
		auth := v1.Group("/auth")
		{
			auth.POST("/login", r.authController.Login)
			auth.POST("/logout", r.authController.Logout)
			auth.POST("/register", r.authController.Register)
			auth.POST("/refresh", r.authController.Refresh)
			auth.GET("/session", r.sessionMiddleware.LoadSession(), r.authController.GetSession)
			auth.GET("/me", r.sessionMiddleware.RequireSession(), r.authController.GetMe)
			auth.POST("/password-reset", r.authController.ForgotPassword)
			auth.POST("/password-reset/confirm", r.authController.ResetPassword)
		}

		products := v1.Group("/products")
		{
			products.GET("", r.productController.GetAllProducts)
			products.GET("/:id", r.productController.GetProductByID)
			products.POST("/:id/cart", r.productController.AddToCart)
		}

		cart := v1.Group("/cart")
		{
			cart.GET("", r.cartController.GetCart)
			cart.DELETE("", r.cartController.ClearCart)
			cart.GET("/export", r.cartController.ExportCart)
			cart.POST("/items", r.cartController.AddItem)
			cart.PUT("/items/:id", r.cartController.UpdateItem)
			cart.DELETE("/items/:id", r.cartController.RemoveItem)
		}

		if r.config.Checkout.RequireLogin {
			v1.POST("/checkout", r.sessionMiddleware.RequireSession(), r.checkoutController.PlaceOrder)
		} else {
			v1.POST("/checkout", r.checkoutController.PlaceOrder)
		}

		orders := v1.Group("/orders")
		orders.Use(r.sessionMiddleware.RequireSession())
		{
			orders.GET("", r.orderController.GetOrders)
			orders.GET("/:id", r.orderController.GetOrderByID)
		}
	}

	return router
}
