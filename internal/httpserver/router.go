package httpserver

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/sirupsen/logrus"
)

// buildRouter wires routes for the API.
func buildRouter(logger *logrus.Logger, db *pgxpool.Pool, deps Deps, allowedOrigins []string) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(requestLogger(logger), gin.Recovery())
	router.Use(cors.New(cors.Config{
		AllowOrigins:     allowedOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	router.GET("/healthz", healthHandler)
	router.GET("/readyz", readyHandler(db))

	h := &handlers{deps: deps, logger: logger}

	auth := router.Group("/auth")
	auth.Use(loginRateLimit())
	{
		auth.POST("/signup", h.signup)
		auth.POST("/login", h.login)
	}

	// Public catalog.
	router.GET("/products", h.listProducts)
	router.GET("/products/featured", h.featuredProducts)
	router.GET("/products/search", h.searchProducts)
	router.GET("/products/:id", h.getProduct)
	router.GET("/products/:id/reviews", h.listProductReviews)

	// Actor-scoped routes.
	actor := router.Group("/")
	actor.Use(authMiddleware(deps.Session))
	{
		actor.POST("/auth/logout", h.logout)
		actor.GET("/me", h.me)
		actor.PATCH("/me", h.updateProfile)
		actor.POST("/me/password", h.changePassword)

		actor.GET("/cart", h.getCart)
		actor.POST("/cart", h.addToCart)
		actor.PATCH("/cart/:id", h.setQuantity)
		actor.DELETE("/cart/:id", h.removeFromCart)
		actor.DELETE("/cart", h.clearCart)

		actor.GET("/favorites", h.getFavorites)
		actor.POST("/favorites", h.addFavorite)
		actor.DELETE("/favorites/:id", h.removeFavorite)

		actor.GET("/addresses", h.listAddresses)
		actor.POST("/addresses", h.createAddress)
		actor.PUT("/addresses/:id", h.updateAddress)
		actor.DELETE("/addresses/:id", h.deleteAddress)
		actor.POST("/addresses/:id/default", h.setDefaultAddress)

		actor.POST("/products/:id/reviews", h.addReview)

		actor.POST("/checkout/promo", h.applyPromo)
		actor.POST("/checkout", h.placeOrder)
		actor.GET("/orders", h.listOrders)
		actor.GET("/orders/:id", h.getOrder)
	}

	// Admin back-office. Role is checked server-side on every request.
	adm := router.Group("/admin")
	adm.Use(authMiddleware(deps.Session), adminMiddleware())
	{
		adm.POST("/products", h.adminCreateProduct)
		adm.PUT("/products/:id", h.adminUpdateProduct)
		adm.DELETE("/products/:id", h.adminDeleteProduct)

		adm.GET("/promos", h.adminListPromos)
		adm.POST("/promos", h.adminCreatePromo)
		adm.PUT("/promos/:id", h.adminUpdatePromo)
		adm.DELETE("/promos/:id", h.adminDeletePromo)

		adm.GET("/reviews", h.adminListReviews)
		adm.PUT("/reviews/:id", h.adminUpdateReview)
		adm.DELETE("/reviews/:id", h.adminDeleteReview)

		adm.GET("/orders", h.adminListOrders)
		adm.PATCH("/orders/:id/status", h.adminUpdateOrderStatus)
		adm.DELETE("/orders/:id", h.adminDeleteOrder)

		adm.GET("/users", h.adminListUsers)
		adm.PATCH("/users/:id/role", h.adminUpdateUserRole)
		adm.DELETE("/users/:id", h.adminDeleteUser)
	}

	return router
}

type handlers struct {
	deps   Deps
	logger *logrus.Logger
}
