package api

import (
	"net/http"

	"github.com/example/storefront/pkg/auth"
	"github.com/example/storefront/pkg/config"
	"github.com/example/storefront/pkg/models"
	"github.com/example/storefront/pkg/repository"
	"github.com/example/storefront/pkg/service"
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"
)

type Server struct {
	config  *config.Config
	logger  *zap.Logger
	router  *gin.Engine
	tokens  *auth.TokenService
	users   *service.UserService
	catalog *service.CatalogService
	carts   *service.CartService
	orders  *service.OrderService
}

// Deps bundles the collaborators the HTTP layer composes.
type Deps struct {
	Config  *config.Config
	Logger  *zap.Logger
	Tokens  *auth.TokenService
	Cache   *repository.Cache
	Users   *service.UserService
	Catalog *service.CatalogService
	Carts   *service.CartService
	Orders  *service.OrderService
}

func NewServer(deps Deps) *Server {
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(requestIDMiddleware())
	router.Use(loggerMiddleware(deps.Logger))
	router.Use(securityHeadersMiddleware())
	if deps.Cache != nil && deps.Config.RateLimit.Enabled {
		router.Use(rateLimitMiddleware(deps.Cache, &deps.Config.RateLimit, deps.Logger))
	}

	s := &Server{
		config:  deps.Config,
		logger:  deps.Logger,
		router:  router,
		tokens:  deps.Tokens,
		users:   deps.Users,
		catalog: deps.Catalog,
		carts:   deps.Carts,
		orders:  deps.Orders,
	}
	s.setupRoutes()
	return s
}

func (s *Server) setupRoutes() {
	s.router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	protect := authMiddleware(s.tokens)
	adminOnly := requireRole(models.RoleAdmin)

	api := s.router.Group("/api")
	{
		authRoutes := api.Group("/auth")
		{
			authRoutes.POST("/register", s.register)
			authRoutes.POST("/login", s.login)
		}

		users := api.Group("/users", protect)
		{
			users.GET("/profile", s.getProfile)
			users.PUT("/profile", s.updateProfile)
			users.PUT("/update-password", s.updatePassword)

			users.GET("", adminOnly, s.listUsers)
			users.GET("/:id", adminOnly, s.getUser)
			users.PUT("/:id", adminOnly, s.updateUser)
			users.DELETE("/:id", adminOnly, s.deleteUser)
		}

		products := api.Group("/products")
		{
			products.GET("", s.listProducts)
			products.GET("/:id", s.getProduct)
			products.POST("", protect, adminOnly, s.createProduct)
			products.PUT("/:id", protect, adminOnly, s.updateProduct)
			products.DELETE("/:id", protect, adminOnly, s.deleteProduct)
		}

		categories := api.Group("/categories")
		{
			categories.GET("", s.listCategories)
			categories.GET("/:id", s.getCategory)
			categories.POST("", protect, adminOnly, s.createCategory)
			categories.PUT("/:id", protect, adminOnly, s.updateCategory)
			categories.DELETE("/:id", protect, adminOnly, s.deleteCategory)
		}

		cart := api.Group("/cart", protect)
		{
			cart.GET("", s.getCart)
			cart.POST("/add", s.addToCart)
			cart.PUT("/update/:itemId", s.updateCartItem)
			cart.DELETE("/remove/:itemId", s.removeFromCart)
			cart.DELETE("/clear", s.clearCart)
			cart.POST("/apply-coupon", s.applyCoupon)
			cart.DELETE("/remove-coupon", s.removeCoupon)
		}

		orders := api.Group("/orders", protect)
		{
			orders.POST("", s.createOrder)
			orders.GET("", adminOnly, s.listOrders)
			orders.GET("/:id", s.getOrder)
			orders.PUT("/:id/status", adminOnly, s.updateOrderStatus)
			orders.PUT("/:id/deliver", adminOnly, s.deliverOrder)
			orders.PUT("/:id/pay", s.payOrder)
		}
	}

	s.router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
}

func (s *Server) Start() error {
	addr := s.config.Server.Addr()
	s.logger.Info("HTTP server starting", zap.String("address", addr))
	return s.router.Run(addr)
}

// Router exposes the engine for tests.
func (s *Server) Router() http.Handler {
	return s.router
}
