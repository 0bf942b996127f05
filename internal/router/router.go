package router

import (
	"time"

	"arar/config"
	"arar/internal/confirm"
	"arar/internal/domain"
	"arar/internal/handler"
	"arar/internal/metrics"
	"arar/internal/middleware"
	"arar/internal/repository"
	"arar/internal/service"
	"arar/internal/ws"
	"arar/pkg/cloudinary"
	"arar/pkg/payment"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func Setup(cfg *config.Config, db *gorm.DB, cloud cloudinary.Client, provider payment.Provider, log *zap.Logger, reg *prometheus.Registry) *gin.Engine {
	if cfg.Server.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	m := metrics.New(reg)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.AccessLog(log, m))
	r.Use(cors.New(corsConfig(cfg.Server.CORSOrigins)))
	r.Use(middleware.RateLimit(middleware.NewIPRateLimiter(cfg.Server.RateLimit)))

	// Repositories
	productRepo := repository.NewProductRepository(db)
	collectionRepo := repository.NewCollectionRepository(db)
	orderRepo := repository.NewOrderRepository(db)
	adminRepo := repository.NewAdminRepository(db)
	engagementRepo := repository.NewEngagementRepository(db)

	// Services
	authSvc := service.NewAuthService(cfg, adminRepo)
	checkoutSvc := service.NewCheckoutService(productRepo, orderRepo, provider, m, log)

	// Live confirmation
	hub := ws.NewHub()
	reg.MustRegister(prometheus.NewGaugeFunc(prometheus.GaugeOpts{
		Namespace: "arar",
		Name:      "confirmation_streams_open",
		Help:      "Open checkout confirmation websockets.",
	}, func() float64 { return float64(hub.ClientCount()) }))
	newPoller := func() *confirm.Poller {
		p := confirm.NewPoller(checkoutSvc, log)
		p.Interval = cfg.Confirm.Interval
		p.MaxAttempts = cfg.Confirm.MaxAttempts
		return p
	}

	// Handlers
	publicHandler := handler.NewPublicHandler(productRepo, engagementRepo)
	checkoutHandler := handler.NewCheckoutHandler(checkoutSvc, log)
	adminHandler := handler.NewAdminHandler(authSvc)
	productHandler := handler.NewProductHandler(productRepo)
	collectionHandler := handler.NewCollectionHandler(collectionRepo)
	orderHandler := handler.NewOrderHandler(orderRepo)
	mediaHandler := handler.NewMediaHandler(cloud, cfg.Cloudinary.Folder)

	r.GET("/", publicHandler.Root)
	r.GET("/health", publicHandler.Health)
	r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(reg, promhttp.HandlerOpts{})))
	r.GET("/ws/checkout", ws.ServeConfirmation(hub, newPoller, m, log))

	api := r.Group("/api")
	{
		api.GET("/", publicHandler.Root)
		api.GET("/fragrances", publicHandler.Fragrances)
		api.GET("/fragrances/:slug", publicHandler.Fragrance)
		api.POST("/newsletter", publicHandler.Newsletter)
		api.POST("/contact", publicHandler.Contact)

		api.POST("/create-checkout-session", checkoutHandler.CreateSession)
		api.GET("/checkout/status/:session_id", checkoutHandler.Status)
		api.POST("/webhook/stripe", checkoutHandler.StripeWebhook)

		api.POST("/admin/login", adminHandler.Login)
	}

	admin := api.Group("/admin")
	admin.Use(middleware.AdminRequired(authSvc), middleware.RequireRole(domain.RoleAdmin))
	{
		admin.POST("/register", adminHandler.Register)
		admin.GET("/me", adminHandler.Me)

		admin.GET("/products", productHandler.List)
		admin.POST("/products", productHandler.Create)
		admin.GET("/products/:id", productHandler.Get)
		admin.PUT("/products/:id", productHandler.Update)
		admin.DELETE("/products/:id", productHandler.Delete)
		admin.PATCH("/products/:id/stock", productHandler.UpdateStock)
		admin.PATCH("/products/:id/status", productHandler.UpdateStatus)

		admin.GET("/collections", collectionHandler.List)
		admin.POST("/collections", collectionHandler.Create)
		admin.PUT("/collections/:id", collectionHandler.Update)
		admin.DELETE("/collections/:id", collectionHandler.Delete)

		admin.GET("/orders", orderHandler.List)
		admin.GET("/orders/:id", orderHandler.Get)
		admin.PATCH("/orders/:id/status", orderHandler.UpdateStatus)

		admin.GET("/media/upload-signature", mediaHandler.UploadSignature)
		admin.POST("/media/upload", mediaHandler.Upload)
	}

	return r
}

func corsConfig(origins []string) cors.Config {
	c := cors.Config{
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", "Stripe-Signature"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	if len(origins) == 0 || (len(origins) == 1 && origins[0] == "*") {
		c.AllowOriginFunc = func(string) bool { return true }
	} else {
		c.AllowOrigins = origins
	}
	return c
}
