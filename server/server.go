package server

import (
	"context"
	"fmt"

	"inventory-billing/config"
	"inventory-billing/controllers"
	"inventory-billing/libs"
	"inventory-billing/logger"
	"inventory-billing/middleware"
	"inventory-billing/repositories"
	"inventory-billing/routes"
	"inventory-billing/services"
	"inventory-billing/utils"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// App is a fully wired HTTP handler plus the resources it holds open.
type App struct {
	Router  *gin.Engine
	closers []func()
}

func (a *App) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		a.closers[i]()
	}
}

// Deps overrides the backends Build would otherwise open from config. Tests
// use it to run the whole router against a memory store.
type Deps struct {
	Store repositories.Store
	Redis *redis.Client
}

func Build(ctx context.Context, cfg *config.Config) (*App, error) {
	app := &App{}

	store, err := openStore(ctx, cfg, app)
	if err != nil {
		return nil, err
	}

	redisClient := config.ConnectRedis(ctx, cfg)
	if redisClient != nil {
		app.closers = append(app.closers, func() { _ = redisClient.Close() })
	}

	router, err := NewRouter(cfg, Deps{Store: store, Redis: redisClient})
	if err != nil {
		app.Close()
		return nil, err
	}
	app.Router = router
	return app, nil
}

func openStore(ctx context.Context, cfg *config.Config, app *App) (repositories.Store, error) {
	switch cfg.StoreDriver {
	case "memory":
		logger.Log.Warn("Using in-memory store, data is lost on restart")
		return repositories.NewMemoryStore(), nil
	case "postgres", "":
		pool, err := config.ConnectDB(ctx, cfg)
		if err != nil {
			return nil, err
		}
		app.closers = append(app.closers, pool.Close)
		return repositories.NewPgStore(pool), nil
	}
	return nil, fmt.Errorf("unknown STORE_DRIVER %q", cfg.StoreDriver)
}

// NewRouter wires services, controllers and middleware on top of deps.
func NewRouter(cfg *config.Config, deps Deps) (*gin.Engine, error) {
	mode, err := services.ParseCheckoutMode(cfg.CheckoutMode)
	if err != nil {
		return nil, err
	}

	var receipts services.ReceiptSender
	if cfg.SMTPEnabled() {
		mailer, err := libs.NewReceiptMailer(cfg)
		if err != nil {
			return nil, err
		}
		receipts = mailer
	}

	store := deps.Store
	cache := services.NewProductCache(deps.Redis, cfg.ProductCacheTTL)
	tokens := utils.NewTokenManager(cfg.JWTSecret, cfg.JWTExpiry)

	authService := services.NewAuthService(store, tokens, services.NewTokenRevoker(deps.Redis), cfg.StoreTimeout)
	productService := services.NewProductService(store, cache, cfg.StoreTimeout)
	cartService := services.NewCartService(store, cfg.StoreTimeout)
	checkoutService := services.NewCheckoutService(store, cartService, productService, services.CheckoutOptions{
		Mode:            mode,
		StoreTimeout:    cfg.StoreTimeout,
		CheckoutTimeout: cfg.CheckoutTimeout,
		Receipts:        receipts,
	})
	reportService := services.NewReportService(store, cfg.LowStockThreshold, cfg.StoreTimeout)
	billService := services.NewBillService(store, cfg.StoreTimeout)

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestLogger())
	router.Use(middleware.CORSMiddleware(cfg.OriginURL))

	routes.SetupRoutes(router, routes.Controllers{
		Auth:    controllers.NewAuthController(authService),
		Product: controllers.NewProductController(productService),
		Cart:    controllers.NewCartController(cartService, checkoutService),
		Bill:    controllers.NewBillController(billService),
		Report:  controllers.NewReportController(reportService),
	},
		middleware.AuthMiddleware(authService),
		middleware.RateLimitMiddleware(cfg.AuthRatePerMinute, cfg.AuthRateBurst),
	)

	logger.Log.Info("Router ready",
		zap.String("checkout_mode", string(checkoutService.Mode())),
		zap.Bool("cache", deps.Redis != nil),
		zap.Bool("receipts", receipts != nil))
	return router, nil
}
