package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"inventory-billing/config"
	_ "inventory-billing/docs"
	"inventory-billing/logger"
	"inventory-billing/server"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// @title Inventory Billing API
// @version 1.0
// @description Product catalog, cart checkout into bills, and low-stock reporting.
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	cfg := config.LoadConfig()

	logger.Initialize(cfg.AppEnv)
	defer logger.Sync()

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	} else {
		gin.SetMode(gin.DebugMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	app, err := server.Build(ctx, cfg)
	if err != nil {
		log.Fatalf("Failed to start: %v", err)
	}
	defer app.Close()

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           app.Router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Log.Info("Server starting",
			zap.String("port", cfg.Port),
			zap.String("environment", cfg.AppEnv),
			zap.String("swagger", "http://localhost:"+cfg.Port+"/swagger/index.html"))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Log.Error("Server stopped", zap.Error(err))
			os.Exit(1)
		}
	}()

	<-ctx.Done()
	logger.Log.Info("Shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Log.Error("Forced shutdown", zap.Error(err))
	}
}
