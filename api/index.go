package api

import (
	"context"
	"net/http"
	"sync"

	"inventory-billing/config"
	"inventory-billing/logger"
	"inventory-billing/server"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

var (
	app     *server.App
	initErr error
	once    sync.Once
)

func initApp() {
	once.Do(func() {
		gin.SetMode(gin.ReleaseMode)

		cfg := config.LoadConfig()
		logger.Initialize(cfg.AppEnv)

		app, initErr = server.Build(context.Background(), cfg)
		if initErr != nil {
			logger.Log.Error("Failed to initialize app", zap.Error(initErr))
		}
	})
}

// Handler is the serverless entry point. Resources are opened on the first
// invocation and reused by warm instances.
func Handler(w http.ResponseWriter, r *http.Request) {
	initApp()
	if initErr != nil {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusServiceUnavailable)
		_, _ = w.Write([]byte(`{"success":false,"message":"Service unavailable"}`))
		return
	}
	app.Router.ServeHTTP(w, r)
}
