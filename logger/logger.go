package logger

import (
	"context"
	"fmt"
	"os"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Log is the process-wide logger. It starts as a no-op so packages can log
// before Initialize runs (and in tests).
var Log = zap.NewNop()

const RequestIDKey = "request_id"

// Initialize sets up Log for the given environment.
func Initialize(env string) {
	var config zap.Config

	if env == "production" {
		config = zap.NewProductionConfig()
		config.EncoderConfig.TimeKey = "timestamp"
		config.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	} else {
		config = zap.NewDevelopmentConfig()
		config.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	}

	l, err := config.Build()
	if err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	Log = l
}

func Sync() {
	_ = Log.Sync()
}

// With returns Log annotated with the request id carried by ctx, if any.
func With(ctx context.Context) *zap.Logger {
	if id := requestID(ctx); id != "" {
		return Log.With(zap.String(RequestIDKey, id))
	}
	return Log
}

type ctxKey struct{}

// WithRequestID stores id on ctx so that service code can log it without
// depending on gin.
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, ctxKey{}, id)
}

func requestID(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	if ginCtx, ok := ctx.(*gin.Context); ok {
		return ginCtx.GetString(RequestIDKey)
	}
	if id, ok := ctx.Value(ctxKey{}).(string); ok {
		return id
	}
	return ""
}
