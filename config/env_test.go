package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoadConfigDefaults(t *testing.T) {
	t.Setenv("STORE_DRIVER", "")
	t.Setenv("CHECKOUT_MODE", "")
	t.Setenv("LOW_STOCK_THRESHOLD", "")
	t.Setenv("STORE_TIMEOUT", "")

	cfg := LoadConfig()

	assert.Equal(t, "postgres", cfg.StoreDriver)
	assert.Equal(t, "atomic", cfg.CheckoutMode)
	assert.Equal(t, 5, cfg.LowStockThreshold)
	assert.Equal(t, 5*time.Second, cfg.StoreTimeout)
	assert.False(t, cfg.SMTPEnabled())
}

func TestLoadConfigOverrides(t *testing.T) {
	t.Setenv("STORE_DRIVER", "memory")
	t.Setenv("CHECKOUT_MODE", "best_effort")
	t.Setenv("LOW_STOCK_THRESHOLD", "-2")
	t.Setenv("STORE_TIMEOUT", "750ms")
	t.Setenv("JWT_EXPIRY", "not-a-duration")

	cfg := LoadConfig()

	assert.Equal(t, "memory", cfg.StoreDriver)
	assert.Equal(t, "best_effort", cfg.CheckoutMode)
	assert.Equal(t, 5, cfg.LowStockThreshold)
	assert.Equal(t, 750*time.Millisecond, cfg.StoreTimeout)
	assert.Equal(t, 24*time.Hour, cfg.JWTExpiry)
}
