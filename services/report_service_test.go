package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"inventory-billing/apperrors"
	"inventory-billing/repositories"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReportService_LowStock(t *testing.T) {
	ctx := context.Background()
	mem := repositories.NewMemoryStore()
	for i, qty := range []int{10, 3, 5, 0} {
		createProduct(t, mem, string(rune('A'+i))+"-stock", qty, "1.00")
	}
	svc := NewReportService(mem, 5, time.Second)

	t.Run("explicit threshold", func(t *testing.T) {
		threshold := 5
		report, err := svc.LowStock(ctx, &threshold)
		require.NoError(t, err)
		assert.Equal(t, 5, report.Threshold)
		require.Len(t, report.Products, 2)
		assert.Equal(t, 0, report.Products[0].Quantity)
		assert.Equal(t, 3, report.Products[1].Quantity)
	})

	t.Run("default threshold", func(t *testing.T) {
		report, err := svc.LowStock(ctx, nil)
		require.NoError(t, err)
		assert.Equal(t, 5, report.Threshold)
		assert.Len(t, report.Products, 2)
	})

	t.Run("threshold above everything", func(t *testing.T) {
		threshold := 11
		report, err := svc.LowStock(ctx, &threshold)
		require.NoError(t, err)
		assert.Len(t, report.Products, 4)
	})

	t.Run("non-positive threshold", func(t *testing.T) {
		for _, threshold := range []int{0, -1} {
			_, err := svc.LowStock(ctx, &threshold)
			assert.True(t, errors.Is(err, apperrors.ErrValidation))
		}
	})
}

func TestNewReportService_DefaultsThreshold(t *testing.T) {
	svc := NewReportService(repositories.NewMemoryStore(), 0, time.Second)
	assert.Equal(t, 5, svc.defaultThreshold)
}
