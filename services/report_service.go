package services

import (
	"context"
	"time"

	"inventory-billing/apperrors"
	"inventory-billing/models"
	"inventory-billing/repositories"
)

type LowStockReport struct {
	Threshold int              `json:"threshold"`
	Products  []models.Product `json:"products"`
}

type ReportService struct {
	productRepo      repositories.ProductRepository
	defaultThreshold int
	storeTimeout     time.Duration
}

func NewReportService(productRepo repositories.ProductRepository, defaultThreshold int, storeTimeout time.Duration) *ReportService {
	if defaultThreshold < 1 {
		defaultThreshold = 5
	}
	return &ReportService{
		productRepo:      productRepo,
		defaultThreshold: defaultThreshold,
		storeTimeout:     storeTimeout,
	}
}

// LowStock lists products whose quantity is strictly below threshold, lowest
// first. A nil threshold uses the configured default.
func (s *ReportService) LowStock(ctx context.Context, threshold *int) (*LowStockReport, error) {
	limit := s.defaultThreshold
	if threshold != nil {
		if *threshold < 1 {
			return nil, apperrors.Validation("Threshold must be a positive integer")
		}
		limit = *threshold
	}

	storeCtx, cancel := withStoreTimeout(ctx, s.storeTimeout)
	defer cancel()

	products, err := s.productRepo.ListProducts(storeCtx, models.ProductFilter{
		QuantityBelow: &limit,
		OrderBy:       models.OrderByQuantity,
	})
	if err != nil {
		return nil, err
	}

	return &LowStockReport{Threshold: limit, Products: products}, nil
}
