package services

import (
	"context"
	"strings"
	"time"

	"inventory-billing/apperrors"
	"inventory-billing/logger"
	"inventory-billing/models"
	"inventory-billing/repositories"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

type ProductService struct {
	productRepo  repositories.ProductRepository
	cache        ProductCache
	storeTimeout time.Duration
	now          func() time.Time
}

func NewProductService(productRepo repositories.ProductRepository, cache ProductCache, storeTimeout time.Duration) *ProductService {
	if cache == nil {
		cache = noopProductCache{}
	}
	return &ProductService{
		productRepo:  productRepo,
		cache:        cache,
		storeTimeout: storeTimeout,
		now:          time.Now,
	}
}

type CreateProductInput struct {
	Name     string
	Quantity int
	Price    decimal.Decimal
}

// List returns the whole catalog ordered by id.
func (s *ProductService) List(ctx context.Context) ([]models.Product, error) {
	return s.cachedList(ctx, productCacheAllKey, models.ProductFilter{OrderBy: models.OrderByID})
}

// ListAvailable returns products with stock on hand, ordered by name. This is
// what the cart picker offers.
func (s *ProductService) ListAvailable(ctx context.Context) ([]models.Product, error) {
	zero := 0
	return s.cachedList(ctx, productCacheAvailableKey, models.ProductFilter{
		QuantityAbove: &zero,
		OrderBy:       models.OrderByName,
	})
}

// cachedList takes the cache generation before reading the store, so a fill
// racing with a write lands in a generation nobody reads any more.
func (s *ProductService) cachedList(ctx context.Context, key string, filter models.ProductFilter) ([]models.Product, error) {
	version, cacheable := s.cache.Version(ctx)
	if cacheable {
		if products, ok := s.cache.Get(ctx, key, version); ok {
			return products, nil
		}
	}

	storeCtx, cancel := withStoreTimeout(ctx, s.storeTimeout)
	defer cancel()

	products, err := s.productRepo.ListProducts(storeCtx, filter)
	if err != nil {
		return nil, err
	}
	if cacheable {
		s.cache.Set(ctx, key, version, products)
	}
	return products, nil
}

func (s *ProductService) Get(ctx context.Context, id int64) (*models.Product, error) {
	storeCtx, cancel := withStoreTimeout(ctx, s.storeTimeout)
	defer cancel()
	return s.productRepo.GetProduct(storeCtx, id)
}

func (s *ProductService) Create(ctx context.Context, input CreateProductInput) (*models.Product, error) {
	name := strings.TrimSpace(input.Name)
	if err := validateProductFields(&name, &input.Quantity, &input.Price); err != nil {
		return nil, err
	}

	product := &models.Product{
		Name:     name,
		Quantity: input.Quantity,
		Price:    input.Price,
	}

	storeCtx, cancel := withStoreTimeout(ctx, s.storeTimeout)
	defer cancel()

	if err := s.productRepo.InsertProduct(storeCtx, product); err != nil {
		return nil, err
	}
	s.cache.Invalidate(ctx)

	logger.With(ctx).Info("Product created", zap.Int64("product_id", product.ID), zap.String("name", product.Name))
	return product, nil
}

func (s *ProductService) Update(ctx context.Context, id int64, update models.ProductUpdate) (*models.Product, error) {
	if update.Name != nil {
		trimmed := strings.TrimSpace(*update.Name)
		update.Name = &trimmed
	}
	if err := validateProductFields(update.Name, update.Quantity, update.Price); err != nil {
		return nil, err
	}

	storeCtx, cancel := withStoreTimeout(ctx, s.storeTimeout)
	defer cancel()

	product, err := s.productRepo.UpdateProduct(storeCtx, id, update, s.now())
	if err != nil {
		return nil, err
	}
	s.cache.Invalidate(ctx)
	return product, nil
}

// Delete removes a product. Bill items that reference it keep their name and
// price snapshot.
func (s *ProductService) Delete(ctx context.Context, id int64) error {
	storeCtx, cancel := withStoreTimeout(ctx, s.storeTimeout)
	defer cancel()

	if err := s.productRepo.DeleteProduct(storeCtx, id); err != nil {
		return err
	}
	s.cache.Invalidate(ctx)

	logger.With(ctx).Info("Product deleted", zap.Int64("product_id", id))
	return nil
}

func (s *ProductService) InvalidateCache(ctx context.Context) {
	s.cache.Invalidate(ctx)
}

// validateProductFields checks the fields that are present. Nil pointers are
// skipped so the same rules serve create and partial update. Prices carry at
// most two decimal places, matching the NUMERIC(12,2) column.
func validateProductFields(name *string, quantity *int, price *decimal.Decimal) error {
	if name != nil && *name == "" {
		return apperrors.Validation("Please enter a product name")
	}
	if quantity != nil && *quantity < 0 {
		return apperrors.Validation("Please enter a valid quantity")
	}
	if price != nil && (price.IsNegative() || !price.Equal(price.Round(2))) {
		return apperrors.Validation("Please enter a valid price")
	}
	return nil
}

func withStoreTimeout(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, timeout)
}
