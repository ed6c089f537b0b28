package services

import (
	"context"
	"errors"
	"sync"
	"time"

	"inventory-billing/apperrors"
	"inventory-billing/models"
	"inventory-billing/repositories"

	"github.com/google/uuid"
)

type cartSession struct {
	mu   sync.Mutex
	cart *models.Cart
}

// CartService keeps one in-process cart per signed-in user. Carts are never
// persisted; a restart empties them.
type CartService struct {
	productRepo  repositories.ProductRepository
	storeTimeout time.Duration

	mu       sync.Mutex
	sessions map[uuid.UUID]*cartSession
}

func NewCartService(productRepo repositories.ProductRepository, storeTimeout time.Duration) *CartService {
	return &CartService{
		productRepo:  productRepo,
		storeTimeout: storeTimeout,
		sessions:     map[uuid.UUID]*cartSession{},
	}
}

func (s *CartService) session(userID uuid.UUID) *cartSession {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[userID]
	if !ok {
		sess = &cartSession{cart: models.NewCart()}
		s.sessions[userID] = sess
	}
	return sess
}

func (s *CartService) Get(userID uuid.UUID) models.CartView {
	sess := s.session(userID)
	sess.mu.Lock()
	defer sess.mu.Unlock()
	return sess.cart.View()
}

// Add reads the product's current stock and adds qty units to the user's cart.
func (s *CartService) Add(ctx context.Context, userID uuid.UUID, productID int64, qty int) (models.CartView, error) {
	if productID <= 0 {
		return models.CartView{}, apperrors.Validation("Please select a product")
	}
	if qty <= 0 {
		return models.CartView{}, apperrors.Validation("Please enter a valid quantity")
	}

	sess := s.session(userID)
	sess.mu.Lock()
	defer sess.mu.Unlock()

	product, err := s.fetchProduct(ctx, productID)
	if err != nil {
		return models.CartView{}, err
	}
	if err := sess.cart.Add(*product, qty); err != nil {
		return models.CartView{}, err
	}
	return sess.cart.View(), nil
}

// Update sets the quantity of a cart line. A quantity of zero or less removes
// the line without touching the store.
func (s *CartService) Update(ctx context.Context, userID uuid.UUID, productID int64, qty int) (models.CartView, error) {
	if productID <= 0 {
		return models.CartView{}, apperrors.Validation("Please select a product")
	}

	sess := s.session(userID)
	sess.mu.Lock()
	defer sess.mu.Unlock()

	if qty <= 0 {
		sess.cart.Remove(productID)
		return sess.cart.View(), nil
	}

	product, err := s.fetchProduct(ctx, productID)
	if err != nil {
		return models.CartView{}, err
	}
	if err := sess.cart.Update(*product, qty); err != nil {
		return models.CartView{}, err
	}
	return sess.cart.View(), nil
}

func (s *CartService) Remove(userID uuid.UUID, productID int64) models.CartView {
	sess := s.session(userID)
	sess.mu.Lock()
	defer sess.mu.Unlock()

	sess.cart.Remove(productID)
	return sess.cart.View()
}

func (s *CartService) Clear(userID uuid.UUID) {
	sess := s.session(userID)
	sess.mu.Lock()
	defer sess.mu.Unlock()

	sess.cart.Clear()
}

// withCart runs fn with exclusive access to the user's cart. Checkout uses it
// so that no cart edit can interleave with a running checkout.
func (s *CartService) withCart(userID uuid.UUID, fn func(cart *models.Cart) error) error {
	sess := s.session(userID)
	sess.mu.Lock()
	defer sess.mu.Unlock()
	return fn(sess.cart)
}

func (s *CartService) fetchProduct(ctx context.Context, productID int64) (*models.Product, error) {
	storeCtx, cancel := withStoreTimeout(ctx, s.storeTimeout)
	defer cancel()

	product, err := s.productRepo.GetProduct(storeCtx, productID)
	if errors.Is(err, apperrors.ErrNotFound) {
		return nil, apperrors.Validation("Product not found")
	}
	return product, err
}
