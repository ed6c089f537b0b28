package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"inventory-billing/apperrors"
	"inventory-billing/logger"
	"inventory-billing/models"
	"inventory-billing/repositories"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

type CheckoutMode string

const (
	// CheckoutAtomic writes the bill, its items and every stock decrement in
	// one transaction. Any failure leaves the store and the cart untouched.
	CheckoutAtomic CheckoutMode = "atomic"
	// CheckoutBestEffort stops on bill or item failures but only records
	// per-line stock update failures and still completes the sale.
	CheckoutBestEffort CheckoutMode = "best_effort"
)

func ParseCheckoutMode(value string) (CheckoutMode, error) {
	switch CheckoutMode(value) {
	case "", CheckoutAtomic:
		return CheckoutAtomic, nil
	case CheckoutBestEffort:
		return CheckoutBestEffort, nil
	}
	return "", fmt.Errorf("unknown checkout mode %q", value)
}

const CheckoutSucceeded = "success"

// StockFailure describes a cart line whose stock decrement did not apply.
type StockFailure struct {
	ProductID   int64  `json:"product_id"`
	ProductName string `json:"product_name"`
	Quantity    int    `json:"quantity"`
	Reason      string `json:"reason"`
}

type CheckoutResult struct {
	Status        string            `json:"status"`
	Bill          models.Bill       `json:"bill"`
	Items         []models.BillItem `json:"items"`
	Total         decimal.Decimal   `json:"total"`
	StockFailures []StockFailure    `json:"stock_failures"`
	Products      []models.Product  `json:"products"`
}

// ReceiptSender delivers a bill summary after a successful checkout.
type ReceiptSender interface {
	SendReceipt(ctx context.Context, to string, receipt models.BillWithItems) error
}

type CheckoutOptions struct {
	Mode            CheckoutMode
	StoreTimeout    time.Duration
	CheckoutTimeout time.Duration
	Receipts        ReceiptSender
}

type CheckoutService struct {
	store    repositories.Store
	carts    *CartService
	catalog  *ProductService
	receipts ReceiptSender

	mode            CheckoutMode
	storeTimeout    time.Duration
	checkoutTimeout time.Duration
	now             func() time.Time
}

func NewCheckoutService(store repositories.Store, carts *CartService, catalog *ProductService, opts CheckoutOptions) *CheckoutService {
	mode := opts.Mode
	if mode == "" {
		mode = CheckoutAtomic
	}
	return &CheckoutService{
		store:           store,
		carts:           carts,
		catalog:         catalog,
		receipts:        opts.Receipts,
		mode:            mode,
		storeTimeout:    opts.StoreTimeout,
		checkoutTimeout: opts.CheckoutTimeout,
		now:             time.Now,
	}
}

func (s *CheckoutService) Mode() CheckoutMode {
	return s.mode
}

// Checkout turns the user's cart into a bill. On success the cart is cleared;
// on failure it is left as it was so the user can retry.
func (s *CheckoutService) Checkout(ctx context.Context, user models.AuthUser) (*CheckoutResult, error) {
	log := logger.With(ctx).With(zap.String("user_id", user.ID.String()), zap.String("mode", string(s.mode)))

	var result *CheckoutResult
	err := s.carts.withCart(user.ID, func(cart *models.Cart) error {
		if cart.IsEmpty() {
			return apperrors.EmptyCart()
		}

		lines := cart.Lines()
		total := cart.Total()

		var err error
		switch s.mode {
		case CheckoutBestEffort:
			result, err = s.checkoutBestEffort(ctx, log, user, lines, total)
		default:
			result, err = s.checkoutAtomic(ctx, user, lines, total)
		}
		if err != nil {
			return err
		}

		cart.Clear()
		return nil
	})
	if err != nil {
		log.Warn("Checkout aborted", zap.String("kind", string(apperrors.KindOf(err))), zap.Error(err))
		return nil, err
	}

	s.finalize(ctx, log, user, result)

	log.Info("Checkout completed",
		zap.String("bill_id", result.Bill.ID.String()),
		zap.String("total", result.Total.StringFixed(2)),
		zap.Int("items", len(result.Items)),
		zap.Int("stock_failures", len(result.StockFailures)))
	return result, nil
}

func (s *CheckoutService) checkoutAtomic(ctx context.Context, user models.AuthUser, lines []models.CartLine, total decimal.Decimal) (*CheckoutResult, error) {
	txCtx, cancel := withStoreTimeout(ctx, s.checkoutTimeout)
	defer cancel()

	bill := models.Bill{Total: total, CreatedBy: user.ID}
	var items []models.BillItem

	err := s.store.InTx(txCtx, func(tx repositories.Store) error {
		if err := tx.InsertBill(txCtx, &bill); err != nil {
			return apperrors.BillCreate(err)
		}

		items = buildBillItems(bill.ID, lines)
		if err := tx.InsertBillItems(txCtx, items); err != nil {
			return apperrors.BillItems(err)
		}

		updatedAt := s.now()
		for _, line := range lines {
			if err := tx.DecrementProductQuantity(txCtx, line.Product.ID, line.Quantity, updatedAt); err != nil {
				if errors.Is(err, apperrors.ErrInsufficientStockAtCommit) {
					return err
				}
				return apperrors.StockUpdate(line.Product.ID, err)
			}
		}
		return nil
	})
	if err != nil {
		var appErr *apperrors.Error
		if !errors.As(err, &appErr) {
			err = apperrors.Internal("Checkout failed", err)
		}
		return nil, err
	}

	return &CheckoutResult{
		Status:        CheckoutSucceeded,
		Bill:          bill,
		Items:         items,
		Total:         total,
		StockFailures: []StockFailure{},
	}, nil
}

func (s *CheckoutService) checkoutBestEffort(ctx context.Context, log *zap.Logger, user models.AuthUser, lines []models.CartLine, total decimal.Decimal) (*CheckoutResult, error) {
	bill := models.Bill{Total: total, CreatedBy: user.ID}

	storeCtx, cancel := withStoreTimeout(ctx, s.storeTimeout)
	err := s.store.InsertBill(storeCtx, &bill)
	cancel()
	if err != nil {
		return nil, apperrors.BillCreate(err)
	}

	items := buildBillItems(bill.ID, lines)
	storeCtx, cancel = withStoreTimeout(ctx, s.storeTimeout)
	err = s.store.InsertBillItems(storeCtx, items)
	cancel()
	if err != nil {
		log.Error("Bill saved without items", zap.String("bill_id", bill.ID.String()), zap.Error(err))
		return nil, apperrors.BillItems(err)
	}

	failures := []StockFailure{}
	for _, line := range lines {
		storeCtx, cancel := withStoreTimeout(ctx, s.storeTimeout)
		err := s.store.DecrementProductQuantity(storeCtx, line.Product.ID, line.Quantity, s.now())
		cancel()
		if err == nil {
			continue
		}

		if !errors.Is(err, apperrors.ErrInsufficientStockAtCommit) {
			err = apperrors.StockUpdate(line.Product.ID, err)
		}
		log.Warn("Stock update failed",
			zap.String("bill_id", bill.ID.String()),
			zap.Int64("product_id", line.Product.ID),
			zap.Int("quantity", line.Quantity),
			zap.Error(err))
		failures = append(failures, StockFailure{
			ProductID:   line.Product.ID,
			ProductName: line.Product.Name,
			Quantity:    line.Quantity,
			Reason:      apperrors.Message(err),
		})
	}

	return &CheckoutResult{
		Status:        CheckoutSucceeded,
		Bill:          bill,
		Items:         items,
		Total:         total,
		StockFailures: failures,
	}, nil
}

// finalize refreshes what the caller sees after a sale. Failures here are
// logged and never undo the checkout.
func (s *CheckoutService) finalize(ctx context.Context, log *zap.Logger, user models.AuthUser, result *CheckoutResult) {
	s.catalog.InvalidateCache(ctx)

	products, err := s.catalog.ListAvailable(ctx)
	if err != nil {
		log.Warn("Failed to refresh products after checkout", zap.Error(err))
		products = nil
	}
	result.Products = products

	if s.receipts == nil || user.Email == "" {
		return
	}

	receipt := models.BillWithItems{Bill: result.Bill, Items: result.Items}
	go func() {
		sendCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := s.receipts.SendReceipt(sendCtx, user.Email, receipt); err != nil {
			log.Warn("Failed to send receipt", zap.String("bill_id", receipt.ID.String()), zap.Error(err))
		}
	}()
}

func buildBillItems(billID uuid.UUID, lines []models.CartLine) []models.BillItem {
	items := make([]models.BillItem, 0, len(lines))
	for _, line := range lines {
		productID := line.Product.ID
		items = append(items, models.BillItem{
			BillID:      billID,
			ProductID:   &productID,
			ProductName: line.Product.Name,
			Quantity:    line.Quantity,
			Price:       line.Product.Price,
			Subtotal:    line.Subtotal,
		})
	}
	return items
}
