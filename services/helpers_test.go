package services

import (
	"context"
	"testing"
	"time"

	"inventory-billing/models"
	"inventory-billing/repositories"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// faultyStore wraps a Store and fails selected writes. Faults carry over into
// transactions opened through it.
type faultyStore struct {
	repositories.Store
	insertBillErr  error
	insertItemsErr error
	decrementErr   map[int64]error
}

func (s *faultyStore) InTx(ctx context.Context, fn func(tx repositories.Store) error) error {
	return s.Store.InTx(ctx, func(tx repositories.Store) error {
		return fn(&faultyStore{
			Store:          tx,
			insertBillErr:  s.insertBillErr,
			insertItemsErr: s.insertItemsErr,
			decrementErr:   s.decrementErr,
		})
	})
}

func (s *faultyStore) InsertBill(ctx context.Context, bill *models.Bill) error {
	if s.insertBillErr != nil {
		return s.insertBillErr
	}
	return s.Store.InsertBill(ctx, bill)
}

func (s *faultyStore) InsertBillItems(ctx context.Context, items []models.BillItem) error {
	if s.insertItemsErr != nil {
		return s.insertItemsErr
	}
	return s.Store.InsertBillItems(ctx, items)
}

func (s *faultyStore) DecrementProductQuantity(ctx context.Context, id int64, n int, updatedAt time.Time) error {
	if err, ok := s.decrementErr[id]; ok {
		return err
	}
	return s.Store.DecrementProductQuantity(ctx, id, n, updatedAt)
}

type spyCache struct {
	noopProductCache
	invalidations int
}

func (c *spyCache) Invalidate(context.Context) {
	c.invalidations++
}

func createProduct(t *testing.T, store repositories.Store, name string, qty int, price string) models.Product {
	t.Helper()
	p := models.Product{Name: name, Quantity: qty, Price: decimal.RequireFromString(price)}
	require.NoError(t, store.InsertProduct(context.Background(), &p))
	return p
}

func createUser(t *testing.T, store repositories.Store, email string) models.AuthUser {
	t.Helper()
	u := models.User{Email: email, PasswordHash: "unused"}
	require.NoError(t, store.CreateUser(context.Background(), &u))
	return models.AuthUser{ID: u.ID, Email: u.Email}
}

func stockOf(t *testing.T, store repositories.Store, id int64) int {
	t.Helper()
	p, err := store.GetProduct(context.Background(), id)
	require.NoError(t, err)
	return p.Quantity
}

func assertDecimal(t *testing.T, expected string, actual decimal.Decimal) {
	t.Helper()
	assert.True(t, decimal.RequireFromString(expected).Equal(actual), "expected %s, got %s", expected, actual)
}
