package repositories

import (
	"context"
	"time"

	"inventory-billing/models"

	"github.com/google/uuid"
)

type ProductRepository interface {
	ListProducts(ctx context.Context, filter models.ProductFilter) ([]models.Product, error)
	GetProduct(ctx context.Context, id int64) (*models.Product, error)
	InsertProduct(ctx context.Context, product *models.Product) error
	UpdateProduct(ctx context.Context, id int64, update models.ProductUpdate, updatedAt time.Time) (*models.Product, error)
	DeleteProduct(ctx context.Context, id int64) error
	// DecrementProductQuantity subtracts n from the product's stock only when at
	// least n units remain, returning an insufficient-stock-at-commit error otherwise.
	DecrementProductQuantity(ctx context.Context, id int64, n int, updatedAt time.Time) error
}

type BillRepository interface {
	InsertBill(ctx context.Context, bill *models.Bill) error
	InsertBillItems(ctx context.Context, items []models.BillItem) error
	GetBill(ctx context.Context, id uuid.UUID) (*models.Bill, error)
	ListBillItems(ctx context.Context, billID uuid.UUID) ([]models.BillItem, error)
}

type UserRepository interface {
	CreateUser(ctx context.Context, user *models.User) error
	FindUserByEmail(ctx context.Context, email string) (*models.User, error)
	FindUserByID(ctx context.Context, id uuid.UUID) (*models.User, error)
}

// Store is the data backend. InTx runs fn against a transactional view of the
// store: fn's writes are committed together when it returns nil and discarded
// otherwise.
type Store interface {
	ProductRepository
	BillRepository
	UserRepository
	InTx(ctx context.Context, fn func(tx Store) error) error
}
