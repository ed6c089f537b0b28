package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Bill is the immutable record of a completed checkout.
type Bill struct {
	ID        uuid.UUID       `json:"id"`
	Total     decimal.Decimal `json:"total"`
	CreatedBy uuid.UUID       `json:"created_by"`
	CreatedAt time.Time       `json:"created_at"`
}

// BillItem snapshots a product's name and unit price at sale time, so it stays
// meaningful after the product is renamed, repriced or deleted.
type BillItem struct {
	ID          uuid.UUID       `json:"id"`
	BillID      uuid.UUID       `json:"bill_id"`
	ProductID   *int64          `json:"product_id"`
	ProductName string          `json:"product_name"`
	Quantity    int             `json:"quantity"`
	Price       decimal.Decimal `json:"price"`
	Subtotal    decimal.Decimal `json:"subtotal"`
}

type BillWithItems struct {
	Bill
	Items []BillItem `json:"items"`
}
