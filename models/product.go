package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type Product struct {
	ID        int64           `json:"id"`
	Name      string          `json:"name"`
	Quantity  int             `json:"quantity"`
	Price     decimal.Decimal `json:"price"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}

// ProductUpdate carries the fields of a partial product edit. Nil fields are
// left unchanged.
type ProductUpdate struct {
	Name     *string
	Quantity *int
	Price    *decimal.Decimal
}

type ProductOrder string

const (
	OrderByID       ProductOrder = "id"
	OrderByName     ProductOrder = "name"
	OrderByQuantity ProductOrder = "quantity"
)

// ProductFilter selects products for listProducts. Quantity bounds are
// exclusive; a nil bound is not applied.
type ProductFilter struct {
	QuantityBelow *int
	QuantityAbove *int
	OrderBy       ProductOrder
}

func (f ProductFilter) Matches(p Product) bool {
	if f.QuantityBelow != nil && p.Quantity >= *f.QuantityBelow {
		return false
	}
	if f.QuantityAbove != nil && p.Quantity <= *f.QuantityAbove {
		return false
	}
	return true
}
