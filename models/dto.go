package models

import "github.com/shopspring/decimal"

type SignUpRequest struct {
	Email    string `json:"email" form:"email" binding:"required"`
	Password string `json:"password" form:"password" binding:"required"`
}

type SignInRequest struct {
	Email    string `json:"email" form:"email" binding:"required"`
	Password string `json:"password" form:"password" binding:"required"`
}

type CreateProductRequest struct {
	Name     string           `json:"name" form:"name" binding:"required"`
	Quantity *int             `json:"quantity" form:"quantity" binding:"required"`
	Price    *decimal.Decimal `json:"price" form:"price" binding:"required" swaggertype:"number"`
}

// UpdateProductRequest is a partial edit; omitted fields keep their value.
type UpdateProductRequest struct {
	Name     *string          `json:"name" form:"name"`
	Quantity *int             `json:"quantity" form:"quantity"`
	Price    *decimal.Decimal `json:"price" form:"price" swaggertype:"number"`
}

func (r UpdateProductRequest) ToUpdate() ProductUpdate {
	return ProductUpdate{Name: r.Name, Quantity: r.Quantity, Price: r.Price}
}

type AddCartItemRequest struct {
	ProductID int64 `json:"product_id" form:"product_id"`
	Quantity  int   `json:"quantity" form:"quantity"`
}

type UpdateCartItemRequest struct {
	Quantity int `json:"quantity" form:"quantity"`
}

type Response struct {
	Success bool        `json:"success"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

type ErrorResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Error   string `json:"error,omitempty"`
}
