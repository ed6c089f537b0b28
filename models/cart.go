package models

import (
	"inventory-billing/apperrors"

	"github.com/shopspring/decimal"
)

// CartLine is one product in a cart. Subtotal is always Quantity × Product.Price.
type CartLine struct {
	Product  Product         `json:"product"`
	Quantity int             `json:"quantity"`
	Subtotal decimal.Decimal `json:"subtotal"`
}

// Cart is an ordered, process-local set of lines keyed by product id. It is
// never persisted and is not safe for concurrent use.
type Cart struct {
	lines []CartLine
}

func NewCart() *Cart {
	return &Cart{}
}

func (c *Cart) indexOf(productID int64) int {
	for i := range c.lines {
		if c.lines[i].Product.ID == productID {
			return i
		}
	}
	return -1
}

// Add puts qty units of product in the cart, merging with an existing line.
// product carries the live stock figure; the merged quantity may not exceed it.
func (c *Cart) Add(product Product, qty int) error {
	if qty <= 0 {
		return apperrors.Validation("Please enter a valid quantity")
	}
	idx := c.indexOf(product.ID)
	currentCartQty := 0
	if idx >= 0 {
		currentCartQty = c.lines[idx].Quantity
	}

	if qty > product.Quantity-currentCartQty {
		// stock may have dropped below what the cart already holds
		available := max(product.Quantity-currentCartQty, 0)
		return apperrors.Validation("Not enough stock. Only %d more available.", available)
	}

	if idx >= 0 {
		newQty := c.lines[idx].Quantity + qty
		c.lines[idx] = newLine(product, newQty)
		return nil
	}

	c.lines = append(c.lines, newLine(product, qty))
	return nil
}

// Update replaces the quantity of product's line. newQty <= 0 removes the line.
func (c *Cart) Update(product Product, newQty int) error {
	if newQty <= 0 {
		c.Remove(product.ID)
		return nil
	}

	idx := c.indexOf(product.ID)
	if idx < 0 {
		return apperrors.Validation("Product is not in the cart")
	}

	if newQty > product.Quantity {
		return apperrors.Validation("Cannot exceed stock quantity of %d", product.Quantity)
	}

	c.lines[idx] = newLine(product, newQty)
	return nil
}

// Remove drops the line for productID. Removing an absent product is a no-op.
func (c *Cart) Remove(productID int64) {
	idx := c.indexOf(productID)
	if idx < 0 {
		return
	}
	c.lines = append(c.lines[:idx], c.lines[idx+1:]...)
}

func (c *Cart) Total() decimal.Decimal {
	total := decimal.Zero
	for _, line := range c.lines {
		total = total.Add(line.Subtotal)
	}
	return total
}

// Lines returns a copy of the current lines in insertion order.
func (c *Cart) Lines() []CartLine {
	out := make([]CartLine, len(c.lines))
	copy(out, c.lines)
	return out
}

func (c *Cart) Line(productID int64) (CartLine, bool) {
	idx := c.indexOf(productID)
	if idx < 0 {
		return CartLine{}, false
	}
	return c.lines[idx], true
}

func (c *Cart) Len() int {
	return len(c.lines)
}

func (c *Cart) IsEmpty() bool {
	return len(c.lines) == 0
}

func (c *Cart) Clear() {
	c.lines = nil
}

func newLine(product Product, qty int) CartLine {
	return CartLine{
		Product:  product,
		Quantity: qty,
		Subtotal: product.Price.Mul(decimal.NewFromInt(int64(qty))),
	}
}

// CartView is the JSON shape of a cart.
type CartView struct {
	Lines []CartLine      `json:"lines"`
	Total decimal.Decimal `json:"total"`
}

func (c *Cart) View() CartView {
	return CartView{Lines: c.Lines(), Total: c.Total()}
}
