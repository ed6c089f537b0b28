package controllers

import (
	"net/http"

	"inventory-billing/models"
	"inventory-billing/services"

	"github.com/gin-gonic/gin"
)

type CartController struct {
	cartService     *services.CartService
	checkoutService *services.CheckoutService
}

func NewCartController(cartService *services.CartService, checkoutService *services.CheckoutService) *CartController {
	return &CartController{cartService: cartService, checkoutService: checkoutService}
}

// @Summary Get cart
// @Description Current cart lines and total
// @Tags Cart
// @Security BearerAuth
// @Produce json
// @Success 200 {object} models.Response
// @Router /cart [get]
func (ctrl *CartController) GetCart(c *gin.Context) {
	user, ok := requireUser(c)
	if !ok {
		return
	}
	respondSuccess(c, http.StatusOK, "Cart retrieved", ctrl.cartService.Get(user.ID))
}

// @Summary Add to cart
// @Description Add units of a product, merging with an existing line
// @Tags Cart
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body models.AddCartItemRequest true "Item"
// @Success 200 {object} models.Response
// @Failure 400 {object} models.ErrorResponse
// @Router /cart/items [post]
func (ctrl *CartController) AddItem(c *gin.Context) {
	user, ok := requireUser(c)
	if !ok {
		return
	}

	var req models.AddCartItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondInvalidRequest(c, err)
		return
	}

	cart, err := ctrl.cartService.Add(c.Request.Context(), user.ID, req.ProductID, req.Quantity)
	if err != nil {
		respondError(c, err)
		return
	}
	respondSuccess(c, http.StatusOK, "Added to cart", cart)
}

// @Summary Update cart quantity
// @Description Set a line's quantity; zero or less removes it
// @Tags Cart
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param product_id path int true "Product ID"
// @Param request body models.UpdateCartItemRequest true "Quantity"
// @Success 200 {object} models.Response
// @Failure 400 {object} models.ErrorResponse
// @Router /cart/items/{product_id} [patch]
func (ctrl *CartController) UpdateItem(c *gin.Context) {
	user, ok := requireUser(c)
	if !ok {
		return
	}
	productID, ok := parseInt64Param(c, "product_id")
	if !ok {
		return
	}

	var req models.UpdateCartItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondInvalidRequest(c, err)
		return
	}

	cart, err := ctrl.cartService.Update(c.Request.Context(), user.ID, productID, req.Quantity)
	if err != nil {
		respondError(c, err)
		return
	}
	respondSuccess(c, http.StatusOK, "Cart updated", cart)
}

// @Summary Remove from cart
// @Tags Cart
// @Security BearerAuth
// @Produce json
// @Param product_id path int true "Product ID"
// @Success 200 {object} models.Response
// @Router /cart/items/{product_id} [delete]
func (ctrl *CartController) RemoveItem(c *gin.Context) {
	user, ok := requireUser(c)
	if !ok {
		return
	}
	productID, ok := parseInt64Param(c, "product_id")
	if !ok {
		return
	}
	respondSuccess(c, http.StatusOK, "Removed from cart", ctrl.cartService.Remove(user.ID, productID))
}

// @Summary Clear cart
// @Tags Cart
// @Security BearerAuth
// @Produce json
// @Success 200 {object} models.Response
// @Router /cart [delete]
func (ctrl *CartController) ClearCart(c *gin.Context) {
	user, ok := requireUser(c)
	if !ok {
		return
	}
	ctrl.cartService.Clear(user.ID)
	respondSuccess(c, http.StatusOK, "Cart cleared", ctrl.cartService.Get(user.ID))
}

// @Summary Checkout
// @Description Turn the cart into a bill and reduce stock
// @Tags Cart
// @Security BearerAuth
// @Produce json
// @Success 201 {object} models.Response
// @Failure 400 {object} models.ErrorResponse
// @Failure 409 {object} models.ErrorResponse
// @Failure 502 {object} models.ErrorResponse
// @Router /cart/checkout [post]
func (ctrl *CartController) Checkout(c *gin.Context) {
	user, ok := requireUser(c)
	if !ok {
		return
	}

	result, err := ctrl.checkoutService.Checkout(c.Request.Context(), user)
	if err != nil {
		respondError(c, err)
		return
	}

	message := "Checkout successful"
	if len(result.StockFailures) > 0 {
		message = "Checkout completed, but some stock levels were not updated"
	}
	respondSuccess(c, http.StatusCreated, message, result)
}
