package controllers

import (
	"net/http"

	"inventory-billing/models"
	"inventory-billing/services"

	"github.com/gin-gonic/gin"
)

type ProductController struct {
	productService *services.ProductService
}

func NewProductController(productService *services.ProductService) *ProductController {
	return &ProductController{productService: productService}
}

// @Summary Get all products
// @Description List the whole catalog ordered by id
// @Tags Products
// @Security BearerAuth
// @Produce json
// @Success 200 {object} models.Response
// @Router /products [get]
func (ctrl *ProductController) GetAllProducts(c *gin.Context) {
	products, err := ctrl.productService.List(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	respondSuccess(c, http.StatusOK, "Products retrieved", products)
}

// @Summary Get available products
// @Description List products with stock on hand, ordered by name
// @Tags Products
// @Security BearerAuth
// @Produce json
// @Success 200 {object} models.Response
// @Router /products/available [get]
func (ctrl *ProductController) GetAvailableProducts(c *gin.Context) {
	products, err := ctrl.productService.ListAvailable(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	respondSuccess(c, http.StatusOK, "Products retrieved", products)
}

// @Summary Get product by ID
// @Tags Products
// @Security BearerAuth
// @Produce json
// @Param id path int true "Product ID"
// @Success 200 {object} models.Response
// @Failure 404 {object} models.ErrorResponse
// @Router /products/{id} [get]
func (ctrl *ProductController) GetProductByID(c *gin.Context) {
	id, ok := parseInt64Param(c, "id")
	if !ok {
		return
	}

	product, err := ctrl.productService.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	respondSuccess(c, http.StatusOK, "Product retrieved", product)
}

// @Summary Create product
// @Tags Products
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body models.CreateProductRequest true "Product"
// @Success 201 {object} models.Response
// @Failure 400 {object} models.ErrorResponse
// @Router /products [post]
func (ctrl *ProductController) CreateProduct(c *gin.Context) {
	var req models.CreateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondInvalidRequest(c, err)
		return
	}

	product, err := ctrl.productService.Create(c.Request.Context(), services.CreateProductInput{
		Name:     req.Name,
		Quantity: *req.Quantity,
		Price:    *req.Price,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	respondSuccess(c, http.StatusCreated, "Product created", product)
}

// @Summary Update product
// @Description Partially update a product
// @Tags Products
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path int true "Product ID"
// @Param request body models.UpdateProductRequest true "Fields to change"
// @Success 200 {object} models.Response
// @Failure 400 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /products/{id} [patch]
func (ctrl *ProductController) UpdateProduct(c *gin.Context) {
	id, ok := parseInt64Param(c, "id")
	if !ok {
		return
	}

	var req models.UpdateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondInvalidRequest(c, err)
		return
	}

	product, err := ctrl.productService.Update(c.Request.Context(), id, req.ToUpdate())
	if err != nil {
		respondError(c, err)
		return
	}
	respondSuccess(c, http.StatusOK, "Product updated", product)
}

// @Summary Delete product
// @Tags Products
// @Security BearerAuth
// @Produce json
// @Param id path int true "Product ID"
// @Success 200 {object} models.Response
// @Failure 404 {object} models.ErrorResponse
// @Router /products/{id} [delete]
func (ctrl *ProductController) DeleteProduct(c *gin.Context) {
	id, ok := parseInt64Param(c, "id")
	if !ok {
		return
	}

	if err := ctrl.productService.Delete(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	respondSuccess(c, http.StatusOK, "Product deleted", nil)
}
