package controllers

import (
	"net/http"

	"inventory-billing/apperrors"
	"inventory-billing/services"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type BillController struct {
	billService *services.BillService
}

func NewBillController(billService *services.BillService) *BillController {
	return &BillController{billService: billService}
}

// @Summary Get bill
// @Description A bill with its items, visible to the user who created it
// @Tags Bills
// @Security BearerAuth
// @Produce json
// @Param id path string true "Bill ID"
// @Success 200 {object} models.Response
// @Failure 404 {object} models.ErrorResponse
// @Router /bills/{id} [get]
func (ctrl *BillController) GetBillByID(c *gin.Context) {
	user, ok := requireUser(c)
	if !ok {
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		respondError(c, apperrors.Validation("Invalid bill id"))
		return
	}

	bill, err := ctrl.billService.Get(c.Request.Context(), user, id)
	if err != nil {
		respondError(c, err)
		return
	}
	respondSuccess(c, http.StatusOK, "Bill retrieved", bill)
}
