package controllers

import (
	"net/http"
	"strconv"

	"inventory-billing/apperrors"
	"inventory-billing/services"

	"github.com/gin-gonic/gin"
)

type ReportController struct {
	reportService *services.ReportService
}

func NewReportController(reportService *services.ReportService) *ReportController {
	return &ReportController{reportService: reportService}
}

// @Summary Low stock report
// @Description Products with quantity below the threshold, lowest first
// @Tags Reports
// @Security BearerAuth
// @Produce json
// @Param threshold query int false "Threshold (default from LOW_STOCK_THRESHOLD)"
// @Success 200 {object} models.Response
// @Failure 400 {object} models.ErrorResponse
// @Router /reports/low-stock [get]
func (ctrl *ReportController) LowStock(c *gin.Context) {
	var threshold *int
	if raw, present := c.GetQuery("threshold"); present {
		value, err := strconv.Atoi(raw)
		if err != nil {
			respondError(c, apperrors.Validation("Threshold must be a positive integer"))
			return
		}
		threshold = &value
	}

	report, err := ctrl.reportService.LowStock(c.Request.Context(), threshold)
	if err != nil {
		respondError(c, err)
		return
	}
	respondSuccess(c, http.StatusOK, "Report generated", report)
}
