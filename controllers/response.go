package controllers

import (
	"net/http"
	"strconv"

	"inventory-billing/apperrors"
	"inventory-billing/logger"
	"inventory-billing/middleware"
	"inventory-billing/models"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func respondSuccess(c *gin.Context, status int, message string, data interface{}) {
	c.JSON(status, models.Response{
		Success: true,
		Message: message,
		Data:    data,
	})
}

// respondError writes err in the error envelope. Server-side failures are
// logged with their cause; the client only sees the message.
func respondError(c *gin.Context, err error) {
	status := apperrors.HTTPStatus(err)
	if status >= http.StatusInternalServerError {
		logger.With(c).Error("Request failed", zap.String("path", c.FullPath()), zap.Error(err))
	}
	c.JSON(status, models.ErrorResponse{
		Success: false,
		Message: apperrors.Message(err),
		Error:   string(apperrors.KindOf(err)),
	})
}

func respondInvalidRequest(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, models.ErrorResponse{
		Success: false,
		Message: "Invalid request",
		Error:   err.Error(),
	})
}

func requireUser(c *gin.Context) (models.AuthUser, bool) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		respondError(c, apperrors.Unauthorized("Not signed in"))
	}
	return user, ok
}

func parseInt64Param(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		respondError(c, apperrors.Validation("Invalid %s", name))
		return 0, false
	}
	return id, true
}
