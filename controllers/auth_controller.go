package controllers

import (
	"net/http"

	"inventory-billing/apperrors"
	"inventory-billing/middleware"
	"inventory-billing/models"
	"inventory-billing/services"

	"github.com/gin-gonic/gin"
)

type AuthController struct {
	authService *services.AuthService
}

func NewAuthController(authService *services.AuthService) *AuthController {
	return &AuthController{authService: authService}
}

// SignUp godoc
// @Summary Sign up
// @Description Create an account and start a session
// @Tags Authentication
// @Accept json
// @Produce json
// @Param request body models.SignUpRequest true "Sign up request"
// @Success 201 {object} models.Response
// @Failure 400 {object} models.ErrorResponse
// @Failure 409 {object} models.ErrorResponse
// @Router /auth/signup [post]
func (ctrl *AuthController) SignUp(c *gin.Context) {
	var req models.SignUpRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondInvalidRequest(c, err)
		return
	}

	session, err := ctrl.authService.SignUp(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		respondError(c, err)
		return
	}

	respondSuccess(c, http.StatusCreated, "Registration successful", session)
}

// SignIn godoc
// @Summary Sign in
// @Description Sign in with email and password
// @Tags Authentication
// @Accept json
// @Produce json
// @Param request body models.SignInRequest true "Sign in request"
// @Success 200 {object} models.Response
// @Failure 401 {object} models.ErrorResponse
// @Router /auth/signin [post]
func (ctrl *AuthController) SignIn(c *gin.Context) {
	var req models.SignInRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondInvalidRequest(c, err)
		return
	}

	session, err := ctrl.authService.SignIn(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		respondError(c, err)
		return
	}

	respondSuccess(c, http.StatusOK, "Login successful", session)
}

// SignOut godoc
// @Summary Sign out
// @Description Revoke the current token
// @Tags Authentication
// @Security BearerAuth
// @Produce json
// @Success 200 {object} models.Response
// @Router /auth/signout [post]
func (ctrl *AuthController) SignOut(c *gin.Context) {
	claims, ok := middleware.CurrentClaims(c)
	if !ok {
		respondError(c, apperrors.Unauthorized("Not signed in"))
		return
	}

	if err := ctrl.authService.SignOut(c.Request.Context(), claims); err != nil {
		respondError(c, err)
		return
	}

	respondSuccess(c, http.StatusOK, "Signed out", nil)
}

// Me godoc
// @Summary Current user
// @Description Get the signed-in user
// @Tags Authentication
// @Security BearerAuth
// @Produce json
// @Success 200 {object} models.Response
// @Failure 401 {object} models.ErrorResponse
// @Router /auth/me [get]
func (ctrl *AuthController) Me(c *gin.Context) {
	user, ok := requireUser(c)
	if !ok {
		return
	}

	me, err := ctrl.authService.CurrentUser(c.Request.Context(), user.ID)
	if err != nil {
		respondError(c, err)
		return
	}

	respondSuccess(c, http.StatusOK, "User retrieved", me)
}
