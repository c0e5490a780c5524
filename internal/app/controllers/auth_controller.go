// Package controllers handles HTTP request handling
package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/coarpuno/recojo/internal/app/models/dto"
	"github.com/coarpuno/recojo/internal/app/services"
	"github.com/coarpuno/recojo/internal/middleware"
)

// AuthController handles authentication related operations
type AuthController struct {
	authService services.IAuthService
	logger      zerolog.Logger
}

// NewAuthController creates a new AuthController
func NewAuthController(authService services.IAuthService, logger zerolog.Logger) *AuthController {
	return &AuthController{
		authService: authService,
		logger:      logger,
	}
}

// RegisterParent handles parent registration
// @Summary Register a new parent
// @Description Creates a parent account identified by an 8-digit DNI. A family code is generated for the account; when a link code is supplied the family link is established immediately.
// @Tags auth
// @Accept json
// @Produce json
// @Param request body dto.RegisterParentRequest true "Parent registration information"
// @Success 201 {object} dto.APIResponse{data=dto.RegisterParentResponse} "Parent registered"
// @Failure 400 {object} dto.ErrorResponse "Invalid request format or DNI"
// @Failure 404 {object} dto.ErrorResponse "Link code not found"
// @Failure 409 {object} dto.ErrorResponse "DNI already registered or student already claimed"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /auth/register/parent [post]
func (c *AuthController) RegisterParent(ctx *gin.Context) {
	var req dto.RegisterParentRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		c.logger.Warn().Err(err).Msg("Invalid parent registration payload")
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(dto.HandleValidationError(err)))
		return
	}

	resp, err := c.authService.RegisterParent(ctx.Request.Context(), &req)
	if err != nil {
		c.logger.Warn().Err(err).Str("dni", req.DNI).Msg("Parent registration failed")
		middleware.HandleAPIError(ctx, err)
		return
	}

	c.logger.Info().
		Int64("parentID", resp.ParentID).
		Bool("linked", resp.Linked).
		Msg("Parent registered")

	ctx.JSON(http.StatusCreated, dto.NewAPIResponse(resp, "Parent registered successfully"))
}

// RegisterStudent handles student registration
// @Summary Register a new student
// @Description Creates a student account identified by an 8-digit DNI and mints its one-time link code. Pickup authorization always starts at NONE.
// @Tags auth
// @Accept json
// @Produce json
// @Param request body dto.RegisterStudentRequest true "Student registration information"
// @Success 201 {object} dto.APIResponse{data=dto.RegisterStudentResponse} "Student registered"
// @Failure 400 {object} dto.ErrorResponse "Invalid request format or DNI"
// @Failure 409 {object} dto.ErrorResponse "DNI already registered"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /auth/register/student [post]
func (c *AuthController) RegisterStudent(ctx *gin.Context) {
	var req dto.RegisterStudentRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		c.logger.Warn().Err(err).Msg("Invalid student registration payload")
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(dto.HandleValidationError(err)))
		return
	}

	resp, err := c.authService.RegisterStudent(ctx.Request.Context(), &req)
	if err != nil {
		c.logger.Warn().Err(err).Str("dni", req.DNI).Msg("Student registration failed")
		middleware.HandleAPIError(ctx, err)
		return
	}

	c.logger.Info().Int64("studentID", resp.StudentID).Msg("Student registered")

	ctx.JSON(http.StatusCreated, dto.NewAPIResponse(resp, "Student registered successfully"))
}

// Login handles parent and student login
// @Summary Log in
// @Description Authenticates a parent (by DNI or family code) or a student (by DNI) and returns a token pair.
// @Tags auth
// @Accept json
// @Produce json
// @Param request body dto.LoginRequest true "Login credentials"
// @Success 200 {object} dto.APIResponse{data=dto.AuthResponse} "Login successful"
// @Failure 400 {object} dto.ErrorResponse "Invalid request format"
// @Failure 401 {object} dto.ErrorResponse "Invalid credentials"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /auth/login [post]
func (c *AuthController) Login(ctx *gin.Context) {
	var req dto.LoginRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		c.logger.Warn().Err(err).Msg("Invalid login payload")
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(dto.HandleValidationError(err)))
		return
	}

	resp, err := c.authService.Login(ctx.Request.Context(), &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	c.logger.Info().Str("role", resp.Role).Msg("Login successful")

	ctx.JSON(http.StatusOK, dto.NewAPIResponse(resp, "Login successful"))
}

// RefreshToken handles token refresh
// @Summary Refresh access token
// @Description Exchanges a valid refresh token for a new token pair. The presented refresh token is revoked.
// @Tags auth
// @Accept json
// @Produce json
// @Param request body dto.RefreshTokenRequest true "Refresh token"
// @Success 200 {object} dto.APIResponse{data=dto.TokenResponse} "Token refreshed successfully"
// @Failure 400 {object} dto.ErrorResponse "Invalid request format"
// @Failure 401 {object} dto.ErrorResponse "Token expired, revoked or unknown"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /auth/refresh [post]
func (c *AuthController) RefreshToken(ctx *gin.Context) {
	var req dto.RefreshTokenRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		c.logger.Warn().Err(err).Msg("Invalid refresh token payload")
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(dto.HandleValidationError(err)))
		return
	}

	resp, err := c.authService.RefreshToken(ctx.Request.Context(), req.RefreshToken)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewAPIResponse(resp, "Token refreshed successfully"))
}
