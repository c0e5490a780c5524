package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/coarpuno/recojo/internal/app/models"
	"github.com/coarpuno/recojo/internal/app/models/dto"
	"github.com/coarpuno/recojo/internal/app/services"
	"github.com/coarpuno/recojo/internal/middleware"
)

// MenuController handles the cafeteria daily menu
type MenuController struct {
	menuService services.IMenuService
	logger      zerolog.Logger
}

// NewMenuController creates a new MenuController
func NewMenuController(menuService services.IMenuService, logger zerolog.Logger) *MenuController {
	return &MenuController{
		menuService: menuService,
		logger:      logger,
	}
}

// GetMenu returns the current daily menu
// @Summary Get the daily menu
// @Description Returns the menu the school published for the current day. Available to every authenticated role.
// @Tags menu
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=models.DailyMenu} "Daily menu"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Router /menu [get]
func (c *MenuController) GetMenu(ctx *gin.Context) {
	menu, err := c.menuService.GetMenu(ctx.Request.Context())
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewAPIResponse(menu, ""))
}

// UpdateMenu replaces the daily menu
// @Summary Publish the daily menu
// @Description Replaces the daily menu wholesale and broadcasts it to every connected session. Admin role only.
// @Tags menu
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.UpdateMenuRequest true "Menu for the day"
// @Success 200 {object} dto.APIResponse{data=models.DailyMenu} "Menu published"
// @Failure 400 {object} dto.ErrorResponse "Invalid menu payload"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 403 {object} dto.ErrorResponse "Admin role required"
// @Router /menu [put]
func (c *MenuController) UpdateMenu(ctx *gin.Context) {
	var req dto.UpdateMenuRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		c.logger.Warn().Err(err).Msg("Invalid menu payload")
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(dto.HandleValidationError(err)))
		return
	}

	menu, err := c.menuService.UpdateMenu(ctx.Request.Context(), models.DailyMenu{
		Breakfast: req.Breakfast,
		Recess:    req.Recess,
		Lunch:     req.Lunch,
		Dinner:    req.Dinner,
	})
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewAPIResponse(menu, "Menu published"))
}
