package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/coarpuno/recojo/internal/app/models"
	"github.com/coarpuno/recojo/internal/app/models/dto"
	"github.com/coarpuno/recojo/internal/app/services"
	"github.com/coarpuno/recojo/internal/app/views"
	"github.com/coarpuno/recojo/internal/middleware"
)

// PickupController exposes the pickup authorization state machine
type PickupController struct {
	pickupService services.IPickupService
	logger        zerolog.Logger
}

// NewPickupController creates a new PickupController
func NewPickupController(pickupService services.IPickupService, logger zerolog.Logger) *PickupController {
	return &PickupController{
		pickupService: pickupService,
		logger:        logger,
	}
}

// Request moves the linked student's authorization to PENDING
// @Summary Request a pickup
// @Description Requests to take the linked student out of school. Allowed only while the authorization is NONE or REJECTED; a PENDING or APPROVED request is left untouched and the call fails with a conflict.
// @Tags pickup
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=dto.PickupStateResponse} "Pickup requested"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 404 {object} dto.ErrorResponse "Parent has no linked student"
// @Failure 409 {object} dto.ErrorResponse "A request is already pending or approved"
// @Router /pickup/request [post]
func (c *PickupController) Request(ctx *gin.Context) {
	parentID, ok := accountIDFromContext(ctx)
	if !ok {
		return
	}

	student, err := c.pickupService.Request(ctx.Request.Context(), parentID)
	if err != nil {
		c.logger.Warn().Err(err).Int64("parentID", parentID).Msg("Pickup request failed")
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewAPIResponse(dto.PickupStateResponse{
		StudentID:           student.ID,
		PickupAuthorization: student.PickupAuthorization,
		View:                string(views.Resolve(models.RoleParent, student.PickupAuthorization)),
	}, "Pickup requested"))
}

// Respond records the student's decision on a pending request
// @Summary Answer a pickup request
// @Description Approves or rejects the pending pickup request on the authenticated student's record. Only a PENDING authorization can be answered.
// @Tags pickup
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.PickupRespondRequest true "Decision"
// @Success 200 {object} dto.APIResponse{data=dto.PickupStateResponse} "Decision recorded"
// @Failure 400 {object} dto.ErrorResponse "Invalid decision"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 409 {object} dto.ErrorResponse "No pending request to answer"
// @Router /pickup/respond [post]
func (c *PickupController) Respond(ctx *gin.Context) {
	studentID, ok := accountIDFromContext(ctx)
	if !ok {
		return
	}

	var req dto.PickupRespondRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		c.logger.Warn().Err(err).Msg("Invalid pickup decision payload")
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(dto.HandleValidationError(err)))
		return
	}

	student, err := c.pickupService.Respond(ctx.Request.Context(), studentID, req.Decision)
	if err != nil {
		c.logger.Warn().Err(err).Int64("studentID", studentID).Msg("Pickup response failed")
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewAPIResponse(dto.PickupStateResponse{
		StudentID:           student.ID,
		PickupAuthorization: student.PickupAuthorization,
		View:                string(views.Resolve(models.RoleStudent, student.PickupAuthorization)),
	}, "Decision recorded"))
}
