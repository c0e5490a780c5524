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

// ParentController handles parent profile and family link operations
type ParentController struct {
	parentService services.IParentService
	logger        zerolog.Logger
}

// NewParentController creates a new ParentController
func NewParentController(parentService services.IParentService, logger zerolog.Logger) *ParentController {
	return &ParentController{
		parentService: parentService,
		logger:        logger,
	}
}

// GetProfile returns the authenticated parent's profile
// @Summary Get own parent profile
// @Tags parents
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=models.Parent} "Parent profile"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 404 {object} dto.ErrorResponse "Parent not found"
// @Router /parents/me [get]
func (c *ParentController) GetProfile(ctx *gin.Context) {
	parentID, ok := accountIDFromContext(ctx)
	if !ok {
		return
	}

	parent, err := c.parentService.GetParent(ctx.Request.Context(), parentID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewAPIResponse(parent, ""))
}

// LinkStudent redeems a link code for the authenticated parent
// @Summary Redeem a student link code
// @Description Establishes the permanent family link between the authenticated parent and the student owning the code. A parent links at most one student and a student is claimed by at most one parent.
// @Tags parents
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.LinkStudentRequest true "Link code"
// @Success 200 {object} dto.APIResponse{data=dto.LinkStudentResponse} "Family link established"
// @Failure 400 {object} dto.ErrorResponse "Invalid request format"
// @Failure 404 {object} dto.ErrorResponse "Link code not found"
// @Failure 409 {object} dto.ErrorResponse "Parent already linked or student already claimed"
// @Router /parents/me/link [post]
func (c *ParentController) LinkStudent(ctx *gin.Context) {
	parentID, ok := accountIDFromContext(ctx)
	if !ok {
		return
	}

	var req dto.LinkStudentRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		c.logger.Warn().Err(err).Msg("Invalid link student payload")
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(dto.HandleValidationError(err)))
		return
	}

	student, err := c.parentService.LinkStudent(ctx.Request.Context(), parentID, req.LinkCode)
	if err != nil {
		c.logger.Warn().Err(err).Int64("parentID", parentID).Msg("Link code redemption failed")
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewAPIResponse(dto.LinkStudentResponse{
		StudentID:   student.ID,
		StudentName: student.Name,
	}, "Family link established"))
}

// GetLinkedStudent returns the full record of the linked student
// @Summary Get the linked student
// @Description Returns the linked student's full record together with the view a parent session should render.
// @Tags parents
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=dto.StudentStateResponse} "Linked student"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 404 {object} dto.ErrorResponse "Parent has no linked student"
// @Router /parents/me/student [get]
func (c *ParentController) GetLinkedStudent(ctx *gin.Context) {
	parentID, ok := accountIDFromContext(ctx)
	if !ok {
		return
	}

	student, err := c.parentService.GetLinkedStudent(ctx.Request.Context(), parentID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewAPIResponse(dto.StudentStateResponse{
		Student:    student,
		View:       string(views.Resolve(models.RoleParent, student.PickupAuthorization)),
		CanRequest: student.PickupAuthorization.CanRequestPickup(),
	}, ""))
}
