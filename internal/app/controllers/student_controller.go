package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	qrcode "github.com/skip2/go-qrcode"

	"github.com/coarpuno/recojo/internal/app/models"
	"github.com/coarpuno/recojo/internal/app/models/dto"
	"github.com/coarpuno/recojo/internal/app/services"
	"github.com/coarpuno/recojo/internal/app/views"
	"github.com/coarpuno/recojo/internal/middleware"
)

// qrSize is the pixel width of the generated link code QR image
const qrSize = 256

// StudentController handles student profile and device operations
type StudentController struct {
	studentService services.IStudentService
	logger         zerolog.Logger
}

// NewStudentController creates a new StudentController
func NewStudentController(studentService services.IStudentService, logger zerolog.Logger) *StudentController {
	return &StudentController{
		studentService: studentService,
		logger:         logger,
	}
}

// GetProfile returns the authenticated student's full record
// @Summary Get own student record
// @Description Returns the student's full record together with the view a student session should render.
// @Tags students
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=dto.StudentStateResponse} "Student record"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 404 {object} dto.ErrorResponse "Student not found"
// @Router /students/me [get]
func (c *StudentController) GetProfile(ctx *gin.Context) {
	studentID, ok := accountIDFromContext(ctx)
	if !ok {
		return
	}

	student, err := c.studentService.GetStudent(ctx.Request.Context(), studentID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewAPIResponse(dto.StudentStateResponse{
		Student:    student,
		View:       string(views.Resolve(models.RoleStudent, student.PickupAuthorization)),
		CanRequest: student.PickupAuthorization.CanRequestPickup(),
	}, ""))
}

// GetLinkCodeQR renders the student's link code as a QR image
// @Summary Get the link code as a QR image
// @Description Returns a PNG QR code of the student's link code for the parent to scan during onboarding.
// @Tags students
// @Produce png
// @Security BearerAuth
// @Success 200 {string} binary "PNG image"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 404 {object} dto.ErrorResponse "Student not found"
// @Failure 500 {object} dto.ErrorResponse "QR encoding failed"
// @Router /students/me/link-code/qr [get]
func (c *StudentController) GetLinkCodeQR(ctx *gin.Context) {
	studentID, ok := accountIDFromContext(ctx)
	if !ok {
		return
	}

	student, err := c.studentService.GetStudent(ctx.Request.Context(), studentID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	png, err := qrcode.Encode(student.LinkCode, qrcode.Medium, qrSize)
	if err != nil {
		c.logger.Error().Err(err).Int64("studentID", studentID).Msg("Failed to encode link code QR")
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.Data(http.StatusOK, "image/png", png)
}

// UpdateActivity sets the student's current activity
// @Summary Update current activity
// @Description Sets what the student is currently doing (CLASSES, FREE or EXIT). Independent of pickup authorization.
// @Tags students
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.UpdateActivityRequest true "Activity"
// @Success 200 {object} dto.APIResponse{data=dto.StudentStateResponse} "Activity updated"
// @Failure 400 {object} dto.ErrorResponse "Invalid activity value"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Router /students/me/activity [put]
func (c *StudentController) UpdateActivity(ctx *gin.Context) {
	studentID, ok := accountIDFromContext(ctx)
	if !ok {
		return
	}

	var req dto.UpdateActivityRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		c.logger.Warn().Err(err).Msg("Invalid activity payload")
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(dto.HandleValidationError(err)))
		return
	}

	student, err := c.studentService.SetActivity(ctx.Request.Context(), studentID, req.Activity)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewAPIResponse(dto.StudentStateResponse{
		Student:    student,
		View:       string(views.Resolve(models.RoleStudent, student.PickupAuthorization)),
		CanRequest: student.PickupAuthorization.CanRequestPickup(),
	}, "Activity updated"))
}

// UpdateSurvey replaces the weekly survey
// @Summary Submit the weekly survey
// @Description Replaces the student's weekly survey wholesale and stamps it as completed.
// @Tags students
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.UpdateSurveyRequest true "Survey answers"
// @Success 200 {object} dto.APIResponse{data=dto.StudentStateResponse} "Survey submitted"
// @Failure 400 {object} dto.ErrorResponse "Invalid survey payload"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Router /students/me/survey [put]
func (c *StudentController) UpdateSurvey(ctx *gin.Context) {
	studentID, ok := accountIDFromContext(ctx)
	if !ok {
		return
	}

	var req dto.UpdateSurveyRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		c.logger.Warn().Err(err).Msg("Invalid survey payload")
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(dto.HandleValidationError(err)))
		return
	}

	student, err := c.studentService.SubmitSurvey(ctx.Request.Context(), studentID, models.WeeklySurvey{
		Destination:     req.Destination,
		TransportMethod: req.TransportMethod,
		HealthStatus:    req.HealthStatus,
		Comments:        req.Comments,
	})
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewAPIResponse(dto.StudentStateResponse{
		Student:    student,
		View:       string(views.Resolve(models.RoleStudent, student.PickupAuthorization)),
		CanRequest: student.PickupAuthorization.CanRequestPickup(),
	}, "Survey submitted"))
}

// UpdateTelemetry stores a device heartbeat
// @Summary Report device telemetry
// @Description Stores the device's battery level, GPS fix and status line.
// @Tags students
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.UpdateTelemetryRequest true "Device heartbeat"
// @Success 200 {object} dto.APIResponse{data=dto.StudentStateResponse} "Telemetry stored"
// @Failure 400 {object} dto.ErrorResponse "Invalid telemetry payload"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Router /students/me/telemetry [put]
func (c *StudentController) UpdateTelemetry(ctx *gin.Context) {
	studentID, ok := accountIDFromContext(ctx)
	if !ok {
		return
	}

	var req dto.UpdateTelemetryRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		c.logger.Warn().Err(err).Msg("Invalid telemetry payload")
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(dto.HandleValidationError(err)))
		return
	}

	student, err := c.studentService.ReportTelemetry(ctx.Request.Context(), studentID, models.Telemetry{
		BatteryLevel: req.BatteryLevel,
		StressLevel:  req.StressLevel,
		Location:     models.Coordinates{Lat: req.Lat, Lng: req.Lng},
		StatusText:   req.StatusText,
	})
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewAPIResponse(dto.StudentStateResponse{
		Student:    student,
		View:       string(views.Resolve(models.RoleStudent, student.PickupAuthorization)),
		CanRequest: student.PickupAuthorization.CanRequestPickup(),
	}, "Telemetry stored"))
}
