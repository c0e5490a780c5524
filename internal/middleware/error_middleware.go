package middleware

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/coarpuno/recojo/internal/app/models/dto"
	"github.com/coarpuno/recojo/internal/pkg/apperrors"
)

// HandleAPIError maps service errors onto HTTP responses. Controllers call it
// for every error coming back from a service or repository.
func HandleAPIError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, apperrors.ErrStudentNotFound):
		respond(c, http.StatusNotFound, dto.ErrorCodeResourceNotFound, "Student not found")
	case errors.Is(err, apperrors.ErrParentNotFound):
		respond(c, http.StatusNotFound, dto.ErrorCodeResourceNotFound, "Parent not found")
	case errors.Is(err, apperrors.ErrAdminNotFound):
		respond(c, http.StatusNotFound, dto.ErrorCodeResourceNotFound, "Admin not found")
	case errors.Is(err, apperrors.ErrResourceNotFound):
		respond(c, http.StatusNotFound, dto.ErrorCodeResourceNotFound, "Resource not found")

	case errors.Is(err, apperrors.ErrStudentDNIExists),
		errors.Is(err, apperrors.ErrParentDNIExists),
		errors.Is(err, apperrors.ErrAdminDNIExists):
		respond(c, http.StatusConflict, dto.ErrorCodeResourceAlreadyExists, "DNI already registered")
	case errors.Is(err, apperrors.ErrResourceAlreadyExists):
		respond(c, http.StatusConflict, dto.ErrorCodeResourceAlreadyExists, "Resource already exists")

	case errors.Is(err, apperrors.ErrLinkCodeNotFound):
		respond(c, http.StatusNotFound, dto.ErrorCodeLinkCodeNotFound, "Link code not found")
	case errors.Is(err, apperrors.ErrAlreadyLinked):
		respond(c, http.StatusConflict, dto.ErrorCodeAlreadyLinked, "Parent already linked to a student")
	case errors.Is(err, apperrors.ErrStudentClaimed):
		respond(c, http.StatusConflict, dto.ErrorCodeStudentClaimed, "Student already linked to another parent")
	case errors.Is(err, apperrors.ErrNotLinked):
		respond(c, http.StatusNotFound, dto.ErrorCodeNotLinked, "Parent has no linked student")

	case errors.Is(err, apperrors.ErrInvalidTransition):
		respond(c, http.StatusConflict, dto.ErrorCodeInvalidTransition, "Pickup authorization transition not allowed")

	case errors.Is(err, apperrors.ErrInvalidCredentials):
		respond(c, http.StatusUnauthorized, dto.ErrorCodeInvalidCredentials, "Invalid credentials")
	case errors.Is(err, apperrors.ErrTokenExpired):
		respond(c, http.StatusUnauthorized, dto.ErrorCodeExpiredToken, "Token expired")
	case errors.Is(err, apperrors.ErrTokenRevoked):
		respond(c, http.StatusUnauthorized, dto.ErrorCodeInvalidToken, "Token revoked")
	case errors.Is(err, apperrors.ErrTokenNotFound):
		respond(c, http.StatusUnauthorized, dto.ErrorCodeTokenNotFound, "Token not found")
	case errors.Is(err, apperrors.ErrTokenInvalid):
		respond(c, http.StatusUnauthorized, dto.ErrorCodeInvalidToken, "Invalid token")

	case errors.Is(err, apperrors.ErrInvalidDNI):
		respond(c, http.StatusBadRequest, dto.ErrorCodeInvalidDNI, "DNI must be exactly 8 digits")
	case errors.Is(err, apperrors.ErrInvalidActivity),
		errors.Is(err, apperrors.ErrInvalidTransport),
		errors.Is(err, apperrors.ErrValidationFailed),
		errors.Is(err, apperrors.ErrBadRequest):
		respondWithDetails(c, http.StatusBadRequest, dto.ErrorCodeValidationFailed, "Validation failed", err.Error())

	case errors.Is(err, apperrors.ErrPermissionDenied):
		respond(c, http.StatusForbidden, dto.ErrorCodeUnauthorized, "Permission denied")

	default:
		respond(c, http.StatusInternalServerError, dto.ErrorCodeInternalServer, "Internal server error")
	}
}

func respond(c *gin.Context, status int, code dto.ErrorCode, message string) {
	c.JSON(status, dto.NewErrorResponse(dto.NewErrorDetail(code, message)))
}

func respondWithDetails(c *gin.Context, status int, code dto.ErrorCode, message, details string) {
	errorDetail := dto.NewErrorDetail(code, message).WithDetails(details)
	c.JSON(status, dto.NewErrorResponse(errorDetail))
}
