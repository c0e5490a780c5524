package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/coarpuno/recojo/internal/app/models/dto"
)

// accountIDFromContext pulls the authenticated account ID set by the JWT
// middleware. Writes the error response itself when it is missing.
func accountIDFromContext(ctx *gin.Context) (int64, bool) {
	value, exists := ctx.Get("accountID")
	if !exists {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeUnauthorized, "Authentication required")
		ctx.JSON(http.StatusUnauthorized, dto.NewErrorResponse(errorDetail))
		return 0, false
	}

	accountID, ok := value.(int64)
	if !ok {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeInternalServer, "Invalid account ID format")
		ctx.JSON(http.StatusInternalServerError, dto.NewErrorResponse(errorDetail))
		return 0, false
	}

	return accountID, true
}
