package dto

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

// HandleValidationError converts a binding error into a structured error
// detail, naming the first field that failed validation
func HandleValidationError(err error) *ErrorDetail {
	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) || len(validationErrors) == 0 {
		return NewErrorDetail(ErrorCodeValidationFailed, "Invalid request payload").
			WithDetails(err.Error())
	}

	fieldErr := validationErrors[0]
	field := strings.ToLower(fieldErr.Field()[:1]) + fieldErr.Field()[1:]

	var message string
	switch fieldErr.Tag() {
	case "required":
		message = fmt.Sprintf("Field '%s' is required", field)
	case "len":
		message = fmt.Sprintf("Field '%s' must be exactly %s characters", field, fieldErr.Param())
	case "min":
		message = fmt.Sprintf("Field '%s' must be at least %s", field, fieldErr.Param())
	case "max":
		message = fmt.Sprintf("Field '%s' must be at most %s", field, fieldErr.Param())
	case "oneof":
		message = fmt.Sprintf("Field '%s' must be one of: %s", field, fieldErr.Param())
	case "numeric":
		message = fmt.Sprintf("Field '%s' must contain only digits", field)
	default:
		message = fmt.Sprintf("Field '%s' failed validation rule '%s'", field, fieldErr.Tag())
	}

	return NewErrorDetail(ErrorCodeValidationFailed, message).WithField(field)
}
