package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"github.com/jobregv/interventionweb-whisper/internal/api/errors"
)

// Validator interface for domain validation
type Validator interface {
	Validate() error
}

// ValidateForm binds multipart/urlencoded form fields and applies both struct
// tag validation and domain rules.
func ValidateForm(c *gin.Context, req interface{}) error {
	if err := c.ShouldBind(req); err != nil {
		validationErrors := make(map[string]string)

		if validationErrs, ok := err.(validator.ValidationErrors); ok {
			for _, fieldError := range validationErrs {
				field := strings.ToLower(fieldError.Field())

				switch fieldError.Tag() {
				case "required":
					validationErrors[field] = "is required"
				case "url":
					validationErrors[field] = "must be a valid URL"
				case "uuid":
					validationErrors[field] = "must be a valid UUID"
				case "max":
					validationErrors[field] = "is too long"
				default:
					validationErrors[field] = "is invalid"
				}
			}
		} else {
			validationErrors["request"] = "invalid form data"
		}

		return errors.NewValidationError("Validation failed", validationErrors)
	}

	if validator, ok := req.(Validator); ok {
		if err := validator.Validate(); err != nil {
			return err
		}
	}

	return nil
}
