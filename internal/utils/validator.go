// internal/utils/validator.go
package utils

import (
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate *validator.Validate

var semverPattern = regexp.MustCompile(`^\d+\.\d+\.\d+$`)

func init() {
	validate = validator.New()
	validate.RegisterValidation("semver", validateSemver)
	validate.RegisterValidation("pid", validatePID)
}

func ValidateStruct(s interface{}) error {
	return validate.Struct(s)
}

func validateSemver(fl validator.FieldLevel) bool {
	return semverPattern.MatchString(fl.Field().String())
}

func validatePID(fl validator.FieldLevel) bool {
	pid := fl.Field().String()

	// PIDs are opaque identifiers, 3-64 characters, no whitespace
	if len(pid) < 3 || len(pid) > 64 {
		return false
	}

	matched, _ := regexp.MatchString(`^[a-zA-Z0-9._-]+$`, pid)
	return matched
}

// Validation tags for common fields
type ValidationError struct {
	Field   string `json:"field"`
	Tag     string `json:"tag"`
	Message string `json:"message"`
}

func GetValidationErrors(err error) []ValidationError {
	var validationErrors []ValidationError

	if validationErrs, ok := err.(validator.ValidationErrors); ok {
		for _, e := range validationErrs {
			validationErrors = append(validationErrors, ValidationError{
				Field:   strings.ToLower(e.Field()),
				Tag:     e.Tag(),
				Message: getValidationMessage(e),
			})
		}
	}

	return validationErrors
}

func getValidationMessage(e validator.FieldError) string {
	switch e.Tag() {
	case "required":
		return e.Field() + " is required"
	case "email":
		return "Invalid email format"
	case "min":
		return e.Field() + " must be at least " + e.Param() + " characters"
	case "max":
		return e.Field() + " must be at most " + e.Param() + " characters"
	case "oneof":
		return e.Field() + " must be one of: " + e.Param()
	case "semver":
		return e.Field() + " must be a semantic version like 1.0.0"
	case "pid":
		return e.Field() + " must be 3-64 characters of letters, numbers, dots, dashes or underscores"
	default:
		return e.Field() + " is invalid"
	}
}
