// internal/utils/validator.go
package utils

import (
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate *validator.Validate

var (
	slugRegex  = regexp.MustCompile(`^[a-z0-9]+(?:-[a-z0-9]+)*$`)
	phoneRegex = regexp.MustCompile(`^\+254[17]\d{8}$`)
)

func init() {
	validate = validator.New()
	validate.RegisterValidation("slug", validateSlug)
	validate.RegisterValidation("kenyan_phone", validateKenyanPhone)
	validate.RegisterValidation("decimal_amount", validateDecimalAmount)
}

func ValidateStruct(s interface{}) error {
	return validate.Struct(s)
}

// URL slugs are lowercase alphanumerics separated by single dashes, as the
// admin console generates them from product names.
func validateSlug(fl validator.FieldLevel) bool {
	slug := fl.Field().String()
	return len(slug) >= 2 && len(slug) <= 100 && slugRegex.MatchString(slug)
}

// Delivery phone numbers are Kenyan mobile numbers in +254XXXXXXXXX format.
func validateKenyanPhone(fl validator.FieldLevel) bool {
	return phoneRegex.MatchString(fl.Field().String())
}

func validateDecimalAmount(fl validator.FieldLevel) bool {
	cents, err := ParseAmountCents(fl.Field().String())
	return err == nil && cents >= 0
}

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
		return e.Field() + " must be at least " + e.Param()
	case "max":
		return e.Field() + " must be at most " + e.Param()
	case "slug":
		return "Slug must contain only lowercase letters, numbers, and dashes"
	case "kenyan_phone":
		return "Phone number must be in +254XXXXXXXXX format"
	case "decimal_amount":
		return e.Field() + " must be a decimal amount with at most two decimal places"
	case "oneof":
		return e.Field() + " must be one of: " + e.Param()
	default:
		return e.Field() + " is invalid"
	}
}
