// Package validation validates request payloads at the HTTP boundary
// before any state mutation happens.
package validation

import (
	"regexp"

	"github.com/go-playground/validator/v10"
)

var (
	cnicRegex    = regexp.MustCompile(`^\d{5}-\d{7}-\d{1}$`)
	pkPhoneRegex = regexp.MustCompile(`^03\d{9}$`)
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	// CNIC format: XXXXX-XXXXXXX-X
	v.RegisterValidation("cnic", func(fl validator.FieldLevel) bool {
		return cnicRegex.MatchString(fl.Field().String())
	})
	// Phone format: 03XXXXXXXXX
	v.RegisterValidation("pkphone", func(fl validator.FieldLevel) bool {
		return pkPhoneRegex.MatchString(fl.Field().String())
	})
	return v
}

type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Check validates a request struct and returns one entry per failing field.
func Check(obj interface{}) []FieldError {
	err := validate.Struct(obj)
	if err == nil {
		return nil
	}

	var out []FieldError
	for _, fe := range err.(validator.ValidationErrors) {
		out = append(out, FieldError{Field: fe.Field(), Message: messageFor(fe)})
	}
	return out
}

func messageFor(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "this field is required"
	case "email":
		return "invalid email format"
	case "cnic":
		return "CNIC format should be XXXXX-XXXXXXX-X"
	case "pkphone":
		return "phone format should be 03XXXXXXXXX"
	case "min":
		return "value is below the minimum of " + fe.Param()
	case "max":
		return "value is above the maximum of " + fe.Param()
	case "gt":
		return "value must be greater than " + fe.Param()
	case "gte":
		return "value must be at least " + fe.Param()
	case "oneof":
		return "value must be one of: " + fe.Param()
	default:
		return "invalid value"
	}
}
