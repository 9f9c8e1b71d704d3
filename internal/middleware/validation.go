package middleware

import (
	"encoding/json"
	"net/http"

	"github.com/go-playground/validator/v10"
)

// Validator instance
var validate *validator.Validate

func init() {
	validate = validator.New()
}

// ValidateRequest validates a struct against its validation tags
func ValidateRequest(v interface{}) error {
	return validate.Struct(v)
}

// DecodeAndValidate decodes JSON request body and validates it
func DecodeAndValidate(r *http.Request, v interface{}) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return err
	}
	return ValidateRequest(v)
}

// ValidationMessage flattens a validator error into the single message the
// error envelope carries. Non-validation errors fall back to a generic
// bad-request message.
func ValidationMessage(err error) string {
	if validationErrors, ok := err.(validator.ValidationErrors); ok && len(validationErrors) > 0 {
		e := validationErrors[0]
		return fieldName(e) + ": " + errorDetail(e)
	}
	return "invalid request body"
}

func fieldName(e validator.FieldError) string {
	return e.Field()
}

func errorDetail(e validator.FieldError) string {
	switch e.Tag() {
	case "required":
		return "this field is required"
	case "email":
		return "invalid email format"
	case "min":
		return "value is too short"
	case "max":
		return "value is too long"
	case "gte":
		return "value must be greater than or equal to " + e.Param()
	case "lte":
		return "value must be less than or equal to " + e.Param()
	case "gt":
		return "value must be greater than " + e.Param()
	case "lt":
		return "value must be less than " + e.Param()
	case "oneof":
		return "value must be one of: " + e.Param()
	default:
		return "invalid value"
	}
}
