package validator

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

// ErrInvalidPayload is returned when a request body is missing, is not a JSON object or is empty.
var ErrInvalidPayload = errors.New("request body must be JSON")

// ValidationError describes a single rejected field
type ValidationError struct {
	Field   string      `json:"field"`
	Message string      `json:"message"`
	Value   interface{} `json:"value,omitempty"`
	Rule    string      `json:"rule,omitempty"`
}

type ValidationErrors []ValidationError

func (ve ValidationErrors) Error() string {
	if len(ve) == 0 {
		return "validation failed"
	}
	if len(ve) == 1 {
		return fmt.Sprintf("validation failed: %s %s", ve[0].Field, ve[0].Message)
	}
	parts := make([]string, 0, len(ve))
	for _, e := range ve {
		parts = append(parts, e.Field+" "+e.Message)
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// MissingFields lists the fields rejected by a "required" rule, in declaration order.
func (ve ValidationErrors) MissingFields() []string {
	var missing []string
	for _, e := range ve {
		if e.Rule == "required" {
			missing = append(missing, e.Field)
		}
	}
	return missing
}

// Has reports whether field has an error.
func (ve ValidationErrors) Has(field string) bool {
	for _, e := range ve {
		if e.Field == field {
			return true
		}
	}
	return false
}

// OnlyMissing reports whether every error is a missing required field.
func (ve ValidationErrors) OnlyMissing() bool {
	return len(ve) > 0 && len(ve.MissingFields()) == len(ve)
}

// Validator wraps go-playground validation configured for request DTOs
type Validator struct {
	business *BusinessValidator
}

// New creates a validator that reports fields by their JSON names
func New() *Validator {
	validate := validator.New(validator.WithRequiredStructEnabled())
	validate.RegisterTagNameFunc(jsonFieldName)

	return &Validator{
		business: newBusinessValidator(validate),
	}
}

// GetBusinessValidator returns the validator holding the student business rules
func (v *Validator) GetBusinessValidator() *BusinessValidator {
	return v.business
}

// ToValidationErrors converts go-playground errors into ValidationErrors
func ToValidationErrors(err error) ValidationErrors {
	if err == nil {
		return nil
	}

	var fieldErrors validator.ValidationErrors
	if !errors.As(err, &fieldErrors) {
		return ValidationErrors{{Field: "body", Message: err.Error(), Rule: "invalid"}}
	}

	out := make(ValidationErrors, 0, len(fieldErrors))
	for _, fe := range fieldErrors {
		out = append(out, ValidationError{
			Field:   fe.Field(),
			Message: errorMessage(fe),
			Value:   fieldValue(fe),
			Rule:    fe.Tag(),
		})
	}
	return out
}

func errorMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "min":
		return fmt.Sprintf("must be at least %s", fe.Param())
	case "max":
		return fmt.Sprintf("must be at most %s", fe.Param())
	case "student_id":
		return "must be non-blank and must not contain '/'"
	default:
		return fmt.Sprintf("failed on the '%s' rule", fe.Tag())
	}
}

func fieldValue(fe validator.FieldError) interface{} {
	value := reflect.ValueOf(fe.Value())
	if value.Kind() == reflect.Ptr {
		if value.IsNil() {
			return nil
		}
		return value.Elem().Interface()
	}
	return fe.Value()
}

func jsonFieldName(field reflect.StructField) string {
	name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
	if name == "-" {
		return ""
	}
	if name == "" {
		return field.Name
	}
	return name
}
