package validator

import (
	"strings"

	"github.com/go-playground/validator/v10"
)

// BusinessValidator handles business rule validation for student requests
type BusinessValidator struct {
	validate *validator.Validate
}

func newBusinessValidator(validate *validator.Validate) *BusinessValidator {
	bv := &BusinessValidator{validate: validate}
	bv.registerBusinessRules()
	return bv
}

// Validate validates tag rules for any struct
func (bv *BusinessValidator) Validate(s interface{}) ValidationErrors {
	return ToValidationErrors(bv.validate.Struct(s))
}

// ValidateStudentCreate validates student creation rules. When any field is absent only the
// missing fields are returned; otherwise decode errors come first, then rule violations.
func (bv *BusinessValidator) ValidateStudentCreate(req *StudentCreateRequest) ValidationErrors {
	if req == nil {
		return ValidationErrors{{Field: "body", Message: "is required", Rule: "required"}}
	}

	var missing, invalid ValidationErrors
	for _, e := range bv.Validate(req) {
		switch {
		case e.Rule != "required":
			invalid = append(invalid, e)
		case !req.DecodeErrors.Has(e.Field):
			missing = append(missing, e)
		}
	}
	if len(missing) > 0 {
		return missing
	}

	errs := make(ValidationErrors, 0, len(req.DecodeErrors)+len(invalid))
	errs = append(errs, req.DecodeErrors...)
	errs = append(errs, invalid...)
	if len(errs) == 0 {
		return nil
	}
	return errs
}

// ValidateStudentUpdate validates student update rules
func (bv *BusinessValidator) ValidateStudentUpdate(req *StudentUpdateRequest) ValidationErrors {
	if req == nil {
		return ValidationErrors{{Field: "body", Message: "is required", Rule: "required"}}
	}
	return bv.Validate(req)
}

// registerBusinessRules registers custom business rule validators
func (bv *BusinessValidator) registerBusinessRules() {
	// The id is used as a single path segment in /students/:id
	bv.validate.RegisterValidation("student_id", func(fl validator.FieldLevel) bool {
		id := fl.Field().String()
		return strings.TrimSpace(id) != "" && !strings.Contains(id, "/")
	})
}
