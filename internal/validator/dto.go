package validator

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// StudentCreateRequest is the body of POST /students.
// Pointer fields distinguish an absent key from a zero value.
type StudentCreateRequest struct {
	StudentID         *string `json:"student_id" validate:"required,student_id"`
	StudentName       *string `json:"student_name" validate:"required"`
	YearsOfExperience *int    `json:"years_of_experience" validate:"required,min=0"`
	CompanyName       *string `json:"company_name" validate:"required"`

	// DecodeErrors holds fields that were present but could not be decoded.
	DecodeErrors ValidationErrors `json:"-" validate:"-"`
}

// StudentUpdateRequest is the body of PUT /students/:id. Absent fields keep their stored value.
type StudentUpdateRequest struct {
	StudentName       *string `json:"student_name"`
	YearsOfExperience *int    `json:"years_of_experience" validate:"omitempty,min=0"`
	CompanyName       *string `json:"company_name"`
}

// DecodeStudentCreate parses a create body. Keys that are present but null count as absent.
// Only a body that is not a non-empty JSON object fails here; badly typed fields are
// kept on the request and reported by ValidateStudentCreate.
func DecodeStudentCreate(payload []byte) (*StudentCreateRequest, error) {
	fields, err := decodeObject(payload)
	if err != nil {
		return nil, err
	}

	req := &StudentCreateRequest{}
	req.StudentID = decodeString(fields, "student_id", &req.DecodeErrors)
	req.StudentName = decodeString(fields, "student_name", &req.DecodeErrors)
	req.YearsOfExperience = decodeExperience(fields, &req.DecodeErrors)
	req.CompanyName = decodeString(fields, "company_name", &req.DecodeErrors)
	return req, nil
}

// DecodeStudentUpdate parses an update body. student_id and unknown keys are ignored.
func DecodeStudentUpdate(payload []byte) (*StudentUpdateRequest, error) {
	fields, err := decodeObject(payload)
	if err != nil {
		return nil, err
	}

	req := &StudentUpdateRequest{}
	var errs ValidationErrors
	req.StudentName = decodeString(fields, "student_name", &errs)
	req.YearsOfExperience = decodeExperience(fields, &errs)
	req.CompanyName = decodeString(fields, "company_name", &errs)

	if len(errs) > 0 {
		return nil, errs
	}
	return req, nil
}

// CoerceExperience converts a JSON value into a whole number of years.
// Numbers are truncated toward zero; strings must hold an integer.
func CoerceExperience(raw json.RawMessage) (int, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return 0, fmt.Errorf("empty value")
	}

	if raw[0] == '"' {
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return 0, err
		}
		n, err := strconv.Atoi(strings.TrimSpace(s))
		if err != nil {
			return 0, fmt.Errorf("%q is not an integer", s)
		}
		return n, nil
	}

	var number json.Number
	decoder := json.NewDecoder(bytes.NewReader(raw))
	decoder.UseNumber()
	if err := decoder.Decode(&number); err != nil {
		return 0, fmt.Errorf("%s is not a number", string(raw))
	}
	if n, err := strconv.Atoi(number.String()); err == nil {
		return n, nil
	}
	f, err := number.Float64()
	if err != nil || math.IsNaN(f) || math.Abs(f) > math.MaxInt32 {
		return 0, fmt.Errorf("%s is not an integer", number.String())
	}
	return int(math.Trunc(f)), nil
}

// ===== HELPERS =====

func decodeObject(payload []byte) (map[string]json.RawMessage, error) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(payload, &fields); err != nil || len(fields) == 0 {
		return nil, ErrInvalidPayload
	}
	return fields, nil
}

func isNull(raw json.RawMessage) bool {
	return string(bytes.TrimSpace(raw)) == "null"
}

func decodeString(fields map[string]json.RawMessage, key string, errs *ValidationErrors) *string {
	raw, ok := fields[key]
	if !ok || isNull(raw) {
		return nil
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		*errs = append(*errs, ValidationError{
			Field:   key,
			Message: "must be a string",
			Value:   string(raw),
			Rule:    "string",
		})
		return nil
	}
	return &s
}

func decodeExperience(fields map[string]json.RawMessage, errs *ValidationErrors) *int {
	const key = "years_of_experience"
	raw, ok := fields[key]
	if !ok || isNull(raw) {
		return nil
	}
	n, err := CoerceExperience(raw)
	if err != nil {
		*errs = append(*errs, ValidationError{
			Field:   key,
			Message: "must be an integer: " + err.Error(),
			Value:   string(raw),
			Rule:    "integer",
		})
		return nil
	}
	return &n
}
