package services

import (
	"errors"

	"github.com/SAP-F-2025/student-service/internal/validator"
)

var (
	ErrStudentNotFound = errors.New("student not found")
	ErrStudentExists   = errors.New("student already exists")
	ErrInvalidPayload  = validator.ErrInvalidPayload
)
