package services

import (
	"bytes"
	"context"

	"github.com/SAP-F-2025/student-service/internal/models"
	"github.com/SAP-F-2025/student-service/internal/validator"
)

// ===== REQUEST DTOs =====

// Use business validator types
type CreateStudentRequest = validator.StudentCreateRequest
type UpdateStudentRequest = validator.StudentUpdateRequest

// ===== SERVICE INTERFACES =====

type StudentService interface {
	List(ctx context.Context) ([]models.Student, error)
	Get(ctx context.Context, studentID string) (*models.Student, error)
	Create(ctx context.Context, req *CreateStudentRequest) (*models.Student, error)
	// Update looks the record up before decoding payload, so an unknown id
	// wins over a malformed body.
	Update(ctx context.Context, studentID string, payload []byte) (*models.Student, error)
	Delete(ctx context.Context, studentID string) error
}

type ExportService interface {
	ExportStudents(ctx context.Context) (*bytes.Buffer, error)
}

type ServiceManager interface {
	Student() StudentService
	Export() ExportService

	// Health and lifecycle
	Initialize(ctx context.Context) error
	HealthCheck(ctx context.Context) error
	Shutdown(ctx context.Context) error
}
