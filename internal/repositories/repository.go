package repositories

import (
	"context"

	"github.com/SAP-F-2025/student-service/internal/models"
)

// StudentRepository is the record store for the student collection.
// Every call works on the whole persisted document; nothing is cached between calls.
type StudentRepository interface {
	// Initialize prepares the backing artifact (schema, seed document).
	Initialize(ctx context.Context) error

	// Load reads and decodes the entire collection.
	// A missing or malformed artifact yields a *StorageError.
	Load(ctx context.Context) ([]models.Student, error)

	// Save replaces the persisted collection with students.
	Save(ctx context.Context, students []models.Student) error

	// Health check
	Ping(ctx context.Context) error

	// Close connections
	Close() error
}
