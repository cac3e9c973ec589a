package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/SAP-F-2025/student-service/internal/models"
	"github.com/SAP-F-2025/student-service/internal/repositories"
)

const defaultDocumentName = "students"

// studentDocument holds the whole collection as one JSON value, mirroring the file artifact.
type studentDocument struct {
	ID        uint           `gorm:"primaryKey"`
	Name      string         `gorm:"uniqueIndex;size:64;not null"`
	Records   datatypes.JSON `gorm:"not null"`
	UpdatedAt time.Time
}

func (studentDocument) TableName() string {
	return "student_documents"
}

type studentPostgreSQL struct {
	db   *gorm.DB
	name string
	seed bool
}

// NewStudentPostgreSQL creates a record store backed by a single row of student_documents
func NewStudentPostgreSQL(db *gorm.DB, seed bool) repositories.StudentRepository {
	return &studentPostgreSQL{
		db:   db,
		name: defaultDocumentName,
		seed: seed,
	}
}

func (r *studentPostgreSQL) Initialize(ctx context.Context) error {
	if err := r.db.WithContext(ctx).AutoMigrate(&studentDocument{}); err != nil {
		return repositories.NewStorageError("init", r.location(), handleDBError(err, "migrate student documents"))
	}

	var count int64
	if err := r.db.WithContext(ctx).
		Model(&studentDocument{}).
		Where("name = ?", r.name).
		Count(&count).Error; err != nil {
		return repositories.NewStorageError("init", r.location(), handleDBError(err, "count student documents"))
	}
	if count > 0 {
		return nil
	}
	if !r.seed {
		return repositories.NewStorageError("init", r.location(), gorm.ErrRecordNotFound)
	}
	return r.Save(ctx, repositories.SeedStudents())
}

func (r *studentPostgreSQL) Load(ctx context.Context) ([]models.Student, error) {
	var doc studentDocument
	if err := r.db.WithContext(ctx).
		Where("name = ?", r.name).
		First(&doc).Error; err != nil {
		return nil, repositories.NewStorageError("load", r.location(), handleDBError(err, "get student document"))
	}

	var students []models.Student
	if err := json.Unmarshal(doc.Records, &students); err != nil {
		return nil, repositories.NewStorageError("load", r.location(), fmt.Errorf("malformed document: %w", err))
	}
	if students == nil {
		students = []models.Student{}
	}
	return students, nil
}

func (r *studentPostgreSQL) Save(ctx context.Context, students []models.Student) error {
	if students == nil {
		students = []models.Student{}
	}
	data, err := json.Marshal(students)
	if err != nil {
		return repositories.NewStorageError("save", r.location(), err)
	}

	doc := studentDocument{
		Name:      r.name,
		Records:   datatypes.JSON(data),
		UpdatedAt: time.Now().UTC(),
	}

	err = r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "name"}},
			DoUpdates: clause.AssignmentColumns([]string{"records", "updated_at"}),
		}).Create(&doc).Error
	})
	if err != nil {
		return repositories.NewStorageError("save", r.location(), handleDBError(err, "upsert student document"))
	}
	return nil
}

func (r *studentPostgreSQL) Ping(ctx context.Context) error {
	sqlDB, err := r.db.DB()
	if err != nil {
		return fmt.Errorf("failed to get database instance: %w", err)
	}
	if err := sqlDB.PingContext(ctx); err != nil {
		return repositories.NewStorageError("ping", r.location(), fmt.Errorf("database ping failed: %w", err))
	}
	return nil
}

func (r *studentPostgreSQL) Close() error {
	sqlDB, err := r.db.DB()
	if err != nil {
		return fmt.Errorf("failed to get database instance: %w", err)
	}
	if err := sqlDB.Close(); err != nil {
		return fmt.Errorf("failed to close database: %w", err)
	}
	return nil
}

func (r *studentPostgreSQL) location() string {
	return studentDocument{}.TableName() + "/" + r.name
}

// handleDBError is a package-level helper for handling database errors
func handleDBError(err error, operation string) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("%s: document not found: %w", operation, err)
	}
	return fmt.Errorf("%s failed: %w", operation, err)
}
