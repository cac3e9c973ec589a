package services

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"

	"github.com/SAP-F-2025/student-service/internal/repositories"
	"github.com/xuri/excelize/v2"
)

const StudentsSheet = "Students"

var studentExportHeader = []interface{}{"student_id", "student_name", "years_of_experience", "company_name"}

type exportService struct {
	repo   repositories.StudentRepository
	logger *slog.Logger
}

func NewExportService(repo repositories.StudentRepository, logger *slog.Logger) ExportService {
	return &exportService{
		repo:   repo,
		logger: logger,
	}
}

// ExportStudents writes the collection into a single-sheet workbook in collection order.
func (s *exportService) ExportStudents(ctx context.Context) (*bytes.Buffer, error) {
	students, err := s.repo.Load(ctx)
	if err != nil {
		s.logger.Error("Failed to load students for export", "error", err)
		return nil, fmt.Errorf("failed to export students: %w", err)
	}

	f := excelize.NewFile()
	defer func() {
		if err := f.Close(); err != nil {
			s.logger.Warn("Failed to close workbook", "error", err)
		}
	}()

	if err := f.SetSheetName("Sheet1", StudentsSheet); err != nil {
		return nil, fmt.Errorf("failed to name sheet: %w", err)
	}
	if err := f.SetSheetRow(StudentsSheet, "A1", &studentExportHeader); err != nil {
		return nil, fmt.Errorf("failed to write header: %w", err)
	}

	for i, student := range students {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return nil, err
		}
		row := []interface{}{
			student.StudentID,
			student.StudentName,
			student.YearsOfExperience,
			student.CompanyName,
		}
		if err := f.SetSheetRow(StudentsSheet, cell, &row); err != nil {
			return nil, fmt.Errorf("failed to write row %d: %w", i+2, err)
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to write workbook: %w", err)
	}

	s.logger.Info("Students exported", "count", len(students))
	return buf, nil
}
