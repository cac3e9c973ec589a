package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/SAP-F-2025/student-service/internal/events"
	"github.com/SAP-F-2025/student-service/internal/locking"
	"github.com/SAP-F-2025/student-service/internal/models"
	"github.com/SAP-F-2025/student-service/internal/repositories"
	"github.com/SAP-F-2025/student-service/internal/validator"
)

// studentsLock guards the whole collection; every mutation rewrites it.
const studentsLock = "students"

type studentService struct {
	repo      repositories.StudentRepository
	locker    locking.Locker
	publisher events.EventPublisher
	logger    *slog.Logger
	validator *validator.Validator
}

func NewStudentService(
	repo repositories.StudentRepository,
	locker locking.Locker,
	publisher events.EventPublisher,
	logger *slog.Logger,
	validator *validator.Validator,
) StudentService {
	return &studentService{
		repo:      repo,
		locker:    locker,
		publisher: publisher,
		logger:    logger,
		validator: validator,
	}
}

func (s *studentService) List(ctx context.Context) ([]models.Student, error) {
	students, err := s.repo.Load(ctx)
	if err != nil {
		s.logger.Error("Failed to load students", "error", err)
		return nil, fmt.Errorf("failed to list students: %w", err)
	}
	return students, nil
}

func (s *studentService) Get(ctx context.Context, studentID string) (*models.Student, error) {
	students, err := s.repo.Load(ctx)
	if err != nil {
		s.logger.Error("Failed to load students", "error", err, "student_id", studentID)
		return nil, fmt.Errorf("failed to get student: %w", err)
	}

	_, student := models.FindStudent(students, studentID)
	if student == nil {
		return nil, ErrStudentNotFound
	}
	return student, nil
}

func (s *studentService) Create(ctx context.Context, req *CreateStudentRequest) (*models.Student, error) {
	errs := s.validator.GetBusinessValidator().ValidateStudentCreate(req)
	if errs.OnlyMissing() {
		return nil, errs
	}

	var student models.Student
	err := s.mutate(ctx, func(students []models.Student) ([]models.Student, error) {
		// a taken id is reported ahead of bad values
		if req.StudentID != nil {
			if idx, _ := models.FindStudent(students, *req.StudentID); idx >= 0 {
				return nil, ErrStudentExists
			}
		}
		if len(errs) > 0 {
			return nil, errs
		}

		student = models.Student{
			StudentID:         *req.StudentID,
			StudentName:       *req.StudentName,
			YearsOfExperience: *req.YearsOfExperience,
			CompanyName:       *req.CompanyName,
		}
		return append(students, student), nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("Student created", "student_id", student.StudentID)
	s.publish(ctx, events.NewStudentEvent(events.StudentCreated, student.StudentID, &student))
	return &student, nil
}

func (s *studentService) Update(ctx context.Context, studentID string, payload []byte) (*models.Student, error) {
	var updated models.Student

	err := s.mutate(ctx, func(students []models.Student) ([]models.Student, error) {
		idx, current := models.FindStudent(students, studentID)
		if idx < 0 {
			return nil, ErrStudentNotFound
		}

		req, err := validator.DecodeStudentUpdate(payload)
		if err != nil {
			return nil, err
		}
		if errs := s.validator.GetBusinessValidator().ValidateStudentUpdate(req); len(errs) > 0 {
			return nil, errs
		}

		updated = applyStudentUpdate(*current, req)
		students[idx] = updated
		return students, nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("Student updated", "student_id", studentID)
	s.publish(ctx, events.NewStudentEvent(events.StudentUpdated, studentID, &updated))
	return &updated, nil
}

func (s *studentService) Delete(ctx context.Context, studentID string) error {
	err := s.mutate(ctx, func(students []models.Student) ([]models.Student, error) {
		idx, _ := models.FindStudent(students, studentID)
		if idx < 0 {
			return nil, ErrStudentNotFound
		}
		return append(students[:idx], students[idx+1:]...), nil
	})
	if err != nil {
		return err
	}

	s.logger.Info("Student deleted", "student_id", studentID)
	s.publish(ctx, events.NewStudentEvent(events.StudentDeleted, studentID, nil))
	return nil
}

// ===== HELPER METHODS =====

// mutate runs load, fn and save under the collection lock. Nothing is saved when fn fails.
func (s *studentService) mutate(ctx context.Context, fn func([]models.Student) ([]models.Student, error)) error {
	return s.locker.WithLock(ctx, studentsLock, func(ctx context.Context) error {
		students, err := s.repo.Load(ctx)
		if err != nil {
			s.logger.Error("Failed to load students", "error", err)
			return fmt.Errorf("failed to load students: %w", err)
		}

		next, err := fn(students)
		if err != nil {
			return err
		}

		if err := s.repo.Save(ctx, next); err != nil {
			s.logger.Error("Failed to save students", "error", err)
			return fmt.Errorf("failed to save students: %w", err)
		}
		return nil
	})
}

func (s *studentService) publish(ctx context.Context, event *events.Event) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.Publish(ctx, event); err != nil {
		s.logger.Warn("Failed to publish event",
			"error", err,
			"event_type", event.Type,
			"event_id", event.ID)
	}
}

func applyStudentUpdate(student models.Student, req *UpdateStudentRequest) models.Student {
	if req.StudentName != nil {
		student.StudentName = *req.StudentName
	}
	if req.YearsOfExperience != nil {
		student.YearsOfExperience = *req.YearsOfExperience
	}
	if req.CompanyName != nil {
		student.CompanyName = *req.CompanyName
	}
	return student
}
