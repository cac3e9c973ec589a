package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/SAP-F-2025/student-service/internal/events"
	"github.com/SAP-F-2025/student-service/internal/locking"
	"github.com/SAP-F-2025/student-service/internal/repositories"
	"github.com/SAP-F-2025/student-service/internal/validator"
)

// HealthChecker is implemented by dependencies that can report their own health
type HealthChecker interface {
	HealthCheck(ctx context.Context) error
}

// serviceManager implements ServiceManager interface
type serviceManager struct {
	// Dependencies
	repo      repositories.StudentRepository
	locker    locking.Locker
	publisher events.EventPublisher
	logger    *slog.Logger
	validator *validator.Validator

	// Service instances
	studentService StudentService
	exportService  ExportService

	// Lifecycle management
	initialized bool
	shutdown    bool
	mu          sync.RWMutex
}

// NewServiceManager creates a new service manager with all dependencies
func NewServiceManager(
	repo repositories.StudentRepository,
	locker locking.Locker,
	publisher events.EventPublisher,
	logger *slog.Logger,
	validator *validator.Validator,
) ServiceManager {
	return &serviceManager{
		repo:      repo,
		locker:    locker,
		publisher: publisher,
		logger:    logger,
		validator: validator,
	}
}

// Initialize prepares the record store and builds the services
func (sm *serviceManager) Initialize(ctx context.Context) error {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	if sm.initialized {
		return nil
	}

	sm.logger.Info("Initializing service manager")

	if err := sm.repo.Initialize(ctx); err != nil {
		return fmt.Errorf("failed to initialize record store: %w", err)
	}

	sm.studentService = NewStudentService(sm.repo, sm.locker, sm.publisher, sm.logger, sm.validator)
	sm.logger.Info("Student service initialized")

	sm.exportService = NewExportService(sm.repo, sm.logger)
	sm.logger.Info("Export service initialized")

	sm.initialized = true
	sm.logger.Info("Service manager initialized successfully")

	return nil
}

// Service getters
func (sm *serviceManager) Student() StudentService {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	if !sm.initialized {
		panic("service manager not initialized")
	}
	return sm.studentService
}

func (sm *serviceManager) Export() ExportService {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	if !sm.initialized {
		panic("service manager not initialized")
	}
	return sm.exportService
}

// Health and lifecycle
func (sm *serviceManager) HealthCheck(ctx context.Context) error {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	if !sm.initialized {
		return fmt.Errorf("service manager not initialized")
	}

	if sm.shutdown {
		return fmt.Errorf("service manager is shut down")
	}

	if err := sm.repo.Ping(ctx); err != nil {
		return fmt.Errorf("record store health check failed: %w", err)
	}

	if checker, ok := sm.locker.(HealthChecker); ok {
		if err := checker.HealthCheck(ctx); err != nil {
			return err
		}
	}

	return nil
}

func (sm *serviceManager) Shutdown(ctx context.Context) error {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	if sm.shutdown {
		return nil
	}

	sm.logger.Info("Shutting down service manager")

	var errs []error
	if sm.publisher != nil {
		if err := sm.publisher.Close(); err != nil {
			sm.logger.Error("Failed to close event publisher", "error", err)
			errs = append(errs, err)
		}
	}
	if err := sm.repo.Close(); err != nil {
		sm.logger.Error("Failed to close record store", "error", err)
		errs = append(errs, err)
	}

	sm.shutdown = true
	sm.logger.Info("Service manager shut down completed")

	return errors.Join(errs...)
}
