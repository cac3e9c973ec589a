package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"github.com/SAP-F-2025/student-service/internal/config"
	"github.com/SAP-F-2025/student-service/internal/events"
	"github.com/SAP-F-2025/student-service/internal/handlers"
	"github.com/SAP-F-2025/student-service/internal/locking"
	"github.com/SAP-F-2025/student-service/internal/repositories"
	"github.com/SAP-F-2025/student-service/internal/repositories/jsonfile"
	"github.com/SAP-F-2025/student-service/internal/repositories/postgres"
	"github.com/SAP-F-2025/student-service/internal/services"
	"github.com/SAP-F-2025/student-service/internal/utils"
	"github.com/SAP-F-2025/student-service/internal/validator"
	"github.com/SAP-F-2025/student-service/pkg"
)

func main() {
	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Initialize logger
	slogLogger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: cfg.LogLevel,
	}))
	slog.SetDefault(slogLogger)
	logger := utils.NewSlogLogger(slogLogger)

	// Initialize record store
	repo, err := newStudentRepository(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize record store: %v", err)
	}

	// Initialize Redis (if configured)
	var redisClient *redis.Client
	if cfg.RedisURL != "" {
		redisClient, err = pkg.NewRedisClient(cfg)
		if err != nil {
			log.Fatalf("Failed to initialize Redis: %v", err)
		}
	}

	var locker locking.Locker = locking.NewLocalLocker()
	if redisClient != nil {
		locker = locking.NewRedisLocker(redisClient, "student-service:", cfg.LockTTL)
		logger.Info("Using Redis mutation lock", "ttl", cfg.LockTTL.String())
	}

	// Initialize event publisher
	publisher, err := newEventPublisher(cfg, slogLogger)
	if err != nil {
		log.Fatalf("Failed to initialize event publisher: %v", err)
	}

	// Initialize services
	serviceManager := services.NewServiceManager(repo, locker, publisher, slogLogger, validator.New())
	if err := serviceManager.Initialize(context.Background()); err != nil {
		log.Fatalf("Failed to initialize services: %v", err)
	}

	// Initialize handlers
	handlerManager := handlers.NewHandlerManager(serviceManager, logger)

	// Setup Gin router
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()

	// Setup middleware
	handlers.SetupMiddleware(router, logger)

	// Setup routes
	handlerManager.SetupRoutes(router)

	// Create HTTP server
	server := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.Port),
		Handler:      router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}

	// Start server in a goroutine
	go func() {
		logger.Info("Starting server",
			"port", cfg.Port,
			"environment", cfg.Environment,
			"storage_driver", cfg.Storage.Driver)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")

	// Graceful shutdown with timeout
	ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	// Shutdown HTTP server
	if err := server.Shutdown(ctx); err != nil {
		log.Printf("Server forced to shutdown: %v", err)
	}

	// Shutdown services (closes the publisher and the record store)
	if err := serviceManager.Shutdown(ctx); err != nil {
		log.Printf("Failed to shutdown services: %v", err)
	}

	// Close Redis connection
	if redisClient != nil {
		redisClient.Close()
	}

	logger.Info("Server exited")
}

func newStudentRepository(cfg *config.Config) (repositories.StudentRepository, error) {
	switch cfg.Storage.Driver {
	case config.DriverPostgres:
		db, err := pkg.InitDatabase(cfg)
		if err != nil {
			return nil, err
		}
		return postgres.NewStudentPostgreSQL(db, cfg.Storage.Seed), nil
	default:
		return jsonfile.NewStudentJSONFile(cfg.Storage.DataFile, cfg.Storage.Seed), nil
	}
}

func newEventPublisher(cfg *config.Config, logger *slog.Logger) (events.EventPublisher, error) {
	if len(cfg.Kafka.Brokers) > 0 {
		publisher, err := events.NewKafkaPublisher(cfg.Kafka.Brokers, cfg.Kafka.Topic, logger)
		if err != nil {
			return nil, err
		}
		return publisher, nil
	}

	// gochannel drops messages that have no subscriber
	publisher, _ := events.NewGoChannelPublisher(cfg.Kafka.Topic, logger)
	return publisher, nil
}
