package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/SAP-F-2025/student-service/internal/models"
	"github.com/SAP-F-2025/student-service/internal/services"
	"github.com/SAP-F-2025/student-service/internal/utils"
)

type HandlerManager struct {
	studentHandler *StudentHandler
	exportHandler  *ExportHandler
	healthHandler  *HealthHandler
}

func NewHandlerManager(serviceManager services.ServiceManager, logger utils.Logger) *HandlerManager {
	return &HandlerManager{
		studentHandler: NewStudentHandler(serviceManager.Student(), logger),
		exportHandler:  NewExportHandler(serviceManager.Export(), logger),
		healthHandler:  NewHealthHandler(serviceManager, logger),
	}
}

// SetupRoutes sets up all API routes
func (hm *HandlerManager) SetupRoutes(router *gin.Engine) {
	students := router.Group("/students")
	{
		students.GET("", hm.studentHandler.ListStudents)
		students.POST("", hm.studentHandler.CreateStudent)
		students.GET("/:id", hm.studentHandler.GetStudent)
		students.PUT("/:id", hm.studentHandler.UpdateStudent)
		students.DELETE("/:id", hm.studentHandler.DeleteStudent)
	}

	exports := router.Group("/exports")
	{
		exports.GET("/students.xlsx", hm.exportHandler.ExportStudents)
	}

	// Health check endpoints
	router.GET("/health", hm.healthHandler.Health)
	router.GET("/ready", hm.healthHandler.Ready)

	router.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, models.ErrorEnvelope("Not found"))
	})
}
