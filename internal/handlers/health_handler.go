package handlers

import (
	"net/http"

	"github.com/SAP-F-2025/student-service/internal/models"
	"github.com/SAP-F-2025/student-service/internal/services"
	"github.com/SAP-F-2025/student-service/internal/utils"
	"github.com/gin-gonic/gin"
)

type HealthHandler struct {
	BaseHandler
	serviceManager services.ServiceManager
}

func NewHealthHandler(serviceManager services.ServiceManager, logger utils.Logger) *HealthHandler {
	return &HealthHandler{
		BaseHandler:    NewBaseHandler(logger),
		serviceManager: serviceManager,
	}
}

// Health reports liveness without touching storage
func (h *HealthHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, models.Envelope{
		Status:  models.StatusOK,
		Message: "Student API is running",
	})
}

// Ready reports whether the record store and lock backend are reachable
func (h *HealthHandler) Ready(c *gin.Context) {
	if err := h.serviceManager.HealthCheck(c.Request.Context()); err != nil {
		h.LogError(c, err, "Readiness check failed")
		c.JSON(http.StatusServiceUnavailable, models.ErrorEnvelope(err.Error()))
		return
	}

	c.JSON(http.StatusOK, models.Envelope{Status: models.StatusOK})
}
