package handlers

import (
	"github.com/SAP-F-2025/student-service/internal/utils"
	"github.com/gin-gonic/gin"
)

// BaseHandler carries the logging helpers shared by every handler
type BaseHandler struct {
	logger utils.Logger
}

func NewBaseHandler(logger utils.Logger) BaseHandler {
	return BaseHandler{logger: logger}
}

// LogRequest logs an incoming request with the request-scoped logger
func (h *BaseHandler) LogRequest(c *gin.Context, message string, args ...any) {
	args = append([]any{"method", c.Request.Method, "path", c.Request.URL.Path}, args...)
	utils.GetLogger(c, h.logger).Info(message, args...)
}

// LogError logs a failed request
func (h *BaseHandler) LogError(c *gin.Context, err error, message string, args ...any) {
	args = append([]any{"error", err, "method", c.Request.Method, "path", c.Request.URL.Path}, args...)
	utils.GetLogger(c, h.logger).Error(message, args...)
}
