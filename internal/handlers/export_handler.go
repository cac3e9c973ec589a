package handlers

import (
	"net/http"

	"github.com/SAP-F-2025/student-service/internal/models"
	"github.com/SAP-F-2025/student-service/internal/services"
	"github.com/SAP-F-2025/student-service/internal/utils"
	"github.com/gin-gonic/gin"
)

const (
	xlsxContentType    = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	studentsExportName = "students.xlsx"
)

type ExportHandler struct {
	BaseHandler
	service services.ExportService
}

func NewExportHandler(service services.ExportService, logger utils.Logger) *ExportHandler {
	return &ExportHandler{
		BaseHandler: NewBaseHandler(logger),
		service:     service,
	}
}

// ExportStudents streams the collection as an xlsx workbook
// @Router /exports/students.xlsx [get]
func (h *ExportHandler) ExportStudents(c *gin.Context) {
	h.LogRequest(c, "Exporting students")

	buf, err := h.service.ExportStudents(c.Request.Context())
	if err != nil {
		h.LogError(c, err, "Failed to export students")
		c.JSON(http.StatusInternalServerError, models.ErrorEnvelope("Internal server error"))
		return
	}

	c.Header("Content-Disposition", `attachment; filename="`+studentsExportName+`"`)
	c.Data(http.StatusOK, xlsxContentType, buf.Bytes())
}
