package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/SAP-F-2025/student-service/internal/models"
	"github.com/SAP-F-2025/student-service/internal/services"
	"github.com/SAP-F-2025/student-service/internal/utils"
	"github.com/SAP-F-2025/student-service/internal/validator"
	"github.com/gin-gonic/gin"
)

const (
	invalidPayloadMessage = "Request body must be JSON"

	// MaxBodyBytes caps the size of a student request body.
	MaxBodyBytes = 64 << 10
)

type StudentHandler struct {
	BaseHandler
	service services.StudentService
}

func NewStudentHandler(service services.StudentService, logger utils.Logger) *StudentHandler {
	return &StudentHandler{
		BaseHandler: NewBaseHandler(logger),
		service:     service,
	}
}

// ===== STUDENT ENDPOINTS =====

// ListStudents returns every record in collection order
// @Router /students [get]
func (h *StudentHandler) ListStudents(c *gin.Context) {
	h.LogRequest(c, "Listing students")

	students, err := h.service.List(c.Request.Context())
	if err != nil {
		h.handleServiceError(c, err, "")
		return
	}

	c.JSON(http.StatusOK, models.ListEnvelope(students))
}

// GetStudent returns one record
// @Router /students/{id} [get]
func (h *StudentHandler) GetStudent(c *gin.Context) {
	studentID := c.Param("id")
	h.LogRequest(c, "Getting student", "student_id", studentID)

	student, err := h.service.Get(c.Request.Context(), studentID)
	if err != nil {
		h.handleServiceError(c, err, studentID)
		return
	}

	c.JSON(http.StatusOK, models.SuccessEnvelope("", student))
}

// CreateStudent appends a new record
// @Router /students [post]
func (h *StudentHandler) CreateStudent(c *gin.Context) {
	h.LogRequest(c, "Creating student")

	body, ok := h.readBody(c)
	if !ok {
		return
	}

	req, err := validator.DecodeStudentCreate(body)
	if err != nil {
		h.handleServiceError(c, err, "")
		return
	}

	student, err := h.service.Create(c.Request.Context(), req)
	if err != nil {
		studentID := ""
		if req.StudentID != nil {
			studentID = *req.StudentID
		}
		h.handleServiceError(c, err, studentID)
		return
	}

	c.JSON(http.StatusCreated, models.SuccessEnvelope("Student created", student))
}

// UpdateStudent merges the fields present in the body into an existing record
// @Router /students/{id} [put]
func (h *StudentHandler) UpdateStudent(c *gin.Context) {
	studentID := c.Param("id")
	h.LogRequest(c, "Updating student", "student_id", studentID)

	body, ok := h.readBody(c)
	if !ok {
		return
	}

	student, err := h.service.Update(c.Request.Context(), studentID, body)
	if err != nil {
		h.handleServiceError(c, err, studentID)
		return
	}

	c.JSON(http.StatusOK, models.SuccessEnvelope("Student updated", student))
}

// DeleteStudent removes a record
// @Router /students/{id} [delete]
func (h *StudentHandler) DeleteStudent(c *gin.Context) {
	studentID := c.Param("id")
	h.LogRequest(c, "Deleting student", "student_id", studentID)

	if err := h.service.Delete(c.Request.Context(), studentID); err != nil {
		h.handleServiceError(c, err, studentID)
		return
	}

	c.JSON(http.StatusOK, models.SuccessEnvelope(fmt.Sprintf("Student '%s' deleted", studentID), nil))
}

// ===== ERROR HANDLING =====

func (h *StudentHandler) handleServiceError(c *gin.Context, err error, studentID string) {
	var verrs validator.ValidationErrors

	switch {
	case errors.Is(err, services.ErrInvalidPayload):
		c.JSON(http.StatusBadRequest, models.ErrorEnvelope(invalidPayloadMessage))
	case errors.As(err, &verrs):
		c.JSON(http.StatusBadRequest, models.ErrorEnvelope(validationMessage(verrs)))
	case errors.Is(err, services.ErrStudentNotFound):
		c.JSON(http.StatusNotFound, models.ErrorEnvelope(fmt.Sprintf("Student '%s' not found", studentID)))
	case errors.Is(err, services.ErrStudentExists):
		c.JSON(http.StatusConflict, models.ErrorEnvelope(fmt.Sprintf("Student ID '%s' already exists", studentID)))
	default:
		h.LogError(c, err, "Unexpected service error", "student_id", studentID)
		c.JSON(http.StatusInternalServerError, models.ErrorEnvelope("Internal server error"))
	}
}

func (h *StudentHandler) readBody(c *gin.Context) ([]byte, bool) {
	if c.Request.Body != nil {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, MaxBodyBytes)
	}

	body, err := c.GetRawData()
	if err == nil {
		return body, true
	}

	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		c.JSON(http.StatusRequestEntityTooLarge, models.ErrorEnvelope(fmt.Sprintf("Request body exceeds %d bytes", tooLarge.Limit)))
		return nil, false
	}
	c.JSON(http.StatusBadRequest, models.ErrorEnvelope(invalidPayloadMessage))
	return nil, false
}

func validationMessage(verrs validator.ValidationErrors) string {
	if verrs.OnlyMissing() {
		return "Missing fields: " + quotedList(verrs.MissingFields())
	}

	parts := make([]string, 0, len(verrs))
	for _, e := range verrs {
		parts = append(parts, e.Field+" "+e.Message)
	}
	return "Invalid fields: " + strings.Join(parts, "; ")
}

// quotedList renders names as ['a', 'b'].
func quotedList(names []string) string {
	quoted := make([]string, len(names))
	for i, name := range names {
		quoted[i] = "'" + name + "'"
	}
	return "[" + strings.Join(quoted, ", ") + "]"
}
