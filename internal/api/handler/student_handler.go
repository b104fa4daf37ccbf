package handler

import (
	"github.com/gin-gonic/gin"

	"library-management/backend/internal/service"
	"library-management/backend/pkg/response"
)

// StudentHandler admin student directory.
type StudentHandler struct {
	studentSvc service.StudentService
}

// NewStudentHandler returns a StudentHandler.
func NewStudentHandler(studentSvc service.StudentService) *StudentHandler {
	return &StudentHandler{studentSvc: studentSvc}
}

// List GET /api/v1/students/admin
func (h *StudentHandler) List(c *gin.Context) {
	result, err := h.studentSvc.ListWithSummary(c.Request.Context())
	if err != nil {
		_ = c.Error(err)
		response.InternalError(c)
		return
	}
	response.OK(c, result)
}
