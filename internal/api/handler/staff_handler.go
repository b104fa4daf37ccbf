package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"library-management/backend/internal/dto"
	"library-management/backend/internal/service"
	"library-management/backend/pkg/response"
)

// StaffHandler admin staff directory.
type StaffHandler struct {
	staffSvc service.StaffService
}

// NewStaffHandler returns a StaffHandler.
func NewStaffHandler(staffSvc service.StaffService) *StaffHandler {
	return &StaffHandler{staffSvc: staffSvc}
}

// List GET /api/v1/staff/admin
func (h *StaffHandler) List(c *gin.Context) {
	result, err := h.staffSvc.ListWithSummary(c.Request.Context())
	if err != nil {
		h.handleStaffError(c, err)
		return
	}
	response.OK(c, result)
}

// Get GET /api/v1/staff/admin/:id
func (h *StaffHandler) Get(c *gin.Context) {
	result, err := h.staffSvc.GetDetail(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.handleStaffError(c, err)
		return
	}
	response.OK(c, result)
}

// UpdateSalary PUT /api/v1/staff/admin/:id/salary
func (h *StaffHandler) UpdateSalary(c *gin.Context) {
	var req dto.UpdateStaffSalaryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "validation failed")
		return
	}

	result, err := h.staffSvc.UpdateSalaryInfo(c.Request.Context(), c.Param("id"), &req)
	if err != nil {
		h.handleStaffError(c, err)
		return
	}
	response.OK(c, result)
}

func (h *StaffHandler) handleStaffError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrStaffNotFound):
		response.NotFound(c, 15003, "staff profile not found")
	default:
		_ = c.Error(err)
		response.InternalError(c)
	}
}
