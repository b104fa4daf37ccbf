package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"library-management/backend/internal/dto"
	"library-management/backend/internal/service"
	"library-management/backend/pkg/response"
)

// SalaryHandler payroll endpoints.
type SalaryHandler struct {
	salarySvc service.SalaryService
}

// NewSalaryHandler returns a SalaryHandler.
func NewSalaryHandler(salarySvc service.SalaryService) *SalaryHandler {
	return &SalaryHandler{salarySvc: salarySvc}
}

// Calculate POST /api/v1/salary/calculate (Admin)
func (h *SalaryHandler) Calculate(c *gin.Context) {
	var req dto.CalculateSalaryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 15001, "month must be YYYY-MM")
		return
	}

	result, err := h.salarySvc.Calculate(c.Request.Context(), req.Month)
	if err != nil {
		h.handleSalaryError(c, err)
		return
	}
	response.OK(c, result)
}

// ListMine GET /api/v1/salary/me (Staff)
func (h *SalaryHandler) ListMine(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	result, err := h.salarySvc.ListMine(c.Request.Context(), userID)
	if err != nil {
		h.handleSalaryError(c, err)
		return
	}
	response.OK(c, result)
}

// ListAll GET /api/v1/salary/admin?month=YYYY-MM (Admin)
func (h *SalaryHandler) ListAll(c *gin.Context) {
	var req dto.SalaryListRequest
	_ = c.ShouldBindQuery(&req)

	result, err := h.salarySvc.ListAll(c.Request.Context(), req.Month)
	if err != nil {
		h.handleSalaryError(c, err)
		return
	}
	response.OK(c, result)
}

// UpdateStatus PUT /api/v1/salary/admin/:id/status (Admin)
func (h *SalaryHandler) UpdateStatus(c *gin.Context) {
	var req dto.UpdateSalaryStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 15004, "salary status must be Pending or Paid")
		return
	}

	result, err := h.salarySvc.UpdateStatus(c.Request.Context(), c.Param("id"), req.Status)
	if err != nil {
		h.handleSalaryError(c, err)
		return
	}
	response.OK(c, result)
}

func (h *SalaryHandler) handleSalaryError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrInvalidMonth):
		response.BadRequest(c, 15001, "month must be YYYY-MM")
	case errors.Is(err, service.ErrSalaryNotFound):
		response.NotFound(c, 15002, "salary record not found")
	case errors.Is(err, service.ErrStaffNotFound):
		response.NotFound(c, 15003, "staff profile not found")
	case errors.Is(err, service.ErrInvalidSalaryStatus):
		response.BadRequest(c, 15004, "salary status must be Pending or Paid")
	default:
		_ = c.Error(err)
		response.InternalError(c)
	}
}
