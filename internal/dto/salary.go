package dto

// ── salary ──

// CalculateSalaryRequest POST /salary/calculate
type CalculateSalaryRequest struct {
	Month string `json:"month" binding:"required"`
}

// UpdateSalaryStatusRequest PUT /salary/admin/:id/status
type UpdateSalaryStatusRequest struct {
	Status string `json:"status" binding:"required,oneof=Pending Paid"`
}

// SalaryListRequest GET /salary/admin
type SalaryListRequest struct {
	Month string `form:"month"`
}

// SalaryResponse one payroll row.
type SalaryResponse struct {
	ID               string `json:"id"`
	StaffID          string `json:"staffId"`
	StaffName        string `json:"staffName,omitempty"`
	Month            string `json:"month"`
	TotalPresentDays int    `json:"totalPresentDays"`
	CalculatedAmount int64  `json:"calculatedAmount"`
	Status           string `json:"status"`
}

// SalaryCalculationResponse result of a monthly run.
type SalaryCalculationResponse struct {
	Month   string           `json:"month"`
	Records []SalaryResponse `json:"records"`
}
