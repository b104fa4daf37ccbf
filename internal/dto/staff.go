package dto

// ── staff ──

// UpdateStaffSalaryRequest PUT /staff/admin/:id/salary
type UpdateStaffSalaryRequest struct {
	Designation *string `json:"designation" binding:"omitempty,min=1,max=100"`
	SalaryType  *string `json:"salaryType"  binding:"omitempty,oneof=Monthly Daily"`
	BaseSalary  *int64  `json:"baseSalary"  binding:"omitempty,min=0"`
	Active      *bool   `json:"active"`
}

// StaffResponse staff profile.
type StaffResponse struct {
	ID          string `json:"id"`
	UserID      string `json:"userId"`
	Name        string `json:"name"`
	Email       string `json:"email"`
	Designation string `json:"designation"`
	SalaryType  string `json:"salaryType"`
	BaseSalary  int64  `json:"baseSalary"`
	Active      bool   `json:"active"`
}

// AttendanceSummary month-to-date figures of one staff member.
type AttendanceSummary struct {
	Month          string  `json:"month"`
	PresentDays    int     `json:"presentDays"`
	TotalDays      int     `json:"totalDays"`
	Percentage     float64 `json:"percentage"`
	ExpectedSalary int64   `json:"expectedSalary"`
	SalaryStatus   string  `json:"salaryStatus,omitempty"`
}

// StaffSummaryResponse admin staff listing row.
type StaffSummaryResponse struct {
	StaffResponse
	Attendance AttendanceSummary `json:"attendance"`
}

// StaffDetailResponse GET /staff/admin/:id
type StaffDetailResponse struct {
	StaffResponse
	AttendanceHistory []AttendanceResponse `json:"attendanceHistory"`
	SalaryHistory     []SalaryResponse     `json:"salaryHistory"`
}
