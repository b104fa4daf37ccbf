package model

import "gorm.io/gorm"

// Salary statuses.
const (
	SalaryPending = "Pending"
	SalaryPaid    = "Paid"
)

// SalaryRecord monthly payroll row, table salaries
type SalaryRecord struct {
	SalaryID         string `gorm:"type:uuid;primaryKey"                                               json:"id"`
	StaffID          string `gorm:"type:uuid;not null;uniqueIndex:idx_salary_staff_month,priority:1"   json:"staffId"`
	Month            string `gorm:"type:varchar(7);not null;uniqueIndex:idx_salary_staff_month,priority:2" json:"month"` // YYYY-MM
	TotalPresentDays int    `gorm:"not null"                                                           json:"totalPresentDays"`
	CalculatedAmount int64  `gorm:"not null"                                                           json:"calculatedAmount"`
	Status           string `gorm:"type:varchar(10);not null"                                          json:"status"` // Pending | Paid
	BaseModel

	Staff *Staff `gorm:"foreignKey:StaffID;references:StaffID" json:"staff,omitempty"`
}

// TableName salaries
func (SalaryRecord) TableName() string { return "salaries" }

// BeforeCreate assigns the primary key.
func (s *SalaryRecord) BeforeCreate(*gorm.DB) error {
	if s.SalaryID == "" {
		s.SalaryID = newID()
	}
	return nil
}
