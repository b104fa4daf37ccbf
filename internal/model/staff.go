package model

import "gorm.io/gorm"

// Salary types.
const (
	SalaryMonthly = "Monthly"
	SalaryDaily   = "Daily"
)

// Staff profile, table staff
type Staff struct {
	StaffID     string `gorm:"type:uuid;primaryKey"                  json:"id"`
	UserID      string `gorm:"type:uuid;not null;uniqueIndex"        json:"userId"`
	Designation string `gorm:"type:varchar(100);not null"            json:"designation"`
	SalaryType  string `gorm:"type:varchar(10);not null"             json:"salaryType"` // Monthly | Daily
	BaseSalary  int64  `gorm:"not null"                              json:"baseSalary"`
	Active      bool   `gorm:"not null"                              json:"active"`
	BaseModel

	User *User `gorm:"foreignKey:UserID;references:UserID" json:"user,omitempty"`
}

// TableName staff
func (Staff) TableName() string { return "staff" }

// BeforeCreate assigns the primary key.
func (s *Staff) BeforeCreate(*gorm.DB) error {
	if s.StaffID == "" {
		s.StaffID = newID()
	}
	return nil
}
