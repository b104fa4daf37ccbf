package model

import (
	"time"

	"gorm.io/gorm"
)

// Student statuses.
const (
	StudentActive   = "Active"
	StudentInactive = "Inactive"
)

// Student profile, table students
type Student struct {
	StudentID       string     `gorm:"type:uuid;primaryKey"                   json:"id"`
	UserID          *string    `gorm:"type:uuid;uniqueIndex"                  json:"userId,omitempty"`
	FullName        string     `gorm:"type:varchar(100);not null"             json:"fullName"`
	StudentCode     string     `gorm:"type:varchar(32);not null;uniqueIndex"  json:"studentCode"`
	Phone           string     `gorm:"type:varchar(20)"                       json:"phone,omitempty"`
	Email           string     `gorm:"type:varchar(255)"                      json:"email,omitempty"`
	MembershipStart time.Time  `gorm:"not null"                               json:"membershipStart"`
	MembershipEnd   *time.Time `json:"membershipEnd,omitempty"`
	Status          string     `gorm:"type:varchar(20);not null"              json:"status"`
	BaseModel
}

// TableName students
func (Student) TableName() string { return "students" }

// BeforeCreate assigns the primary key.
func (s *Student) BeforeCreate(*gorm.DB) error {
	if s.StudentID == "" {
		s.StudentID = newID()
	}
	return nil
}
