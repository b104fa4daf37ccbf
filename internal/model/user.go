package model

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// User account, table users
type User struct {
	UserID       string `gorm:"type:uuid;primaryKey"                    json:"id"`
	Name         string `gorm:"type:varchar(100);not null"              json:"name"`
	Email        string `gorm:"type:varchar(255);not null;uniqueIndex"  json:"email"`
	PasswordHash string `gorm:"type:varchar(255);not null"              json:"-"`
	Role         string `gorm:"type:varchar(20);not null"               json:"role"` // Admin | Staff | Student
	FaceEnrollment
	BaseModel
}

// FaceEnrollment is the stored reference descriptor of a user.
// Overwritten by enrollment, read-only during verification.
type FaceEnrollment struct {
	FaceDescriptor       datatypes.JSONSlice[float64] `json:"-"`
	FaceRegistered       bool                         `gorm:"not null;default:false" json:"faceRegistered"`
	FaceRegistrationDate *time.Time                   `json:"faceRegistrationDate,omitempty"`
}

// TableName users
func (User) TableName() string { return "users" }

// BeforeCreate assigns the primary key.
func (u *User) BeforeCreate(*gorm.DB) error {
	if u.UserID == "" {
		u.UserID = newID()
	}
	return nil
}
