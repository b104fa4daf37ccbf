package model

import (
	"time"

	"gorm.io/gorm"
)

// QRSession short-lived attendance token, table qr_sessions
type QRSession struct {
	QRSessionID      string    `gorm:"type:uuid;primaryKey"                  json:"id"`
	Token            string    `gorm:"type:varchar(64);not null;uniqueIndex" json:"qrToken"`
	ExpiresAt        time.Time `gorm:"not null;index"                        json:"expiresAt"`
	IssuedBy         string    `gorm:"column:created_by;type:uuid;not null;index" json:"createdBy"`
	LocationRequired bool      `gorm:"not null"                              json:"locationRequired"`
	CreatedAt        time.Time `gorm:"not null;default:CURRENT_TIMESTAMP"    json:"createdAt"`
}

// TableName qr_sessions
func (QRSession) TableName() string { return "qr_sessions" }

// BeforeCreate assigns the primary key.
func (q *QRSession) BeforeCreate(*gorm.DB) error {
	if q.QRSessionID == "" {
		q.QRSessionID = newID()
	}
	return nil
}

// ValidAt reports whether the session still admits submissions at now.
func (q *QRSession) ValidAt(now time.Time) bool {
	return now.Before(q.ExpiresAt)
}
