package model

import "time"

// ResetRequest is a student's password reset ticket. Unresolved requests
// expire after 24 hours and are purged by the cleanup service.
type ResetRequest struct {
	ID        string    `gorm:"primaryKey" json:"id"`
	UserID    string    `gorm:"not null;index" json:"user_id"`
	Status    string    `gorm:"not null;default:pending" json:"status"`
	CreatedAt time.Time `json:"created_at"`
	ExpiresAt time.Time `gorm:"index" json:"expires_at"`
}
