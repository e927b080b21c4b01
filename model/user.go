package model

import "time"

const (
	RoleStudent = "student"
	RoleTeacher = "teacher"
	RoleAdmin   = "admin"
)

// User covers both students and admins. Students log in with their school ID,
// admins with a username, so exactly one of the two is populated per row.
type User struct {
	ID        string `gorm:"primaryKey" json:"id"`
	FirstName string `gorm:"not null" json:"first_name"`
	LastName  string `gorm:"not null" json:"last_name"`

	// Student fields
	SchoolID   *string `gorm:"uniqueIndex" json:"school_id,omitempty"`
	Department string  `json:"department,omitempty"`

	// Admin fields
	Username        *string    `gorm:"uniqueIndex" json:"username,omitempty"`
	AuthSecret      string     `json:"-"` // TOTP secret (base32)
	TotpAttempts    int        `json:"-"`
	TotpLockedUntil *time.Time `json:"-"`

	PasswordHash string `gorm:"not null" json:"-"`
	Role         string `gorm:"not null;default:student" json:"role"`
	// Status only gates student logins. Admin accounts are treated as
	// always approved regardless of what this column holds
	Status string `gorm:"not null;default:pending" json:"status"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
