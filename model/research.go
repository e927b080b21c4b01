// Package model defines database models
package model

import "time"

const (
	StatusPending  = "pending"
	StatusApproved = "approved"
	StatusRejected = "rejected"
	StatusArchived = "archived"
)

// Semesters lists the accepted values for Research.Semester
var Semesters = []string{"1st Semester", "2nd Semester", "Summer"}

// HiddenStatuses are excluded from the public default view. Searches without
// an explicit status filter and the view/download counters never touch these
var HiddenStatuses = []string{StatusArchived, StatusPending, StatusRejected}

type Research struct {
	ID         string      `gorm:"primaryKey" json:"id"`
	Title      string      `gorm:"not null;index" json:"title"`
	Abstract   string      `json:"abstract,omitempty"`
	Authors    StringSlice `gorm:"not null" json:"authors"`
	Adviser    string      `gorm:"not null" json:"adviser"`
	Department string      `gorm:"not null" json:"department"`
	Year       int         `gorm:"not null;index" json:"year"`
	Semester   string      `gorm:"not null" json:"semester"`
	Keywords   StringSlice `json:"keywords"`

	// Key of the stored PDF inside the attachment storage
	PDFPath string `gorm:"not null" json:"pdf_path"`

	// Mutated only through the dedicated atomic increments
	Views     int64 `json:"views"`
	Downloads int64 `json:"downloads"`

	Status string `gorm:"not null;default:pending;index" json:"status"`
	// Weak reference, the user may be deleted independently
	UploadedBy string `gorm:"index" json:"uploaded_by"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
