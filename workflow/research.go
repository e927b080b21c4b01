package workflow

import (
	"errors"

	"gorm.io/gorm"

	"github.com/janil231/research-repository2/model"
)

// InitialStatus returns the status a freshly uploaded document starts in.
// Teacher and admin uploads skip the review queue.
func InitialStatus(role string) string {
	if role == model.RoleTeacher || role == model.RoleAdmin {
		return model.StatusApproved
	}
	return model.StatusPending
}

func validResearchTarget(s string) bool {
	switch s {
	case model.StatusApproved, model.StatusRejected, model.StatusArchived:
		return true
	}
	return false
}

// allowedResearchTransition implements the document machine:
// pending→approved|rejected, rejected→approved, any→archived and
// archived→approved (restore). Approved only ever moves to archived.
func allowedResearchTransition(from, to string) bool {
	switch to {
	case model.StatusApproved:
		return true
	case model.StatusRejected:
		return from == model.StatusPending
	case model.StatusArchived:
		return true
	}
	return false
}

// SetResearchStatus applies one transition to the document with the given id
// and returns the updated record. Re-applying the current status is a no-op,
// not an error.
func SetResearchStatus(db *gorm.DB, id, target string) (*model.Research, error) {
	if !validResearchTarget(target) {
		return nil, ErrInvalidStatus
	}

	var doc model.Research
	if err := db.First(&doc, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	if doc.Status == target {
		return &doc, nil
	}

	if !allowedResearchTransition(doc.Status, target) {
		return nil, ErrInvalidTransition
	}

	// The status guard in the WHERE keeps the update atomic against a
	// concurrent transition on the same document
	res := db.Model(&model.Research{}).
		Where("id = ? AND status = ?", id, doc.Status).
		Update("status", target)
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, ErrConflict
	}

	doc.Status = target
	return &doc, nil
}

// IncrementViews bumps the view counter of a publicly visible document and
// returns the updated record. Hidden documents report not-found.
func IncrementViews(db *gorm.DB, id string) (*model.Research, error) {
	return increment(db, id, "views")
}

// IncrementDownloads bumps the download counter of a publicly visible
// document and returns the updated record
func IncrementDownloads(db *gorm.DB, id string) (*model.Research, error) {
	return increment(db, id, "downloads")
}

func increment(db *gorm.DB, id, column string) (*model.Research, error) {
	res := db.Model(&model.Research{}).
		Where("id = ? AND status NOT IN ?", id, model.HiddenStatuses).
		UpdateColumn(column, gorm.Expr(column+" + 1"))
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, ErrNotFound
	}

	var doc model.Research
	if err := db.First(&doc, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &doc, nil
}
