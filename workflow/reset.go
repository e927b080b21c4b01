package workflow

import (
	"errors"
	"time"

	gonanoid "github.com/matoous/go-nanoid/v2"
	"gorm.io/gorm"

	"github.com/janil231/research-repository2/model"
)

// ResetTTL is how long an unresolved reset request stays valid
const ResetTTL = 24 * time.Hour

// CreateResetRequest opens a reset ticket for the user. At most one pending
// request may exist per user; this is a read-then-write existence check, not
// a uniqueness constraint, so two racing submissions can both pass it (known
// limitation, recorded in DESIGN.md).
func CreateResetRequest(db *gorm.DB, userID string) (*model.ResetRequest, error) {
	var count int64
	err := db.Model(&model.ResetRequest{}).
		Where("user_id = ? AND status = ? AND expires_at > ?", userID, model.StatusPending, time.Now()).
		Count(&count).
		Error
	if err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, ErrPendingExists
	}

	id, err := gonanoid.Generate(idCharset, 16)
	if err != nil {
		return nil, err
	}

	req := &model.ResetRequest{
		ID:        id,
		UserID:    userID,
		Status:    model.StatusPending,
		ExpiresAt: time.Now().Add(ResetTTL),
	}
	if err := db.Create(req).Error; err != nil {
		return nil, err
	}
	return req, nil
}

// ResolveResetRequest closes a reset ticket. Approval needs the new password
// hash and applies it to the user in the same transaction as the status
// change; rejection just closes the ticket.
func ResolveResetRequest(db *gorm.DB, id, target, newPasswordHash string) (*model.ResetRequest, error) {
	if target != model.StatusApproved && target != model.StatusRejected {
		return nil, ErrInvalidStatus
	}

	var req model.ResetRequest
	if err := db.First(&req, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	if req.Status == target {
		return &req, nil
	}
	if req.Status != model.StatusPending {
		return nil, ErrInvalidTransition
	}

	if target == model.StatusRejected {
		if err := db.Model(&req).Update("status", target).Error; err != nil {
			return nil, err
		}
		req.Status = target
		return &req, nil
	}

	if newPasswordHash == "" {
		return nil, ErrPasswordRequired
	}

	err := db.Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&model.User{}).
			Where("id = ?", req.UserID).
			Update("password_hash", newPasswordHash)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			// The user was deleted while the ticket was open
			return ErrNotFound
		}

		return tx.Model(&req).Update("status", target).Error
	})
	if err != nil {
		return nil, err
	}

	req.Status = target
	return &req, nil
}

// PurgeExpired removes pending reset requests past their TTL. Called
// periodically by the cleanup service, standing in for the TTL index of a
// document store.
func PurgeExpired(db *gorm.DB) (int64, error) {
	res := db.Where("status = ? AND expires_at < ?", model.StatusPending, time.Now()).
		Delete(&model.ResetRequest{})
	return res.RowsAffected, res.Error
}
