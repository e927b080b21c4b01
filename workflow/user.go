package workflow

import (
	"errors"

	"gorm.io/gorm"

	"github.com/janil231/research-repository2/model"
)

// SetStudentStatus applies an admin approve/reject to a student registration.
// The student machine only allows pending→approved|rejected and
// rejected→approved; an approved account stays approved. Admin accounts are
// outside this machine entirely.
func SetStudentStatus(db *gorm.DB, id, target string) (*model.User, error) {
	if target != model.StatusApproved && target != model.StatusRejected {
		return nil, ErrInvalidStatus
	}

	var user model.User
	if err := db.First(&user, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	if user.Role != model.RoleStudent {
		return nil, ErrNotStudent
	}

	if user.Status == target {
		return &user, nil
	}

	allowed := user.Status == model.StatusPending ||
		(user.Status == model.StatusRejected && target == model.StatusApproved)
	if !allowed {
		return nil, ErrInvalidTransition
	}

	res := db.Model(&model.User{}).
		Where("id = ? AND status = ?", id, user.Status).
		Update("status", target)
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, ErrConflict
	}

	user.Status = target
	return &user, nil
}
