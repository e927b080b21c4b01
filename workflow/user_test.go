package workflow

import (
	"errors"
	"testing"

	"gorm.io/gorm"

	"github.com/janil231/research-repository2/model"
)

func seedUser(t *testing.T, db *gorm.DB, id, role, status string) {
	t.Helper()

	user := model.User{ID: id, FirstName: "Test", LastName: "User", Role: role, Status: status}
	if err := db.Create(&user).Error; err != nil {
		t.Fatalf("seed: %v", err)
	}
}

func TestStudentTransitions(t *testing.T) {
	tests := []struct {
		name    string
		from    string
		target  string
		wantErr error
	}{
		{"approve pending", model.StatusPending, model.StatusApproved, nil},
		{"reject pending", model.StatusPending, model.StatusRejected, nil},
		{"approve rejected", model.StatusRejected, model.StatusApproved, nil},
		{"reject approved", model.StatusApproved, model.StatusRejected, ErrInvalidTransition},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db := testDB(t)
			seedUser(t, db, "u1", model.RoleStudent, tt.from)

			user, err := SetStudentStatus(db, "u1", tt.target)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("got err %v, want %v", err, tt.wantErr)
			}
			if tt.wantErr != nil {
				return
			}

			if user.Status != tt.target {
				t.Errorf("status = %q, want %q", user.Status, tt.target)
			}
		})
	}
}

func TestStudentStatusIdempotent(t *testing.T) {
	db := testDB(t)
	seedUser(t, db, "u1", model.RoleStudent, model.StatusApproved)

	user, err := SetStudentStatus(db, "u1", model.StatusApproved)
	if err != nil {
		t.Fatalf("re-approve: %v", err)
	}
	if user.Status != model.StatusApproved {
		t.Errorf("status = %q, want approved", user.Status)
	}
}

func TestStudentStatusGuards(t *testing.T) {
	db := testDB(t)
	seedUser(t, db, "admin1", model.RoleAdmin, model.StatusApproved)

	if _, err := SetStudentStatus(db, "admin1", model.StatusRejected); !errors.Is(err, ErrNotStudent) {
		t.Fatalf("admin target: got %v, want ErrNotStudent", err)
	}

	if _, err := SetStudentStatus(db, "ghost", model.StatusApproved); !errors.Is(err, ErrNotFound) {
		t.Fatalf("missing user: got %v, want ErrNotFound", err)
	}

	seedUser(t, db, "u1", model.RoleStudent, model.StatusPending)
	if _, err := SetStudentStatus(db, "u1", model.StatusArchived); !errors.Is(err, ErrInvalidStatus) {
		t.Fatalf("bad target: got %v, want ErrInvalidStatus", err)
	}
}
