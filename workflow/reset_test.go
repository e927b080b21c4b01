package workflow

import (
	"errors"
	"testing"
	"time"

	"github.com/janil231/research-repository2/model"
)

func TestCreateResetRequest(t *testing.T) {
	db := testDB(t)
	seedUser(t, db, "u1", model.RoleStudent, model.StatusApproved)

	req, err := CreateResetRequest(db, "u1")
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	if req.Status != model.StatusPending {
		t.Errorf("status = %q, want pending", req.Status)
	}
	if time.Until(req.ExpiresAt) > ResetTTL || time.Until(req.ExpiresAt) < ResetTTL-time.Minute {
		t.Errorf("expiresAt %v not ~%v out", req.ExpiresAt, ResetTTL)
	}

	// A second request while one is pending is refused
	if _, err := CreateResetRequest(db, "u1"); !errors.Is(err, ErrPendingExists) {
		t.Fatalf("duplicate: got %v, want ErrPendingExists", err)
	}
}

func TestCreateResetRequestAfterResolution(t *testing.T) {
	db := testDB(t)
	seedUser(t, db, "u1", model.RoleStudent, model.StatusApproved)

	req, err := CreateResetRequest(db, "u1")
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := ResolveResetRequest(db, req.ID, model.StatusRejected, ""); err != nil {
		t.Fatalf("reject: %v", err)
	}

	// Once resolved, a new request may be filed
	if _, err := CreateResetRequest(db, "u1"); err != nil {
		t.Fatalf("second request: %v", err)
	}
}

func TestResolveApprovalAppliesPassword(t *testing.T) {
	db := testDB(t)
	seedUser(t, db, "u1", model.RoleStudent, model.StatusApproved)

	req, err := CreateResetRequest(db, "u1")
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	// Approval without a replacement password is refused
	if _, err := ResolveResetRequest(db, req.ID, model.StatusApproved, ""); !errors.Is(err, ErrPasswordRequired) {
		t.Fatalf("no password: got %v, want ErrPasswordRequired", err)
	}

	resolved, err := ResolveResetRequest(db, req.ID, model.StatusApproved, "new-hash")
	if err != nil {
		t.Fatalf("approve: %v", err)
	}
	if resolved.Status != model.StatusApproved {
		t.Errorf("status = %q, want approved", resolved.Status)
	}

	var user model.User
	if err := db.First(&user, "id = ?", "u1").Error; err != nil {
		t.Fatalf("reload user: %v", err)
	}
	if user.PasswordHash != "new-hash" {
		t.Errorf("password hash = %q, want new-hash", user.PasswordHash)
	}
}

func TestResolveForDeletedUser(t *testing.T) {
	db := testDB(t)
	seedUser(t, db, "u1", model.RoleStudent, model.StatusApproved)

	req, err := CreateResetRequest(db, "u1")
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	if err := db.Delete(&model.User{}, "id = ?", "u1").Error; err != nil {
		t.Fatalf("delete user: %v", err)
	}

	if _, err := ResolveResetRequest(db, req.ID, model.StatusApproved, "new-hash"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("got %v, want ErrNotFound", err)
	}

	// The failed transaction must not have closed the ticket
	var stored model.ResetRequest
	if err := db.First(&stored, "id = ?", req.ID).Error; err != nil {
		t.Fatalf("reload request: %v", err)
	}
	if stored.Status != model.StatusPending {
		t.Errorf("status = %q, want pending", stored.Status)
	}
}

func TestResolveGuards(t *testing.T) {
	db := testDB(t)
	seedUser(t, db, "u1", model.RoleStudent, model.StatusApproved)

	req, err := CreateResetRequest(db, "u1")
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	if _, err := ResolveResetRequest(db, "ghost", model.StatusApproved, "h"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("missing request: got %v, want ErrNotFound", err)
	}
	if _, err := ResolveResetRequest(db, req.ID, "closed", "h"); !errors.Is(err, ErrInvalidStatus) {
		t.Fatalf("bad target: got %v, want ErrInvalidStatus", err)
	}

	if _, err := ResolveResetRequest(db, req.ID, model.StatusRejected, ""); err != nil {
		t.Fatalf("reject: %v", err)
	}

	// Resolving again with the same target is a no-op, a different one errors
	if _, err := ResolveResetRequest(db, req.ID, model.StatusRejected, ""); err != nil {
		t.Fatalf("repeat reject: %v", err)
	}
	if _, err := ResolveResetRequest(db, req.ID, model.StatusApproved, "h"); !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("flip resolved: got %v, want ErrInvalidTransition", err)
	}
}

func TestPurgeExpired(t *testing.T) {
	db := testDB(t)
	seedUser(t, db, "u1", model.RoleStudent, model.StatusApproved)
	seedUser(t, db, "u2", model.RoleStudent, model.StatusApproved)

	stale := model.ResetRequest{
		ID:        "stale",
		UserID:    "u1",
		Status:    model.StatusPending,
		ExpiresAt: time.Now().Add(-time.Hour),
	}
	fresh := model.ResetRequest{
		ID:        "fresh",
		UserID:    "u2",
		Status:    model.StatusPending,
		ExpiresAt: time.Now().Add(time.Hour),
	}
	for _, r := range []model.ResetRequest{stale, fresh} {
		if err := db.Create(&r).Error; err != nil {
			t.Fatalf("seed: %v", err)
		}
	}

	n, err := PurgeExpired(db)
	if err != nil {
		t.Fatalf("purge: %v", err)
	}
	if n != 1 {
		t.Errorf("purged %d, want 1", n)
	}

	var left []model.ResetRequest
	if err := db.Find(&left).Error; err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(left) != 1 || left[0].ID != "fresh" {
		t.Errorf("remaining = %v, want only fresh", left)
	}

	// An expired pending request no longer blocks a new one
	if _, err := CreateResetRequest(db, "u1"); err != nil {
		t.Fatalf("new request after purge: %v", err)
	}
}
