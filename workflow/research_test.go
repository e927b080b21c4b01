package workflow

import (
	"errors"
	"testing"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/janil231/research-repository2/model"
)

func testDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}

	if err := db.AutoMigrate(&model.Research{}, &model.User{}, &model.ResetRequest{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	return db
}

func seedResearch(t *testing.T, db *gorm.DB, id, status string) {
	t.Helper()

	doc := model.Research{ID: id, Title: "Paper " + id, Status: status}
	if err := db.Create(&doc).Error; err != nil {
		t.Fatalf("seed: %v", err)
	}
}

func TestInitialStatus(t *testing.T) {
	tests := []struct {
		role string
		want string
	}{
		{model.RoleStudent, model.StatusPending},
		{model.RoleTeacher, model.StatusApproved},
		{model.RoleAdmin, model.StatusApproved},
		{"", model.StatusPending},
	}

	for _, tt := range tests {
		if got := InitialStatus(tt.role); got != tt.want {
			t.Errorf("InitialStatus(%q) = %q, want %q", tt.role, got, tt.want)
		}
	}
}

func TestResearchTransitions(t *testing.T) {
	tests := []struct {
		name    string
		from    string
		target  string
		wantErr error
	}{
		{"approve pending", model.StatusPending, model.StatusApproved, nil},
		{"reject pending", model.StatusPending, model.StatusRejected, nil},
		{"approve rejected", model.StatusRejected, model.StatusApproved, nil},
		{"archive approved", model.StatusApproved, model.StatusArchived, nil},
		{"archive pending", model.StatusPending, model.StatusArchived, nil},
		{"restore archived", model.StatusArchived, model.StatusApproved, nil},
		{"reject approved", model.StatusApproved, model.StatusRejected, ErrInvalidTransition},
		{"reject archived", model.StatusArchived, model.StatusRejected, ErrInvalidTransition},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db := testDB(t)
			seedResearch(t, db, "doc1", tt.from)

			doc, err := SetResearchStatus(db, "doc1", tt.target)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("got err %v, want %v", err, tt.wantErr)
			}
			if tt.wantErr != nil {
				return
			}

			if doc.Status != tt.target {
				t.Errorf("returned status = %q, want %q", doc.Status, tt.target)
			}

			var stored model.Research
			if err := db.First(&stored, "id = ?", "doc1").Error; err != nil {
				t.Fatalf("reload: %v", err)
			}
			if stored.Status != tt.target {
				t.Errorf("stored status = %q, want %q", stored.Status, tt.target)
			}
		})
	}
}

func TestResearchStatusIdempotent(t *testing.T) {
	db := testDB(t)
	seedResearch(t, db, "doc1", model.StatusApproved)

	doc, err := SetResearchStatus(db, "doc1", model.StatusApproved)
	if err != nil {
		t.Fatalf("re-approve: %v", err)
	}
	if doc.Status != model.StatusApproved {
		t.Errorf("status = %q, want approved", doc.Status)
	}
}

func TestResearchStatusNotFound(t *testing.T) {
	db := testDB(t)

	if _, err := SetResearchStatus(db, "ghost", model.StatusApproved); !errors.Is(err, ErrNotFound) {
		t.Fatalf("got %v, want ErrNotFound", err)
	}
}

func TestResearchStatusRejectsUnknownTarget(t *testing.T) {
	db := testDB(t)
	seedResearch(t, db, "doc1", model.StatusPending)

	if _, err := SetResearchStatus(db, "doc1", "published"); !errors.Is(err, ErrInvalidStatus) {
		t.Fatalf("got %v, want ErrInvalidStatus", err)
	}

	// pending is a starting state, never a target
	if _, err := SetResearchStatus(db, "doc1", model.StatusPending); !errors.Is(err, ErrInvalidStatus) {
		t.Fatalf("got %v, want ErrInvalidStatus", err)
	}
}

func TestArchiveAndRestoreRoundTrip(t *testing.T) {
	db := testDB(t)
	seedResearch(t, db, "doc1", model.StatusApproved)

	if _, err := SetResearchStatus(db, "doc1", model.StatusArchived); err != nil {
		t.Fatalf("archive: %v", err)
	}
	doc, err := SetResearchStatus(db, "doc1", model.StatusApproved)
	if err != nil {
		t.Fatalf("restore: %v", err)
	}
	if doc.Status != model.StatusApproved {
		t.Errorf("status = %q, want approved", doc.Status)
	}
}

func TestCountersOnlyForVisibleDocuments(t *testing.T) {
	db := testDB(t)
	seedResearch(t, db, "visible", model.StatusApproved)
	seedResearch(t, db, "hidden", model.StatusPending)

	doc, err := IncrementViews(db, "visible")
	if err != nil {
		t.Fatalf("views: %v", err)
	}
	if doc.Views != 1 {
		t.Errorf("views = %d, want 1", doc.Views)
	}

	doc, err = IncrementDownloads(db, "visible")
	if err != nil {
		t.Fatalf("downloads: %v", err)
	}
	if doc.Downloads != 1 {
		t.Errorf("downloads = %d, want 1", doc.Downloads)
	}

	if _, err := IncrementViews(db, "hidden"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("hidden doc views: got %v, want ErrNotFound", err)
	}
	if _, err := IncrementViews(db, "ghost"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("missing doc views: got %v, want ErrNotFound", err)
	}
}
