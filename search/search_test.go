package search

import (
	"fmt"
	"testing"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/janil231/research-repository2/model"
	"github.com/janil231/research-repository2/workflow"
)

func testDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}

	if err := db.AutoMigrate(&model.Research{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	return db
}

func seed(t *testing.T, db *gorm.DB, docs ...model.Research) {
	t.Helper()

	for i := range docs {
		if docs[i].ID == "" {
			docs[i].ID = fmt.Sprintf("doc%03d", i)
		}
		if docs[i].Status == "" {
			docs[i].Status = model.StatusApproved
		}
		if err := db.Create(&docs[i]).Error; err != nil {
			t.Fatalf("seed: %v", err)
		}
	}
}

func ids(docs []model.Research) []string {
	out := make([]string, len(docs))
	for i, d := range docs {
		out[i] = d.ID
	}
	return out
}

func TestKeywordMatchesAcrossFields(t *testing.T) {
	db := testDB(t)
	seed(t, db,
		model.Research{ID: "title", Title: "Machine Learning in Agriculture"},
		model.Research{ID: "abstract", Title: "Other", Abstract: "We apply machine learning methods"},
		model.Research{ID: "adviser", Title: "Another", Adviser: "Dr. Machine Learning"},
		model.Research{ID: "none", Title: "Unrelated", Abstract: "Nothing here"},
	)

	docs, _, err := Run(db, &Params{Keyword: "machine learning"})
	if err != nil {
		t.Fatalf("run: %v", err)
	}

	if len(docs) != 3 {
		t.Fatalf("got %d results, want 3: %v", len(docs), ids(docs))
	}
}

func TestKeywordEscapesLikeMetacharacters(t *testing.T) {
	db := testDB(t)
	seed(t, db,
		model.Research{ID: "cpp", Title: "Optimizing C++ Compilers"},
		model.Research{ID: "c", Title: "Optimizing C Compilers"},
		model.Research{ID: "pct", Title: "Results improved by 100% overall"},
		model.Research{ID: "under", Title: "snake_case naming conventions"},
		model.Research{ID: "snake", Title: "snakeXcase is not the same"},
	)

	tests := []struct {
		keyword string
		want    []string
	}{
		{"C++", []string{"cpp"}},
		{"100%", []string{"pct"}},
		{"snake_case", []string{"under"}},
	}

	for _, tt := range tests {
		docs, _, err := Run(db, &Params{Keyword: tt.keyword})
		if err != nil {
			t.Fatalf("run(%q): %v", tt.keyword, err)
		}

		if len(docs) != len(tt.want) {
			t.Errorf("keyword %q: got %v, want %v", tt.keyword, ids(docs), tt.want)
			continue
		}
		for i, d := range docs {
			if d.ID != tt.want[i] {
				t.Errorf("keyword %q: got %v, want %v", tt.keyword, ids(docs), tt.want)
			}
		}
	}
}

func TestNumericKeywordAlsoMatchesYear(t *testing.T) {
	db := testDB(t)
	seed(t, db,
		model.Research{ID: "y2023", Title: "Alpha", Year: 2023},
		model.Research{ID: "y2024", Title: "Beta", Year: 2024},
		model.Research{ID: "mention", Title: "A look back at 2023", Year: 2020},
	)

	docs, _, err := Run(db, &Params{Keyword: "2023"})
	if err != nil {
		t.Fatalf("run: %v", err)
	}

	if len(docs) != 2 {
		t.Fatalf("got %v, want y2023 and mention", ids(docs))
	}
}

func TestMixedTokenIsNotAYear(t *testing.T) {
	db := testDB(t)
	seed(t, db,
		model.Research{ID: "y2023", Title: "Alpha", Year: 2023},
		model.Research{ID: "textual", Title: "Report 2023abc revision", Year: 2020},
	)

	docs, _, err := Run(db, &Params{Keyword: "2023abc"})
	if err != nil {
		t.Fatalf("run: %v", err)
	}

	// Only the text match, no year condition for a partially numeric token
	if len(docs) != 1 || docs[0].ID != "textual" {
		t.Fatalf("got %v, want only textual", ids(docs))
	}
}

func TestDepartmentAcronymTolerance(t *testing.T) {
	db := testDB(t)
	seed(t, db,
		model.Research{ID: "plain", Title: "One", Department: "Nursing"},
		model.Research{ID: "acro", Title: "Two", Department: "Nursing (BSN)"},
		model.Research{ID: "tight", Title: "Three", Department: "Nursing(BSN)"},
		model.Research{ID: "other", Title: "Four", Department: "Criminology"},
	)

	tests := []struct {
		dept string
		want int
	}{
		// Bare department name matches stored values with or without an acronym
		{"Nursing", 3},
		{"nursing", 3},
		// Spelled-out acronym matches only the exact string
		{"Nursing (BSN)", 1},
		{"Criminology", 1},
	}

	for _, tt := range tests {
		docs, _, err := Run(db, &Params{Department: tt.dept})
		if err != nil {
			t.Fatalf("run(%q): %v", tt.dept, err)
		}
		if len(docs) != tt.want {
			t.Errorf("department %q: got %v, want %d results", tt.dept, ids(docs), tt.want)
		}
	}
}

func TestDefaultViewHidesNonApproved(t *testing.T) {
	db := testDB(t)
	seed(t, db,
		model.Research{ID: "ok", Title: "Visible"},
		model.Research{ID: "pending", Title: "Pending", Status: model.StatusPending},
		model.Research{ID: "rejected", Title: "Rejected", Status: model.StatusRejected},
		model.Research{ID: "archived", Title: "Archived", Status: model.StatusArchived},
	)

	docs, _, err := Run(db, &Params{})
	if err != nil {
		t.Fatalf("run: %v", err)
	}

	if len(docs) != 1 || docs[0].ID != "ok" {
		t.Fatalf("got %v, want only the approved paper", ids(docs))
	}

	// An explicit status filter overrides the default
	docs, _, err = Run(db, &Params{Status: model.StatusPending})
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if len(docs) != 1 || docs[0].ID != "pending" {
		t.Fatalf("got %v, want only the pending paper", ids(docs))
	}
}

func TestIndependentFiltersAreAnded(t *testing.T) {
	db := testDB(t)
	seed(t, db,
		model.Research{ID: "hit", Title: "Soil Sensors", Authors: model.StringSlice{"Reyes, Ana"}, Year: 2024, Semester: "1st Semester"},
		model.Research{ID: "wrongYear", Title: "Soil Sensors II", Authors: model.StringSlice{"Reyes, Ana"}, Year: 2023, Semester: "1st Semester"},
		model.Research{ID: "wrongAuthor", Title: "Soil Sensors III", Authors: model.StringSlice{"Cruz, Ben"}, Year: 2024, Semester: "1st Semester"},
	)

	docs, _, err := Run(db, &Params{Author: "reyes", Year: "2024", Semester: "1st semester"})
	if err != nil {
		t.Fatalf("run: %v", err)
	}

	if len(docs) != 1 || docs[0].ID != "hit" {
		t.Fatalf("got %v, want only hit", ids(docs))
	}
}

func TestNonNumericYearFilterIsIgnored(t *testing.T) {
	db := testDB(t)
	seed(t, db,
		model.Research{ID: "a", Title: "One", Year: 2023},
		model.Research{ID: "b", Title: "Two", Year: 2024},
	)

	docs, _, err := Run(db, &Params{Year: "latest"})
	if err != nil {
		t.Fatalf("run: %v", err)
	}

	if len(docs) != 2 {
		t.Fatalf("got %v, want both papers", ids(docs))
	}
}

func TestSortOrders(t *testing.T) {
	db := testDB(t)

	docs := []model.Research{
		{ID: "old", Title: "banana"},
		{ID: "mid", Title: "Apple"},
		{ID: "new", Title: "cherry"},
	}
	for i := range docs {
		docs[i].Status = model.StatusApproved
		if err := db.Create(&docs[i]).Error; err != nil {
			t.Fatalf("seed: %v", err)
		}
		// Spread created_at so the insertion order is the time order
		backdated := time.Date(2024, 1, i+1, 0, 0, 0, 0, time.UTC)
		if err := db.Model(&docs[i]).UpdateColumn("created_at", backdated).Error; err != nil {
			t.Fatalf("backdate: %v", err)
		}
	}

	tests := []struct {
		sortBy string
		want   []string
	}{
		{"oldest", []string{"old", "mid", "new"}},
		{"alpha", []string{"mid", "old", "new"}},
		{"", []string{"new", "mid", "old"}},
		{"bogus", []string{"new", "mid", "old"}},
	}

	for _, tt := range tests {
		got, _, err := Run(db, &Params{SortBy: tt.sortBy})
		if err != nil {
			t.Fatalf("run(%q): %v", tt.sortBy, err)
		}

		if len(got) != len(tt.want) {
			t.Fatalf("sortBy %q: got %v", tt.sortBy, ids(got))
		}
		for i := range tt.want {
			if got[i].ID != tt.want[i] {
				t.Errorf("sortBy %q: got %v, want %v", tt.sortBy, ids(got), tt.want)
				break
			}
		}
	}
}

func TestPaginationClamps(t *testing.T) {
	tests := []struct {
		page, limit string
		wantPage    int
		wantLimit   int
	}{
		{"", "", 1, 20},
		{"0", "0", 1, 20},
		{"-3", "-5", 1, 1},
		{"abc", "xyz", 1, 20},
		{"2", "50", 2, 50},
		{"1", "900", 1, 100},
	}

	for _, tt := range tests {
		if got := clampPage(tt.page); got != tt.wantPage {
			t.Errorf("clampPage(%q) = %d, want %d", tt.page, got, tt.wantPage)
		}
		if got := clampLimit(tt.limit); got != tt.wantLimit {
			t.Errorf("clampLimit(%q) = %d, want %d", tt.limit, got, tt.wantLimit)
		}
	}
}

func TestPaginationWalksAllResults(t *testing.T) {
	db := testDB(t)

	var docs []model.Research
	for i := 0; i < 25; i++ {
		docs = append(docs, model.Research{Title: fmt.Sprintf("Paper %02d", i)})
	}
	seed(t, db, docs...)

	seen := map[string]bool{}
	for page := 1; ; page++ {
		batch, pg, err := Run(db, &Params{Page: fmt.Sprint(page), Limit: "10"})
		if err != nil {
			t.Fatalf("run page %d: %v", page, err)
		}

		if pg.Total != 25 {
			t.Fatalf("total = %d, want 25", pg.Total)
		}
		if pg.TotalPages != 3 {
			t.Fatalf("totalPages = %d, want 3", pg.TotalPages)
		}

		for _, d := range batch {
			if seen[d.ID] {
				t.Fatalf("paper %s returned twice", d.ID)
			}
			seen[d.ID] = true
		}

		if int64(page) >= pg.TotalPages {
			break
		}
	}

	if len(seen) != 25 {
		t.Fatalf("walked %d papers, want 25", len(seen))
	}
}

func TestPageBeyondEndIsEmpty(t *testing.T) {
	db := testDB(t)
	seed(t, db, model.Research{Title: "Lone paper"})

	docs, pg, err := Run(db, &Params{Page: "5", Limit: "10"})
	if err != nil {
		t.Fatalf("run: %v", err)
	}

	if len(docs) != 0 {
		t.Fatalf("got %v, want empty page", ids(docs))
	}
	if pg.Total != 1 {
		t.Fatalf("total = %d, want 1", pg.Total)
	}
}

func TestQTagsOrTogetherWithKeyword(t *testing.T) {
	db := testDB(t)
	seed(t, db,
		model.Research{ID: "irrigation", Title: "Smart Irrigation"},
		model.Research{ID: "drones", Title: "Survey Drones"},
		model.Research{ID: "other", Title: "Unrelated"},
	)

	docs, _, err := Run(db, &Params{Keyword: "irrigation", QTags: "drones, , "})
	if err != nil {
		t.Fatalf("run: %v", err)
	}

	if len(docs) != 2 {
		t.Fatalf("got %v, want irrigation and drones", ids(docs))
	}
}

func TestApprovalLifecycleVisibility(t *testing.T) {
	db := testDB(t)
	if err := db.AutoMigrate(&model.User{}, &model.ResetRequest{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	doc := model.Research{ID: "doc1", Title: "Pending Paper", Status: workflow.InitialStatus(model.RoleStudent)}
	if err := db.Create(&doc).Error; err != nil {
		t.Fatalf("seed: %v", err)
	}

	visible := func() int {
		docs, _, err := Run(db, &Params{})
		if err != nil {
			t.Fatalf("run: %v", err)
		}
		return len(docs)
	}

	if visible() != 0 {
		t.Fatal("pending upload is publicly visible")
	}

	if _, err := workflow.SetResearchStatus(db, "doc1", model.StatusApproved); err != nil {
		t.Fatalf("approve: %v", err)
	}
	if visible() != 1 {
		t.Fatal("approved paper not visible")
	}

	if _, err := workflow.SetResearchStatus(db, "doc1", model.StatusArchived); err != nil {
		t.Fatalf("archive: %v", err)
	}
	if visible() != 0 {
		t.Fatal("archived paper still publicly visible")
	}

	// Archived papers are reachable only through an explicit status filter
	docs, _, err := Run(db, &Params{Status: model.StatusArchived})
	if err != nil {
		t.Fatalf("run archived: %v", err)
	}
	if len(docs) != 1 {
		t.Fatal("archived paper not listed under its status")
	}

	if _, err := workflow.SetResearchStatus(db, "doc1", model.StatusApproved); err != nil {
		t.Fatalf("restore: %v", err)
	}
	if visible() != 1 {
		t.Fatal("restored paper not visible")
	}
}
