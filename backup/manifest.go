// Package backup round-trips the research collection plus its PDF
// attachments through a zip archive: a full export with a metadata.json
// manifest, and a best-effort restore that reconciles the manifest against
// the live store.
package backup

import (
	"fmt"
	"path"
	"regexp"
	"time"

	"github.com/janil231/research-repository2/model"
)

// ManifestName is the well-known manifest member inside every backup archive
const ManifestName = "metadata.json"

// Manifest describes every document in a backup, including the ones whose
// attachment was missing at export time. Field names are part of the archive
// format and must stay stable across versions.
type Manifest struct {
	ExportDate   time.Time `json:"exportDate"`
	TotalRecords int       `json:"totalRecords"`
	Papers       []Entry   `json:"researchPapers"`
}

type Entry struct {
	ID         string    `json:"_id"`
	Title      string    `json:"title"`
	Authors    []string  `json:"authors"`
	Adviser    string    `json:"adviser"`
	Department string    `json:"department"`
	Year       int       `json:"year"`
	Semester   string    `json:"semester"`
	Keywords   []string  `json:"keywords"`
	Abstract   string    `json:"abstract"`
	Status     string    `json:"status"`
	Views      int64     `json:"views"`
	Downloads  int64     `json:"downloads"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
	UploadedBy string    `json:"uploadedBy"`
	// Storage key the attachment had when the backup was taken. Restore
	// never reuses it, a fresh key is generated on extraction.
	PDFPath string `json:"pdfFilePath"`
}

func entryFromModel(doc *model.Research) Entry {
	return Entry{
		ID:         doc.ID,
		Title:      doc.Title,
		Authors:    doc.Authors,
		Adviser:    doc.Adviser,
		Department: doc.Department,
		Year:       doc.Year,
		Semester:   doc.Semester,
		Keywords:   doc.Keywords,
		Abstract:   doc.Abstract,
		Status:     doc.Status,
		Views:      doc.Views,
		Downloads:  doc.Downloads,
		CreatedAt:  doc.CreatedAt,
		UpdatedAt:  doc.UpdatedAt,
		UploadedBy: doc.UploadedBy,
		PDFPath:    doc.PDFPath,
	}
}

var unsafeChars = regexp.MustCompile(`[^a-zA-Z0-9]`)

const maxTitleLen = 50

// ArchiveName derives the deterministic member name an attachment is stored
// under: sanitized title, year and id, keeping the original extension. Restore
// recomputes the same name to re-associate binaries with manifest entries.
func ArchiveName(title string, year int, id, pdfPath string) string {
	safe := unsafeChars.ReplaceAllString(title, "_")
	if len(safe) > maxTitleLen {
		safe = safe[:maxTitleLen]
	}

	ext := path.Ext(pdfPath)
	if ext == "" {
		ext = ".pdf"
	}

	return fmt.Sprintf("%s_%d_%s%s", safe, year, id, ext)
}
