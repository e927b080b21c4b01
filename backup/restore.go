package backup

import (
	"archive/zip"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"path"

	gonanoid "github.com/matoous/go-nanoid/v2"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/janil231/research-repository2/model"
	"github.com/janil231/research-repository2/storage"
)

var (
	// ErrNoManifest means the archive has no metadata.json, the whole
	// restore is rejected before anything is written
	ErrNoManifest = errors.New("metadata.json not found in backup")
	// ErrBadManifest means metadata.json exists but doesn't parse
	ErrBadManifest = errors.New("invalid metadata.json")

	errMemberMissing = errors.New("no archive member for entry")
)

const idCharset = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ"

// Summary reports what a restore run did. Created+Updated+SkippedNoFile
// always equals TotalMetadata.
type Summary struct {
	Created       int `json:"created"`
	Updated       int `json:"updated"`
	SkippedNoFile int `json:"skippedNoFile"`
	TotalMetadata int `json:"totalMetadata"`
}

// Restore reconciles a backup archive into the live store. Entries are
// processed sequentially; a failing entry is counted as skipped and never
// aborts the rest. Only a missing or malformed manifest fails the whole
// operation, and that happens before any state is touched.
func Restore(ctx context.Context, db *gorm.DB, store storage.Storage, zr *zip.Reader, actor string) (*Summary, error) {
	members := make(map[string]*zip.File, len(zr.File))
	var manifestFile *zip.File

	for _, f := range zr.File {
		if f.FileInfo().IsDir() {
			continue
		}
		if f.Name == ManifestName {
			manifestFile = f
			continue
		}
		members[f.Name] = f
	}

	if manifestFile == nil {
		return nil, ErrNoManifest
	}

	man, err := readManifest(manifestFile)
	if err != nil {
		return nil, err
	}

	sum := &Summary{TotalMetadata: len(man.Papers)}

	for i := range man.Papers {
		created, err := restoreEntry(ctx, db, store, members, &man.Papers[i], actor)
		if err != nil {
			if !errors.Is(err, errMemberMissing) {
				zap.L().Warn("Failed to restore entry, skipping",
					zap.String("title", man.Papers[i].Title), zap.Error(err))
			}
			sum.SkippedNoFile++
			continue
		}

		if created {
			sum.Created++
		} else {
			sum.Updated++
		}
	}

	return sum, nil
}

func readManifest(f *zip.File) (*Manifest, error) {
	rc, err := f.Open()
	if err != nil {
		return nil, ErrBadManifest
	}
	defer rc.Close()

	var man Manifest
	if err := json.NewDecoder(rc).Decode(&man); err != nil {
		return nil, ErrBadManifest
	}
	return &man, nil
}

func restoreEntry(ctx context.Context, db *gorm.DB, store storage.Storage, members map[string]*zip.File, e *Entry, actor string) (created bool, err error) {
	title := e.Title
	if title == "" {
		title = "untitled"
	}
	idPart := e.ID
	if idPart == "" {
		idPart = "noid"
	}

	member, ok := members[ArchiveName(title, e.Year, idPart, e.PDFPath)]
	if !ok {
		return false, errMemberMissing
	}

	// Extract under a fresh key. The original name is never reused so a
	// restore can't clobber files from concurrent uploads.
	ext := path.Ext(e.PDFPath)
	if ext == "" {
		ext = ".pdf"
	}
	suffix, err := gonanoid.Generate(idCharset, 12)
	if err != nil {
		return false, err
	}
	key := "restored-" + suffix + ext

	rc, err := member.Open()
	if err != nil {
		return false, fmt.Errorf("failed to open archive member, %w", err)
	}
	err = store.Write(ctx, key, rc)
	rc.Close()
	if err != nil {
		return false, fmt.Errorf("failed to extract attachment, %w", err)
	}

	status := e.Status
	if status == "" {
		status = model.StatusApproved
	}
	uploadedBy := e.UploadedBy
	if uploadedBy == "" {
		uploadedBy = actor
	}

	fields := map[string]any{
		"title":       e.Title,
		"abstract":    e.Abstract,
		"authors":     model.StringSlice(e.Authors),
		"adviser":     e.Adviser,
		"department":  e.Department,
		"year":        e.Year,
		"semester":    e.Semester,
		"keywords":    model.StringSlice(e.Keywords),
		"pdf_path":    key,
		"views":       e.Views,
		"downloads":   e.Downloads,
		"status":      status,
		"uploaded_by": uploadedBy,
	}

	// Reconciliation precedence: id match first, then title+year, then a
	// fresh insert carrying the manifest id when it has one
	if e.ID != "" {
		updated, err := updateWhere(db, fields, "id = ?", e.ID)
		if err != nil {
			return false, err
		}
		if updated {
			return false, nil
		}
	}

	// Title+year is a heuristic dedup key; it can merge two genuinely
	// distinct documents that share both. Only the first match is touched.
	var existing model.Research
	err = db.Select("id").Where("title = ? AND year = ?", e.Title, e.Year).First(&existing).Error
	if err == nil {
		if _, err := updateWhere(db, fields, "id = ?", existing.ID); err != nil {
			return false, err
		}
		return false, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return false, err
	}

	id := e.ID
	if id == "" {
		if id, err = gonanoid.Generate(idCharset, 16); err != nil {
			return false, err
		}
	}

	doc := &model.Research{
		ID:         id,
		Title:      e.Title,
		Abstract:   e.Abstract,
		Authors:    e.Authors,
		Adviser:    e.Adviser,
		Department: e.Department,
		Year:       e.Year,
		Semester:   e.Semester,
		Keywords:   e.Keywords,
		PDFPath:    key,
		Views:      e.Views,
		Downloads:  e.Downloads,
		Status:     status,
		UploadedBy: uploadedBy,
	}
	if err := db.Create(doc).Error; err != nil {
		return false, err
	}

	return true, nil
}

func updateWhere(db *gorm.DB, fields map[string]any, cond string, args ...any) (bool, error) {
	res := db.Model(&model.Research{}).Where(cond, args...).Updates(fields)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}
