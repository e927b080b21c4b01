package backup

import (
	"archive/zip"
	"compress/flate"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/janil231/research-repository2/model"
	"github.com/janil231/research-repository2/storage"
)

// Export streams a backup archive of the whole collection to w, every status
// included. Attachments that can't be read are left out of the payload but
// their metadata stays in the manifest. The archive is written incrementally,
// nothing is buffered beyond one attachment at a time.
func Export(ctx context.Context, db *gorm.DB, store storage.Storage, w io.Writer) (int, error) {
	var docs []model.Research
	if err := db.Order("created_at desc").Find(&docs).Error; err != nil {
		return 0, fmt.Errorf("failed to load research records, %w", err)
	}

	zw := zip.NewWriter(w)
	// Cold storage snapshots, favor ratio over speed
	zw.RegisterCompressor(zip.Deflate, func(out io.Writer) (io.WriteCloser, error) {
		return flate.NewWriter(out, flate.BestCompression)
	})

	man := Manifest{
		ExportDate:   time.Now().UTC(),
		TotalRecords: len(docs),
		Papers:       make([]Entry, 0, len(docs)),
	}

	for i := range docs {
		doc := &docs[i]
		man.Papers = append(man.Papers, entryFromModel(doc))

		ok, err := store.Exists(ctx, doc.PDFPath)
		if err != nil {
			zap.L().Warn("Failed to stat attachment, leaving it out of the backup",
				zap.String("id", doc.ID), zap.Error(err))
			continue
		}
		if !ok {
			continue
		}

		if err := addAttachment(zw, store, ctx, doc); err != nil {
			// A write error here means the archive stream itself is
			// broken, there is no way to continue
			return 0, err
		}
	}

	mw, err := zw.Create(ManifestName)
	if err != nil {
		return 0, fmt.Errorf("failed to create manifest entry, %w", err)
	}

	enc := json.NewEncoder(mw)
	enc.SetIndent("", "  ")
	if err := enc.Encode(man); err != nil {
		return 0, fmt.Errorf("failed to write manifest, %w", err)
	}

	return len(docs), zw.Close()
}

func addAttachment(zw *zip.Writer, store storage.Storage, ctx context.Context, doc *model.Research) error {
	f, err := store.Open(ctx, doc.PDFPath)
	if err != nil {
		zap.L().Warn("Failed to open attachment, leaving it out of the backup",
			zap.String("id", doc.ID), zap.Error(err))
		return nil
	}
	defer f.Close()

	entry, err := zw.Create(ArchiveName(doc.Title, doc.Year, doc.ID, doc.PDFPath))
	if err != nil {
		return fmt.Errorf("failed to create archive entry, %w", err)
	}

	if _, err := io.Copy(entry, f); err != nil {
		return fmt.Errorf("failed to write attachment to archive, %w", err)
	}

	return nil
}

// FileName returns the date-stamped download name for a backup taken now
func FileName(now time.Time) string {
	return fmt.Sprintf("research_backup_%s.zip", now.Format("2006-01-02"))
}
