package storage

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLocalRoundTrip(t *testing.T) {
	l, err := NewLocal(t.TempDir())
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	ctx := context.Background()

	ok, err := l.Exists(ctx, "missing.pdf")
	if err != nil {
		t.Fatalf("exists: %v", err)
	}
	if ok {
		t.Error("missing key reported as existing")
	}

	if err := l.Write(ctx, "paper.pdf", strings.NewReader("%PDF-1.4 data")); err != nil {
		t.Fatalf("write: %v", err)
	}

	ok, err = l.Exists(ctx, "paper.pdf")
	if err != nil {
		t.Fatalf("exists: %v", err)
	}
	if !ok {
		t.Fatal("written key not found")
	}

	f, err := l.Open(ctx, "paper.pdf")
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	b, err := io.ReadAll(f)
	f.Close()
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if string(b) != "%PDF-1.4 data" {
		t.Errorf("contents = %q", b)
	}

	if err := l.Delete(ctx, "paper.pdf"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	// Deleting again is fine
	if err := l.Delete(ctx, "paper.pdf"); err != nil {
		t.Fatalf("double delete: %v", err)
	}
}

func TestLocalFlattensTraversalKeys(t *testing.T) {
	root := t.TempDir()
	l, err := NewLocal(root)
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	ctx := context.Background()

	if err := l.Write(ctx, "../../escape.pdf", strings.NewReader("data")); err != nil {
		t.Fatalf("write: %v", err)
	}

	// The file must land inside the root, not above it
	if _, err := os.Stat(filepath.Join(root, "escape.pdf")); err != nil {
		t.Errorf("flattened file not in root: %v", err)
	}
	if _, err := os.Stat(filepath.Join(root, "..", "..", "escape.pdf")); err == nil {
		t.Error("file escaped the storage root")
	}
}
