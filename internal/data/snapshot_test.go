package data

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/beastputty/beastblogger/internal/biz/domain"
)

func TestSnapshotRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "storage.json")
	repo := NewSnapshotRepo(path)
	ctx := context.Background()

	snap := domain.NewStorageSnapshot()
	snap.Keywords = []string{"putty", "beast"}
	snap.Drafts["content_1"] = &domain.ContentItem{ID: "content_1", Title: "Draft"}
	snap.UploadHistory = []domain.UploadRecord{{ContentID: "content_1", ExternalID: "9"}}

	if err := repo.Save(ctx, snap); err != nil {
		t.Fatalf("Save error: %v", err)
	}

	loaded, err := repo.Load(ctx)
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	if len(loaded.Keywords) != 2 || loaded.Keywords[0] != "putty" {
		t.Errorf("Keywords = %v", loaded.Keywords)
	}
	if loaded.Drafts["content_1"] == nil || loaded.Drafts["content_1"].Title != "Draft" {
		t.Errorf("Drafts = %+v", loaded.Drafts)
	}
	if len(loaded.UploadHistory) != 1 {
		t.Errorf("UploadHistory = %+v", loaded.UploadHistory)
	}
}

func TestSnapshotLoadMissingFile(t *testing.T) {
	repo := NewSnapshotRepo(filepath.Join(t.TempDir(), "missing.json"))

	_, err := repo.Load(context.Background())
	var pErr *domain.PersistenceError
	if !errors.As(err, &pErr) || pErr.Op != "load" {
		t.Errorf("err = %v, want PersistenceError{Op: load}", err)
	}
}

func TestSnapshotLoadCorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "storage.json")
	if err := os.WriteFile(path, []byte("{not json"), 0o644); err != nil {
		t.Fatal(err)
	}

	repo := NewSnapshotRepo(path)
	if _, err := repo.Load(context.Background()); err == nil {
		t.Error("expected error for corrupt snapshot")
	}
}

func TestSnapshotSaveCreatesDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "dir", "storage.json")
	repo := NewSnapshotRepo(path)

	if err := repo.Save(context.Background(), domain.NewStorageSnapshot()); err != nil {
		t.Fatalf("Save error: %v", err)
	}
	if _, err := os.Stat(path); err != nil {
		t.Errorf("snapshot file missing: %v", err)
	}
}

func TestSnapshotSaveLeavesNoTempFiles(t *testing.T) {
	dir := t.TempDir()
	repo := NewSnapshotRepo(filepath.Join(dir, "storage.json"))

	if err := repo.Save(context.Background(), domain.NewStorageSnapshot()); err != nil {
		t.Fatalf("Save error: %v", err)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 || entries[0].Name() != "storage.json" {
		names := make([]string, 0, len(entries))
		for _, e := range entries {
			names = append(names, e.Name())
		}
		t.Errorf("directory contents = %v", names)
	}
}
