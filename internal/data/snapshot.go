package data

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/beastputty/beastblogger/internal/biz/domain"
	"github.com/beastputty/beastblogger/internal/biz/repo"
)

// snapshotRepo persists the storage snapshot as a single JSON file.
type snapshotRepo struct {
	path string
}

// NewSnapshotRepo creates a file-backed snapshot repository.
func NewSnapshotRepo(path string) repo.SnapshotRepo {
	return &snapshotRepo{path: path}
}

func (s *snapshotRepo) Load(_ context.Context) (*domain.StorageSnapshot, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return nil, &domain.PersistenceError{Op: "load", Err: err}
	}

	var snap domain.StorageSnapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, &domain.PersistenceError{Op: "load", Err: err}
	}
	return &snap, nil
}

// Save writes to a temp file in the same directory and renames it over
// the target, so a failed save leaves the prior snapshot intact.
func (s *snapshotRepo) Save(_ context.Context, snap *domain.StorageSnapshot) error {
	data, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return &domain.PersistenceError{Op: "save", Err: err}
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return &domain.PersistenceError{Op: "save", Err: err}
	}

	tmp, err := os.CreateTemp(dir, ".storage-*.json")
	if err != nil {
		return &domain.PersistenceError{Op: "save", Err: err}
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return &domain.PersistenceError{Op: "save", Err: err}
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return &domain.PersistenceError{Op: "save", Err: err}
	}
	if err := os.Chmod(tmpName, 0o644); err != nil {
		os.Remove(tmpName)
		return &domain.PersistenceError{Op: "save", Err: err}
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		os.Remove(tmpName)
		return &domain.PersistenceError{Op: "save", Err: fmt.Errorf("failed to replace snapshot: %w", err)}
	}
	return nil
}
