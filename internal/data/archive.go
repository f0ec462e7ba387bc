package data

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"github.com/beastputty/beastblogger/internal/biz/domain"
	"github.com/beastputty/beastblogger/internal/biz/repo"
)

// archiveRepo implements the durable revision audit store on SQLite.
type archiveRepo struct {
	db *sql.DB
}

// NewArchiveRepo opens (and if needed creates) the revision archive.
func NewArchiveRepo(dbPath string) (repo.ArchiveRepo, error) {
	// Ensure directory exists
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	_, err = db.Exec(`
		CREATE TABLE IF NOT EXISTS revisions (
			id TEXT PRIMARY KEY,
			content_id TEXT NOT NULL,
			status TEXT NOT NULL,
			command TEXT NOT NULL,
			snapshot TEXT NOT NULL,
			metadata TEXT NOT NULL,
			created_at INTEGER NOT NULL
		)
	`)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create table: %w", err)
	}

	_, err = db.Exec(`
		CREATE INDEX IF NOT EXISTS idx_revisions_content_id ON revisions(content_id, created_at)
	`)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create index: %w", err)
	}

	return &archiveRepo{db: db}, nil
}

// Record inserts a newly opened revision entry.
func (r *archiveRepo) Record(ctx context.Context, entry *domain.RevisionEntry) error {
	command, err := json.Marshal(entry.Command)
	if err != nil {
		return fmt.Errorf("failed to marshal command: %w", err)
	}
	snapshot, err := json.Marshal(entry.Snapshot)
	if err != nil {
		return fmt.Errorf("failed to marshal snapshot: %w", err)
	}
	metadata, err := json.Marshal(entry.Metadata)
	if err != nil {
		return fmt.Errorf("failed to marshal metadata: %w", err)
	}

	_, err = r.db.ExecContext(ctx, `
		INSERT OR REPLACE INTO revisions (id, content_id, status, command, snapshot, metadata, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`,
		entry.ID,
		entry.ContentID,
		string(entry.Status),
		string(command),
		string(snapshot),
		string(metadata),
		entry.CreatedAt.UnixMilli(),
	)
	if err != nil {
		return fmt.Errorf("failed to record revision: %w", err)
	}
	return nil
}

// Update rewrites the status and metadata of an existing entry.
func (r *archiveRepo) Update(ctx context.Context, entry *domain.RevisionEntry) error {
	metadata, err := json.Marshal(entry.Metadata)
	if err != nil {
		return fmt.Errorf("failed to marshal metadata: %w", err)
	}

	_, err = r.db.ExecContext(ctx, `
		UPDATE revisions SET status = ?, metadata = ? WHERE id = ?
	`, string(entry.Status), string(metadata), entry.ID)
	if err != nil {
		return fmt.Errorf("failed to update revision: %w", err)
	}
	return nil
}

// ListByContent returns archived entries for a content id in creation
// order.
func (r *archiveRepo) ListByContent(ctx context.Context, contentID string) ([]*domain.RevisionEntry, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, content_id, status, command, snapshot, metadata, created_at
		FROM revisions
		WHERE content_id = ?
		ORDER BY created_at, rowid
	`, contentID)
	if err != nil {
		return nil, fmt.Errorf("failed to query revisions: %w", err)
	}
	defer rows.Close()

	var entries []*domain.RevisionEntry
	for rows.Next() {
		var entry domain.RevisionEntry
		var status, command, snapshot, metadata string
		var createdAt int64

		if err := rows.Scan(&entry.ID, &entry.ContentID, &status, &command, &snapshot, &metadata, &createdAt); err != nil {
			return nil, fmt.Errorf("failed to scan revision: %w", err)
		}

		entry.Status = domain.RevisionStatus(status)
		entry.CreatedAt = time.UnixMilli(createdAt)
		if err := json.Unmarshal([]byte(command), &entry.Command); err != nil {
			return nil, fmt.Errorf("failed to unmarshal command: %w", err)
		}
		if err := json.Unmarshal([]byte(snapshot), &entry.Snapshot); err != nil {
			return nil, fmt.Errorf("failed to unmarshal snapshot: %w", err)
		}
		if err := json.Unmarshal([]byte(metadata), &entry.Metadata); err != nil {
			return nil, fmt.Errorf("failed to unmarshal metadata: %w", err)
		}
		entries = append(entries, &entry)
	}
	return entries, rows.Err()
}

func (r *archiveRepo) Close() error {
	return r.db.Close()
}
