package data

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/beastputty/beastblogger/internal/biz/domain"
)

func newTestArchive(t *testing.T) *archiveRepo {
	t.Helper()
	repo, err := NewArchiveRepo(filepath.Join(t.TempDir(), "revisions.db"))
	if err != nil {
		t.Fatalf("NewArchiveRepo error: %v", err)
	}
	t.Cleanup(func() { repo.Close() })
	return repo.(*archiveRepo)
}

func testEntry(id, contentID string, createdAt time.Time) *domain.RevisionEntry {
	return &domain.RevisionEntry{
		ID:        id,
		ContentID: contentID,
		Snapshot:  &domain.ContentItem{ID: contentID, Title: "Draft"},
		Command: domain.Command{
			Type:          domain.CommandUpdateContent,
			ContentID:     contentID,
			SenderAddress: "reviewer@beastputty.com",
		},
		CreatedAt: createdAt,
		Status:    domain.RevisionPending,
	}
}

func TestArchiveRecordAndList(t *testing.T) {
	archive := newTestArchive(t)
	ctx := context.Background()
	base := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)

	if err := archive.Record(ctx, testEntry("rev_1", "content_1", base)); err != nil {
		t.Fatalf("Record error: %v", err)
	}
	if err := archive.Record(ctx, testEntry("rev_2", "content_1", base.Add(time.Second))); err != nil {
		t.Fatalf("Record error: %v", err)
	}
	if err := archive.Record(ctx, testEntry("rev_other", "content_2", base)); err != nil {
		t.Fatalf("Record error: %v", err)
	}

	entries, err := archive.ListByContent(ctx, "content_1")
	if err != nil {
		t.Fatalf("ListByContent error: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("entries = %d, want 2", len(entries))
	}
	if entries[0].ID != "rev_1" || entries[1].ID != "rev_2" {
		t.Errorf("order = %s, %s", entries[0].ID, entries[1].ID)
	}
	if entries[0].Snapshot.Title != "Draft" {
		t.Errorf("Snapshot = %+v", entries[0].Snapshot)
	}
	if entries[0].Command.Type != domain.CommandUpdateContent {
		t.Errorf("Command = %+v", entries[0].Command)
	}
	if !entries[0].CreatedAt.Equal(base) {
		t.Errorf("CreatedAt = %v, want %v", entries[0].CreatedAt, base)
	}
}

func TestArchiveUpdate(t *testing.T) {
	archive := newTestArchive(t)
	ctx := context.Background()

	entry := testEntry("rev_1", "content_1", time.Now())
	if err := archive.Record(ctx, entry); err != nil {
		t.Fatal(err)
	}

	entry.Status = domain.RevisionFailed
	entry.Metadata.ProcessingTimeMs = 120
	entry.Metadata.ErrorDetail = "publish rejected"
	if err := archive.Update(ctx, entry); err != nil {
		t.Fatalf("Update error: %v", err)
	}

	entries, err := archive.ListByContent(ctx, "content_1")
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 {
		t.Fatalf("entries = %d", len(entries))
	}
	got := entries[0]
	if got.Status != domain.RevisionFailed {
		t.Errorf("Status = %s", got.Status)
	}
	if got.Metadata.ProcessingTimeMs != 120 || got.Metadata.ErrorDetail != "publish rejected" {
		t.Errorf("Metadata = %+v", got.Metadata)
	}
}

func TestArchiveListEmpty(t *testing.T) {
	archive := newTestArchive(t)
	entries, err := archive.ListByContent(context.Background(), "content_none")
	if err != nil {
		t.Fatalf("ListByContent error: %v", err)
	}
	if len(entries) != 0 {
		t.Errorf("entries = %d, want 0", len(entries))
	}
}
