package usecase

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/beastputty/beastblogger/internal/biz/domain"
	"github.com/beastputty/beastblogger/internal/biz/repo"
)

func newTestLedger(archive *mockArchiveRepo) *Ledger {
	// Pass a true nil interface when no mock is given; a typed-nil
	// *mockArchiveRepo would defeat the ledger's archive != nil guard.
	var archiveRepo repo.ArchiveRepo
	if archive != nil {
		archiveRepo = archive
	}
	l := NewLedger(NewKeyLocks(), archiveRepo)
	seq := 0
	l.newID = func() string {
		seq++
		return fmt.Sprintf("rev_%d", seq)
	}
	return l
}

func testCommand(contentID string) domain.Command {
	return domain.Command{
		Type:          domain.CommandUpdateContent,
		ContentID:     contentID,
		SenderAddress: "reviewer@beastputty.com",
		Feedback:      "make it punchier",
	}
}

func TestLedgerOpenClose(t *testing.T) {
	ctx := context.Background()
	archive := &mockArchiveRepo{}
	l := newTestLedger(archive)

	item := &domain.ContentItem{ID: "content_1", Title: "Draft"}
	entry := l.Open(ctx, "content_1", item, testCommand("content_1"))

	if entry.Status != domain.RevisionPending {
		t.Errorf("Status = %s, want pending", entry.Status)
	}
	if entry.Snapshot.Title != "Draft" {
		t.Errorf("Snapshot.Title = %q", entry.Snapshot.Title)
	}

	if !l.MarkProcessing(ctx, "content_1", entry.ID) {
		t.Fatal("MarkProcessing should succeed from pending")
	}

	closed, ok := l.Close(ctx, "content_1", entry.ID, domain.RevisionCompleted, nil)
	if !ok {
		t.Fatal("Close should succeed from processing")
	}
	if closed.Status != domain.RevisionCompleted {
		t.Errorf("Status = %s", closed.Status)
	}
	if closed.Metadata.ProcessingTimeMs < 0 {
		t.Errorf("ProcessingTimeMs = %d", closed.Metadata.ProcessingTimeMs)
	}

	if len(archive.recorded) != 1 {
		t.Errorf("archive records = %d, want 1", len(archive.recorded))
	}
	if len(archive.updated) != 2 {
		t.Errorf("archive updates = %d, want 2", len(archive.updated))
	}
}

func TestLedgerSnapshotIsolation(t *testing.T) {
	ctx := context.Background()
	l := newTestLedger(nil)

	item := &domain.ContentItem{ID: "content_1", Title: "Before"}
	entry := l.Open(ctx, "content_1", item, testCommand("content_1"))

	// Mutating the source item after Open must not change the snapshot
	item.Title = "After"

	history := l.History("content_1")
	if len(history) != 1 {
		t.Fatalf("history len = %d", len(history))
	}
	if history[0].Snapshot.Title != "Before" {
		t.Errorf("Snapshot.Title = %q, want Before", history[0].Snapshot.Title)
	}
	if entry.Snapshot.Title != "Before" {
		t.Errorf("returned Snapshot.Title = %q", entry.Snapshot.Title)
	}
}

func TestLedgerCloseUnknownPair(t *testing.T) {
	ctx := context.Background()
	l := newTestLedger(nil)

	if _, ok := l.Close(ctx, "content_1", "rev_404", domain.RevisionCompleted, nil); ok {
		t.Error("Close of unknown pair should report false")
	}

	item := &domain.ContentItem{ID: "content_1"}
	entry := l.Open(ctx, "content_1", item, testCommand("content_1"))

	// Wrong content id with a real revision id still fails
	if _, ok := l.Close(ctx, "content_other", entry.ID, domain.RevisionCompleted, nil); ok {
		t.Error("Close with mismatched content id should report false")
	}
}

func TestLedgerTransitionRules(t *testing.T) {
	ctx := context.Background()
	l := newTestLedger(nil)
	item := &domain.ContentItem{ID: "content_1"}

	// pending cannot close directly
	entry := l.Open(ctx, "content_1", item, testCommand("content_1"))
	if _, ok := l.Close(ctx, "content_1", entry.ID, domain.RevisionCompleted, nil); ok {
		t.Error("pending entry should not close")
	}

	// terminal entries never transition again
	l.MarkProcessing(ctx, "content_1", entry.ID)
	l.Close(ctx, "content_1", entry.ID, domain.RevisionFailed, nil)
	if _, ok := l.Close(ctx, "content_1", entry.ID, domain.RevisionCompleted, nil); ok {
		t.Error("failed entry should not re-close")
	}
	if l.MarkProcessing(ctx, "content_1", entry.ID) {
		t.Error("failed entry should not re-enter processing")
	}

	// non-terminal close target is rejected outright
	if _, ok := l.Close(ctx, "content_1", entry.ID, domain.RevisionProcessing, nil); ok {
		t.Error("Close to a non-terminal status should report false")
	}
}

func TestLedgerHistoryOrder(t *testing.T) {
	ctx := context.Background()
	l := newTestLedger(nil)
	item := &domain.ContentItem{ID: "content_1"}

	first := l.Open(ctx, "content_1", item, testCommand("content_1"))
	second := l.Open(ctx, "content_1", item, testCommand("content_1"))

	history := l.History("content_1")
	if len(history) != 2 {
		t.Fatalf("history len = %d", len(history))
	}
	if history[0].ID != first.ID || history[1].ID != second.ID {
		t.Errorf("history order = %s, %s", history[0].ID, history[1].ID)
	}

	latest, ok := l.Latest("content_1")
	if !ok || latest.ID != second.ID {
		t.Errorf("Latest = %+v, want %s", latest, second.ID)
	}
}

func TestLedgerAverageProcessingTime(t *testing.T) {
	ctx := context.Background()
	l := newTestLedger(nil)
	item := &domain.ContentItem{ID: "content_1"}

	// No entries: explicitly no average rather than zero
	if _, ok := l.AverageProcessingTime("content_1"); ok {
		t.Error("no entries should report no average")
	}

	base := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	now := base
	l.now = func() time.Time { return now }

	// First entry completes after 100ms
	e1 := l.Open(ctx, "content_1", item, testCommand("content_1"))
	l.MarkProcessing(ctx, "content_1", e1.ID)
	now = base.Add(100 * time.Millisecond)
	l.Close(ctx, "content_1", e1.ID, domain.RevisionCompleted, nil)

	// Second entry completes after 301ms
	now = base
	e2 := l.Open(ctx, "content_1", item, testCommand("content_1"))
	l.MarkProcessing(ctx, "content_1", e2.ID)
	now = base.Add(301 * time.Millisecond)
	l.Close(ctx, "content_1", e2.ID, domain.RevisionCompleted, nil)

	// Failed entry excluded from the average
	now = base
	e3 := l.Open(ctx, "content_1", item, testCommand("content_1"))
	l.MarkProcessing(ctx, "content_1", e3.ID)
	now = base.Add(10 * time.Second)
	l.Close(ctx, "content_1", e3.ID, domain.RevisionFailed, nil)

	avg, ok := l.AverageProcessingTime("content_1")
	if !ok {
		t.Fatal("expected an average")
	}
	want := 401 * time.Millisecond / 2
	if avg != want {
		t.Errorf("average = %v, want %v", avg, want)
	}
}

func TestLedgerArchiveFailureIsNonFatal(t *testing.T) {
	ctx := context.Background()
	archive := &mockArchiveRepo{
		recordErr: fmt.Errorf("disk full"),
		updateErr: fmt.Errorf("disk full"),
	}
	l := newTestLedger(archive)
	item := &domain.ContentItem{ID: "content_1"}

	entry := l.Open(ctx, "content_1", item, testCommand("content_1"))
	if entry == nil {
		t.Fatal("Open should succeed despite archive failure")
	}
	if !l.MarkProcessing(ctx, "content_1", entry.ID) {
		t.Error("MarkProcessing should succeed despite archive failure")
	}
	if _, ok := l.Close(ctx, "content_1", entry.ID, domain.RevisionCompleted, nil); !ok {
		t.Error("Close should succeed despite archive failure")
	}
}

func TestLedgerErrorDetailOnFailure(t *testing.T) {
	ctx := context.Background()
	l := newTestLedger(nil)
	item := &domain.ContentItem{ID: "content_1"}

	entry := l.Open(ctx, "content_1", item, testCommand("content_1"))
	l.MarkProcessing(ctx, "content_1", entry.ID)
	closed, ok := l.Close(ctx, "content_1", entry.ID, domain.RevisionFailed, &domain.RevisionMetadata{
		ErrorDetail: "publish rejected: title can't be blank",
	})
	if !ok {
		t.Fatal("Close should succeed")
	}
	if closed.Metadata.ErrorDetail != "publish rejected: title can't be blank" {
		t.Errorf("ErrorDetail = %q", closed.Metadata.ErrorDetail)
	}
}
