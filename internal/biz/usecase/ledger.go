package usecase

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/beastputty/beastblogger/internal/biz/domain"
	"github.com/beastputty/beastblogger/internal/biz/repo"
)

// Ledger records one revision entry per command applied to a content
// item. Entries are append-only per content id and kept for the life of
// the process; every entry is also written through to the archive so
// the audit trail survives restarts.
//
// Ledger mutations take the same per-content lock as the registry, so a
// snapshot taken at Open is consistent with the mutation that follows.
type Ledger struct {
	locks   *KeyLocks
	archive repo.ArchiveRepo // optional

	mu      sync.RWMutex // guards the map structure only
	entries map[string][]*domain.RevisionEntry

	now   func() time.Time
	newID func() string
}

// NewLedger creates a ledger sharing the registry's lock set. archive
// may be nil when durable audit is disabled.
func NewLedger(locks *KeyLocks, archive repo.ArchiveRepo) *Ledger {
	return &Ledger{
		locks:   locks,
		archive: archive,
		entries: make(map[string][]*domain.RevisionEntry),
		now:     time.Now,
		newID:   func() string { return "rev_" + uuid.NewString() },
	}
}

// Open appends a new pending entry for contentID, snapshotting the
// given content state for audit.
func (l *Ledger) Open(ctx context.Context, contentID string, snapshot *domain.ContentItem, cmd domain.Command) *domain.RevisionEntry {
	l.locks.Lock(contentID)
	defer l.locks.Unlock(contentID)

	entry := &domain.RevisionEntry{
		ID:        l.newID(),
		ContentID: contentID,
		Snapshot:  snapshot.Clone(),
		Command:   cmd,
		CreatedAt: l.now(),
		Status:    domain.RevisionPending,
		Metadata: domain.RevisionMetadata{
			CommandContext: cmd.Context,
		},
	}

	l.mu.Lock()
	l.entries[contentID] = append(l.entries[contentID], entry)
	l.mu.Unlock()

	if l.archive != nil {
		if err := l.archive.Record(ctx, entry); err != nil {
			fmt.Printf("[Ledger] Archive record failed for %s: %v\n", entry.ID, err)
		}
	}

	return copyEntry(entry)
}

// MarkProcessing transitions a pending entry to processing. Returns
// false if the id pair is unknown or the transition is not allowed.
func (l *Ledger) MarkProcessing(ctx context.Context, contentID, revisionID string) bool {
	l.locks.Lock(contentID)
	defer l.locks.Unlock(contentID)

	entry := l.find(contentID, revisionID)
	if entry == nil || !entry.Status.CanTransition(domain.RevisionProcessing) {
		return false
	}
	entry.Status = domain.RevisionProcessing

	l.archiveUpdate(ctx, entry)
	return true
}

// Close transitions an entry to a terminal status, computing the
// processing time as the wall-clock delta from CreatedAt. The second
// return is false when the id pair does not exist or the entry cannot
// transition; the ledger fails silently in that case.
func (l *Ledger) Close(ctx context.Context, contentID, revisionID string, status domain.RevisionStatus, metadata *domain.RevisionMetadata) (*domain.RevisionEntry, bool) {
	if !status.Terminal() {
		return nil, false
	}

	l.locks.Lock(contentID)
	defer l.locks.Unlock(contentID)

	entry := l.find(contentID, revisionID)
	if entry == nil || !entry.Status.CanTransition(status) {
		return nil, false
	}

	entry.Status = status
	entry.Metadata.ProcessingTimeMs = l.now().Sub(entry.CreatedAt).Milliseconds()
	if metadata != nil {
		if metadata.ErrorDetail != "" {
			entry.Metadata.ErrorDetail = metadata.ErrorDetail
		}
		if metadata.CommandContext != nil {
			entry.Metadata.CommandContext = metadata.CommandContext
		}
	}

	l.archiveUpdate(ctx, entry)
	return copyEntry(entry), true
}

// History returns the entries for contentID in creation order.
func (l *Ledger) History(contentID string) []*domain.RevisionEntry {
	l.locks.Lock(contentID)
	defer l.locks.Unlock(contentID)

	l.mu.RLock()
	defer l.mu.RUnlock()

	entries := l.entries[contentID]
	out := make([]*domain.RevisionEntry, len(entries))
	for i, e := range entries {
		out[i] = copyEntry(e)
	}
	return out
}

// Latest returns the most recent entry for contentID.
func (l *Ledger) Latest(contentID string) (*domain.RevisionEntry, bool) {
	l.locks.Lock(contentID)
	defer l.locks.Unlock(contentID)

	l.mu.RLock()
	defer l.mu.RUnlock()

	entries := l.entries[contentID]
	if len(entries) == 0 {
		return nil, false
	}
	return copyEntry(entries[len(entries)-1]), true
}

// AverageProcessingTime returns the arithmetic mean processing time
// over completed entries only. The second return is false when no
// completed entries exist: an average of zero would imply a true
// zero-latency revision occurred.
func (l *Ledger) AverageProcessingTime(contentID string) (time.Duration, bool) {
	l.locks.Lock(contentID)
	defer l.locks.Unlock(contentID)

	l.mu.RLock()
	defer l.mu.RUnlock()

	var total int64
	var count int64
	for _, e := range l.entries[contentID] {
		if e.Status == domain.RevisionCompleted {
			total += e.Metadata.ProcessingTimeMs
			count++
		}
	}
	if count == 0 {
		return 0, false
	}
	return time.Duration(total) * time.Millisecond / time.Duration(count), true
}

func (l *Ledger) find(contentID, revisionID string) *domain.RevisionEntry {
	l.mu.RLock()
	defer l.mu.RUnlock()

	for _, e := range l.entries[contentID] {
		if e.ID == revisionID {
			return e
		}
	}
	return nil
}

func (l *Ledger) archiveUpdate(ctx context.Context, entry *domain.RevisionEntry) {
	if l.archive == nil {
		return
	}
	if err := l.archive.Update(ctx, entry); err != nil {
		fmt.Printf("[Ledger] Archive update failed for %s: %v\n", entry.ID, err)
	}
}

func copyEntry(e *domain.RevisionEntry) *domain.RevisionEntry {
	cp := *e
	cp.Snapshot = e.Snapshot.Clone()
	return &cp
}
