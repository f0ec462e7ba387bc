package repo

import (
	"context"

	"github.com/beastputty/beastblogger/internal/biz/domain"
)

// ArchiveRepo is the durable audit store behind the revision ledger
// (SQLite). Archive writes are best-effort: a failure is logged by the
// ledger, never surfaced into the dispatch path.
type ArchiveRepo interface {
	// Record inserts a newly opened revision entry.
	Record(ctx context.Context, entry *domain.RevisionEntry) error

	// Update rewrites the status and metadata of an existing entry.
	Update(ctx context.Context, entry *domain.RevisionEntry) error

	// ListByContent returns all archived entries for a content id in
	// creation order.
	ListByContent(ctx context.Context, contentID string) ([]*domain.RevisionEntry, error)

	Close() error
}
