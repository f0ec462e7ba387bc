package repo

import (
	"context"

	"github.com/beastputty/beastblogger/internal/biz/domain"
)

// SnapshotRepo persists the storage snapshot.
//
// Load failing on first run is expected; callers proceed with an empty
// snapshot. Save must leave the prior on-disk snapshot intact when it
// fails (no partial overwrite).
type SnapshotRepo interface {
	Load(ctx context.Context) (*domain.StorageSnapshot, error)
	Save(ctx context.Context, snap *domain.StorageSnapshot) error
}
