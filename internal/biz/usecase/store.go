package usecase

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/beastputty/beastblogger/internal/biz/domain"
	"github.com/beastputty/beastblogger/internal/biz/repo"
)

// Store owns the registry-wide state behind administrative commands:
// published posts, keyword list, generated image records and upload
// history. It holds the storage snapshot in memory and writes it
// through the snapshot repository on every mutation.
type Store struct {
	repo repo.SnapshotRepo

	mu   sync.RWMutex
	snap *domain.StorageSnapshot
}

// PostSummary is one line of a post listing.
type PostSummary struct {
	ID           string
	Title        string
	LastModified time.Time
}

// NewStore creates a store backed by the given snapshot repository.
func NewStore(r repo.SnapshotRepo) *Store {
	return &Store{
		repo: r,
		snap: domain.NewStorageSnapshot(),
	}
}

// Load replaces the in-memory state with the persisted snapshot. A load
// failure is non-fatal: the store keeps its empty state, matching a
// first-run condition, and the error is returned for logging only.
func (s *Store) Load(ctx context.Context) error {
	snap, err := s.repo.Load(ctx)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if snap.Posts == nil {
		snap.Posts = make(map[string]domain.StoredPost)
	}
	if snap.Drafts == nil {
		snap.Drafts = make(map[string]*domain.ContentItem)
	}
	if snap.Images == nil {
		snap.Images = make(map[string]domain.GeneratedImageRecord)
	}
	s.snap = snap
	return nil
}

// Flush persists the current state, folding in the given in-review
// drafts. A save failure propagates and leaves the prior on-disk
// snapshot intact.
func (s *Store) Flush(ctx context.Context, drafts map[string]*domain.ContentItem) error {
	// Held across the save so the snapshot cannot change mid-write.
	s.mu.Lock()
	defer s.mu.Unlock()

	if drafts != nil {
		s.snap.Drafts = drafts
	}
	if err := s.repo.Save(ctx, s.snap); err != nil {
		return fmt.Errorf("failed to flush store: %w", err)
	}
	return nil
}

// Drafts returns the persisted in-review drafts.
func (s *Store) Drafts() map[string]*domain.ContentItem {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make(map[string]*domain.ContentItem, len(s.snap.Drafts))
	for id, item := range s.snap.Drafts {
		out[id] = item.Clone()
	}
	return out
}

// Keywords returns the current keyword list.
func (s *Store) Keywords() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]string(nil), s.snap.Keywords...)
}

// UpdateKeywords replaces the keyword list and persists.
func (s *Store) UpdateKeywords(ctx context.Context, keywords []string) error {
	s.mu.Lock()
	s.snap.Keywords = append([]string(nil), keywords...)
	s.mu.Unlock()
	return s.Flush(ctx, nil)
}

// Posts lists the stored posts.
func (s *Store) Posts() []PostSummary {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]PostSummary, 0, len(s.snap.Posts))
	for id, p := range s.snap.Posts {
		title := ""
		if p.Content != nil {
			title = p.Content.Title
		}
		out = append(out, PostSummary{ID: id, Title: title, LastModified: p.LastModified})
	}
	return out
}

// SavePost stores a post and persists.
func (s *Store) SavePost(ctx context.Context, contentID string, item *domain.ContentItem) error {
	s.mu.Lock()
	s.snap.Posts[contentID] = domain.StoredPost{
		Content:      item.Clone(),
		LastModified: time.Now(),
	}
	s.mu.Unlock()
	return s.Flush(ctx, nil)
}

// DeletePost removes a stored post and persists. Unknown ids are a
// no-op.
func (s *Store) DeletePost(ctx context.Context, contentID string) error {
	s.mu.Lock()
	delete(s.snap.Posts, contentID)
	s.mu.Unlock()
	return s.Flush(ctx, nil)
}

// RecordUpload appends to the publish history and persists.
func (s *Store) RecordUpload(ctx context.Context, rec domain.UploadRecord) error {
	s.mu.Lock()
	s.snap.UploadHistory = append(s.snap.UploadHistory, rec)
	s.mu.Unlock()
	return s.Flush(ctx, nil)
}

// RecordImage tracks a generated image and persists.
func (s *Store) RecordImage(ctx context.Context, contentID string, img *domain.Image, scenario *domain.ImageScenario) error {
	rec := domain.GeneratedImageRecord{
		URL:       img.URL,
		Timestamp: time.Now(),
	}
	if scenario != nil {
		rec.Scenario = *scenario
	}

	s.mu.Lock()
	s.snap.Images[contentID+"/"+img.URL] = rec
	s.mu.Unlock()
	return s.Flush(ctx, nil)
}
