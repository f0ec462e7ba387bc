package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/beastputty/beastblogger/internal/biz/domain"
)

func TestStoreLoadFailureKeepsEmptyState(t *testing.T) {
	repo := &mockSnapshotRepo{loadErr: &domain.PersistenceError{Op: "load"}}
	s := NewStore(repo)

	if err := s.Load(context.Background()); err == nil {
		t.Fatal("expected load error")
	}

	// Store stays usable with first-run state
	if got := s.Keywords(); len(got) != 0 {
		t.Errorf("Keywords = %v", got)
	}
	if got := s.Drafts(); len(got) != 0 {
		t.Errorf("Drafts = %v", got)
	}
}

func TestStoreLoadNormalizesNilMaps(t *testing.T) {
	repo := &mockSnapshotRepo{snap: &domain.StorageSnapshot{Keywords: []string{"putty"}}}
	s := NewStore(repo)

	if err := s.Load(context.Background()); err != nil {
		t.Fatalf("Load error: %v", err)
	}

	// Mutations must not panic on maps the file left null
	if err := s.SavePost(context.Background(), "content_1", &domain.ContentItem{Title: "T"}); err != nil {
		t.Fatalf("SavePost error: %v", err)
	}
	if err := s.RecordImage(context.Background(), "content_1", &domain.Image{URL: "u"}, nil); err != nil {
		t.Fatalf("RecordImage error: %v", err)
	}
	if got := s.Keywords(); len(got) != 1 || got[0] != "putty" {
		t.Errorf("Keywords = %v", got)
	}
}

func TestStoreMutationsPersist(t *testing.T) {
	repo := &mockSnapshotRepo{}
	s := NewStore(repo)
	ctx := context.Background()

	if err := s.UpdateKeywords(ctx, []string{"putty", "beast"}); err != nil {
		t.Fatal(err)
	}
	if err := s.SavePost(ctx, "content_1", &domain.ContentItem{Title: "Post"}); err != nil {
		t.Fatal(err)
	}
	if err := s.RecordUpload(ctx, domain.UploadRecord{ContentID: "content_1", ExternalID: "ext"}); err != nil {
		t.Fatal(err)
	}

	if repo.saves != 3 {
		t.Errorf("saves = %d, want 3", repo.saves)
	}
	if len(repo.snap.Posts) != 1 || len(repo.snap.UploadHistory) != 1 {
		t.Errorf("persisted snapshot = %+v", repo.snap)
	}

	posts := s.Posts()
	if len(posts) != 1 || posts[0].Title != "Post" {
		t.Errorf("Posts = %+v", posts)
	}
}

func TestStoreFlushFoldsDrafts(t *testing.T) {
	repo := &mockSnapshotRepo{}
	s := NewStore(repo)

	drafts := map[string]*domain.ContentItem{
		"content_1": {Title: "In Review"},
	}
	if err := s.Flush(context.Background(), drafts); err != nil {
		t.Fatalf("Flush error: %v", err)
	}
	if len(repo.snap.Drafts) != 1 || repo.snap.Drafts["content_1"].Title != "In Review" {
		t.Errorf("persisted drafts = %+v", repo.snap.Drafts)
	}
}

func TestStoreSaveFailurePropagates(t *testing.T) {
	saveErr := &domain.PersistenceError{Op: "save"}
	repo := &mockSnapshotRepo{saveErr: saveErr}
	s := NewStore(repo)

	err := s.UpdateKeywords(context.Background(), []string{"putty"})
	var pErr *domain.PersistenceError
	if !errors.As(err, &pErr) {
		t.Errorf("err = %v, want PersistenceError", err)
	}
}

func TestStoreDeletePostUnknownIsNoop(t *testing.T) {
	repo := &mockSnapshotRepo{}
	s := NewStore(repo)
	if err := s.DeletePost(context.Background(), "missing"); err != nil {
		t.Errorf("DeletePost error: %v", err)
	}
}
