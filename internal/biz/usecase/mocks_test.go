package usecase

import (
	"context"
	"sync"

	"github.com/beastputty/beastblogger/internal/biz/domain"
	"github.com/beastputty/beastblogger/internal/biz/repo"
)

// mockMailRepo records outbound messages.
type mockMailRepo struct {
	mu      sync.Mutex
	sent    []*repo.OutboundMessage
	sendErr error
}

func (m *mockMailRepo) Send(_ context.Context, msg *repo.OutboundMessage) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.sendErr != nil {
		return "", m.sendErr
	}
	m.sent = append(m.sent, msg)
	id := msg.MessageID
	if id == "" {
		id = "msg_generated@test"
	}
	return id, nil
}

func (m *mockMailRepo) messages() []*repo.OutboundMessage {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]*repo.OutboundMessage(nil), m.sent...)
}

// mockArchiveRepo records archive writes.
type mockArchiveRepo struct {
	mu        sync.Mutex
	recorded  []*domain.RevisionEntry
	updated   []*domain.RevisionEntry
	recordErr error
	updateErr error
}

func (m *mockArchiveRepo) Record(_ context.Context, entry *domain.RevisionEntry) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.recordErr != nil {
		return m.recordErr
	}
	m.recorded = append(m.recorded, entry)
	return nil
}

func (m *mockArchiveRepo) Update(_ context.Context, entry *domain.RevisionEntry) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.updateErr != nil {
		return m.updateErr
	}
	m.updated = append(m.updated, entry)
	return nil
}

func (m *mockArchiveRepo) ListByContent(_ context.Context, contentID string) ([]*domain.RevisionEntry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*domain.RevisionEntry
	for _, e := range m.recorded {
		if e.ContentID == contentID {
			out = append(out, e)
		}
	}
	return out, nil
}

func (m *mockArchiveRepo) Close() error { return nil }

// mockSnapshotRepo keeps the snapshot in memory.
type mockSnapshotRepo struct {
	mu      sync.Mutex
	snap    *domain.StorageSnapshot
	loadErr error
	saveErr error
	saves   int
}

func (m *mockSnapshotRepo) Load(_ context.Context) (*domain.StorageSnapshot, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.loadErr != nil {
		return nil, m.loadErr
	}
	if m.snap == nil {
		return nil, &domain.PersistenceError{Op: "load"}
	}
	return m.snap, nil
}

func (m *mockSnapshotRepo) Save(_ context.Context, snap *domain.StorageSnapshot) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.saveErr != nil {
		return m.saveErr
	}
	m.snap = snap
	m.saves++
	return nil
}

// mockGeneratorRepo returns a fixed draft.
type mockGeneratorRepo struct {
	mu           sync.Mutex
	draft        *domain.Draft
	err          error
	instructions []string
}

func (m *mockGeneratorRepo) Generate(_ context.Context, instruction string, _ []string) (*domain.Draft, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.instructions = append(m.instructions, instruction)
	if m.err != nil {
		return nil, m.err
	}
	if m.draft != nil {
		return m.draft, nil
	}
	return &domain.Draft{
		Title:    "Generated Title",
		Excerpt:  "Generated excerpt",
		BodyHTML: "<p>Generated body</p>",
		Keywords: []string{"generated"},
	}, nil
}

// mockImageRepo returns fixed scenario and image.
type mockImageRepo struct {
	scenarioErr error
	imageErr    error
}

func (m *mockImageRepo) GenerateScenario(_ context.Context, summary string, keywords []string) (*domain.ImageScenario, error) {
	if m.scenarioErr != nil {
		return nil, m.scenarioErr
	}
	return &domain.ImageScenario{
		Description:      "A putty beast at work",
		Prompt:           "putty beast, studio light",
		RelevantKeywords: keywords,
	}, nil
}

func (m *mockImageRepo) GenerateImage(_ context.Context, scenario *domain.ImageScenario) (*domain.Image, error) {
	if m.imageErr != nil {
		return nil, m.imageErr
	}
	return &domain.Image{
		URL: "https://img.example/new.png",
		Alt: scenario.Description,
	}, nil
}

// mockPublisherRepo records publish requests.
type mockPublisherRepo struct {
	mu       sync.Mutex
	requests []*repo.PublishRequest
	resp     *repo.PublishResponse
	err      error
}

func (m *mockPublisherRepo) Publish(_ context.Context, req *repo.PublishRequest) (*repo.PublishResponse, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.requests = append(m.requests, req)
	if m.err != nil {
		return nil, m.err
	}
	if m.resp != nil {
		return m.resp, nil
	}
	return &repo.PublishResponse{ExternalID: "ext_1", Handle: "generated-title"}, nil
}
