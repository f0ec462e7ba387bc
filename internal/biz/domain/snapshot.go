package domain

import "time"

// StoredPost is a content item as persisted in the snapshot file.
type StoredPost struct {
	Content      *ContentItem `json:"content"`
	LastModified time.Time    `json:"lastModified"`
}

// GeneratedImageRecord tracks one generated image and the scenario that
// produced it.
type GeneratedImageRecord struct {
	URL       string        `json:"url"`
	Scenario  ImageScenario `json:"scenario"`
	Timestamp time.Time     `json:"timestamp"`
}

// UploadRecord is one successful publish, kept for history.
type UploadRecord struct {
	ContentID  string    `json:"contentId"`
	ExternalID string    `json:"externalId"`
	Handle     string    `json:"handle"`
	UploadedAt time.Time `json:"uploadedAt"`
}

// Settings holds operator-tunable defaults.
type Settings struct {
	DefaultTone    string  `json:"defaultTone,omitempty"`
	DefaultUrgency Urgency `json:"defaultUrgency,omitempty"`
	AutoPublish    bool    `json:"autoPublish,omitempty"`
}

// StorageSnapshot is the serializable aggregate handed to the
// persistence collaborator. No schema migration is assumed.
type StorageSnapshot struct {
	Posts         map[string]StoredPost           `json:"posts"`
	Drafts        map[string]*ContentItem         `json:"drafts"`
	Images        map[string]GeneratedImageRecord `json:"images"`
	Keywords      []string                        `json:"keywords"`
	UploadHistory []UploadRecord                  `json:"uploadHistory"`
	Settings      Settings                        `json:"settings"`
}

// NewStorageSnapshot returns an empty snapshot with initialized maps,
// matching a first-run state.
func NewStorageSnapshot() *StorageSnapshot {
	return &StorageSnapshot{
		Posts:  make(map[string]StoredPost),
		Drafts: make(map[string]*ContentItem),
		Images: make(map[string]GeneratedImageRecord),
	}
}

// ImageScenario describes the scene an image should depict.
type ImageScenario struct {
	Description      string   `json:"description"`
	Prompt           string   `json:"prompt"`
	RelevantKeywords []string `json:"relevantKeywords"`
}

// Draft is the generator's output before it becomes a registered
// content item.
type Draft struct {
	Title    string
	Excerpt  string
	BodyHTML string
	Keywords []string
	Links    []Link
}
