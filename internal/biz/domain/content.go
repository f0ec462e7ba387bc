package domain

import "time"

// MaxExcerptLen is the maximum excerpt length accepted from the generator.
const MaxExcerptLen = 160

// AllowedBodyTags is the tag allow-list for generated article HTML.
// Content violating it is a generator defect, not something the
// workflow repairs.
var AllowedBodyTags = map[string]bool{
	"h1": true, "h2": true, "h3": true, "h4": true, "h5": true, "h6": true,
	"p": true, "a": true, "b": true, "i": true,
}

// Urgency is the reviewer-supplied priority of a request.
type Urgency string

const (
	UrgencyLow    Urgency = "low"
	UrgencyMedium Urgency = "medium"
	UrgencyHigh   Urgency = "high"
)

// Valid reports whether u is one of the known urgency levels.
func (u Urgency) Valid() bool {
	switch u {
	case UrgencyLow, UrgencyMedium, UrgencyHigh:
		return true
	}
	return false
}

// Link is a hyperlink carried by an article body.
type Link struct {
	URL        string `json:"url"`
	Text       string `json:"text"`
	IsInternal bool   `json:"isInternal"`
}

// Image is a generated article image.
type Image struct {
	URL     string `json:"url"`
	Alt     string `json:"alt"`
	Caption string `json:"caption"`
}

// PublishRecord holds the external identifiers returned by the
// publishing platform after a successful upload.
type PublishRecord struct {
	ExternalID  string    `json:"externalId"`
	Handle      string    `json:"handle"`
	PublishedAt time.Time `json:"publishedAt"`
}

// Rejection is one reviewer rejection of a content item.
type Rejection struct {
	Timestamp time.Time `json:"timestamp"`
	Feedback  string    `json:"feedback,omitempty"`
	Tone      string    `json:"tone,omitempty"`
	Issues    []string  `json:"issues,omitempty"`
	Urgency   Urgency   `json:"urgency,omitempty"`
}

// ContentItem is the blog draft under review. It is identified by an
// opaque id that stays stable for the life of the review cycle and is
// mutated exclusively through the registry.
type ContentItem struct {
	ID               string         `json:"id"`
	Title            string         `json:"title"`
	Excerpt          string         `json:"excerpt"`
	BodyHTML         string         `json:"bodyHtml"`
	Keywords         []string       `json:"keywords"`
	Links            []Link         `json:"links"`
	Images           []Image        `json:"images"`
	PublishRecord    *PublishRecord `json:"publishRecord,omitempty"`
	RejectionHistory []Rejection    `json:"rejectionHistory,omitempty"`
}

// Clone returns a deep copy, used for revision snapshots.
func (c *ContentItem) Clone() *ContentItem {
	if c == nil {
		return nil
	}
	cp := *c
	cp.Keywords = append([]string(nil), c.Keywords...)
	cp.Links = append([]Link(nil), c.Links...)
	cp.Images = append([]Image(nil), c.Images...)
	if c.PublishRecord != nil {
		pr := *c.PublishRecord
		cp.PublishRecord = &pr
	}
	cp.RejectionHistory = make([]Rejection, len(c.RejectionHistory))
	for i, r := range c.RejectionHistory {
		cp.RejectionHistory[i] = r
		cp.RejectionHistory[i].Issues = append([]string(nil), r.Issues...)
	}
	return &cp
}
