package repo

import (
	"context"

	"github.com/beastputty/beastblogger/internal/biz/domain"
)

// PublishRequest is the payload sent to the publishing platform.
type PublishRequest struct {
	Title    string
	BodyHTML string
	Excerpt  string
	Image    *domain.Image // optional lead image
}

// PublishResponse holds the identifiers of the published article.
type PublishResponse struct {
	ExternalID string
	Handle     string
}

// PublisherRepo uploads articles to the publishing platform.
// Validation rejections fail with a PublishError carrying the
// platform's field-level messages.
type PublisherRepo interface {
	Publish(ctx context.Context, req *PublishRequest) (*PublishResponse, error)
}
