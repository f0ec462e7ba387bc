package repo

import (
	"context"

	"github.com/beastputty/beastblogger/internal/biz/domain"
)

// ImageRepo is the image generation collaborator.
type ImageRepo interface {
	// GenerateScenario builds an image scenario from a content summary
	// and the keywords the image should connect to.
	GenerateScenario(ctx context.Context, summary string, keywords []string) (*domain.ImageScenario, error)

	// GenerateImage renders a scenario into a hosted image.
	GenerateImage(ctx context.Context, scenario *domain.ImageScenario) (*domain.Image, error)
}
