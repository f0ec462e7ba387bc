package repo

import (
	"context"

	"github.com/beastputty/beastblogger/internal/biz/domain"
)

// GeneratorRepo is the content generation collaborator.
// Drafts come back with BodyHTML already restricted to the allow-listed
// tag set; a draft violating it fails with a GenerationError.
type GeneratorRepo interface {
	Generate(ctx context.Context, instruction string, keywords []string) (*domain.Draft, error)
}
